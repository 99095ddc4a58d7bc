package vad

import (
	"fmt"

	"github.com/streamer45/silero-vad-go/speech"
)

// SileroGate wraps the Silero ONNX voice activity model as a Gate. Each
// Classify call opens a fresh detector run over the given window and
// resets it afterward, so a SileroGate is safe to reuse sequentially
// across engine ticks the way C3 recognizer instances are.
type SileroGate struct {
	ModelPath   string
	Threshold   float32
	SpeechPadMs int
}

// NewSileroGate returns a SileroGate with defaults matching the model's
// reference configuration.
func NewSileroGate(modelPath string) *SileroGate {
	return &SileroGate{ModelPath: modelPath, Threshold: 0.5, SpeechPadMs: 100}
}

func (g *SileroGate) Classify(audio []float32, sampleRate int) ([]Interval, error) {
	if len(audio) == 0 {
		return nil, nil
	}
	minSilenceMs := int(MinSilenceS * 1000)
	detector, err := speech.NewDetector(speech.DetectorConfig{
		ModelPath:            g.ModelPath,
		SampleRate:           sampleRate,
		Threshold:            g.Threshold,
		MinSilenceDurationMs: minSilenceMs,
		SpeechPadMs:          g.SpeechPadMs,
	})
	if err != nil {
		return nil, fmt.Errorf("vad: create silero detector: %w", err)
	}
	defer detector.Destroy()

	segments, err := detector.Detect(audio)
	if err != nil {
		return nil, fmt.Errorf("vad: silero detect: %w", err)
	}

	totalS := float64(len(audio)) / float64(sampleRate)
	return tileFromSpeechSegments(segments, totalS), nil
}

// tileFromSpeechSegments converts Silero's speech-only segment list into
// an exact tiling of [0, totalS] alternating speech/silence, per the Gate
// contract that output intervals must cover the input exactly.
func tileFromSpeechSegments(segments []speech.Segment, totalS float64) []Interval {
	var out []Interval
	cursor := 0.0
	for _, seg := range segments {
		start := seg.SpeechStartAt
		end := seg.SpeechEndAt
		if end == 0 || end > totalS {
			end = totalS
		}
		if start > cursor {
			out = append(out, Interval{StartS: cursor, EndS: start, Kind: Silence})
		}
		out = append(out, Interval{StartS: start, EndS: end, Kind: Speech})
		cursor = end
	}
	if cursor < totalS {
		out = append(out, Interval{StartS: cursor, EndS: totalS, Kind: Silence})
	}
	if len(out) == 0 {
		out = append(out, Interval{StartS: 0, EndS: totalS, Kind: Silence})
	}
	return mergeShortSilences(out, MinSilenceS)
}
