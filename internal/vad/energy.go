package vad

import "math"

// EnergyGate is the stdlib fallback Gate used when no Silero ONNX model is
// configured. It windows audio into fixed frames, scores each by RMS
// energy in dBFS against a threshold, and merges the frame-level
// speech/silence calls into intervals. Adapted from an RMS energy
// threshold approach; unlike a streaming detector it is stateless across
// calls, matching the engine's classify(audio) -> intervals contract.
type EnergyGate struct {
	// ThresholdDB is the RMS energy level, in dBFS, above which a frame
	// counts as speech. Typical speech sits well above -30 dBFS; quiet
	// room tone sits below -45.
	ThresholdDB float64
	// FrameMs is the analysis window size in milliseconds.
	FrameMs int
}

// NewEnergyGate returns an EnergyGate with defaults tuned for 16kHz
// telephony-grade speech.
func NewEnergyGate() *EnergyGate {
	return &EnergyGate{ThresholdDB: -35, FrameMs: 30}
}

func (g *EnergyGate) Classify(audio []float32, sampleRate int) ([]Interval, error) {
	if len(audio) == 0 {
		return nil, nil
	}
	frameMs := g.FrameMs
	if frameMs <= 0 {
		frameMs = 30
	}
	frameLen := max(1, sampleRate*frameMs/1000)

	var raw []Interval
	for start := 0; start < len(audio); start += frameLen {
		end := min(start+frameLen, len(audio))
		kind := Silence
		if energyDB(audio[start:end]) >= g.ThresholdDB {
			kind = Speech
		}
		startS := float64(start) / float64(sampleRate)
		endS := float64(end) / float64(sampleRate)
		if n := len(raw); n > 0 && raw[n-1].Kind == kind {
			raw[n-1].EndS = endS
			continue
		}
		raw = append(raw, Interval{StartS: startS, EndS: endS, Kind: kind})
	}
	return mergeShortSilences(raw, MinSilenceS), nil
}

func energyDB(samples []float32) float64 {
	if len(samples) == 0 {
		return -100
	}
	var sum float64
	for _, s := range samples {
		sum += float64(s) * float64(s)
	}
	rms := math.Sqrt(sum / float64(len(samples)))
	if rms < 1e-10 {
		return -100
	}
	return 20 * math.Log10(rms)
}
