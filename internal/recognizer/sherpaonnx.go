package recognizer

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"

	"github.com/streamcribe/streamcribe/internal/asrerr"
	"github.com/streamcribe/streamcribe/internal/audio"
)

// SherpaOnnx is the on-device/Apple-Silicon recognizer variant, backed by
// an offline sherpa-onnx recognizer. The recognizer instance is loaded
// once at construction and is safe to share; each Transcribe call opens
// its own stream, following the same one-context-per-call shape as the
// native whisper.cpp variant.
type SherpaOnnx struct {
	mu  sync.Mutex // sherpa-onnx's CGO recognizer is not verified thread-safe
	rec *sherpa.OfflineRecognizer
}

// SherpaOnnxConfig points at an on-disk encoder/decoder/tokens triple for
// a whisper-family ONNX export, the configuration shape sherpa-onnx-go
// expects.
type SherpaOnnxConfig struct {
	Encoder string
	Decoder string
	Tokens  string
	Model   string // whisper model size tag, e.g. "base"; NewSherpaOnnx does not read it
}

// NewSherpaOnnx constructs and loads a sherpa-onnx offline recognizer.
func NewSherpaOnnx(cfg SherpaOnnxConfig) (*SherpaOnnx, error) {
	config := &sherpa.OfflineRecognizerConfig{
		ModelConfig: sherpa.OfflineModelConfig{
			Whisper: sherpa.OfflineWhisperModelConfig{
				Encoder: cfg.Encoder,
				Decoder: cfg.Decoder,
				Language: "",
				Task:     "transcribe",
			},
			Tokens:     cfg.Tokens,
			NumThreads: runtime.NumCPU(),
			Debug:      0,
		},
	}

	rec := sherpa.NewOfflineRecognizer(config)
	if rec == nil {
		return nil, fmt.Errorf("%w: sherpa-onnx: failed to create offline recognizer", asrerr.RecognizerUnavailable)
	}
	return &SherpaOnnx{rec: rec}, nil
}

func (s *SherpaOnnx) Capability() Capability {
	return Capability{PreferredSampleRate: audio.SampleRate, MaxAudioSeconds: 30, SupportsPrompt: false}
}

func (s *SherpaOnnx) Transcribe(ctx context.Context, samples []float32, prompt, language string) (Hypothesis, error) {
	if err := ctx.Err(); err != nil {
		return Hypothesis{}, fmt.Errorf("%w: %v", asrerr.RecognizerTransient, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stream := sherpa.NewOfflineStream(s.rec)
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(audio.SampleRate, samples)
	s.rec.Decode(stream)

	result := stream.GetResult()
	text := result.Text
	if text == "" {
		return Hypothesis{}, nil
	}

	totalS := float64(len(samples)) / audio.SampleRate
	return Hypothesis{Words: InterpolateWords(text, 0, totalS)}, nil
}
