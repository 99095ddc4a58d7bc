// WhisperNative implements the GPU/CGO recognizer variant using the
// whisper.cpp Go bindings directly, eliminating HTTP overhead. The model
// is loaded once and shared across all sessions; libwhisper and its
// headers must be available at link time via LIBRARY_PATH/C_INCLUDE_PATH.

package recognizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	whisperlib "github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"

	"github.com/streamcribe/streamcribe/internal/asrerr"
	"github.com/streamcribe/streamcribe/internal/audio"
)

// WhisperNative wraps a whisper.cpp model loaded once via CGO bindings.
// Each Transcribe call opens its own context: contexts are not
// thread-safe, but the underlying model can be shared across goroutines.
type WhisperNative struct {
	model whisperlib.Model
}

// NewWhisperNative loads a whisper.cpp model from modelPath.
func NewWhisperNative(modelPath string) (*WhisperNative, error) {
	model, err := whisperlib.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("%w: load model %q: %v", asrerr.RecognizerUnavailable, modelPath, err)
	}
	return &WhisperNative{model: model}, nil
}

// Close releases the underlying model. Call once at process shutdown.
func (w *WhisperNative) Close() error {
	return w.model.Close()
}

func (w *WhisperNative) Capability() Capability {
	return Capability{PreferredSampleRate: audio.SampleRate, MaxAudioSeconds: 30, SupportsPrompt: true}
}

func (w *WhisperNative) Transcribe(ctx context.Context, samples []float32, prompt, language string) (Hypothesis, error) {
	wctx, err := w.model.NewContext()
	if err != nil {
		return Hypothesis{}, fmt.Errorf("%w: create context: %v", asrerr.RecognizerTransient, err)
	}

	if language != "" {
		if err := wctx.SetLanguage(language); err != nil {
			return Hypothesis{}, fmt.Errorf("%w: set language %q: %v", asrerr.RecognizerTransient, language, err)
		}
	}
	if prompt != "" {
		wctx.SetInitialPrompt(TruncatePrompt(prompt))
	}

	if err := ctx.Err(); err != nil {
		return Hypothesis{}, fmt.Errorf("%w: %v", asrerr.RecognizerTransient, err)
	}
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return Hypothesis{}, fmt.Errorf("%w: process audio: %v", asrerr.RecognizerTransient, err)
	}

	var words []Word
	for {
		segment, err := wctx.NextSegment()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Hypothesis{}, fmt.Errorf("%w: read segment: %v", asrerr.RecognizerTransient, err)
		}
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		words = append(words, InterpolateWords(text, segment.Start.Seconds(), segment.End.Seconds())...)
	}

	return Hypothesis{Words: words}, nil
}
