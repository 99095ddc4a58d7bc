package recognizer

import (
	"bytes"
	"context"
	"fmt"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/packages/param"

	"github.com/streamcribe/streamcribe/internal/asrerr"
	"github.com/streamcribe/streamcribe/internal/audio"
)

// OpenAICloud is the cloud-API recognizer variant, backed by the OpenAI
// audio transcription endpoint. Construction mirrors the provider-client
// pattern this codebase already uses for its LLM backends: an API key and
// base URL resolved once, at startup, never per session.
type OpenAICloud struct {
	client openai.Client
	model  string
}

// NewOpenAICloud returns an OpenAICloud client. baseURL may be empty to
// use the default OpenAI API endpoint (allowing OpenAI-compatible
// self-hosted transcription servers to be pointed at instead).
func NewOpenAICloud(apiKey, baseURL, model string) *OpenAICloud {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAICloud{client: openai.NewClient(opts...), model: model}
}

func (o *OpenAICloud) Capability() Capability {
	return Capability{PreferredSampleRate: audio.SampleRate, MaxAudioSeconds: 25, SupportsPrompt: true}
}

func (o *OpenAICloud) Transcribe(ctx context.Context, samples []float32, prompt, language string) (Hypothesis, error) {
	wav := audio.SamplesToWAV(samples, audio.SampleRate)

	params := openai.AudioTranscriptionNewParams{
		Model:          o.model,
		File:           bytes.NewReader(wav),
		ResponseFormat: openai.AudioResponseFormatVerboseJSON,
	}
	if prompt != "" {
		params.Prompt = param.NewOpt(TruncatePrompt(prompt))
	}
	if language != "" {
		params.Language = param.NewOpt(language)
	}

	resp, err := o.client.Audio.Transcriptions.New(ctx, params)
	if err != nil {
		return Hypothesis{}, fmt.Errorf("%w: %v", asrerr.RecognizerUnavailable, err)
	}

	if len(resp.Segments) == 0 {
		return Hypothesis{Words: InterpolateWords(resp.Text, 0, float64(len(samples))/audio.SampleRate)}, nil
	}
	var words []Word
	for _, seg := range resp.Segments {
		words = append(words, InterpolateWords(seg.Text, seg.Start, seg.End)...)
	}
	return Hypothesis{Words: words}, nil
}
