package recognizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/streamcribe/streamcribe/internal/audio"
	"github.com/streamcribe/streamcribe/internal/asrerr"
)

// WhisperServer is the CPU/HTTP recognizer variant: it buffers a window,
// encodes it as WAV, and POSTs it to a running whisper.cpp server's
// /inference endpoint as multipart form data.
type WhisperServer struct {
	url    string
	model  string
	client *http.Client
}

// NewWhisperServer returns a WhisperServer pointed at a whisper.cpp
// server's base URL (e.g. "http://localhost:8080"). model, if non-empty,
// is forwarded as a form field; an empty model lets the server use
// whichever model it was started with.
func NewWhisperServer(url, model string, poolSize int) *WhisperServer {
	return &WhisperServer{
		url:    url,
		model:  model,
		client: newPooledHTTPClient(poolSize, 30*time.Second),
	}
}

func (w *WhisperServer) Capability() Capability {
	return Capability{PreferredSampleRate: audio.SampleRate, MaxAudioSeconds: 30, SupportsPrompt: true}
}

type whisperServerResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (w *WhisperServer) Transcribe(ctx context.Context, samples []float32, prompt, language string) (Hypothesis, error) {
	body, contentType, err := w.buildRequestBody(samples, prompt, language)
	if err != nil {
		return Hypothesis{}, fmt.Errorf("%w: encode request: %v", asrerr.RecognizerTransient, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url+"/inference", body)
	if err != nil {
		return Hypothesis{}, fmt.Errorf("%w: build request: %v", asrerr.RecognizerTransient, err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := w.client.Do(req)
	if err != nil {
		return Hypothesis{}, fmt.Errorf("%w: %v", asrerr.RecognizerUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Hypothesis{}, fmt.Errorf("%w: status %d: %s", asrerr.RecognizerTransient, resp.StatusCode, respBody)
	}

	var decoded whisperServerResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Hypothesis{}, fmt.Errorf("%w: decode response: %v", asrerr.RecognizerTransient, err)
	}

	return segmentsToHypothesis(decoded), nil
}

func segmentsToHypothesis(resp whisperServerResponse) Hypothesis {
	if len(resp.Segments) == 0 {
		return Hypothesis{}
	}
	var words []Word
	for _, seg := range resp.Segments {
		words = append(words, InterpolateWords(seg.Text, seg.Start, seg.End)...)
	}
	return Hypothesis{Words: words}
}

func (w *WhisperServer) buildRequestBody(samples []float32, prompt, language string) (*bytes.Buffer, string, error) {
	wav := audio.SamplesToWAV(samples, audio.SampleRate)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := fw.Write(wav); err != nil {
		return nil, "", fmt.Errorf("write wav data: %w", err)
	}

	if err := mw.WriteField("response_format", "verbose_json"); err != nil {
		return nil, "", fmt.Errorf("write response_format field: %w", err)
	}
	if prompt != "" {
		if err := mw.WriteField("initial_prompt", TruncatePrompt(prompt)); err != nil {
			return nil, "", fmt.Errorf("write prompt field: %w", err)
		}
	}
	if language != "" {
		if err := mw.WriteField("language", language); err != nil {
			return nil, "", fmt.Errorf("write language field: %w", err)
		}
	}
	if w.model != "" {
		if err := mw.WriteField("model", w.model); err != nil {
			return nil, "", fmt.Errorf("write model field: %w", err)
		}
	}

	if err := mw.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &body, mw.FormDataContentType(), nil
}
