package engine

import (
	"context"
	"testing"

	"github.com/streamcribe/streamcribe/internal/asrerr"
	"github.com/streamcribe/streamcribe/internal/recognizer"
	"github.com/streamcribe/streamcribe/internal/vad"
)

// scriptedRecognizer returns a fixed sequence of hypotheses, one per call,
// repeating the last entry once the script is exhausted.
type scriptedRecognizer struct {
	calls  int
	script []recognizer.Hypothesis
}

func (s *scriptedRecognizer) Capability() recognizer.Capability { return recognizer.Capability{} }

func (s *scriptedRecognizer) Transcribe(ctx context.Context, audio []float32, prompt, language string) (recognizer.Hypothesis, error) {
	if len(s.script) == 0 {
		return recognizer.Hypothesis{}, nil
	}
	i := s.calls
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.calls++
	return s.script[i], nil
}

func oneSecondSilence() []float32 { return make([]float32, 16000) }

func TestProcessIterCommitsOnSecondAgreeingCall(t *testing.T) {
	hyp := recognizer.Hypothesis{Words: []recognizer.Word{
		{StartS: 0, EndS: 0.5, Text: "hello"},
		{StartS: 0.5, EndS: 1.0, Text: "world"},
	}}
	rec := &scriptedRecognizer{script: []recognizer.Hypothesis{hyp, hyp}}
	e := New(Config{Recognizer: rec})
	e.InsertAudio(oneSecondSilence())

	first, err := e.ProcessIter(context.Background())
	if err != nil {
		t.Fatalf("first ProcessIter error: %v", err)
	}
	if len(first) != 0 {
		t.Fatalf("first call must not commit anything (no prior hypothesis to agree with), got %+v", first)
	}

	second, err := e.ProcessIter(context.Background())
	if err != nil {
		t.Fatalf("second ProcessIter error: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("second call should commit both agreeing words, got %+v", second)
	}
	if second[0].Text != "hello" || second[1].Text != "world" {
		t.Fatalf("unexpected committed words: %+v", second)
	}
}

func TestProcessIterNoDuplicateCommitOnIdenticalThirdCall(t *testing.T) {
	hyp := recognizer.Hypothesis{Words: []recognizer.Word{
		{StartS: 0, EndS: 0.5, Text: "hello"},
		{StartS: 0.5, EndS: 1.0, Text: "world"},
	}}
	rec := &scriptedRecognizer{script: []recognizer.Hypothesis{hyp, hyp, hyp}}
	e := New(Config{Recognizer: rec})
	e.InsertAudio(oneSecondSilence())

	e.ProcessIter(context.Background())
	e.ProcessIter(context.Background())
	third, err := e.ProcessIter(context.Background())
	if err != nil {
		t.Fatalf("third ProcessIter error: %v", err)
	}
	if len(third) != 0 {
		t.Fatalf("identical hypothesis with no new audio must not re-commit, got %+v", third)
	}
}

func TestProcessIterSuppressesTransientError(t *testing.T) {
	e := New(Config{Recognizer: transientRecognizer{}})
	e.InsertAudio(oneSecondSilence())

	words, err := e.ProcessIter(context.Background())
	if err != nil {
		t.Fatalf("transient recognizer error must not propagate, got %v", err)
	}
	if words != nil {
		t.Fatalf("expected no words on transient failure, got %+v", words)
	}
}

type transientRecognizer struct{}

func (transientRecognizer) Capability() recognizer.Capability { return recognizer.Capability{} }
func (transientRecognizer) Transcribe(ctx context.Context, audio []float32, prompt, language string) (recognizer.Hypothesis, error) {
	return recognizer.Hypothesis{}, asrerr.RecognizerTransient
}

type unavailableRecognizer struct{}

func (unavailableRecognizer) Capability() recognizer.Capability { return recognizer.Capability{} }
func (unavailableRecognizer) Transcribe(ctx context.Context, audio []float32, prompt, language string) (recognizer.Hypothesis, error) {
	return recognizer.Hypothesis{}, asrerr.RecognizerUnavailable
}

func TestProcessIterPropagatesUnavailableError(t *testing.T) {
	e := New(Config{Recognizer: unavailableRecognizer{}})
	e.InsertAudio(oneSecondSilence())

	_, err := e.ProcessIter(context.Background())
	if err == nil {
		t.Fatal("expected error for unavailable recognizer backend")
	}
}

func TestProcessIterOnEmptyBufferIsNoop(t *testing.T) {
	e := New(Config{Recognizer: &scriptedRecognizer{}})
	words, err := e.ProcessIter(context.Background())
	if err != nil || words != nil {
		t.Fatalf("empty buffer should be a silent no-op, got words=%+v err=%v", words, err)
	}
}

func TestFinishFlushesRemainingHypothesisTailAndCloses(t *testing.T) {
	hyp := recognizer.Hypothesis{Words: []recognizer.Word{
		{StartS: 0, EndS: 0.5, Text: "hello"},
	}}
	rec := &scriptedRecognizer{script: []recognizer.Hypothesis{hyp}}
	e := New(Config{Recognizer: rec})
	e.InsertAudio(oneSecondSilence())

	words, err := e.Finish(context.Background())
	if err != nil {
		t.Fatalf("Finish returned error: %v", err)
	}
	if len(words) != 1 || words[0].Text != "hello" {
		t.Fatalf("Finish should flush the unconfirmed tail unconditionally, got %+v", words)
	}

	if _, err := e.ProcessIter(context.Background()); err != asrerr.EngineClosed {
		t.Fatalf("ProcessIter after Finish should fail with EngineClosed, got %v", err)
	}
	if _, err := e.Finish(context.Background()); err != asrerr.EngineClosed {
		t.Fatalf("second Finish should fail with EngineClosed, got %v", err)
	}
}

// halfSilenceGate reports the first half of the window as silence and the
// second half as speech, mimicking a VAD boundary that lands exactly on
// the committed tail.
type halfSilenceGate struct{}

func (halfSilenceGate) Classify(audio []float32, sampleRate int) ([]vad.Interval, error) {
	totalS := float64(len(audio)) / float64(sampleRate)
	mid := totalS / 2
	return []vad.Interval{
		{StartS: 0, EndS: mid, Kind: vad.Silence},
		{StartS: mid, EndS: totalS, Kind: vad.Speech},
	}, nil
}

func TestTrimCutsAtVADSilenceBoundaryNotPastCommitted(t *testing.T) {
	hyp := recognizer.Hypothesis{Words: []recognizer.Word{
		{StartS: 0, EndS: 0.5, Text: "hi"},
	}}
	rec := &scriptedRecognizer{script: []recognizer.Hypothesis{hyp, hyp}}
	e := New(Config{Recognizer: rec, VAD: halfSilenceGate{}})
	e.InsertAudio(oneSecondSilence())

	e.ProcessIter(context.Background()) // commits nothing yet
	e.ProcessIter(context.Background()) // commits "hi", trims to the 0.5s VAD boundary

	if got, want := e.buffer.Offset(), 0.5; got != want {
		t.Fatalf("buffer offset after trim = %v, want %v (the VAD silence boundary at the committed tail)", got, want)
	}
	if e.buffer.Offset() > e.committed.LastEndS() {
		t.Fatalf("invariant violated: buffer_time_offset (%v) ahead of committed.last_end_s (%v)", e.buffer.Offset(), e.committed.LastEndS())
	}
}

func TestTrimDegradesPastHardCapWhenNoVADBoundary(t *testing.T) {
	// A long-running utterance that the recognizer keeps agreeing on,
	// advancing committed.last_end_s close to the buffer's current end,
	// so the hard-cap trim is not blocked by the "never trim ahead of
	// committed" invariant.
	hyp := recognizer.Hypothesis{Words: []recognizer.Word{{StartS: 0, EndS: 11, Text: "x"}}}
	rec := &scriptedRecognizer{script: []recognizer.Hypothesis{hyp, hyp}}
	e := New(Config{Recognizer: rec, HardCapS: 10.0})
	e.InsertAudio(make([]float32, 12*16000)) // 12s, past the 10s hard cap

	e.ProcessIter(context.Background()) // commits nothing yet
	e.ProcessIter(context.Background()) // commits "x", degraded-trims

	if got := e.buffer.DurationS(); got > 10.0+1e-9 {
		t.Fatalf("buffer length after degraded trim = %v, want <= hard cap 10.0", got)
	}
	if e.buffer.Offset() > e.committed.LastEndS() {
		t.Fatalf("invariant violated: buffer_time_offset (%v) ahead of committed.last_end_s (%v)", e.buffer.Offset(), e.committed.LastEndS())
	}
}
