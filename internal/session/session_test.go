package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/streamcribe/streamcribe/internal/engine"
	"github.com/streamcribe/streamcribe/internal/recognizer"
)

// fakeRecognizer commits its fixed hypothesis on the second call for
// every window, mirroring the engine's LocalAgreement-2 behavior closely
// enough to drive a session end-to-end.
type fakeRecognizer struct {
	hyp recognizer.Hypothesis
}

func (f fakeRecognizer) Capability() recognizer.Capability { return recognizer.Capability{} }
func (f fakeRecognizer) Transcribe(ctx context.Context, audio []float32, prompt, language string) (recognizer.Hypothesis, error) {
	return f.hyp, nil
}

type recordingWriter struct {
	mu      sync.Mutex
	records []Record
}

func (w *recordingWriter) WriteRecord(r Record) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.records = append(w.records, r)
	return nil
}

func (w *recordingWriter) snapshot() []Record {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Record(nil), w.records...)
}

func silence(seconds float64) []float32 {
	return make([]float32, int(seconds*16000))
}

func TestSessionEmitsRecordOnMinChunkCadenceAndTerminalOnClose(t *testing.T) {
	hyp := recognizer.Hypothesis{Words: []recognizer.Word{
		{StartS: 0, EndS: 0.5, Text: "hello"},
	}}
	eng := engine.New(engine.Config{Recognizer: fakeRecognizer{hyp: hyp}})
	w := &recordingWriter{}
	s := New(eng, w)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// Two 1.1s chunks cross MinChunkS each time, driving two process_iter
	// calls: the first buffers the hypothesis, the second confirms it.
	s.InsertAudio(silence(1.1))
	s.InsertAudio(silence(1.1))
	time.Sleep(50 * time.Millisecond)
	s.Close()

	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	records := w.snapshot()
	if len(records) == 0 {
		t.Fatal("expected at least the terminal record")
	}
	last := records[len(records)-1]
	if last.Text != "" && last.Text != "hello" {
		t.Fatalf("unexpected terminal record text: %+v", last)
	}
}

func TestSessionEmitsEmptyTerminalRecordWhenNoAudio(t *testing.T) {
	eng := engine.New(engine.Config{Recognizer: fakeRecognizer{}})
	w := &recordingWriter{}
	s := New(eng, w)

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()
	s.Close()

	if err := <-done; err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	records := w.snapshot()
	if len(records) != 1 {
		t.Fatalf("expected exactly one terminal record, got %+v", records)
	}
	if records[0] != (Record{}) {
		t.Fatalf("expected an empty terminal record, got %+v", records[0])
	}
}
