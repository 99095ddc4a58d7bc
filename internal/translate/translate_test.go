package translate

import (
	"context"
	"errors"
	"testing"

	"github.com/streamcribe/streamcribe/internal/session"
)

type fakeTranslator struct {
	out string
	err error
}

func (f fakeTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	return f.out, f.err
}

type recordingWriter struct {
	records []session.Record
}

func (w *recordingWriter) WriteRecord(r session.Record) error {
	w.records = append(w.records, r)
	return nil
}

func TestWriterReplacesTextWithTranslation(t *testing.T) {
	inner := &recordingWriter{}
	w := NewWriter(inner, fakeTranslator{out: "hola mundo"}, "es")

	if err := w.WriteRecord(session.Record{StartMS: 0, EndMS: 500, Text: "hello world"}); err != nil {
		t.Fatalf("WriteRecord error: %v", err)
	}
	if got := inner.records[0].Text; got != "hola mundo" {
		t.Fatalf("text = %q, want translated text", got)
	}
}

func TestWriterFallsBackToOriginalOnTranslateError(t *testing.T) {
	inner := &recordingWriter{}
	w := NewWriter(inner, fakeTranslator{err: errors.New("boom")}, "es")

	if err := w.WriteRecord(session.Record{Text: "hello"}); err != nil {
		t.Fatalf("WriteRecord error: %v", err)
	}
	if got := inner.records[0].Text; got != "hello" {
		t.Fatalf("text = %q, want original text preserved on translation failure", got)
	}
}

func TestWriterSkipsTranslationForEmptyTerminalRecord(t *testing.T) {
	inner := &recordingWriter{}
	called := false
	w := NewWriter(inner, fakeFlagTranslator{&called}, "es")

	w.WriteRecord(session.Record{})
	if called {
		t.Fatal("translator should not be invoked for an empty-text record")
	}
}

type fakeFlagTranslator struct{ called *bool }

func (f fakeFlagTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	*f.called = true
	return text, nil
}
