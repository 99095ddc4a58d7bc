// Package translate implements the out-of-scope downstream-translation
// collaborator spec.md names but leaves uninterfaced beyond "treated only
// via the interfaces §6 defines" — a decorator around the Session's
// output Writer (C6), never called by the engine or Session itself. A
// caller who wants translated output wraps its real session.Writer in
// translate.NewWriter; everything upstream of C6 is unaware translation
// exists.
package translate

import (
	"context"
	"log/slog"

	"github.com/streamcribe/streamcribe/internal/session"
)

// Translator turns one committed-record's text into target-language text.
// Implemented by AgentTranslator for the LLM-backed path; tests use a
// fake.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// Writer decorates a session.Writer, replacing each record's Text with
// its translation before forwarding. A translation failure logs and
// forwards the original (untranslated) record rather than dropping it —
// losing a translation is recoverable for the reader, losing the
// transcript line entirely is not.
type Writer struct {
	inner      session.Writer
	translator Translator
	targetLang string
}

// NewWriter builds a translating decorator around inner.
func NewWriter(inner session.Writer, t Translator, targetLang string) *Writer {
	return &Writer{inner: inner, translator: t, targetLang: targetLang}
}

func (w *Writer) WriteRecord(r session.Record) error {
	if r.Text == "" {
		return w.inner.WriteRecord(r)
	}

	translated, err := w.translator.Translate(context.Background(), r.Text, w.targetLang)
	if err != nil {
		slog.Warn("translation failed, forwarding original text", "target_lang", w.targetLang, "error", err)
		return w.inner.WriteRecord(r)
	}

	r.Text = translated
	return w.inner.WriteRecord(r)
}
