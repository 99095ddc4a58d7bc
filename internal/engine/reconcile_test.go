package engine

import (
	"testing"

	"github.com/streamcribe/streamcribe/internal/recognizer"
)

func w(start, end float64, text string) recognizer.Word {
	return recognizer.Word{StartS: start, EndS: end, Text: text}
}

func TestNormalizeStripsPunctuationAndCase(t *testing.T) {
	if got := normalize("Hello,"); got != "hello" {
		t.Fatalf("normalize(%q) = %q, want %q", "Hello,", got, "hello")
	}
	if got := normalize("  World."); got != "world" {
		t.Fatalf("normalize(%q) = %q, want %q", "  World.", got, "world")
	}
}

func TestWordsMatchWithinWindow(t *testing.T) {
	a := w(1.0, 1.5, "Hello")
	b := w(1.3, 1.8, "hello,")
	if !wordsMatch(a, b) {
		t.Fatalf("expected match: delta=0.3 <= 0.5 and same normalized text")
	}
}

func TestWordsMatchRejectsBeyondWindow(t *testing.T) {
	a := w(0.0, 0.5, "hello")
	b := w(0.6, 1.1, "hello")
	if wordsMatch(a, b) {
		t.Fatal("same text at >0.5s apart must be treated as a different occurrence")
	}
}

func TestReconcileMaximalContiguousPrefix(t *testing.T) {
	prev := []recognizer.Word{w(0, 0.5, "hello"), w(0.5, 1.0, "world")}
	hypRaw := []recognizer.Word{w(0, 0.5, "hello"), w(0.5, 1.0, "there")} // diverges at word 2

	confirmed, tail := reconcile(hypRaw, prev)
	if len(confirmed) != 1 || confirmed[0].Text != "hello" {
		t.Fatalf("expected only 'hello' confirmed, got %+v", confirmed)
	}
	if len(tail) != 1 || tail[0].Text != "there" {
		t.Fatalf("expected tail to hold the diverging word from hypRaw, got %+v", tail)
	}
}

func TestReconcileEmptyPrevConfirmsNothing(t *testing.T) {
	hypRaw := []recognizer.Word{w(0, 0.5, "hello")}
	confirmed, tail := reconcile(hypRaw, nil)
	if len(confirmed) != 0 {
		t.Fatalf("expected no confirmations without a prior hypothesis, got %+v", confirmed)
	}
	if len(tail) != 1 {
		t.Fatalf("expected hypRaw to become the pending tail, got %+v", tail)
	}
}
