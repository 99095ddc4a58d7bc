package recognizer

import (
	"context"
	"strings"
	"testing"
)

func TestTruncatePromptKeepsSuffix(t *testing.T) {
	long := strings.Repeat("a", MaxPromptChars+50)
	got := TruncatePrompt(long)
	if len(got) != MaxPromptChars {
		t.Fatalf("len(got) = %d, want %d", len(got), MaxPromptChars)
	}

	short := "hello"
	if got := TruncatePrompt(short); got != short {
		t.Fatalf("TruncatePrompt(%q) = %q, want unchanged", short, got)
	}
}

func TestInterpolateWordsLinearAcrossSegment(t *testing.T) {
	words := InterpolateWords("hello world", 1.0, 2.0)
	if len(words) != 2 {
		t.Fatalf("expected 2 words, got %d", len(words))
	}
	if words[0].Text != "hello" || words[1].Text != "world" {
		t.Fatalf("unexpected word texts: %+v", words)
	}
	if words[0].StartS != 1.0 || words[0].EndS != 1.5 {
		t.Fatalf("word 0 timing = %+v, want start=1.0 end=1.5", words[0])
	}
	if words[1].StartS != 1.5 || words[1].EndS != 2.0 {
		t.Fatalf("word 1 timing = %+v, want start=1.5 end=2.0", words[1])
	}
}

func TestInterpolateWordsEmpty(t *testing.T) {
	if got := InterpolateWords("   ", 0, 1); got != nil {
		t.Fatalf("expected nil for blank text, got %+v", got)
	}
}

type fakeAdapter struct{ name string }

func (f *fakeAdapter) Capability() Capability { return Capability{} }
func (f *fakeAdapter) Transcribe(ctx context.Context, audio []float32, prompt, language string) (Hypothesis, error) {
	return Hypothesis{Words: []Word{{Text: f.name}}}, nil
}

func TestRouterFallsBackWhenNameUnregistered(t *testing.T) {
	r := NewRouter(map[string]Adapter{
		"whisper-native": &fakeAdapter{name: "native"},
	}, "whisper-native")

	a, ok := r.Route("does-not-exist")
	if !ok {
		t.Fatal("expected fallback route to succeed")
	}
	hyp, _ := a.Transcribe(context.Background(), nil, "", "")
	if hyp.Words[0].Text != "native" {
		t.Fatalf("expected fallback backend, got %+v", hyp)
	}
}

func TestRouterExactMatch(t *testing.T) {
	r := NewRouter(map[string]Adapter{
		"a": &fakeAdapter{name: "a"},
		"b": &fakeAdapter{name: "b"},
	}, "a")

	got, ok := r.Route("b")
	if !ok {
		t.Fatal("expected route to succeed")
	}
	hyp, _ := got.Transcribe(context.Background(), nil, "", "")
	if hyp.Words[0].Text != "b" {
		t.Fatalf("expected exact match backend b, got %+v", hyp)
	}
}
