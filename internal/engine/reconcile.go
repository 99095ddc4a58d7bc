package engine

import (
	"strings"
	"unicode"

	"github.com/streamcribe/streamcribe/internal/recognizer"
)

// matchWindowS is the maximum absolute-start-time delta, in seconds,
// within which two words across consecutive hypotheses may be considered
// the same occurrence.
const matchWindowS = 0.5

// normalize lowercases text and strips leading/trailing punctuation and
// whitespace, for agreement comparison only — committed words keep the
// original casing and punctuation of the newer hypothesis.
func normalize(text string) string {
	trimmed := strings.TrimFunc(text, func(r rune) bool {
		return unicode.IsSpace(r) || unicode.IsPunct(r)
	})
	return strings.ToLower(trimmed)
}

// wordsMatch reports whether a and b are the same occurrence under the
// LocalAgreement rule: normalized texts equal and start times within
// matchWindowS of each other.
func wordsMatch(a, b recognizer.Word) bool {
	delta := a.StartS - b.StartS
	if delta < 0 {
		delta = -delta
	}
	if delta > matchWindowS {
		return false
	}
	return normalize(a.Text) == normalize(b.Text)
}

// reconcile implements the LocalAgreement-2 step: it walks hypRaw and
// prev in parallel from the front and returns the maximum contiguous
// matching prefix (the newly confirmed words, taken from hypRaw so the
// confirmed casing is the newer hypothesis's) plus the unmatched tail of
// hypRaw, which becomes the next iteration's HypothesisBuffer.buffer.
func reconcile(hypRaw, prev []recognizer.Word) (confirmed, tail []recognizer.Word) {
	n := min(len(hypRaw), len(prev))
	i := 0
	for i < n && wordsMatch(hypRaw[i], prev[i]) {
		i++
	}
	confirmed = append([]recognizer.Word(nil), hypRaw[:i]...)
	tail = append([]recognizer.Word(nil), hypRaw[i:]...)
	return confirmed, tail
}
