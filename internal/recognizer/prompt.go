package recognizer

import "unicode/utf8"

// MaxPromptChars is the safe upper bound on prompt length accepted by
// every backend in this registry; the adapter truncates rather than
// relying on each backend to do it.
const MaxPromptChars = 200

// TruncatePrompt trims s to at most MaxPromptChars runes, keeping the
// suffix — the most recent committed context matters more than the start
// of a long transcript.
func TruncatePrompt(s string) string {
	if utf8.RuneCountInString(s) <= MaxPromptChars {
		return s
	}
	r := []rune(s)
	return string(r[len(r)-MaxPromptChars:])
}

// InterpolateWords splits a single segment-level span of text into
// word-level Words with linearly interpolated timings across
// [startS, endS], for backends that only report segment-level timing.
func InterpolateWords(text string, startS, endS float64) []Word {
	fields := splitFields(text)
	if len(fields) == 0 {
		return nil
	}
	if len(fields) == 1 {
		return []Word{{StartS: startS, EndS: endS, Text: fields[0]}}
	}
	dur := endS - startS
	step := dur / float64(len(fields))
	words := make([]Word, len(fields))
	for i, w := range fields {
		words[i] = Word{
			StartS: startS + float64(i)*step,
			EndS:   startS + float64(i+1)*step,
			Text:   w,
		}
	}
	return words
}

func splitFields(s string) []string {
	var fields []string
	var cur []rune
	for _, r := range s {
		if r == ' ' || r == '\t' || r == '\n' {
			if len(cur) > 0 {
				fields = append(fields, string(cur))
				cur = cur[:0]
			}
			continue
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		fields = append(fields, string(cur))
	}
	return fields
}
