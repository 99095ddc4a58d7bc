package engine

import (
	"strings"

	"github.com/streamcribe/streamcribe/internal/recognizer"
)

// Committed is the append-only sequence of Words the engine has declared
// final. Once a Word is appended it is never removed, reordered, or
// textually altered.
type Committed struct {
	words []recognizer.Word
}

// Append adds newly confirmed Words to the tail.
func (c *Committed) Append(words ...recognizer.Word) {
	c.words = append(c.words, words...)
}

// Words returns the full committed sequence. Callers must not mutate it.
func (c *Committed) Words() []recognizer.Word {
	return c.words
}

// LastEndS returns the end time of the last committed Word, or 0 if
// nothing has been committed yet.
func (c *Committed) LastEndS() float64 {
	if len(c.words) == 0 {
		return 0
	}
	return c.words[len(c.words)-1].EndS
}

// Prompt returns the textual suffix of the committed tail used as the
// recognizer's context hint, truncated to recognizer.MaxPromptChars,
// preferring to start on a whitespace boundary.
func (c *Committed) Prompt() string {
	var text string
	for i, w := range c.words {
		if i > 0 {
			text += " "
		}
		text += w.Text
	}
	prompt := recognizer.TruncatePrompt(text)
	if len(prompt) < len(text) && text[len(text)-len(prompt)-1] != ' ' {
		if i := strings.IndexByte(prompt, ' '); i >= 0 {
			prompt = prompt[i+1:]
		}
	}
	return prompt
}
