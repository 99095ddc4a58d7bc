// Package vad classifies audio windows as speech or silence to hand the
// online ASR engine trim hints. It never overrules the recognizer — see
// Gate's doc comment.
package vad

// Kind labels an Interval as speech or silence.
type Kind int

const (
	Speech Kind = iota
	Silence
)

func (k Kind) String() string {
	if k == Speech {
		return "speech"
	}
	return "silence"
}

// Interval is one contiguous classified span, start_s/end_s relative to
// the first sample handed to Classify.
type Interval struct {
	StartS float64
	EndS   float64
	Kind   Kind
}

// MinSilenceS is the shortest silence span the engine will treat as a trim
// boundary; shorter silence gaps are merged into the speech around them.
const MinSilenceS = 0.5

// Gate classifies a contiguous audio window into speech/silence intervals
// that tile it exactly. It is advisory only: the engine uses it to pick
// where to trim the buffer, never to decide what is or isn't a word. If a
// Gate call fails, the caller treats the whole window as speech.
type Gate interface {
	// Classify returns intervals covering audio exactly, start_s == 0 on
	// the first interval and contiguous thereafter. sampleRate is the
	// sample rate of audio in samples/sec.
	Classify(audio []float32, sampleRate int) ([]Interval, error)
}

// mergeShortSilences merges any Silence interval shorter than minSilenceS
// into its neighbors, producing a single Speech run in its place. Assumes
// intervals are already contiguous and ordered.
func mergeShortSilences(intervals []Interval, minSilenceS float64) []Interval {
	if len(intervals) == 0 {
		return intervals
	}
	merged := make([]Interval, 0, len(intervals))
	for _, iv := range intervals {
		if iv.Kind == Silence && iv.EndS-iv.StartS < minSilenceS {
			iv.Kind = Speech
		}
		if n := len(merged); n > 0 && merged[n-1].Kind == iv.Kind {
			merged[n-1].EndS = iv.EndS
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
