// Package engine implements the online ASR engine (C4): the spec's core.
// It owns the audio buffer, drives the recognizer, reconciles overlapping
// hypotheses into a committed prefix via LocalAgreement-2, and trims the
// buffer using VAD hints.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/streamcribe/streamcribe/internal/asrerr"
	"github.com/streamcribe/streamcribe/internal/audio"
	"github.com/streamcribe/streamcribe/internal/metrics"
	"github.com/streamcribe/streamcribe/internal/recognizer"
	"github.com/streamcribe/streamcribe/internal/vad"
)

// HardCapS is the default maximum audio-buffer length, in seconds,
// before a forced (possibly mid-utterance) trim.
const HardCapS = 30.0

// workingTailS is the length of buffer kept past a degraded-mode cut, so
// the engine doesn't immediately re-trigger the cap on the next tick.
const workingTailS = 5.0

// Config configures an Engine instance.
type Config struct {
	Recognizer recognizer.Adapter
	VAD        vad.Gate // nil disables VAD; buffer is then treated as all-speech
	Language   string
	HardCapS   float64 // 0 uses HardCapS
	MinSilence float64 // 0 uses vad.MinSilenceS
}

// Engine is the per-session online ASR state machine. Not safe for
// concurrent use — the owning Session serializes all calls.
type Engine struct {
	cfg       Config
	buffer    *audio.Buffer
	committed Committed
	hypTail   []recognizer.Word // HypothesisBuffer.buffer from the previous iter
	closed    bool
}

// New creates an Engine with an empty buffer.
func New(cfg Config) *Engine {
	return &Engine{cfg: cfg, buffer: audio.NewBuffer()}
}

// InsertAudio appends samples to the buffer. Non-blocking; no recognition
// side effect.
func (e *Engine) InsertAudio(samples []float32) {
	e.buffer.Insert(samples)
}

// ProcessIter recognizes on the current buffer, reconciles, trims, and
// returns any newly committed Words in session time. May return an empty
// slice. Returns an error for EngineClosed and for any recognizer failure
// other than RecognizerTransient (RecognizerUnavailable, or the context
// error when a pooled recognizer cannot get a slot); a transient
// recognizer failure is swallowed and reported as "no new words this tick".
func (e *Engine) ProcessIter(ctx context.Context) ([]recognizer.Word, error) {
	if e.closed {
		return nil, asrerr.EngineClosed
	}
	if e.buffer.Len() == 0 {
		return nil, nil
	}

	start := time.Now()
	defer func() { metrics.ProcessIterDuration.Observe(time.Since(start).Seconds()) }()

	confirmed, err := e.recognizeAndReconcile(ctx)
	if err != nil {
		return nil, err
	}

	e.trim()
	return confirmed, nil
}

// recognizeAndReconcile runs steps 1-4 of the reconciliation algorithm
// and appends newly confirmed words to committed. A transient recognizer
// error yields (nil, nil); an unavailable backend propagates as an error.
func (e *Engine) recognizeAndReconcile(ctx context.Context) ([]recognizer.Word, error) {
	prompt := e.committed.Prompt()

	hyp, err := e.cfg.Recognizer.Transcribe(ctx, e.buffer.Samples(), prompt, e.cfg.Language)
	if err != nil {
		if errors.Is(err, asrerr.RecognizerTransient) {
			slog.Debug("recognizer transient failure, no new words this tick", "error", err)
			return nil, nil
		}
		return nil, fmt.Errorf("process_iter: %w", err)
	}

	offset := e.buffer.Offset()
	safeUntil := e.committed.LastEndS()

	var candidates []recognizer.Word
	for _, w := range hyp.Words {
		abs := recognizer.Word{StartS: w.StartS + offset, EndS: w.EndS + offset, Text: w.Text}
		if abs.EndS <= safeUntil {
			continue
		}
		candidates = append(candidates, abs)
	}

	confirmed, tail := reconcile(candidates, e.hypTail)
	e.committed.Append(confirmed...)
	e.hypTail = tail
	metrics.CommittedWordsTotal.Add(float64(len(confirmed)))

	return confirmed, nil
}

// trim runs the buffer-trimming policy at the end of every process_iter:
// prefer a VAD-silence boundary at or before the committed tail; else,
// once the buffer exceeds the hard cap, cut short of the cap leaving a
// working tail, even mid-utterance.
func (e *Engine) trim() {
	hardCap := e.cfg.HardCapS
	if hardCap <= 0 {
		hardCap = HardCapS
	}
	minSilence := e.cfg.MinSilence
	if minSilence <= 0 {
		minSilence = vad.MinSilenceS
	}

	safeUntil := e.committed.LastEndS()
	cut, ok := e.vadCutPoint(safeUntil, minSilence)
	if !ok {
		if e.buffer.DurationS() <= hardCap {
			return
		}
		t := e.buffer.Offset() + hardCap - workingTailS
		cut = min(safeUntil, t)
		slog.Warn("degraded mid-utterance trim: buffer exceeded hard cap with no safe VAD boundary",
			"buffer_offset", e.buffer.Offset(), "hard_cap_s", hardCap)
		metrics.DegradedTrimsTotal.Inc()
	}

	e.buffer.Trim(cut)
	e.dropConfirmedHypTail(cut)
	metrics.BufferLengthSeconds.Observe(e.buffer.DurationS())
}

// vadCutPoint returns the end of the last VAD silence interval at or
// before safeUntil that is at least minSilence long, in absolute session
// time. ok is false if VAD is disabled, fails, or finds no such interval.
func (e *Engine) vadCutPoint(safeUntil, minSilence float64) (cut float64, ok bool) {
	if e.cfg.VAD == nil {
		return 0, false
	}
	intervals, err := e.cfg.VAD.Classify(e.buffer.Samples(), audio.SampleRate)
	if err != nil {
		slog.Warn("vad gate failed, treating buffer as all-speech", "error", err)
		metrics.VADFailuresTotal.Inc()
		return 0, false
	}
	offset := e.buffer.Offset()
	for _, iv := range intervals {
		metrics.VADSegmentsTotal.WithLabelValues(iv.Kind.String()).Inc()
		if iv.Kind != vad.Silence {
			continue
		}
		start, end := offset+iv.StartS, offset+iv.EndS
		if end > safeUntil {
			continue
		}
		if end-start >= minSilence {
			cut, ok = end, true
		}
	}
	return cut, ok
}

// dropConfirmedHypTail discards any pending HypothesisBuffer entries now
// behind the trim point.
func (e *Engine) dropConfirmedHypTail(cut float64) {
	kept := e.hypTail[:0]
	for _, w := range e.hypTail {
		if w.EndS > cut {
			kept = append(kept, w)
		}
	}
	e.hypTail = kept
}

// Finish treats the buffer end as end-of-stream: it runs one last
// process_iter, then moves all remaining HypothesisBuffer words to
// committed unconditionally (no second-opinion agreement is possible at
// end-of-stream), and returns every Word newly appended by this call. The
// engine is closed afterward; further calls fail with EngineClosed.
func (e *Engine) Finish(ctx context.Context) ([]recognizer.Word, error) {
	if e.closed {
		return nil, asrerr.EngineClosed
	}

	fromIter, err := e.ProcessIter(ctx)
	if err != nil {
		return nil, err
	}

	flushed := append([]recognizer.Word(nil), e.hypTail...)
	e.committed.Append(flushed...)
	e.hypTail = nil
	e.closed = true

	return append(fromIter, flushed...), nil
}

// Committed returns the full append-only committed transcript so far.
func (e *Engine) Committed() []recognizer.Word {
	return e.committed.Words()
}
