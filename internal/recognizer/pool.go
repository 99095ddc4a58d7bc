package recognizer

import (
	"context"
	"runtime"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/streamcribe/streamcribe/internal/asrerr"
	"github.com/streamcribe/streamcribe/internal/metrics"
)

// Pooled wraps an Adapter with a process-wide concurrency limit: the
// recognizer call inside process_iter is the only CPU/GPU-heavy step (§5),
// so every session shares one bounded pool sized to the CPU count rather
// than each session running its own. It also records the call-duration and
// error-kind metrics so the recognizer backend doesn't need to know about
// Prometheus itself.
type Pooled struct {
	inner Adapter
	sem   *semaphore.Weighted
	label string
}

// NewPooled wraps inner with a semaphore of the given weight (typically
// runtime.NumCPU()). label identifies the backend in metrics.
func NewPooled(inner Adapter, weight int, label string) *Pooled {
	if weight <= 0 {
		weight = runtime.NumCPU()
	}
	return &Pooled{inner: inner, sem: semaphore.NewWeighted(int64(weight)), label: label}
}

func (p *Pooled) Capability() Capability { return p.inner.Capability() }

// Transcribe blocks until a pool slot is free (or ctx is cancelled), then
// delegates to the wrapped adapter.
func (p *Pooled) Transcribe(ctx context.Context, audio []float32, prompt, language string) (Hypothesis, error) {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return Hypothesis{}, err
	}
	defer p.sem.Release(1)

	start := time.Now()
	hyp, err := p.inner.Transcribe(ctx, audio, prompt, language)
	metrics.RecognizerCallDuration.WithLabelValues(p.label).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RecognizerErrors.WithLabelValues(p.label, asrerr.Kind(err)).Inc()
	}
	return hyp, err
}
