// Package metrics declares the process-wide Prometheus collectors for the
// server. Grounded on the teacher's internal/metrics package: same
// promauto-registered-at-init-time style, renamed from call-center
// pipeline stages to streaming-ASR session/engine concerns.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamcribe_sessions_active",
		Help: "Currently active streaming sessions",
	})

	SessionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamcribe_sessions_total",
		Help: "Total sessions accepted since start",
	})

	SessionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "streamcribe_session_duration_seconds",
		Help:    "Wall-clock duration of a session from accept to close",
		Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
	})

	RecognizerCallDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "streamcribe_recognizer_call_duration_seconds",
		Help:    "Latency of a single recognizer.Transcribe call, by backend",
		Buckets: []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.8, 1.0, 2.0, 5.0, 10.0},
	}, []string{"backend"})

	RecognizerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamcribe_recognizer_errors_total",
		Help: "Recognizer call failures by backend and error kind",
	}, []string{"backend", "kind"})

	ProcessIterDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "streamcribe_process_iter_duration_seconds",
		Help:    "Latency of one Engine.ProcessIter call, recognizer included",
		Buckets: []float64{0.05, 0.1, 0.2, 0.3, 0.5, 0.8, 1.0, 2.0, 5.0, 10.0},
	})

	CommittedWordsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamcribe_committed_words_total",
		Help: "Total words appended to a committed transcript across all sessions",
	})

	BufferLengthSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "streamcribe_buffer_length_seconds",
		Help:    "AudioBuffer length observed after each trim decision",
		Buckets: []float64{1, 2, 5, 10, 15, 20, 25, 30},
	})

	DegradedTrimsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamcribe_degraded_trims_total",
		Help: "Times the buffer was trimmed past the hard cap with no safe VAD boundary",
	})

	VADSegmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamcribe_vad_segments_total",
		Help: "VAD intervals classified, by kind (speech/silence)",
	}, []string{"kind"})

	VADFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamcribe_vad_failures_total",
		Help: "VAD gate failures; engine falls back to treating the buffer as all-speech",
	})

	AudioChunksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamcribe_audio_chunks_total",
		Help: "Total audio chunks received from clients across all transports",
	})

	WEREstimate = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamcribe_wer_estimate",
		Help: "Latest WER estimate against a supplied reference transcript",
	})
)
