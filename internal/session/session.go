// Package session drives an Engine on the cadence described in spec §4.4:
// a reader feeds audio in as it arrives, a ticker runs process_iter on a
// dual cadence (buffered duration or wall-clock wait, whichever comes
// first), and every non-empty result is serialized to the client as one
// output record. Grounded on the shape of the teacher's runSession /
// processMessages split in internal/ws/handler.go, adapted from an
// event-driven WebSocket call loop to a single audio-in/record-out cadence
// loop that is transport-agnostic (the transport only supplies bytes and a
// Writer).
package session

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/streamcribe/streamcribe/internal/asrerr"
	"github.com/streamcribe/streamcribe/internal/audio"
	"github.com/streamcribe/streamcribe/internal/engine"
	"github.com/streamcribe/streamcribe/internal/metrics"
	"github.com/streamcribe/streamcribe/internal/recognizer"
)

// MinChunkS and MaxWaitS are the dual cadence thresholds from spec §4.4:
// process_iter runs when either is satisfied.
const (
	MinChunkS = 1.0
	MaxWaitS  = 3.0

	// pollInterval is how often the ticker wakes to check the wall-clock
	// half of the cadence while waiting for more audio.
	pollInterval = 100 * time.Millisecond

	// audioQueueCap sizes the reader->ticker handoff channel; at a typical
	// 20ms chunk this holds roughly 2s of audio (§5's bounded queue),
	// after which the reader's channel send blocks — ordinary TCP
	// backpressure, not the engine's own non-blocking insert_audio.
	audioQueueCap = 100
)

// Record is one committed word-batch ready for wire encoding (C6): the
// absolute session-time span in milliseconds and the text of the words in
// it, joined with their natural spacing.
type Record struct {
	StartMS int64
	EndMS   int64
	Text    string
}

// Writer sends one encoded Record to the client. Implemented per-protocol
// by internal/protocol (TCP line format, WebSocket JSON message).
type Writer interface {
	WriteRecord(Record) error
}

// Session owns one Engine and drives it on the cadence contract. Not safe
// for concurrent use from more than the reader goroutine (via InsertAudio)
// and the Run goroutine.
type Session struct {
	ID        string
	engine    *engine.Engine
	writer    Writer
	audioC    chan []float32
	minChunkS float64
}

// New creates a Session around eng, identified by a fresh UUID (grounded
// on the teacher's uuid.NewString() per-call session ID). minChunkS
// overrides the default MinChunkS cadence threshold (the CLI's
// --min-chunk-size flag); 0 keeps the spec default.
func New(eng *engine.Engine, w Writer, minChunkS ...float64) *Session {
	mc := MinChunkS
	if len(minChunkS) > 0 && minChunkS[0] > 0 {
		mc = minChunkS[0]
	}
	return &Session{
		ID:        uuid.NewString(),
		engine:    eng,
		writer:    w,
		audioC:    make(chan []float32, audioQueueCap),
		minChunkS: mc,
	}
}

// InsertAudio hands a chunk of decoded samples to the session's ticker
// task. Called from the network reader; blocks only under genuine queue
// saturation (ordinary transport backpressure), never silently drops.
func (s *Session) InsertAudio(samples []float32) {
	metrics.AudioChunksTotal.Inc()
	s.audioC <- samples
}

// Close signals end-of-stream to Run's audio loop. Call once, after the
// reader has observed EOF or the transport closed.
func (s *Session) Close() {
	close(s.audioC)
}

// Run drives the cadence loop until the audio channel is closed or ctx is
// cancelled, then calls finish() and emits the terminal record; after a
// cancellation, that last process_iter and flush run on a context that
// keeps ctx's values but not its cancellation. Returns a non-nil error
// only when the recognizer backend is unavailable or the transport write
// fails. No error record is written to the client in either case: the
// loop stops and the error is returned to the caller.
func (s *Session) Run(ctx context.Context) error {
	start := time.Now()
	metrics.SessionsActive.Inc()
	metrics.SessionsTotal.Inc()
	defer func() {
		metrics.SessionsActive.Dec()
		metrics.SessionDuration.Observe(time.Since(start).Seconds())
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	var bufferedS float64
	var haveAudio bool
	lastIter := time.Now()

	for {
		select {
		case <-ctx.Done():
			return s.finish(context.WithoutCancel(ctx))

		case samples, ok := <-s.audioC:
			if !ok {
				return s.finish(ctx)
			}
			s.engine.InsertAudio(samples)
			bufferedS += float64(len(samples)) / audio.SampleRate
			haveAudio = true

			if bufferedS >= s.minChunkS {
				if err := s.tick(ctx); err != nil {
					return err
				}
				bufferedS, lastIter = 0, time.Now()
			}

		case <-ticker.C:
			if haveAudio && time.Since(lastIter) >= MaxWaitS*time.Second {
				if err := s.tick(ctx); err != nil {
					return err
				}
				bufferedS, lastIter = 0, time.Now()
			}
		}
	}
}

// tick runs one process_iter and emits its result, if any, as a record.
// A RecognizerUnavailable error is terminal per spec §4.4; every other
// error (transient failures are already swallowed by the engine) is
// logged and treated as "nothing new this tick".
func (s *Session) tick(ctx context.Context) error {
	words, err := s.engine.ProcessIter(ctx)
	if err != nil {
		if errors.Is(err, asrerr.RecognizerUnavailable) {
			slog.Error("session ending: recognizer unavailable", "session_id", s.ID, "error", err)
			return err
		}
		slog.Warn("process_iter error, continuing", "session_id", s.ID, "error", err)
		return nil
	}
	return s.emit(words)
}

// finish runs the terminal process_iter + flush and emits the terminal
// record unconditionally (spec §6: "a single final line with the flushed
// words", even if that means an empty one).
func (s *Session) finish(ctx context.Context) error {
	words, err := s.engine.Finish(ctx)
	if err != nil && !errors.Is(err, asrerr.EngineClosed) {
		slog.Error("finish error", "session_id", s.ID, "error", err)
	}
	return s.writer.WriteRecord(wordsToRecord(words))
}

// emit writes words as a single record, skipping silently when there is
// nothing to report this tick (not at end-of-stream, where an empty
// terminal record is still written by finish's caller).
func (s *Session) emit(words []recognizer.Word) error {
	if len(words) == 0 {
		return nil
	}
	return s.writer.WriteRecord(wordsToRecord(words))
}

func wordsToRecord(words []recognizer.Word) Record {
	if len(words) == 0 {
		return Record{}
	}
	texts := make([]string, len(words))
	for i, w := range words {
		texts[i] = w.Text
	}
	return Record{
		StartMS: int64(words[0].StartS * 1000),
		EndMS:   int64(words[len(words)-1].EndS * 1000),
		Text:    strings.Join(texts, " "),
	}
}
