// Package server implements C7: it binds one listening socket, performs
// per-connection protocol detection (raw PCM vs. HTTP — including the
// WebSocket upgrade and the plain /healthz and /metrics endpoints), and
// runs a Session around whichever transport it finds. Grounded on the
// teacher's cmd/gateway main/routes split (ServeMux, graceful shutdown on
// SIGINT/SIGTERM) generalized from an http.Server-only listener to a
// socket that multiplexes raw TCP alongside HTTP, per spec §4.5.
package server

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/streamcribe/streamcribe/internal/audio"
	"github.com/streamcribe/streamcribe/internal/engine"
	"github.com/streamcribe/streamcribe/internal/protocol"
	"github.com/streamcribe/streamcribe/internal/recognizer"
	"github.com/streamcribe/streamcribe/internal/session"
	"github.com/streamcribe/streamcribe/internal/translate"
	"github.com/streamcribe/streamcribe/internal/vad"
)

// Config configures a Server. Recognizer should already be wrapped with
// recognizer.NewPooled so every session shares the process-wide
// concurrency cap from spec §5.
type Config struct {
	Addr       string
	Recognizer recognizer.Adapter
	VAD        vad.Gate
	Language   string
	HardCapS   float64
	MinSilence float64
	// MinChunkS overrides the session cadence's buffered-duration
	// threshold (CLI --min-chunk-size); 0 keeps session.MinChunkS.
	MinChunkS float64

	// Translator, if non-nil, wraps every session's output Writer with a
	// translate.Writer targeting TranslateLang. Left nil, records reach
	// the client untranslated; the engine and Session never know either
	// way.
	Translator    translate.Translator
	TranslateLang string
}

// wrapWriter applies the optional translation decorator around w.
func (s *Server) wrapWriter(w session.Writer) session.Writer {
	if s.cfg.Translator == nil {
		return w
	}
	return translate.NewWriter(w, s.cfg.Translator, s.cfg.TranslateLang)
}

// Server binds one socket and dispatches each accepted connection to
// either a streaming Session or a one-shot HTTP response.
type Server struct {
	cfg Config
	mux *http.ServeMux
}

// New builds a Server with /healthz and /metrics registered on its
// internal mux, reachable over the same listening socket as the audio
// protocols.
func New(cfg Config) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealthz)
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{cfg: cfg, mux: mux}
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte("ok"))
}

// ListenAndServe binds cfg.Addr and accepts connections until ctx is
// cancelled, at which point the listener closes and in-flight sessions
// run their own cancellation-triggered finish (spec §5).
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	slog.Info("server listening", "addr", s.cfg.Addr)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		go s.handleConn(ctx, conn)
	}
}

// handleConn sniffs one accepted connection and routes it to the raw PCM
// path, the WebSocket path, or a one-shot plain HTTP response.
func (s *Server) handleConn(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	kind, br, err := protocol.Sniff(conn)
	if err != nil {
		slog.Debug("sniff failed, dropping connection", "remote", conn.RemoteAddr(), "error", err)
		return
	}

	if kind == protocol.KindRawPCM {
		s.runRawSession(ctx, conn, br)
		return
	}

	req, err := http.ReadRequest(br)
	if err != nil {
		slog.Warn("malformed http request", "remote", conn.RemoteAddr(), "error", err)
		return
	}

	if protocol.IsUpgradeRequest(req) {
		s.runWebSocketSession(ctx, conn, br, req)
		return
	}

	if err := protocol.ServeParsedRequest(conn, br, req, s.mux); err != nil {
		slog.Debug("http response write failed", "remote", conn.RemoteAddr(), "error", err)
	}
}

// newEngine constructs the per-session Engine from shared, process-wide
// backend instances (spec §5: the recognizer and model weights are
// shared; only the buffer/hypothesis/committed state is session-private).
func (s *Server) newEngine() *engine.Engine {
	return engine.New(engine.Config{
		Recognizer: s.cfg.Recognizer,
		VAD:        s.cfg.VAD,
		Language:   s.cfg.Language,
		HardCapS:   s.cfg.HardCapS,
		MinSilence: s.cfg.MinSilence,
	})
}

// runRawSession drives the raw-TCP protocol: line-delimited output
// records, little-endian 16-bit PCM input with no framing.
func (s *Server) runRawSession(ctx context.Context, conn net.Conn, br *bufio.Reader) {
	w := s.wrapWriter(protocol.NewTCPWriter(bufio.NewWriter(conn)))
	sess := session.New(s.newEngine(), w, s.cfg.MinChunkS)

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- sess.Run(sessCtx) }()

	s.pumpPCM(conn, br, sess)

	if err := <-done; err != nil {
		slog.Warn("raw session ended with error", "session_id", sess.ID, "error", err)
	}
}

// pumpPCM reads the connection until EOF/error, decoding and handing off
// each chunk, then closes the session's audio channel.
func (s *Server) pumpPCM(conn net.Conn, br *bufio.Reader, sess *session.Session) {
	defer sess.Close()

	var dec audio.StreamDecoder
	buf := make([]byte, 4096)
	for {
		n, err := br.Read(buf)
		if n > 0 {
			sess.InsertAudio(dec.Decode(buf[:n]))
		}
		if err != nil {
			return
		}
	}
}

// runWebSocketSession completes the WebSocket handshake, then drives the
// same Session loop reading binary PCM frames and writing JSON records.
func (s *Server) runWebSocketSession(ctx context.Context, conn net.Conn, br *bufio.Reader, req *http.Request) {
	wsConn, err := protocol.UpgradeWebSocket(conn, br, req)
	if err != nil {
		slog.Warn("websocket upgrade failed", "remote", conn.RemoteAddr(), "error", err)
		return
	}
	defer wsConn.Close()

	w := protocol.NewWSWriter(wsConn)
	sess := session.New(s.newEngine(), s.wrapWriter(w), s.cfg.MinChunkS)

	sessCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	keepaliveDone := make(chan struct{})
	defer close(keepaliveDone)
	go w.RunKeepalive(keepaliveDone)

	done := make(chan error, 1)
	go func() { done <- sess.Run(sessCtx) }()

	s.pumpWebSocket(wsConn, sess)

	if err := <-done; err != nil {
		slog.Warn("websocket session ended with error", "session_id", sess.ID, "error", err)
		return
	}
	w.Close()
}

// pumpWebSocket reads binary PCM frames until the peer closes, then
// closes the session's audio channel. Text frames are not part of this
// protocol and are ignored.
func (s *Server) pumpWebSocket(wsConn *websocket.Conn, sess *session.Session) {
	defer sess.Close()

	var dec audio.StreamDecoder
	for {
		msgType, data, err := wsConn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.BinaryMessage || len(data) == 0 {
			continue
		}
		sess.InsertAudio(dec.Decode(data))
	}
}
