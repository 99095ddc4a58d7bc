package protocol

import (
	"bufio"
	"encoding/json"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/streamcribe/streamcribe/internal/session"
)

// keepaliveInterval is how long the server waits with no outbound traffic
// before sending a ping, per spec §6.
const keepaliveInterval = 30 * time.Second

// upgrader is shared process-wide; CheckOrigin always allows since this
// is a core streaming protocol, not a browser-facing API with CSRF
// concerns (grounded on the teacher's identical permissive CheckOrigin in
// internal/ws/handler.go).
var upgrader = websocket.Upgrader{
	ReadBufferSize:  16384,
	WriteBufferSize: 16384,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// UpgradeWebSocket completes the handshake for req on a raw-sniffed
// connection, using connResponseWriter's Hijack to hand gorilla the
// underlying conn and its buffered reader directly.
func UpgradeWebSocket(conn net.Conn, br *bufio.Reader, req *http.Request) (*websocket.Conn, error) {
	w := newConnResponseWriter(conn, br)
	return upgrader.Upgrade(w, req, nil)
}

// wsRecord is the wire shape of a session.Record in WebSocket mode:
// {"start": <ms>, "end": <ms>, "text": "<utf8>"}.
type wsRecord struct {
	Start int64  `json:"start"`
	End   int64  `json:"end"`
	Text  string `json:"text"`
}

// WSWriter encodes session.Record as one JSON text message per record and
// runs a keepalive ping loop, grounded on the teacher's newEventSender
// (internal/ws/handler.go) mutex-guarded single-writer pattern — gorilla's
// Conn is not safe for concurrent writes.
type WSWriter struct {
	mu       sync.Mutex
	conn     *websocket.Conn
	lastSent time.Time
}

// NewWSWriter wraps an already-upgraded connection.
func NewWSWriter(conn *websocket.Conn) *WSWriter {
	return &WSWriter{conn: conn, lastSent: time.Now()}
}

func (w *WSWriter) WriteRecord(r session.Record) error {
	body, err := json.Marshal(wsRecord{Start: r.StartMS, End: r.EndMS, Text: r.Text})
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastSent = time.Now()
	return w.conn.WriteMessage(websocket.TextMessage, body)
}

// Close sends the terminal close frame (code 1000, clean close).
func (w *WSWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// RunKeepalive pings on keepaliveInterval whenever nothing else has been
// written, until done is closed. Run as its own goroutine per connection.
func (w *WSWriter) RunKeepalive(done <-chan struct{}) {
	ticker := time.NewTicker(keepaliveInterval)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			w.mu.Lock()
			idle := time.Since(w.lastSent)
			if idle >= keepaliveInterval {
				w.conn.WriteMessage(websocket.PingMessage, nil)
				w.lastSent = time.Now()
			}
			w.mu.Unlock()
		}
	}
}
