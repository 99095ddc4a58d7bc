// Package protocol implements C6 (record encoding for both wire formats)
// and the protocol-detection step of C7: sniffing a freshly accepted
// connection to decide whether it carries an HTTP request (WebSocket
// upgrade or plain health/metrics) or the raw PCM stream, per spec
// §4.5/§6. Grounded on the teacher's internal/ws/handler.go for the
// WebSocket side (upgrader config, single-writer-goroutine discipline);
// the sniffing and raw-conn upgrade shim below are new, since the teacher
// always runs its WebSocket endpoint behind a full net/http server rather
// than multiplexing both protocols on one socket itself.
package protocol

import (
	"bufio"
	"bytes"
	"io"
	"net"
)

// sniffLimit bounds how much of the connection's leading bytes we inspect
// to decide the protocol, per spec §6 ("reads up to 4 KB or the first
// \r\n\r\n").
const sniffLimit = 4096

// Kind identifies which wire protocol a freshly accepted connection uses.
type Kind int

const (
	KindRawPCM Kind = iota
	KindHTTP        // includes both the WebSocket upgrade and plain HTTP requests (health/metrics)
)

// Sniff performs a single non-blocking-beyond-first-segment read of up to
// sniffLimit bytes and classifies it. The returned *bufio.Reader replays
// those bytes ahead of the rest of conn, so callers can go on to either
// http.ReadRequest it (HTTP path) or decode it as PCM (raw path) without
// losing anything already read off the wire.
func Sniff(conn net.Conn) (Kind, *bufio.Reader, error) {
	buf := make([]byte, sniffLimit)
	n, err := conn.Read(buf)
	if n == 0 {
		return KindRawPCM, bufio.NewReader(conn), err
	}

	peeked := buf[:n]
	br := bufio.NewReader(io.MultiReader(bytes.NewReader(peeked), conn))
	if looksLikeHTTP(peeked) {
		return KindHTTP, br, nil
	}
	return KindRawPCM, br, nil
}

// looksLikeHTTP reports whether b begins with a plausible HTTP/1.x
// request line. It doesn't need to be exhaustive — a false negative just
// means a legitimate HTTP client gets treated as raw PCM and fails
// decoding, which cannot happen for any real browser or HTTP library.
func looksLikeHTTP(b []byte) bool {
	for _, method := range [][]byte{
		[]byte("GET "), []byte("POST "), []byte("PUT "), []byte("HEAD "),
		[]byte("OPTIONS "), []byte("DELETE "), []byte("PATCH "),
	} {
		if bytes.HasPrefix(b, method) {
			return true
		}
	}
	return false
}
