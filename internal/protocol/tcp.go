package protocol

import (
	"bufio"
	"fmt"

	"github.com/streamcribe/streamcribe/internal/session"
)

// TCPWriter encodes a session.Record as the raw-TCP line format from spec
// §6: "<start_ms> <end_ms> <text>\n", UTF-8, no JSON escaping.
type TCPWriter struct {
	w *bufio.Writer
}

// NewTCPWriter wraps conn (or any buffered writer the server has already
// started reading ahead on) for line-delimited record output.
func NewTCPWriter(w *bufio.Writer) *TCPWriter {
	return &TCPWriter{w: w}
}

func (t *TCPWriter) WriteRecord(r session.Record) error {
	if _, err := fmt.Fprintf(t.w, "%d %d %s\n", r.StartMS, r.EndMS, r.Text); err != nil {
		return err
	}
	return t.w.Flush()
}
