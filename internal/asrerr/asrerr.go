// Package asrerr defines the sentinel error taxonomy shared by every
// component of the engine, wrapped with fmt.Errorf("...: %w", ...) the
// way the rest of this codebase wraps errors, and dispatched with
// errors.Is/As rather than string matching.
package asrerr

import "errors"

var (
	// Transport covers peer/socket failure. The session ends; there is no
	// retry.
	Transport = errors.New("transport error")

	// Decode covers malformed PCM on the wire. Nothing in this module
	// returns it: the PCM decoders do not fail.
	Decode = errors.New("decode error")

	// RecognizerUnavailable means the backend could not be reached or
	// could not load its model. The session ends and the server stays
	// up; no error record is sent to the client.
	RecognizerUnavailable = errors.New("recognizer unavailable")

	// RecognizerTransient means a single recognizer call failed. The
	// caller treats this tick as having produced no new words; it never
	// reaches the client.
	RecognizerTransient = errors.New("recognizer transient error")

	// EngineClosed means finish() was already called. Further engine
	// calls are a programming error.
	EngineClosed = errors.New("engine closed")
)

// Kind returns the short tag for err (the "kind" label of the recognizer
// error metrics), or "" if err does not match any entry in the taxonomy.
func Kind(err error) string {
	switch {
	case errors.Is(err, Transport):
		return "transport"
	case errors.Is(err, Decode):
		return "decode"
	case errors.Is(err, RecognizerUnavailable):
		return "recognizer_unavailable"
	case errors.Is(err, RecognizerTransient):
		return "recognizer_transient"
	case errors.Is(err, EngineClosed):
		return "engine_closed"
	default:
		return ""
	}
}
