package server

import (
	"bufio"
	"context"
	"net"
	"testing"
	"time"

	"github.com/streamcribe/streamcribe/internal/recognizer"
)

type fakeAdapter struct {
	hyp recognizer.Hypothesis
}

func (f fakeAdapter) Capability() recognizer.Capability { return recognizer.Capability{} }
func (f fakeAdapter) Transcribe(ctx context.Context, audio []float32, prompt, language string) (recognizer.Hypothesis, error) {
	return f.hyp, nil
}

func TestServerRawTCPSessionEndToEnd(t *testing.T) {
	hyp := recognizer.Hypothesis{Words: []recognizer.Word{
		{StartS: 0, EndS: 0.5, Text: "hi"},
	}}
	srv := New(Config{Addr: "127.0.0.1:0", Recognizer: fakeAdapter{hyp: hyp}})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go srv.handleConn(ctx, conn)
		}
	}()

	conn, err := net.Dial("tcp", ln.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	silence := make([]byte, 2*16000) // 1s of silent PCM, 2 bytes/sample
	// The server reads in chunks of up to 4096 bytes and ticks once at
	// least 1s has been buffered since the last tick, so the first tick
	// can land just past 1s. Three seconds of audio guarantee a second
	// tick, which confirms the recognizer's "hi", well before the 3s
	// max-wait fallback.
	conn.Write(silence)
	conn.Write(silence)
	conn.Write(silence)

	conn.SetReadDeadline(time.Now().Add(3 * time.Second))
	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read line: %v", err)
	}
	if line == "" {
		t.Fatal("expected a non-empty output line")
	}

	conn.Close()
	ln.Close()
}
