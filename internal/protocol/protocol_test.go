package protocol

import (
	"bufio"
	"bytes"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/streamcribe/streamcribe/internal/session"
)

func TestSniffDetectsHTTPRequestLine(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	go func() {
		client.Write([]byte("GET /healthz HTTP/1.1\r\nHost: x\r\n\r\n"))
	}()

	kind, br, err := Sniff(server)
	if err != nil {
		t.Fatalf("Sniff error: %v", err)
	}
	if kind != KindHTTP {
		t.Fatalf("kind = %v, want KindHTTP", kind)
	}
	line, _ := br.ReadString('\n')
	if line != "GET /healthz HTTP/1.1\r\n" {
		t.Fatalf("sniffed reader lost bytes, got %q", line)
	}
}

func TestSniffDetectsRawPCM(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()
	defer server.Close()

	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	go func() { client.Write(pcm) }()

	kind, br, err := Sniff(server)
	if err != nil {
		t.Fatalf("Sniff error: %v", err)
	}
	if kind != KindRawPCM {
		t.Fatalf("kind = %v, want KindRawPCM", kind)
	}
	got := make([]byte, len(pcm))
	if _, err := br.Read(got); err != nil {
		t.Fatalf("read back sniffed bytes: %v", err)
	}
	if !bytes.Equal(got, pcm) {
		t.Fatalf("sniffed reader bytes = %v, want %v", got, pcm)
	}
}

func TestTCPWriterFormatsLineRecord(t *testing.T) {
	var buf bytes.Buffer
	w := NewTCPWriter(bufio.NewWriter(&buf))
	if err := w.WriteRecord(session.Record{StartMS: 100, EndMS: 500, Text: "hello world"}); err != nil {
		t.Fatalf("WriteRecord error: %v", err)
	}
	if got, want := buf.String(), "100 500 hello world\n"; got != want {
		t.Fatalf("line = %q, want %q", got, want)
	}
}

func TestIsUpgradeRequestRequiresBothHeaders(t *testing.T) {
	req, _ := http.NewRequest("GET", "/", nil)
	req.Header.Set("Upgrade", "websocket")
	req.Header.Set("Connection", "Upgrade")
	if !IsUpgradeRequest(req) {
		t.Fatal("expected upgrade request to be detected")
	}

	req2, _ := http.NewRequest("GET", "/healthz", nil)
	if IsUpgradeRequest(req2) {
		t.Fatal("plain request must not be treated as an upgrade")
	}
}

func TestServeParsedRequestWritesWellFormedResponse(t *testing.T) {
	client, server := net.Pipe()
	defer client.Close()

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	raw := []byte("GET /healthz HTTP/1.1\r\nHost: x\r\n\r\n")
	br := bufio.NewReader(bytes.NewReader(raw))
	req, err := http.ReadRequest(br)
	if err != nil {
		t.Fatalf("parse request: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- ServeParsedRequest(server, br, req, mux) }()

	client.SetReadDeadline(time.Now().Add(time.Second))
	resp, err := http.ReadResponse(bufio.NewReader(client), nil)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	server.Close()
	<-done
}
