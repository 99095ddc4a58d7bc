// Command streamclient is a smoke-test client for a running streamcribe
// server: it streams one WAV file over either raw TCP or WebSocket at a
// configurable real-time pace and prints each timestamped record as it
// arrives. Adapted from the teacher's services/loadtest/main.go, which
// drove synthetic concurrent WebSocket calls against the call-center
// gateway; this is a single-connection tool exercising streamcribe's own
// wire protocol (§6) rather than the teacher's callMetadata/wsAction
// JSON handshake.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/gorilla/websocket"

	"github.com/streamcribe/streamcribe/internal/audio"
)

func main() {
	addr := flag.String("addr", "localhost:8090", "streamcribe server address")
	file := flag.String("file", "", "WAV file to stream")
	proto := flag.String("protocol", "tcp", "tcp or ws")
	chunkMs := flag.Int("chunk-ms", 20, "audio chunk size in milliseconds, paced at real time")
	flag.Parse()

	if *file == "" {
		fmt.Fprintln(os.Stderr, "usage: streamclient -file audio.wav [-addr host:port] [-protocol tcp|ws]")
		os.Exit(1)
	}

	samples, err := audio.ReadWAVFile(*file)
	if err != nil {
		log.Fatalf("read wav: %v", err)
	}
	pcm := audio.EncodePCM(samples)

	chunkSamples := max(1, audio.SampleRate*(*chunkMs)/1000)
	chunkBytes := chunkSamples * 2
	pace := time.Duration(*chunkMs) * time.Millisecond

	switch *proto {
	case "tcp":
		runTCP(*addr, pcm, chunkBytes, pace)
	case "ws":
		runWS(*addr, pcm, chunkBytes, pace)
	default:
		log.Fatalf("unknown protocol %q, want tcp or ws", *proto)
	}
}

func runTCP(addr string, pcm []byte, chunkBytes int, pace time.Duration) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		scanner := bufio.NewScanner(conn)
		for scanner.Scan() {
			fmt.Println(scanner.Text())
		}
	}()

	sendChunks(conn, pcm, chunkBytes, pace)
	conn.(*net.TCPConn).CloseWrite()

	<-done
}

func runWS(addr string, pcm []byte, chunkBytes int, pace time.Duration) {
	url := "ws://" + addr + "/"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			msgType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if msgType != websocket.TextMessage {
				continue
			}
			var rec struct {
				Start int64  `json:"start"`
				End   int64  `json:"end"`
				Text  string `json:"text"`
			}
			if err := json.Unmarshal(data, &rec); err != nil {
				continue
			}
			fmt.Printf("%d %d %s\n", rec.Start, rec.End, rec.Text)
		}
	}()

	for i := 0; i < len(pcm); i += chunkBytes {
		end := min(i+chunkBytes, len(pcm))
		if err := conn.WriteMessage(websocket.BinaryMessage, pcm[i:end]); err != nil {
			log.Fatalf("send audio: %v", err)
		}
		time.Sleep(pace)
	}
	conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))

	<-done
}

func sendChunks(w interface{ Write([]byte) (int, error) }, pcm []byte, chunkBytes int, pace time.Duration) {
	for i := 0; i < len(pcm); i += chunkBytes {
		end := min(i+chunkBytes, len(pcm))
		if _, err := w.Write(pcm[i:end]); err != nil {
			log.Fatalf("send audio: %v", err)
		}
		time.Sleep(pace)
	}
}
