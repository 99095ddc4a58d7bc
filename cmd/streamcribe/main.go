// Command streamcribe runs the streaming speech-to-text server: one
// listening socket multiplexing raw PCM, WebSocket, and plain HTTP
// (/healthz, /metrics), driving an online ASR engine per session.
// Grounded on the teacher's cmd/gateway/main.go bootstrap shape
// (slog JSON logging, env-first config, SIGINT/SIGTERM graceful
// shutdown), restructured as a Cobra command per spec.md §6's CLI
// surface.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/streamcribe/streamcribe/internal/asrerr"
	"github.com/streamcribe/streamcribe/internal/recognizer"
	"github.com/streamcribe/streamcribe/internal/server"
	"github.com/streamcribe/streamcribe/internal/vad"
)

func main() {
	cfg := loadConfig()

	root := &cobra.Command{
		Use:   "streamcribe",
		Short: "Streaming speech-to-text server core",
		RunE: func(cmd *cobra.Command, args []string) error {
			runServe(cfg)
			return nil
		},
	}
	registerFlags(root, &cfg)
	root.AddCommand(modelsCmd(&cfg))

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func registerFlags(cmd *cobra.Command, cfg *appConfig) {
	cmd.Flags().StringVar(&cfg.host, "host", cfg.host, "listen host")
	cmd.Flags().StringVar(&cfg.port, "port", cfg.port, "listen port")
	cmd.Flags().StringVar(&cfg.model, "model", cfg.model, "recognizer backend: whisper-server, whisper-native, openai-cloud, sherpa-onnx")
	cmd.Flags().StringVar(&cfg.language, "language", cfg.language, "ISO language code, or \"auto\"")
	cmd.Flags().Float64Var(&cfg.minChunkS, "min-chunk-size", cfg.minChunkS, "minimum buffered seconds before a process_iter tick")
	cmd.Flags().StringVar(&cfg.bufferTrimming, "buffer-trimming", cfg.bufferTrimming, "segment (VAD-boundary) or sentence (committed-only)")
	cmd.Flags().StringVar(&cfg.vadMode, "vad", cfg.vadMode, "on or off")
	cmd.Flags().StringVar(&cfg.logFile, "log-file", cfg.logFile, "rotating log file path; stdout JSON only if unset")
}

// runServe builds every collaborator and blocks until shutdown. Exit
// codes follow spec.md §6: 0 clean shutdown, 1 bind failure, 2 model
// load failure.
func runServe(cfg appConfig) {
	setupLogging(cfg)

	rec, err := buildRecognizer(cfg)
	if err != nil {
		slog.Error("recognizer construction failed", "model", cfg.model, "error", err)
		os.Exit(2)
	}

	srv := server.New(server.Config{
		Addr:          cfg.host + ":" + cfg.port,
		Recognizer:    recognizer.NewPooled(rec, cfg.asrPoolSize, cfg.model),
		VAD:           buildVADGate(cfg),
		Language:      cfg.language,
		HardCapS:      cfg.hardCapS,
		MinSilence:    cfg.minSilenceS,
		MinChunkS:     cfg.minChunkS,
		Translator:    buildTranslator(cfg),
		TranslateLang: cfg.translateTargetLang,
	})

	ctx, cancel := context.WithCancel(context.Background())
	go awaitShutdown(cancel)

	slog.Info("streamcribe starting", "addr", cfg.host+":"+cfg.port, "model", cfg.model, "vad", cfg.vadMode)

	if err := srv.ListenAndServe(ctx); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}

	slog.Info("streamcribe stopped")
}

// awaitShutdown blocks until SIGINT/SIGTERM then cancels ctx, letting
// ListenAndServe close its listener and return cleanly.
func awaitShutdown(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	slog.Info("shutting down", "signal", sig)
	cancel()
}

func setupLogging(cfg appConfig) {
	if cfg.logFile == "" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})))
		return
	}
	rotator := &lumberjack.Logger{Filename: cfg.logFile, MaxSize: 100, MaxBackups: 5, MaxAge: 28}
	slog.SetDefault(slog.New(slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

func buildRecognizer(cfg appConfig) (recognizer.Adapter, error) {
	backends := buildBackends(cfg)
	adapter, ok := backends[cfg.model]
	if !ok {
		return nil, fmt.Errorf("%w: no recognizer backend configured for %q", asrerr.RecognizerUnavailable, cfg.model)
	}
	return adapter, nil
}

func buildVADGate(cfg appConfig) vad.Gate {
	if cfg.vadMode == "off" || cfg.bufferTrimming == "sentence" {
		return nil
	}
	if cfg.sileroModelPath != "" {
		return vad.NewSileroGate(cfg.sileroModelPath)
	}
	return vad.NewEnergyGate()
}
