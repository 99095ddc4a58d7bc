package main

import (
	"log/slog"

	"github.com/streamcribe/streamcribe/internal/recognizer"
)

// buildBackends constructs every recognizer variant whose required
// configuration is present, the way the teacher's initASR/initLLM build
// only the backends a deployment has credentials or URLs for. Unlike the
// teacher's single-backend ASRRouter, every configured backend here stays
// reachable (via "streamcribe models") even when cfg.model selects only
// one of them to actually serve sessions.
func buildBackends(cfg appConfig) map[string]recognizer.Adapter {
	backends := map[string]recognizer.Adapter{}

	if cfg.whisperServerURL != "" {
		backends["whisper-server"] = recognizer.NewWhisperServer(cfg.whisperServerURL, cfg.whisperServerModel, cfg.asrPoolSize)
	}

	if cfg.whisperNativeModelPath != "" {
		native, err := recognizer.NewWhisperNative(cfg.whisperNativeModelPath)
		if err != nil {
			slog.Warn("whisper-native backend unavailable", "error", err)
		} else {
			backends["whisper-native"] = native
		}
	}

	if cfg.openAIAPIKey != "" {
		backends["openai-cloud"] = recognizer.NewOpenAICloud(cfg.openAIAPIKey, cfg.openAIBaseURL, cfg.openAIASRModel)
	}

	if cfg.sherpaEncoder != "" && cfg.sherpaDecoder != "" && cfg.sherpaTokens != "" {
		sherpa, err := recognizer.NewSherpaOnnx(recognizer.SherpaOnnxConfig{
			Encoder: cfg.sherpaEncoder,
			Decoder: cfg.sherpaDecoder,
			Tokens:  cfg.sherpaTokens,
		})
		if err != nil {
			slog.Warn("sherpa-onnx backend unavailable", "error", err)
		} else {
			backends["sherpa-onnx"] = sherpa
		}
	}

	return backends
}
