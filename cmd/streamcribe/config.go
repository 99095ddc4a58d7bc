package main

import (
	"runtime"

	"github.com/streamcribe/streamcribe/internal/env"
)

// appConfig holds every knob streamcribe accepts, each read from an env
// var default and overridable by its matching CLI flag, the way the
// teacher's cmd/gateway/main.go resolves deployment config before any
// flag parsing existed here.
type appConfig struct {
	host           string
	port           string
	model          string
	language       string
	minChunkS      float64
	bufferTrimming string
	vadMode        string
	logFile        string

	whisperServerURL       string
	whisperServerModel     string
	whisperNativeModelPath string
	openAIAPIKey           string
	openAIBaseURL          string
	openAIASRModel         string
	sherpaEncoder          string
	sherpaDecoder          string
	sherpaTokens           string
	sileroModelPath        string
	asrPoolSize            int
	hardCapS               float64
	minSilenceS            float64

	translateTargetLang string
	translateProvider   string
	ollamaURL           string
	ollamaModel         string
	openAITranslateModel string
	anthropicAPIKey     string
	anthropicBaseURL    string
	anthropicModel      string
	translateMaxTokens  int
}

func loadConfig() appConfig {
	return appConfig{
		host:           env.Str("STREAMCRIBE_HOST", "0.0.0.0"),
		port:           env.Str("STREAMCRIBE_PORT", "8090"),
		model:          env.Str("STREAMCRIBE_MODEL", "whisper-server"),
		language:       env.Str("STREAMCRIBE_LANGUAGE", "auto"),
		minChunkS:      env.Float("STREAMCRIBE_MIN_CHUNK_S", 1.0),
		bufferTrimming: env.Str("STREAMCRIBE_BUFFER_TRIMMING", "segment"),
		vadMode:        env.Str("STREAMCRIBE_VAD", "on"),
		logFile:        env.Str("STREAMCRIBE_LOG_FILE", ""),

		whisperServerURL:       env.Str("WHISPER_SERVER_URL", "http://localhost:8080"),
		whisperServerModel:     env.Str("WHISPER_SERVER_MODEL", ""),
		whisperNativeModelPath: env.Str("WHISPER_NATIVE_MODEL_PATH", ""),
		openAIAPIKey:           env.Str("OPENAI_API_KEY", ""),
		openAIBaseURL:          env.Str("OPENAI_BASE_URL", ""),
		openAIASRModel:         env.Str("OPENAI_ASR_MODEL", "whisper-1"),
		sherpaEncoder:          env.Str("SHERPA_ENCODER", ""),
		sherpaDecoder:          env.Str("SHERPA_DECODER", ""),
		sherpaTokens:           env.Str("SHERPA_TOKENS", ""),
		sileroModelPath:        env.Str("SILERO_MODEL_PATH", ""),
		asrPoolSize:            env.Int("ASR_POOL_SIZE", runtime.NumCPU()),
		hardCapS:               env.Float("STREAMCRIBE_HARD_CAP_S", 0),
		minSilenceS:            env.Float("STREAMCRIBE_MIN_SILENCE_S", 0),

		translateTargetLang:  env.Str("TRANSLATE_TARGET_LANG", ""),
		translateProvider:    env.Str("TRANSLATE_PROVIDER", "openai"),
		ollamaURL:            env.Str("OLLAMA_URL", "http://localhost:11434"),
		ollamaModel:          env.Str("OLLAMA_MODEL", "llama3.2:3b"),
		openAITranslateModel: env.Str("OPENAI_TRANSLATE_MODEL", "gpt-4.1-nano"),
		anthropicAPIKey:      env.Str("ANTHROPIC_API_KEY", ""),
		anthropicBaseURL:     env.Str("ANTHROPIC_URL", "https://api.anthropic.com"),
		anthropicModel:       env.Str("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		translateMaxTokens:   env.Int("TRANSLATE_MAX_TOKENS", 512),
	}
}
