package main

import (
	"log/slog"

	"github.com/nlpodyssey/openai-agents-go/agents"
	"github.com/openai/openai-go/v2/packages/param"

	"github.com/streamcribe/streamcribe/internal/translate"
)

// buildTranslator wires the optional downstream translation
// post-processing spec.md names as out-of-scope but interfaced: when
// TRANSLATE_TARGET_LANG is unset this returns nil, and the server never
// wraps its writers. Provider construction mirrors the teacher's
// initLLM — one agents.OpenAIProvider per backend, registered on a
// router and selected by name.
func buildTranslator(cfg appConfig) translate.Translator {
	if cfg.translateTargetLang == "" {
		return nil
	}

	backends := map[string]*translate.AgentTranslator{}

	backends["openai"] = translate.NewAgentTranslator(
		agents.NewOpenAIProvider(agents.OpenAIProviderParams{
			BaseURL:      param.NewOpt(oaiBaseURLOrDefault(cfg.openAIBaseURL)),
			APIKey:       param.NewOpt(cfg.openAIAPIKey),
			UseResponses: param.NewOpt(true),
		}),
		cfg.openAITranslateModel,
		cfg.translateMaxTokens,
	)

	backends["ollama"] = translate.NewAgentTranslator(
		agents.NewOpenAIProvider(agents.OpenAIProviderParams{
			BaseURL:      param.NewOpt(cfg.ollamaURL + "/v1/"),
			APIKey:       param.NewOpt("ollama"),
			UseResponses: param.NewOpt(false),
		}),
		cfg.ollamaModel,
		cfg.translateMaxTokens,
	)

	if cfg.anthropicAPIKey != "" {
		backends["anthropic"] = translate.NewAgentTranslator(
			agents.NewOpenAIProvider(agents.OpenAIProviderParams{
				BaseURL:      param.NewOpt(cfg.anthropicBaseURL + "/v1/"),
				APIKey:       param.NewOpt(cfg.anthropicAPIKey),
				UseResponses: param.NewOpt(false),
			}),
			cfg.anthropicModel,
			cfg.translateMaxTokens,
		)
	}

	router := translate.NewProviderRouter(backends, "openai")
	provider, ok := router.Route(cfg.translateProvider)
	if !ok {
		slog.Warn("translate provider not configured, translation disabled", "provider", cfg.translateProvider)
		return nil
	}
	return provider
}

func oaiBaseURLOrDefault(url string) string {
	if url == "" {
		return "https://api.openai.com/v1/"
	}
	return url
}
