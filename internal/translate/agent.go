package translate

import (
	"context"
	"fmt"
	"strings"

	"github.com/nlpodyssey/openai-agents-go/agents"
	"github.com/nlpodyssey/openai-agents-go/modelsettings"
	"github.com/openai/openai-go/v2/packages/param"
)

// AgentTranslator is the concrete LLM-backed Translator, using the
// openai-agents-go SDK exactly the way the teacher's AgentLLM.Chat drives
// a one-turn completion (internal/pipeline/llm_agent.go) — same
// agents.New/.WithInstructions/.WithModel/.WithModelSettings construction
// and the same RunStreamedChan consumption loop, simplified here to
// accumulate the whole response rather than forward it token-by-token,
// since a translation is produced once a record is already final.
type AgentTranslator struct {
	provider  agents.ModelProvider
	model     string
	maxTokens int
}

// NewAgentTranslator builds a translator bound to one model provider.
func NewAgentTranslator(provider agents.ModelProvider, model string, maxTokens int) *AgentTranslator {
	if maxTokens <= 0 {
		maxTokens = 512
	}
	return &AgentTranslator{provider: provider, model: model, maxTokens: maxTokens}
}

func (a *AgentTranslator) Translate(ctx context.Context, text, targetLang string) (string, error) {
	instructions := fmt.Sprintf(
		"Translate the user's message to %s. Reply with only the translation, no commentary, no quotation marks.",
		targetLang,
	)

	agent := agents.New("translator").
		WithInstructions(instructions).
		WithModel(a.model).
		WithModelSettings(modelsettings.ModelSettings{
			MaxTokens: param.NewOpt(int64(a.maxTokens)),
		})

	runner := agents.Runner{Config: agents.RunConfig{
		ModelProvider:   a.provider,
		MaxTurns:        1,
		TracingDisabled: true,
	}}

	events, errCh, err := runner.RunStreamedChan(ctx, agent, text)
	if err != nil {
		return "", fmt.Errorf("translate stream start: %w", err)
	}

	var out strings.Builder
	for ev := range events {
		raw, ok := ev.(agents.RawResponsesStreamEvent)
		if !ok || raw.Data.Type != "response.output_text.delta" {
			continue
		}
		out.WriteString(raw.Data.Delta)
	}
	if streamErr := <-errCh; streamErr != nil {
		return "", fmt.Errorf("translate stream: %w", streamErr)
	}

	return strings.TrimSpace(out.String()), nil
}
