package translate

import "github.com/streamcribe/streamcribe/internal/recognizer"

// ProviderRouter dispatches by engine name ("openai", "anthropic", ...) to
// a configured AgentTranslator, reusing C3's generic Router rather than
// writing a second name-to-backend map type for the same dispatch shape.
type ProviderRouter = recognizer.Router[*AgentTranslator]

// NewProviderRouter builds a ProviderRouter falling back to the named
// backend when a caller requests an unconfigured engine.
func NewProviderRouter(backends map[string]*AgentTranslator, fallback string) *ProviderRouter {
	return recognizer.NewRouter(backends, fallback)
}
