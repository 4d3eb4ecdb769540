// Package ai provides the language-model provider factory and its implementations.
//
//   - OpenAI-compatible endpoints (OpenAI, Ollama) go through github.com/sashabaranov/go-openai.
//   - Anything else goes through a configuration-driven HTTP provider whose request and
//     response shape is described by the model's APIFormat.
//
// Every provider samples at zero temperature so repeated runs of the same instruction
// are as deterministic as the backend allows.
package ai

import (
	"fmt"
	"net/http"

	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/ports"
)

// Factory creates provider instances based on model definitions.
// It maintains a single HTTP client shared across all providers.
type Factory struct {
	httpClient *http.Client
}

// NewFactory creates a provider factory whose client sets no timeout of its
// own. Requests are bounded only by the caller's context.
func NewFactory() *Factory {
	return NewFactoryWithClient(&http.Client{})
}

// NewFactoryWithClient uses the given HTTP client for every provider.
func NewFactoryWithClient(client *http.Client) *Factory {
	return &Factory{httpClient: client}
}

// ForModel picks the client implementation for the model's provider kind.
func (f *Factory) ForModel(model domain.ModelDefinition) (ports.Provider, error) {
	switch kind := model.Kind(); kind {
	case domain.ProviderKindOpenAI, domain.ProviderKindOllama:
		return newOpenAIProvider(model, f.httpClient)
	case domain.ProviderKindAnthropic, domain.ProviderKindHTTP:
		return newHTTPProvider(model, f.httpClient)
	default:
		return nil, fmt.Errorf("unsupported provider kind: %s", kind)
	}
}

var _ ports.ProviderFactory = (*Factory)(nil)
