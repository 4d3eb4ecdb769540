package ai

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/ports"
)

const defaultOpenAIModel = "gpt-4o-mini"

// zeroTemperature is sent instead of 0, which the client omits from the request
// body and the API then treats as its default of 1.
const zeroTemperature = math.SmallestNonzeroFloat32

type openAIProvider struct {
	model  domain.ModelDefinition
	client *openai.Client
}

func newOpenAIProvider(model domain.ModelDefinition, httpClient *http.Client) (ports.Provider, error) {
	apiKey, err := requireAPIKey(model)
	if err != nil && model.Kind() != domain.ProviderKindOllama {
		return nil, err
	}

	cfg := openai.DefaultConfig(apiKey)
	if model.Endpoint != "" {
		cfg.BaseURL = strings.TrimSuffix(model.Endpoint, "/")
	}
	if org := resolveEnv(model.OrgEnvVar, domain.DefaultOrgEnvVar); org != "" {
		cfg.OrgID = org
	}
	if httpClient != nil {
		cfg.HTTPClient = httpClient
	}

	return &openAIProvider{
		model:  model,
		client: openai.NewClientWithConfig(cfg),
	}, nil
}

func (p *openAIProvider) Name() string {
	return string(p.model.Kind())
}

func (p *openAIProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *openAIProvider) Complete(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	chatReq := openai.ChatCompletionRequest{
		Model: valueOrDefault(p.model.ModelID, defaultOpenAIModel),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		Temperature: zeroTemperature,
	}
	if p.model.MaxTokens > 0 {
		chatReq.MaxTokens = p.model.MaxTokens
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("%s: chat completion: %w", p.Name(), err)
	}
	if len(resp.Choices) == 0 {
		return ports.ProviderResponse{}, fmt.Errorf("%s: response has no choices", p.Name())
	}

	return ports.ProviderResponse{Text: resp.Choices[0].Message.Content}, nil
}
