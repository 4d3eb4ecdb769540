package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/ports"
)

// anthropicMaxTokens is required by the Messages API when a model sets none.
const anthropicMaxTokens = 1024

// httpProvider is a configuration-driven HTTP provider.
// All provider-specific behavior is controlled through the model's APIFormat.
type httpProvider struct {
	model      domain.ModelDefinition
	format     domain.APIFormat
	apiKey     string
	httpClient *http.Client
}

func newHTTPProvider(model domain.ModelDefinition, client *http.Client) (ports.Provider, error) {
	if model.Endpoint == "" {
		return nil, fmt.Errorf("model %s: endpoint is required", model.Name)
	}
	apiKey, err := requireAPIKey(model)
	if err != nil {
		return nil, err
	}

	format := model.APIFormat
	if model.Kind() == domain.ProviderKindAnthropic && format.IsZero() {
		format = domain.AnthropicFormat()
	}

	return &httpProvider{
		model:      model,
		format:     format,
		apiKey:     apiKey,
		httpClient: client,
	}, nil
}

func (p *httpProvider) Name() string {
	return string(p.model.Kind())
}

func (p *httpProvider) Model() domain.ModelDefinition {
	return p.model
}

func (p *httpProvider) Complete(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	requestBody, err := p.buildRequestBody(req.Prompt)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("build request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.model.Endpoint, bytes.NewReader(requestBody))
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("create HTTP request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(p.format.GetAuthHeaderName(), p.format.GetAuthHeaderPrefix()+p.apiKey)
	for key, value := range p.format.ExtraHeaders {
		httpReq.Header.Set(key, value)
	}

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("%s: HTTP request failed: %w", p.Name(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return ports.ProviderResponse{}, fmt.Errorf("%s: HTTP %d: %s", p.Name(), resp.StatusCode, strings.TrimSpace(string(body)))
	}

	content, err := p.parseResponse(body)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("parse response: %w", err)
	}
	return ports.ProviderResponse{Text: content}, nil
}

// buildRequestBody sends the prompt as a single user message at zero temperature.
func (p *httpProvider) buildRequestBody(prompt string) ([]byte, error) {
	message := map[string]interface{}{"role": "user"}
	if p.format.IsContentWrapped() {
		message["content"] = []map[string]string{{"type": "text", "text": prompt}}
	} else {
		message["content"] = prompt
	}

	request := map[string]interface{}{
		"model":       p.model.ModelID,
		"messages":    []map[string]interface{}{message},
		"temperature": 0,
	}

	maxTokens := p.model.MaxTokens
	if p.format.IsContentWrapped() {
		maxTokens = valueOrDefaultInt(maxTokens, anthropicMaxTokens)
	}
	if maxTokens > 0 {
		request["max_tokens"] = maxTokens
	}

	return json.Marshal(request)
}

// parseResponse extracts the generated text using the configured JSON path.
func (p *httpProvider) parseResponse(body []byte) (string, error) {
	var response map[string]interface{}
	if err := json.Unmarshal(body, &response); err != nil {
		return "", fmt.Errorf("unmarshal JSON: %w", err)
	}

	path := p.format.GetResponseJSONPath()
	content, err := extractJSONPath(response, path)
	if err != nil {
		return "", fmt.Errorf("extract from path '%s': %w", path, err)
	}
	return content, nil
}

// extractJSONPath extracts a string value from a nested JSON structure.
// Supported paths: "field", "field.nested", "field[0]", "field[0].nested.field"
func extractJSONPath(data map[string]interface{}, path string) (string, error) {
	var current interface{} = data

	for _, part := range parseJSONPath(path) {
		switch part.kind {
		case pathField:
			obj, ok := current.(map[string]interface{})
			if !ok {
				return "", fmt.Errorf("expected object at '%s'", part.value)
			}
			var found bool
			current, found = obj[part.value]
			if !found {
				return "", fmt.Errorf("field '%s' not found", part.value)
			}

		case pathIndex:
			arr, ok := current.([]interface{})
			if !ok {
				return "", fmt.Errorf("expected array at index %s", part.value)
			}
			idx, err := strconv.Atoi(part.value)
			if err != nil {
				return "", fmt.Errorf("invalid index %q", part.value)
			}
			if idx < 0 || idx >= len(arr) {
				return "", fmt.Errorf("index %d out of bounds (len=%d)", idx, len(arr))
			}
			current = arr[idx]
		}
	}

	if str, ok := current.(string); ok {
		return str, nil
	}
	return "", fmt.Errorf("final value is not a string: %T", current)
}

type pathKind int

const (
	pathField pathKind = iota
	pathIndex
)

type pathPart struct {
	kind  pathKind
	value string
}

// parseJSONPath converts "content[0].text" into
// [{field content} {index 0} {field text}].
func parseJSONPath(path string) []pathPart {
	var parts []pathPart
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			parts = append(parts, pathPart{kind: pathField, value: current.String()})
			current.Reset()
		}
	}

	for i := 0; i < len(path); i++ {
		switch ch := path[i]; ch {
		case '.':
			flush()
		case '[':
			flush()
			j := i + 1
			for j < len(path) && path[j] != ']' {
				j++
			}
			if j < len(path) {
				parts = append(parts, pathPart{kind: pathIndex, value: path[i+1 : j]})
				i = j
			}
		default:
			current.WriteByte(ch)
		}
	}
	flush()

	return parts
}
