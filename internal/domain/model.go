// Package domain defines core business entities and value objects for chat-cli.
//
// This file contains language-model and provider definitions. The domain layer is
// independent of infrastructure concerns and holds plain data plus small behaviors.
package domain

import "strings"

// ProviderKind selects the client implementation for a model.
type ProviderKind string

const (
	ProviderKindOpenAI    ProviderKind = "openai"
	ProviderKindOllama    ProviderKind = "ollama"
	ProviderKindAnthropic ProviderKind = "anthropic"
	ProviderKindHTTP      ProviderKind = "http"
)

// ModelDefinition describes a language-model endpoint declared in the config file.
type ModelDefinition struct {
	Name       string       `yaml:"name"`
	Provider   ProviderKind `yaml:"provider,omitempty"`
	Endpoint   string       `yaml:"endpoint"`
	AuthEnvVar string       `yaml:"auth_env_var,omitempty"`
	OrgEnvVar  string       `yaml:"org_env_var,omitempty"`
	ModelID    string       `yaml:"model_id"`
	MaxTokens  int          `yaml:"max_tokens,omitempty"`
	APIFormat  APIFormat    `yaml:"api_format,omitempty"`
}

// Kind returns the explicit provider, or infers one from the endpoint.
func (m ModelDefinition) Kind() ProviderKind {
	if m.Provider != "" {
		return ProviderKind(strings.ToLower(string(m.Provider)))
	}
	endpoint := strings.ToLower(m.Endpoint)
	switch {
	case endpoint == "", strings.Contains(endpoint, "openai.com"):
		return ProviderKindOpenAI
	case strings.Contains(endpoint, "anthropic.com"):
		return ProviderKindAnthropic
	case strings.Contains(endpoint, "11434"), strings.Contains(strings.ToLower(m.Name), "ollama"):
		return ProviderKindOllama
	default:
		return ProviderKindHTTP
	}
}

// KeyEnvVar names the variable the model's API key is read from.
func (m ModelDefinition) KeyEnvVar() string {
	if m.AuthEnvVar != "" {
		return m.AuthEnvVar
	}
	return DefaultAPIKeyEnvVar
}

// APIFormat defines how to construct requests and parse responses for non-OpenAI APIs.
// All fields are optional with OpenAI-compatible defaults.
type APIFormat struct {
	// AuthHeaderName specifies the HTTP header name for authentication.
	// Default: "Authorization"
	AuthHeaderName string `yaml:"auth_header_name,omitempty"`

	// AuthHeaderPrefix is prepended to the API key value.
	// Default: "Bearer " when AuthHeaderName is also unset.
	AuthHeaderPrefix string `yaml:"auth_header_prefix,omitempty"`

	// ContentWrapper controls how message content is formatted.
	// Values: "standard" (default) or "anthropic" ([{"type":"text","text":...}]).
	ContentWrapper string `yaml:"content_wrapper,omitempty"`

	// ResponseJSONPath specifies where to extract the generated text from the response.
	// Default: "choices[0].message.content"
	ResponseJSONPath string `yaml:"response_json_path,omitempty"`

	// ExtraHeaders contains additional HTTP headers to send with each request.
	ExtraHeaders map[string]string `yaml:"extra_headers,omitempty"`
}

const (
	DefaultAuthHeaderName   = "Authorization"
	DefaultAuthHeaderPrefix = "Bearer "

	ContentWrapperStandard  = "standard"
	ContentWrapperAnthropic = "anthropic"

	DefaultResponsePath   = "choices[0].message.content"
	AnthropicResponsePath = "content[0].text"
)

// AnthropicFormat is the APIFormat used when a model is of kind anthropic and
// declares no overrides.
func AnthropicFormat() APIFormat {
	return APIFormat{
		AuthHeaderName:   "x-api-key",
		ContentWrapper:   ContentWrapperAnthropic,
		ResponseJSONPath: AnthropicResponsePath,
		ExtraHeaders:     map[string]string{"anthropic-version": "2023-06-01"},
	}
}

// IsZero reports whether no field of the format was configured.
func (f APIFormat) IsZero() bool {
	return f.AuthHeaderName == "" && f.AuthHeaderPrefix == "" && f.ContentWrapper == "" &&
		f.ResponseJSONPath == "" && len(f.ExtraHeaders) == 0
}

// GetAuthHeaderName returns the authentication header name with default fallback.
func (f APIFormat) GetAuthHeaderName() string {
	if f.AuthHeaderName == "" {
		return DefaultAuthHeaderName
	}
	return f.AuthHeaderName
}

// GetAuthHeaderPrefix returns the authentication header prefix.
// A custom header name with no prefix means no prefix.
func (f APIFormat) GetAuthHeaderPrefix() string {
	if f.AuthHeaderPrefix == "" && f.AuthHeaderName == "" {
		return DefaultAuthHeaderPrefix
	}
	return f.AuthHeaderPrefix
}

// GetResponseJSONPath returns the JSON path for extracting response content.
func (f APIFormat) GetResponseJSONPath() string {
	if f.ResponseJSONPath == "" {
		return DefaultResponsePath
	}
	return f.ResponseJSONPath
}

// IsContentWrapped returns true if content should be wrapped in Anthropic's array format.
func (f APIFormat) IsContentWrapped() bool {
	return f.ContentWrapper == ContentWrapperAnthropic
}
