package config

import (
	"fmt"
	"strings"

	"github.com/doeshing/chat-cli/internal/domain"
)

// Validate ensures config structure is consistent.
func Validate(cfg domain.Config) error {
	if err := cfg.ValidateConsistency(); err != nil {
		return err
	}
	for _, model := range cfg.Models {
		if err := validateModel(model); err != nil {
			return fmt.Errorf("model %s: %w", model.Name, err)
		}
	}
	if cfg.Preferences.TimeoutSeconds < 0 {
		return fmt.Errorf("preferences.timeout_seconds must be >= 0")
	}
	if err := validateHistory(cfg.History); err != nil {
		return err
	}
	return nil
}

func validateModel(model domain.ModelDefinition) error {
	kind := model.Kind()
	switch kind {
	case domain.ProviderKindOpenAI, domain.ProviderKindOllama, domain.ProviderKindAnthropic:
	case domain.ProviderKindHTTP:
		if model.Endpoint == "" {
			return fmt.Errorf("provider http requires an endpoint")
		}
	default:
		return fmt.Errorf("provider must be openai|ollama|anthropic|http, got %s", kind)
	}
	if kind == domain.ProviderKindAnthropic && model.Endpoint == "" {
		return fmt.Errorf("provider anthropic requires an endpoint")
	}
	if model.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must be >= 0")
	}
	switch strings.ToLower(model.APIFormat.ContentWrapper) {
	case "", domain.ContentWrapperStandard, domain.ContentWrapperAnthropic:
	default:
		return fmt.Errorf("api_format.content_wrapper must be standard|anthropic, got %s", model.APIFormat.ContentWrapper)
	}
	return nil
}

func validateHistory(history domain.HistorySettings) error {
	if history.Enabled && history.Path == "" {
		return fmt.Errorf("history.path must be set when history is enabled")
	}
	return nil
}
