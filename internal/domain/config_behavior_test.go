package domain_test

import (
	"errors"
	"runtime"
	"testing"
	"time"

	"github.com/doeshing/chat-cli/internal/domain"
)

// TestConfig_GetDefaultModel tests retrieving the default model
func TestConfig_GetDefaultModel(t *testing.T) {
	tests := []struct {
		name        string
		config      domain.Config
		wantError   bool
		wantModelID string
	}{
		{
			name: "returns default model successfully",
			config: domain.Config{
				Preferences: domain.Preferences{DefaultModel: "gpt4"},
				Models: []domain.ModelDefinition{
					{Name: "mini", ModelID: "gpt-4o-mini"},
					{Name: "gpt4", ModelID: "gpt-4o"},
				},
			},
			wantModelID: "gpt-4o",
		},
		{
			name: "falls back to first model when no default configured",
			config: domain.Config{
				Models: []domain.ModelDefinition{
					{Name: "mini", ModelID: "gpt-4o-mini"},
				},
			},
			wantModelID: "gpt-4o-mini",
		},
		{
			name: "returns error when default model not found",
			config: domain.Config{
				Preferences: domain.Preferences{DefaultModel: "nonexistent"},
				Models:      []domain.ModelDefinition{{Name: "mini"}},
			},
			wantError: true,
		},
		{
			name:      "returns error when no models configured",
			config:    domain.Config{},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := tt.config.GetDefaultModel()

			if tt.wantError {
				if !errors.Is(err, domain.ErrModelNotConfigured) {
					t.Errorf("expected ErrModelNotConfigured, got %v", err)
				}
				return
			}

			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}

			if model.ModelID != tt.wantModelID {
				t.Errorf("got model ID %s, want %s", model.ModelID, tt.wantModelID)
			}
		})
	}
}

func TestConfig_ResolveModel(t *testing.T) {
	cfg := domain.Config{
		Preferences: domain.Preferences{DefaultModel: "mini"},
		Models: []domain.ModelDefinition{
			{Name: "mini", ModelID: "gpt-4o-mini"},
			{Name: "local", ModelID: "llama3"},
		},
	}

	model, err := cfg.ResolveModel("local")
	if err != nil {
		t.Fatalf("ResolveModel() error = %v", err)
	}
	if model.ModelID != "llama3" {
		t.Errorf("got %s, want llama3", model.ModelID)
	}

	model, err = cfg.ResolveModel("")
	if err != nil {
		t.Fatalf("ResolveModel() error = %v", err)
	}
	if model.ModelID != "gpt-4o-mini" {
		t.Errorf("got %s, want gpt-4o-mini", model.ModelID)
	}

	if _, err := cfg.ResolveModel("missing"); !errors.Is(err, domain.ErrModelNotConfigured) {
		t.Errorf("expected ErrModelNotConfigured, got %v", err)
	}
}

// TestConfig_ValidateConsistency tests configuration consistency validation
func TestConfig_ValidateConsistency(t *testing.T) {
	tests := []struct {
		name      string
		config    domain.Config
		wantError bool
	}{
		{
			name: "valid configuration",
			config: domain.Config{
				Preferences: domain.Preferences{DefaultModel: "mini"},
				Models:      []domain.ModelDefinition{{Name: "mini"}, {Name: "local"}},
			},
		},
		{
			name: "invalid: default model doesn't exist",
			config: domain.Config{
				Preferences: domain.Preferences{DefaultModel: "nonexistent"},
				Models:      []domain.ModelDefinition{{Name: "mini"}},
			},
			wantError: true,
		},
		{
			name:      "invalid: no models configured",
			config:    domain.Config{},
			wantError: true,
		},
		{
			name: "invalid: duplicate model names",
			config: domain.Config{
				Models: []domain.ModelDefinition{{Name: "mini"}, {Name: "mini"}},
			},
			wantError: true,
		},
		{
			name: "invalid: empty model name",
			config: domain.Config{
				Models: []domain.ModelDefinition{{Name: ""}},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.ValidateConsistency()

			if tt.wantError {
				if err == nil {
					t.Error("expected error but got none")
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	var cfg domain.Config

	if got := cfg.GetTargetOS(); got != runtime.GOOS {
		t.Errorf("GetTargetOS() = %s, want %s", got, runtime.GOOS)
	}
	if got := cfg.GetTimeout(); got != 0 {
		t.Errorf("GetTimeout() = %v, want 0", got)
	}
	if cfg.IsHistoryEnabled() {
		t.Error("history should be disabled by default")
	}

	cfg.Preferences.TargetOS = "darwin"
	cfg.Preferences.TimeoutSeconds = 45
	if got := cfg.GetTargetOS(); got != "darwin" {
		t.Errorf("GetTargetOS() = %s, want darwin", got)
	}
	if got := cfg.GetTimeout(); got != 45*time.Second {
		t.Errorf("GetTimeout() = %v, want 45s", got)
	}
}

func TestModelDefinition_Kind(t *testing.T) {
	tests := []struct {
		name  string
		model domain.ModelDefinition
		want  domain.ProviderKind
	}{
		{"empty endpoint is openai", domain.ModelDefinition{}, domain.ProviderKindOpenAI},
		{"openai endpoint", domain.ModelDefinition{Endpoint: "https://api.openai.com/v1"}, domain.ProviderKindOpenAI},
		{"anthropic endpoint", domain.ModelDefinition{Endpoint: "https://api.anthropic.com/v1/messages"}, domain.ProviderKindAnthropic},
		{"ollama port", domain.ModelDefinition{Endpoint: "http://localhost:11434/v1"}, domain.ProviderKindOllama},
		{"custom endpoint", domain.ModelDefinition{Endpoint: "https://llm.internal/generate"}, domain.ProviderKindHTTP},
		{"explicit provider wins", domain.ModelDefinition{Provider: "OpenAI", Endpoint: "https://proxy.local/v1"}, domain.ProviderKindOpenAI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.model.Kind(); got != tt.want {
				t.Errorf("Kind() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestModelDefinition_KeyEnvVar(t *testing.T) {
	if got := (domain.ModelDefinition{}).KeyEnvVar(); got != domain.DefaultAPIKeyEnvVar {
		t.Errorf("KeyEnvVar() = %s", got)
	}
	if got := (domain.ModelDefinition{AuthEnvVar: "ANTHROPIC_API_KEY"}).KeyEnvVar(); got != "ANTHROPIC_API_KEY" {
		t.Errorf("KeyEnvVar() = %s", got)
	}
}
