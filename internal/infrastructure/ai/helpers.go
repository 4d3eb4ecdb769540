package ai

import (
	"fmt"
	"os"

	"github.com/doeshing/chat-cli/internal/domain"
)

func resolveEnv(primary string, fallback string) string {
	if primary != "" {
		if value := os.Getenv(primary); value != "" {
			return value
		}
	}
	if fallback == "" {
		return ""
	}
	return os.Getenv(fallback)
}

func requireAPIKey(model domain.ModelDefinition) (string, error) {
	key := os.Getenv(model.KeyEnvVar())
	if key == "" {
		return "", fmt.Errorf("%w: set %s environment variable", domain.ErrMissingAPIKey, model.KeyEnvVar())
	}
	return key, nil
}

func valueOrDefault(value string, def string) string {
	if value == "" {
		return def
	}
	return value
}

func valueOrDefaultInt(value int, def int) int {
	if value == 0 {
		return def
	}
	return value
}
