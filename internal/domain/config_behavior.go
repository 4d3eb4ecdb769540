package domain

import (
	"fmt"
	"runtime"
	"time"
)

// GetDefaultModel retrieves the default model definition from configuration.
// Falls back to the first configured model when no default is named.
func (c *Config) GetDefaultModel() (ModelDefinition, error) {
	if c.Preferences.DefaultModel == "" {
		if len(c.Models) > 0 {
			return c.Models[0], nil
		}
		return ModelDefinition{}, ErrModelNotConfigured
	}

	if model, ok := c.FindModelByName(c.Preferences.DefaultModel); ok {
		return model, nil
	}
	return ModelDefinition{}, fmt.Errorf("default model %s: %w", c.Preferences.DefaultModel, ErrModelNotConfigured)
}

// ResolveModel picks the override when given, otherwise the default model.
func (c *Config) ResolveModel(override string) (ModelDefinition, error) {
	if override == "" {
		return c.GetDefaultModel()
	}
	if model, ok := c.FindModelByName(override); ok {
		return model, nil
	}
	return ModelDefinition{}, fmt.Errorf("model %s: %w", override, ErrModelNotConfigured)
}

// FindModelByName searches for a model by its name
func (c *Config) FindModelByName(name string) (ModelDefinition, bool) {
	for _, model := range c.Models {
		if model.Name == name {
			return model, true
		}
	}
	return ModelDefinition{}, false
}

// HasModel checks if a model with the given name exists in the configuration
func (c *Config) HasModel(name string) bool {
	_, exists := c.FindModelByName(name)
	return exists
}

// GetTargetOS returns the operating system label sent to the translator.
func (c *Config) GetTargetOS() string {
	if c.Preferences.TargetOS == "" {
		return runtime.GOOS
	}
	return c.Preferences.TargetOS
}

// GetTimeout returns the whole-run timeout. Zero means unbounded.
func (c *Config) GetTimeout() time.Duration {
	if c.Preferences.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Preferences.TimeoutSeconds) * time.Second
}

// IsHistoryEnabled reports whether runs are persisted.
func (c *Config) IsHistoryEnabled() bool {
	return c.History.Enabled
}

// ValidateConsistency checks the internal consistency of the configuration
func (c *Config) ValidateConsistency() error {
	if len(c.Models) == 0 {
		return fmt.Errorf("no models configured")
	}

	if c.Preferences.DefaultModel != "" && !c.HasModel(c.Preferences.DefaultModel) {
		return fmt.Errorf("default model %s does not exist in models list", c.Preferences.DefaultModel)
	}

	seen := make(map[string]bool, len(c.Models))
	for _, model := range c.Models {
		if model.Name == "" {
			return fmt.Errorf("model with empty name")
		}
		if seen[model.Name] {
			return fmt.Errorf("duplicate model name %s", model.Name)
		}
		seen[model.Name] = true
	}

	return nil
}
