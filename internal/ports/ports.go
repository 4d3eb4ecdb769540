// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). The application depends on these abstractions; the
// language-model clients, the shell and the history database live behind them.
package ports

import (
	"context"

	"github.com/doeshing/chat-cli/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.chat-cli/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// ProviderFactory builds language-model provider instances based on model definitions.
type ProviderFactory interface {
	ForModel(domain.ModelDefinition) (Provider, error)
}

// Provider turns a text prompt into a text completion.
// Implementations always sample at zero temperature.
type Provider interface {
	Name() string
	Model() domain.ModelDefinition
	Complete(context.Context, ProviderRequest) (ProviderResponse, error)
}

// ProviderRequest contains the rendered prompt for one model call.
type ProviderRequest struct {
	Prompt string
}

// ProviderResponse contains the raw completion text.
type ProviderResponse struct {
	Text string
}

// CommandExecutor runs shell commands in the configured shell environment.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionResult, error)
}

// HistoryRepository persists exec runs.
type HistoryRepository interface {
	Save(ctx context.Context, record domain.HistoryRecord) error
	Records(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	Clear(ctx context.Context) error
}

// RunObserver is notified on every stage transition of a run.
// The response reflects everything known at that stage.
type RunObserver interface {
	OnStage(stage domain.Stage, resp domain.RunResponse)
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
