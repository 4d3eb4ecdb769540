package commands

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/chat-cli/internal/app"
	"github.com/doeshing/chat-cli/internal/ports"
)

const modelTestTimeout = 30 * time.Second

// NewModelsCommand creates the models command with all subcommands
func NewModelsCommand(container *app.Container) *cobra.Command {
	modelsCmd := &cobra.Command{
		Use:   "models",
		Short: "Inspect configured language models",
	}

	modelsCmd.AddCommand(
		newModelsListCommand(container),
		newModelsTestCommand(container),
	)

	return modelsCmd
}

func newModelsListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured models",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listModels(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

func newModelsTestCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "test [name]",
		Short: "Send a one-word prompt to a model (default model when no name is given)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return testModel(cmd.Context(), cmd.OutOrStdout(), container, name)
		},
	}
}

func listModels(ctx context.Context, out io.Writer, container *app.Container) error {
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	defaultModel, _ := cfg.GetDefaultModel()
	for _, model := range cfg.Models {
		marker := " "
		if model.Name == defaultModel.Name {
			marker = "*"
		}
		fmt.Fprintf(out, "%s %s | %s | %s | key: %s\n",
			marker,
			model.Name,
			model.Kind(),
			model.ModelID,
			model.KeyEnvVar())
	}
	return nil
}

func testModel(ctx context.Context, out io.Writer, container *app.Container, name string) error {
	if container.ProviderFactory == nil {
		return fmt.Errorf("provider factory unavailable")
	}
	cfg, err := container.ConfigProvider.Load(ctx)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	model, err := cfg.ResolveModel(name)
	if err != nil {
		return err
	}

	provider, err := container.ProviderFactory.ForModel(model)
	if err != nil {
		return fmt.Errorf("provider init: %w", err)
	}

	testCtx, cancel := context.WithTimeout(ctx, modelTestTimeout)
	defer cancel()

	start := time.Now()
	resp, err := provider.Complete(testCtx, ports.ProviderRequest{Prompt: "Reply with the single word: ok"})
	if err != nil {
		return fmt.Errorf("model %s: %w", model.Name, err)
	}

	fmt.Fprintf(out, "%s responded in %s: %s\n", model.Name, time.Since(start).Round(time.Millisecond), strings.TrimSpace(resp.Text))
	return nil
}
