package chain

import (
	"context"
	"fmt"

	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/ports"
)

// Classifier asks the model for a structured safety verdict on a command.
type Classifier struct {
	Provider ports.Provider
	Parser   *VerdictParser
}

// Classify calls the model once and parses its answer. No re-prompt on parse failure.
func (c *Classifier) Classify(ctx context.Context, command string) (domain.SafetyVerdict, error) {
	instructions, err := c.Parser.FormatInstructions()
	if err != nil {
		return domain.SafetyVerdict{}, err
	}

	prompt, err := render(safetyPrompt, safetyData{FormatInstructions: instructions, Command: command})
	if err != nil {
		return domain.SafetyVerdict{}, fmt.Errorf("render safety prompt: %w", err)
	}

	resp, err := c.Provider.Complete(ctx, ports.ProviderRequest{Prompt: prompt})
	if err != nil {
		return domain.SafetyVerdict{}, err
	}

	return c.Parser.Parse(resp.Text)
}
