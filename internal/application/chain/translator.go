package chain

import (
	"context"
	"fmt"
	"strings"

	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/ports"
)

// Translator converts a natural-language instruction into a shell command.
type Translator struct {
	Provider ports.Provider
	TargetOS string
}

// Translate calls the model once. The trimmed completion is returned as-is.
func (t *Translator) Translate(ctx context.Context, instruction string) (string, error) {
	prompt, err := render(translatePrompt, translateData{OS: t.TargetOS, Instruction: instruction})
	if err != nil {
		return "", fmt.Errorf("render translate prompt: %w", err)
	}

	resp, err := t.Provider.Complete(ctx, ports.ProviderRequest{Prompt: prompt})
	if err != nil {
		return "", err
	}

	command := strings.TrimSpace(resp.Text)
	if command == "" {
		return "", domain.ErrEmptyCommand
	}
	return command, nil
}
