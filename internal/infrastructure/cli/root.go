package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/doeshing/chat-cli/internal/app"
	"github.com/doeshing/chat-cli/internal/infrastructure/cli/commands"
	"github.com/doeshing/chat-cli/internal/version"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd wires the cobra root command. The returned func releases the
// resources the commands opened and must be called once execution finishes.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, func() error, error) {
	container, err := app.BuildContainer(ctx, opts.Verbose)
	if err != nil {
		return nil, nil, err
	}
	return newRootCommand(container), container.Close, nil
}

func newRootCommand(container *app.Container) *cobra.Command {
	root := &cobra.Command{
		Use:     "chat-cli",
		Short:   "Natural language to shell commands",
		Long:    "chat-cli turns an instruction into a shell command, asks the model whether it is safe, and runs it only when it is.",
		Version: version.Version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newExecCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewConfigCommand(container))
	root.AddCommand(commands.NewModelsCommand(container))
	root.AddCommand(commands.NewDoctorCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root
}
