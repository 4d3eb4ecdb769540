package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/chat-cli/internal/app"
	"github.com/doeshing/chat-cli/internal/domain"
)

func newExecCommand(container *app.Container) *cobra.Command {
	var (
		unsafe   bool
		dryRun   bool
		model    string
		targetOS string
		timeout  time.Duration
	)

	cmd := &cobra.Command{
		Use:   "exec <instruction...>",
		Short: "Translate an instruction into a shell command and run it if judged safe",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer := NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr())
			progress := newProgressObserver(renderer, cmd.ErrOrStderr())
			defer progress.Stop()

			svc := *container.PipelineService
			svc.Observer = progress

			resp, err := svc.Run(cmd.Context(), domain.RunRequest{
				Instruction:   strings.Join(args, " "),
				Unsafe:        unsafe,
				DryRun:        dryRun,
				ModelOverride: model,
				TargetOS:      targetOS,
				Timeout:       timeout,
			})
			progress.Stop()
			renderer.Result(resp)
			return err
		},
	}

	cmd.Flags().BoolVar(&unsafe, "unsafe", false, "Execute the command even if it is judged unsafe")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the command and verdict without executing")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Override model name (default from config)")
	cmd.Flags().StringVar(&targetOS, "os", "", "Operating system named in the prompt (default from config, then host)")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Bound the whole run, 0 means no limit")

	return cmd
}
