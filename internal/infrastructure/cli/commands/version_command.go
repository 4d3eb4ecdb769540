package commands

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/doeshing/chat-cli/internal/version"
)

// NewVersionCommand prints build metadata. --short prints the bare version
// for scripts.
func NewVersionCommand() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the chat-cli version and build details",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Version)
				return nil
			}
			printBuildInfo(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}

func printBuildInfo(out io.Writer) {
	fmt.Fprintf(out, "chat-cli version %s\n", version.Version)
	for _, field := range []struct{ label, value string }{
		{"Commit", version.Commit},
		{"Built", version.BuildDate},
	} {
		if field.value != "" {
			fmt.Fprintf(out, "%s: %s\n", field.label, field.value)
		}
	}
	fmt.Fprintf(out, "Go: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
