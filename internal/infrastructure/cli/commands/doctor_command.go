package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/doeshing/chat-cli/internal/app"
	"github.com/doeshing/chat-cli/internal/domain"
)

var (
	errDoctorFailed   = errors.New("doctor found problems")
	errDoctorWarnings = errors.New("doctor found warnings")
)

// NewDoctorCommand checks that exec has what it needs to run.
func NewDoctorCommand(container *app.Container) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check config, model credentials, shell and history before running exec",
		RunE: func(cmd *cobra.Command, args []string) error {
			if container.DoctorService == nil {
				return errors.New("doctor service unavailable")
			}
			report, err := container.DoctorService.Run(cmd.Context())
			printHealthReport(cmd.OutOrStdout(), report)
			if err != nil {
				return fmt.Errorf("doctor: %w", err)
			}
			return healthVerdict(report, strict)
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Treat warnings as failures")
	return cmd
}

func printHealthReport(out io.Writer, report domain.HealthReport) {
	counts := map[domain.HealthStatus]int{}
	for _, check := range report.Checks {
		counts[check.Status]++
		fmt.Fprintf(out, "[%s] %s - %s\n", strings.ToUpper(string(check.Status)), check.Name, check.Details)
	}
	fmt.Fprintf(out, "\n%d ok, %d %s, %d %s\n",
		counts[domain.HealthOK],
		counts[domain.HealthWarn], plural(counts[domain.HealthWarn], "warning"),
		counts[domain.HealthError], plural(counts[domain.HealthError], "error"))
}

func healthVerdict(report domain.HealthReport, strict bool) error {
	if report.HasErrors() {
		return errDoctorFailed
	}
	if strict {
		for _, check := range report.Checks {
			if check.Status == domain.HealthWarn {
				return errDoctorWarnings
			}
		}
	}
	return nil
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
