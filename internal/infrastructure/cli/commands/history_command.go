package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/doeshing/chat-cli/internal/app"
	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/infrastructure/cli/helpers"
)

// NewHistoryCommand creates the history command with all subcommands
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded exec runs",
	}

	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
		newHistoryStatsCommand(container),
	)

	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return listHistoryEntries(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), container, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultHistoryLimit, "Max entries to show")
	return cmd
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return clearHistory(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a JSONL file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return exportHistory(cmd.Context(), cmd.OutOrStdout(), container, args[0])
		},
	}
}

func newHistoryStatsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarise run outcomes and the most frequent commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			return showHistoryStats(cmd.Context(), cmd.OutOrStdout(), container)
		},
	}
}

// historyExists reports whether a database was ever written. Reading commands
// skip opening the store otherwise so that no empty database is created.
func historyExists(container *app.Container) bool {
	if container.HistoryStore == nil {
		return false
	}
	_, err := os.Stat(container.HistoryStore.Path())
	return err == nil
}

func loadHistory(ctx context.Context, container *app.Container, limit int) ([]domain.HistoryRecord, error) {
	if container.HistoryStore == nil {
		return nil, fmt.Errorf("history store unavailable")
	}
	if !historyExists(container) {
		return nil, nil
	}
	records, err := container.HistoryStore.Records(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve history records: %w", err)
	}
	return records, nil
}

func listHistoryEntries(ctx context.Context, out, errOut io.Writer, container *app.Container, limit int) error {
	if !container.Config.IsHistoryEnabled() {
		fmt.Fprintln(errOut, MsgHistoryDisabled)
	}
	records, err := loadHistory(ctx, container, limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	for _, rec := range records {
		fmt.Fprintf(out, "%s | %s | %s | %s\n",
			humanize.Time(rec.Timestamp),
			outcome(rec),
			rec.Model,
			displayCommand(rec))
		fmt.Fprintf(out, "    %s\n", rec.Instruction)
	}
	return nil
}

func outcome(rec domain.HistoryRecord) string {
	switch {
	case rec.Executed && rec.Error != "":
		return fmt.Sprintf("failed (exit %d)", rec.ExitCode)
	case rec.Executed && rec.Override && rec.Safe != domain.SafeYes:
		return "executed (unsafe)"
	case rec.Executed:
		return "executed"
	case rec.Error != "":
		return "error"
	case rec.DryRun:
		return "previewed"
	default:
		return "refused"
	}
}

func displayCommand(rec domain.HistoryRecord) string {
	if rec.Command != "" {
		return rec.Command
	}
	return rec.CandidateCommand
}

func clearHistory(ctx context.Context, out io.Writer, container *app.Container) error {
	if container.HistoryStore == nil {
		return fmt.Errorf("history store unavailable")
	}
	if historyExists(container) {
		if err := container.HistoryStore.Clear(ctx); err != nil {
			return fmt.Errorf("failed to clear history: %w", err)
		}
	}
	fmt.Fprintln(out, MsgHistoryCleared)
	return nil
}

func exportHistory(ctx context.Context, out io.Writer, container *app.Container, path string) error {
	if container.HistoryStore == nil {
		return fmt.Errorf("history store unavailable")
	}
	if !historyExists(container) {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	count, err := container.HistoryStore.ExportJSON(ctx, path)
	if err != nil {
		return fmt.Errorf("failed to export history to %s: %w", path, err)
	}
	fmt.Fprintf(out, "Exported %s to %s\n", pluralRecords(count), path)
	return nil
}

func showHistoryStats(ctx context.Context, out io.Writer, container *app.Container) error {
	records, err := loadHistory(ctx, container, 0)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(out, MsgNoHistoryRecorded)
		return nil
	}

	stats := helpers.AnalyzeHistory(records)
	fmt.Fprintf(out, "Entries: %d\nExecuted: %d\nRefused: %d\nPreviewed: %d\nErrors: %d\nSuccess rate: %.1f%%\n",
		stats.Total,
		stats.Executed,
		stats.Refused,
		stats.Previewed,
		stats.Failed,
		helpers.CalculateSuccessRate(stats.Successful, stats.Executed))
	fmt.Fprintf(out, "Unsafe overrides: %d\nRestated commands: %d\n", stats.Overridden, stats.Diverged)

	top := helpers.CalculateTopCommands(records, TopCommandsLimit)
	if len(top) > 0 {
		fmt.Fprintln(out, "Top commands:")
		for _, stat := range top {
			fmt.Fprintf(out, "  %s (%d)\n", stat.Command, stat.Count)
		}
	}
	return nil
}

func pluralRecords(n int) string {
	return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), plural(n, "record"))
}
