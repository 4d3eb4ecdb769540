package helpers

import (
	"sort"

	"github.com/doeshing/chat-cli/internal/domain"
)

// CommandStatistic represents usage statistics for a command
type CommandStatistic struct {
	Command string
	Count   int
}

// HistoryStatistics summarises a set of runs.
type HistoryStatistics struct {
	Total      int
	Executed   int
	Successful int
	Refused    int
	Previewed  int
	Overridden int
	Diverged   int
	Failed     int
}

// AnalyzeHistory counts outcomes across records.
func AnalyzeHistory(records []domain.HistoryRecord) HistoryStatistics {
	stats := HistoryStatistics{Total: len(records)}
	for _, rec := range records {
		switch {
		case rec.Executed:
			stats.Executed++
			if rec.ExitCode == 0 && rec.Error == "" {
				stats.Successful++
			}
		case rec.Error != "":
			stats.Failed++
		case rec.DryRun:
			stats.Previewed++
		case rec.Command != "":
			stats.Refused++
		}
		if rec.Override && rec.Safe != domain.SafeYes {
			stats.Overridden++
		}
		if rec.Command != "" && rec.CandidateCommand != "" && rec.Command != rec.CandidateCommand {
			stats.Diverged++
		}
	}
	return stats
}

// CalculateTopCommands returns the top N most frequently used commands
// If limit is 0 or negative, returns all commands
func CalculateTopCommands(records []domain.HistoryRecord, limit int) []CommandStatistic {
	frequency := make(map[string]int)
	for _, rec := range records {
		if rec.Command != "" {
			frequency[rec.Command]++
		}
	}

	stats := make([]CommandStatistic, 0, len(frequency))
	for cmd, count := range frequency {
		stats = append(stats, CommandStatistic{Command: cmd, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count == stats[j].Count {
			return stats[i].Command < stats[j].Command
		}
		return stats[i].Count > stats[j].Count
	})

	if limit > 0 && len(stats) > limit {
		return stats[:limit]
	}
	return stats
}

// CalculateSuccessRate calculates the success rate as a percentage
func CalculateSuccessRate(successfulCount int, executedCount int) float64 {
	if executedCount == 0 {
		return 0.0
	}
	return float64(successfulCount) / float64(executedCount) * 100.0
}
