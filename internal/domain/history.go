package domain

import "time"

// HistoryRecord captures one exec run.
type HistoryRecord struct {
	ID               string    `json:"id"`
	Timestamp        time.Time `json:"timestamp"`
	Instruction      string    `json:"instruction"`
	CandidateCommand string    `json:"candidate_command"`
	Command          string    `json:"command"`
	Safe             string    `json:"safe"`
	Description      string    `json:"description"`
	Model            string    `json:"model"`
	Override         bool      `json:"override"`
	Executed         bool      `json:"executed"`
	DryRun           bool      `json:"dry_run"`
	ExitCode         int       `json:"exit_code"`
	DurationMS       int64     `json:"duration_ms"`
	Error            string    `json:"error,omitempty"`
}
