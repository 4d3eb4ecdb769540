package domain

import "time"

// Stage is a state of a single exec run.
type Stage string

const (
	StageStart       Stage = "start"
	StageTranslating Stage = "translating"
	StageClassifying Stage = "classifying"
	StageExecuting   Stage = "executing"
	StageRefused     Stage = "refused"
	StagePreviewed   Stage = "previewed"
	StageEnd         Stage = "end"
)

// RunRequest captures one natural-language instruction from the CLI.
type RunRequest struct {
	Instruction   string
	Unsafe        bool
	DryRun        bool
	ModelOverride string
	TargetOS      string
	// Timeout bounds the whole run. Zero defers to preferences.timeout_seconds.
	Timeout time.Duration
}

// RunResponse is propagated back to the CLI after a run. Stage tracks the
// current state and ends at StageEnd; Outcome keeps the terminal stage that
// decided the run (executing, refused or previewed).
type RunResponse struct {
	Instruction      string
	CandidateCommand string
	Verdict          SafetyVerdict
	Model            string
	TargetOS         string
	Stage            Stage
	Outcome          Stage
	Permitted        bool
	Executed         bool
	CommandDiverged  bool
	ExecutionResult  *ExecutionResult
}

// ExecutionResult wraps details from the command executor.
type ExecutionResult struct {
	Stdout     string
	Stderr     string
	ExitCode   int
	DurationMS int64
}

// Output returns stdout when non-empty, otherwise stderr.
func (r ExecutionResult) Output() string {
	if r.Stdout != "" {
		return r.Stdout
	}
	return r.Stderr
}
