package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/doeshing/chat-cli/internal/domain"
)

const refusalMessage = "Command is unsafe to execute. Use --unsafe to execute anyway."

// Renderer prints run output. Styles collapse to plain text when the writer
// is not a terminal.
type Renderer struct {
	out    io.Writer
	errOut io.Writer

	label   lipgloss.Style
	warning lipgloss.Style
	muted   lipgloss.Style
}

// NewRenderer builds a renderer writing results to out and notices to errOut.
func NewRenderer(out, errOut io.Writer) *Renderer {
	outStyles := lipgloss.NewRenderer(out)
	errStyles := lipgloss.NewRenderer(errOut)
	return &Renderer{
		out:     out,
		errOut:  errOut,
		label:   outStyles.NewStyle().Bold(true),
		warning: errStyles.NewStyle().Foreground(lipgloss.Color("3")).Bold(true),
		muted:   errStyles.NewStyle().Faint(true),
	}
}

// Executing announces the command about to run.
func (r *Renderer) Executing(command string) {
	fmt.Fprintf(r.out, "%s %s\n", r.label.Render("Executing command:"), command)
}

// Diverged prints a notice when the safety check restated the command.
func (r *Renderer) Diverged(resp domain.RunResponse) {
	if !resp.CommandDiverged {
		return
	}
	fmt.Fprintf(r.errOut, "%s the safety check restated the command\n  translated: %s\n  checked:    %s\n",
		r.warning.Render("Note:"), resp.CandidateCommand, resp.Verdict.Command)
}

// Result prints whatever the terminal outcome of a run produced.
func (r *Renderer) Result(resp domain.RunResponse) {
	switch resp.Outcome {
	case domain.StageRefused:
		fmt.Fprintln(r.errOut, r.warning.Render(refusalMessage))
		r.verdict(resp.Verdict)
		return
	case domain.StagePreviewed:
		r.verdict(resp.Verdict)
		fmt.Fprintf(r.out, "%s %s\n", r.label.Render("Safe:"), resp.Verdict.Safe)
		decision := "would be refused"
		if resp.Permitted {
			decision = "would run"
		}
		fmt.Fprintln(r.errOut, r.muted.Render("Dry run: command was not executed ("+decision+")."))
		return
	}

	if resp.ExecutionResult == nil {
		return
	}
	output := resp.ExecutionResult.Output()
	if resp.ExecutionResult.ExitCode != 0 {
		// stderr is carried by the returned error
		output = resp.ExecutionResult.Stdout
	}
	if output == "" {
		return
	}
	fmt.Fprint(r.out, output)
	if !strings.HasSuffix(output, "\n") {
		fmt.Fprintln(r.out)
	}
}

func (r *Renderer) verdict(v domain.SafetyVerdict) {
	fmt.Fprintf(r.out, "%s %s\n", r.label.Render("Command:"), v.Command)
	fmt.Fprintf(r.out, "%s %s\n", r.label.Render("Description:"), v.Description)
}
