package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/doeshing/chat-cli/internal/domain"
	"github.com/doeshing/chat-cli/internal/ports"
)

// progressObserver shows a spinner while the model is working and prints the
// lines that must appear before the command runs.
type progressObserver struct {
	renderer *Renderer
	spinner  *Spinner
}

func newProgressObserver(renderer *Renderer, spinnerOut io.Writer) *progressObserver {
	p := &progressObserver{renderer: renderer}
	if isTerminal(spinnerOut) {
		p.spinner = NewSpinner(spinnerOut)
	}
	return p
}

func (p *progressObserver) OnStage(stage domain.Stage, resp domain.RunResponse) {
	switch stage {
	case domain.StageTranslating:
		p.spin("Translating instruction...")
	case domain.StageClassifying:
		p.spin("Checking command safety...")
	case domain.StageExecuting:
		p.Stop()
		p.renderer.Diverged(resp)
		p.renderer.Executing(resp.Verdict.Command)
	case domain.StageRefused, domain.StagePreviewed:
		p.Stop()
		p.renderer.Diverged(resp)
	default:
		p.Stop()
	}
}

func (p *progressObserver) spin(label string) {
	if p.spinner == nil {
		return
	}
	p.spinner.SetLabel(label)
	p.spinner.Start()
}

// Stop clears the spinner if one is running.
func (p *progressObserver) Stop() {
	if p.spinner != nil {
		p.spinner.Stop()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

var _ ports.RunObserver = (*progressObserver)(nil)
