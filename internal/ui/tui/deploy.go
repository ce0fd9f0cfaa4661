package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cephup/cephup/internal/provisioning"
)

// ErrInterrupted reports that the operator quit the dashboard while the
// pipeline was still running. The caller must cancel the pipeline and
// tear the partial deployment down.
var ErrInterrupted = errors.New("deploy interrupted")

// RunDeploy wraps a deploy run with the dashboard. deployFn runs the
// pipeline with an observer that feeds the program; its error, if any,
// is surfaced through the final model. Quitting the dashboard before
// the pipeline finishes returns ErrInterrupted.
func RunDeploy(baseName string, phases, nodes []string, deployFn func(obs provisioning.Observer) error) error {
	m := NewDeployModel(baseName, phases, nodes)
	p := tea.NewProgram(m, tea.WithAltScreen())

	go func() {
		if err := deployFn(&programObserver{p: p}); err != nil {
			p.Send(ErrMsg{Err: err})
			return
		}
		p.Send(DoneMsg{})
	}()

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	return finalError(finalModel.(Model))
}

// finalError maps the dashboard's final model to the deploy outcome. A
// model that neither finished nor failed means the operator quit early.
func finalError(m Model) error {
	if m.Err != nil {
		return m.Err
	}
	if !m.Done {
		return ErrInterrupted
	}
	return nil
}

// programObserver translates pipeline events into dashboard messages.
type programObserver struct {
	p *tea.Program
}

func (o *programObserver) Printf(format string, args ...interface{}) {
	o.p.Send(LogMsg{Line: fmt.Sprintf(format, args...)})
}

func (o *programObserver) Event(e provisioning.Event) {
	switch e.Type {
	case provisioning.EventPhaseStarted:
		o.p.Send(PhaseMsg{Phase: e.Phase})
	case provisioning.EventPhaseCompleted:
		o.p.Send(PhaseMsg{Phase: e.Phase, Done: true})
	case provisioning.EventPhaseFailed:
		// The pipeline error arrives through deployFn; mark the row only.
		o.p.Send(PhaseMsg{Phase: e.Phase, Err: errPhaseFailed})
	case provisioning.EventNodeState:
		o.p.Send(NodeMsg{Name: e.Node, State: provisioning.NodeState(e.Message)})
	default:
		if e.Message != "" {
			o.p.Send(LogMsg{Line: e.Message})
		}
	}
}

var errPhaseFailed = fmt.Errorf("phase failed")
