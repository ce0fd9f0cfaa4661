package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cephup/cephup/internal/provisioning"
)

const logLines = 5

// PhaseRow represents one deploy phase for display.
type PhaseRow struct {
	Name   string
	Done   bool
	Active bool
	Err    error
}

// NodeRow represents one node for display.
type NodeRow struct {
	Name  string
	State provisioning.NodeState
}

// Model is the Bubble Tea model for the deploy dashboard.
type Model struct {
	BaseName string

	Phases []PhaseRow
	Nodes  []NodeRow
	Log    []string

	StartTime    time.Time
	SpinnerFrame int

	Width  int
	Height int
	Err    error
	Done   bool
}

// NewDeployModel creates the dashboard model for a deploy run.
func NewDeployModel(baseName string, phases, nodes []string) Model {
	m := Model{
		BaseName:  baseName,
		StartTime: time.Now(),
	}
	for _, p := range phases {
		m.Phases = append(m.Phases, PhaseRow{Name: p})
	}
	for _, n := range nodes {
		m.Nodes = append(m.Nodes, NodeRow{Name: n, State: provisioning.StateCreated})
	}
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case PhaseMsg:
		// A failed phase marks its row; the pipeline error itself
		// arrives separately as an ErrMsg.
		m.updatePhase(msg)

	case NodeMsg:
		m.updateNode(msg)

	case LogMsg:
		m.Log = append(m.Log, msg.Line)
		if len(m.Log) > logLines {
			m.Log = m.Log[len(m.Log)-logLines:]
		}

	case TickMsg:
		m.SpinnerFrame++
		return m, tickCmd()

	case ErrMsg:
		m.Err = msg.Err
		return m, tea.Quit

	case DoneMsg:
		m.Done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) updatePhase(msg PhaseMsg) {
	idx := -1
	for i, phase := range m.Phases {
		if phase.Name == msg.Phase {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}

	for i := 0; i < idx; i++ {
		m.Phases[i].Done = true
		m.Phases[i].Active = false
	}

	if msg.Done {
		m.Phases[idx].Done = true
		m.Phases[idx].Active = false
	} else {
		m.Phases[idx].Active = true
	}
	if msg.Err != nil {
		m.Phases[idx].Err = msg.Err
	}
}

func (m *Model) updateNode(msg NodeMsg) {
	for i, node := range m.Nodes {
		if node.Name == msg.Name {
			m.Nodes[i].State = msg.State
			return
		}
	}
	// Nodes can appear mid-run, the client machine does.
	m.Nodes = append(m.Nodes, NodeRow{Name: msg.Name, State: msg.State})
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View implements tea.Model.
func (m Model) View() string {
	return renderView(m)
}
