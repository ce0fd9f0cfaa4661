package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cephup/cephup/internal/provisioning"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m30s"},
		{3600 * time.Second, "1h0m"},
		{3661 * time.Second, "1h1m"},
	}
	for _, tt := range tests {
		got := formatDuration(tt.d)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestModelUpdatePhase(t *testing.T) {
	m := NewDeployModel("ceph-node", []string{"compute", "cluster", "share"}, nil)

	m.updatePhase(PhaseMsg{Phase: "compute"})
	if !m.Phases[0].Active {
		t.Error("expected compute phase to be active")
	}

	m.updatePhase(PhaseMsg{Phase: "compute", Done: true})
	if !m.Phases[0].Done {
		t.Error("expected compute phase to be done")
	}
	if m.Phases[0].Active {
		t.Error("expected compute phase to not be active after done")
	}

	// Starting a later phase closes out everything before it.
	m.updatePhase(PhaseMsg{Phase: "share"})
	if !m.Phases[1].Done {
		t.Error("expected cluster phase to be marked done")
	}
	if !m.Phases[2].Active {
		t.Error("expected share phase to be active")
	}
}

func TestModelUpdateNode(t *testing.T) {
	m := NewDeployModel("ceph-node", nil, []string{"ceph-node-1"})

	m.updateNode(NodeMsg{Name: "ceph-node-1", State: provisioning.StateAgentReady})
	if m.Nodes[0].State != provisioning.StateAgentReady {
		t.Errorf("expected AgentReady, got %v", m.Nodes[0].State)
	}

	m.updateNode(NodeMsg{Name: "ceph-node-client", State: provisioning.StateCreated})
	if len(m.Nodes) != 2 {
		t.Fatalf("expected client row to be appended, got %d rows", len(m.Nodes))
	}
	if m.Nodes[1].Name != "ceph-node-client" {
		t.Errorf("unexpected appended node %q", m.Nodes[1].Name)
	}
}

func TestViewRendersSections(t *testing.T) {
	m := NewDeployModel("ceph-node", []string{"compute", "cluster"}, []string{"ceph-node-1"})
	m.Phases[0].Done = true
	m.Nodes[0].State = provisioning.StateJoined
	m.Log = []string{"attached OSD disk to ceph-node-1"}

	out := m.View()
	for _, want := range []string{
		"cephup: ceph-node",
		"compute",
		"cluster",
		"ceph-node-1",
		string(provisioning.StateJoined),
		"attached OSD disk",
		"q: quit",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewFailedNodeMarker(t *testing.T) {
	m := NewDeployModel("ceph-node", nil, []string{"ceph-node-2"})
	m.Nodes[0].State = provisioning.StateFailed

	if !strings.Contains(m.View(), crossMark) {
		t.Error("expected failure marker for failed node")
	}
}

func TestFinalError(t *testing.T) {
	cause := errors.New("bootstrap blew up")

	if err := finalError(Model{Err: cause}); err != cause {
		t.Errorf("expected pipeline error, got %v", err)
	}
	if err := finalError(Model{Done: true}); err != nil {
		t.Errorf("expected nil for a finished deploy, got %v", err)
	}
	// Quitting mid-run must not look like success.
	if err := finalError(Model{}); !errors.Is(err, ErrInterrupted) {
		t.Errorf("expected ErrInterrupted, got %v", err)
	}
}

func TestQuitKeyLeavesModelUnfinished(t *testing.T) {
	m := NewDeployModel("ceph-node", []string{"compute"}, nil)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}

	fm := updated.(Model)
	if fm.Done || fm.Err != nil {
		t.Errorf("quit must leave the model unfinished, got Done=%v Err=%v", fm.Done, fm.Err)
	}
	if err := finalError(fm); !errors.Is(err, ErrInterrupted) {
		t.Errorf("expected ErrInterrupted after quit, got %v", err)
	}
}
