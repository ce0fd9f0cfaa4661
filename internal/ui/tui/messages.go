// Package tui provides a Bubble Tea-based terminal UI for the deploy
// command.
package tui

import "github.com/cephup/cephup/internal/provisioning"

// PhaseMsg reports progress of a deploy phase.
type PhaseMsg struct {
	Phase string
	Done  bool
	Err   error
}

// NodeMsg carries a node state transition.
type NodeMsg struct {
	Name  string
	State provisioning.NodeState
}

// LogMsg carries one log line for the activity pane.
type LogMsg struct{ Line string }

// TickMsg is sent periodically to refresh the display.
type TickMsg struct{}

// ErrMsg carries an error.
type ErrMsg struct{ Err error }

// DoneMsg signals that the deploy is complete.
type DoneMsg struct{}
