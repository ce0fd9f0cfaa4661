package provisioning

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Observer receives structured events as provisioning progresses. The
// console implementation logs them; the deploy dashboard renders them.
type Observer interface {
	// Printf emits a free-form progress message.
	Printf(format string, v ...interface{})

	// Event emits a structured event.
	Event(event Event)
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType
	Phase     string
	Node      string
	Message   string
	Timestamp time.Time
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventNodeState indicates a node record changed lifecycle state.
	EventNodeState EventType = "node.state"
	// EventResourceExists indicates a step was skipped because the
	// resource it creates already exists.
	EventResourceExists EventType = "resource.exists"
	// EventRetry indicates a step failed and will be attempted again.
	EventRetry EventType = "retry"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct {
	// Debug enables verbose event output.
	Debug bool
}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver(debug bool) *ConsoleObserver {
	return &ConsoleObserver{Debug: debug}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if !o.Debug && event.Type == EventRetry {
		log.Printf("[%s] %s: retrying (%s)", event.Phase, event.Node, event.Message)
		return
	}

	var parts []string
	parts = append(parts, string(event.Type))
	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Node != "" {
		parts = append(parts, fmt.Sprintf("node=%s", event.Node))
	}
	parts = append(parts, event.Message)
	log.Print(strings.Join(parts, " "))
}

// LogNodeState emits a node state transition event.
func LogNodeState(observer Observer, phase, node string, state NodeState) {
	observer.Event(Event{
		Type:      EventNodeState,
		Phase:     phase,
		Node:      node,
		Message:   string(state),
		Timestamp: time.Now(),
	})
}

// LogResourceExists emits an idempotence-skip event.
func LogResourceExists(observer Observer, phase, resource string) {
	observer.Event(Event{
		Type:      EventResourceExists,
		Phase:     phase,
		Message:   fmt.Sprintf("%s already exists", resource),
		Timestamp: time.Now(),
	})
}
