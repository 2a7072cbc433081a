// Package event delivers run lifecycle notifications to in-process
// subscribers. The engine publishes as it executes; an editor subscribes
// to repaint controls after runs without polling the graph.
//
// Dispatch is synchronous and ordered: Publish calls every matching
// handler on the publishing goroutine before returning. That matches the
// engine's single-threaded execution model; handlers must not start a
// concurrent run.
package event

import "time"

// Type classifies an event.
type Type string

const (
	// RunStarted is published once before the first node executes.
	RunStarted Type = "run.started"

	// RunCompleted is published after the last node executed successfully.
	RunCompleted Type = "run.completed"

	// RunFailed is published when a run aborts; Err carries the message.
	RunFailed Type = "run.failed"

	// NodeExecuted is published after each node's behavior returns
	// successfully.
	NodeExecuted Type = "node.executed"

	// ControlUpdated is published when a behavior overwrites one of its
	// node's persisted control values.
	ControlUpdated Type = "control.updated"
)

// Event is one run lifecycle notification. Fields beyond Type, RunID and
// Time are populated per type: NodeID for node-scoped events, Control and
// Value for ControlUpdated, Err for RunFailed.
type Event struct {
	Type    Type
	RunID   string
	NodeID  string
	Control string
	Value   float64
	Err     string
	Time    time.Time
}
