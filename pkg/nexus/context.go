package nexus

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Context carries run-scoped services and metadata through a graph run.
// It extends context.Context with a logger and run identity.
//
// Context is immutable after creation. The engine creates derived contexts
// for each node with updated NodeID and enriched logger.
type Context interface {
	context.Context

	// Logger returns the configured logger, enriched with run and node context.
	// Never returns nil - defaults to slog.Default() if not configured.
	Logger() *slog.Logger

	// RunID returns the unique identifier for this run.
	// Auto-generated if not configured.
	RunID() string

	// NodeID returns the node currently being executed.
	// Empty string before execution starts.
	NodeID() string
}

// runContext is the internal implementation of Context.
type runContext struct {
	context.Context

	logger *slog.Logger
	runID  string
	nodeID string
}

// Logger returns the configured logger.
func (c *runContext) Logger() *slog.Logger {
	return c.logger
}

// RunID returns the run identifier.
func (c *runContext) RunID() string {
	return c.runID
}

// NodeID returns the current node identifier.
func (c *runContext) NodeID() string {
	return c.nodeID
}

// ContextOption configures a Context.
type ContextOption func(*runContext)

// WithLogger sets the logger for the context.
// The logger is enriched with run_id and node_id during execution.
func WithLogger(logger *slog.Logger) ContextOption {
	return func(c *runContext) {
		c.logger = logger
	}
}

// WithRunID sets the run identifier for the context.
// If not set, a UUID is auto-generated.
func WithRunID(id string) ContextOption {
	return func(c *runContext) {
		c.runID = id
	}
}

// NewContext creates a run context from a standard context.
// The returned Context wraps the provided context.Context and adds
// run-scoped services and metadata.
//
// Example:
//
//	ctx := nexus.NewContext(context.Background(),
//	    nexus.WithLogger(myLogger),
//	    nexus.WithRunID("run-123"))
func NewContext(ctx context.Context, opts ...ContextOption) Context {
	rc := &runContext{
		Context: ctx,
		logger:  slog.Default(),
		runID:   uuid.New().String(),
	}

	for _, opt := range opts {
		opt(rc)
	}

	return rc
}

// withNodeID returns a new context with the given node ID set.
// Used internally by the engine to enrich the context per-node.
func (c *runContext) withNodeID(nodeID string) *runContext {
	return &runContext{
		Context: c.Context,
		logger:  c.logger.With("run_id", c.runID, "node_id", nodeID),
		runID:   c.runID,
		nodeID:  nodeID,
	}
}
