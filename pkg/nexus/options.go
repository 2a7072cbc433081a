package nexus

import (
	"github.com/encodelabs/nexus/pkg/nexus/event"
	"github.com/encodelabs/nexus/pkg/nexus/observability"
)

// runConfig holds configuration for a graph run.
type runConfig struct {
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	bus     *event.Bus
}

// defaultRunConfig returns the default run configuration.
// Metrics and tracing are disabled until opted into.
func defaultRunConfig() runConfig {
	return runConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
	}
}

// RunOption configures run behavior.
type RunOption func(*runConfig)

// WithMetrics sets the metrics recorder for the run.
//
// Example:
//
//	result, err := nexus.Run(ctx, g,
//	    nexus.WithMetrics(observability.NewMetricsRecorder()))
func WithMetrics(m observability.MetricsRecorder) RunOption {
	return func(c *runConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithTracing sets the span manager for the run.
func WithTracing(s observability.SpanManager) RunOption {
	return func(c *runConfig) {
		if s != nil {
			c.spans = s
		}
	}
}

// WithEventBus sets the event bus the run publishes to.
// Events are delivered synchronously in execution order.
func WithEventBus(bus *event.Bus) RunOption {
	return func(c *runConfig) {
		c.bus = bus
	}
}
