package observability

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogHelpers_NilLoggerSafe(t *testing.T) {
	// Every helper must tolerate a nil logger without panicking.
	assert.NotPanics(t, func() {
		LogRunStart(nil, "run-1", 3)
		LogRunComplete(nil, "run-1", 1.2, 3)
		LogRunError(nil, "run-1", errors.New("x"), 1.2, "node-1")
		LogNodeStart(nil, "node-1", "math/add")
		LogNodeComplete(nil, "node-1", 0.4)
		LogNodeError(nil, "node-1", errors.New("x"))
		LogControlUpdate(nil, "node-1", "value", 3)
	})
}

func TestEnrichLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	enriched := EnrichLogger(logger, "run-1", "node-2")
	enriched.Info("test")

	out := buf.String()
	assert.Contains(t, out, "run_id=run-1")
	assert.Contains(t, out, "node_id=node-2")

	assert.Nil(t, EnrichLogger(nil, "run-1", "node-2"))
}

func TestLogRunError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	LogRunError(logger, "run-1", errors.New("behavior failed"), 2.5, "node-9")

	out := buf.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "behavior failed")
	assert.Contains(t, out, "node-9")
}

func TestNoopSpanManager(t *testing.T) {
	var m NoopSpanManager
	ctx := context.Background()

	runCtx, span := m.StartRunSpan(ctx, "run-1")
	require.NotNil(t, span)
	assert.Equal(t, ctx, runCtx)

	nodeCtx, span := m.StartNodeSpan(ctx, "node-1", "math/add")
	require.NotNil(t, span)
	assert.Equal(t, ctx, nodeCtx)

	// Noop spans end without effect.
	m.EndSpanWithError(span, errors.New("x"))
	m.AddSpanEvent(ctx, "event")
}

func TestNoopMetrics(t *testing.T) {
	var m NoopMetrics
	ctx := context.Background()

	m.RecordNodeExecution(ctx, "math/add", time.Millisecond, nil)
	m.RecordNodeExecution(ctx, "math/add", time.Millisecond, errors.New("x"))
	m.RecordGraphRun(ctx, true, time.Millisecond)
	m.RecordPersist(ctx, "patch", 128)
}

func TestNewMetricsRecorder(t *testing.T) {
	// Without an SDK installed the default meter is a noop; the recorder
	// must still accept measurements.
	m := NewMetricsRecorder()
	require.NotNil(t, m)
	m.RecordGraphRun(context.Background(), true, time.Millisecond)
}

func TestNewSpanManager(t *testing.T) {
	m := NewSpanManager()
	require.NotNil(t, m)

	ctx, span := m.StartRunSpan(context.Background(), "run-1")
	require.NotNil(t, span)
	m.EndSpanWithError(span, nil)
	m.AddSpanEvent(ctx, "node.scheduled")
}
