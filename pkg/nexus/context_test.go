package nexus

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewContext_Defaults(t *testing.T) {
	ctx := NewContext(context.Background())

	assert.Same(t, slog.Default(), ctx.Logger())
	assert.Empty(t, ctx.NodeID())

	// Auto-generated run ids are valid UUIDs and unique per context.
	_, err := uuid.Parse(ctx.RunID())
	require.NoError(t, err)
	assert.NotEqual(t, ctx.RunID(), NewContext(context.Background()).RunID())
}

func TestNewContext_Options(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := NewContext(context.Background(),
		WithLogger(logger),
		WithRunID("run-123"))

	assert.Same(t, logger, ctx.Logger())
	assert.Equal(t, "run-123", ctx.RunID())
}

func TestNewContext_WrapsParent(t *testing.T) {
	parent, cancel := context.WithCancel(context.Background())
	ctx := NewContext(parent)

	select {
	case <-ctx.Done():
		t.Fatal("context done before parent cancelled")
	default:
	}

	cancel()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestContext_WithNodeID(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	base := NewContext(context.Background(),
		WithLogger(logger),
		WithRunID("run-abc")).(*runContext)

	node := base.withNodeID("node-1")
	assert.Equal(t, "node-1", node.NodeID())
	assert.Equal(t, "run-abc", node.RunID())

	// The node logger carries run and node identity on every record.
	node.Logger().Info("executing")
	out := buf.String()
	assert.Contains(t, out, "run_id=run-abc")
	assert.Contains(t, out, "node_id=node-1")

	// The base context is untouched.
	assert.Empty(t, base.NodeID())
}
