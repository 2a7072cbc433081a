package nexus

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGraph_RoundTrip verifies a full graph document survives
// save and load: node order, wires, and control values.
func TestGraph_RoundTrip(t *testing.T) {
	registerTestProtos(t)

	g := NewGraph()
	a := g.Add(mustNode(t, "const"))
	b := g.Add(mustNode(t, "double"))
	c := g.Add(mustNode(t, "sink"))
	require.NoError(t, g.Connect(a, 0, b, 0))
	require.NoError(t, g.Connect(b, 0, c, 0))
	g.Node(a).Controls().SetFloat("value", 7)

	data, err := json.Marshal(g)
	require.NoError(t, err)

	loaded := NewGraph()
	require.NoError(t, json.Unmarshal(data, loaded))

	assert.Equal(t, []NodeID{a, b, c}, loaded.NodeIDs())
	assert.Equal(t, g.Wires(), loaded.Wires())
	assert.Equal(t, "const", loaded.Node(a).PrototypeID())

	ctl, ok := loaded.Node(a).Controls().Get("value")
	require.True(t, ok)
	assert.Equal(t, 7.0, ctl.Float())

	// A loaded graph behaves identically to the original.
	result, err := Run(NewContext(context.Background()), loaded)
	require.NoError(t, err)
	assert.Equal(t, 14.0, result.Outputs[b]["z"])
}

// TestGraph_RoundTrip_UnknownPrototype verifies that a document referring
// to an unregistered prototype loads and re-saves without loss.
func TestGraph_RoundTrip_UnknownPrototype(t *testing.T) {
	registerTestProtos(t)

	stored := NewControls()
	stored.Set("tweak", NewSlider(4, 0, 8))

	g := NewGraph()
	id := g.Add(Resolve("ghost/proto", stored))

	data, err := json.Marshal(g)
	require.NoError(t, err)

	loaded := NewGraph()
	require.NoError(t, json.Unmarshal(data, loaded))

	n := loaded.Node(id)
	require.NotNil(t, n)
	assert.Equal(t, "ghost/proto", n.PrototypeID())
	ctl, ok := n.Controls().Get("tweak")
	require.True(t, ok)
	assert.Equal(t, 4.0, ctl.Float())

	again, err := json.Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))
}

// TestGraph_Unmarshal_FutureVersion verifies documents from newer
// versions are rejected rather than misread.
func TestGraph_Unmarshal_FutureVersion(t *testing.T) {
	g := NewGraph()
	err := json.Unmarshal([]byte(`{"version":2,"nodes":[],"wires":[]}`), g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "version 2")
}

// TestGraph_Unmarshal_ReplacesContents verifies loading into a non-empty
// graph discards its prior state.
func TestGraph_Unmarshal_ReplacesContents(t *testing.T) {
	registerTestProtos(t)

	g := NewGraph()
	g.Add(mustNode(t, "const"))
	g.Add(mustNode(t, "const"))

	require.NoError(t, json.Unmarshal([]byte(`{"version":1,"nodes":[],"wires":[]}`), g))
	assert.Equal(t, 0, g.Len())
	assert.Empty(t, g.Wires())
}

// TestNode_JSON verifies the single-node persisted shape.
func TestNode_JSON(t *testing.T) {
	registerTestProtos(t)

	n := mustNode(t, "const")
	n.Controls().SetFloat("value", 2.5)

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"const","controls":{"value":{"kind":"slider","value":2.5,"min":0,"max":10}}}`, string(data))

	var loaded Node
	require.NoError(t, json.Unmarshal(data, &loaded))
	assert.Equal(t, "const", loaded.PrototypeID())
	ctl, ok := loaded.Controls().Get("value")
	require.True(t, ok)
	assert.Equal(t, 2.5, ctl.Float())
}
