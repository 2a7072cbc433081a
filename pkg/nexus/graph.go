package nexus

import (
	"fmt"

	"github.com/google/uuid"
)

// NodeID identifies a node within one graph. IDs are assigned by the
// editor when a node is added and are stable across save/load.
type NodeID string

// Wire is a directed connection from one node's output port to another
// node's input port, both addressed by index. Each input port accepts at
// most one incoming wire; an output port may fan out to many inputs.
type Wire struct {
	From   NodeID `json:"from"`
	Output int    `json:"output"`
	To     NodeID `json:"to"`
	Input  int    `json:"input"`
}

// Graph is the full node and wire collection. It is owned by the editor;
// the engine borrows it exclusively for the duration of one run. Graph is
// not safe for concurrent use.
//
// Node insertion order is preserved: it pins the scheduler's tie-break
// among independent nodes, so a fixed graph always runs in the same order.
type Graph struct {
	order []NodeID
	nodes map[NodeID]*Node
	wires []Wire
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{nodes: make(map[NodeID]*Node)}
}

// Add inserts a node and returns its freshly assigned id.
func (g *Graph) Add(n *Node) NodeID {
	id := NodeID(uuid.NewString())
	g.put(id, n)
	return id
}

// put inserts a node under an explicit id. Used by Add and by
// deserialization, which must preserve persisted ids.
func (g *Graph) put(id NodeID, n *Node) {
	if _, ok := g.nodes[id]; !ok {
		g.order = append(g.order, id)
	}
	g.nodes[id] = n
}

// Node returns the node with the given id, or nil.
func (g *Graph) Node(id NodeID) *Node {
	return g.nodes[id]
}

// NodeIDs returns all node ids in insertion order. The slice is a copy.
func (g *Graph) NodeIDs() []NodeID {
	out := make([]NodeID, len(g.order))
	copy(out, g.order)
	return out
}

// Wires returns all wires. The slice is a copy.
func (g *Graph) Wires() []Wire {
	out := make([]Wire, len(g.wires))
	copy(out, g.wires)
	return out
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	return len(g.order)
}

// Remove deletes a node and every wire touching it.
func (g *Graph) Remove(id NodeID) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	delete(g.nodes, id)
	for i, nid := range g.order {
		if nid == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
	kept := g.wires[:0]
	for _, w := range g.wires {
		if w.From != id && w.To != id {
			kept = append(kept, w)
		}
	}
	g.wires = kept
}

// Connect wires an output port to an input port. It enforces the editor
// connection rules: both endpoints must exist, the port indices must
// resolve, and the Pin kinds must be equal. Any existing wire into the
// target input is replaced, so an input never has more than one incoming
// wire.
func (g *Graph) Connect(from NodeID, output int, to NodeID, input int) error {
	src, ok := g.nodes[from]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, from)
	}
	dst, ok := g.nodes[to]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, to)
	}

	outs := src.proto.outputs
	ins := dst.proto.inputs
	if output < 0 || output >= len(outs) {
		return fmt.Errorf("%w: output %d of %s", ErrNoSuchPort, output, from)
	}
	if input < 0 || input >= len(ins) {
		return fmt.Errorf("%w: input %d of %s", ErrNoSuchPort, input, to)
	}
	if outs[output].Kind != ins[input].Kind {
		return fmt.Errorf("%w: %s vs %s", ErrPinMismatch, outs[output].Kind, ins[input].Kind)
	}

	g.Disconnect(to, input)
	g.wires = append(g.wires, Wire{From: from, Output: output, To: to, Input: input})
	return nil
}

// Disconnect removes the wire into the given input port, if any.
// It reports whether a wire was removed.
func (g *Graph) Disconnect(to NodeID, input int) bool {
	for i, w := range g.wires {
		if w.To == to && w.Input == input {
			g.wires = append(g.wires[:i], g.wires[i+1:]...)
			return true
		}
	}
	return false
}
