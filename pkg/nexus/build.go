package nexus

import "fmt"

// link is one directed edge of the built dependency graph, labeled with
// the port names the engine propagates values under.
type link struct {
	to      int // target vertex index
	outName string
	inName  string
}

// dag is the directed graph derived from a Graph's node and wire
// collections: one vertex per node (isolated nodes included), one labeled
// edge per wire, plus the vertex-to-node-id mapping. Vertex indices
// follow node insertion order.
type dag struct {
	ids    []NodeID
	out    [][]link
	indeg  []int
	byNode map[NodeID]int
}

// buildDAG translates the graph into a dag. It is pure and read-only with
// respect to g: every node and every wire is represented exactly once.
// A wire whose endpoints or port indices do not resolve yields a
// *WireError.
func buildDAG(g *Graph) (*dag, error) {
	ids := g.NodeIDs()
	d := &dag{
		ids:    ids,
		out:    make([][]link, len(ids)),
		indeg:  make([]int, len(ids)),
		byNode: make(map[NodeID]int, len(ids)),
	}
	for i, id := range ids {
		d.byNode[id] = i
	}

	for _, w := range g.wires {
		src, ok := d.byNode[w.From]
		if !ok {
			return nil, &WireError{Wire: w, Err: fmt.Errorf("%w: %s", ErrNodeNotFound, w.From)}
		}
		dst, ok := d.byNode[w.To]
		if !ok {
			return nil, &WireError{Wire: w, Err: fmt.Errorf("%w: %s", ErrNodeNotFound, w.To)}
		}

		outName, err := g.nodes[w.From].proto.OutputName(w.Output)
		if err != nil {
			return nil, &WireError{Wire: w, Err: err}
		}
		inName, err := g.nodes[w.To].proto.InputName(w.Input)
		if err != nil {
			return nil, &WireError{Wire: w, Err: err}
		}

		d.out[src] = append(d.out[src], link{to: dst, outName: outName, inName: inName})
		d.indeg[dst]++
	}
	return d, nil
}
