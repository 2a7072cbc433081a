package nexus

import (
	"encoding/json"
	"fmt"
)

// documentVersion is the current graph document format version.
const documentVersion = 1

// graphNodeJSON is one node entry in a graph document: the node's graph
// identifier plus its persisted form.
type graphNodeJSON struct {
	Ref      NodeID    `json:"ref"`
	ID       string    `json:"id"`
	Controls *Controls `json:"controls"`
}

// graphJSON is the persisted shape of a graph. Nodes appear in insertion
// order so documents are stable across save/load cycles.
type graphJSON struct {
	Version int             `json:"version"`
	Nodes   []graphNodeJSON `json:"nodes"`
	Wires   []Wire          `json:"wires"`
}

// MarshalJSON encodes the graph as a versioned document. Prototypes are
// stored by id only; behaviors and schemas are re-resolved on load.
func (g *Graph) MarshalJSON() ([]byte, error) {
	doc := graphJSON{
		Version: documentVersion,
		Nodes:   make([]graphNodeJSON, 0, len(g.order)),
		Wires:   g.Wires(),
	}
	for _, id := range g.order {
		n := g.nodes[id]
		doc.Nodes = append(doc.Nodes, graphNodeJSON{
			Ref:      id,
			ID:       n.proto.id,
			Controls: n.data,
		})
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a graph document, resolving each node's prototype
// id against the default registry. Unresolvable ids become Unknown nodes
// that keep their stored controls, so documents round-trip losslessly
// even when prototypes are missing.
func (g *Graph) UnmarshalJSON(data []byte) error {
	var doc graphJSON
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.Version > documentVersion {
		return fmt.Errorf("unsupported graph document version %d", doc.Version)
	}

	loaded := NewGraph()
	for _, entry := range doc.Nodes {
		loaded.put(entry.Ref, Resolve(entry.ID, entry.Controls))
	}
	loaded.wires = append(loaded.wires, doc.Wires...)

	*g = *loaded
	return nil
}
