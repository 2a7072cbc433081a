package nexus

import "encoding/json"

// Node is a graph vertex instance: a shared immutable prototype plus this
// instance's own ordered control data. The data starts as a copy of the
// prototype's defaults and is mutated across runs; it is the only mutable
// state a node carries.
type Node struct {
	proto *Prototype
	data  *Controls
}

// Prototype returns the shared prototype.
func (n *Node) Prototype() *Prototype {
	return n.proto
}

// PrototypeID returns the prototype's unique id.
func (n *Node) PrototypeID() string {
	return n.proto.id
}

// Title returns the prototype's display title.
func (n *Node) Title() string {
	return n.proto.title
}

// Inputs returns the ordered input port schema.
func (n *Node) Inputs() []Port {
	return n.proto.Inputs()
}

// Outputs returns the ordered output port schema.
func (n *Node) Outputs() []Port {
	return n.proto.Outputs()
}

// Controls returns the node's mutable control data.
func (n *Node) Controls() *Controls {
	return n.data
}

// Run delegates to the prototype's behavior, propagating failures unchanged.
func (n *Node) Run(in Record) (Record, error) {
	return n.proto.Invoke(in)
}

// nodeJSON is the persisted shape of a node: prototype id plus the
// ordered control data. Deserialization re-resolves the id against the
// default registry; unresolvable ids round-trip losslessly through the
// Unknown prototype.
type nodeJSON struct {
	ID       string    `json:"id"`
	Controls *Controls `json:"controls"`
}

// MarshalJSON encodes the node as {id, controls}.
func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{ID: n.proto.id, Controls: n.data})
}

// UnmarshalJSON decodes {id, controls} and resolves the id against the
// default registry per Registry.Resolve.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*n = *Resolve(raw.ID, raw.Controls)
	return nil
}
