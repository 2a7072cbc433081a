package nexus

// Behavior is the callable contract supplied by the scripting host: it
// receives one input record and returns one output record of the same
// shape. An output name left absent means "unchanged". Implementations
// may re-enter the host environment but must not start a concurrent run.
type Behavior func(in Record) (Record, error)

// Prototype is the immutable schema and behavior shared by every node of
// one kind: id, display title, ordered port schemas, default controls,
// and the behavior to invoke. Prototypes are created once during host
// initialization and shared by pointer for the life of the process;
// per-instance state lives on Node, never here.
type Prototype struct {
	id       string
	title    string
	inputs   []Port
	outputs  []Port
	defaults *Controls
	behavior Behavior
}

// UnknownPrototype returns the synthetic prototype used when an id cannot
// be resolved against the registry: empty schemas and a behavior that
// always fails with ErrUnknownPrototype. It keeps unresolvable nodes
// present in the graph and re-serializable.
func UnknownPrototype(id string) *Prototype {
	return &Prototype{
		id:       id,
		title:    "Unknown",
		defaults: NewControls(),
		behavior: func(Record) (Record, error) {
			return nil, ErrUnknownPrototype
		},
	}
}

// ID returns the prototype's unique identifier.
func (p *Prototype) ID() string {
	return p.id
}

// Title returns the display title.
func (p *Prototype) Title() string {
	return p.title
}

// Inputs returns the ordered input port schema. The returned slice is a copy.
func (p *Prototype) Inputs() []Port {
	out := make([]Port, len(p.inputs))
	copy(out, p.inputs)
	return out
}

// Outputs returns the ordered output port schema. The returned slice is a copy.
func (p *Prototype) Outputs() []Port {
	out := make([]Port, len(p.outputs))
	copy(out, p.outputs)
	return out
}

// NumInputs returns the number of input ports.
func (p *Prototype) NumInputs() int {
	return len(p.inputs)
}

// NumOutputs returns the number of output ports.
func (p *Prototype) NumOutputs() int {
	return len(p.outputs)
}

// InputName returns the name of the input port at index i.
func (p *Prototype) InputName(i int) (string, error) {
	if i < 0 || i >= len(p.inputs) {
		return "", ErrNoSuchPort
	}
	return p.inputs[i].Name, nil
}

// OutputName returns the name of the output port at index i.
func (p *Prototype) OutputName(i int) (string, error) {
	if i < 0 || i >= len(p.outputs) {
		return "", ErrNoSuchPort
	}
	return p.outputs[i].Name, nil
}

// Defaults returns an independent copy of the default controls.
func (p *Prototype) Defaults() *Controls {
	return p.defaults.Clone()
}

// Invoke calls the prototype's behavior, propagating failures unchanged.
func (p *Prototype) Invoke(in Record) (Record, error) {
	return p.behavior(in)
}

// Instantiate creates a new Node referencing this prototype with a fresh
// copy of the default controls.
func (p *Prototype) Instantiate() *Node {
	return &Node{proto: p, data: p.defaults.Clone()}
}
