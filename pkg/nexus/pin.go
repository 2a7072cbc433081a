package nexus

// Pin identifies the kind of value a port carries.
// Two ports may be wired together only if their Pin kinds are equal.
type Pin int

const (
	// PinFloat is a numeric port. The only kind currently defined.
	PinFloat Pin = iota
)

// String returns the pin kind name.
func (p Pin) String() string {
	switch p {
	case PinFloat:
		return "float"
	default:
		return "unknown"
	}
}

// Port is a named, typed connection point in a prototype's schema.
// Ports are addressed by index from editing tools and by name by the engine.
type Port struct {
	Name string `json:"name"`
	Kind Pin    `json:"kind"`
}
