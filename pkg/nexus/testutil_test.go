package nexus

import (
	"errors"
	"testing"
)

// Shared test prototypes. registerTestProtos resets the default registry
// so each test starts from a known prototype set.

var errBoom = errors.New("boom")

func registerTestProtos(t *testing.T) {
	t.Helper()
	defaultRegistry.Reset()

	sliderControls := func(value float64) *Controls {
		cs := NewControls()
		cs.Set("value", NewSlider(value, 0, 10))
		return cs
	}

	MustRegister(Spec{
		ID:       "const",
		Name:     "Values::Const",
		Title:    "Const",
		Outputs:  []Port{{Name: "x", Kind: PinFloat}},
		Controls: sliderControls(5),
		Behavior: func(in Record) (Record, error) {
			return Record{"x": in["value"]}, nil
		},
	})

	MustRegister(Spec{
		ID:      "double",
		Name:    "Math::Double",
		Title:   "Double",
		Inputs:  []Port{{Name: "y", Kind: PinFloat}},
		Outputs: []Port{{Name: "z", Kind: PinFloat}},
		Behavior: func(in Record) (Record, error) {
			return Record{"z": in["y"] * 2}, nil
		},
	})

	MustRegister(Spec{
		ID:      "add",
		Name:    "Math::Add",
		Title:   "Add",
		Inputs:  []Port{{Name: "x", Kind: PinFloat}, {Name: "y", Kind: PinFloat}},
		Outputs: []Port{{Name: "sum", Kind: PinFloat}},
		Behavior: func(in Record) (Record, error) {
			return Record{"sum": in["x"] + in["y"]}, nil
		},
	})

	// Identity source whose behavior never names its control, so the
	// slider value survives any number of runs.
	MustRegister(Spec{
		ID:       "slider-source",
		Name:     "Values::Slider",
		Title:    "Slider",
		Outputs:  []Port{{Name: "x", Kind: PinFloat}},
		Controls: sliderControls(3),
		Behavior: func(in Record) (Record, error) {
			return Record{"x": in["value"]}, nil
		},
	})

	// Counter increments its own readout every run.
	counterControls := NewControls()
	counterControls.Set("count", NewReadout(0))
	MustRegister(Spec{
		ID:       "counter",
		Name:     "State::Counter",
		Title:    "Counter",
		Outputs:  []Port{{Name: "n", Kind: PinFloat}},
		Controls: counterControls,
		Behavior: func(in Record) (Record, error) {
			next := in["count"] + 1
			return Record{"count": next, "n": next}, nil
		},
	})

	MustRegister(Spec{
		ID:     "sink",
		Name:   "Values::Sink",
		Title:  "Sink",
		Inputs: []Port{{Name: "in", Kind: PinFloat}},
		Behavior: func(in Record) (Record, error) {
			return NewRecord(), nil
		},
	})

	MustRegister(Spec{
		ID:    "fail",
		Name:  "Test::Fail",
		Title: "Fail",
		Behavior: func(in Record) (Record, error) {
			return nil, errBoom
		},
	})

	// Loopback makes cycles constructible: float in, float out.
	MustRegister(Spec{
		ID:      "pass",
		Name:    "Test::Pass",
		Title:   "Pass",
		Inputs:  []Port{{Name: "in", Kind: PinFloat}},
		Outputs: []Port{{Name: "out", Kind: PinFloat}},
		Behavior: func(in Record) (Record, error) {
			return Record{"out": in["in"]}, nil
		},
	})
}

// mustNode instantiates a registered prototype or fails the test.
func mustNode(t *testing.T, id string) *Node {
	t.Helper()
	proto, ok := Lookup(id)
	if !ok {
		t.Fatalf("prototype %q not registered", id)
	}
	return proto.Instantiate()
}
