package nexus

// RegisterNatives installs the built-in prototypes into r. They cover
// the basics every host wants without loading any script: a constant
// source, addition, and a value display.
func RegisterNatives(r *Registry) error {
	constControls := NewControls()
	constControls.Set("value", NewSlider(1, 0, 10))

	if _, err := r.Register(Spec{
		ID:       "const",
		Name:     "Values::Const",
		Title:    "Const",
		Outputs:  []Port{{Name: "x", Kind: PinFloat}},
		Controls: constControls,
		Behavior: func(in Record) (Record, error) {
			return Record{"x": in["value"]}, nil
		},
	}); err != nil {
		return err
	}

	if _, err := r.Register(Spec{
		ID:      "add",
		Name:    "Math::Add",
		Title:   "Add",
		Inputs:  []Port{{Name: "x", Kind: PinFloat}, {Name: "y", Kind: PinFloat}},
		Outputs: []Port{{Name: "sum", Kind: PinFloat}},
		Behavior: func(in Record) (Record, error) {
			return Record{"sum": in["x"] + in["y"]}, nil
		},
	}); err != nil {
		return err
	}

	displayControls := NewControls()
	displayControls.Set("display", NewReadout(0))

	if _, err := r.Register(Spec{
		ID:       "display",
		Name:     "Values::Display",
		Title:    "Display",
		Inputs:   []Port{{Name: "x", Kind: PinFloat}},
		Controls: displayControls,
		Behavior: func(in Record) (Record, error) {
			return Record{"display": in["x"]}, nil
		},
	}); err != nil {
		return err
	}

	return nil
}
