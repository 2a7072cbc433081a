package nexus

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ControlKind discriminates the Control variants.
type ControlKind string

const (
	// ControlSlider is an editable bounded numeric control.
	ControlSlider ControlKind = "slider"

	// ControlReadout is a read-only numeric display.
	ControlReadout ControlKind = "readout"
)

// Control is a typed, stateful, node-local value. The engine reads and
// writes its numeric value through Float/SetFloat; an editor renders it
// from the kind and bounds. Both views share the same tagged value so
// they cannot drift apart.
type Control struct {
	Kind  ControlKind
	Value float64
	Min   float64
	Max   float64
}

// NewSlider returns an editable control bounded to [min, max].
func NewSlider(value, min, max float64) Control {
	return Control{Kind: ControlSlider, Value: value, Min: min, Max: max}
}

// NewReadout returns a read-only numeric display control.
func NewReadout(value float64) Control {
	return Control{Kind: ControlReadout, Value: value}
}

// Float returns the control's numeric value regardless of presentation.
func (c Control) Float() float64 {
	return c.Value
}

// SetFloat overwrites the control's numeric value. Bounds are presentation
// hints and are not enforced here; a behavior may move a slider outside
// its range just as an external edit may.
func (c *Control) SetFloat(v float64) {
	c.Value = v
}

// Display renders the control's value for presentation.
func (c Control) Display() string {
	return fmt.Sprintf("%.2f", c.Value)
}

type sliderJSON struct {
	Kind  ControlKind `json:"kind"`
	Value float64     `json:"value"`
	Min   float64     `json:"min"`
	Max   float64     `json:"max"`
}

type readoutJSON struct {
	Kind  ControlKind `json:"kind"`
	Value float64     `json:"value"`
}

// MarshalJSON encodes the control with its kind tag. Readouts omit the
// bounds fields, which are meaningless for them.
func (c Control) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case ControlSlider:
		return json.Marshal(sliderJSON{Kind: c.Kind, Value: c.Value, Min: c.Min, Max: c.Max})
	case ControlReadout:
		return json.Marshal(readoutJSON{Kind: c.Kind, Value: c.Value})
	default:
		return nil, fmt.Errorf("control: cannot marshal unknown kind %q", c.Kind)
	}
}

// UnmarshalJSON decodes a tagged control value. Bounds carried by a
// readout document are discarded; MarshalJSON never emits them, and
// keeping them would make the round-trip asymmetric.
func (c *Control) UnmarshalJSON(data []byte) error {
	var raw sliderJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.Kind {
	case ControlSlider:
		*c = Control{Kind: raw.Kind, Value: raw.Value, Min: raw.Min, Max: raw.Max}
	case ControlReadout:
		*c = Control{Kind: raw.Kind, Value: raw.Value}
	default:
		return fmt.Errorf("control: unknown kind %q", raw.Kind)
	}
	return nil
}

// Controls is an ordered name-to-Control mapping. Order is the order in
// which names were first set and is preserved across JSON round-trips;
// the engine relies on it for deterministic input record population.
type Controls struct {
	names  []string
	byName map[string]Control
}

// NewControls returns an empty ordered control set.
func NewControls() *Controls {
	return &Controls{byName: make(map[string]Control)}
}

// Set stores a control under name, appending the name to the order if new.
func (cs *Controls) Set(name string, c Control) {
	if cs.byName == nil {
		cs.byName = make(map[string]Control)
	}
	if _, ok := cs.byName[name]; !ok {
		cs.names = append(cs.names, name)
	}
	cs.byName[name] = c
}

// Get returns the control stored under name.
func (cs *Controls) Get(name string) (Control, bool) {
	if cs == nil {
		return Control{}, false
	}
	c, ok := cs.byName[name]
	return c, ok
}

// SetFloat overwrites the numeric value of an existing control.
// It reports whether the name was present.
func (cs *Controls) SetFloat(name string, v float64) bool {
	c, ok := cs.byName[name]
	if !ok {
		return false
	}
	c.SetFloat(v)
	cs.byName[name] = c
	return true
}

// Names returns the control names in insertion order.
// The returned slice is a copy.
func (cs *Controls) Names() []string {
	if cs == nil {
		return nil
	}
	out := make([]string, len(cs.names))
	copy(out, cs.names)
	return out
}

// Len returns the number of controls.
func (cs *Controls) Len() int {
	if cs == nil {
		return 0
	}
	return len(cs.names)
}

// Clone returns an independent copy preserving order.
func (cs *Controls) Clone() *Controls {
	out := NewControls()
	if cs == nil {
		return out
	}
	for _, name := range cs.names {
		out.Set(name, cs.byName[name])
	}
	return out
}

// MarshalJSON encodes the controls as a JSON object whose keys appear in
// insertion order.
func (cs *Controls) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range cs.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(cs.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving its key order.
func (cs *Controls) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("controls: expected JSON object, got %v", tok)
	}

	*cs = *NewControls()
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("controls: expected string key, got %v", keyTok)
		}
		var c Control
		if err := dec.Decode(&c); err != nil {
			return fmt.Errorf("controls: %q: %w", name, err)
		}
		cs.Set(name, c)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}
