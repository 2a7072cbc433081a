package script

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/encodelabs/nexus/pkg/nexus"
)

// ---------------------------------------------------------------------------
// Custom Sexp types carrying Go values through the environment
// ---------------------------------------------------------------------------

// sexpPin wraps a nexus.Pin so (float) can flow into (pins ...).
type sexpPin struct {
	kind nexus.Pin
}

func (p *sexpPin) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s)", strings.ToLower(p.kind.String()))
}
func (p *sexpPin) Type() *zygo.RegisteredType { return nil }

// sexpPorts wraps an ordered port schema built by (pins ...).
type sexpPorts struct {
	ports []nexus.Port
}

func (p *sexpPorts) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(pins %d)", len(p.ports))
}
func (p *sexpPorts) Type() *zygo.RegisteredType { return nil }

// sexpControl wraps a single control built by (slider ...) or (show-float ...).
type sexpControl struct {
	ctl nexus.Control
}

func (c *sexpControl) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(%s %s)", c.ctl.Kind, c.ctl.Display())
}
func (c *sexpControl) Type() *zygo.RegisteredType { return nil }

// sexpControls wraps an ordered control set built by (controls ...).
type sexpControls struct {
	set *nexus.Controls
}

func (c *sexpControls) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(controls %d)", c.set.Len())
}
func (c *sexpControls) Type() *zygo.RegisteredType { return nil }

// sexpRecord wraps a nexus.Record: behavior input and output.
type sexpRecord struct {
	rec nexus.Record
}

func (r *sexpRecord) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(record %d)", len(r.rec))
}
func (r *sexpRecord) Type() *zygo.RegisteredType { return nil }

// ---------------------------------------------------------------------------
// Argument parsing
// ---------------------------------------------------------------------------

// isKW checks whether a Sexp is a preprocessed keyword string, returning
// the bare keyword name.
func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", false
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], true
	}
	return "", false
}

// kwArgs holds a parsed mixed positional+keyword argument list.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

// parseArgs splits args into keyword and positional arguments. Keywords
// are identified by the prefix added during preprocessing.
func parseArgs(args []zygo.Sexp) kwArgs {
	result := kwArgs{kw: make(map[string]zygo.Sexp)}
	i := 0
	for i < len(args) {
		name, ok := isKW(args[i])
		if ok && i+1 < len(args) {
			result.kw[name] = args[i+1]
			i += 2
			continue
		}
		result.positional = append(result.positional, args[i])
		i++
	}
	return result
}

// pair is one keyword/value pair in declaration order.
type pair struct {
	name  string
	value zygo.Sexp
}

// parsePairs reads a strictly alternating keyword/value list, keeping
// declaration order. Port and control schemas are ordered, so their
// builtins cannot go through the unordered kw map.
func parsePairs(args []zygo.Sexp) ([]pair, error) {
	if len(args)%2 != 0 {
		return nil, fmt.Errorf("expected keyword/value pairs, got %d arguments", len(args))
	}
	pairs := make([]pair, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		name, ok := isKW(args[i])
		if !ok {
			return nil, fmt.Errorf("expected keyword at position %d, got %s",
				i, args[i].SexpString(nil))
		}
		pairs = append(pairs, pair{name: name, value: args[i+1]})
	}
	return pairs, nil
}

// toFloat64 extracts a float64 from a SexpInt or SexpFloat.
func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %T (%s)", s, s.SexpString(nil))
}

// toString extracts a string from a Sexp.
func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %T (%s)", s, s.SexpString(nil))
}

// toFieldName extracts a field name from a keyword or plain string.
func toFieldName(s zygo.Sexp) (string, error) {
	str, ok := s.(*zygo.SexpStr)
	if !ok {
		return "", fmt.Errorf("expected keyword or string, got %T (%s)", s, s.SexpString(nil))
	}
	if strings.HasPrefix(str.S, kwPrefix) {
		return str.S[len(kwPrefix):], nil
	}
	return str.S, nil
}

// toPorts extracts a port schema from a sexpPorts.
func toPorts(s zygo.Sexp) ([]nexus.Port, error) {
	if p, ok := s.(*sexpPorts); ok {
		return p.ports, nil
	}
	return nil, fmt.Errorf("expected (pins ...), got %T (%s)", s, s.SexpString(nil))
}

// ---------------------------------------------------------------------------
// Builtin installation
// ---------------------------------------------------------------------------

// installBuiltins adds the node-definition builtins to the host's
// environment. Hyphenated names are registered in underscore form; the
// preprocessor rewrites call sites to match.
func (h *Host) installBuiltins() {
	env := h.env

	// (float) -> pin kind
	env.AddFunction("float", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 0 {
			return zygo.SexpNull, fmt.Errorf("float takes no arguments")
		}
		return &sexpPin{kind: nexus.PinFloat}, nil
	})

	// (pins :y (float) :z (float)) -> ordered port schema
	env.AddFunction("pins", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pairs, err := parsePairs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("pins: %w", err)
		}
		ports := make([]nexus.Port, 0, len(pairs))
		for _, p := range pairs {
			pin, ok := p.value.(*sexpPin)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("pins: %s: expected a pin kind like (float), got %s",
					p.name, p.value.SexpString(nil))
			}
			ports = append(ports, nexus.Port{Name: p.name, Kind: pin.kind})
		}
		return &sexpPorts{ports: ports}, nil
	})

	// (slider :value 3 :min 0 :max 10) -> editable control
	env.AddFunction("slider", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var value, min, max float64
		var err error
		if v, ok := pa.kw["value"]; ok {
			if value, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("slider: value: %w", err)
			}
		}
		if v, ok := pa.kw["min"]; ok {
			if min, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("slider: min: %w", err)
			}
		}
		if v, ok := pa.kw["max"]; ok {
			if max, err = toFloat64(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("slider: max: %w", err)
			}
		}
		return &sexpControl{ctl: nexus.NewSlider(value, min, max)}, nil
	})

	// (show-float :value 0) -> read-only display control
	env.AddFunction("show_float", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		var value float64
		if v, ok := pa.kw["value"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("show-float: value: %w", err)
			}
			value = f
		}
		return &sexpControl{ctl: nexus.NewReadout(value)}, nil
	})

	// (controls :value (slider ...) :result (show-float ...)) -> ordered set
	env.AddFunction("controls", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pairs, err := parsePairs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("controls: %w", err)
		}
		set := nexus.NewControls()
		for _, p := range pairs {
			ctl, ok := p.value.(*sexpControl)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("controls: %s: expected a control like (slider ...), got %s",
					p.name, p.value.SexpString(nil))
			}
			set.Set(p.name, ctl.ctl)
		}
		return &sexpControls{set: set}, nil
	})

	// (record :z 10) -> output record
	env.AddFunction("record", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pairs, err := parsePairs(args)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("record: %w", err)
		}
		rec := nexus.NewRecord()
		for _, p := range pairs {
			f, err := toFloat64(p.value)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("record: %s: %w", p.name, err)
			}
			rec[p.name] = f
		}
		return &sexpRecord{rec: rec}, nil
	})

	// (fetch rec :y) or (fetch rec :y default) -> value lookup.
	// Named fetch because field is a zygomys reserved word (its hash
	// constructor) and AddFunction cannot shadow it.
	env.AddFunction("fetch", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 || len(args) > 3 {
			return zygo.SexpNull, fmt.Errorf("fetch requires a record and a name, with an optional default")
		}
		rec, ok := args[0].(*sexpRecord)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("fetch: expected a record, got %s", args[0].SexpString(nil))
		}
		fieldName, err := toFieldName(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("fetch: %w", err)
		}
		v, ok := rec.rec[fieldName]
		if !ok {
			if len(args) == 3 {
				d, err := toFloat64(args[2])
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("fetch: default: %w", err)
				}
				return &zygo.SexpFloat{Val: d}, nil
			}
			return zygo.SexpNull, fmt.Errorf("fetch: record has no field %q", fieldName)
		}
		return &zygo.SexpFloat{Val: v}, nil
	})

	// (has-field rec :y) -> bool
	env.AddFunction("has_field", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("has-field requires a record and a name")
		}
		rec, ok := args[0].(*sexpRecord)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("has-field: expected a record, got %s", args[0].SexpString(nil))
		}
		fieldName, err := toFieldName(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("has-field: %w", err)
		}
		_, present := rec.rec[fieldName]
		return &zygo.SexpBool{Val: present}, nil
	})

	// (register-node :id ... :name ... :title ... :inputs (pins ...)
	//                :outputs (pins ...) :controls (controls ...)
	//                :behavior (fn [in] ...))
	env.AddFunction("register_node", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		spec := nexus.Spec{}

		v, ok := pa.kw["id"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("register-node: :id is required")
		}
		id, err := toString(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("register-node: id: %w", err)
		}
		spec.ID = id

		if v, ok := pa.kw["name"]; ok {
			if spec.Name, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("register-node: name: %w", err)
			}
		}
		if v, ok := pa.kw["title"]; ok {
			if spec.Title, err = toString(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("register-node: title: %w", err)
			}
		}
		if v, ok := pa.kw["inputs"]; ok {
			if spec.Inputs, err = toPorts(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("register-node: inputs: %w", err)
			}
		}
		if v, ok := pa.kw["outputs"]; ok {
			if spec.Outputs, err = toPorts(v); err != nil {
				return zygo.SexpNull, fmt.Errorf("register-node: outputs: %w", err)
			}
		}
		if v, ok := pa.kw["controls"]; ok {
			cs, ok := v.(*sexpControls)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("register-node: controls: expected (controls ...), got %s",
					v.SexpString(nil))
			}
			spec.Controls = cs.set
		}

		v, ok = pa.kw["behavior"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("register-node: :behavior is required")
		}
		fn, ok := v.(*zygo.SexpFunction)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("register-node: behavior: expected a function, got %s",
				v.SexpString(nil))
		}
		spec.Behavior = func(in nexus.Record) (nexus.Record, error) {
			return h.invoke(fn, in)
		}

		if _, err := h.reg.Register(spec); err != nil {
			return zygo.SexpNull, fmt.Errorf("register-node: %w", err)
		}
		return zygo.SexpNull, nil
	})
}
