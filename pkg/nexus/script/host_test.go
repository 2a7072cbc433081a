package script

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/encodelabs/nexus/pkg/nexus"
)

const doubleScript = `
(register-node
  :id "math/double"
  :name "Math::Double"
  :title "Double"
  :inputs (pins :y (float))
  :outputs (pins :z (float))
  :behavior (fn [in] (record :z (* 2 (fetch in :y)))))
`

func newTestHost(t *testing.T) (*Host, *nexus.Registry) {
	t.Helper()
	reg := nexus.NewRegistry()
	h := NewHost(reg)
	t.Cleanup(h.Close)
	return h, reg
}

func TestHost_RegisterNode(t *testing.T) {
	h, reg := newTestHost(t)
	require.NoError(t, h.LoadString(doubleScript))

	proto, ok := reg.Lookup("math/double")
	require.True(t, ok)
	assert.Equal(t, "Double", proto.Title())
	assert.Equal(t, []nexus.Port{{Name: "y", Kind: nexus.PinFloat}}, proto.Inputs())
	assert.Equal(t, []nexus.Port{{Name: "z", Kind: nexus.PinFloat}}, proto.Outputs())

	out, err := proto.Invoke(nexus.Record{"y": 5})
	require.NoError(t, err)
	assert.Equal(t, nexus.Record{"z": 10}, out)
}

func TestHost_ScriptedControls(t *testing.T) {
	h, reg := newTestHost(t)
	require.NoError(t, h.LoadString(`
(register-node
  :id "values/const"
  :title "Const"
  :outputs (pins :x (float))
  :controls (controls :value (slider :value 3 :min 0 :max 10))
  :behavior (fn [in] (record :x (fetch in :value))))
`))

	proto, ok := reg.Lookup("values/const")
	require.True(t, ok)

	defaults := proto.Defaults()
	ctl, ok := defaults.Get("value")
	require.True(t, ok)
	assert.Equal(t, 3.0, ctl.Float())
	assert.Equal(t, 0.0, ctl.Min)
	assert.Equal(t, 10.0, ctl.Max)

	out, err := proto.Invoke(nexus.Record{"value": 7})
	require.NoError(t, err)
	assert.Equal(t, nexus.Record{"x": 7}, out)
}

func TestHost_ControlOrderPreserved(t *testing.T) {
	h, reg := newTestHost(t)
	require.NoError(t, h.LoadString(`
(register-node
  :id "values/panel"
  :title "Panel"
  :controls (controls
    :zeta (slider :value 1)
    :alpha (show-float :value 2)
    :mid (slider :value 3))
  :behavior (fn [in] (record)))
`))

	proto, ok := reg.Lookup("values/panel")
	require.True(t, ok)
	assert.Equal(t, []string{"zeta", "alpha", "mid"}, proto.Defaults().Names())
}

func TestHost_FieldDefault(t *testing.T) {
	h, reg := newTestHost(t)
	require.NoError(t, h.LoadString(`
(register-node
  :id "math/offset"
  :title "Offset"
  :inputs (pins :x (float))
  :outputs (pins :y (float))
  :behavior (fn [in] (record :y (+ (fetch in :x 100) 1))))
`))

	proto, _ := reg.Lookup("math/offset")

	out, err := proto.Invoke(nexus.Record{"x": 4})
	require.NoError(t, err)
	assert.Equal(t, nexus.Record{"y": 5}, out)

	// Absent input falls back to the declared default.
	out, err = proto.Invoke(nexus.Record{})
	require.NoError(t, err)
	assert.Equal(t, nexus.Record{"y": 101}, out)
}

func TestHost_FieldMissingNoDefault(t *testing.T) {
	h, reg := newTestHost(t)
	require.NoError(t, h.LoadString(`
(register-node
  :id "math/strict"
  :title "Strict"
  :inputs (pins :x (float))
  :outputs (pins :y (float))
  :behavior (fn [in] (record :y (fetch in :x))))
`))

	proto, _ := reg.Lookup("math/strict")

	_, err := proto.Invoke(nexus.Record{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no field "x"`)
}

func TestHost_HasField(t *testing.T) {
	h, reg := newTestHost(t)
	require.NoError(t, h.LoadString(`
(register-node
  :id "math/opt"
  :title "Opt"
  :inputs (pins :x (float))
  :outputs (pins :y (float))
  :behavior (fn [in]
    (cond (has-field in :x)
      (record :y (fetch in :x))
      (record :y -1))))
`))

	proto, _ := reg.Lookup("math/opt")

	out, err := proto.Invoke(nexus.Record{"x": 2})
	require.NoError(t, err)
	assert.Equal(t, nexus.Record{"y": 2}, out)

	out, err = proto.Invoke(nexus.Record{})
	require.NoError(t, err)
	assert.Equal(t, nexus.Record{"y": -1}, out)
}

func TestHost_EmptyRecordResult(t *testing.T) {
	h, reg := newTestHost(t)
	require.NoError(t, h.LoadString(`
(register-node
  :id "values/sink"
  :title "Sink"
  :inputs (pins :in (float))
  :behavior (fn [in] (record)))
`))

	proto, _ := reg.Lookup("values/sink")

	out, err := proto.Invoke(nexus.Record{"in": 1})
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHost_RegisterNodeValidation(t *testing.T) {
	h, _ := newTestHost(t)

	err := h.LoadString(`(register-node :title "NoID" :behavior (fn [in] (record)))`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ":id is required")

	err = h.LoadString(`(register-node :id "x/y" :title "NoBehavior")`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), ":behavior is required")

	err = h.LoadString(`(register-node :id "x/y" :behavior 42)`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected a function")
}

func TestHost_BadPairs(t *testing.T) {
	h, _ := newTestHost(t)

	// Odd argument count in an ordered pair list.
	err := h.LoadString(`(pins :y)`)
	require.Error(t, err)

	// Value where a keyword belongs.
	err = h.LoadString(`(pins 1 (float))`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected keyword")
}

func TestHost_SyntaxError(t *testing.T) {
	h, _ := newTestHost(t)

	err := h.LoadString(`(register-node :id`)
	require.Error(t, err)

	var evalErr *EvalError
	assert.ErrorAs(t, err, &evalErr)
}

func TestHost_EmptySource(t *testing.T) {
	h, _ := newTestHost(t)
	assert.NoError(t, h.LoadString(""))
	assert.NoError(t, h.LoadString("  \n\t"))
}

func TestHost_LoadDir(t *testing.T) {
	h, reg := newTestHost(t)
	dir := t.TempDir()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "10-double.zy"), []byte(doubleScript), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20-triple.zy"), []byte(`
(register-node
  :id "math/triple"
  :title "Triple"
  :inputs (pins :y (float))
  :outputs (pins :z (float))
  :behavior (fn [in] (record :z (* 3 (fetch in :y)))))
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("not a script"), 0o644))

	require.NoError(t, h.LoadDir(dir))
	_, ok := reg.Lookup("math/double")
	assert.True(t, ok)
	_, ok = reg.Lookup("math/triple")
	assert.True(t, ok)
}

func TestHost_LoadFileError(t *testing.T) {
	h, _ := newTestHost(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "broken.zy")
	require.NoError(t, os.WriteFile(path, []byte(`(pins 1 2)`), 0o644))

	err := h.LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.zy")

	err = h.LoadFile(filepath.Join(dir, "absent.zy"))
	assert.ErrorContains(t, err, "read script")
}

func TestHost_ScriptedGraphRun(t *testing.T) {
	h, reg := newTestHost(t)
	require.NoError(t, h.LoadString(doubleScript))
	require.NoError(t, h.LoadString(`
(register-node
  :id "values/five"
  :title "Five"
  :outputs (pins :x (float))
  :behavior (fn [in] (record :x 5)))
`))

	g := nexus.NewGraph()
	src, _ := reg.Lookup("values/five")
	dbl, _ := reg.Lookup("math/double")
	a := g.Add(src.Instantiate())
	b := g.Add(dbl.Instantiate())
	require.NoError(t, g.Connect(a, 0, b, 0))

	// Two passes: the scripted behavior must read its input through the
	// host's accessor on every run, not just the first.
	for i := 0; i < 2; i++ {
		result, err := nexus.Run(nexus.NewContext(context.Background()), g)
		require.NoError(t, err)
		assert.Equal(t, 5.0, result.Inputs[b]["y"])
		assert.Equal(t, 10.0, result.Outputs[b]["z"])
	}
}
