package nexus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passBehavior(in Record) (Record, error) {
	return NewRecord(), nil
}

// TestRegister verifies a spec becomes a registered, lookupable prototype.
func TestRegister(t *testing.T) {
	r := NewRegistry()
	proto, err := r.Register(Spec{
		ID:       "math/double",
		Name:     "Math::Double",
		Title:    "Double",
		Inputs:   []Port{{Name: "y", Kind: PinFloat}},
		Outputs:  []Port{{Name: "z", Kind: PinFloat}},
		Behavior: passBehavior,
	})
	require.NoError(t, err)
	assert.Equal(t, "math/double", proto.ID())
	assert.Equal(t, "Double", proto.Title())

	got, ok := r.Lookup("math/double")
	require.True(t, ok)
	assert.Same(t, proto, got)
}

// TestRegister_Validation verifies the registration failure modes.
func TestRegister_Validation(t *testing.T) {
	controls := NewControls()
	controls.Set("y", NewSlider(0, 0, 1))

	testCases := []struct {
		name string
		spec Spec
		want error
	}{
		{
			"empty id",
			Spec{Behavior: passBehavior},
			ErrEmptyID,
		},
		{
			"nil behavior",
			Spec{ID: "x"},
			ErrNilBehavior,
		},
		{
			"control collides with input port",
			Spec{
				ID:       "x",
				Inputs:   []Port{{Name: "y", Kind: PinFloat}},
				Controls: controls,
				Behavior: passBehavior,
			},
			ErrNameCollision,
		},
		{
			"control collides with output port",
			Spec{
				ID:       "x",
				Outputs:  []Port{{Name: "y", Kind: PinFloat}},
				Controls: controls,
				Behavior: passBehavior,
			},
			ErrNameCollision,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := NewRegistry()
			_, err := r.Register(tc.spec)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.want)

			var regErr *RegistrationError
			assert.ErrorAs(t, err, &regErr)
		})
	}
}

// TestRegister_DuplicateID verifies ids register at most once.
func TestRegister_DuplicateID(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(Spec{ID: "x", Behavior: passBehavior})
	require.NoError(t, err)

	_, err = r.Register(Spec{ID: "x", Behavior: passBehavior})
	assert.ErrorIs(t, err, ErrDuplicatePrototype)
}

// TestRegister_MenuConflicts verifies path/leaf collisions are rejected.
func TestRegister_MenuConflicts(t *testing.T) {
	t.Run("leaf under existing leaf", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Register(Spec{ID: "a", Name: "Math", Behavior: passBehavior})
		require.NoError(t, err)

		_, err = r.Register(Spec{ID: "b", Name: "Math::Double", Behavior: passBehavior})
		assert.ErrorIs(t, err, ErrMenuConflict)
	})

	t.Run("leaf over existing category", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Register(Spec{ID: "a", Name: "Math::Double", Behavior: passBehavior})
		require.NoError(t, err)

		_, err = r.Register(Spec{ID: "b", Name: "Math", Behavior: passBehavior})
		assert.ErrorIs(t, err, ErrMenuConflict)
	})

	t.Run("duplicate leaf", func(t *testing.T) {
		r := NewRegistry()
		_, err := r.Register(Spec{ID: "a", Name: "Math::Double", Behavior: passBehavior})
		require.NoError(t, err)

		_, err = r.Register(Spec{ID: "b", Name: "Math::Double", Behavior: passBehavior})
		assert.ErrorIs(t, err, ErrMenuConflict)
	})
}

// TestRegistry_Menu verifies the tree is nested and sorted.
func TestRegistry_Menu(t *testing.T) {
	r := NewRegistry()
	for _, spec := range []Spec{
		{ID: "mul", Name: "Math::Multiply", Behavior: passBehavior},
		{ID: "add", Name: "Math::Add", Behavior: passBehavior},
		{ID: "const", Name: "Values::Const", Behavior: passBehavior},
	} {
		_, err := r.Register(spec)
		require.NoError(t, err)
	}

	menu := r.Menu()
	require.Len(t, menu, 2)
	assert.Equal(t, "Math", menu[0].Name)
	assert.Nil(t, menu[0].Prototype)
	require.Len(t, menu[0].Children, 2)
	assert.Equal(t, "Add", menu[0].Children[0].Name)
	assert.Equal(t, "Multiply", menu[0].Children[1].Name)
	assert.Equal(t, "Values", menu[1].Name)
}

// TestRegistry_MenuOptional verifies unnamed prototypes skip the menu.
func TestRegistry_MenuOptional(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(Spec{ID: "hidden", Behavior: passBehavior})
	require.NoError(t, err)

	assert.Empty(t, r.Menu())
	_, ok := r.Lookup("hidden")
	assert.True(t, ok)
}

// TestRegistry_IDs verifies sorted id listing.
func TestRegistry_IDs(t *testing.T) {
	r := NewRegistry()
	for _, id := range []string{"zz", "aa", "mm"} {
		_, err := r.Register(Spec{ID: id, Behavior: passBehavior})
		require.NoError(t, err)
	}
	assert.Equal(t, []string{"aa", "mm", "zz"}, r.IDs())
}

// TestRegistry_Resolve verifies hits adopt stored data verbatim.
func TestRegistry_Resolve(t *testing.T) {
	r := NewRegistry()
	controls := NewControls()
	controls.Set("value", NewSlider(1, 0, 10))
	_, err := r.Register(Spec{ID: "const", Controls: controls, Behavior: passBehavior})
	require.NoError(t, err)

	// Stored data carries a drifted control the prototype never had.
	stored := NewControls()
	stored.Set("legacy", NewReadout(42))

	n := r.Resolve("const", stored)
	assert.Equal(t, "const", n.PrototypeID())
	assert.Same(t, stored, n.Controls())

	legacy, ok := n.Controls().Get("legacy")
	require.True(t, ok)
	assert.Equal(t, 42.0, legacy.Float())
}

// TestRegistry_Resolve_Unknown verifies misses yield inert Unknown nodes.
func TestRegistry_Resolve_Unknown(t *testing.T) {
	r := NewRegistry()
	stored := NewControls()
	stored.Set("value", NewSlider(3, 0, 10))

	n := r.Resolve("ghost/proto", stored)

	assert.Equal(t, "ghost/proto", n.PrototypeID())
	assert.Empty(t, n.Inputs())
	assert.Empty(t, n.Outputs())
	assert.Same(t, stored, n.Controls())

	_, err := n.Run(NewRecord())
	assert.ErrorIs(t, err, ErrUnknownPrototype)
}

// TestRegistry_Reset verifies tests can start clean.
func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry()
	_, err := r.Register(Spec{ID: "x", Name: "X", Behavior: passBehavior})
	require.NoError(t, err)

	r.Reset()

	assert.Empty(t, r.IDs())
	assert.Empty(t, r.Menu())
	_, ok := r.Lookup("x")
	assert.False(t, ok)
}
