package nexus

import (
	"sort"
	"strings"
	"sync"

	"github.com/encodelabs/nexus/pkg/nexus/registry"
)

// Spec is the registration contract a node definition must satisfy.
// It is consumed by Register, typically on behalf of the scripting host.
type Spec struct {
	// ID uniquely identifies the prototype process-wide.
	ID string

	// Name is the hierarchical menu path, segments separated by "::"
	// (e.g. "Math::Double"). It places the prototype in editor menus and
	// is not consumed by the engine.
	Name string

	// Title is the display title shown on node headers.
	Title string

	// Inputs is the ordered input port schema.
	Inputs []Port

	// Outputs is the ordered output port schema.
	Outputs []Port

	// Controls holds the default control values, in display order.
	Controls *Controls

	// Behavior is the callable invoked by the engine.
	Behavior Behavior
}

// MenuEntry is one node of the editor menu tree: either a leaf holding a
// prototype or a named category of children. Entries are sorted by name.
type MenuEntry struct {
	Name      string
	Prototype *Prototype   // non-nil for leaves
	Children  []*MenuEntry // non-nil for categories
}

// menuNode is the internal mutable form of the menu tree.
type menuNode struct {
	proto    *Prototype
	children map[string]*menuNode
}

// Registry is the process-wide prototype store. Writes occur only during
// host initialization; steady-state access is read-only. A lock guards
// registration and the menu tree; lookups go through the inner registry's
// own read lock, so there is no contention during run execution.
type Registry struct {
	protos *registry.Registry[string, *Prototype]

	mu   sync.Mutex
	menu map[string]*menuNode
}

// NewRegistry creates an empty prototype registry.
func NewRegistry() *Registry {
	return &Registry{
		protos: registry.New[string, *Prototype](),
		menu:   make(map[string]*menuNode),
	}
}

// defaultRegistry backs the package-level registration and resolution
// functions. Node deserialization resolves against it.
var defaultRegistry = NewRegistry()

// DefaultRegistry returns the process-wide registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// Register validates the spec, builds an immutable Prototype, and stores
// it under its id and menu path.
//
// Registration fails with a *RegistrationError if:
//   - the id is empty or already registered
//   - the behavior is nil
//   - a control name collides with an input or output port name
//   - the menu path collides with an existing leaf entry
func (r *Registry) Register(spec Spec) (*Prototype, error) {
	if spec.ID == "" {
		return nil, &RegistrationError{ID: spec.ID, Err: ErrEmptyID}
	}
	if spec.Behavior == nil {
		return nil, &RegistrationError{ID: spec.ID, Err: ErrNilBehavior}
	}

	ports := make(map[string]bool, len(spec.Inputs)+len(spec.Outputs))
	for _, p := range spec.Inputs {
		ports[p.Name] = true
	}
	for _, p := range spec.Outputs {
		ports[p.Name] = true
	}
	for _, name := range spec.Controls.Names() {
		if ports[name] {
			return nil, &RegistrationError{ID: spec.ID, Name: name, Err: ErrNameCollision}
		}
	}

	defaults := spec.Controls
	if defaults == nil {
		defaults = NewControls()
	}
	proto := &Prototype{
		id:       spec.ID,
		title:    spec.Title,
		inputs:   append([]Port(nil), spec.Inputs...),
		outputs:  append([]Port(nil), spec.Outputs...),
		defaults: defaults.Clone(),
		behavior: spec.Behavior,
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.protos.Has(spec.ID) {
		return nil, &RegistrationError{ID: spec.ID, Err: ErrDuplicatePrototype}
	}
	if spec.Name != "" {
		if err := r.insertMenu(spec.ID, spec.Name, proto); err != nil {
			return nil, err
		}
	}
	r.protos.Register(spec.ID, proto)
	return proto, nil
}

// insertMenu places proto at the "::"-separated path, creating categories
// as needed. Caller holds r.mu.
func (r *Registry) insertMenu(id, path string, proto *Prototype) error {
	segments := strings.Split(path, "::")
	level := r.menu
	for _, seg := range segments[:len(segments)-1] {
		node, ok := level[seg]
		if !ok {
			node = &menuNode{children: make(map[string]*menuNode)}
			level[seg] = node
		}
		if node.proto != nil {
			return &RegistrationError{ID: id, Name: seg, Err: ErrMenuConflict}
		}
		level = node.children
	}
	leaf := segments[len(segments)-1]
	if _, ok := level[leaf]; ok {
		return &RegistrationError{ID: id, Name: leaf, Err: ErrMenuConflict}
	}
	level[leaf] = &menuNode{proto: proto}
	return nil
}

// Lookup returns the prototype registered under id.
func (r *Registry) Lookup(id string) (*Prototype, bool) {
	return r.protos.Get(id)
}

// IDs returns all registered prototype ids, sorted.
func (r *Registry) IDs() []string {
	ids := r.protos.Keys()
	sort.Strings(ids)
	return ids
}

// Menu returns the editor menu tree, entries sorted by name at each level.
func (r *Registry) Menu() []*MenuEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return menuEntries(r.menu)
}

func menuEntries(level map[string]*menuNode) []*MenuEntry {
	names := make([]string, 0, len(level))
	for name := range level {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]*MenuEntry, 0, len(names))
	for _, name := range names {
		node := level[name]
		entry := &MenuEntry{Name: name, Prototype: node.proto}
		if node.children != nil {
			entry.Children = menuEntries(node.children)
		}
		out = append(out, entry)
	}
	return out
}

// Resolve pairs a persisted (id, data) pair with its registered prototype.
// On a registry hit the data is adopted verbatim: it is not validated
// against the prototype's current control schema, so names and kinds may
// have drifted since the graph was saved. A control the prototype no
// longer defines is preserved and re-serialized; a control it has since
// gained is simply absent. On a miss the node gets a synthetic Unknown
// prototype that preserves id and data untouched for lossless
// round-tripping and fails if run.
func (r *Registry) Resolve(id string, data *Controls) *Node {
	if data == nil {
		data = NewControls()
	}
	proto, ok := r.Lookup(id)
	if !ok {
		return &Node{proto: UnknownPrototype(id), data: data}
	}
	return &Node{proto: proto, data: data}
}

// Reset removes all registrations. Intended for tests; production code
// registers once during host initialization and never unregisters.
func (r *Registry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.protos.Keys() {
		r.protos.Delete(id)
	}
	r.menu = make(map[string]*menuNode)
}

// Register registers a prototype in the default registry.
func Register(spec Spec) (*Prototype, error) {
	return defaultRegistry.Register(spec)
}

// MustRegister registers a prototype in the default registry, panicking
// on failure. Intended for host initialization where a registration
// conflict is fatal.
func MustRegister(spec Spec) *Prototype {
	proto, err := defaultRegistry.Register(spec)
	if err != nil {
		panic(err)
	}
	return proto
}

// Lookup returns a prototype from the default registry.
func Lookup(id string) (*Prototype, bool) {
	return defaultRegistry.Lookup(id)
}

// MustLookup returns a prototype from the default registry, panicking if
// the id is not registered.
func MustLookup(id string) *Prototype {
	proto, ok := defaultRegistry.Lookup(id)
	if !ok {
		panic("nexus: prototype not registered: " + id)
	}
	return proto
}

// Resolve resolves a persisted node against the default registry.
func Resolve(id string, data *Controls) *Node {
	return defaultRegistry.Resolve(id, data)
}
