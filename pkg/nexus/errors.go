package nexus

import (
	"errors"
	"fmt"
)

// Sentinel errors for registration.
var (
	// ErrEmptyID indicates a prototype was registered without an id.
	ErrEmptyID = errors.New("prototype id cannot be empty")

	// ErrDuplicatePrototype indicates a prototype id is already registered.
	ErrDuplicatePrototype = errors.New("prototype id already registered")

	// ErrNameCollision indicates a control name collides with an input or
	// output port name in the same prototype.
	ErrNameCollision = errors.New("control name collides with port name")

	// ErrMenuConflict indicates a hierarchical menu path collides with an
	// existing leaf entry, or vice versa.
	ErrMenuConflict = errors.New("menu path conflicts with existing entry")

	// ErrNilBehavior indicates a prototype was registered without a behavior.
	ErrNilBehavior = errors.New("prototype behavior cannot be nil")
)

// Sentinel errors for graph editing and building.
var (
	// ErrNodeNotFound indicates a wire or operation references a node id
	// absent from the graph.
	ErrNodeNotFound = errors.New("node not found in graph")

	// ErrNoSuchPort indicates a port index does not resolve against the
	// node's schema.
	ErrNoSuchPort = errors.New("port index out of range")

	// ErrPinMismatch indicates two ports of different Pin kinds were wired.
	ErrPinMismatch = errors.New("pin kinds do not match")
)

// ErrUnknownPrototype is the failure produced by running a node whose
// prototype could not be resolved against the registry. It is deferred
// until the node is actually scheduled and run.
var ErrUnknownPrototype = errors.New("unknown node prototype")

// ErrNilContext indicates Run was called with a nil Context.
var ErrNilContext = errors.New("context cannot be nil")

// RegistrationError wraps a registration failure with the offending
// prototype id and name. Registration failures are fatal at load time.
type RegistrationError struct {
	// ID is the prototype id being registered.
	ID string
	// Name is the offending port, control, or menu segment name, if any.
	Name string
	// Err is the underlying cause (one of the registration sentinels).
	Err error
}

// Error implements the error interface.
func (e *RegistrationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("register %s: %q: %v", e.ID, e.Name, e.Err)
	}
	return fmt.Sprintf("register %s: %v", e.ID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *RegistrationError) Unwrap() error {
	return e.Err
}

// CycleError indicates the graph is not acyclic. The run is aborted
// before any behavior executes.
type CycleError struct {
	// Nodes are the node ids involved in (or downstream of) a cycle,
	// in insertion order.
	Nodes []NodeID
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected among %d nodes", len(e.Nodes))
}

// BehaviorError wraps a node behavior failure with node identity.
// The message of the underlying error is opaque to the engine.
type BehaviorError struct {
	// NodeID is the graph identifier of the failing node.
	NodeID NodeID
	// PrototypeID is the id of the node's prototype.
	PrototypeID string
	// Err is the failure returned by the behavior.
	Err error
}

// Error implements the error interface.
func (e *BehaviorError) Error() string {
	return fmt.Sprintf("node %s (%s): %v", e.NodeID, e.PrototypeID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *BehaviorError) Unwrap() error {
	return e.Err
}

// PanicError wraps a panic recovered from a node behavior.
type PanicError struct {
	// NodeID is the graph identifier of the panicking node.
	NodeID NodeID
	// Value is the recovered panic value.
	Value any
	// Stack is the goroutine stack at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("node %s panicked: %v", e.NodeID, e.Value)
}

// WireError wraps a wire that could not be resolved against the port
// schemas of its endpoints while building the dependency graph.
type WireError struct {
	// Wire is the offending wire.
	Wire Wire
	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *WireError) Error() string {
	return fmt.Sprintf("wire %s[%d] -> %s[%d]: %v",
		e.Wire.From, e.Wire.Output, e.Wire.To, e.Wire.Input, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *WireError) Unwrap() error {
	return e.Err
}
