// Package script hosts node-prototype definitions written in a small
// Lisp dialect, evaluated by zygomys in a sandboxed environment.
//
// A script registers prototypes with register-node, declaring port
// schemas, default controls, and a behavior closure:
//
//	(register-node
//	  :id "math/double"
//	  :name "Math::Double"
//	  :title "Double"
//	  :inputs (pins :y (float))
//	  :outputs (pins :z (float))
//	  :behavior (fn [in] (record :z (* 2 (fetch in :y)))))
//
// Behavior closures live in the host's environment and are invoked by
// the engine through the prototype; the host serializes invocations, so
// a prototype defined here is safe to run from a single engine pass.
package script

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/encodelabs/nexus/pkg/nexus"
)

// Host owns a sandboxed zygomys environment and registers the
// prototypes its scripts define into a Registry. The environment is
// single-threaded; a mutex serializes script loading and behavior
// invocation.
type Host struct {
	mu  sync.Mutex
	env *zygo.Zlisp
	reg *nexus.Registry
}

// NewHost creates a host registering into reg. Pass
// nexus.DefaultRegistry() to share prototypes process-wide.
func NewHost(reg *nexus.Registry) *Host {
	h := &Host{
		env: zygo.NewZlispSandbox(),
		reg: reg,
	}
	h.installBuiltins()
	return h
}

// Close stops the underlying environment. Behaviors defined by this
// host must not run after Close.
func (h *Host) Close() {
	h.env.Stop()
}

// LoadString evaluates one script. Definitions persist in the
// environment, so later scripts may reference earlier ones.
func (h *Host) LoadString(source string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.eval(source)
}

// LoadFile evaluates a single script file.
func (h *Host) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read script: %w", err)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.eval(string(data)); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// LoadDir evaluates every *.zy file in dir in lexical order.
func (h *Host) LoadDir(dir string) error {
	paths, err := filepath.Glob(filepath.Join(dir, "*.zy"))
	if err != nil {
		return fmt.Errorf("scan scripts: %w", err)
	}
	sort.Strings(paths)
	for _, path := range paths {
		if err := h.LoadFile(path); err != nil {
			return err
		}
	}
	return nil
}

// eval runs one preprocessed script. Callers hold the lock.
func (h *Host) eval(source string) error {
	if strings.TrimSpace(source) == "" {
		return nil
	}
	h.env.Clear()
	if err := h.env.LoadString(preprocess(source)); err != nil {
		return wrapEvalError(err)
	}
	if _, err := h.env.Run(); err != nil {
		return wrapEvalError(err)
	}
	return nil
}

// invoke applies a script behavior closure to an input record.
// The record is copied both ways, so script code never aliases
// engine-owned state.
func (h *Host) invoke(fn *zygo.SexpFunction, in nexus.Record) (nexus.Record, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.env.Clear()
	out, err := h.env.Apply(fn, []zygo.Sexp{&sexpRecord{rec: in.Clone()}})
	if err != nil {
		return nil, wrapEvalError(err)
	}

	switch v := out.(type) {
	case *sexpRecord:
		return v.rec.Clone(), nil
	case *zygo.SexpSentinel:
		if v == zygo.SexpNull {
			return nexus.NewRecord(), nil
		}
	}
	return nil, fmt.Errorf("behavior must return a record, got %s", out.SexpString(nil))
}

// EvalError is a script evaluation failure with source position when
// zygomys reported one.
type EvalError struct {
	Line    int
	Message string
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// linePattern matches zygomys messages of the form "Error on line N: ...".
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// wrapEvalError converts a zygomys error into an *EvalError, extracting
// a line number when the message carries one.
func wrapEvalError(err error) error {
	msg := err.Error()
	if m := linePattern.FindStringSubmatch(msg); m != nil {
		line, _ := strconv.Atoi(m[1])
		return &EvalError{Line: line, Message: strings.TrimSpace(m[2])}
	}
	return &EvalError{Message: strings.TrimSpace(msg)}
}
