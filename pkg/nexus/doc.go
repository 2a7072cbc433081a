/*
Package nexus provides a typed node-graph execution engine.

# Overview

nexus is a Go library for building and running directed graphs of small
computational nodes. Nodes are instantiated from registered prototypes
that declare typed input and output ports plus named controls; wires
connect output ports to input ports of matching pin kinds. A run
executes every node exactly once in dependency order, feeding each
behavior a record built from the node's persisted controls and the
values propagated along its incoming wires.

The library separates three concerns:
  - Prototypes: shared, immutable schemas with a behavior function
  - Graphs: mutable node and wire collections built incrementally
  - Runs: single-pass deterministic execution with control persistence

# Basic Usage

Register prototypes, build a graph, and run it:

	nexus.MustRegister(nexus.Spec{
	    ID:       "double",
	    Name:     "Math::Double",
	    Title:    "Double",
	    Inputs:   []nexus.Port{{Name: "y", Kind: nexus.PinFloat}},
	    Outputs:  []nexus.Port{{Name: "z", Kind: nexus.PinFloat}},
	    Behavior: func(in nexus.Record) (nexus.Record, error) {
	        return nexus.Record{"z": in["y"] * 2}, nil
	    },
	})

	g := nexus.NewGraph()
	a := g.Add(nexus.MustLookup("const").Instantiate())
	b := g.Add(nexus.MustLookup("double").Instantiate())
	if err := g.Connect(a, 0, b, 0); err != nil {
	    log.Fatal(err)
	}

	ctx := nexus.NewContext(context.Background())
	result, err := nexus.Run(ctx, g)
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(result.Outputs[b]["z"])

# Controls

Controls are per-node float state that survives across runs. A behavior
sees every control as an input value; returning an output under a
control's name writes the value back into the control. This is the only
way control state changes during a run:

	controls := nexus.NewControls()
	controls.Set("count", nexus.NewReadout(0))

	nexus.MustRegister(nexus.Spec{
	    ID:       "counter",
	    Name:     "State::Counter",
	    Title:    "Counter",
	    Controls: controls,
	    Behavior: func(in nexus.Record) (nexus.Record, error) {
	        return nexus.Record{"count": in["count"] + 1}, nil
	    },
	})

# Persistence

Graphs serialize to versioned JSON documents storing prototype ids and
control data only. On load, ids are re-resolved against the registry;
ids with no registered prototype become inert Unknown nodes that keep
their controls, so documents round-trip losslessly:

	data, _ := json.Marshal(g)
	store, _ := store.NewSQLiteStore("./graphs.db")
	defer store.Close()
	store.Save("patch", data)

# Error Handling

Structural errors abort a run before any behavior executes; behavior
failures abort mid-run with partial results:

	result, err := nexus.Run(ctx, g)
	var cycleErr *nexus.CycleError
	if errors.As(err, &cycleErr) {
	    log.Printf("cycle among %v", cycleErr.Nodes)
	}
	var behErr *nexus.BehaviorError
	if errors.As(err, &behErr) {
	    log.Printf("node %s failed: %v", behErr.NodeID, behErr.Err)
	}

Panics in behaviors are recovered and converted to PanicError with a
stack trace. Running a node with an unresolved prototype fails with
ErrUnknownPrototype.

# Thread Safety

  - Graph is NOT safe for concurrent use
  - Prototype IS safe for concurrent use (immutable)
  - Registry IS safe for concurrent use
  - Store implementations are safe for concurrent use

# Subpackages

  - registry: Generic keyed collection underlying the prototype registry
  - config: Configuration loading (YAML, JSON)
  - store: Graph document storage (memory, SQLite)
  - event: Synchronous run event bus
  - script: Zygomys scripting host for defining prototypes in Lisp
  - observability: Logging, metrics, and tracing helpers
*/
package nexus
