package nexus

import (
	"runtime/debug"
	"time"

	"github.com/encodelabs/nexus/pkg/nexus/event"
	"github.com/encodelabs/nexus/pkg/nexus/observability"
)

// Result captures one complete run of a graph: the record fed to each
// node, the record each node produced, and the execution order.
//
// On failure, Result holds everything up to (not including) the failing
// node; control writes already applied stay applied.
type Result struct {
	// RunID identifies the run.
	RunID string
	// Inputs maps node id to the input record the node was run with.
	Inputs map[NodeID]Record
	// Outputs maps node id to the record the node's behavior returned.
	Outputs map[NodeID]Record
	// Executed lists node ids in the order their behaviors completed.
	Executed []NodeID
}

// Run executes every node of the graph exactly once in dependency order.
//
// The run proceeds in a single pass:
//  1. Resolve the graph's wires against port schemas and compute a
//     topological schedule. Structural failures (*WireError, *CycleError)
//     abort before any behavior executes.
//  2. For each node in schedule order: assemble its input record from
//     its persisted controls and the values propagated along incoming
//     wires, then invoke its behavior.
//  3. Write output values that share a control's name back into that
//     control, then propagate output values along outgoing wires.
//
// The first behavior failure aborts the run. Controls mutated by earlier
// nodes keep their new values; there is no rollback.
//
// Example:
//
//	ctx := nexus.NewContext(context.Background())
//	result, err := nexus.Run(ctx, g)
//	if err != nil {
//	    // result holds the partial run up to the failure
//	}
func Run(ctx Context, g *Graph, opts ...RunOption) (result *Result, runErr error) {
	if ctx == nil {
		return nil, ErrNilContext
	}

	cfg := defaultRunConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	// Resolve structure before anything runs.
	d, err := buildDAG(g)
	if err != nil {
		return nil, err
	}
	order, err := d.schedule()
	if err != nil {
		return nil, err
	}

	runID := ctx.RunID()
	startTime := time.Now()

	observability.LogRunStart(ctx.Logger(), runID, len(order))
	cfg.publish(event.Event{Type: event.RunStarted, RunID: runID, Time: startTime})

	tracingCtx, runSpan := cfg.spans.StartRunSpan(ctx, runID)
	defer func() {
		cfg.spans.EndSpanWithError(runSpan, runErr)
	}()

	result = &Result{
		RunID:   runID,
		Inputs:  make(map[NodeID]Record, len(order)),
		Outputs: make(map[NodeID]Record, len(order)),
	}

	var lastNode NodeID
	fail := func(err error) (*Result, error) {
		duration := time.Since(startTime)
		cfg.metrics.RecordGraphRun(ctx, false, duration)
		observability.LogRunError(ctx.Logger(), runID, err, float64(duration.Milliseconds()), string(lastNode))
		cfg.publish(event.Event{Type: event.RunFailed, RunID: runID, NodeID: string(lastNode), Err: err.Error(), Time: time.Now()})
		return result, err
	}

	for _, v := range order {
		id := d.ids[v]
		lastNode = id
		n := g.nodes[id]

		// Check for cancellation before each node.
		select {
		case <-ctx.Done():
			return fail(ctx.Err())
		default:
		}

		in := result.Inputs[id]
		if in == nil {
			in = NewRecord()
			result.Inputs[id] = in
		}
		// Persisted controls are always visible to the behavior. Control
		// names never collide with input port names, so propagated wire
		// values are untouched.
		for _, name := range n.data.Names() {
			c, _ := n.data.Get(name)
			in[name] = c.Float()
		}

		nodeCtx := ctx
		if rc, ok := ctx.(*runContext); ok {
			nodeCtx = rc.withNodeID(string(id))
		}

		observability.LogNodeStart(nodeCtx.Logger(), string(id), n.PrototypeID())
		nodeTracingCtx, nodeSpan := cfg.spans.StartNodeSpan(tracingCtx, string(id), n.PrototypeID())

		nodeStart := time.Now()
		out, nodeErr := invokeNode(n, id, in)
		nodeDuration := time.Since(nodeStart)

		cfg.metrics.RecordNodeExecution(nodeTracingCtx, n.PrototypeID(), nodeDuration, nodeErr)
		cfg.spans.EndSpanWithError(nodeSpan, nodeErr)

		if nodeErr != nil {
			observability.LogNodeError(nodeCtx.Logger(), string(id), nodeErr)
			return fail(nodeErr)
		}

		observability.LogNodeComplete(nodeCtx.Logger(), string(id), float64(nodeDuration.Milliseconds()))
		result.Outputs[id] = out
		result.Executed = append(result.Executed, id)
		cfg.publish(event.Event{Type: event.NodeExecuted, RunID: runID, NodeID: string(id), Time: time.Now()})

		// An output sharing a control's name overwrites the persisted
		// control value. Absent names leave the control unchanged.
		for _, name := range n.data.Names() {
			v, ok := out[name]
			if !ok {
				continue
			}
			n.data.SetFloat(name, v)
			observability.LogControlUpdate(nodeCtx.Logger(), string(id), name, v)
			cfg.publish(event.Event{
				Type:    event.ControlUpdated,
				RunID:   runID,
				NodeID:  string(id),
				Control: name,
				Value:   v,
				Time:    time.Now(),
			})
		}

		// Propagate present output values along outgoing wires. Absent
		// values are skipped, leaving the target's slot untouched.
		for _, e := range d.out[v] {
			val, ok := out[e.outName]
			if !ok {
				continue
			}
			target := d.ids[e.to]
			tin := result.Inputs[target]
			if tin == nil {
				tin = NewRecord()
				result.Inputs[target] = tin
			}
			tin[e.inName] = val
		}
	}

	duration := time.Since(startTime)
	cfg.metrics.RecordGraphRun(ctx, true, duration)
	observability.LogRunComplete(ctx.Logger(), runID, float64(duration.Milliseconds()), len(result.Executed))
	cfg.publish(event.Event{Type: event.RunCompleted, RunID: runID, Time: time.Now()})

	return result, nil
}

// invokeNode runs a single node's behavior with panic recovery.
func invokeNode(n *Node, id NodeID, in Record) (out Record, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = &PanicError{
				NodeID: id,
				Value:  r,
				Stack:  string(debug.Stack()),
			}
		}
	}()

	out, err = n.Run(in)
	if err != nil {
		return out, &BehaviorError{
			NodeID:      id,
			PrototypeID: n.PrototypeID(),
			Err:         err,
		}
	}
	return out, nil
}

// publish delivers an event when a bus is configured.
func (c *runConfig) publish(e event.Event) {
	if c.bus == nil {
		return
	}
	c.bus.Publish(e)
}
