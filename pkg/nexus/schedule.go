package nexus

import "container/heap"

// vertexHeap is a min-heap of vertex indices. Popping the smallest index
// first pins the scheduler's tie-break among independent vertices to node
// insertion order, making the schedule deterministic for a fixed graph.
type vertexHeap []int

func (h vertexHeap) Len() int           { return len(h) }
func (h vertexHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h vertexHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *vertexHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *vertexHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// schedule returns a topological order of the dag's vertices: for every
// edge, the source precedes the target. It fails with a *CycleError iff
// a directed cycle exists, listing the vertices left unordered.
func (d *dag) schedule() ([]int, error) {
	indeg := make([]int, len(d.indeg))
	copy(indeg, d.indeg)

	ready := &vertexHeap{}
	for v, deg := range indeg {
		if deg == 0 {
			heap.Push(ready, v)
		}
	}

	order := make([]int, 0, len(d.ids))
	for ready.Len() > 0 {
		v := heap.Pop(ready).(int)
		order = append(order, v)
		for _, e := range d.out[v] {
			indeg[e.to]--
			if indeg[e.to] == 0 {
				heap.Push(ready, e.to)
			}
		}
	}

	if len(order) != len(d.ids) {
		var stuck []NodeID
		for v, deg := range indeg {
			if deg > 0 {
				stuck = append(stuck, d.ids[v])
			}
		}
		return nil, &CycleError{Nodes: stuck}
	}
	return order, nil
}
