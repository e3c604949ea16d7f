package mincut

import (
	"fmt"
	"math"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
)

// SOURCE_EXCESS marks the source in the excess array: it supplies as much flow as its arcs carry.
const SOURCE_EXCESS int64 = -1

// PushRelabel is a generic preflow push-relabel max-flow solver with a FIFO queue of active vertices and
// the current-arc heuristic. Scratch state lives here, not on the network, and is rebuilt on every run.
type PushRelabel struct {
	graph   *da.FlowNetwork
	excess  []int64
	height  []int
	cursor  []int
	queue   []da.Index
	inQueue []bool
	source  da.Index
	sink    da.Index

	pushes   int
	relabels int
}

func NewPushRelabel(graph *da.FlowNetwork) *PushRelabel {
	return &PushRelabel{graph: graph}
}

// GetStats returns the number of pushes and relabels of the last run.
func (pr *PushRelabel) GetStats() (int, int) {
	return pr.pushes, pr.relabels
}

/*
ComputeMaxflowMinCut computes a maximum s-t flow, leaving it on the network's arcs, and returns the
minimum cut: the arcs from the vertices reachable from s in the residual graph to the rest.

time complexity: O(N^3) for FIFO selection, N = number of vertices
*/
func (pr *PushRelabel) ComputeMaxflowMinCut(s, t da.Index) (*MinCut, error) {
	if !pr.graph.IsLive(s) {
		return nil, ErrSourceNotFound
	}
	if !pr.graph.IsLive(t) {
		return nil, ErrSinkNotFound
	}
	if s == t {
		return nil, ErrSourceEqualsSink
	}

	pr.reset(s, t)
	pr.saturateSource()

	for len(pr.queue) > 0 {
		v := pr.queue[0]
		pr.queue = pr.queue[1:]
		pr.inQueue[v] = false

		pr.discharge(v)
		if pr.excess[v] > 0 {
			pr.enqueue(v)
		}
	}

	minCut := pr.makeMinCut()
	return minCut, nil
}

// ComputeMinCutByID resolves caller vertex ids before computing the cut.
func (pr *PushRelabel) ComputeMinCutByID(sourceID, sinkID int) (*MinCut, error) {
	s, ok := pr.graph.VertexIndex(sourceID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrSourceNotFound, sourceID)
	}
	t, ok := pr.graph.VertexIndex(sinkID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrSinkNotFound, sinkID)
	}
	return pr.ComputeMaxflowMinCut(s, t)
}

func (pr *PushRelabel) reset(s, t da.Index) {
	n := pr.graph.NumberOfVertexSlots()
	pr.graph.ResetFlow()
	pr.excess = make([]int64, n)
	pr.height = make([]int, n)
	pr.cursor = make([]int, n)
	pr.inQueue = make([]bool, n)
	pr.queue = make([]da.Index, 0, n)
	pr.source = s
	pr.sink = t
	pr.pushes = 0
	pr.relabels = 0

	pr.excess[s] = SOURCE_EXCESS
	pr.height[s] = pr.graph.NumberOfVertices()
}

// saturateSource pushes the full capacity of every arc leaving the source and returns any flow
// standing on arcs that enter it.
func (pr *PushRelabel) saturateSource() {
	s := pr.source
	pr.graph.ForOutEdges(s, func(e *da.FlowEdge) {
		delta := e.Residual()
		if delta <= 0 {
			return
		}
		e.AddFlow(delta)
		pr.pushes++
		pr.receive(e.GetTo(), delta)
	})
	pr.graph.ForInEdges(s, func(e *da.FlowEdge) {
		delta := e.GetFlow()
		if delta <= 0 {
			return
		}
		e.AddFlow(-delta)
		pr.pushes++
		pr.receive(e.GetFrom(), delta)
	})
}

func (pr *PushRelabel) enqueue(v da.Index) {
	if pr.inQueue[v] || v == pr.source || v == pr.sink {
		return
	}
	pr.inQueue[v] = true
	pr.queue = append(pr.queue, v)
}

func (pr *PushRelabel) receive(w da.Index, delta int64) {
	if w == pr.source {
		return
	}
	before := pr.excess[w]
	pr.excess[w] += delta
	if before == 0 && pr.excess[w] > 0 {
		pr.enqueue(w)
	}
}

// arcAt returns the i-th residual arc of v: out arcs first, then in arcs, each traversed against its direction.
func (pr *PushRelabel) arcAt(v da.Index, i int) (e *da.FlowEdge, w da.Index, residual int64, forward bool) {
	vertex := pr.graph.GetVertex(v)
	out := vertex.GetOutEdges()
	if i < len(out) {
		e = pr.graph.GetEdge(out[i])
		return e, e.GetTo(), e.Residual(), true
	}
	e = pr.graph.GetEdge(vertex.GetInEdges()[i-len(out)])
	return e, e.GetFrom(), e.GetFlow(), false
}

func (pr *PushRelabel) numberOfArcs(v da.Index) int {
	return pr.graph.GetOutDegree(v) + pr.graph.GetInDegree(v)
}

// discharge pushes the excess of v along admissible arcs, relabelling v once the cursor has swept all
// of its arcs.
func (pr *PushRelabel) discharge(v da.Index) {
	pr.cursor[v] = 0
	deg := pr.numberOfArcs(v)

	for pr.excess[v] > 0 {
		if pr.cursor[v] >= deg {
			pr.relabel(v)
			return
		}

		e, w, residual, forward := pr.arcAt(v, pr.cursor[v])
		if residual <= 0 || pr.height[w] != pr.height[v]-1 {
			pr.cursor[v]++
			continue
		}

		delta := residual
		if pr.excess[v] < delta {
			delta = pr.excess[v]
		}
		if forward {
			e.AddFlow(delta)
		} else {
			e.AddFlow(-delta)
		}
		pr.excess[v] -= delta
		pr.pushes++
		pr.receive(w, delta)

		if delta == residual {
			// saturated, the arc is no longer admissible
			pr.cursor[v]++
		}
	}
}

func (pr *PushRelabel) relabel(v da.Index) {
	minHeight := math.MaxInt
	deg := pr.numberOfArcs(v)
	for i := 0; i < deg; i++ {
		_, w, residual, _ := pr.arcAt(v, i)
		if residual > 0 && pr.height[w] < minHeight {
			minHeight = pr.height[w]
		}
	}
	if minHeight == math.MaxInt {
		panic(fmt.Sprintf("push-relabel: vertex %d has excess %d but no residual arc", pr.graph.VertexID(v), pr.excess[v]))
	}
	pr.height[v] = minHeight + 1
	pr.cursor[v] = 0
	pr.relabels++
}

func (pr *PushRelabel) makeMinCut() *MinCut {
	minCut := NewMinCut(pr.graph.NumberOfVertexSlots())
	minCut.source = pr.source
	minCut.sink = pr.sink

	reachable := pr.graph.Reachable([]da.Index{pr.source}, da.ResidualFilter)
	pr.graph.ForEachVertex(func(u da.Index, _ *da.FlowVertex) {
		if reachable[u] {
			minCut.SetFlag(u, true)
		} else {
			minCut.incrementNumNodesInSinkSide()
		}
	})
	pr.graph.ForEachEdge(func(e *da.FlowEdge) {
		if reachable[e.GetFrom()] && !reachable[e.GetTo()] && e.GetCapacity() > 0 {
			minCut.addEdge(e.GetID())
		}
	})

	minCut.setMinCut(MaxFlowValue(pr.graph, pr.sink))
	return minCut
}

// MaxFlowValue is the net flow entering sink.
func MaxFlowValue(graph *da.FlowNetwork, sink da.Index) int64 {
	value := int64(0)
	graph.ForInEdges(sink, func(e *da.FlowEdge) {
		value += e.GetFlow()
	})
	graph.ForOutEdges(sink, func(e *da.FlowEdge) {
		value -= e.GetFlow()
	})
	return value
}
