package mincut

import (
	"errors"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
)

var (
	ErrSourceNotFound   = errors.New("mincut: source vertex not found")
	ErrSinkNotFound     = errors.New("mincut: sink vertex not found")
	ErrSourceEqualsSink = errors.New("mincut: source and sink are the same vertex")
)

type MinCut struct {
	flags              []bool     // true if the vertex is reachable from source in the residual graph
	edges              []da.Index // arcs leaving the source side
	numNodesInSinkSide int
	maxFlow            int64
	source, sink       da.Index
}

func NewMinCut(numberOfVertexSlots int) *MinCut {
	return &MinCut{
		flags: make([]bool, numberOfVertexSlots),
		edges: make([]da.Index, 0),
	}
}

func (mc *MinCut) SetFlag(u da.Index, flag bool) {
	mc.flags[u] = flag
}

// GetFlag reports whether u is on the source side of the cut.
func (mc *MinCut) GetFlag(u da.Index) bool {
	return mc.flags[u]
}

func (mc *MinCut) GetFlags() []bool {
	return mc.flags
}

func (mc *MinCut) GetEdges() []da.Index {
	return mc.edges
}

func (mc *MinCut) addEdge(e da.Index) {
	mc.edges = append(mc.edges, e)
}

func (mc *MinCut) GetNumNodesInSinkSide() int {
	return mc.numNodesInSinkSide
}

func (mc *MinCut) incrementNumNodesInSinkSide() {
	mc.numNodesInSinkSide++
}

// GetMinCut returns the max flow value, which equals the cut capacity.
func (mc *MinCut) GetMinCut() int64 {
	return mc.maxFlow
}

func (mc *MinCut) setMinCut(maxflow int64) {
	mc.maxFlow = maxflow
}

func (mc *MinCut) GetSource() da.Index {
	return mc.source
}

func (mc *MinCut) GetSink() da.Index {
	return mc.sink
}

// Weight sums the capacities of the cut arcs as they are in graph.
func (mc *MinCut) Weight(graph *da.FlowNetwork) int64 {
	w := int64(0)
	for _, e := range mc.edges {
		w += graph.GetEdge(e).GetCapacity()
	}
	return w
}

// GetOriginals maps the cut arcs to their distinct original edges.
func (mc *MinCut) GetOriginals(graph *da.FlowNetwork) []da.Index {
	seen := make(map[da.Index]struct{}, len(mc.edges))
	originals := make([]da.Index, 0, len(mc.edges))
	for _, e := range mc.edges {
		o := graph.GetEdge(e).GetOriginal()
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		originals = append(originals, o)
	}
	return originals
}
