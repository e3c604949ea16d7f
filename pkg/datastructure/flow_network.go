package datastructure

import (
	"fmt"

	"golang.org/x/exp/slices"
)

type EdgeInput struct {
	U, V     int
	Capacity int64
}

func NewEdgeInput(u, v int, capacity int64) EdgeInput {
	return EdgeInput{U: u, V: v, Capacity: capacity}
}

// FlowNetwork is an arena of vertices and arcs addressed by stable Index handles. Handles are never
// reused, removed vertices and arcs are tombstoned.
type FlowNetwork struct {
	vertices  []FlowVertex
	edges     []FlowEdge
	originals []OriginalEdge
	idToIndex map[int]Index

	terminals        []int
	terminalIndices  []Index
	terminalPosition map[Index]int
	k                int

	numberOfVertices int
	maxID            int
}

// NewFlowNetwork builds a network from undirected edges. The vertex set is the set of edge endpoints.
// Nothing is built when any input is rejected.
func NewFlowNetwork(terminals []int, k int, edges []EdgeInput) (*FlowNetwork, error) {
	if len(terminals) != k {
		return nil, fmt.Errorf("%w: got %d terminals, k=%d", ErrTerminalCountMismatch, len(terminals), k)
	}

	ids := make(map[int]struct{}, 2*len(edges))
	for i, e := range edges {
		if e.U < 0 || e.V < 0 {
			return nil, fmt.Errorf("%w: edge %d (%d,%d)", ErrNegativeVertexID, i, e.U, e.V)
		}
		if e.Capacity < 0 {
			return nil, fmt.Errorf("%w: edge %d (%d,%d) capacity %d", ErrNegativeCapacity, i, e.U, e.V, e.Capacity)
		}
		if e.U == e.V {
			return nil, fmt.Errorf("%w: edge %d at vertex %d", ErrSelfLoop, i, e.U)
		}
		ids[e.U] = struct{}{}
		ids[e.V] = struct{}{}
	}

	seen := make(map[int]struct{}, k)
	for _, t := range terminals {
		if t < 0 {
			return nil, fmt.Errorf("%w: terminal %d", ErrNegativeVertexID, t)
		}
		if _, ok := seen[t]; ok {
			return nil, fmt.Errorf("%w: terminal %d", ErrDuplicateTerminal, t)
		}
		seen[t] = struct{}{}
		if _, ok := ids[t]; !ok {
			return nil, fmt.Errorf("%w: terminal %d", ErrTerminalNotFound, t)
		}
	}

	sortedIds := make([]int, 0, len(ids))
	for id := range ids {
		sortedIds = append(sortedIds, id)
	}
	slices.Sort(sortedIds)

	g := NewEmptyFlowNetwork()
	g.vertices = make([]FlowVertex, 0, len(sortedIds))
	g.edges = make([]FlowEdge, 0, 2*len(edges))
	g.originals = make([]OriginalEdge, 0, len(edges))
	for _, id := range sortedIds {
		g.addVertex(id)
	}
	for _, e := range edges {
		g.addUndirected(g.idToIndex[e.U], g.idToIndex[e.V], e.Capacity, g.newOriginal(e.U, e.V, e.Capacity))
	}

	g.k = k
	g.terminals = append([]int(nil), terminals...)
	g.terminalIndices = make([]Index, k)
	for i, t := range terminals {
		g.terminalIndices[i] = g.idToIndex[t]
		g.terminalPosition[g.idToIndex[t]] = i
	}
	return g, nil
}

// NewEmptyFlowNetwork returns a network without vertices or terminals (k=0), used for auxiliary networks.
func NewEmptyFlowNetwork() *FlowNetwork {
	return &FlowNetwork{
		vertices:         make([]FlowVertex, 0),
		edges:            make([]FlowEdge, 0),
		originals:        make([]OriginalEdge, 0),
		idToIndex:        make(map[int]Index),
		terminals:        make([]int, 0),
		terminalIndices:  make([]Index, 0),
		terminalPosition: make(map[Index]int),
		maxID:            -1,
	}
}

func (g *FlowNetwork) GetK() int {
	return g.k
}

// GetTerminals returns terminal vertex ids in partition order.
func (g *FlowNetwork) GetTerminals() []int {
	return g.terminals
}

func (g *FlowNetwork) GetTerminalIndices() []Index {
	return g.terminalIndices
}

func (g *FlowNetwork) GetTerminalIndex(i int) Index {
	return g.terminalIndices[i]
}

// TerminalPosition returns the partition index owned by the terminal at handle u.
func (g *FlowNetwork) TerminalPosition(u Index) (int, bool) {
	p, ok := g.terminalPosition[u]
	return p, ok
}

func (g *FlowNetwork) IsTerminal(u Index) bool {
	_, ok := g.terminalPosition[u]
	return ok
}

// NumberOfVertices is the number of live vertices.
func (g *FlowNetwork) NumberOfVertices() int {
	return g.numberOfVertices
}

// NumberOfVertexSlots is the size of per-vertex arrays indexed by Index, tombstones included.
func (g *FlowNetwork) NumberOfVertexSlots() int {
	return len(g.vertices)
}

func (g *FlowNetwork) NumberOfEdgeSlots() int {
	return len(g.edges)
}

func (g *FlowNetwork) NumberOfEdges() int {
	n := 0
	for i := range g.edges {
		if !g.edges[i].removed {
			n++
		}
	}
	return n
}

func (g *FlowNetwork) NumberOfOriginals() int {
	return len(g.originals)
}

func (g *FlowNetwork) GetOriginal(o Index) OriginalEdge {
	return g.originals[o]
}

// NextVertexID returns an id larger than any id ever used in this network.
func (g *FlowNetwork) NextVertexID() int {
	return g.maxID + 1
}

func (g *FlowNetwork) HasVertex(id int) bool {
	_, ok := g.idToIndex[id]
	return ok
}

func (g *FlowNetwork) VertexIndex(id int) (Index, bool) {
	u, ok := g.idToIndex[id]
	return u, ok
}

func (g *FlowNetwork) VertexID(u Index) int {
	return g.vertices[u].id
}

func (g *FlowNetwork) GetVertex(u Index) *FlowVertex {
	return &g.vertices[u]
}

func (g *FlowNetwork) IsLive(u Index) bool {
	return int(u) < len(g.vertices) && !g.vertices[u].removed
}

func (g *FlowNetwork) GetEdge(e Index) *FlowEdge {
	return &g.edges[e]
}

// ForEachVertex visits live vertices in handle order.
func (g *FlowNetwork) ForEachVertex(handle func(u Index, v *FlowVertex)) {
	for i := range g.vertices {
		if g.vertices[i].removed {
			continue
		}
		handle(Index(i), &g.vertices[i])
	}
}

// ForEachEdge visits live arcs in handle order.
func (g *FlowNetwork) ForEachEdge(handle func(e *FlowEdge)) {
	for i := range g.edges {
		if g.edges[i].removed {
			continue
		}
		handle(&g.edges[i])
	}
}

func (g *FlowNetwork) ForOutEdges(u Index, handle func(e *FlowEdge)) {
	for _, e := range g.vertices[u].out {
		handle(&g.edges[e])
	}
}

func (g *FlowNetwork) ForInEdges(u Index, handle func(e *FlowEdge)) {
	for _, e := range g.vertices[u].in {
		handle(&g.edges[e])
	}
}

func (g *FlowNetwork) GetOutDegree(u Index) int {
	return len(g.vertices[u].out)
}

func (g *FlowNetwork) GetInDegree(u Index) int {
	return len(g.vertices[u].in)
}

// ResetFlow zeroes the flow of every arc.
func (g *FlowNetwork) ResetFlow() {
	for i := range g.edges {
		g.edges[i].flow = 0
	}
}

// Clone returns a deep copy. Handles stay valid in the copy.
func (g *FlowNetwork) Clone() *FlowNetwork {
	c := &FlowNetwork{
		vertices:         make([]FlowVertex, len(g.vertices)),
		edges:            make([]FlowEdge, len(g.edges)),
		originals:        make([]OriginalEdge, len(g.originals)),
		idToIndex:        make(map[int]Index, len(g.idToIndex)),
		terminals:        append([]int(nil), g.terminals...),
		terminalIndices:  append([]Index(nil), g.terminalIndices...),
		terminalPosition: make(map[Index]int, len(g.terminalPosition)),
		k:                g.k,
		numberOfVertices: g.numberOfVertices,
		maxID:            g.maxID,
	}
	for i, v := range g.vertices {
		c.vertices[i] = FlowVertex{
			id:      v.id,
			out:     append(make([]Index, 0, len(v.out)), v.out...),
			in:      append(make([]Index, 0, len(v.in)), v.in...),
			removed: v.removed,
		}
	}
	copy(c.edges, g.edges)
	copy(c.originals, g.originals)
	for id, u := range g.idToIndex {
		c.idToIndex[id] = u
	}
	for u, p := range g.terminalPosition {
		c.terminalPosition[u] = p
	}
	return c
}

// CutCost sums the capacity of every distinct original edge whose arcs join different partitions.
// partition is indexed by vertex handle.
func (g *FlowNetwork) CutCost(partition []int) int64 {
	counted := make([]bool, len(g.originals))
	cost := int64(0)
	for i := range g.edges {
		e := &g.edges[i]
		if e.removed || counted[e.original] {
			continue
		}
		if partition[e.from] != partition[e.to] {
			counted[e.original] = true
			cost += g.originals[e.original].capacity
		}
	}
	return cost
}

// CutOriginals returns the distinct original edges whose arcs join different partitions.
func (g *FlowNetwork) CutOriginals(partition []int) []Index {
	counted := make([]bool, len(g.originals))
	cut := make([]Index, 0)
	for i := range g.edges {
		e := &g.edges[i]
		if e.removed || counted[e.original] {
			continue
		}
		if partition[e.from] != partition[e.to] {
			counted[e.original] = true
			cut = append(cut, e.original)
		}
	}
	return cut
}

// OriginalsWeight sums the capacities of the given original edges, each counted once.
func (g *FlowNetwork) OriginalsWeight(originals []Index) int64 {
	seen := make(map[Index]struct{}, len(originals))
	w := int64(0)
	for _, o := range originals {
		if _, ok := seen[o]; ok {
			continue
		}
		seen[o] = struct{}{}
		w += g.originals[o].capacity
	}
	return w
}
