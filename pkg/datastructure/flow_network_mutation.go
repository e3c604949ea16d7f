package datastructure

import "fmt"

func (g *FlowNetwork) addVertex(id int) Index {
	u := Index(len(g.vertices))
	g.vertices = append(g.vertices, NewFlowVertex(id))
	g.idToIndex[id] = u
	g.numberOfVertices++
	if id > g.maxID {
		g.maxID = id
	}
	return u
}

func (g *FlowNetwork) newOriginal(u, v int, capacity int64) Index {
	o := Index(len(g.originals))
	g.originals = append(g.originals, OriginalEdge{u: u, v: v, capacity: capacity})
	return o
}

func (g *FlowNetwork) addArc(from, to Index, capacity int64, original, twin Index) Index {
	e := Index(len(g.edges))
	g.edges = append(g.edges, NewFlowEdge(e, from, to, capacity, original, twin))
	g.vertices[from].out = append(g.vertices[from].out, e)
	g.vertices[to].in = append(g.vertices[to].in, e)
	return e
}

func (g *FlowNetwork) addUndirected(u, v Index, capacity int64, original Index) Index {
	forward := g.addArc(u, v, capacity, original, INVALID_INDEX)
	backward := g.addArc(v, u, capacity, original, forward)
	g.edges[forward].twin = backward
	return forward
}

func (g *FlowNetwork) detachArc(e Index) {
	arc := &g.edges[e]
	if arc.removed {
		return
	}
	arc.removed = true
	arc.flow = 0
	g.vertices[arc.from].out = removeIndex(g.vertices[arc.from].out, e)
	g.vertices[arc.to].in = removeIndex(g.vertices[arc.to].in, e)
}

// AddVertex adds an isolated vertex with the caller assigned id.
func (g *FlowNetwork) AddVertex(id int) (Index, error) {
	if id < 0 {
		return INVALID_INDEX, fmt.Errorf("%w: %d", ErrNegativeVertexID, id)
	}
	if _, ok := g.idToIndex[id]; ok {
		return INVALID_INDEX, fmt.Errorf("%w: %d", ErrDuplicateVertex, id)
	}
	return g.addVertex(id), nil
}

// RemoveVertex removes a non-terminal vertex together with every incident arc.
func (g *FlowNetwork) RemoveVertex(id int) error {
	u, ok := g.idToIndex[id]
	if !ok {
		return fmt.Errorf("%w: %d", ErrVertexNotFound, id)
	}
	if g.IsTerminal(u) {
		return fmt.Errorf("%w: %d", ErrRemoveTerminal, id)
	}
	incident := make([]Index, 0, len(g.vertices[u].out)+len(g.vertices[u].in))
	incident = append(incident, g.vertices[u].out...)
	incident = append(incident, g.vertices[u].in...)
	for _, e := range incident {
		g.detachArc(e)
	}
	g.vertices[u].removed = true
	delete(g.idToIndex, id)
	g.numberOfVertices--
	return nil
}

func (g *FlowNetwork) checkEndpoints(u, v int, capacity int64) (Index, Index, error) {
	if u == v {
		return INVALID_INDEX, INVALID_INDEX, fmt.Errorf("%w: vertex %d", ErrSelfLoop, u)
	}
	if capacity < 0 {
		return INVALID_INDEX, INVALID_INDEX, fmt.Errorf("%w: (%d,%d) capacity %d", ErrNegativeCapacity, u, v, capacity)
	}
	ui, ok := g.idToIndex[u]
	if !ok {
		return INVALID_INDEX, INVALID_INDEX, fmt.Errorf("%w: %d", ErrVertexNotFound, u)
	}
	vi, ok := g.idToIndex[v]
	if !ok {
		return INVALID_INDEX, INVALID_INDEX, fmt.Errorf("%w: %d", ErrVertexNotFound, v)
	}
	return ui, vi, nil
}

// AddEdge adds an undirected edge between two existing vertices as a pair of twin arcs sharing one
// original edge. The forward arc (u to v) is returned.
func (g *FlowNetwork) AddEdge(u, v int, capacity int64) (Index, error) {
	ui, vi, err := g.checkEndpoints(u, v, capacity)
	if err != nil {
		return INVALID_INDEX, err
	}
	return g.addUndirected(ui, vi, capacity, g.newOriginal(u, v, capacity)), nil
}

// AddDirectedEdge adds a single arc u to v with its own original edge.
func (g *FlowNetwork) AddDirectedEdge(u, v int, capacity int64) (Index, error) {
	ui, vi, err := g.checkEndpoints(u, v, capacity)
	if err != nil {
		return INVALID_INDEX, err
	}
	return g.addArc(ui, vi, capacity, g.newOriginal(u, v, capacity), INVALID_INDEX), nil
}

// AddPiece adds an arc (and its twin when undirected is set) between two handles that stands in for an
// existing original edge. Used by subdivision.
func (g *FlowNetwork) AddPiece(from, to Index, capacity int64, original Index, undirected bool) Index {
	if undirected {
		return g.addUndirected(from, to, capacity, original)
	}
	return g.addArc(from, to, capacity, original, INVALID_INDEX)
}

// RemoveEdge removes an arc and its twin.
func (g *FlowNetwork) RemoveEdge(e Index) error {
	if int(e) >= len(g.edges) || g.edges[e].removed {
		return fmt.Errorf("%w: %d", ErrEdgeNotFound, e)
	}
	twin := g.edges[e].twin
	g.detachArc(e)
	if twin != INVALID_INDEX {
		g.detachArc(twin)
	}
	return nil
}

// SetCapacity changes the capacity of an arc and its twin. The original edge follows when the arc is
// its only piece.
func (g *FlowNetwork) SetCapacity(e Index, capacity int64) error {
	if int(e) >= len(g.edges) || g.edges[e].removed {
		return fmt.Errorf("%w: %d", ErrEdgeNotFound, e)
	}
	if capacity < 0 {
		return fmt.Errorf("%w: arc %d capacity %d", ErrNegativeCapacity, e, capacity)
	}
	arc := &g.edges[e]
	arc.capacity = capacity
	if arc.twin != INVALID_INDEX {
		g.edges[arc.twin].capacity = capacity
	}
	pieces := 0
	for i := range g.edges {
		if !g.edges[i].removed && g.edges[i].original == arc.original {
			pieces++
		}
	}
	if (arc.twin == INVALID_INDEX && pieces == 1) || (arc.twin != INVALID_INDEX && pieces == 2) {
		g.originals[arc.original].capacity = capacity
	}
	return nil
}

// FindEdge returns the live arc u to v, if any.
func (g *FlowNetwork) FindEdge(u, v Index) (Index, bool) {
	for _, e := range g.vertices[u].out {
		if g.edges[e].to == v {
			return e, true
		}
	}
	return INVALID_INDEX, false
}
