package datastructure

import "github.com/ablochha/multiwaycut/pkg"

// ArcFilter reports whether a search may cross arc e. forward is true when moving tail to head and false
// when walking the arc backwards (head to tail, the residual direction).
type ArcFilter func(e *FlowEdge, forward bool) bool

// ResidualFilter permits arcs with positive residual capacity in the direction of travel.
func ResidualFilter(e *FlowEdge, forward bool) bool {
	if forward {
		return e.Residual() > 0
	}
	return e.flow > 0
}

// UndirectedFilter ignores flow and direction; every live arc can be crossed both ways.
func UndirectedFilter(e *FlowEdge, forward bool) bool {
	return true
}

// ExcludeOriginals is UndirectedFilter minus the arcs of the given original edges.
func (g *FlowNetwork) ExcludeOriginals(originals []Index) ArcFilter {
	excluded := make([]bool, len(g.originals))
	for _, o := range originals {
		excluded[o] = true
	}
	return func(e *FlowEdge, forward bool) bool {
		return int(e.original) >= len(excluded) || !excluded[e.original]
	}
}

// Reachable runs a breadth first search from sources and returns visited flags indexed by handle.
func (g *FlowNetwork) Reachable(sources []Index, canTraverse ArcFilter) []bool {
	visited := make([]bool, len(g.vertices))
	queue := make([]Index, 0, len(sources))
	for _, s := range sources {
		if !visited[s] {
			visited[s] = true
			queue = append(queue, s)
		}
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		for _, eid := range g.vertices[u].out {
			e := &g.edges[eid]
			if !visited[e.to] && canTraverse(e, true) {
				visited[e.to] = true
				queue = append(queue, e.to)
			}
		}
		for _, eid := range g.vertices[u].in {
			e := &g.edges[eid]
			if !visited[e.from] && canTraverse(e, false) {
				visited[e.from] = true
				queue = append(queue, e.from)
			}
		}
	}
	return visited
}

// PropagateLabels spreads labels breadth first from every labelled vertex into unlabelled ones
// (pkg.INVALID_LABEL). A vertex takes the label of the neighbor that reached it first; seeds are
// expanded in handle order. labels is updated in place and also returned, along with hop distances
// from the nearest seed (-1 when unreached).
func (g *FlowNetwork) PropagateLabels(labels []int, canTraverse ArcFilter) ([]int, []int) {
	seeds := make([]Index, 0)
	for i := range g.vertices {
		if !g.vertices[i].removed && labels[i] != pkg.INVALID_LABEL {
			seeds = append(seeds, Index(i))
		}
	}
	return g.PropagateLabelsFrom(seeds, labels, canTraverse)
}

// PropagateLabelsFrom is PropagateLabels with an explicit seed order, which decides ties between seeds
// at equal distance.
func (g *FlowNetwork) PropagateLabelsFrom(seeds []Index, labels []int, canTraverse ArcFilter) ([]int, []int) {
	dist := make([]int, len(g.vertices))
	for i := range dist {
		dist[i] = -1
	}
	queue := make([]Index, 0, len(g.vertices))
	for _, s := range seeds {
		if g.vertices[s].removed || labels[s] == pkg.INVALID_LABEL || dist[s] == 0 {
			continue
		}
		dist[s] = 0
		queue = append(queue, s)
	}

	visit := func(from, to Index) {
		if dist[to] >= 0 || labels[to] != pkg.INVALID_LABEL {
			return
		}
		labels[to] = labels[from]
		dist[to] = dist[from] + 1
		queue = append(queue, to)
	}

	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]
		for _, eid := range g.vertices[u].out {
			e := &g.edges[eid]
			if canTraverse(e, true) {
				visit(u, e.to)
			}
		}
		for _, eid := range g.vertices[u].in {
			e := &g.edges[eid]
			if canTraverse(e, false) {
				visit(u, e.from)
			}
		}
	}
	return labels, dist
}
