package localsearch

import (
	"fmt"

	"github.com/ablochha/multiwaycut/pkg"
	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/mincut"
	"go.uber.org/zap"
)

const STRATEGY = "local-search"

type Result struct {
	Labels      []int
	Cost        int64
	InitialCost int64
	PassCosts   []int64 // best cost at the end of each pass
	Moves       int     // accepted expansions
}

// LocalSearch improves a labelling with expansion moves: for a label i, every vertex may switch to i at
// once, and the cheapest such switch is found with one min cut.
type LocalSearch struct {
	net    *da.FlowNetwork
	logger *zap.Logger
}

func NewLocalSearch(net *da.FlowNetwork, logger *zap.Logger) *LocalSearch {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalSearch{net: net, logger: logger}
}

/*
Run repeats passes over the labels 0..k-1. An expansion is kept only if it makes the cut strictly cheaper.
The search stops after a pass without improvement, so the result cannot be improved by any single
expansion. Terminals always keep their own label.
*/
func (ls *LocalSearch) Run(initial []int) (*Result, error) {
	if err := validateLabelling(ls.net, initial); err != nil {
		return nil, err
	}
	labels := append([]int(nil), initial[:ls.net.NumberOfVertexSlots()]...)
	best := ls.net.CutCost(labels)
	res := &Result{InitialCost: best, PassCosts: make([]int64, 0)}

	for pass := 1; ; pass++ {
		improved := false
		for i := 0; i < ls.net.GetK(); i++ {
			candidate, err := ls.expand(labels, i)
			if err != nil {
				return nil, err
			}
			if cost := ls.net.CutCost(candidate); cost < best {
				labels, best = candidate, cost
				improved = true
				res.Moves++
			}
		}
		res.PassCosts = append(res.PassCosts, best)
		ls.logger.Sugar().Debugf("local search pass %d: cost %d", pass, best)
		if !improved {
			break
		}
	}

	res.Labels = labels
	res.Cost = best
	return res, nil
}

/*
expand finds the cheapest labelling reachable from labels by moving any set of vertices to label i. The
auxiliary network has a source s (side of the vertices taking label i) and a sink t:
  - s->p with INF_CAPACITY when p already holds i, p->t with INF_CAPACITY for the other terminals
  - an edge whose endpoints share a label other than i keeps its capacity w in both directions
  - an edge whose endpoints disagree gets a vertex a with s->a = w, a->p = w and a->q = w, where the arc
    toward an endpoint already holding i has capacity 0
  - edges inside label i are dropped
The min cut value equals the cost of the new labelling.
*/
func (ls *LocalSearch) expand(labels []int, i int) ([]int, error) {
	net := ls.net
	n := net.NumberOfVertexSlots()
	aux := da.NewEmptyFlowNetwork()
	sourceID, sinkID := n, n+1

	var err error
	add := func(id int) {
		if err == nil {
			_, err = aux.AddVertex(id)
		}
	}
	arc := func(u, v int, capacity int64) {
		if err == nil {
			_, err = aux.AddDirectedEdge(u, v, capacity)
		}
	}

	net.ForEachVertex(func(u da.Index, _ *da.FlowVertex) {
		add(int(u))
	})
	add(sourceID)
	add(sinkID)
	net.ForEachVertex(func(u da.Index, _ *da.FlowVertex) {
		if labels[u] == i {
			arc(sourceID, int(u), pkg.INF_CAPACITY)
		} else if net.IsTerminal(u) {
			arc(int(u), sinkID, pkg.INF_CAPACITY)
		}
	})

	next := n + 2
	net.ForEachEdge(func(e *da.FlowEdge) {
		if err != nil || (e.HasTwin() && e.GetTwin() < e.GetID()) {
			return
		}
		p, q, w := e.GetFrom(), e.GetTo(), e.GetCapacity()
		lp, lq := labels[p], labels[q]
		switch {
		case w == 0 || (lp == i && lq == i):
		case lp == lq:
			if err == nil {
				_, err = aux.AddEdge(int(p), int(q), w)
			}
		default:
			a := next
			next++
			add(a)
			arc(sourceID, a, w)
			arc(a, int(p), capFor(lp, i, w))
			arc(a, int(q), capFor(lq, i, w))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("building expansion network for label %d: %w", i, err)
	}

	s, _ := aux.VertexIndex(sourceID)
	t, _ := aux.VertexIndex(sinkID)
	mc, err := mincut.NewPushRelabel(aux).ComputeMaxflowMinCut(s, t)
	if err != nil {
		return nil, err
	}

	candidate := append([]int(nil), labels...)
	net.ForEachVertex(func(u da.Index, _ *da.FlowVertex) {
		au, _ := aux.VertexIndex(int(u))
		if mc.GetFlag(au) {
			candidate[u] = i
		}
	})
	return candidate, nil
}

func capFor(label, i int, w int64) int64 {
	if label == i {
		return 0
	}
	return w
}

// Solve runs the search from the labelling produced by init.
func Solve(net *da.FlowNetwork, init Initializer, logger *zap.Logger) (*da.FlowCutResult, *Result, error) {
	initial, err := init.Initialize(net)
	if err != nil {
		return nil, nil, fmt.Errorf("initializer %s: %w", init.Name(), err)
	}
	res, err := NewLocalSearch(net, logger).Run(initial)
	if err != nil {
		return nil, nil, err
	}
	return &da.FlowCutResult{
		Strategy:  STRATEGY,
		Cost:      res.Cost,
		Partition: res.Labels,
		Discarded: -1,
		PassCosts: res.PassCosts,
	}, res, nil
}
