package isolation

import (
	"errors"
	"fmt"

	"github.com/ablochha/multiwaycut/pkg"
	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/mincut"
	"github.com/ablochha/multiwaycut/pkg/util"
)

const STRATEGY = "isolation"

var ErrNoTerminals = errors.New("isolation: network has no terminals")

// Result holds the k isolating cuts and the multiway cut built from them.
type Result struct {
	Cuts      [][]da.Index // original edges of the cut isolating terminal i
	Weights   []int64      // min cut value for terminal i
	Discarded int          // terminal position of the heaviest cut, left out of the union
	Union     []da.Index   // distinct original edges of the multiway cut
	Cost      int64
}

/*
Run computes the isolation heuristic on a copy of net: a super sink joined to every terminal by an arc of
capacity INF_CAPACITY, then for each terminal i a min cut from i to the super sink with the arc of i
switched off. The heaviest of the k cuts is dropped (the first one on ties) and the rest are united.

time complexity: k max flow computations on |V|+1 vertices
*/
func Run(net *da.FlowNetwork) (*Result, error) {
	k := net.GetK()
	if k == 0 {
		return nil, ErrNoTerminals
	}

	work := net.Clone()
	sinkID := work.NextVertexID()
	sink, err := work.AddVertex(sinkID)
	if err != nil {
		return nil, err
	}
	toSink := make([]da.Index, k)
	for i, t := range work.GetTerminals() {
		toSink[i], err = work.AddDirectedEdge(t, sinkID, pkg.INF_CAPACITY)
		if err != nil {
			return nil, err
		}
	}

	numOriginals := net.NumberOfOriginals()
	res := &Result{
		Cuts:    make([][]da.Index, k),
		Weights: make([]int64, k),
	}
	pr := mincut.NewPushRelabel(work)
	for i, term := range work.GetTerminalIndices() {
		if err := work.SetCapacity(toSink[i], 0); err != nil {
			return nil, err
		}
		if i > 0 {
			if err := work.SetCapacity(toSink[i-1], pkg.INF_CAPACITY); err != nil {
				return nil, err
			}
		}

		mc, err := pr.ComputeMaxflowMinCut(term, sink)
		if err != nil {
			return nil, fmt.Errorf("isolating terminal %d: %w", work.VertexID(term), err)
		}
		res.Weights[i] = mc.GetMinCut()
		res.Cuts[i] = make([]da.Index, 0, len(mc.GetEdges()))
		for _, o := range mc.GetOriginals(work) {
			if int(o) < numOriginals {
				res.Cuts[i] = append(res.Cuts[i], o)
			}
		}
	}

	res.Discarded = util.ArgMax(res.Weights)
	seen := make(map[da.Index]struct{})
	res.Union = make([]da.Index, 0)
	for i, cut := range res.Cuts {
		if i == res.Discarded {
			continue
		}
		for _, o := range cut {
			if _, ok := seen[o]; ok {
				continue
			}
			seen[o] = struct{}{}
			res.Union = append(res.Union, o)
		}
	}
	res.Cost = net.OriginalsWeight(res.Union)

	if err := work.RemoveVertex(sinkID); err != nil {
		return nil, err
	}
	return res, nil
}

/*
Labelling derives a partition from the multiway cut: with the union edges removed, every vertex reachable
from terminal i gets label i. The remaining vertices form islands, components of the graph minus the union
that hold no terminal. Each island is labelled as a whole with the label of the first labelled vertex found
across one of its union edges, so only union edges can cross and the labelling never costs more than
res.Cost. An island with no labelled neighbour takes label 0.
*/
func Labelling(net *da.FlowNetwork, res *Result) []int {
	labels := make([]int, net.NumberOfVertexSlots())
	for i := range labels {
		labels[i] = pkg.INVALID_LABEL
	}
	for i, t := range net.GetTerminalIndices() {
		labels[t] = i
	}
	terminals := net.GetTerminalIndices()
	keep := net.ExcludeOriginals(res.Union)
	labels, _ = net.PropagateLabelsFrom(terminals, labels, keep)

	net.ForEachVertex(func(u da.Index, _ *da.FlowVertex) {
		if labels[u] != pkg.INVALID_LABEL {
			return
		}
		island := collectIsland(net, u, labels, keep)
		label := islandLabel(net, island, labels)
		for _, v := range island {
			labels[v] = label
		}
	})
	return labels
}

// collectIsland returns the unlabelled component of start in the graph minus the union, in BFS order.
// Members are marked with a placeholder label so the search terminates.
func collectIsland(net *da.FlowNetwork, start da.Index, labels []int, keep da.ArcFilter) []da.Index {
	const pending = pkg.INVALID_LABEL - 1
	island := []da.Index{start}
	labels[start] = pending
	visit := func(v da.Index) {
		if labels[v] == pkg.INVALID_LABEL {
			labels[v] = pending
			island = append(island, v)
		}
	}
	for head := 0; head < len(island); head++ {
		u := island[head]
		net.ForOutEdges(u, func(e *da.FlowEdge) {
			if keep(e, true) {
				visit(e.GetTo())
			}
		})
		net.ForInEdges(u, func(e *da.FlowEdge) {
			if keep(e, false) {
				visit(e.GetFrom())
			}
		})
	}
	return island
}

// islandLabel scans the island in BFS order for the first neighbour that already carries a label.
func islandLabel(net *da.FlowNetwork, island []da.Index, labels []int) int {
	label := pkg.INVALID_LABEL
	take := func(v da.Index) {
		if label == pkg.INVALID_LABEL && labels[v] >= 0 {
			label = labels[v]
		}
	}
	for _, u := range island {
		net.ForOutEdges(u, func(e *da.FlowEdge) { take(e.GetTo()) })
		net.ForInEdges(u, func(e *da.FlowEdge) { take(e.GetFrom()) })
		if label != pkg.INVALID_LABEL {
			return label
		}
	}
	return 0
}

// Solve runs the heuristic and packages the cost and labelling as a FlowCutResult.
func Solve(net *da.FlowNetwork) (*da.FlowCutResult, *Result, error) {
	res, err := Run(net)
	if err != nil {
		return nil, nil, err
	}
	return &da.FlowCutResult{
		Strategy:   STRATEGY,
		Cost:       res.Cost,
		Partition:  Labelling(net, res),
		CutWeights: res.Weights,
		Discarded:  res.Discarded,
	}, res, nil
}
