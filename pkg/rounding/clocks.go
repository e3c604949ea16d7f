package rounding

import (
	"math"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"golang.org/x/exp/rand"
)

const EXPONENTIAL_CLOCKS = "exponential-clocks"

// ExponentialClocks draws one Exp(1) clock Z_i per partition and sends every vertex to the partition
// minimising Z_i / x_i. Ties go to the lower partition index.
type ExponentialClocks struct{}

func NewExponentialClocks() *ExponentialClocks {
	return &ExponentialClocks{}
}

func (ExponentialClocks) Name() string {
	return EXPONENTIAL_CLOCKS
}

func (c ExponentialClocks) Round(net *da.FlowNetwork, vectors da.LabelVectors, rng *rand.Rand) (da.CutResult, error) {
	k := net.GetK()
	clocks := make([]float64, k)
	for i := range clocks {
		clocks[i] = rng.ExpFloat64()
	}

	partition := newPartition(net)
	net.ForEachVertex(func(u da.Index, _ *da.FlowVertex) {
		if t, ok := net.TerminalPosition(u); ok {
			partition[u] = t
			return
		}
		best, bestTime := 0, math.Inf(1)
		for i, x := range vectors[u] {
			if x <= 0 {
				continue
			}
			if at := clocks[i] / x; at < bestTime {
				best, bestTime = i, at
			}
		}
		partition[u] = best
	})

	return &da.ThresholdCutResult{
		Strategy:  c.Name(),
		Cost:      Cost(net, partition),
		Partition: partition,
		Clocks:    clocks,
	}, nil
}
