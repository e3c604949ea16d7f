package rounding

import (
	"fmt"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

/*
RoundCalinescu assigns every terminal to its own partition and every other vertex to the partition of the
last terminal in perm. Then, for j = 0..k-2, each vertex that still holds that default assignment moves to
partition perm[j] when its coordinate for perm[j] is at least radii[j].
*/
func RoundCalinescu(net *da.FlowNetwork, vectors da.LabelVectors, perm []int, radii []float64) []int {
	k := len(perm)
	partition := newPartition(net)
	moved := make([]bool, net.NumberOfVertexSlots())

	last := perm[k-1]
	net.ForEachVertex(func(u da.Index, _ *da.FlowVertex) {
		if t, ok := net.TerminalPosition(u); ok {
			partition[u] = t
			moved[u] = true
			return
		}
		partition[u] = last
	})

	for j := 0; j < k-1; j++ {
		t, r := perm[j], radii[j]
		net.ForEachVertex(func(u da.Index, _ *da.FlowVertex) {
			if moved[u] || vectors[u][t] < r {
				return
			}
			partition[u] = t
			moved[u] = true
		})
	}
	return partition
}

// PermutationSampler picks the order in which terminals claim vertices.
type PermutationSampler func(rng *rand.Rand, k int) []int

// RadiiSampler draws one radius per position of the visiting order.
type RadiiSampler func(rng *rand.Rand, k int) []float64

func UniformPermutation(rng *rand.Rand, k int) []int {
	return rng.Perm(k)
}

// BinomialPermutation returns 0..k-1 or its reverse, each with probability 1/2.
func BinomialPermutation(rng *rand.Rand, k int) []int {
	perm := make([]int, k)
	for i := range perm {
		perm[i] = i
	}
	if rng.Float64() < 0.5 {
		slices.Reverse(perm)
	}
	return perm
}

// SingleRadius shares one Uniform(0,1) radius between all terminals.
func SingleRadius(rng *rand.Rand, k int) []float64 {
	return repeat(rng.Float64(), k)
}

// SingleDensityRadius shares one radius drawn from density by rejection sampling.
func SingleDensityRadius(density *PiecewisePolynomial) RadiiSampler {
	return func(rng *rand.Rand, k int) []float64 {
		return repeat(density.RejectionSample(rng), k)
	}
}

// DescendingRadii draws k Uniform(0,b) radii and sorts them in descending order.
func DescendingRadii(b float64) RadiiSampler {
	return func(rng *rand.Rand, k int) []float64 {
		radii := uniformRadii(rng, k, b)
		slices.SortFunc(radii, func(a, c float64) int {
			switch {
			case a > c:
				return -1
			case a < c:
				return 1
			}
			return 0
		})
		return radii
	}
}

// IndependentRadii draws k Uniform(0,b) radii used in the order drawn.
func IndependentRadii(b float64) RadiiSampler {
	return func(rng *rand.Rand, k int) []float64 {
		return uniformRadii(rng, k, b)
	}
}

func uniformRadii(rng *rand.Rand, k int, b float64) []float64 {
	radii := make([]float64, k)
	for i := range radii {
		radii[i] = b * rng.Float64()
	}
	return radii
}

func repeat(r float64, k int) []float64 {
	radii := make([]float64, k)
	for i := range radii {
		radii[i] = r
	}
	return radii
}

// ThresholdRounding is RoundCalinescu driven by a random visiting order and random radii.
type ThresholdRounding struct {
	name  string
	perm  PermutationSampler
	radii RadiiSampler
}

func NewThresholdRounding(name string, perm PermutationSampler, radii RadiiSampler) *ThresholdRounding {
	return &ThresholdRounding{name: name, perm: perm, radii: radii}
}

func (tr *ThresholdRounding) Name() string {
	return tr.name
}

func (tr *ThresholdRounding) Round(net *da.FlowNetwork, vectors da.LabelVectors, rng *rand.Rand) (da.CutResult, error) {
	k := net.GetK()
	if k == 0 {
		return nil, fmt.Errorf("%w: network has no terminals", ErrVectorsMismatch)
	}
	perm := tr.perm(rng, k)
	radii := tr.radii(rng, k)
	partition := RoundCalinescu(net, vectors, perm, radii)

	return &da.ThresholdCutResult{
		Strategy:    tr.name,
		Cost:        Cost(net, partition),
		Partition:   partition,
		Permutation: perm,
		Radii:       radii,
	}, nil
}
