package rounding

import (
	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"golang.org/x/exp/rand"
)

// Scheme maps a fractional labelling of a subdivided network to an integral partition. Schemes never
// modify net or vectors; all randomness comes from rng.
type Scheme interface {
	Name() string
	Round(net *da.FlowNetwork, vectors da.LabelVectors, rng *rand.Rand) (da.CutResult, error)
}

func newPartition(net *da.FlowNetwork) []int {
	return make([]int, net.NumberOfVertexSlots())
}

// Cost sums the capacity of each original edge with a piece crossing the partition, counted once.
func Cost(net *da.FlowNetwork, partition []int) int64 {
	return net.CutCost(partition)
}

// Restrict keeps the labels of the first n vertex slots, the vertices present before subdivision.
func Restrict(partition []int, n int) []int {
	return append([]int(nil), partition[:n]...)
}
