package datastructure

import (
	"fmt"
	"math"

	"github.com/ablochha/multiwaycut/pkg"
	"github.com/ablochha/multiwaycut/pkg/util"
)

// Simplex is a point of the k-dimensional probability simplex: coordinate i is the fractional
// membership of a vertex in partition i.
type Simplex []float64

type LabelVectors []Simplex // indexed by vertex handle

func UnitSimplex(k, t int) Simplex {
	s := make(Simplex, k)
	s[t] = 1
	return s
}

func (s Simplex) Clone() Simplex {
	return append(Simplex(nil), s...)
}

func (s Simplex) Validate(k int) error {
	if len(s) != k {
		return fmt.Errorf("%w: %d coordinates, want %d", ErrInvalidSimplex, len(s), k)
	}
	for i, x := range s {
		if x < -pkg.EPSILON || math.IsNaN(x) {
			return fmt.Errorf("%w: coordinate %d is %g", ErrInvalidSimplex, i, x)
		}
	}
	sum := util.Sum([]float64(s)...)
	if util.Abs(sum-1) > 1e-6 {
		return fmt.Errorf("%w: coordinates sum to %g", ErrInvalidSimplex, sum)
	}
	return nil
}

func (s Simplex) IsUnit(t int) bool {
	for i, x := range s {
		if i == t && util.Abs(x-1) > pkg.EPSILON {
			return false
		}
		if i != t && util.Abs(x) > pkg.EPSILON {
			return false
		}
	}
	return true
}

// DifferingCoordinates returns the coordinates on which a and b differ by more than EPSILON.
func DifferingCoordinates(a, b Simplex) []int {
	diff := make([]int, 0, 2)
	for i := range a {
		if util.Abs(a[i]-b[i]) > pkg.EPSILON {
			diff = append(diff, i)
		}
	}
	return diff
}

// L1Distance is half the l1 distance between two simplex points, the fractional cost of an edge of
// unit capacity.
func L1Distance(a, b Simplex) float64 {
	d := 0.0
	for i := range a {
		d += util.Abs(a[i] - b[i])
	}
	return d / 2
}

// NewLabelVectors maps per-vertex-id simplex points onto network handles. Every live vertex needs a
// valid point and terminal i must sit on the unit vector e_i. Tiny negative coordinates are clamped.
func NewLabelVectors(g *FlowNetwork, byID map[int][]float64) (LabelVectors, error) {
	vectors := make(LabelVectors, g.NumberOfVertexSlots())
	var err error
	g.ForEachVertex(func(u Index, v *FlowVertex) {
		if err != nil {
			return
		}
		x, ok := byID[v.GetID()]
		if !ok {
			err = fmt.Errorf("%w: no label vector for vertex %d", ErrInvalidSimplex, v.GetID())
			return
		}
		s := Simplex(x).Clone()
		if verr := s.Validate(g.GetK()); verr != nil {
			err = fmt.Errorf("vertex %d: %w", v.GetID(), verr)
			return
		}
		for i := range s {
			if s[i] < 0 {
				s[i] = 0
			}
		}
		if t, isTerminal := g.TerminalPosition(u); isTerminal && !s.IsUnit(t) {
			err = fmt.Errorf("%w: terminal %d is not the unit vector e_%d", ErrInvalidSimplex, v.GetID(), t)
			return
		}
		vectors[u] = s
	})
	if err != nil {
		return nil, err
	}
	return vectors, nil
}

// FractionalCost is the value of the relaxation for the given label vectors: capacity times half the
// l1 distance between endpoint vectors, summed over every piece (each twin pair once).
func (g *FlowNetwork) FractionalCost(vectors LabelVectors) float64 {
	cost := 0.0
	for i := range g.edges {
		e := &g.edges[i]
		if e.removed || (e.twin != INVALID_INDEX && e.twin < e.id) {
			continue
		}
		cost += float64(e.capacity) * L1Distance(vectors[e.from], vectors[e.to])
	}
	return cost
}
