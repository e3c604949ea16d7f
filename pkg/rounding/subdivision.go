package rounding

import (
	"fmt"

	"github.com/ablochha/multiwaycut/pkg"
	da "github.com/ablochha/multiwaycut/pkg/datastructure"
)

/*
Subdivide returns a copy of net in which every arc joins two vertices whose label vectors differ on at most
two coordinates, together with the extended label vectors and the number of inserted vertices.

An offending arc (x, y) is split at z = x + α(e_i − e_j), where d = y − x, i = argmax d, j = argmin d and
α = min(d_i, −d_j). The piece (x, z) differs on i and j only and (z, y) is checked again. Pieces keep the
capacity and the original edge of the arc they replace, so the cut cost of the copy is unchanged.
Vectors of the vertices already present are never touched.
*/
func Subdivide(net *da.FlowNetwork, vectors da.LabelVectors) (*da.FlowNetwork, da.LabelVectors, int, error) {
	if len(vectors) < net.NumberOfVertexSlots() {
		return nil, nil, 0, fmt.Errorf("%w: %d vectors for %d vertex slots", ErrVectorsMismatch, len(vectors), net.NumberOfVertexSlots())
	}
	sub := net.Clone()
	out := make(da.LabelVectors, len(vectors), len(vectors)+net.NumberOfEdges())
	copy(out, vectors)

	stack := make([]da.Index, 0, net.NumberOfEdges())
	sub.ForEachEdge(func(e *da.FlowEdge) {
		if e.HasTwin() && e.GetTwin() < e.GetID() {
			return
		}
		stack = append(stack, e.GetID())
	})

	inserted := 0
	for len(stack) > 0 {
		eid := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		e := sub.GetEdge(eid)
		from, to := e.GetFrom(), e.GetTo()
		x, y := out[from], out[to]
		if len(da.DifferingCoordinates(x, y)) <= 2 {
			continue
		}

		z := splitPoint(x, y)
		capacity, original, undirected := e.GetCapacity(), e.GetOriginal(), e.HasTwin()

		zi, err := sub.AddVertex(sub.NextVertexID())
		if err != nil {
			return nil, nil, 0, err
		}
		for int(zi) >= len(out) {
			out = append(out, nil)
		}
		out[zi] = z
		inserted++

		if err := sub.RemoveEdge(eid); err != nil {
			return nil, nil, 0, err
		}
		sub.AddPiece(from, zi, capacity, original, undirected)
		stack = append(stack, sub.AddPiece(zi, to, capacity, original, undirected))
	}
	return sub, out, inserted, nil
}

func splitPoint(x, y da.Simplex) da.Simplex {
	i, j := 0, 0
	for c := range x {
		d := y[c] - x[c]
		if d > y[i]-x[i] {
			i = c
		}
		if d < y[j]-x[j] {
			j = c
		}
	}
	alpha := y[i] - x[i]
	if -(y[j] - x[j]) < alpha {
		alpha = -(y[j] - x[j])
	}

	z := x.Clone()
	z[i] += alpha
	z[j] -= alpha
	for c := range z {
		if z[c]-y[c] < pkg.EPSILON && y[c]-z[c] < pkg.EPSILON {
			z[c] = y[c]
		}
		if z[c] < 0 {
			z[c] = 0
		}
	}
	return z
}

// IsSubdivided reports whether every live arc of net joins vectors differing on at most two coordinates.
func IsSubdivided(net *da.FlowNetwork, vectors da.LabelVectors) bool {
	ok := true
	net.ForEachEdge(func(e *da.FlowEdge) {
		if ok && len(da.DifferingCoordinates(vectors[e.GetFrom()], vectors[e.GetTo()])) > 2 {
			ok = false
		}
	})
	return ok
}
