package rounding

import (
	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/lp"
)

// NewFractionalVectors maps a solver solution, keyed by vertex id, onto the handles of net.
func NewFractionalVectors(net *da.FlowNetwork, solution *lp.FractionalSolution) (da.LabelVectors, error) {
	if err := solution.Check(net); err != nil {
		return nil, err
	}
	return da.NewLabelVectors(net, solution.Vectors)
}
