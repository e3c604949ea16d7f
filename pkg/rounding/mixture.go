package rounding

import (
	"fmt"
	"math"

	"github.com/ablochha/multiwaycut/pkg"
	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/util"
	"golang.org/x/exp/rand"
)

// Mixture runs one of its schemes per trial, scheme i with probability probabilities[i].
type Mixture struct {
	name          string
	probabilities []float64
	schemes       []Scheme
}

func NewMixture(name string, probabilities []float64, schemes ...Scheme) (*Mixture, error) {
	if len(probabilities) != len(schemes) || len(schemes) == 0 {
		return nil, fmt.Errorf("%w: %d probabilities for %d schemes", ErrInvalidMixture, len(probabilities), len(schemes))
	}
	for _, p := range probabilities {
		if p < 0 || math.IsNaN(p) {
			return nil, fmt.Errorf("%w: probability %g", ErrInvalidMixture, p)
		}
	}
	if sum := util.Sum(probabilities...); math.Abs(sum-1) > pkg.EPSILON {
		return nil, fmt.Errorf("%w: probabilities sum to %g", ErrInvalidMixture, sum)
	}
	return &Mixture{
		name:          name,
		probabilities: append([]float64(nil), probabilities...),
		schemes:       schemes,
	}, nil
}

// NewMixture3 mixes exponential clocks, a single threshold and descending thresholds.
func NewMixture3(probabilities []float64, single, descending Scheme) (*Mixture, error) {
	return NewMixture(MIXTURE_3, probabilities, NewExponentialClocks(), single, descending)
}

// NewMixture4 adds independent thresholds to the schemes of NewMixture3.
func NewMixture4(probabilities []float64, single, descending, independent Scheme) (*Mixture, error) {
	return NewMixture(MIXTURE_4, probabilities, NewExponentialClocks(), single, descending, independent)
}

func (m *Mixture) Name() string {
	return m.name
}

func (m *Mixture) choose(rng *rand.Rand) Scheme {
	u := rng.Float64()
	acc := 0.0
	for i, p := range m.probabilities {
		acc += p
		if u < acc {
			return m.schemes[i]
		}
	}
	// rounding slack: the cumulative sum may stop just short of 1
	for i := len(m.probabilities) - 1; i >= 0; i-- {
		if m.probabilities[i] > 0 {
			return m.schemes[i]
		}
	}
	return m.schemes[len(m.schemes)-1]
}

func (m *Mixture) Round(net *da.FlowNetwork, vectors da.LabelVectors, rng *rand.Rand) (da.CutResult, error) {
	scheme := m.choose(rng)
	inner, err := scheme.Round(net, vectors, rng)
	if err != nil {
		return nil, err
	}
	return &da.MixtureCutResult{
		Strategy: m.name,
		Chosen:   scheme.Name(),
		Inner:    inner,
	}, nil
}

// BestOf runs every scheme on its own copy of the network and keeps the cheapest partition. Ties go to the
// earlier scheme.
type BestOf struct {
	name    string
	schemes []Scheme
}

func NewBestOf(name string, schemes ...Scheme) *BestOf {
	return &BestOf{name: name, schemes: schemes}
}

func (b *BestOf) Name() string {
	return b.name
}

func (b *BestOf) Round(net *da.FlowNetwork, vectors da.LabelVectors, rng *rand.Rand) (da.CutResult, error) {
	var best da.CutResult
	costs := make(map[string]int64, len(b.schemes))
	for _, scheme := range b.schemes {
		res, err := scheme.Round(net.Clone(), vectors, rng)
		if err != nil {
			return nil, err
		}
		costs[scheme.Name()] = res.GetCost()
		if best == nil || res.GetCost() < best.GetCost() {
			best = res
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%w: %s has no schemes", ErrUnknownStrategy, b.name)
	}
	return &da.MixtureCutResult{
		Strategy: b.name,
		Chosen:   best.GetStrategy(),
		Costs:    costs,
		Inner:    best,
	}, nil
}
