package rounding

import (
	"fmt"

	"github.com/ablochha/multiwaycut/pkg"
	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"golang.org/x/exp/rand"
)

const (
	SINGLE_THRESHOLD              = "single-threshold"
	SINGLE_THRESHOLD_RISING       = "single-threshold-rising"
	SINGLE_THRESHOLD_PLATEAU      = "single-threshold-plateau"
	DESCENDING_THRESHOLD          = "descending-threshold"
	DESCENDING_THRESHOLD_BINOMIAL = "descending-threshold-binomial"
	INDEPENDENT_THRESHOLD         = "independent-threshold"
	MIXTURE_3                     = "mixture-3"
	MIXTURE_4                     = "mixture-4"
	BEST_OF_CLOCKS_DESCENDING     = "best-of-clocks-descending"
	BEST_OF_ALL                   = "best-of-all"
)

// Params tunes the rounding strategies.
type Params struct {
	ThresholdBound float64
	Mixture3       []float64
	Mixture4       []float64
}

func DefaultParams() Params {
	return Params{
		ThresholdBound: pkg.DEFAULT_THRESHOLD_BOUND,
		Mixture3:       pkg.DEFAULT_MIXTURE3,
		Mixture4:       pkg.DEFAULT_MIXTURE4,
	}
}

// StrategyNames lists every strategy NewScheme understands.
func StrategyNames() []string {
	return []string{
		EXPONENTIAL_CLOCKS,
		SINGLE_THRESHOLD,
		SINGLE_THRESHOLD_RISING,
		SINGLE_THRESHOLD_PLATEAU,
		DESCENDING_THRESHOLD,
		DESCENDING_THRESHOLD_BINOMIAL,
		INDEPENDENT_THRESHOLD,
		MIXTURE_3,
		MIXTURE_4,
		BEST_OF_CLOCKS_DESCENDING,
		BEST_OF_ALL,
	}
}

func IsStrategy(name string) bool {
	for _, s := range StrategyNames() {
		if s == name {
			return true
		}
	}
	return false
}

func NewScheme(name string, params Params) (Scheme, error) {
	b := params.ThresholdBound
	switch name {
	case EXPONENTIAL_CLOCKS:
		return NewExponentialClocks(), nil
	case SINGLE_THRESHOLD:
		return NewThresholdRounding(name, UniformPermutation, SingleRadius), nil
	case SINGLE_THRESHOLD_RISING:
		return NewThresholdRounding(name, UniformPermutation, SingleDensityRadius(RISING_DENSITY)), nil
	case SINGLE_THRESHOLD_PLATEAU:
		return NewThresholdRounding(name, UniformPermutation, SingleDensityRadius(PLATEAU_DENSITY)), nil
	case DESCENDING_THRESHOLD:
		return NewThresholdRounding(name, UniformPermutation, DescendingRadii(b)), nil
	case DESCENDING_THRESHOLD_BINOMIAL:
		return NewThresholdRounding(name, BinomialPermutation, DescendingRadii(b)), nil
	case INDEPENDENT_THRESHOLD:
		return NewThresholdRounding(name, UniformPermutation, IndependentRadii(b)), nil
	case MIXTURE_3:
		return NewMixture3(params.Mixture3,
			NewThresholdRounding(SINGLE_THRESHOLD_RISING, UniformPermutation, SingleDensityRadius(RISING_DENSITY)),
			NewThresholdRounding(DESCENDING_THRESHOLD, UniformPermutation, DescendingRadii(b)))
	case MIXTURE_4:
		return NewMixture4(params.Mixture4,
			NewThresholdRounding(SINGLE_THRESHOLD_PLATEAU, UniformPermutation, SingleDensityRadius(PLATEAU_DENSITY)),
			NewThresholdRounding(DESCENDING_THRESHOLD, UniformPermutation, DescendingRadii(b)),
			NewThresholdRounding(INDEPENDENT_THRESHOLD, UniformPermutation, IndependentRadii(b)))
	case BEST_OF_CLOCKS_DESCENDING:
		return NewBestOf(name,
			NewExponentialClocks(),
			NewThresholdRounding(DESCENDING_THRESHOLD, UniformPermutation, DescendingRadii(b))), nil
	case BEST_OF_ALL:
		return NewBestOf(name,
			NewExponentialClocks(),
			NewThresholdRounding(SINGLE_THRESHOLD, UniformPermutation, SingleRadius),
			NewThresholdRounding(DESCENDING_THRESHOLD, UniformPermutation, DescendingRadii(b)),
			NewThresholdRounding(INDEPENDENT_THRESHOLD, UniformPermutation, IndependentRadii(b))), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// RunStrategy rounds a subdivided fractional labelling once with the named strategy.
func RunStrategy(name string, net *da.FlowNetwork, vectors da.LabelVectors, params Params, rng *rand.Rand) (da.CutResult, error) {
	scheme, err := NewScheme(name, params)
	if err != nil {
		return nil, err
	}
	if len(vectors) < net.NumberOfVertexSlots() {
		return nil, fmt.Errorf("%w: %d vectors for %d vertex slots", ErrVectorsMismatch, len(vectors), net.NumberOfVertexSlots())
	}
	return scheme.Round(net, vectors, rng)
}
