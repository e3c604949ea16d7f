package rounding

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// PiecewisePolynomial is an unnormalised density on [Breakpoints[0], Breakpoints[len-1]]. Piece p covers
// [Breakpoints[p], Breakpoints[p+1]) and evaluates Coefficients[p][0] + Coefficients[p][1]·x +
// Coefficients[p][2]·x². Degrees above 2 are rejected.
type PiecewisePolynomial struct {
	Breakpoints  []float64
	Coefficients [][]float64
	max          float64
}

var (
	// RISING_DENSITY grows linearly up to 1/2 and quadratically beyond, favouring large radii.
	RISING_DENSITY = MustPiecewisePolynomial(
		[]float64{0, 0.5, 1},
		[][]float64{{0.5, 1}, {1.5, -2, 2}},
	)
	// PLATEAU_DENSITY ramps up on [0, 1/4], stays flat, and ramps down on [3/4, 1].
	PLATEAU_DENSITY = MustPiecewisePolynomial(
		[]float64{0, 0.25, 0.75, 1},
		[][]float64{{0, 4}, {1}, {4, -4}},
	)
)

func NewPiecewisePolynomial(breakpoints []float64, coefficients [][]float64) (*PiecewisePolynomial, error) {
	if len(breakpoints) < 2 || len(coefficients) != len(breakpoints)-1 {
		return nil, fmt.Errorf("%w: %d breakpoints for %d pieces", ErrInvalidDensity, len(breakpoints), len(coefficients))
	}
	for i := 1; i < len(breakpoints); i++ {
		if breakpoints[i] <= breakpoints[i-1] {
			return nil, fmt.Errorf("%w: breakpoints must increase", ErrInvalidDensity)
		}
	}
	for p, c := range coefficients {
		if len(c) == 0 || len(c) > 3 {
			return nil, fmt.Errorf("%w: piece %d has degree %d", ErrInvalidDensity, p, len(c)-1)
		}
	}

	pp := &PiecewisePolynomial{
		Breakpoints:  append([]float64(nil), breakpoints...),
		Coefficients: coefficients,
	}
	pp.max = math.Inf(-1)
	for p := range coefficients {
		lo, hi := breakpoints[p], breakpoints[p+1]
		candidates := []float64{lo, hi}
		if c := coefficients[p]; len(c) == 3 && c[2] != 0 {
			if vertex := -c[1] / (2 * c[2]); vertex > lo && vertex < hi {
				candidates = append(candidates, vertex)
			}
		}
		for _, x := range candidates {
			v := evalPiece(coefficients[p], x)
			if v < 0 {
				return nil, fmt.Errorf("%w: piece %d is negative at %g", ErrInvalidDensity, p, x)
			}
			pp.max = math.Max(pp.max, v)
		}
	}
	if pp.max <= 0 {
		return nil, fmt.Errorf("%w: density is zero everywhere", ErrInvalidDensity)
	}
	return pp, nil
}

func MustPiecewisePolynomial(breakpoints []float64, coefficients [][]float64) *PiecewisePolynomial {
	pp, err := NewPiecewisePolynomial(breakpoints, coefficients)
	if err != nil {
		panic(err)
	}
	return pp
}

func evalPiece(c []float64, x float64) float64 {
	v := 0.0
	for i := len(c) - 1; i >= 0; i-- {
		v = v*x + c[i]
	}
	return v
}

// Eval returns the density at x, 0 outside the support.
func (pp *PiecewisePolynomial) Eval(x float64) float64 {
	n := len(pp.Breakpoints)
	if x < pp.Breakpoints[0] || x > pp.Breakpoints[n-1] {
		return 0
	}
	for p := 0; p < n-1; p++ {
		if x < pp.Breakpoints[p+1] || p == n-2 {
			return evalPiece(pp.Coefficients[p], x)
		}
	}
	return 0
}

// Max is the exact supremum of the density, the height of the uniform envelope.
func (pp *PiecewisePolynomial) Max() float64 {
	return pp.max
}

func (pp *PiecewisePolynomial) Support() (float64, float64) {
	return pp.Breakpoints[0], pp.Breakpoints[len(pp.Breakpoints)-1]
}

// RejectionSample draws x uniformly on the support and u uniformly on [0, Max) until u < f(x).
func (pp *PiecewisePolynomial) RejectionSample(rng *rand.Rand) float64 {
	lo, hi := pp.Support()
	for {
		x := lo + (hi-lo)*rng.Float64()
		if rng.Float64()*pp.max < pp.Eval(x) {
			return x
		}
	}
}
