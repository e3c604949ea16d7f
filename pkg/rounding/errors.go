package rounding

import "errors"

var (
	ErrUnknownStrategy = errors.New("rounding: unknown strategy")
	ErrInvalidMixture  = errors.New("rounding: mixture probabilities must be non-negative and sum to 1")
	ErrVectorsMismatch = errors.New("rounding: label vectors do not cover the network")
	ErrInvalidDensity  = errors.New("rounding: invalid piecewise polynomial density")
)
