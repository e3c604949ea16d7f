package lp

import (
	"context"
	"errors"
	"fmt"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
)

var (
	ErrSolverUnavailable = errors.New("lp: solver unavailable")
	ErrInfeasible        = errors.New("lp: solver returned no feasible solution")
)

// FractionalSolution is an optimum of the relaxation: one simplex point per vertex id.
type FractionalSolution struct {
	Vectors   map[int][]float64 `json:"vectors"`
	Objective float64           `json:"objective"`
}

// FractionalSolver solves the relaxation of the multiway cut program. Calls may run for minutes on large
// inputs and must honour ctx.
type FractionalSolver interface {
	SolveFractional(ctx context.Context, net *da.FlowNetwork) (*FractionalSolution, error)
}

// IntegralSolver returns the optimal multiway cut value.
type IntegralSolver interface {
	SolveIntegral(ctx context.Context, net *da.FlowNetwork) (int64, error)
}

// Check verifies that the solution covers every live vertex of net with a valid simplex point and that
// terminal i sits on e_i.
func (s *FractionalSolution) Check(net *da.FlowNetwork) error {
	if s == nil {
		return fmt.Errorf("%w: empty solution", ErrInfeasible)
	}
	if _, err := da.NewLabelVectors(net, s.Vectors); err != nil {
		return fmt.Errorf("%w: %v", ErrInfeasible, err)
	}
	return nil
}

// StaticSolver serves a solution computed elsewhere, e.g. sent along with an API request.
type StaticSolver struct {
	solution *FractionalSolution
	optimum  int64
	hasOpt   bool
}

func NewStaticSolver(solution *FractionalSolution) *StaticSolver {
	return &StaticSolver{solution: solution}
}

func (s *StaticSolver) WithOptimum(optimum int64) *StaticSolver {
	s.optimum = optimum
	s.hasOpt = true
	return s
}

func (s *StaticSolver) SolveFractional(ctx context.Context, net *da.FlowNetwork) (*FractionalSolution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.solution == nil {
		return nil, ErrSolverUnavailable
	}
	if err := s.solution.Check(net); err != nil {
		return nil, err
	}
	return s.solution, nil
}

func (s *StaticSolver) SolveIntegral(ctx context.Context, _ *da.FlowNetwork) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if !s.hasOpt {
		return 0, ErrSolverUnavailable
	}
	return s.optimum, nil
}

// UnavailableSolver always fails; used when no relaxation provider is configured.
type UnavailableSolver struct{}

func (UnavailableSolver) SolveFractional(context.Context, *da.FlowNetwork) (*FractionalSolution, error) {
	return nil, ErrSolverUnavailable
}

func (UnavailableSolver) SolveIntegral(context.Context, *da.FlowNetwork) (int64, error) {
	return 0, ErrSolverUnavailable
}
