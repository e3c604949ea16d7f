package usecases

import (
	"context"
	"errors"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/engine"
	"github.com/ablochha/multiwaycut/pkg/lp"
	"github.com/ablochha/multiwaycut/pkg/rounding"
	"github.com/ablochha/multiwaycut/pkg/util"
	"go.uber.org/zap"
)

// Problem is one multiway cut instance sent to the API. Zero Trials and Seed keep the configured values.
type Problem struct {
	Terminals  []int
	Edges      []da.EdgeInput
	Fractional map[int][]float64
	Objective  float64
	Optimum    *int64
	Strategies []string
	Trials     int
	Seed       uint64
}

type MultiwayCutService struct {
	log       *zap.Logger
	cfg       util.SolverConfig
	solver    lp.FractionalSolver
	newEngine func(net *da.FlowNetwork, solver lp.FractionalSolver, cfg util.SolverConfig) CutEngine
}

// NewMultiwayCutService serves requests with cfg as the base solver configuration. solver answers requests
// that carry no fractional solution of their own; nil makes rounding strategies fail for those.
func NewMultiwayCutService(log *zap.Logger, cfg util.SolverConfig, solver lp.FractionalSolver) *MultiwayCutService {
	return &MultiwayCutService{
		log:    log,
		cfg:    cfg,
		solver: solver,
		newEngine: func(net *da.FlowNetwork, solver lp.FractionalSolver, cfg util.SolverConfig) CutEngine {
			return engine.NewEngine(net, solver, cfg, log)
		},
	}
}

func (s *MultiwayCutService) Strategies() []string {
	return engine.StrategyNames()
}

func (s *MultiwayCutService) Solve(ctx context.Context, p Problem, observer engine.TrialObserver) (*engine.Report, error) {
	net, err := da.NewFlowNetwork(p.Terminals, len(p.Terminals), p.Edges)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid network")
	}

	cfg := s.cfg
	if p.Trials > 0 {
		cfg.Trials = p.Trials
	}
	if p.Seed != 0 {
		cfg.Seed = p.Seed
	}
	strategies := p.Strategies
	if len(strategies) == 0 {
		strategies = cfg.Strategies
	}

	solver := s.solver
	if p.Fractional != nil {
		static := lp.NewStaticSolver(&lp.FractionalSolution{Vectors: p.Fractional, Objective: p.Objective})
		if p.Optimum != nil {
			static.WithOptimum(*p.Optimum)
		}
		solver = static
	}

	e := s.newEngine(net, solver, cfg)
	if observer != nil {
		e.SetObserver(observer)
	}
	report, err := e.Run(ctx, strategies)
	switch {
	case errors.Is(err, rounding.ErrUnknownStrategy), errors.Is(err, engine.ErrNoStrategies):
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "invalid strategies")
	case err != nil:
		return nil, util.WrapErrorf(err, util.ErrInternalServerError, "multiway cut failed")
	}

	if report.BestCost < 0 {
		reason := lp.ErrSolverUnavailable
		for _, sm := range report.Summaries {
			if sm.FirstErr != "" {
				reason = errors.New(sm.FirstErr)
				break
			}
		}
		s.log.Warn("no strategy produced a cut", zap.Strings("strategies", strategies), zap.Error(reason))
		return report, util.WrapErrorf(reason, util.ErrSolverUnavailable, "no strategy produced a cut")
	}
	return report, nil
}
