package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ablochha/multiwaycut/pkg"
	"github.com/ablochha/multiwaycut/pkg/concurrent"
	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/isolation"
	"github.com/ablochha/multiwaycut/pkg/localsearch"
	"github.com/ablochha/multiwaycut/pkg/lp"
	"github.com/ablochha/multiwaycut/pkg/rounding"
	"github.com/ablochha/multiwaycut/pkg/util"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	ISOLATION             = isolation.STRATEGY
	LOCAL_SEARCH          = localsearch.STRATEGY
	LOCAL_SEARCH_ROUNDING = "local-search-rounding"
)

var ErrNoStrategies = errors.New("engine: no strategies requested")

// StrategyNames lists the flow based strategies followed by the rounding strategies.
func StrategyNames() []string {
	return append([]string{ISOLATION, LOCAL_SEARCH, LOCAL_SEARCH_ROUNDING}, rounding.StrategyNames()...)
}

func isFlowStrategy(name string) bool {
	return name == ISOLATION || name == LOCAL_SEARCH || name == LOCAL_SEARCH_ROUNDING
}

// Engine runs multiway cut strategies on one network. Rounding strategies run cfg.Trials independent trials
// each, every trial on its own copy of the subdivided network.
type Engine struct {
	net      *da.FlowNetwork
	solver   lp.FractionalSolver
	cfg      util.SolverConfig
	logger   *zap.Logger
	observer TrialObserver
}

func NewEngine(net *da.FlowNetwork, solver lp.FractionalSolver, cfg util.SolverConfig, logger *zap.Logger) *Engine {
	if solver == nil {
		solver = lp.UnavailableSolver{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{net: net, solver: solver, cfg: cfg, logger: logger}
}

func (e *Engine) SetObserver(observer TrialObserver) {
	e.observer = observer
}

func (e *Engine) GetNetwork() *da.FlowNetwork {
	return e.net
}

func (e *Engine) params() rounding.Params {
	return rounding.Params{
		ThresholdBound: e.cfg.ThresholdBound,
		Mixture3:       e.cfg.Mixture3,
		Mixture4:       e.cfg.Mixture4,
	}
}

// fractional is the relaxation shared by every rounding trial, or the reason it is missing.
type fractional struct {
	sub       *da.FlowNetwork
	vectors   da.LabelVectors
	objective float64
	inserted  int
	err       error
}

func (e *Engine) solveFractional(ctx context.Context) (*fractional, error) {
	sol, err := e.solver.SolveFractional(ctx, e.net)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		e.logger.Warn("fractional solver failed, rounding trials will be reported as failed", zap.Error(err))
		return &fractional{err: err}, nil
	}
	vectors, err := rounding.NewFractionalVectors(e.net, sol)
	if err != nil {
		e.logger.Warn("fractional solution rejected", zap.Error(err))
		return &fractional{err: err}, nil
	}
	sub, subVectors, inserted, err := rounding.Subdivide(e.net, vectors)
	if err != nil {
		return nil, err
	}
	e.logger.Info("subdivided network",
		zap.Int("inserted_vertices", inserted), zap.Float64("objective", sol.Objective))
	return &fractional{sub: sub, vectors: subVectors, objective: sol.Objective, inserted: inserted}, nil
}

func (e *Engine) seed() uint64 {
	if e.cfg.Seed != 0 {
		return e.cfg.Seed
	}
	return uint64(time.Now().UnixNano())
}

// trialRNG derives an independent source per strategy and trial.
func trialRNG(seed uint64, strategy string, trial int) *rand.Rand {
	offset := uint64(0)
	for i, name := range StrategyNames() {
		if name == strategy {
			offset = uint64(i+1) << 32
		}
	}
	return rand.New(rand.NewSource(seed + offset + uint64(trial)))
}

func (e *Engine) notify(tr TrialResult) {
	if e.observer != nil {
		e.observer(tr)
	}
}

/*
Run executes the named strategies and reports the best cut of each and overall. The relaxation is solved
once; when it fails every rounding trial is recorded as failed while the flow strategies still run.
local-search-rounding starts from the best rounding partition of this run (exponential clocks trials
are added when no rounding strategy was requested).

Run returns an error only for unknown strategy names and cancellation.
*/
func (e *Engine) Run(ctx context.Context, strategies []string) (*Report, error) {
	if len(strategies) == 0 {
		return nil, ErrNoStrategies
	}
	roundingNames := make([]string, 0, len(strategies))
	flowNames := make([]string, 0, 3)
	seen := make(map[string]bool, len(strategies))
	for _, name := range strategies {
		if seen[name] {
			continue
		}
		seen[name] = true
		switch {
		case isFlowStrategy(name):
			flowNames = append(flowNames, name)
		case rounding.IsStrategy(name):
			roundingNames = append(roundingNames, name)
		default:
			return nil, fmt.Errorf("%w: %q", rounding.ErrUnknownStrategy, name)
		}
	}
	if seen[LOCAL_SEARCH_ROUNDING] && len(roundingNames) == 0 {
		roundingNames = append(roundingNames, rounding.EXPONENTIAL_CLOCKS)
	}

	start := time.Now()
	seed := e.seed()
	e.logger.Info("running multiway cut strategies",
		zap.Strings("strategies", strategies), zap.Int("trials", e.cfg.Trials),
		zap.Int("workers", e.cfg.Workers), zap.Uint64("seed", seed))

	report := &Report{}
	var frac *fractional
	if len(roundingNames) > 0 {
		var err error
		frac, err = e.solveFractional(ctx)
		if err != nil {
			return nil, err
		}
		if frac.err == nil {
			objective := frac.objective
			report.FractionalObjective = &objective
			report.SubdividedVertices = frac.inserted
		}
	}
	if integral, ok := e.solver.(lp.IntegralSolver); ok {
		if opt, err := integral.SolveIntegral(ctx, e.net); err == nil {
			report.Optimum = &opt
		}
	}

	summaries := make(map[string]*StrategySummary, len(seen))
	var mu sync.Mutex
	record := func(s *StrategySummary) {
		mu.Lock()
		summaries[s.Strategy] = s
		mu.Unlock()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, name := range roundingNames {
		name := name
		g.Go(func() error {
			trials := e.runRounding(gctx, name, frac, seed)
			record(summarize(name, e.net, trials))
			return gctx.Err()
		})
	}
	for _, name := range flowNames {
		if name == LOCAL_SEARCH_ROUNDING {
			continue
		}
		name := name
		g.Go(func() error {
			record(summarize(name, e.net, []TrialResult{e.runFlow(gctx, name, seed)}))
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if seen[LOCAL_SEARCH_ROUNDING] {
		tr := e.runLocalSearchRounding(ctx, roundingNames, summaries)
		record(summarize(LOCAL_SEARCH_ROUNDING, e.net, []TrialResult{tr}))
	}

	for _, name := range strategies {
		if s, ok := summaries[name]; ok {
			report.Summaries = append(report.Summaries, s)
			delete(summaries, name)
		}
	}
	for _, name := range roundingNames {
		if s, ok := summaries[name]; ok {
			report.Summaries = append(report.Summaries, s)
		}
	}
	report.pickBest()

	e.logger.Info("multiway cut strategies finished",
		zap.String("best_strategy", report.BestStrategy), zap.Int64("best_cost", report.BestCost),
		zap.Duration("elapsed", time.Since(start)))
	return report, ctx.Err()
}

func (e *Engine) runRounding(ctx context.Context, name string, frac *fractional, seed uint64) []TrialResult {
	jobs := make([]int, e.cfg.Trials)
	for i := range jobs {
		jobs[i] = i
	}
	params := e.params()

	var done atomic.Int64
	progress := &rate.Sometimes{Interval: pkg.PROGRESS_LOG_INTERVAL}

	return concurrent.Run(ctx, e.cfg.Workers, jobs, func(ctx context.Context, trial int) TrialResult {
		tr := TrialResult{Strategy: name, Trial: trial, Cost: -1}
		switch {
		case util.StopConcurrentOperation(ctx):
			tr.Err = ctx.Err().Error()
		case frac.err != nil:
			tr.Err = frac.err.Error()
		default:
			res, err := rounding.RunStrategy(name, frac.sub.Clone(), frac.vectors, params, trialRNG(seed, name, trial))
			if err != nil {
				tr.Err = err.Error()
			} else {
				tr.Result = res
				tr.Cost = res.GetCost()
			}
		}

		n := done.Add(1)
		progress.Do(func() {
			e.logger.Sugar().Infof("%s: %d/%d trials done", name, n, len(jobs))
		})
		e.notify(tr)
		return tr
	})
}

func (e *Engine) runFlow(ctx context.Context, name string, seed uint64) TrialResult {
	tr := TrialResult{Strategy: name, Cost: -1}
	if util.StopConcurrentOperation(ctx) {
		tr.Err = ctx.Err().Error()
		return tr
	}

	var (
		res da.CutResult
		err error
	)
	switch name {
	case ISOLATION:
		res, _, err = isolation.Solve(e.net)
	case LOCAL_SEARCH:
		var init localsearch.Initializer
		init, err = localsearch.NewInitializer(e.cfg.LocalSearchInit, trialRNG(seed, name, 0))
		if err == nil {
			res, _, err = localsearch.Solve(e.net, init, e.logger)
		}
	}
	if err != nil {
		e.logger.Warn("strategy failed", zap.String("strategy", name), zap.Error(err))
		tr.Err = err.Error()
	} else {
		tr.Result = res
		tr.Cost = res.GetCost()
	}
	e.notify(tr)
	return tr
}

func (e *Engine) runLocalSearchRounding(ctx context.Context, roundingNames []string, summaries map[string]*StrategySummary) TrialResult {
	tr := TrialResult{Strategy: LOCAL_SEARCH_ROUNDING, Cost: -1}
	var seedResult da.CutResult
	for _, name := range roundingNames {
		s := summaries[name]
		if s != nil && s.Best != nil && (seedResult == nil || s.BestCost < seedResult.GetCost()) {
			seedResult = s.Best
		}
	}
	switch {
	case util.StopConcurrentOperation(ctx):
		tr.Err = ctx.Err().Error()
	case seedResult == nil:
		tr.Err = fmt.Sprintf("no rounding partition to start from: %v", lp.ErrSolverUnavailable)
	default:
		partition := rounding.Restrict(seedResult.GetPartition(), e.net.NumberOfVertexSlots())
		res, _, err := localsearch.Solve(e.net, localsearch.NewFromLabels(partition), e.logger)
		if err != nil {
			tr.Err = err.Error()
		} else {
			res.Strategy = LOCAL_SEARCH_ROUNDING
			tr.Result = res
			tr.Cost = res.GetCost()
		}
	}
	e.notify(tr)
	return tr
}
