package engine

import (
	"context"
	"sync"
	"testing"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/lp"
	"github.com/ablochha/multiwaycut/pkg/rounding"
	"github.com/ablochha/multiwaycut/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// starNetwork: terminals 0, 1, 2 around centre 3; the optimum gives 3 to terminal 2 for a cost of 6.
func starNetwork(t *testing.T) *da.FlowNetwork {
	t.Helper()
	g, err := da.NewFlowNetwork([]int{0, 1, 2}, 3, []da.EdgeInput{
		da.NewEdgeInput(0, 3, 2),
		da.NewEdgeInput(1, 3, 3),
		da.NewEdgeInput(2, 3, 5),
		da.NewEdgeInput(0, 1, 1),
	})
	require.NoError(t, err)
	return g
}

func starSolution(centre []float64) *lp.FractionalSolution {
	return &lp.FractionalSolution{Vectors: map[int][]float64{
		0: {1, 0, 0}, 1: {0, 1, 0}, 2: {0, 0, 1}, 3: centre,
	}, Objective: 6}
}

func testConfig() util.SolverConfig {
	cfg := util.DefaultSolverConfig()
	cfg.Trials = 12
	cfg.Workers = 3
	cfg.Seed = 42
	return cfg
}

func TestRunEndToEnd(t *testing.T) {
	g := starNetwork(t)
	solver := lp.NewStaticSolver(starSolution([]float64{0, 0, 1})).WithOptimum(6)
	e := NewEngine(g, solver, testConfig(), zap.NewNop())

	strategies := []string{ISOLATION, rounding.EXPONENTIAL_CLOCKS, rounding.MIXTURE_4, LOCAL_SEARCH_ROUNDING, LOCAL_SEARCH}
	report, err := e.Run(context.Background(), strategies)
	require.NoError(t, err)

	require.Len(t, report.Summaries, len(strategies))
	for i, s := range report.Summaries {
		assert.Equal(t, strategies[i], s.Strategy)
		assert.True(t, s.Succeeded(), s.Strategy)
		assert.Zero(t, s.Failures, s.Strategy)
		assert.Equal(t, int64(6), s.BestCost, s.Strategy)
		assert.Equal(t, map[int]int{0: 0, 1: 1, 2: 2, 3: 2}, s.Labels, s.Strategy)
	}
	assert.Equal(t, 12, report.Summary(rounding.EXPONENTIAL_CLOCKS).Trials)
	assert.Equal(t, 1, report.Summary(ISOLATION).Trials)

	assert.Equal(t, int64(6), report.BestCost)
	assert.Equal(t, ISOLATION, report.BestStrategy)
	require.NotNil(t, report.Optimum)
	assert.Equal(t, int64(6), *report.Optimum)
	require.NotNil(t, report.FractionalObjective)
	assert.Zero(t, report.SubdividedVertices)
}

func TestRunEndToEndFractionalCentre(t *testing.T) {
	g := starNetwork(t)
	solver := lp.NewStaticSolver(starSolution([]float64{0.2, 0.3, 0.5})).WithOptimum(6)
	e := NewEngine(g, solver, testConfig(), zap.NewNop())

	roundings := []string{rounding.EXPONENTIAL_CLOCKS, rounding.SINGLE_THRESHOLD, rounding.MIXTURE_4}
	strategies := append([]string{ISOLATION, LOCAL_SEARCH_ROUNDING, LOCAL_SEARCH}, roundings...)
	report, err := e.Run(context.Background(), strategies)
	require.NoError(t, err)
	require.Len(t, report.Summaries, len(strategies))

	optimal := map[int]int{0: 0, 1: 1, 2: 2, 3: 2}
	for _, name := range []string{ISOLATION, LOCAL_SEARCH_ROUNDING, LOCAL_SEARCH} {
		s := report.Summary(name)
		require.NotNil(t, s, name)
		assert.Equal(t, int64(6), s.BestCost, name)
		assert.Equal(t, optimal, s.Labels, name)
	}
	for _, name := range roundings {
		s := report.Summary(name)
		require.NotNil(t, s, name)
		assert.True(t, s.Succeeded(), name)
		assert.Zero(t, s.Failures, name)
		assert.GreaterOrEqual(t, s.BestCost, int64(6), name)
		require.Len(t, s.Labels, 4, name)
		for term := 0; term < 3; term++ {
			assert.Equal(t, term, s.Labels[term], name)
		}
	}

	assert.Equal(t, int64(6), report.BestCost)
	require.NotNil(t, report.Optimum)
	assert.Equal(t, int64(6), *report.Optimum)
	assert.Positive(t, report.SubdividedVertices)
}

func TestRunWithoutSolver(t *testing.T) {
	g := starNetwork(t)
	e := NewEngine(g, nil, testConfig(), nil)

	report, err := e.Run(context.Background(), []string{rounding.SINGLE_THRESHOLD, ISOLATION, LOCAL_SEARCH_ROUNDING})
	require.NoError(t, err)

	st := report.Summary(rounding.SINGLE_THRESHOLD)
	require.NotNil(t, st)
	assert.Equal(t, 12, st.Failures)
	assert.False(t, st.Succeeded())
	assert.Contains(t, st.FirstErr, lp.ErrSolverUnavailable.Error())

	assert.False(t, report.Summary(LOCAL_SEARCH_ROUNDING).Succeeded())
	assert.Equal(t, int64(6), report.Summary(ISOLATION).BestCost)
	assert.Equal(t, ISOLATION, report.BestStrategy)
	assert.Nil(t, report.FractionalObjective)
	assert.Nil(t, report.Optimum)
}

func TestRunRejectsBadStrategies(t *testing.T) {
	e := NewEngine(starNetwork(t), nil, testConfig(), nil)

	_, err := e.Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoStrategies)
	_, err = e.Run(context.Background(), []string{ISOLATION, "simulated-annealing"})
	assert.ErrorIs(t, err, rounding.ErrUnknownStrategy)

	cfg := testConfig()
	cfg.LocalSearchInit = "greedy"
	report, err := NewEngine(starNetwork(t), nil, cfg, nil).Run(context.Background(), []string{LOCAL_SEARCH})
	require.NoError(t, err)
	assert.Contains(t, report.Summary(LOCAL_SEARCH).FirstErr, "unknown initializer")
	assert.Equal(t, int64(-1), report.BestCost)
}

func TestRunAddsRoundingSeedForLocalSearch(t *testing.T) {
	solver := lp.NewStaticSolver(starSolution([]float64{0.2, 0.3, 0.5}))
	report, err := NewEngine(starNetwork(t), solver, testConfig(), nil).Run(context.Background(), []string{LOCAL_SEARCH_ROUNDING})
	require.NoError(t, err)

	require.Len(t, report.Summaries, 2)
	assert.Equal(t, LOCAL_SEARCH_ROUNDING, report.Summaries[0].Strategy)
	assert.Equal(t, rounding.EXPONENTIAL_CLOCKS, report.Summaries[1].Strategy)
	assert.Equal(t, int64(6), report.Summaries[0].BestCost)
	assert.Positive(t, report.SubdividedVertices)
}

func TestRunIsReproducibleAndObserved(t *testing.T) {
	solver := lp.NewStaticSolver(starSolution([]float64{0.2, 0.3, 0.5}))

	collect := func() map[int]int64 {
		var mu sync.Mutex
		costs := make(map[int]int64)
		flowTrials := 0
		e := NewEngine(starNetwork(t), solver, testConfig(), nil)
		e.SetObserver(func(tr TrialResult) {
			mu.Lock()
			defer mu.Unlock()
			if tr.Strategy == ISOLATION {
				flowTrials++
				return
			}
			costs[tr.Trial] = tr.Cost
		})
		_, err := e.Run(context.Background(), []string{rounding.DESCENDING_THRESHOLD, ISOLATION})
		require.NoError(t, err)
		assert.Equal(t, 1, flowTrials)
		return costs
	}

	first := collect()
	assert.Len(t, first, 12)
	assert.Equal(t, first, collect())
	for _, c := range first {
		assert.GreaterOrEqual(t, c, int64(6))
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewEngine(starNetwork(t), nil, testConfig(), nil).Run(ctx, []string{ISOLATION})
	assert.ErrorIs(t, err, context.Canceled)
}
