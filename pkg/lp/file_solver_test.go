package lp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/dsnet/compress/bzip2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const starSolution = `# terminals 0 1 2, centre 3
objective 6
optimum 6
0 1 0 0
1 0 1 0
2 0 0 1
3 0 0 1
`

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

func writeFile(t *testing.T, name, content string, compress bool) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	if !compress {
		_, err = f.WriteString(content)
		require.NoError(t, err)
		return path
	}
	bw, err := bzip2.NewWriter(f, nil)
	require.NoError(t, err)
	_, err = bw.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, bw.Close())
	return path
}

func TestFileSolver(t *testing.T) {
	g := starNetwork(t)
	ctx := context.Background()

	for _, compress := range []bool{false, true} {
		name := "star.sol"
		if compress {
			name += ".bz2"
		}
		solver := NewFileSolver(writeFile(t, name, starSolution, compress))

		sol, err := solver.SolveFractional(ctx, g)
		require.NoError(t, err, name)
		assert.InDelta(t, 6.0, sol.Objective, 1e-9)
		assert.Equal(t, []float64{0, 0, 1}, sol.Vectors[3])

		opt, err := solver.SolveIntegral(ctx, g)
		require.NoError(t, err)
		assert.Equal(t, int64(6), opt)
	}
}

func TestFileSolverFailures(t *testing.T) {
	g := starNetwork(t)
	ctx := context.Background()

	_, err := NewFileSolver(filepath.Join(t.TempDir(), "missing.sol")).SolveFractional(ctx, g)
	assert.ErrorIs(t, err, ErrSolverUnavailable)

	testCases := []struct {
		name    string
		content string
	}{
		{"missing vertex", "0 1 0 0\n1 0 1 0\n2 0 0 1\n"},
		{"not on simplex", "0 1 0 0\n1 0 1 0\n2 0 0 1\n3 0.5 0.5 0.5\n"},
		{"terminal off its unit vector", "0 0.5 0.5 0\n1 0 1 0\n2 0 0 1\n3 0 0 1\n"},
		{"garbage", "0 one 0 0\n"},
		{"empty", "# nothing\n"},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileSolver(writeFile(t, "bad.sol", tt.content, false)).SolveFractional(ctx, g)
			assert.ErrorIs(t, err, ErrInfeasible)
		})
	}

	_, err = NewFileSolver(writeFile(t, "noopt.sol", "0 1 0 0\n", false)).SolveIntegral(ctx, g)
	assert.ErrorIs(t, err, ErrSolverUnavailable)
}

func TestStaticSolver(t *testing.T) {
	g := starNetwork(t)
	ctx := context.Background()

	_, err := NewStaticSolver(nil).SolveFractional(ctx, g)
	assert.ErrorIs(t, err, ErrSolverUnavailable)

	sol := &FractionalSolution{Vectors: map[int][]float64{
		0: {1, 0, 0}, 1: {0, 1, 0}, 2: {0, 0, 1}, 3: {0.2, 0.3, 0.5},
	}, Objective: 5}
	got, err := NewStaticSolver(sol).SolveFractional(ctx, g)
	require.NoError(t, err)
	assert.Same(t, sol, got)

	_, err = NewStaticSolver(sol).SolveIntegral(ctx, g)
	assert.ErrorIs(t, err, ErrSolverUnavailable)
	opt, err := NewStaticSolver(sol).WithOptimum(6).SolveIntegral(ctx, g)
	require.NoError(t, err)
	assert.Equal(t, int64(6), opt)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = NewStaticSolver(sol).SolveFractional(cancelled, g)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = UnavailableSolver{}.SolveFractional(ctx, g)
	assert.ErrorIs(t, err, ErrSolverUnavailable)
}
