package isolation

import (
	"testing"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// bruteForceOptimum tries every labelling of the non-terminal vertices.
func bruteForceOptimum(g *da.FlowNetwork) int64 {
	free := make([]da.Index, 0)
	partition := make([]int, g.NumberOfVertexSlots())
	g.ForEachVertex(func(u da.Index, _ *da.FlowVertex) {
		if t, ok := g.TerminalPosition(u); ok {
			partition[u] = t
			return
		}
		free = append(free, u)
	})

	best := int64(-1)
	var assign func(i int)
	assign = func(i int) {
		if i == len(free) {
			if c := g.CutCost(partition); best < 0 || c < best {
				best = c
			}
			return
		}
		for l := 0; l < g.GetK(); l++ {
			partition[free[i]] = l
			assign(i + 1)
		}
	}
	assign(0)
	return best
}

func TestRunPathGraph(t *testing.T) {
	g, err := da.NewFlowNetwork([]int{0, 2, 4}, 3, []da.EdgeInput{
		da.NewEdgeInput(0, 1, 1),
		da.NewEdgeInput(1, 2, 1),
		da.NewEdgeInput(2, 3, 1),
		da.NewEdgeInput(3, 4, 1),
	})
	require.NoError(t, err)

	res, err := Run(g)
	require.NoError(t, err)

	assert.Equal(t, []int64{1, 2, 1}, res.Weights)
	assert.Equal(t, 1, res.Discarded)
	assert.Equal(t, int64(2), res.Cost)
	assert.Len(t, res.Union, 2)

	// the auxiliary sink lives on a copy only
	assert.Equal(t, 5, g.NumberOfVertices())
	assert.Equal(t, 8, g.NumberOfEdges())

	labels := Labelling(g, res)
	assert.Equal(t, []int{0, 1, 1, 1, 2}, labels)
	assert.Equal(t, int64(2), g.CutCost(labels))
}

func TestRunStar(t *testing.T) {
	g, err := da.NewFlowNetwork([]int{0, 1, 2}, 3, []da.EdgeInput{
		da.NewEdgeInput(0, 3, 2),
		da.NewEdgeInput(1, 3, 3),
		da.NewEdgeInput(2, 3, 5),
		da.NewEdgeInput(0, 1, 1),
	})
	require.NoError(t, err)

	result, res, err := Solve(g)
	require.NoError(t, err)

	assert.Equal(t, []int64{3, 4, 5}, res.Weights)
	assert.Equal(t, 2, result.Discarded)
	assert.Equal(t, int64(6), result.GetCost())
	assert.Equal(t, STRATEGY, result.GetStrategy())
	assert.Equal(t, []int{0, 1, 2, 2}, result.GetPartition())
}

func TestRunHeaviestTieDiscardsFirst(t *testing.T) {
	g, err := da.NewFlowNetwork([]int{0, 1, 2}, 3, []da.EdgeInput{
		da.NewEdgeInput(0, 3, 4),
		da.NewEdgeInput(1, 3, 4),
		da.NewEdgeInput(2, 3, 1),
	})
	require.NoError(t, err)

	res, err := Run(g)
	require.NoError(t, err)
	assert.Equal(t, []int64{4, 4, 1}, res.Weights)
	assert.Equal(t, 0, res.Discarded)
	assert.Equal(t, int64(5), res.Cost)
}

func TestLabellingIslands(t *testing.T) {
	g, err := da.NewFlowNetwork([]int{0, 2}, 2, []da.EdgeInput{
		da.NewEdgeInput(0, 1, 1),
		da.NewEdgeInput(1, 2, 1),
	})
	require.NoError(t, err)
	_, err = g.AddVertex(9)
	require.NoError(t, err)

	res := &Result{Union: []da.Index{0, 1}, Cost: 2}
	labels := Labelling(g, res)

	one, _ := g.VertexIndex(1)
	alone, _ := g.VertexIndex(9)
	assert.Equal(t, 0, labels[one], "island takes the label of a neighbour")
	assert.Equal(t, 0, labels[alone], "isolated vertex falls back to label 0")
	assert.Equal(t, 1, labels[g.GetTerminalIndex(1)])
}

func TestLabellingKeepsIslandTogether(t *testing.T) {
	// 4 and 5 end up cut off from every terminal, joined by a heavy edge that is not in the union.
	g, err := da.NewFlowNetwork([]int{0, 1, 2, 3}, 4, []da.EdgeInput{
		da.NewEdgeInput(0, 1, 1),
		da.NewEdgeInput(0, 2, 2),
		da.NewEdgeInput(0, 3, 1),
		da.NewEdgeInput(3, 4, 1),
		da.NewEdgeInput(4, 5, 5),
		da.NewEdgeInput(0, 6, 2),
		da.NewEdgeInput(1, 0, 1),
		da.NewEdgeInput(5, 2, 1),
		da.NewEdgeInput(1, 0, 4),
		da.NewEdgeInput(1, 2, 1),
		da.NewEdgeInput(1, 6, 5),
		da.NewEdgeInput(3, 2, 1),
	})
	require.NoError(t, err)

	res, err := Run(g)
	require.NoError(t, err)
	labels := Labelling(g, res)

	four, _ := g.VertexIndex(4)
	five, _ := g.VertexIndex(5)
	assert.Equal(t, labels[four], labels[five])
	assert.LessOrEqual(t, g.CutCost(labels), res.Cost)
	for i, term := range g.GetTerminalIndices() {
		assert.Equal(t, i, labels[term])
	}

	cut, _, err := Solve(g)
	require.NoError(t, err)
	assert.LessOrEqual(t, g.CutCost(cut.Partition), cut.Cost)
}

func TestRunRejectsNoTerminals(t *testing.T) {
	_, err := Run(da.NewEmptyFlowNetwork())
	assert.ErrorIs(t, err, ErrNoTerminals)
}

func TestRunApproximationBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(17))
	for trial := 0; trial < 120; trial++ {
		n := 5 + rng.Intn(4)
		k := 2 + rng.Intn(3)
		edges := make([]da.EdgeInput, 0)
		for u := 0; u < n; u++ {
			for v := u + 1; v < n; v++ {
				if v == u+1 || rng.Float64() < 0.35 {
					edges = append(edges, da.NewEdgeInput(u, v, int64(1+rng.Intn(5))))
				}
			}
		}
		terminals := rng.Perm(n)[:k]
		g, err := da.NewFlowNetwork(terminals, k, edges)
		require.NoError(t, err)

		res, err := Run(g)
		require.NoError(t, err)
		opt := bruteForceOptimum(g)
		labels := Labelling(g, res)

		assert.GreaterOrEqual(t, res.Cost, opt, "trial %d", trial)
		assert.LessOrEqual(t, float64(res.Cost), (2-2/float64(k))*float64(opt)+1e-9, "trial %d", trial)
		assert.LessOrEqual(t, g.CutCost(labels), res.Cost, "trial %d", trial)
		for i, term := range g.GetTerminalIndices() {
			assert.Equal(t, i, labels[term], "trial %d", trial)
		}
	}
}
