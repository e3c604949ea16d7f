package rounding

import (
	"testing"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/lp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// starNetwork: terminals 0, 1, 2 around centre 3. The optimum cuts 0-3, 1-3 and 0-1 for a cost of 6.
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

func starVectors(t *testing.T, g *da.FlowNetwork, centre []float64) da.LabelVectors {
	t.Helper()
	vectors, err := da.NewLabelVectors(g, map[int][]float64{
		0: {1, 0, 0},
		1: {0, 1, 0},
		2: {0, 0, 1},
		3: centre,
	})
	require.NoError(t, err)
	return vectors
}

func TestSubdivide(t *testing.T) {
	g := starNetwork(t)
	third := 1.0 / 3
	vectors := starVectors(t, g, []float64{third, third, third})
	require.False(t, IsSubdivided(g, vectors))

	sub, subVectors, inserted, err := Subdivide(g, vectors)
	require.NoError(t, err)

	assert.Equal(t, 3, inserted)
	assert.True(t, IsSubdivided(sub, subVectors))
	assert.Equal(t, 7, sub.NumberOfVertices())
	assert.Equal(t, 14, sub.NumberOfEdges())
	assert.Equal(t, 4, sub.NumberOfOriginals())
	assert.InDelta(t, g.FractionalCost(vectors), sub.FractionalCost(subVectors), 1e-9)

	// the input is untouched
	assert.Equal(t, 4, g.NumberOfVertices())
	assert.Equal(t, 8, g.NumberOfEdges())

	for u := 0; u < g.NumberOfVertexSlots(); u++ {
		assert.Equal(t, vectors[u], subVectors[u])
	}
	sub.ForEachVertex(func(u da.Index, _ *da.FlowVertex) {
		assert.NoError(t, subVectors[u].Validate(3))
	})
}

func TestSubdivideIsIdempotent(t *testing.T) {
	g := starNetwork(t)
	vectors := starVectors(t, g, []float64{0.2, 0.3, 0.5})

	sub, subVectors, _, err := Subdivide(g, vectors)
	require.NoError(t, err)

	again, againVectors, inserted, err := Subdivide(sub, subVectors)
	require.NoError(t, err)
	assert.Zero(t, inserted)
	assert.Equal(t, sub.NumberOfVertices(), again.NumberOfVertices())
	assert.Equal(t, sub.NumberOfEdges(), again.NumberOfEdges())
	assert.Equal(t, subVectors, againVectors)
}

func TestSubdivideRejectsShortVectors(t *testing.T) {
	g := starNetwork(t)
	_, _, _, err := Subdivide(g, make(da.LabelVectors, 2))
	assert.ErrorIs(t, err, ErrVectorsMismatch)
}

func TestCostCountsSubdividedEdgeOnce(t *testing.T) {
	g, err := da.NewFlowNetwork([]int{0, 1}, 2, []da.EdgeInput{da.NewEdgeInput(0, 1, 7)})
	require.NoError(t, err)

	const splits = 5
	prev, _ := g.VertexIndex(0)
	last, _ := g.VertexIndex(1)
	e, _ := g.FindEdge(prev, last)
	original := g.GetEdge(e).GetOriginal()
	require.NoError(t, g.RemoveEdge(e))

	chain := []da.Index{prev}
	for i := 0; i < splits; i++ {
		mid, err := g.AddVertex(g.NextVertexID())
		require.NoError(t, err)
		g.AddPiece(prev, mid, 7, original, true)
		chain = append(chain, mid)
		prev = mid
	}
	g.AddPiece(prev, last, 7, original, true)
	chain = append(chain, last)

	// every piece joins different partitions
	partition := make([]int, g.NumberOfVertexSlots())
	for i, u := range chain {
		partition[u] = i % 2
	}
	assert.Equal(t, splits+1, g.NumberOfEdges()/2)
	assert.Equal(t, int64(7), Cost(g, partition))
}

func TestRoundCalinescu(t *testing.T) {
	g := starNetwork(t)
	_, err := g.AddVertex(4)
	require.NoError(t, err)
	_, err = g.AddEdge(3, 4, 1)
	require.NoError(t, err)

	vectors, err := da.NewLabelVectors(g, map[int][]float64{
		0: {1, 0, 0},
		1: {0, 1, 0},
		2: {0, 0, 1},
		3: {0.2, 0.3, 0.5},
		4: {0.5, 0.5, 0},
	})
	require.NoError(t, err)
	centre, _ := g.VertexIndex(3)
	leaf, _ := g.VertexIndex(4)

	testCases := []struct {
		name         string
		perm         []int
		radii        []float64
		centre, leaf int
	}{
		{"radius one keeps the default", []int{0, 1, 2}, []float64{1, 1, 1}, 2, 2},
		{"radius one with another last terminal", []int{2, 0, 1}, []float64{1, 1, 1}, 1, 1},
		{"first terminal claims the leaf", []int{0, 1, 2}, []float64{0.4, 0.4, 0.4}, 2, 0},
		{"second terminal claims the centre", []int{0, 1, 2}, []float64{0.6, 0.25, 0}, 1, 1},
		{"radius zero gives everything to the first", []int{1, 0, 2}, []float64{0, 0, 0}, 1, 1},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			partition := RoundCalinescu(g, vectors, tt.perm, tt.radii)
			for i, term := range g.GetTerminalIndices() {
				assert.Equal(t, i, partition[term])
			}
			assert.Equal(t, tt.centre, partition[centre])
			assert.Equal(t, tt.leaf, partition[leaf])
		})
	}
}

func TestSamplers(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 50; i++ {
		perm := BinomialPermutation(rng, 4)
		assert.True(t, assert.ObjectsAreEqual([]int{0, 1, 2, 3}, perm) || assert.ObjectsAreEqual([]int{3, 2, 1, 0}, perm), "%v", perm)

		radii := DescendingRadii(0.6)(rng, 5)
		for j := range radii {
			assert.GreaterOrEqual(t, radii[j], 0.0)
			assert.Less(t, radii[j], 0.6)
			if j > 0 {
				assert.GreaterOrEqual(t, radii[j-1], radii[j])
			}
		}

		single := SingleRadius(rng, 3)
		assert.Equal(t, single[0], single[1])
		assert.Equal(t, single[1], single[2])

		assert.ElementsMatch(t, []int{0, 1, 2, 3, 4}, UniformPermutation(rng, 5))
	}
}

func TestPiecewisePolynomial(t *testing.T) {
	assert.InDelta(t, 1.5, RISING_DENSITY.Max(), 1e-12)
	assert.InDelta(t, 1.0, PLATEAU_DENSITY.Max(), 1e-12)
	assert.InDelta(t, 0.75, RISING_DENSITY.Eval(0.25), 1e-12)
	assert.InDelta(t, 1.125, RISING_DENSITY.Eval(0.75), 1e-12)
	assert.Zero(t, PLATEAU_DENSITY.Eval(1.5))
	assert.InDelta(t, 0.5, PLATEAU_DENSITY.Eval(0.875), 1e-12)

	rng := rand.New(rand.NewSource(3))
	inPlateau := 0
	const samples = 20000
	for i := 0; i < samples; i++ {
		x := PLATEAU_DENSITY.RejectionSample(rng)
		require.GreaterOrEqual(t, x, 0.0)
		require.LessOrEqual(t, x, 1.0)
		if x >= 0.25 && x < 0.75 {
			inPlateau++
		}
	}
	// the plateau holds 0.5 of a total mass of 0.75
	assert.InDelta(t, 2.0/3, float64(inPlateau)/samples, 0.03)

	testCases := []struct {
		name         string
		breakpoints  []float64
		coefficients [][]float64
	}{
		{"negative piece", []float64{0, 1}, [][]float64{{-1, 1}}},
		{"cubic piece", []float64{0, 1}, [][]float64{{0, 0, 0, 1}}},
		{"unordered breakpoints", []float64{0, 0.5, 0.4}, [][]float64{{1}, {1}}},
		{"piece count mismatch", []float64{0, 1}, [][]float64{{1}, {1}}},
		{"zero density", []float64{0, 1}, [][]float64{{0}}},
		{"negative quadratic vertex", []float64{0, 1}, [][]float64{{0.1, -1, 1}}},
	}
	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPiecewisePolynomial(tt.breakpoints, tt.coefficients)
			assert.ErrorIs(t, err, ErrInvalidDensity)
		})
	}
}

func TestMixtureValidation(t *testing.T) {
	single := NewThresholdRounding(SINGLE_THRESHOLD, UniformPermutation, SingleRadius)
	desc := NewThresholdRounding(DESCENDING_THRESHOLD, UniformPermutation, DescendingRadii(0.6))
	indep := NewThresholdRounding(INDEPENDENT_THRESHOLD, UniformPermutation, IndependentRadii(0.6))

	_, err := NewMixture3([]float64{0.5, 0.5, 0.5}, single, desc)
	assert.ErrorIs(t, err, ErrInvalidMixture)
	_, err = NewMixture3([]float64{0.5, 0.5}, single, desc)
	assert.ErrorIs(t, err, ErrInvalidMixture)
	_, err = NewMixture4([]float64{1.5, -0.5, 0, 0}, single, desc, indep)
	assert.ErrorIs(t, err, ErrInvalidMixture)

	m, err := NewMixture4([]float64{0, 0, 0, 1}, single, desc, indep)
	require.NoError(t, err)

	g := starNetwork(t)
	vectors := starVectors(t, g, []float64{0.2, 0.3, 0.5})
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 10; i++ {
		res, err := m.Round(g, vectors, rng)
		require.NoError(t, err)
		mix, ok := res.(*da.MixtureCutResult)
		require.True(t, ok)
		assert.Equal(t, INDEPENDENT_THRESHOLD, mix.Chosen)
		assert.Equal(t, MIXTURE_4, mix.GetStrategy())
	}

	params := DefaultParams()
	params.Mixture3 = []float64{0.9, 0.9, 0.9}
	_, err = RunStrategy(MIXTURE_3, g, vectors, params, rng)
	assert.ErrorIs(t, err, ErrInvalidMixture)

	_, err = RunStrategy("coin-flip", g, vectors, DefaultParams(), rng)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestEveryStrategyFindsIntegralOptimum(t *testing.T) {
	g := starNetwork(t)
	solution := &lp.FractionalSolution{Vectors: map[int][]float64{
		0: {1, 0, 0}, 1: {0, 1, 0}, 2: {0, 0, 1}, 3: {0, 0, 1},
	}, Objective: 6}
	vectors, err := NewFractionalVectors(g, solution)
	require.NoError(t, err)

	sub, subVectors, inserted, err := Subdivide(g, vectors)
	require.NoError(t, err)
	require.Zero(t, inserted)

	rng := rand.New(rand.NewSource(2024))
	for _, name := range StrategyNames() {
		t.Run(name, func(t *testing.T) {
			for trial := 0; trial < 20; trial++ {
				res, err := RunStrategy(name, sub, subVectors, DefaultParams(), rng)
				require.NoError(t, err)
				assert.Equal(t, int64(6), res.GetCost())
				assert.Equal(t, name, res.GetStrategy())
				assert.Equal(t, []int{0, 1, 2, 2}, Restrict(res.GetPartition(), g.NumberOfVertexSlots()))
			}
		})
	}
}

func TestRoundingCostNeverBelowOptimum(t *testing.T) {
	g := starNetwork(t)
	vectors := starVectors(t, g, []float64{0.2, 0.3, 0.5})
	sub, subVectors, _, err := Subdivide(g, vectors)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(99))
	for _, name := range StrategyNames() {
		for trial := 0; trial < 20; trial++ {
			res, err := RunStrategy(name, sub, subVectors, DefaultParams(), rng)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, res.GetCost(), int64(6), name)
		}
	}
}
