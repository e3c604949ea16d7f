package mincut

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
		} else {
			return "", err
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func atoi(t *testing.T, s string) int {
	t.Helper()
	v, err := strconv.Atoi(s)
	require.NoError(t, err)
	return v
}

// loadFlowInstance reads "expected source sink" followed by directed "u v capacity" arcs.
func loadFlowInstance(t *testing.T, path string) (*da.FlowNetwork, int, int, int64) {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	br := bufio.NewReader(f)
	line, err := readLine(br)
	require.NoError(t, err)
	ff := strings.Fields(line)
	expected, source, sink := atoi(t, ff[0]), atoi(t, ff[1]), atoi(t, ff[2])

	g := da.NewEmptyFlowNetwork()
	for {
		line, err = readLine(br)
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		ff = strings.Fields(line)
		if len(ff) == 0 {
			continue
		}
		u, v, c := atoi(t, ff[0]), atoi(t, ff[1]), atoi(t, ff[2])
		for _, id := range []int{u, v} {
			if !g.HasVertex(id) {
				_, err = g.AddVertex(id)
				require.NoError(t, err)
			}
		}
		_, err = g.AddDirectedEdge(u, v, int64(c))
		require.NoError(t, err)
	}
	return g, source, sink, int64(expected)
}

func TestComputeMaxflowMinCutInstances(t *testing.T) {
	files, err := filepath.Glob("testdata/*.flow")
	require.NoError(t, err)
	require.NotEmpty(t, files)

	for _, file := range files {
		t.Run(filepath.Base(file), func(t *testing.T) {
			g, sourceID, sinkID, expected := loadFlowInstance(t, file)

			pr := NewPushRelabel(g)
			mc, err := pr.ComputeMinCutByID(sourceID, sinkID)
			require.NoError(t, err)

			assert.Equal(t, expected, mc.GetMinCut())
			assert.Equal(t, expected, mc.Weight(g))
			assert.NoError(t, SanityChecks(g, mc.GetSource(), mc.GetSink()))
			assert.True(t, mc.GetFlag(mc.GetSource()))
			assert.False(t, mc.GetFlag(mc.GetSink()))
		})
	}
}

func TestComputeMaxflowMinCutUndirected(t *testing.T) {
	g, err := da.NewFlowNetwork([]int{0, 3}, 2, []da.EdgeInput{
		da.NewEdgeInput(0, 1, 3),
		da.NewEdgeInput(1, 3, 2),
		da.NewEdgeInput(0, 2, 2),
		da.NewEdgeInput(2, 3, 3),
		da.NewEdgeInput(1, 2, 1),
	})
	require.NoError(t, err)

	pr := NewPushRelabel(g)
	mc, err := pr.ComputeMinCutByID(0, 3)
	require.NoError(t, err)

	assert.Equal(t, int64(5), mc.GetMinCut())
	assert.Equal(t, int64(5), mc.Weight(g))
	assert.Len(t, mc.GetEdges(), 2)
	assert.Len(t, mc.GetOriginals(g), 2)
	assert.Equal(t, 3, mc.GetNumNodesInSinkSide())
	require.NoError(t, SanityChecks(g, mc.GetSource(), mc.GetSink()))

	pushes, relabels := pr.GetStats()
	assert.Positive(t, pushes)
	assert.GreaterOrEqual(t, relabels, 0)

	// a second run starts from a clean flow
	mc2, err := pr.ComputeMinCutByID(3, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), mc2.GetMinCut())
}

func TestComputeMaxflowMinCutPreconditions(t *testing.T) {
	g, err := da.NewFlowNetwork([]int{0, 4}, 2, []da.EdgeInput{
		da.NewEdgeInput(0, 1, 1),
		da.NewEdgeInput(1, 2, 1),
		da.NewEdgeInput(2, 3, 1),
		da.NewEdgeInput(3, 4, 1),
	})
	require.NoError(t, err)
	pr := NewPushRelabel(g)

	s, _ := g.VertexIndex(0)
	_, err = pr.ComputeMaxflowMinCut(s, s)
	assert.ErrorIs(t, err, ErrSourceEqualsSink)

	_, err = pr.ComputeMinCutByID(9, 4)
	assert.ErrorIs(t, err, ErrSourceNotFound)
	_, err = pr.ComputeMinCutByID(0, 9)
	assert.ErrorIs(t, err, ErrSinkNotFound)

	two, _ := g.VertexIndex(2)
	require.NoError(t, g.RemoveVertex(2))
	_, err = pr.ComputeMaxflowMinCut(two, s)
	assert.ErrorIs(t, err, ErrSourceNotFound)
	_, err = pr.ComputeMaxflowMinCut(s, two)
	assert.ErrorIs(t, err, ErrSinkNotFound)

	// path is broken at 2
	mc, err := pr.ComputeMinCutByID(0, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(0), mc.GetMinCut())
	assert.Empty(t, mc.GetEdges())
}

func TestComputeMaxflowMinCutRandomDuality(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 30; trial++ {
		n := 6 + rng.Intn(10)
		edges := make([]da.EdgeInput, 0)
		for u := 0; u < n; u++ {
			// spanning path so every vertex exists
			if u+1 < n {
				edges = append(edges, da.NewEdgeInput(u, u+1, int64(rng.Intn(10))))
			}
			for v := u + 2; v < n; v++ {
				if rng.Float64() < 0.3 {
					edges = append(edges, da.NewEdgeInput(u, v, int64(1+rng.Intn(20))))
				}
			}
		}
		g, err := da.NewFlowNetwork([]int{0, n - 1}, 2, edges)
		require.NoError(t, err)

		pr := NewPushRelabel(g)
		mc, err := pr.ComputeMinCutByID(0, n-1)
		require.NoError(t, err)

		require.NoError(t, SanityChecks(g, mc.GetSource(), mc.GetSink()), "trial %d", trial)
		assert.Equal(t, mc.GetMinCut(), mc.Weight(g), "trial %d", trial)

		partition := make([]int, g.NumberOfVertexSlots())
		for u := range partition {
			if !mc.GetFlag(da.Index(u)) {
				partition[u] = 1
			}
		}
		assert.Equal(t, mc.GetMinCut(), g.CutCost(partition), "trial %d", trial)
	}
}

func TestComputeMaxflowMinCutTiesKeepSourceSideMinimal(t *testing.T) {
	// both edges are minimum cuts; the reported one is nearest to the source
	g, err := da.NewFlowNetwork([]int{0, 2}, 2, []da.EdgeInput{
		da.NewEdgeInput(0, 1, 2),
		da.NewEdgeInput(1, 2, 2),
	})
	require.NoError(t, err)

	pr := NewPushRelabel(g)
	mc, err := pr.ComputeMinCutByID(0, 2)
	require.NoError(t, err)

	one, _ := g.VertexIndex(1)
	assert.Equal(t, int64(2), mc.GetMinCut())
	assert.Equal(t, mc.GetMinCut(), mc.Weight(g))
	assert.False(t, mc.GetFlag(one))
	assert.Equal(t, 2, mc.GetNumNodesInSinkSide())
	assert.Len(t, mc.GetOriginals(g), 1)
}

func TestSanityChecksDetectsInvalidFlow(t *testing.T) {
	g, err := da.NewFlowNetwork([]int{0, 2}, 2, []da.EdgeInput{
		da.NewEdgeInput(0, 1, 2),
		da.NewEdgeInput(1, 2, 1),
	})
	require.NoError(t, err)
	s, _ := g.VertexIndex(0)
	sink, _ := g.VertexIndex(2)
	one, _ := g.VertexIndex(1)

	e, _ := g.FindEdge(s, one)
	g.GetEdge(e).SetFlow(3)
	assert.Error(t, SanityChecks(g, s, sink))

	g.GetEdge(e).SetFlow(2)
	assert.Error(t, SanityChecks(g, s, sink), "vertex 1 holds excess")

	g.ResetFlow()
	assert.Error(t, SanityChecks(g, s, sink), "zero flow leaves an augmenting path")
}
