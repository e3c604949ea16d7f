package mincut

import (
	"fmt"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
)

// SanityChecks validates a flow left on graph by ComputeMaxflowMinCut: capacity bounds on every arc,
// conservation at every vertex but s and t, and no augmenting path from s to t.
func SanityChecks(graph *da.FlowNetwork, s, t da.Index) error {
	nodeflow := make([]int64, graph.NumberOfVertexSlots())
	var err error
	graph.ForEachEdge(func(e *da.FlowEdge) {
		if err != nil {
			return
		}
		if e.GetFlow() < 0 || e.GetFlow() > e.GetCapacity() {
			err = fmt.Errorf("flow %d on arc %d->%d outside [0, %d]", e.GetFlow(),
				graph.VertexID(e.GetFrom()), graph.VertexID(e.GetTo()), e.GetCapacity())
			return
		}
		nodeflow[e.GetFrom()] -= e.GetFlow()
		nodeflow[e.GetTo()] += e.GetFlow()
	})
	if err != nil {
		return err
	}

	graph.ForEachVertex(func(u da.Index, v *da.FlowVertex) {
		if err != nil || u == s || u == t {
			return
		}
		if nodeflow[u] != 0 {
			err = fmt.Errorf("vertex %d does not have its inflow equal to its outflow (difference %d)", v.GetID(), nodeflow[u])
		}
	})
	if err != nil {
		return err
	}

	if graph.Reachable([]da.Index{s}, da.ResidualFilter)[t] {
		return fmt.Errorf("found an augmenting path from %d to %d; flow is not maximum", graph.VertexID(s), graph.VertexID(t))
	}
	return nil
}
