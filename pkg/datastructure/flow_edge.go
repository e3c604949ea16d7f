package datastructure

type Index uint32

const INVALID_INDEX = Index(^uint32(0))

// FlowEdge is a directed arc owned by its tail vertex. Residual capacity forward is capacity-flow,
// backward (head to tail) it is flow.
type FlowEdge struct {
	id       Index
	from     Index
	to       Index
	capacity int64
	flow     int64
	original Index // cost identity, shared by twin arcs and subdivided pieces
	twin     Index // opposite arc of an undirected edge, INVALID_INDEX for directed-only arcs
	removed  bool
}

func NewFlowEdge(id, from, to Index, capacity int64, original, twin Index) FlowEdge {
	return FlowEdge{
		id:       id,
		from:     from,
		to:       to,
		capacity: capacity,
		original: original,
		twin:     twin,
	}
}

func (e *FlowEdge) GetID() Index {
	return e.id
}

func (e *FlowEdge) GetFrom() Index {
	return e.from
}

func (e *FlowEdge) GetTo() Index {
	return e.to
}

func (e *FlowEdge) GetCapacity() int64 {
	return e.capacity
}

func (e *FlowEdge) GetFlow() int64 {
	return e.flow
}

func (e *FlowEdge) SetFlow(flow int64) {
	e.flow = flow
}

func (e *FlowEdge) AddFlow(f int64) {
	e.flow += f
}

func (e *FlowEdge) Residual() int64 {
	return e.capacity - e.flow
}

func (e *FlowEdge) GetOriginal() Index {
	return e.original
}

func (e *FlowEdge) GetTwin() Index {
	return e.twin
}

func (e *FlowEdge) HasTwin() bool {
	return e.twin != INVALID_INDEX
}

func (e *FlowEdge) IsRemoved() bool {
	return e.removed
}

// OriginalEdge is the pre-subdivision undirected (or directed) edge that cut cost is charged to.
type OriginalEdge struct {
	u, v     int // caller vertex ids
	capacity int64
}

func (oe OriginalEdge) GetEndpoints() (int, int) {
	return oe.u, oe.v
}

func (oe OriginalEdge) GetCapacity() int64 {
	return oe.capacity
}

type FlowVertex struct {
	id      int // caller assigned id
	out     []Index
	in      []Index // back references for residual traversal
	removed bool
}

func NewFlowVertex(id int) FlowVertex {
	return FlowVertex{
		id:  id,
		out: make([]Index, 0, 4),
		in:  make([]Index, 0, 4),
	}
}

func (v *FlowVertex) GetID() int {
	return v.id
}

func (v *FlowVertex) GetOutEdges() []Index {
	return v.out
}

func (v *FlowVertex) GetInEdges() []Index {
	return v.in
}

func (v *FlowVertex) IsRemoved() bool {
	return v.removed
}

func removeIndex(list []Index, e Index) []Index {
	for i, x := range list {
		if x == e {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}
