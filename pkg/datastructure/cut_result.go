package datastructure

// CutResult is the outcome of one multiway cut strategy run. The set of implementations is closed:
// FlowCutResult, ThresholdCutResult and MixtureCutResult.
type CutResult interface {
	GetStrategy() string
	GetCost() int64
	// GetPartition maps vertex handles to partition indices 0..k-1.
	GetPartition() []int
	isCutResult()
}

// FlowCutResult is produced by the min-cut based strategies (isolation heuristic, local search).
type FlowCutResult struct {
	Strategy   string  `json:"strategy"`
	Cost       int64   `json:"cost"`
	Partition  []int   `json:"-"`
	CutWeights []int64 `json:"cut_weights,omitempty"` // per-terminal isolating cut weights
	Discarded  int     `json:"discarded"`             // terminal position of the dropped cut, -1 if none
	PassCosts  []int64 `json:"pass_costs,omitempty"`  // best cost after each local search pass
}

func (r *FlowCutResult) GetStrategy() string { return r.Strategy }
func (r *FlowCutResult) GetCost() int64      { return r.Cost }
func (r *FlowCutResult) GetPartition() []int { return r.Partition }
func (*FlowCutResult) isCutResult()          {}

// ThresholdCutResult is produced by a single rounding scheme: exponential clocks or a threshold rounding.
type ThresholdCutResult struct {
	Strategy    string    `json:"strategy"`
	Cost        int64     `json:"cost"`
	Partition   []int     `json:"-"`
	Permutation []int     `json:"permutation,omitempty"`
	Radii       []float64 `json:"radii,omitempty"`
	Clocks      []float64 `json:"clocks,omitempty"`
}

func (r *ThresholdCutResult) GetStrategy() string { return r.Strategy }
func (r *ThresholdCutResult) GetCost() int64      { return r.Cost }
func (r *ThresholdCutResult) GetPartition() []int { return r.Partition }
func (*ThresholdCutResult) isCutResult()          {}

// MixtureCutResult is produced by strategies composing several schemes: a mixture picks one scheme per
// trial, a best-of runs all of them and keeps the cheapest.
type MixtureCutResult struct {
	Strategy string           `json:"strategy"`
	Chosen   string           `json:"chosen"`
	Costs    map[string]int64 `json:"costs,omitempty"`
	Inner    CutResult        `json:"inner"`
}

func (r *MixtureCutResult) GetStrategy() string { return r.Strategy }
func (r *MixtureCutResult) GetCost() int64      { return r.Inner.GetCost() }
func (r *MixtureCutResult) GetPartition() []int { return r.Inner.GetPartition() }
func (*MixtureCutResult) isCutResult()          {}
