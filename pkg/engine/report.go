package engine

import (
	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/util"
)

// TrialResult is the outcome of one trial of one strategy. Flow strategies run a single trial.
type TrialResult struct {
	Strategy string       `json:"strategy"`
	Trial    int          `json:"trial"`
	Cost     int64        `json:"cost"`
	Err      string       `json:"error,omitempty"`
	Result   da.CutResult `json:"-"`
}

func (tr TrialResult) Failed() bool {
	return tr.Result == nil
}

// TrialObserver is called once per finished trial, possibly from several goroutines at once.
type TrialObserver func(TrialResult)

type StrategySummary struct {
	Strategy  string       `json:"strategy"`
	Trials    int          `json:"trials"`
	Failures  int          `json:"failures"`
	BestCost  int64        `json:"best_cost"`
	MeanCost  float64      `json:"mean_cost"`
	FirstErr  string       `json:"first_error,omitempty"`
	Labels    map[int]int  `json:"labels,omitempty"` // vertex id -> partition of the best trial
	Best      da.CutResult `json:"best,omitempty"`
	bestTrial int
}

func (s *StrategySummary) Succeeded() bool {
	return s.Trials > s.Failures
}

type Report struct {
	Summaries           []*StrategySummary `json:"summaries"`
	BestStrategy        string             `json:"best_strategy,omitempty"`
	BestCost            int64              `json:"best_cost"`
	Labels              map[int]int        `json:"labels,omitempty"`
	FractionalObjective *float64           `json:"fractional_objective,omitempty"`
	Optimum             *int64             `json:"optimum,omitempty"`
	SubdividedVertices  int                `json:"subdivided_vertices"`
}

// summarize folds trials (in trial order) into a summary. The best trial is the cheapest, the earliest
// on ties.
func summarize(name string, net *da.FlowNetwork, trials []TrialResult) *StrategySummary {
	s := &StrategySummary{Strategy: name, Trials: len(trials), BestCost: -1, bestTrial: -1}
	costs := make([]int64, 0, len(trials))
	for _, tr := range trials {
		if tr.Failed() {
			s.Failures++
			if s.FirstErr == "" {
				s.FirstErr = tr.Err
			}
			continue
		}
		costs = append(costs, tr.Cost)
		if s.bestTrial < 0 || tr.Cost < s.BestCost {
			s.BestCost = tr.Cost
			s.Best = tr.Result
			s.bestTrial = tr.Trial
		}
	}
	s.MeanCost = util.Mean(costs...)
	if s.Best != nil {
		s.Labels = labelsByID(net, s.Best.GetPartition())
	}
	return s
}

// labelsByID maps the partition of the vertices of net, ignoring vertices added by subdivision.
func labelsByID(net *da.FlowNetwork, partition []int) map[int]int {
	labels := make(map[int]int, net.NumberOfVertices())
	net.ForEachVertex(func(u da.Index, v *da.FlowVertex) {
		if int(u) < len(partition) {
			labels[v.GetID()] = partition[u]
		}
	})
	return labels
}

func (r *Report) pickBest() {
	r.BestCost = -1
	for _, s := range r.Summaries {
		if !s.Succeeded() {
			continue
		}
		if r.BestCost < 0 || s.BestCost < r.BestCost {
			r.BestCost = s.BestCost
			r.BestStrategy = s.Strategy
			r.Labels = s.Labels
		}
	}
}

// Summary returns the summary of the named strategy, nil when it was not run.
func (r *Report) Summary(name string) *StrategySummary {
	for _, s := range r.Summaries {
		if s.Strategy == name {
			return s
		}
	}
	return nil
}
