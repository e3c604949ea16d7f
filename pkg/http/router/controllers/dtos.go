package controllers

import (
	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/engine"
	"github.com/ablochha/multiwaycut/pkg/http/usecases"
)

type edgeRequest struct {
	U        int   `json:"u" validate:"min=0"`
	V        int   `json:"v" validate:"min=0,nefield=U"`
	Capacity int64 `json:"capacity" validate:"min=0"`
}

type multiwayCutRequest struct {
	Terminals  []int             `json:"terminals" validate:"required,min=1,unique,dive,min=0"`
	Edges      []edgeRequest     `json:"edges" validate:"required,min=1,dive"`
	Fractional map[int][]float64 `json:"fractional,omitempty"`
	Objective  float64           `json:"objective"`
	Optimum    *int64            `json:"optimum,omitempty" validate:"omitempty,min=0"`
	Strategies []string          `json:"strategies" validate:"omitempty,dive,required"`
	Trials     int               `json:"trials" validate:"omitempty,min=1,max=100000"`
	Seed       uint64            `json:"seed"`
}

func (r *multiwayCutRequest) ToProblem() usecases.Problem {
	edges := make([]da.EdgeInput, len(r.Edges))
	for i, e := range r.Edges {
		edges[i] = da.NewEdgeInput(e.U, e.V, e.Capacity)
	}
	return usecases.Problem{
		Terminals:  r.Terminals,
		Edges:      edges,
		Fractional: r.Fractional,
		Objective:  r.Objective,
		Optimum:    r.Optimum,
		Strategies: r.Strategies,
		Trials:     r.Trials,
		Seed:       r.Seed,
	}
}

type strategySummaryResponse struct {
	Strategy string      `json:"strategy"`
	Trials   int         `json:"trials"`
	Failures int         `json:"failures"`
	BestCost int64       `json:"best_cost"`
	MeanCost float64     `json:"mean_cost"`
	Error    string      `json:"error,omitempty"`
	Labels   map[int]int `json:"labels,omitempty"`
}

type multiwayCutResponse struct {
	BestStrategy        string                    `json:"best_strategy"`
	BestCost            int64                     `json:"best_cost"`
	Labels              map[int]int               `json:"labels"`
	FractionalObjective *float64                  `json:"fractional_objective,omitempty"`
	Optimum             *int64                    `json:"optimum,omitempty"`
	SubdividedVertices  int                       `json:"subdivided_vertices"`
	Strategies          []strategySummaryResponse `json:"strategies"`
}

func NewMultiwayCutResponse(report *engine.Report) multiwayCutResponse {
	resp := multiwayCutResponse{
		BestStrategy:        report.BestStrategy,
		BestCost:            report.BestCost,
		Labels:              report.Labels,
		FractionalObjective: report.FractionalObjective,
		Optimum:             report.Optimum,
		SubdividedVertices:  report.SubdividedVertices,
		Strategies:          make([]strategySummaryResponse, 0, len(report.Summaries)),
	}
	for _, s := range report.Summaries {
		resp.Strategies = append(resp.Strategies, strategySummaryResponse{
			Strategy: s.Strategy,
			Trials:   s.Trials,
			Failures: s.Failures,
			BestCost: s.BestCost,
			MeanCost: s.MeanCost,
			Error:    s.FirstErr,
			Labels:   s.Labels,
		})
	}
	return resp
}

type trialResponse struct {
	Strategy string `json:"strategy"`
	Trial    int    `json:"trial"`
	Cost     int64  `json:"cost"`
	Error    string `json:"error,omitempty"`
}

func NewTrialResponse(tr engine.TrialResult) trialResponse {
	return trialResponse{Strategy: tr.Strategy, Trial: tr.Trial, Cost: tr.Cost, Error: tr.Err}
}

type strategiesResponse struct {
	Strategies []string `json:"strategies"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}
