package controllers

import (
	"context"

	"github.com/ablochha/multiwaycut/pkg/engine"
	"github.com/ablochha/multiwaycut/pkg/http/usecases"
)

type MultiwayCutService interface {
	Solve(ctx context.Context, p usecases.Problem, observer engine.TrialObserver) (*engine.Report, error)
	Strategies() []string
}
