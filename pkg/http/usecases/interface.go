package usecases

import (
	"context"

	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/engine"
)

// CutEngine is the part of engine.Engine the service drives.
type CutEngine interface {
	SetObserver(observer engine.TrialObserver)
	Run(ctx context.Context, strategies []string) (*engine.Report, error)
	GetNetwork() *da.FlowNetwork
}
