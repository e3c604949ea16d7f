package localsearch

import (
	"errors"
	"fmt"

	"github.com/ablochha/multiwaycut/pkg"
	da "github.com/ablochha/multiwaycut/pkg/datastructure"
	"github.com/ablochha/multiwaycut/pkg/isolation"
	"golang.org/x/exp/rand"
)

const (
	PROXIMITY   = "proximity"
	RANDOM      = "random"
	ISOLATION   = "isolation"
	FROM_LABELS = "labels"
)

var (
	ErrUnknownInitializer = errors.New("localsearch: unknown initializer")
	ErrInvalidLabelling   = errors.New("localsearch: invalid labelling")
)

// Initializer produces the starting labelling, indexed by vertex handle.
type Initializer interface {
	Name() string
	Initialize(net *da.FlowNetwork) ([]int, error)
}

// NewInitializer resolves an initializer by name. rng is only used by "random".
func NewInitializer(name string, rng *rand.Rand) (Initializer, error) {
	switch name {
	case PROXIMITY:
		return Proximity{}, nil
	case RANDOM:
		if rng == nil {
			rng = rand.New(rand.NewSource(0))
		}
		return &Random{rng: rng}, nil
	case ISOLATION:
		return Isolation{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownInitializer, name)
}

func InitializerNames() []string {
	return []string{PROXIMITY, RANDOM, ISOLATION}
}

// Proximity labels every vertex with its nearest terminal in hops, ties to the lower terminal index.
// Vertices unreachable from every terminal get label 0.
type Proximity struct{}

func (Proximity) Name() string { return PROXIMITY }

func (Proximity) Initialize(net *da.FlowNetwork) ([]int, error) {
	labels := terminalLabels(net)
	labels, _ = net.PropagateLabelsFrom(net.GetTerminalIndices(), labels, da.UndirectedFilter)
	for i := range labels {
		if labels[i] == pkg.INVALID_LABEL {
			labels[i] = 0
		}
	}
	return labels, nil
}

// Random labels every non-terminal uniformly at random.
type Random struct {
	rng *rand.Rand
}

func NewRandom(rng *rand.Rand) *Random {
	return &Random{rng: rng}
}

func (*Random) Name() string { return RANDOM }

func (r *Random) Initialize(net *da.FlowNetwork) ([]int, error) {
	labels := terminalLabels(net)
	k := net.GetK()
	net.ForEachVertex(func(u da.Index, _ *da.FlowVertex) {
		if labels[u] == pkg.INVALID_LABEL {
			labels[u] = r.rng.Intn(k)
		}
	})
	for i := range labels {
		if labels[i] == pkg.INVALID_LABEL {
			labels[i] = 0
		}
	}
	return labels, nil
}

// Isolation starts from the labelling of the isolation heuristic.
type Isolation struct{}

func (Isolation) Name() string { return ISOLATION }

func (Isolation) Initialize(net *da.FlowNetwork) ([]int, error) {
	res, err := isolation.Run(net)
	if err != nil {
		return nil, err
	}
	return isolation.Labelling(net, res), nil
}

// FromLabels starts from a given labelling, e.g. the partition of a rounding trial.
type FromLabels struct {
	labels []int
}

func NewFromLabels(labels []int) *FromLabels {
	return &FromLabels{labels: labels}
}

func (*FromLabels) Name() string { return FROM_LABELS }

func (f *FromLabels) Initialize(net *da.FlowNetwork) ([]int, error) {
	if len(f.labels) < net.NumberOfVertexSlots() {
		return nil, fmt.Errorf("%w: %d labels for %d vertex slots", ErrInvalidLabelling, len(f.labels), net.NumberOfVertexSlots())
	}
	return append([]int(nil), f.labels[:net.NumberOfVertexSlots()]...), nil
}

func terminalLabels(net *da.FlowNetwork) []int {
	labels := make([]int, net.NumberOfVertexSlots())
	for i := range labels {
		labels[i] = pkg.INVALID_LABEL
	}
	for i, t := range net.GetTerminalIndices() {
		labels[t] = i
	}
	return labels
}

func validateLabelling(net *da.FlowNetwork, labels []int) error {
	if len(labels) < net.NumberOfVertexSlots() {
		return fmt.Errorf("%w: %d labels for %d vertex slots", ErrInvalidLabelling, len(labels), net.NumberOfVertexSlots())
	}
	var err error
	net.ForEachVertex(func(u da.Index, v *da.FlowVertex) {
		if err != nil {
			return
		}
		if labels[u] < 0 || labels[u] >= net.GetK() {
			err = fmt.Errorf("%w: vertex %d has label %d, k=%d", ErrInvalidLabelling, v.GetID(), labels[u], net.GetK())
			return
		}
		if t, ok := net.TerminalPosition(u); ok && labels[u] != t {
			err = fmt.Errorf("%w: terminal %d has label %d, want %d", ErrInvalidLabelling, v.GetID(), labels[u], t)
		}
	})
	return err
}
