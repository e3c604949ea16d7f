package pkg

import "time"

const (
	INF_CAPACITY int64 = 1e15

	// coordinates closer than EPSILON are treated as equal
	EPSILON = 1e-9

	INVALID_LABEL = -1
)

const (
	DEFAULT_TRIALS          = 100
	DEFAULT_WORKERS         = 4
	DEFAULT_THRESHOLD_BOUND = 0.6
	DEFAULT_LOCAL_SEARCH    = "proximity"
	PROGRESS_LOG_INTERVAL   = 2 * time.Second
)

var (
	// exponential clocks, single threshold, descending threshold
	DEFAULT_MIXTURE3 = []float64{0.3, 0.3, 0.4}
	// exponential clocks, single threshold, descending threshold, independent threshold
	DEFAULT_MIXTURE4 = []float64{0.25, 0.25, 0.25, 0.25}
)
