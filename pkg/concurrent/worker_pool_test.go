package concurrent

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorkerPool(t *testing.T) {
	wp := NewWorkerPool[int, int](3, 10)
	wp.Start(context.Background(), func(_ context.Context, job int) int {
		return job * job
	})
	for i := 1; i <= 10; i++ {
		wp.AddJob(i)
	}
	wp.Close()
	wp.Wait()

	sum := 0
	for r := range wp.CollectResults() {
		sum += r
	}
	assert.Equal(t, 385, sum)
}

func TestRunKeepsJobOrder(t *testing.T) {
	var calls atomic.Int32
	jobs := []string{"a", "bb", "ccc", "dddd"}
	out := Run(context.Background(), 2, jobs, func(_ context.Context, s string) int {
		calls.Add(1)
		return len(s)
	})
	assert.Equal(t, []int{1, 2, 3, 4}, out)
	assert.Equal(t, int32(4), calls.Load())

	assert.Empty(t, Run(context.Background(), 0, []int{}, func(_ context.Context, i int) int { return i }))
}

func TestRunPassesContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out := Run(ctx, 4, []int{1, 2, 3}, func(ctx context.Context, i int) error {
		return ctx.Err()
	})
	for _, err := range out {
		assert.ErrorIs(t, err, context.Canceled)
	}
}
