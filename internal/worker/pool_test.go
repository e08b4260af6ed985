package worker_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/posturelab/postura/internal/model"
	"github.com/posturelab/postura/internal/worker"
)

func TestPoolRunsTasks(t *testing.T) {
	t.Parallel()

	pool := worker.NewPool(2, 8)
	pool.Start()

	var ran atomic.Int32
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(func() {
			ran.Add(1)
		}))
	}

	pool.Stop()
	require.Equal(t, int32(5), ran.Load())
}

func TestPoolBackpressure(t *testing.T) {
	t.Parallel()

	pool := worker.NewPool(1, 1)
	pool.Start()

	// Occupy the single worker.
	block := make(chan struct{})
	started := make(chan struct{})
	require.NoError(t, pool.Submit(func() {
		close(started)
		<-block
	}))
	<-started

	// Fill the queue.
	require.NoError(t, pool.Submit(func() {}))

	// Capacity is exhausted: the next submission is rejected, not queued.
	err := pool.Submit(func() {})
	require.ErrorIs(t, err, model.ErrQueueFull)
	require.Equal(t, 1, pool.QueueLength())

	close(block)
	pool.Stop()
}

func TestPoolStopDrainsQueuedTasks(t *testing.T) {
	t.Parallel()

	pool := worker.NewPool(1, 4)
	pool.Start()

	var ran atomic.Int32
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.Submit(func() {
			time.Sleep(5 * time.Millisecond)
			ran.Add(1)
		}))
	}

	pool.Stop()
	require.Equal(t, int32(4), ran.Load())
}

func TestPoolRejectsAfterStop(t *testing.T) {
	t.Parallel()

	pool := worker.NewPool(1, 1)
	pool.Start()
	pool.Stop()

	err := pool.Submit(func() {})
	require.ErrorIs(t, err, model.ErrQueueFull)
}
