package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentencease/client/internal/worker"
)

type countingJob struct {
	runs  atomic.Int32
	block chan struct{}
}

func (j *countingJob) Name() string { return "counting" }

func (j *countingJob) Run(context.Context) error {
	j.runs.Add(1)
	if j.block != nil {
		<-j.block
	}
	return nil
}

func TestPoolRunsSubmittedJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool := worker.NewPool(2, 8)
	pool.Start(ctx)

	job := &countingJob{}
	for i := 0; i < 5; i++ {
		require.NoError(t, pool.Submit(job))
	}

	require.Eventually(t, func() bool {
		return job.runs.Load() == 5
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	pool.Stop()
}

func TestSubmitDropsWhenQueueIsFull(t *testing.T) {
	// Pool is never started, so the queue only drains by capacity.
	pool := worker.NewPool(1, 2)

	job := &countingJob{}
	require.NoError(t, pool.Submit(job))
	require.NoError(t, pool.Submit(job))

	assert.ErrorIs(t, pool.Submit(job), worker.ErrQueueFull)
}

func TestStopWaitsForInflightJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	pool := worker.NewPool(1, 2)
	pool.Start(ctx)

	job := &countingJob{block: make(chan struct{})}
	require.NoError(t, pool.Submit(job))
	require.Eventually(t, func() bool {
		return job.runs.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	close(job.block)

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("pool did not stop after workers drained")
	}
}
