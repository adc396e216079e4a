package jobs_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sentencease/client/internal/gateway"
	"github.com/sentencease/client/internal/jobs"
	"github.com/sentencease/client/internal/testutil/mocks"
	"github.com/sentencease/client/internal/worker"
)

func TestEnqueuePrefetchRunsCacheWords(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := make(chan struct{})
	gw := new(mocks.MockGateway)
	gw.On("CacheWords", mock.Anything, 20).Return(20, nil).Run(func(mock.Arguments) {
		close(ran)
	})

	pool := worker.NewPool(1, 4)
	pool.Start(ctx)
	queue := jobs.NewWorkerQueue(pool, gw)

	require.NoError(t, queue.EnqueuePrefetch(20))

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("prefetch job never ran")
	}
	gw.AssertExpectations(t)
}

func TestEnqueueReplayRunsSync(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ran := make(chan struct{})
	gw := new(mocks.MockGateway)
	gw.On("SyncPendingReviews", mock.Anything).Return(gateway.SyncResult{Synced: 2}, nil).Run(func(mock.Arguments) {
		close(ran)
	})

	pool := worker.NewPool(1, 4)
	pool.Start(ctx)
	queue := jobs.NewWorkerQueue(pool, gw)

	require.NoError(t, queue.EnqueueReplay())

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("replay job never ran")
	}
	gw.AssertExpectations(t)
}
