package jobs

import (
	"github.com/sentencease/client/internal/gateway"
	"github.com/sentencease/client/internal/worker"
)

// WorkerQueue implements JobQueue using a worker pool
type WorkerQueue struct {
	pool    *worker.Pool
	gateway gateway.ClientInterface
}

// NewWorkerQueue creates a new WorkerQueue implementation
func NewWorkerQueue(pool *worker.Pool, gw gateway.ClientInterface) JobQueue {
	return &WorkerQueue{pool: pool, gateway: gw}
}

func (q *WorkerQueue) EnqueuePrefetch(count int) error {
	return q.pool.Submit(&worker.PrefetchCardsJob{Gateway: q.gateway, Count: count})
}

func (q *WorkerQueue) EnqueueReplay() error {
	return q.pool.Submit(&worker.ReplayReviewsJob{Gateway: q.gateway})
}
