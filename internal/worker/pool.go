package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sentencease/client/internal/logger"
)

// ErrQueueFull is returned when a job cannot be enqueued.
var ErrQueueFull = errors.New("worker: job queue is full")

type Job interface {
	Run(context.Context) error
	Name() string
}

// Pool runs best-effort background jobs (cache prefetch, queue replay)
// off the interactive review path.
type Pool struct {
	jobs    chan Job
	wg      sync.WaitGroup
	workers int
	log     *logger.Logger
}

func NewPool(workers, queueSize int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 16
	}
	log := logger.Default().WithPrefix("worker-pool")
	log.Debug("creating worker pool with %d workers and queue size %d", workers, queueSize)
	return &Pool{
		jobs:    make(chan Job, queueSize),
		workers: workers,
		log:     log,
	}
}

func (p *Pool) Start(ctx context.Context) {
	p.log.Debug("starting worker pool with %d workers", p.workers)

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go func(id int) {
			defer p.wg.Done()
			workerLog := p.log.WithField("worker_id", id)

			for {
				select {
				case <-ctx.Done():
					workerLog.Debug("worker shutting down (context cancelled)")
					return
				case job, ok := <-p.jobs:
					if !ok {
						workerLog.Debug("worker shutting down (queue closed)")
						return
					}

					jobLog := workerLog.WithField("job", job.Name())
					start := time.Now()

					jobCtx := logger.NewContext(ctx, jobLog)
					if err := job.Run(jobCtx); err != nil {
						jobLog.Warn("job failed after %v: %v", time.Since(start), err)
					} else {
						jobLog.Debug("job completed in %v", time.Since(start))
					}
				}
			}
		}(i + 1)
	}
}

// Submit enqueues a job without blocking. Background jobs are
// best-effort, so a full queue drops the job rather than stalling the
// caller.
func (p *Pool) Submit(job Job) error {
	select {
	case p.jobs <- job:
		return nil
	default:
		p.log.Warn("job queue full, dropping job %s", job.Name())
		return ErrQueueFull
	}
}

// Stop waits for in-flight jobs to finish. The pool's context must be
// cancelled first.
func (p *Pool) Stop() {
	p.wg.Wait()
	p.log.Debug("worker pool stopped")
}
