package jobs

// JobQueue provides an abstraction for enqueueing background jobs
type JobQueue interface {
	EnqueuePrefetch(count int) error
	EnqueueReplay() error
}
