package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/sentencease/client/internal/gateway"
	"github.com/sentencease/client/internal/logger"
)

// Syncer replays buffered review submissions. Satisfied by the gateway.
type Syncer interface {
	SyncPendingReviews(ctx context.Context) (gateway.SyncResult, error)
}

// Pinger probes backend reachability. Satisfied by the gateway.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor tracks online/offline transitions. Subscribers are notified
// on every transition, and the offline-to-online edge triggers one
// replay of the pending-review queue. An in-flight guard keeps rapid
// flapping from overlapping replays.
type Monitor struct {
	mu          sync.Mutex
	online      bool
	subscribers []func(online bool)
	syncer      Syncer
	syncing     bool
	log         *logger.Logger
}

// NewMonitor creates a monitor that starts in the online state.
func NewMonitor(syncer Syncer) *Monitor {
	return &Monitor{
		online: true,
		syncer: syncer,
		log:    logger.Default().WithPrefix("connectivity"),
	}
}

// IsOnline reports current connectivity.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Subscribe registers a transition observer. Observers run outside the
// monitor lock, once per actual transition.
func (m *Monitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	m.subscribers = append(m.subscribers, fn)
	m.mu.Unlock()
}

// SetOnline records the current connectivity. Repeated calls with the
// same value are no-ops; only a genuine transition notifies observers,
// and only the offline-to-online edge triggers a replay.
func (m *Monitor) SetOnline(ctx context.Context, online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	subscribers := make([]func(bool), len(m.subscribers))
	copy(subscribers, m.subscribers)
	m.mu.Unlock()

	if online {
		m.log.Info("connection restored")
	} else {
		m.log.Info("connection lost, reviews will be buffered")
	}

	for _, fn := range subscribers {
		fn(online)
	}

	if online {
		m.triggerSync(ctx)
	}
}

// triggerSync replays pending reviews at most once at a time.
func (m *Monitor) triggerSync(ctx context.Context) {
	m.mu.Lock()
	if m.syncing {
		m.log.Debug("replay already in flight, skipping")
		m.mu.Unlock()
		return
	}
	m.syncing = true
	m.mu.Unlock()

	go func() {
		defer func() {
			m.mu.Lock()
			m.syncing = false
			m.mu.Unlock()
		}()

		result, err := m.syncer.SyncPendingReviews(ctx)
		if err != nil {
			m.log.Warn("replay failed: %v", err)
			return
		}
		if result.Synced > 0 || result.Failed > 0 {
			m.log.Info("replay done: synced=%d failed=%d", result.Synced, result.Failed)
		}
	}()
}

// RunProber drives the monitor from periodic reachability probes,
// standing in for the browser's online/offline events. Blocks until
// ctx is cancelled.
func (m *Monitor) RunProber(ctx context.Context, pinger Pinger, interval time.Duration) {
	if interval <= 0 {
		interval = 15 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.SetOnline(ctx, pinger.Ping(ctx) == nil)
		}
	}
}
