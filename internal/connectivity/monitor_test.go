package connectivity_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentencease/client/internal/connectivity"
	"github.com/sentencease/client/internal/gateway"
)

// stubSyncer counts replay invocations and can block to simulate a
// long-running replay.
type stubSyncer struct {
	calls   atomic.Int32
	release chan struct{}
}

func (s *stubSyncer) SyncPendingReviews(context.Context) (gateway.SyncResult, error) {
	s.calls.Add(1)
	if s.release != nil {
		<-s.release
	}
	return gateway.SyncResult{}, nil
}

type stubPinger struct {
	mu  sync.Mutex
	err error
}

func (p *stubPinger) Ping(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *stubPinger) setErr(err error) {
	p.mu.Lock()
	p.err = err
	p.mu.Unlock()
}

func TestStartsOnline(t *testing.T) {
	m := connectivity.NewMonitor(&stubSyncer{})
	assert.True(t, m.IsOnline())
}

func TestRestoredConnectionTriggersReplay(t *testing.T) {
	syncer := &stubSyncer{}
	m := connectivity.NewMonitor(syncer)
	ctx := context.Background()

	m.SetOnline(ctx, false)
	require.False(t, m.IsOnline())

	m.SetOnline(ctx, true)
	require.True(t, m.IsOnline())

	require.Eventually(t, func() bool {
		return syncer.calls.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)
}

func TestRepeatedStateIsNoop(t *testing.T) {
	syncer := &stubSyncer{}
	m := connectivity.NewMonitor(syncer)
	ctx := context.Background()

	var notifications atomic.Int32
	m.Subscribe(func(bool) { notifications.Add(1) })

	// Already online: no transition, no replay.
	m.SetOnline(ctx, true)
	m.SetOnline(ctx, true)

	m.SetOnline(ctx, false)
	m.SetOnline(ctx, false)

	assert.Equal(t, int32(1), notifications.Load())
	assert.Zero(t, syncer.calls.Load())
}

func TestOverlappingReplayIsSkipped(t *testing.T) {
	syncer := &stubSyncer{release: make(chan struct{})}
	m := connectivity.NewMonitor(syncer)
	ctx := context.Background()

	m.SetOnline(ctx, false)
	m.SetOnline(ctx, true)
	require.Eventually(t, func() bool {
		return syncer.calls.Load() == 1
	}, 2*time.Second, 5*time.Millisecond)

	// Flap while the first replay is still running: the second
	// offline-to-online edge must not start another replay.
	m.SetOnline(ctx, false)
	m.SetOnline(ctx, true)

	assert.Equal(t, int32(1), syncer.calls.Load())
	close(syncer.release)

	// After the in-flight replay finishes, a fresh transition syncs again.
	require.Eventually(t, func() bool {
		m.SetOnline(ctx, false)
		m.SetOnline(ctx, true)
		return syncer.calls.Load() >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSubscribersSeeEveryTransition(t *testing.T) {
	m := connectivity.NewMonitor(&stubSyncer{})
	ctx := context.Background()

	var mu sync.Mutex
	var seen []bool
	m.Subscribe(func(online bool) {
		mu.Lock()
		seen = append(seen, online)
		mu.Unlock()
	})

	m.SetOnline(ctx, false)
	m.SetOnline(ctx, true)
	m.SetOnline(ctx, false)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{false, true, false}, seen)
}

func TestProberDrivesTransitions(t *testing.T) {
	syncer := &stubSyncer{}
	pinger := &stubPinger{}
	m := connectivity.NewMonitor(syncer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.RunProber(ctx, pinger, 5*time.Millisecond)
	}()

	pinger.setErr(errors.New("connection refused"))
	require.Eventually(t, func() bool {
		return !m.IsOnline()
	}, 2*time.Second, 5*time.Millisecond)

	pinger.setErr(nil)
	require.Eventually(t, func() bool {
		return m.IsOnline()
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		return syncer.calls.Load() >= 1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("prober did not stop on context cancellation")
	}
}
