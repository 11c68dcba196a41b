package task

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/H1ghBre4k3r/message-passing/core/metrics"
)

type recordingMetrics struct {
	mu        sync.Mutex
	spawned   map[string]int
	completed map[Outcome]int
	sent      map[bool]int
	received  int
	timeouts  int
	maxInUse  int
	schedOK   int
	schedFail int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{
		spawned:   make(map[string]int),
		completed: make(map[Outcome]int),
		sent:      make(map[bool]int),
	}
}

func (m *recordingMetrics) TaskSpawned(kind string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.spawned[kind]++
}

func (m *recordingMetrics) TaskCompleted(_ string, outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed[outcome]++
}

func (m *recordingMetrics) TaskDuration(string) metrics.Timer { return metrics.NopTimer() }

func (m *recordingMetrics) MessageSent(_ string, delivered bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[delivered]++
}

func (m *recordingMetrics) MessageReceived(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.received++
}

func (m *recordingMetrics) ReceiveTimeout(string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.timeouts++
}

func (m *recordingMetrics) SchedulerInflight(_ string, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxInUse = max(m.maxInUse, count)
}

func (m *recordingMetrics) SchedulerTaskDuration() metrics.Timer { return metrics.NopTimer() }

func (m *recordingMetrics) SchedulerTaskCompleted(success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if success {
		m.schedOK++
	} else {
		m.schedFail++
	}
}

var _ Metrics = (*recordingMetrics)(nil)

func TestScheduler_bounded(t *testing.T) {
	const limit = 2
	m := newRecordingMetrics()
	s := NewSchedulerWithMetrics(limit, t.Context(), "bounded", m)

	var (
		running atomic.Int32
		peak    atomic.Int32
	)
	for i := 0; i < 10; i++ {
		s.Schedule(func() {
			n := running.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		}, nil)
	}
	s.Wait()

	require.LessOrEqual(t, peak.Load(), int32(limit))
	require.Equal(t, 10, m.schedOK)
	require.LessOrEqual(t, m.maxInUse, limit)
}

func TestScheduler_panic_contained(t *testing.T) {
	m := newRecordingMetrics()
	s := NewSchedulerWithMetrics(0, t.Context(), "", m)

	s.Schedule(func() { panic("boom") }, nil)
	s.Wait()

	require.Equal(t, 1, m.schedFail)
}

func TestScheduler_dropped(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	s := NewScheduler(1, ctx)

	block := make(chan struct{})
	started := make(chan struct{})
	s.Schedule(func() {
		close(started)
		<-block
	}, nil)
	<-started

	dropped := make(chan struct{})
	ran := false
	s.Schedule(func() { ran = true }, func() { close(dropped) })

	cancel()
	select {
	case <-dropped:
	case <-time.After(time.Second):
		t.Fatal("timeout")
	}

	close(block)
	s.Wait()
	require.False(t, ran)
}

func TestSpawn_bounded_scheduler(t *testing.T) {
	s := NewScheduler(1, t.Context())

	h1 := Spawn(sumOf(2), WithScheduler(s))
	h2 := Spawn(sumOf(2), WithScheduler(s))

	// one task runs at a time; messages for the waiting one stay queued
	for _, v := range []int{1, 2} {
		require.NoError(t, h2.Send(v*10))
		require.NoError(t, h1.Send(v))
	}

	r1, err := h1.Join(t.Context())
	require.NoError(t, err)
	r2, err := h2.Join(t.Context())
	require.NoError(t, err)

	require.Equal(t, 3, r1)
	require.Equal(t, 30, r2)
	s.Wait()
}

func TestSpawn_metrics(t *testing.T) {
	m := newRecordingMetrics()

	h := Spawn(sumOf(3), WithMetrics(m), WithName("sum"))
	for _, v := range []int{10, 20, 30} {
		require.NoError(t, h.Send(v))
	}
	_, err := h.Join(t.Context())
	require.NoError(t, err)
	require.Error(t, h.Send(40))

	p := Spawn(func(*Mailbox[int]) int { panic("boom") }, WithMetrics(m))
	_, err = p.Join(t.Context())
	require.Error(t, err)

	m.mu.Lock()
	defer m.mu.Unlock()
	require.Equal(t, 1, m.spawned["sum"])
	require.Equal(t, 1, m.spawned["int"])
	require.Equal(t, 1, m.completed[OutcomeOK])
	require.Equal(t, 1, m.completed[OutcomePanic])
	require.Equal(t, 3, m.sent[true])
	require.Equal(t, 1, m.sent[false])
	require.Equal(t, 3, m.received)
}

func TestMailbox_timeout_metrics(t *testing.T) {
	m := newRecordingMetrics()

	h := Spawn(func(mb *Mailbox[int]) error {
		_, _, err := mb.RecvTimeout(time.Millisecond)
		return err
	}, WithMetrics(m))

	// Join closes the handle's sender, so let the receive time out first
	<-h.Done()

	res, err := h.Join(t.Context())
	require.NoError(t, err)
	require.ErrorIs(t, res, ErrTimeout)

	m.mu.Lock()
	defer m.mu.Unlock()
	require.Equal(t, 1, m.timeouts)
}
