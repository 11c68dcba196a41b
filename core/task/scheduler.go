package task

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Scheduler runs task bodies concurrently with the caller.
type Scheduler interface {
	// Schedule runs f on its own goroutine. If the scheduler gives up on f
	// before it started, dropped is called instead (if not nil).
	Schedule(f func(), dropped func())
	// Wait blocks until all in-flight tasks complete.
	Wait()
}

type scheduler struct {
	ctx      context.Context
	log      *slog.Logger
	inflight atomic.Int32
	sem      chan struct{}
	max      int

	wg sync.WaitGroup

	name    string
	metrics Metrics
}

func (s *scheduler) Schedule(f func(), dropped func()) {
	// Don't schedule if context is already cancelled
	select {
	case <-s.ctx.Done():
		s.drop(dropped)
		return
	default:
	}

	s.wg.Add(1)

	// Unlimited if max <= 0
	if s.max <= 0 {
		go func() {
			defer s.wg.Done()
			s.track(1)
			defer s.track(-1)
			s.runTask(f)
		}()
		return
	}

	// Bounded by semaphore
	go func() {
		defer s.wg.Done()

		select {
		case <-s.ctx.Done():
			s.drop(dropped)
			return
		case s.sem <- struct{}{}:
		}

		s.track(1)
		defer func() {
			<-s.sem
			s.track(-1)
		}()

		s.runTask(f)
	}()
}

func (s *scheduler) track(delta int32) {
	s.metrics.SchedulerInflight(s.name, int(s.inflight.Add(delta)))
}

func (s *scheduler) drop(dropped func()) {
	s.log.Debug("scheduler stopped, task dropped", slog.String("scheduler", s.name))
	if dropped != nil {
		dropped()
	}
}

func (s *scheduler) runTask(f func()) {
	defer s.metrics.SchedulerTaskDuration().ObserveDuration()

	defer func() {
		if r := recover(); r != nil {
			s.metrics.SchedulerTaskCompleted(false)
			// log the panic but don't re-panic
			s.log.Error("scheduled task panicked", slog.String("scheduler", s.name), slog.Any("recovered", r))
		}
	}()

	f()
	s.metrics.SchedulerTaskCompleted(true)
}

// Wait blocks until all in-flight tasks complete.
func (s *scheduler) Wait() {
	s.wg.Wait()
}

// NewScheduler creates a scheduler that limits the number of concurrently
// running tasks to max. If max <= 0, concurrency is unlimited.
// Tasks still waiting for a slot are dropped once ctx is done; running tasks
// are never interrupted.
func NewScheduler(max int, ctx context.Context) Scheduler {
	return NewSchedulerWithMetrics(max, ctx, "", NopMetrics())
}

// NewSchedulerWithMetrics creates a scheduler with metrics support.
func NewSchedulerWithMetrics(max int, ctx context.Context, name string, metrics Metrics) Scheduler {
	var sem chan struct{}
	if max > 0 {
		sem = make(chan struct{}, max)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if metrics == nil {
		metrics = NopMetrics()
	}
	if name == "" {
		name = "default"
	}
	return &scheduler{
		ctx:     ctx,
		sem:     sem,
		max:     max,
		log:     slog.Default(),
		name:    name,
		metrics: metrics,
	}
}
