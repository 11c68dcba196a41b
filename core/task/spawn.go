package task

import (
	"context"
	"log/slog"
	"runtime/debug"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/H1ghBre4k3r/message-passing/internal/reflector"
)

var defaultScheduler = NewScheduler(0, context.Background())

// Spawn starts f on the scheduler with a fresh mailbox and returns
// immediately with the handle for it.
//
// f owns the mailbox; it is closed as soon as f returns. A panic in f does not
// crash the process; it is reported by Join as *PanicError.
func Spawn[M, R any](f func(mb *Mailbox[M]) R, opts ...Option) *Handle[M, R] {
	return SpawnE(func(mb *Mailbox[M]) (R, error) {
		return f(mb), nil
	}, opts...)
}

// SpawnE is like Spawn for task functions that can fail. The error returned
// by f is returned by Join unchanged.
func SpawnE[M, R any](f func(mb *Mailbox[M]) (R, error), opts ...Option) *Handle[M, R] {
	cfg := newConfig(opts)
	if cfg.name == "" {
		cfg.name = reflector.TypeInfoFor[M]().Name
	}

	s := &scope{
		id:      gonanoid.Must(10),
		kind:    cfg.name,
		metrics: cfg.metrics,
	}
	q := newQueue[M]()
	mb := &Mailbox[M]{scope: s, q: q, clock: cfg.clock}
	h := &Handle[M, R]{
		id:   s.id,
		tx:   newSender(s, q),
		done: make(chan struct{}),
	}

	log := cfg.log.With(slog.String("task", s.id), slog.String("kind", s.kind))

	run := func() {
		defer s.metrics.TaskDuration(s.kind).ObserveDuration()

		res, err := call(s.id, f, mb)
		mb.Close()

		pe, panicked := err.(*PanicError)
		switch {
		case panicked && pe.TaskID == s.id:
			s.metrics.TaskCompleted(s.kind, OutcomePanic)
			log.Error("task panicked", slog.Any("recovered", pe.Recovered), slog.String("stack", string(pe.Stack)))
		case err != nil:
			s.metrics.TaskCompleted(s.kind, OutcomeError)
			log.Debug("task failed", slog.Any("error", err))
		default:
			s.metrics.TaskCompleted(s.kind, OutcomeOK)
			log.Debug("task finished")
		}

		h.complete(res, err)
	}

	dropped := func() {
		mb.Close()
		s.metrics.TaskCompleted(s.kind, OutcomeNotScheduled)
		log.Warn("task dropped before start")

		var zero R
		h.complete(zero, ErrNotScheduled)
	}

	s.metrics.TaskSpawned(s.kind)
	log.Debug("task spawned")
	cfg.scheduler.Schedule(run, dropped)

	return h
}

// call runs f and converts a panic into *PanicError.
func call[M, R any](id string, f func(*Mailbox[M]) (R, error), mb *Mailbox[M]) (res R, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			res = zero
			err = &PanicError{TaskID: id, Recovered: r, Stack: debug.Stack()}
		}
	}()
	return f(mb)
}
