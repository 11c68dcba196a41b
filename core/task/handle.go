package task

import (
	"context"
	"sync"
)

// Handle is the caller's side of a spawned task: a producer end of its
// mailbox plus the task's eventual result.
type Handle[M, R any] struct {
	id   string
	tx   *Sender[M]
	once sync.Once
	done chan struct{}
	res  R
	err  error
}

// ID returns the task ID.
func (h *Handle[M, R]) ID() string { return h.id }

// Send enqueues msg for the task. See Sender.Send.
func (h *Handle[M, R]) Send(msg M) error { return h.tx.Send(msg) }

// Sender returns a new producer end for the task's mailbox, to be handed to
// other goroutines. The caller must Close it.
func (h *Handle[M, R]) Sender() *Sender[M] { return h.tx.Clone() }

// Close releases the handle's own producer end. Tasks that receive until
// their mailbox reports end of stream finish once every sender is closed.
func (h *Handle[M, R]) Close() { h.tx.Close() }

// Done is closed when the task has finished.
func (h *Handle[M, R]) Done() <-chan struct{} { return h.done }

// Join releases the handle's producer end, waits for the task to finish and
// returns its result. A panic inside the task is returned as *PanicError.
// If ctx is done first Join returns ctx.Err() and the task keeps running.
// The handle's sender stays closed even then, so further Handle.Send calls
// fail with ErrSenderClosed; take a Sender before joining to keep feeding the
// task. Join may be called again; it returns the same result every time.
func (h *Handle[M, R]) Join(ctx context.Context) (R, error) {
	h.tx.Close()

	select {
	case <-h.done:
		return h.res, h.err
	case <-ctx.Done():
		var zero R
		return zero, ctx.Err()
	}
}

func (h *Handle[M, R]) complete(res R, err error) {
	h.once.Do(func() {
		h.res, h.err = res, err
		close(h.done)
	})
}
