package task

import "sync/atomic"

// Sender is a producer end of a task's inbox. It is safe for concurrent use.
//
// Every Sender obtained from Clone must be closed; the mailbox reports end of
// stream only after all of them are.
type Sender[M any] struct {
	scope  *scope
	q      *queue[M]
	closed atomic.Bool
}

func newSender[M any](s *scope, q *queue[M]) *Sender[M] {
	return &Sender[M]{scope: s, q: q}
}

// Send enqueues msg without blocking. On failure the returned *SendError
// carries msg back: ErrMailboxClosed if the task dropped its mailbox,
// ErrSenderClosed if this sender was already closed.
func (s *Sender[M]) Send(msg M) error {
	err := ErrSenderClosed
	if !s.closed.Load() {
		err = s.q.push(msg)
	}

	s.scope.metrics.MessageSent(s.scope.kind, err == nil)
	if err != nil {
		return &SendError[M]{Msg: msg, Err: err}
	}
	return nil
}

// Clone returns a new producer end for the same mailbox. Cloning a closed
// sender returns a closed sender.
func (s *Sender[M]) Clone() *Sender[M] {
	c := newSender(s.scope, s.q)
	if s.closed.Load() || !s.q.acquire() {
		c.closed.Store(true)
	}
	return c
}

// Close releases this producer end. It is idempotent.
func (s *Sender[M]) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.q.release()
	}
}
