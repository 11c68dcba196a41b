package task

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// noCopy makes go vet's copylocks check flag copies of a Mailbox.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// scope is shared by both ends of one task's channel.
type scope struct {
	id      string
	kind    string
	metrics Metrics
}

// Mailbox is the receive side of a task's inbox.
//
// A Mailbox is created by Spawn and handed to exactly one task function; it
// must not be shared with other goroutines. It is closed automatically when
// the task function returns.
type Mailbox[M any] struct {
	_ noCopy

	scope *scope
	q     *queue[M]
	clock clockwork.Clock
}

// ID returns the ID of the owning task.
func (m *Mailbox[M]) ID() string { return m.scope.id }

// Len returns the number of messages waiting to be received.
func (m *Mailbox[M]) Len() int { return m.q.len() }

// Recv blocks until the next message is available and returns it.
// ok is false once all senders are closed and every queued message was
// received, or after the mailbox itself was closed.
func (m *Mailbox[M]) Recv() (msg M, ok bool) {
	msg, ok, _ = m.RecvContext(context.Background())
	return msg, ok
}

// RecvContext is like Recv but gives up with ctx.Err() when ctx is done.
func (m *Mailbox[M]) RecvContext(ctx context.Context) (msg M, ok bool, err error) {
	for {
		if msg, ok, closed := m.take(); ok || closed {
			return msg, ok, nil
		}

		select {
		case <-m.q.notify:
		case <-ctx.Done():
			return msg, false, ctx.Err()
		}
	}
}

// RecvTimeout waits at most d for the next message. It returns ErrTimeout if
// the deadline passes first. A message that is already queued when the
// deadline fires is returned instead of the timeout; a message sent after a
// timeout stays queued for the next receive. A non-positive d polls once.
func (m *Mailbox[M]) RecvTimeout(d time.Duration) (msg M, ok bool, err error) {
	if msg, ok, closed := m.take(); ok || closed {
		return msg, ok, nil
	}
	if d <= 0 {
		m.scope.metrics.ReceiveTimeout(m.scope.kind)
		return msg, false, ErrTimeout
	}

	timer := m.clock.NewTimer(d)
	defer timer.Stop()

	for {
		select {
		case <-m.q.notify:
			if msg, ok, closed := m.take(); ok || closed {
				return msg, ok, nil
			}
		case <-timer.Chan():
			if msg, ok, closed := m.take(); ok || closed {
				return msg, ok, nil
			}
			m.scope.metrics.ReceiveTimeout(m.scope.kind)
			return msg, false, ErrTimeout
		}
	}
}

// TryRecv returns the next message without blocking.
func (m *Mailbox[M]) TryRecv() (msg M, ok bool) {
	msg, ok, _ = m.take()
	return msg, ok
}

// MustRecv is Recv for task bodies that expect a fixed number of messages.
// It panics with ErrMailboxClosed when no more messages can arrive, which
// fails the task and is reported by Join.
func (m *Mailbox[M]) MustRecv() M {
	msg, ok := m.Recv()
	if !ok {
		panic(ErrMailboxClosed)
	}
	return msg
}

// Close drops the inbox. Queued messages are discarded and further sends
// fail with ErrMailboxClosed. Close is idempotent.
func (m *Mailbox[M]) Close() {
	m.q.drop()
}

func (m *Mailbox[M]) take() (msg M, ok bool, closed bool) {
	msg, ok, closed = m.q.pop()
	if ok {
		m.scope.metrics.MessageReceived(m.scope.kind)
	}
	return msg, ok, closed
}
