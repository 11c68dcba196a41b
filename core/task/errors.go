package task

import (
	"errors"
	"fmt"
)

var (
	// Mailbox errors
	ErrMailboxClosed = errors.New("mailbox closed")
	ErrSenderClosed  = errors.New("sender closed")
	ErrTimeout       = errors.New("receive timed out")

	// Task errors
	ErrTaskPanicked = errors.New("task panicked")
	ErrNotScheduled = errors.New("task not scheduled")
)

// SendError is returned by Send when the message could not be enqueued.
// Msg holds the undelivered payload so the caller can decide what to do with it.
type SendError[M any] struct {
	Msg M
	Err error
}

func (e *SendError[M]) Error() string { return fmt.Sprintf("send failed: %v", e.Err) }
func (e *SendError[M]) Unwrap() error { return e.Err }

// PanicError reports a task that terminated abnormally.
type PanicError struct {
	TaskID    string
	Recovered any
	Stack     []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("task %s panicked: %v", e.TaskID, e.Recovered)
}

// Unwrap exposes ErrTaskPanicked and, if the task panicked with an error value,
// that error as well.
func (e *PanicError) Unwrap() []error {
	if err, ok := e.Recovered.(error); ok {
		return []error{ErrTaskPanicked, err}
	}
	return []error{ErrTaskPanicked}
}
