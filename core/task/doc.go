// Package task provides isolated, message-driven workers: each spawned task
// owns a private inbox, runs independently and hands a single result back to
// whoever joins it.
//
// # Spawning
//
// [Spawn] creates a [Mailbox] and a [Handle] in one step and starts the task
// function on a [Scheduler]:
//
//	h := task.Spawn(func(mb *task.Mailbox[int]) int {
//	    total := 0
//	    for v, ok := mb.Recv(); ok; v, ok = mb.Recv() {
//	        total += v
//	    }
//	    return total
//	})
//
//	_ = h.Send(10)
//	_ = h.Send(20)
//	sum, err := h.Join(ctx) // releases the handle's sender, so the loop ends
//
// Use [SpawnE] for task functions that return an error.
//
// # Mailbox
//
// The mailbox is an unbounded FIFO queue with a single consumer, the task
// function. Sending never blocks. [Mailbox.Recv] blocks until a message
// arrives or all senders are closed; [Mailbox.RecvTimeout] bounds the wait
// and fails with [ErrTimeout].
//
// Messages from one sender are received in the order they were sent. The
// order between different senders is unspecified.
//
// # Senders
//
// The handle carries one producer end. [Handle.Sender] clones another one for
// use by other goroutines; every clone must be closed. Once the task returns,
// its mailbox is closed and sends fail with a [SendError] that carries the
// undelivered message.
//
// # Results and failures
//
// [Handle.Join] waits for the task and returns its result. A panic inside the
// task is returned as [PanicError] (matching [ErrTaskPanicked]) and is never
// replaced by a zero value. Tasks that are never joined fail silently apart
// from an error log entry.
//
// There is no cancellation: a task runs until its function returns.
package task
