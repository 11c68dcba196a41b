package task

import "sync"

// queue is an unbounded FIFO shared by any number of producers and exactly
// one consumer. notify holds at most one pending wake-up for the consumer.
type queue[M any] struct {
	mu        sync.Mutex
	items     []M
	producers int
	dropped   bool
	notify    chan struct{}
}

func newQueue[M any]() *queue[M] {
	return &queue[M]{
		producers: 1,
		notify:    make(chan struct{}, 1),
	}
}

func (q *queue[M]) signal() {
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// push enqueues msg and returns nil, or the reason it was rejected.
func (q *queue[M]) push(msg M) error {
	q.mu.Lock()
	switch {
	case q.dropped:
		q.mu.Unlock()
		return ErrMailboxClosed
	case q.producers == 0:
		q.mu.Unlock()
		return ErrSenderClosed
	}
	q.items = append(q.items, msg)
	q.mu.Unlock()

	q.signal()
	return nil
}

// pop takes the head of the queue. closed is true once the consumer dropped
// the queue, or all producers are gone and nothing is left to deliver.
func (q *queue[M]) pop() (msg M, ok bool, closed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.dropped {
		return msg, false, true
	}
	if len(q.items) == 0 {
		return msg, false, q.producers == 0
	}

	msg = q.items[0]
	var zero M
	q.items[0] = zero
	q.items = q.items[1:]
	if len(q.items) == 0 {
		q.items = nil
	}
	return msg, true, false
}

func (q *queue[M]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// acquire registers another producer. It fails once the producer count has
// dropped to zero, so a closed queue never reopens.
func (q *queue[M]) acquire() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.producers == 0 {
		return false
	}
	q.producers++
	return true
}

func (q *queue[M]) release() {
	q.mu.Lock()
	q.producers--
	last := q.producers == 0
	q.mu.Unlock()

	if last {
		q.signal()
	}
}

// drop is called by the consumer; pending and future messages are discarded.
func (q *queue[M]) drop() {
	q.mu.Lock()
	q.dropped = true
	q.items = nil
	q.mu.Unlock()

	q.signal()
}
