package wstap

import (
	"sync"
	"time"
)

// Queue is an unbounded FIFO hand-off between the capture session's event
// goroutine and the consumer. Push never blocks; a slow consumer
// accumulates memory rather than stalling capture.
type Queue struct {
	mu    sync.Mutex
	items []Message
	wake  chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{wake: make(chan struct{}, 1)}
}

// Push appends a message to the queue and wakes a blocked Pop.
func (q *Queue) Push(msg Message) {
	q.mu.Lock()
	q.items = append(q.items, msg)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// Pop removes and returns the oldest message, blocking until one is
// available or timeout elapses. The second return value is false on
// timeout. A non-positive timeout checks once without waiting.
func (q *Queue) Pop(timeout time.Duration) (Message, bool) {
	if msg, ok := q.TryPop(); ok {
		return msg, true
	}
	if timeout <= 0 {
		return Message{}, false
	}

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		select {
		case <-q.wake:
			if msg, ok := q.TryPop(); ok {
				return msg, true
			}
		case <-timer.C:
			return Message{}, false
		}
	}
}

// TryPop removes and returns the oldest message without waiting.
func (q *Queue) TryPop() (Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.items) == 0 {
		return Message{}, false
	}
	msg := q.items[0]
	q.items = q.items[1:]
	if len(q.items) > 0 {
		// Keep the wake signal armed for the next waiter.
		select {
		case q.wake <- struct{}{}:
		default:
		}
	}
	return msg, true
}

// Drain removes and returns all buffered messages in FIFO order.
func (q *Queue) Drain() []Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.items
	q.items = nil
	return out
}

// Len reports the number of buffered messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
