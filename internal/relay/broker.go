// Package relay fans captured WebSocket frames out to HTTP clients, as
// server-sent events or over a plain WebSocket.
package relay

import (
	"sync"
	"sync/atomic"

	"github.com/dgnsrekt/wstap"
)

const subscriberBufSize = 256

// Broker fans captured messages out to all subscribed clients.
type Broker struct {
	mu          sync.RWMutex
	subscribers map[int64]chan wstap.Message
	nextID      atomic.Int64
}

// NewBroker creates a new message broker.
func NewBroker() *Broker {
	return &Broker{
		subscribers: make(map[int64]chan wstap.Message),
	}
}

// Subscribe registers a new client. Returns the subscriber ID and a
// channel to receive messages on. The channel is buffered; slow
// consumers have messages dropped.
func (b *Broker) Subscribe() (int64, <-chan wstap.Message) {
	id := b.nextID.Add(1)
	ch := make(chan wstap.Message, subscriberBufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel. Calling it
// twice for the same ID is harmless.
func (b *Broker) Unsubscribe(id int64) {
	b.mu.Lock()
	ch, ok := b.subscribers[id]
	if ok {
		delete(b.subscribers, id)
		close(ch)
	}
	b.mu.Unlock()
}

// Publish sends a message to all subscribers. Non-blocking: slow clients
// have messages dropped.
func (b *Broker) Publish(msg wstap.Message) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
		default:
		}
	}
}

// ClientCount returns the number of active subscribers.
func (b *Broker) ClientCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
