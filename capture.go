package wstap

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// browserSession is the slice of the browser handle the capture session
// borrows between Start and Stop. The lifecycle owner keeps exclusive
// ownership of the handle itself.
type browserSession interface {
	EnableNetwork(ctx context.Context) error
	DisableNetwork(ctx context.Context) error
	// Subscribe registers fn for every raw CDP event delivered to the
	// session. The returned function removes the subscription.
	Subscribe(fn func(ev any)) (unsubscribe func())
	Navigate(ctx context.Context, url string) error
	Terminate() error
}

type captureState int

const (
	captureNotStarted captureState = iota
	captureRunning
	captureStopped
)

// capture owns the network event subscription for the lifetime of the
// listener. It decodes each raw event, maintains the connection registry,
// and turns frame events into queued Messages.
type capture struct {
	sess      browserSession
	queue     *Queue
	registry  *connRegistry
	logFrames bool
	now       func() time.Time

	mu          sync.Mutex
	state       captureState
	unsubscribe func()
}

func newCapture(sess browserSession, queue *Queue, logFrames bool) *capture {
	return &capture{
		sess:      sess,
		queue:     queue,
		registry:  newConnRegistry(),
		logFrames: logFrames,
		now:       time.Now,
	}
}

// Start enables network event reporting on the session and then
// subscribes to the event stream, in that order, so no events arrive
// before a listener exists. Valid exactly once.
func (c *capture) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case captureRunning:
		return fmt.Errorf("capture already running")
	case captureStopped:
		return fmt.Errorf("capture already stopped")
	}

	if err := c.sess.EnableNetwork(ctx); err != nil {
		return fmt.Errorf("enable network events: %w", err)
	}
	c.unsubscribe = c.sess.Subscribe(c.handleEvent)
	c.state = captureRunning
	return nil
}

// Stop removes the subscription and then disables network event
// reporting. Safe to call from any goroutine, repeatedly, and after the
// browser session is already gone; the disable step is best effort.
func (c *capture) Stop(ctx context.Context) {
	c.mu.Lock()
	prev := c.state
	c.state = captureStopped
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()

	if prev != captureRunning {
		return
	}

	if unsubscribe != nil {
		unsubscribe()
	}
	if err := c.sess.DisableNetwork(ctx); err != nil {
		slog.Warn("disable network events failed", "error", err)
	}
}

func (c *capture) running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == captureRunning
}

// handleEvent runs on the CDP event goroutine. Events for a single
// session arrive sequentially, so registry updates and message
// construction need no further ordering.
func (c *capture) handleEvent(ev any) {
	if !c.running() {
		return
	}

	switch e := decodeNetworkEvent(ev, c.now).(type) {
	case connectionEstablished:
		c.registry.record(e.requestID, e.url)
		slog.Debug("websocket created", "request_id", e.requestID, "url", e.url)
	case frameReceived:
		c.deliver(e.requestID, e.payload, e.timestamp, true)
	case frameSent:
		c.deliver(e.requestID, e.payload, e.timestamp, false)
	case connectionClosed:
		c.registry.forget(e.requestID)
		slog.Debug("websocket closed", "request_id", e.requestID)
	}
}

// deliver queues a captured frame. Frames whose connection was never
// observed still go out with the UnknownURL placeholder; a frame is
// never dropped over a missing registry entry.
func (c *capture) deliver(requestID, payload string, timestamp float64, received bool) {
	msg := Message{
		Payload:   payload,
		RequestID: requestID,
		Timestamp: timestamp,
		URL:       c.registry.resolve(requestID),
		Received:  received,
	}

	if c.logFrames {
		direction := "sent"
		if received {
			direction = "received"
		}
		slog.Info("websocket frame",
			"direction", direction,
			"request_id", msg.RequestID,
			"url", msg.URL,
			"payload", msg.Payload,
		)
	}

	c.queue.Push(msg)
}

// ActiveConnections reports the number of currently open connections.
func (c *capture) ActiveConnections() int {
	return c.registry.len()
}

// Connections returns a copy of the open request ID to URL mapping.
func (c *capture) Connections() map[string]string {
	return c.registry.snapshot()
}
