// Package wstap attaches to a live Chrome session over the DevTools
// protocol and captures WebSocket traffic in both directions, delivering
// each frame as a Message through an unbounded FIFO queue.
package wstap

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dgnsrekt/wstap/internal/cdp"
)

const closeTimeout = 5 * time.Second

// Config controls how the listener launches or attaches to Chrome.
type Config struct {
	// URL is the page to open once capture is running.
	URL string

	// Profile selects the Chrome profile directory inside the user data
	// dir. Defaults to "Default".
	Profile string

	// Headful opens a visible browser window. The zero value runs
	// headless.
	Headful bool

	// LogFrames mirrors every captured frame to the slog sink.
	LogFrames bool

	// UserDataDir overrides the Chrome user data directory. Empty uses
	// the platform default profile location.
	UserDataDir string

	// CDPPort pins the remote debugging port. Zero picks a free port.
	// When a browser is already serving CDP on the port, the listener
	// attaches to it instead of launching a new process.
	CDPPort int
}

// Listener captures WebSocket traffic flowing through one browser
// session. Construct with New, begin capture with Start, read frames
// from Messages, and shut down with Close.
type Listener struct {
	cfg   Config
	queue *Queue

	launch func(ctx context.Context, cfg Config) (browserSession, error)

	mu      sync.Mutex
	started bool
	closed  bool
	sess    browserSession
	capture *capture
}

// New creates a listener. Nothing runs until Start.
func New(cfg Config) *Listener {
	if cfg.Profile == "" {
		cfg.Profile = "Default"
	}
	return &Listener{
		cfg:    cfg,
		queue:  NewQueue(),
		launch: launchBrowser,
	}
}

func launchBrowser(ctx context.Context, cfg Config) (browserSession, error) {
	return cdp.Launch(ctx, cdp.Options{
		Profile:     cfg.Profile,
		Headless:    !cfg.Headful,
		UserDataDir: cfg.UserDataDir,
		Port:        cfg.CDPPort,
	})
}

// Start launches or attaches to the browser session, starts capture on
// the CDP event stream, and then navigates to the configured URL so
// connections opened during page load are observed. Launch failures are
// returned synchronously with nothing left running. Start does not wait
// for a first message.
func (l *Listener) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return errors.New("wstap: listener closed")
	}
	if l.started {
		return errors.New("wstap: listener already started")
	}
	if l.cfg.URL == "" {
		return errors.New("wstap: config URL is required")
	}

	sess, err := l.launch(ctx, l.cfg)
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}

	cs := newCapture(sess, l.queue, l.cfg.LogFrames)
	if err := cs.Start(ctx); err != nil {
		_ = sess.Terminate()
		return err
	}

	if err := sess.Navigate(ctx, l.cfg.URL); err != nil {
		cs.Stop(ctx)
		_ = sess.Terminate()
		return fmt.Errorf("navigate to %s: %w", l.cfg.URL, err)
	}

	l.sess = sess
	l.capture = cs
	l.started = true
	return nil
}

// Messages returns the queue of captured frames. The queue outlives
// Close; buffered frames remain readable after shutdown.
func (l *Listener) Messages() *Queue {
	return l.queue
}

// Running reports whether Start has succeeded and Close has not been
// called.
func (l *Listener) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.started && !l.closed
}

// ActiveConnections reports the number of currently open WebSocket
// connections observed by the capture session.
func (l *Listener) ActiveConnections() int {
	l.mu.Lock()
	cs := l.capture
	l.mu.Unlock()

	if cs == nil {
		return 0
	}
	return cs.ActiveConnections()
}

// Connections returns a copy of the open request ID to URL mapping.
func (l *Listener) Connections() map[string]string {
	l.mu.Lock()
	cs := l.capture
	l.mu.Unlock()

	if cs == nil {
		return map[string]string{}
	}
	return cs.Connections()
}

// Close stops the capture session and then terminates the browser
// session. Both steps are attempted even if one fails. Close is
// idempotent and safe to call before Start or after the browser has
// already died.
func (l *Listener) Close() error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	l.closed = true
	cs := l.capture
	sess := l.sess
	l.capture = nil
	l.sess = nil
	l.mu.Unlock()

	var errs []error
	if cs != nil {
		ctx, cancel := context.WithTimeout(context.Background(), closeTimeout)
		cs.Stop(ctx)
		cancel()
	}
	if sess != nil {
		if err := sess.Terminate(); err != nil {
			errs = append(errs, fmt.Errorf("terminate browser: %w", err))
		}
	}
	return errors.Join(errs...)
}
