// Package cdp provides the browser session handle: launching or attaching
// to a Chrome instance and driving one tab over the DevTools protocol.
package cdp

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/dgnsrekt/wstap/internal/browser"
	"github.com/dgnsrekt/wstap/internal/netutil"
)

// Options configure how a browser session is launched or attached.
type Options struct {
	Address     string
	Port        int
	Profile     string
	Headless    bool
	UserDataDir string
}

// Session is a handle on one browser tab reached over CDP. It owns the
// chromedp contexts and, when this process launched the browser, the
// browser process itself.
type Session struct {
	launcher    *browser.Launcher
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc

	mu         sync.Mutex
	terminated bool
}

// Launch starts Chrome, or attaches to one already serving CDP on the
// configured port, and opens a fresh blank tab. The caller navigates
// explicitly once its event handlers are in place.
func Launch(ctx context.Context, opts Options) (*Session, error) {
	if opts.Address == "" {
		opts.Address = "127.0.0.1"
	}
	if opts.Port == 0 {
		port, err := netutil.FreePort(opts.Address)
		if err != nil {
			return nil, fmt.Errorf("pick debugging port: %w", err)
		}
		opts.Port = port
	}

	dataDir := opts.UserDataDir
	if dataDir == "" {
		d, err := browser.DefaultUserDataDir()
		if err != nil {
			return nil, err
		}
		dataDir = d
	}

	launcher := browser.NewLauncher(browser.Config{
		CDPAddress:  opts.Address,
		CDPPort:     opts.Port,
		UserDataDir: dataDir,
		Profile:     opts.Profile,
		Headless:    opts.Headless,
	})
	if err := launcher.Launch(ctx); err != nil {
		return nil, err
	}

	s := &Session{launcher: launcher}
	s.allocCtx, s.allocCancel = chromedp.NewRemoteAllocator(context.Background(),
		fmt.Sprintf("http://%s:%d", opts.Address, opts.Port))
	s.tabCtx, s.tabCancel = chromedp.NewContext(s.allocCtx)

	// Materialise the tab before handing the session out so a dead CDP
	// endpoint surfaces here, not on first use.
	if err := chromedp.Run(s.tabCtx); err != nil {
		_ = s.Terminate()
		return nil, fmt.Errorf("connect to browser: %w", err)
	}

	slog.Info("browser session ready", "address", opts.Address, "port", opts.Port)
	return s, nil
}

// EnableNetwork turns on CDP network event reporting for the tab.
func (s *Session) EnableNetwork(ctx context.Context) error {
	return s.run(ctx, network.Enable())
}

// DisableNetwork turns network event reporting back off. Returns an
// error rather than hanging when the browser is already gone.
func (s *Session) DisableNetwork(ctx context.Context) error {
	return s.run(ctx, network.Disable())
}

// Navigate opens url in the session tab.
func (s *Session) Navigate(ctx context.Context, url string) error {
	return s.run(ctx, chromedp.Navigate(url))
}

// Subscribe registers fn for every CDP event delivered to the tab. The
// returned function removes the subscription.
func (s *Session) Subscribe(fn func(ev any)) func() {
	listenCtx, cancel := context.WithCancel(s.tabCtx)
	chromedp.ListenTarget(listenCtx, fn)
	return cancel
}

// run executes actions on the tab context, honouring the caller's
// deadline when one is set.
func (s *Session) run(ctx context.Context, actions ...chromedp.Action) error {
	runCtx := s.tabCtx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithDeadline(s.tabCtx, deadline)
		defer cancel()
	}
	return chromedp.Run(runCtx, actions...)
}

// Terminate tears the session down: chromedp contexts first, then the
// browser process when this session launched it. Safe to call repeatedly
// and on a browser that already exited.
func (s *Session) Terminate() error {
	s.mu.Lock()
	if s.terminated {
		s.mu.Unlock()
		return nil
	}
	s.terminated = true
	s.mu.Unlock()

	if s.tabCancel != nil {
		s.tabCancel()
	}
	if s.allocCancel != nil {
		s.allocCancel()
	}
	if s.launcher != nil {
		s.launcher.Stop()
	}
	return nil
}
