package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgnsrekt/wstap"
	"github.com/dgnsrekt/wstap/internal/api"
	"github.com/dgnsrekt/wstap/internal/config"
	"github.com/dgnsrekt/wstap/internal/framelog"
	"github.com/dgnsrekt/wstap/internal/relay"
	"gopkg.in/natefinch/lumberjack.v2"
)

type statusService struct {
	listener *wstap.Listener
	broker   *relay.Broker
}

func (s statusService) Status() api.Status {
	return api.Status{
		Running:           s.listener.Running(),
		ActiveConnections: s.listener.ActiveConnections(),
		QueueDepth:        s.listener.Messages().Len(),
		RelayClients:      s.broker.ClientCount(),
	}
}

func (s statusService) Connections() map[string]string {
	return s.listener.Connections()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
		slog.Debug("log directory creation failed", "error", err)
	}

	logWriter := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	handler := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: cfg.SlogLevel()})
	slog.SetDefault(slog.New(handler))

	slog.Info("Starting wstap",
		"url", cfg.URL,
		"profile", cfg.Profile,
		"headful", cfg.Headful,
		"cdp_port", cfg.CDPPort,
		"bind_addr", cfg.BindAddr,
		"log_frames", cfg.LogFrames,
		"frame_dir", cfg.FrameDir,
	)

	var feeds *relay.Config
	if cfg.FeedsConfig != "" {
		feeds, err = relay.LoadConfig(cfg.FeedsConfig)
		if err != nil {
			slog.Error("Failed to load feeds config", "error", err)
			os.Exit(1)
		}
		slog.Info("Feed filter loaded", "feeds", len(feeds.Feeds))
	}

	listener := wstap.New(wstap.Config{
		URL:         cfg.URL,
		Profile:     cfg.Profile,
		Headful:     cfg.Headful,
		LogFrames:   cfg.LogFrames,
		UserDataDir: cfg.UserDataDir,
		CDPPort:     cfg.CDPPort,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := listener.Start(ctx); err != nil {
		slog.Error("Failed to start listener", "error", err)
		slog.Info("Make sure Chrome or Chromium is installed, or already running with remote debugging enabled")
		os.Exit(1)
	}
	defer func() {
		if err := listener.Close(); err != nil {
			slog.Warn("Listener close failed", "error", err)
		}
	}()

	broker := relay.NewBroker()

	var frames *framelog.Writer
	if cfg.FrameDir != "" {
		frames = framelog.NewWriter(cfg.FrameDir, 5000, 200)
		defer func() {
			if err := frames.Close(); err != nil {
				slog.Warn("Frame log close failed", "error", err)
			}
		}()
	}

	// Pump: the sole queue consumer, feeding the relay and frame log.
	stopPump := make(chan struct{})
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		for {
			msg, ok := listener.Messages().Pop(time.Second)
			if !ok {
				select {
				case <-stopPump:
					return
				default:
					continue
				}
			}
			if _, match := feeds.Match(msg.URL); !match {
				continue
			}
			broker.Publish(msg)
			if frames != nil {
				_ = frames.Write(msg)
			}
		}
	}()

	srv := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.NewServer(statusService{listener: listener, broker: broker}, broker),
	}
	go func() {
		slog.Info("API server listening", "addr", cfg.BindAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("API server failed", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	slog.Info("wstap running", "url", cfg.URL)
	slog.Info("Press Ctrl+C to stop")

	<-sigCh
	slog.Info("Shutdown signal received")

	close(stopPump)
	<-pumpDone

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Warn("API server shutdown failed", "error", err)
	}

	slog.Info("wstap stopped")
}
