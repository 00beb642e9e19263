package config

import (
	"log/slog"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("requires_url", func(t *testing.T) {
		t.Setenv("WSTAP_URL", "")
		if _, err := Load(); err == nil {
			t.Fatalf("Load() = nil error; want missing WSTAP_URL error")
		}
	})

	t.Run("applies_defaults", func(t *testing.T) {
		t.Setenv("WSTAP_URL", "https://example.com")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Profile != "Default" {
			t.Fatalf("Profile = %q; want %q", cfg.Profile, "Default")
		}
		if cfg.Headful {
			t.Fatalf("Headful = true; want headless default")
		}
		if cfg.BindAddr != "127.0.0.1:8199" {
			t.Fatalf("BindAddr = %q; want %q", cfg.BindAddr, "127.0.0.1:8199")
		}
		if cfg.CDPPort != 0 {
			t.Fatalf("CDPPort = %d; want 0 (auto)", cfg.CDPPort)
		}
		if cfg.LogLevel != "info" {
			t.Fatalf("LogLevel = %q; want %q", cfg.LogLevel, "info")
		}
	})

	t.Run("reads_overrides", func(t *testing.T) {
		t.Setenv("WSTAP_URL", "https://example.com")
		t.Setenv("WSTAP_PROFILE", "Profile 2")
		t.Setenv("WSTAP_HEADFUL", "true")
		t.Setenv("WSTAP_CDP_PORT", "9333")
		t.Setenv("WSTAP_LOG_FRAMES", "1")
		t.Setenv("WSTAP_LOG_LEVEL", "DEBUG")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.Profile != "Profile 2" {
			t.Fatalf("Profile = %q; want %q", cfg.Profile, "Profile 2")
		}
		if !cfg.Headful {
			t.Fatalf("Headful = false; want true")
		}
		if cfg.CDPPort != 9333 {
			t.Fatalf("CDPPort = %d; want 9333", cfg.CDPPort)
		}
		if !cfg.LogFrames {
			t.Fatalf("LogFrames = false; want true")
		}
		if cfg.LogLevel != "debug" {
			t.Fatalf("LogLevel = %q; want lowercased %q", cfg.LogLevel, "debug")
		}
	})

	t.Run("ignores_malformed_numbers", func(t *testing.T) {
		t.Setenv("WSTAP_URL", "https://example.com")
		t.Setenv("WSTAP_CDP_PORT", "not-a-port")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.CDPPort != 0 {
			t.Fatalf("CDPPort = %d; want default 0", cfg.CDPPort)
		}
	})
}

func TestSlogLevel(t *testing.T) {
	cases := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tc := range cases {
		cfg := &Config{LogLevel: tc.level}
		if got := cfg.SlogLevel(); got != tc.want {
			t.Fatalf("SlogLevel(%q) = %v; want %v", tc.level, got, tc.want)
		}
	}
}
