package config

import (
	"errors"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the wstap CLI.
type Config struct {
	// Target page and browser selection
	URL         string
	Profile     string
	Headful     bool
	UserDataDir string
	CDPPort     int

	// Serving and output
	BindAddr    string
	LogFrames   bool
	LogLevel    string
	LogFile     string
	FrameDir    string
	FeedsConfig string
}

// Load reads configuration from environment variables and an optional
// .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		URL:         os.Getenv("WSTAP_URL"),
		Profile:     getEnvOrDefault("WSTAP_PROFILE", "Default"),
		Headful:     getEnvBoolOrDefault("WSTAP_HEADFUL", false),
		UserDataDir: os.Getenv("WSTAP_USER_DATA_DIR"),
		CDPPort:     getEnvIntOrDefault("WSTAP_CDP_PORT", 0),
		BindAddr:    getEnvOrDefault("WSTAP_BIND_ADDR", "127.0.0.1:8199"),
		LogFrames:   getEnvBoolOrDefault("WSTAP_LOG_FRAMES", false),
		LogLevel:    strings.ToLower(getEnvOrDefault("WSTAP_LOG_LEVEL", "info")),
		LogFile:     getEnvOrDefault("WSTAP_LOG_FILE", "logs/wstap.log"),
		FrameDir:    os.Getenv("WSTAP_FRAME_DIR"),
		FeedsConfig: os.Getenv("WSTAP_FEEDS_CONFIG"),
	}

	if cfg.URL == "" {
		return nil, errors.New("WSTAP_URL is required")
	}
	return cfg, nil
}

// SlogLevel maps the configured level name to a slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}
