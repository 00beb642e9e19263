package relay

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FeedConfig names a WebSocket endpoint pattern worth relaying.
type FeedConfig struct {
	Name       string `yaml:"name"`
	URLPattern string `yaml:"url_pattern"`
}

// Config is the top-level YAML feed filter configuration. An empty feed
// list relays everything.
type Config struct {
	Feeds []FeedConfig `yaml:"feeds"`
}

// LoadConfig reads and validates a feed filter YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("feeds config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("feeds config: %w", err)
	}
	for i, f := range cfg.Feeds {
		if f.Name == "" {
			return nil, fmt.Errorf("feeds config: feed[%d] missing name", i)
		}
		if f.URLPattern == "" {
			return nil, fmt.Errorf("feeds config: feed[%d] (%s) missing url_pattern", i, f.Name)
		}
	}
	return &cfg, nil
}

// Match reports whether a frame from url should be relayed, and under
// which feed name. A nil config or empty feed list matches everything.
func (c *Config) Match(url string) (string, bool) {
	if c == nil || len(c.Feeds) == 0 {
		return "", true
	}
	for _, f := range c.Feeds {
		if strings.Contains(url, f.URLPattern) {
			return f.Name, true
		}
	}
	return "", false
}
