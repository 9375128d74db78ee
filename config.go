package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the server configuration file
type Config struct {
	Addr      string             `yaml:"addr"`
	DataDir   string             `yaml:"data_dir"`
	Scale     float64            `yaml:"scale"`        // meters per map unit
	Scales    map[string]float64 `yaml:"floor_scales"` // per-floor overrides
	RateLimit RateLimitConfig    `yaml:"rate_limit"`
	Watch     WatchConfig        `yaml:"watch"`
}

// RateLimitConfig bounds planning requests per second
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// WatchConfig controls reloading maps when their files change
type WatchConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Debounce time.Duration `yaml:"debounce"`
}

// DefaultConfig returns the configuration used when no file is given
func DefaultConfig() *Config {
	cfg := &Config{Watch: WatchConfig{Enabled: true}}
	cfg.applyDefaults()
	return cfg
}

// LoadConfig loads config from path, or returns defaults if path is empty
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Scale == 0 {
		c.Scale = 0.1
	}
	if c.RateLimit.RequestsPerSecond == 0 {
		c.RateLimit.RequestsPerSecond = 20
	}
	if c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 40
	}
	if c.Watch.Debounce == 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
}

func (c *Config) validate() error {
	if err := validateScale(c.Scale); err != nil {
		return fmt.Errorf("config scale: %w", err)
	}
	for floor, scale := range c.Scales {
		if err := validateScale(scale); err != nil {
			return fmt.Errorf("config scale for floor %q: %w", floor, err)
		}
	}
	return nil
}

// ScaleFor returns the meters-per-map-unit factor of a floor
func (c *Config) ScaleFor(floor string) float64 {
	if s, ok := c.Scales[floor]; ok {
		return s
	}
	return c.Scale
}
