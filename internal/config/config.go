// Package config loads resolver settings from an optional YAML file with
// environment variable overrides. Every knob has a working default, so both
// the file and the environment are optional.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

const envPrefix = "PURL2SRC_"

// Duration is a time.Duration that unmarshals from YAML strings like "30s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Config holds the runtime settings for the resolver and CLI.
type Config struct {
	// HTTP client.
	Timeout    Duration `yaml:"timeout"`
	MaxRetries int      `yaml:"max_retries"`
	UserAgent  string   `yaml:"user_agent"`

	// Result cache.
	CacheEnabled bool     `yaml:"cache_enabled"`
	CacheDir     string   `yaml:"cache_dir"`
	CacheTTL     Duration `yaml:"cache_ttl"`

	// Bulk resolution.
	Concurrency int `yaml:"concurrency"`

	// Logging.
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Timeout:      Duration(30 * time.Second),
		MaxRetries:   3,
		UserAgent:    "purl2src/1.0",
		CacheEnabled: true,
		CacheTTL:     Duration(time.Hour),
		Concurrency:  15,
		LogLevel:     "info",
		LogFormat:    "text",
	}
}

// Load reads path (when non-empty) over the defaults and then applies
// PURL2SRC_* environment overrides on top.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(envPrefix + "TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sTIMEOUT: %w", envPrefix, err)
		}
		c.Timeout = Duration(d)
	}
	if v := os.Getenv(envPrefix + "MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sMAX_RETRIES: %w", envPrefix, err)
		}
		c.MaxRetries = n
	}
	if v := os.Getenv(envPrefix + "USER_AGENT"); v != "" {
		c.UserAgent = v
	}
	if v := os.Getenv(envPrefix + "CACHE_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %sCACHE_ENABLED: %w", envPrefix, err)
		}
		c.CacheEnabled = b
	}
	if v := os.Getenv(envPrefix + "CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv(envPrefix + "CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %sCACHE_TTL: %w", envPrefix, err)
		}
		c.CacheTTL = Duration(d)
	}
	if v := os.Getenv(envPrefix + "CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %sCONCURRENCY: %w", envPrefix, err)
		}
		c.Concurrency = n
	}
	if v := os.Getenv(envPrefix + "LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(envPrefix + "LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	return nil
}
