// Package config loads and validates the engine configuration.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/seanyjeong/stock-sub000/internal/requalify"
	"github.com/seanyjeong/stock-sub000/internal/scoring"
)

// ConfigurationError is fatal: a malformed threshold table must prevent
// initialization rather than score with garbage.
type ConfigurationError struct {
	Section string
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error in %s: %v", e.Section, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// ServerConfig holds the HTTP read-surface settings. Timeouts are in
// seconds so they round-trip through YAML cleanly.
type ServerConfig struct {
	Host             string `yaml:"host"`
	Port             int    `yaml:"port"`
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs"`
	WriteTimeoutSecs int    `yaml:"write_timeout_secs"`
	IdleTimeoutSecs  int    `yaml:"idle_timeout_secs"`
}

func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Host:             "127.0.0.1",
		Port:             8080,
		ReadTimeoutSecs:  10,
		WriteTimeoutSecs: 10,
		IdleTimeoutSecs:  60,
	}
}

// ReadTimeout returns the read timeout as a duration.
func (c ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutSecs) * time.Second
}

func (c ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutSecs) * time.Second
}

func (c ServerConfig) IdleTimeout() time.Duration {
	return time.Duration(c.IdleTimeoutSecs) * time.Second
}

// Config is the full engine configuration.
type Config struct {
	Scoring   scoring.Config        `yaml:"scoring"`
	Requalify requalify.Config      `yaml:"requalify"`
	Poll      requalify.PollConfig  `yaml:"poll"`
	Server    ServerConfig          `yaml:"server"`
}

// Default returns the production defaults used when no file is given.
func Default() Config {
	return Config{
		Scoring:   scoring.DefaultConfig(),
		Requalify: requalify.DefaultConfig(),
		Poll:      requalify.DefaultPollConfig(),
		Server:    DefaultServerConfig(),
	}
}

// Load reads a YAML config file over the defaults and validates the result.
// An empty path yields validated defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, &ConfigurationError{Section: "file", Err: err}
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks every section; any violation is a ConfigurationError.
func (c Config) Validate() error {
	if err := c.Scoring.Validate(); err != nil {
		return &ConfigurationError{Section: "scoring", Err: err}
	}
	if err := c.Requalify.Validate(); err != nil {
		return &ConfigurationError{Section: "requalify", Err: err}
	}
	if err := c.Poll.Validate(); err != nil {
		return &ConfigurationError{Section: "poll", Err: err}
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return &ConfigurationError{Section: "server", Err: fmt.Errorf("port %d out of range", c.Server.Port)}
	}
	return nil
}
