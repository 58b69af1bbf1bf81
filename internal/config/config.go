// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for nyaya.
//
// Configuration sources, in order of precedence:
//   - NYAYA_* environment variables
//   - .env file in the working directory
//   - ~/.nyaya/config.toml
//   - Built-in defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"

	"github.com/jeranaias/nyaya-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete nyaya configuration.
type Config struct {
	Version string `toml:"version"`

	// API is the backend connection configuration.
	API APIConfig `toml:"api"`

	// UI configures the terminal interface.
	UI UIConfig `toml:"ui"`

	// Storage configures local session persistence.
	Storage StorageConfig `toml:"storage"`
}

// APIConfig contains backend connection settings.
type APIConfig struct {
	// BaseURL is the legal research backend base URL.
	BaseURL string `toml:"base_url" env:"NYAYA_API_URL"`

	// TimeoutSecs is the per-request timeout in seconds. Retrieval plus
	// generation is slow, so the default is generous.
	TimeoutSecs int `toml:"timeout_secs" env:"NYAYA_API_TIMEOUT_SECS"`
}

// Timeout returns the request timeout as a duration.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// UIConfig contains terminal interface settings.
type UIConfig struct {
	// Theme selects the color theme: "auto", "dark", "light".
	Theme string `toml:"theme" env:"NYAYA_THEME"`

	// ShowSources toggles citation rendering under assistant answers.
	ShowSources bool `toml:"show_sources"`

	// WordWrap is the markdown rendering width for the plain CLI.
	WordWrap int `toml:"word_wrap"`
}

// StorageConfig contains session persistence settings.
type StorageConfig struct {
	// Dir is the data directory. Default: ~/.nyaya
	Dir string `toml:"dir" env:"NYAYA_DATA_DIR"`

	// MaxSessions limits saved sessions, oldest pruned first.
	MaxSessions int `toml:"max_sessions"`
}

// SessionsDir returns the directory holding saved sessions.
func (c StorageConfig) SessionsDir() string {
	return filepath.Join(c.Dir, "sessions")
}

// IndexPath returns the path of the history search database.
func (c StorageConfig) IndexPath() string {
	return filepath.Join(c.Dir, "history.db")
}

// HistoryPath returns the path of the CLI input history file.
func (c StorageConfig) HistoryPath() string {
	return filepath.Join(c.Dir, "history")
}

// =============================================================================
// DEFAULTS AND LOADING
// =============================================================================

// Validation errors.
var (
	ErrInvalidBaseURL = errors.New("invalid base URL")
	ErrInvalidTimeout = errors.New("timeout must be positive")
)

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 60,
		},
		UI: UIConfig{
			Theme:       "auto",
			ShowSources: true,
			WordWrap:    80,
		},
		Storage: StorageConfig{
			Dir:         filepath.Join(homeDir, ".nyaya"),
			MaxSessions: 100,
		},
	}
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = "."
	}
	return filepath.Join(homeDir, ".nyaya", "config.toml")
}

// Load reads configuration from the default path with env overrides.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath())
}

// LoadFrom reads configuration from a specific TOML file, then applies
// .env and environment overrides. A missing file is not an error; the
// defaults are used.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// .env is optional; ignore a missing file.
	godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for usable values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidBaseURL, c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: scheme %q", ErrInvalidBaseURL, u.Scheme)
	}
	if c.API.TimeoutSecs <= 0 {
		return ErrInvalidTimeout
	}
	return nil
}

// Save writes the configuration to the default path atomically.
func (c *Config) Save() error {
	return c.SaveTo(DefaultPath())
}

// SaveTo writes the configuration to a specific path atomically.
func (c *Config) SaveTo(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return util.AtomicWriteFile(path, buf.Bytes(), 0o644)
}
