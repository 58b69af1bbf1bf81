// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 60 {
		t.Errorf("TimeoutSecs = %d", cfg.API.TimeoutSecs)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults failed validation: %v", err)
	}
}

func TestLoadFromMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "no-such-config.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.API.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
version = "1"

[api]
base_url = "https://api.example.in"
timeout_secs = 30

[ui]
theme = "dark"
show_sources = false
word_wrap = 100
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.API.BaseURL != "https://api.example.in" {
		t.Errorf("BaseURL = %q", cfg.API.BaseURL)
	}
	if cfg.API.TimeoutSecs != 30 {
		t.Errorf("TimeoutSecs = %d", cfg.API.TimeoutSecs)
	}
	if cfg.UI.Theme != "dark" {
		t.Errorf("Theme = %q", cfg.UI.Theme)
	}
	if cfg.UI.WordWrap != 100 {
		t.Errorf("WordWrap = %d", cfg.UI.WordWrap)
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("NYAYA_API_URL", "http://10.0.0.5:9000")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.API.BaseURL != "http://10.0.0.5:9000" {
		t.Errorf("env override ignored: BaseURL = %q", cfg.API.BaseURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{"bad url", func(c *Config) { c.API.BaseURL = "not a url" }, ErrInvalidBaseURL},
		{"no scheme", func(c *Config) { c.API.BaseURL = "localhost:8000" }, ErrInvalidBaseURL},
		{"bad scheme", func(c *Config) { c.API.BaseURL = "ftp://host" }, ErrInvalidBaseURL},
		{"zero timeout", func(c *Config) { c.API.TimeoutSecs = 0 }, ErrInvalidTimeout},
		{"negative timeout", func(c *Config) { c.API.TimeoutSecs = -5 }, ErrInvalidTimeout},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	cfg := DefaultConfig()
	cfg.API.BaseURL = "https://backend.example.in"
	cfg.UI.Theme = "light"
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.API.BaseURL != "https://backend.example.in" {
		t.Errorf("BaseURL = %q", loaded.API.BaseURL)
	}
	if loaded.UI.Theme != "light" {
		t.Errorf("Theme = %q", loaded.UI.Theme)
	}
}

func TestStoragePaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Dir = "/tmp/nyaya-test"
	if got := cfg.Storage.SessionsDir(); got != filepath.Join("/tmp/nyaya-test", "sessions") {
		t.Errorf("SessionsDir = %q", got)
	}
	if got := cfg.Storage.IndexPath(); got != filepath.Join("/tmp/nyaya-test", "history.db") {
		t.Errorf("IndexPath = %q", got)
	}
}
