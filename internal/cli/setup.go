// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - Shared wiring for CLI command handlers.
package cli

import (
	"fmt"

	"github.com/jeranaias/nyaya-tui/internal/api"
	"github.com/jeranaias/nyaya-tui/internal/config"
	"github.com/jeranaias/nyaya-tui/internal/index"
	"github.com/jeranaias/nyaya-tui/internal/storage"
)

// LoadConfig loads the configuration and applies CLI overrides.
func LoadConfig(args Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if args.APIURL != "" {
		cfg.API.BaseURL = args.APIURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// NewBackend builds the API client from config.
func NewBackend(cfg *config.Config) *api.Client {
	return api.NewClient(cfg.API.BaseURL).WithTimeout(cfg.API.Timeout())
}

// OpenSessions opens the session store under the configured data dir.
func OpenSessions(cfg *config.Config) (*storage.SessionStore, error) {
	store, err := storage.NewSessionStoreWithDir(cfg.Storage.SessionsDir())
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	store.MaxSessions = cfg.Storage.MaxSessions
	return store, nil
}

// OpenHistoryIndex opens the full-text search index. A nil index with
// nil error means search falls back to substring scans.
func OpenHistoryIndex(cfg *config.Config) (*index.HistoryIndex, error) {
	return index.Open(cfg.Storage.IndexPath())
}
