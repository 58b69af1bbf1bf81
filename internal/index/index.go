// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/nyaya-tui/internal/model"
	"github.com/jeranaias/nyaya-tui/internal/storage"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	ErrNotIndexed    = errors.New("session not indexed")
	ErrDatabaseError = errors.New("database error")
)

// =============================================================================
// HISTORY INDEX
// =============================================================================

// HistoryIndex maintains a searchable sqlite index over saved sessions.
// It is derived data: the JSON session files remain the source of truth
// and the index can always be rebuilt from them.
type HistoryIndex struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open opens (or creates) the index database at dbPath.
func Open(dbPath string) (*HistoryIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite supports one writer at a time, so keep a single connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA cache_size=-16000", // 16MB cache
		"PRAGMA temp_store=MEMORY",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	ix := &HistoryIndex{db: db}
	if err := ix.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return ix, nil
}

// initSchema creates the database schema.
func (ix *HistoryIndex) initSchema() error {
	if _, err := ix.db.Exec(Schema); err != nil {
		return err
	}
	if _, err := ix.db.Exec(InitMetadata); err != nil {
		return err
	}
	return nil
}

// Close closes the underlying database.
func (ix *HistoryIndex) Close() error {
	return ix.db.Close()
}

// =============================================================================
// INDEXING
// =============================================================================

// IndexConversation adds or refreshes one conversation in the index.
// Existing rows for the session are replaced so re-indexing after a save
// is idempotent.
func (ix *HistoryIndex) IndexConversation(conv *model.Conversation) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	tx, err := ix.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM messages WHERE session_id = ?`, conv.ID); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO sessions (id, title, created_at, updated_at, message_count)
		 VALUES (?, ?, ?, ?, ?)`,
		conv.ID, conv.GetTitle(), conv.CreatedAt.Unix(), conv.UpdatedAt.Unix(), conv.MessageCount(),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}

	stmt, err := tx.Prepare(
		`INSERT INTO messages (message_id, session_id, role, content, created_at)
		 VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer stmt.Close()

	for _, msg := range conv.Messages {
		if msg.Content == "" {
			continue
		}
		if _, err := stmt.Exec(msg.ID, conv.ID, msg.Role.String(), msg.Content, msg.Timestamp.Unix()); err != nil {
			return fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
	}

	if _, err := tx.Exec(
		`UPDATE metadata SET value = ? WHERE key = 'last_rebuild'`,
		fmt.Sprintf("%d", time.Now().Unix()),
	); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return tx.Commit()
}

// Remove drops a conversation from the index.
func (ix *HistoryIndex) Remove(sessionID string) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	res, err := ix.db.Exec(`DELETE FROM sessions WHERE id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotIndexed
	}
	return nil
}

// Rebuild reindexes every session in the store and returns how many
// were indexed. Sessions that fail to load are skipped.
func (ix *HistoryIndex) Rebuild(store *storage.SessionStore) (int, error) {
	metas, err := store.List()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, meta := range metas {
		conv, err := store.Load(meta.ID)
		if err != nil {
			continue
		}
		if err := ix.IndexConversation(conv); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Stats returns the number of indexed sessions and messages.
func (ix *HistoryIndex) Stats() (sessions, messages int, err error) {
	ix.mu.RLock()
	defer ix.mu.RUnlock()

	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM sessions`).Scan(&sessions); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	if err := ix.db.QueryRow(`SELECT COUNT(*) FROM messages`).Scan(&messages); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	return sessions, messages, nil
}
