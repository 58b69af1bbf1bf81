// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"fmt"
	"strings"
	"time"
)

// SearchResult is one matching message from the history index.
type SearchResult struct {
	SessionID    string
	SessionTitle string
	MessageID    string
	Role         string
	Snippet      string
	Timestamp    time.Time
}

// SearchOptions narrows a history search.
type SearchOptions struct {
	// Limit caps the number of results (default 20).
	Limit int

	// Role restricts matches to one role ("user", "assistant"), empty
	// for all.
	Role string
}

// Search runs a ranked full-text query over indexed messages. Results
// come back best match first with an FTS snippet around the hit.
func (ix *HistoryIndex) Search(query string, opts SearchOptions) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}

	ix.mu.RLock()
	defer ix.mu.RUnlock()

	sqlQuery := `
		SELECT s.id, s.title, m.message_id, m.role,
		       snippet(messages_fts, 0, '', '', '...', 12),
		       m.created_at
		FROM messages_fts
		JOIN messages m ON m.id = messages_fts.rowid
		JOIN sessions s ON s.id = m.session_id
		WHERE messages_fts MATCH ?`
	args := []any{ftsQuote(query)}

	if opts.Role != "" {
		sqlQuery += ` AND m.role = ?`
		args = append(args, opts.Role)
	}
	sqlQuery += ` ORDER BY rank LIMIT ?`
	args = append(args, opts.Limit)

	rows, err := ix.db.Query(sqlQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var createdAt int64
		if err := rows.Scan(&r.SessionID, &r.SessionTitle, &r.MessageID, &r.Role, &r.Snippet, &createdAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDatabaseError, err)
		}
		r.Timestamp = time.Unix(createdAt, 0)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ftsQuote wraps each term in double quotes so user input with FTS
// operators (AND, NEAR, quotes) cannot break the MATCH expression.
func ftsQuote(query string) string {
	terms := strings.Fields(query)
	quoted := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.ReplaceAll(t, `"`, `""`)
		quoted = append(quoted, `"`+t+`"`)
	}
	return strings.Join(quoted, " ")
}
