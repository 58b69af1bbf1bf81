// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package index

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/jeranaias/nyaya-tui/internal/model"
	"github.com/jeranaias/nyaya-tui/internal/storage"
)

func newTestIndex(t *testing.T) *HistoryIndex {
	t.Helper()
	ix, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func legalConversation(question, answer string) *model.Conversation {
	conv := model.NewConversation()
	conv.AddUserMessage(question)
	conv.AddAssistantMessage(answer)
	return conv
}

func TestIndexAndSearch(t *testing.T) {
	ix := newTestIndex(t)

	conv := legalConversation(
		"What is anticipatory bail?",
		"Anticipatory bail under Section 438 CrPC lets a person seek bail before arrest.")
	if err := ix.IndexConversation(conv); err != nil {
		t.Fatalf("IndexConversation failed: %v", err)
	}

	results, err := ix.Search("anticipatory bail", SearchOptions{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) == 0 {
		t.Fatal("no results for indexed content")
	}
	if results[0].SessionID != conv.ID {
		t.Errorf("SessionID = %q, want %q", results[0].SessionID, conv.ID)
	}
	if results[0].SessionTitle != conv.GetTitle() {
		t.Errorf("SessionTitle = %q", results[0].SessionTitle)
	}
}

func TestSearchRoleFilter(t *testing.T) {
	ix := newTestIndex(t)
	ix.IndexConversation(legalConversation("tell me about stamp duty", "Stamp duty varies by state."))

	results, err := ix.Search("stamp duty", SearchOptions{Role: "assistant"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for _, r := range results {
		if r.Role != "assistant" {
			t.Errorf("role filter leaked %q result", r.Role)
		}
	}
}

func TestReindexIsIdempotent(t *testing.T) {
	ix := newTestIndex(t)
	conv := legalConversation("question about notice period", "answer")

	ix.IndexConversation(conv)
	ix.IndexConversation(conv)

	sessions, messages, err := ix.Stats()
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if sessions != 1 {
		t.Errorf("sessions = %d, want 1", sessions)
	}
	if messages != 2 {
		t.Errorf("messages = %d, want 2", messages)
	}
}

func TestRemove(t *testing.T) {
	ix := newTestIndex(t)
	conv := legalConversation("to remove", "answer")
	ix.IndexConversation(conv)

	if err := ix.Remove(conv.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if err := ix.Remove(conv.ID); !errors.Is(err, ErrNotIndexed) {
		t.Errorf("second Remove = %v, want ErrNotIndexed", err)
	}

	results, err := ix.Search("remove", SearchOptions{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("found %d results after Remove", len(results))
	}
}

func TestSearchQuotesOperators(t *testing.T) {
	ix := newTestIndex(t)
	ix.IndexConversation(legalConversation("plain question", "plain answer"))

	// Raw FTS operators in user input must not error.
	for _, q := range []string{`"unbalanced`, "NEAR AND OR", "a*b(c)"} {
		if _, err := ix.Search(q, SearchOptions{}); err != nil {
			t.Errorf("Search(%q) errored: %v", q, err)
		}
	}
}

func TestSearchEmptyQuery(t *testing.T) {
	ix := newTestIndex(t)
	results, err := ix.Search("   ", SearchOptions{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if results != nil {
		t.Errorf("empty query returned %d results", len(results))
	}
}

func TestRebuildFromStore(t *testing.T) {
	store, err := storage.NewSessionStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	store.Save(legalConversation("first saved question", "a"))
	store.Save(legalConversation("second saved question", "b"))

	ix := newTestIndex(t)
	count, err := ix.Rebuild(store)
	if err != nil {
		t.Fatalf("Rebuild failed: %v", err)
	}
	if count != 2 {
		t.Errorf("rebuilt %d sessions, want 2", count)
	}

	results, err := ix.Search("saved question", SearchOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Errorf("found %d results, want 2", len(results))
	}
}
