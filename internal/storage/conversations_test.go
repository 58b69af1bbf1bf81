// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"errors"
	"strings"
	"testing"

	"github.com/jeranaias/nyaya-tui/internal/model"
)

func newTestStore(t *testing.T) *SessionStore {
	t.Helper()
	store, err := NewSessionStoreWithDir(t.TempDir())
	if err != nil {
		t.Fatalf("NewSessionStoreWithDir failed: %v", err)
	}
	return store
}

func sampleConversation(question, answer string) *model.Conversation {
	conv := model.NewConversation()
	conv.AddUserMessage(question)
	msg := conv.AddAssistantMessage(answer)
	msg.Sources = []model.Source{{Type: "statute", Title: "Code of Criminal Procedure, Section 438"}}
	return conv
}

func TestSaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	conv := sampleConversation("What is anticipatory bail?", "Anticipatory bail is...")

	id, err := store.Save(conv)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if id != conv.ID {
		t.Errorf("Save returned %q, want %q", id, conv.ID)
	}

	loaded, err := store.Load(id)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.MessageCount() != 2 {
		t.Errorf("loaded %d messages, want 2", loaded.MessageCount())
	}
	if loaded.Messages[0].Content != "What is anticipatory bail?" {
		t.Errorf("first message = %q", loaded.Messages[0].Content)
	}
	if len(loaded.Messages[1].Sources) != 1 {
		t.Errorf("sources lost in round trip: %+v", loaded.Messages[1].Sources)
	}
	if loaded.Title != conv.Title {
		t.Errorf("title = %q, want %q", loaded.Title, conv.Title)
	}
}

func TestLoadMissing(t *testing.T) {
	store := newTestStore(t)
	_, err := store.Load("conv_does_not_exist")
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestListOrdering(t *testing.T) {
	store := newTestStore(t)

	first := sampleConversation("older question", "a")
	if _, err := store.Save(first); err != nil {
		t.Fatal(err)
	}
	second := sampleConversation("newer question", "b")
	if _, err := store.Save(second); err != nil {
		t.Fatal(err)
	}

	metas, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("listed %d sessions, want 2", len(metas))
	}
	if metas[0].ID != second.ID {
		t.Errorf("most recent first: got %q, want %q", metas[0].ID, second.ID)
	}
}

func TestLoadByIndex(t *testing.T) {
	store := newTestStore(t)
	conv := sampleConversation("indexed question", "a")
	if _, err := store.Save(conv); err != nil {
		t.Fatal(err)
	}

	loaded, err := store.LoadByIndex(0)
	if err != nil {
		t.Fatalf("LoadByIndex failed: %v", err)
	}
	if loaded.ID != conv.ID {
		t.Errorf("loaded %q, want %q", loaded.ID, conv.ID)
	}

	if _, err := store.LoadByIndex(5); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("out-of-range error = %v, want ErrSessionNotFound", err)
	}
}

func TestSearchMessages(t *testing.T) {
	store := newTestStore(t)
	store.Save(sampleConversation("What is Section 420 IPC?", "Cheating and dishonestly inducing delivery of property."))
	store.Save(sampleConversation("Explain GST registration", "GST registration is required when..."))

	results, err := store.SearchMessages("cheating")
	if err != nil {
		t.Fatalf("SearchMessages failed: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("found %d sessions, want 1", len(results))
	}
	if !strings.Contains(results[0].Title, "Section 420") {
		t.Errorf("wrong session matched: %q", results[0].Title)
	}

	// Empty query lists everything.
	all, err := store.SearchMessages("")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 2 {
		t.Errorf("empty query found %d, want 2", len(all))
	}
}

func TestDelete(t *testing.T) {
	store := newTestStore(t)
	conv := sampleConversation("to delete", "a")
	store.Save(conv)

	if err := store.Delete(conv.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.Load(conv.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Load after delete = %v, want ErrSessionNotFound", err)
	}
	if err := store.Delete(conv.ID); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("double delete = %v, want ErrSessionNotFound", err)
	}
}

func TestMaxSessionsPruning(t *testing.T) {
	store := newTestStore(t)
	store.MaxSessions = 3

	for i := 0; i < 5; i++ {
		store.Save(sampleConversation("question", "answer"))
	}

	metas, err := store.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(metas) > 3 {
		t.Errorf("kept %d sessions, want at most 3", len(metas))
	}
}

func TestClear(t *testing.T) {
	store := newTestStore(t)
	store.Save(sampleConversation("q", "a"))
	store.Save(sampleConversation("q2", "a2"))

	if err := store.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	metas, _ := store.List()
	if len(metas) != 0 {
		t.Errorf("listed %d after Clear, want 0", len(metas))
	}
}

func TestExportMarkdown(t *testing.T) {
	conv := sampleConversation("What is Section 420 IPC?", "It deals with cheating.")
	conv.Messages[1].Sources = append(conv.Messages[1].Sources, model.Source{
		Title: "Example v. State",
		Court: "Supreme Court of India",
		URL:   "https://indiankanoon.org/doc/example",
	})

	md := ExportMarkdown(conv)
	for _, want := range []string{
		"**You**",
		"**Nyaya**",
		"What is Section 420 IPC?",
		"1. Code of Criminal Procedure, Section 438",
		"2. Example v. State (Supreme Court of India)",
		"<https://indiankanoon.org/doc/example>",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown export missing %q", want)
		}
	}
}

func TestExportJSONRoundTrip(t *testing.T) {
	conv := sampleConversation("q", "a")
	data, err := ExportJSON(conv)
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if !strings.Contains(string(data), `"messages"`) {
		t.Error("JSON export missing messages field")
	}
}
