// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"
)

func TestNewMessageIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		msg := NewUserMessage("hello")
		if !strings.HasPrefix(msg.ID, "msg_") {
			t.Fatalf("unexpected ID format: %q", msg.ID)
		}
		if seen[msg.ID] {
			t.Fatalf("duplicate ID after %d messages: %q", i, msg.ID)
		}
		seen[msg.ID] = true
	}
}

func TestMessagePreview(t *testing.T) {
	msg := NewUserMessage("short")
	if got := msg.Preview(50); got != "short" {
		t.Errorf("Preview = %q, want %q", got, "short")
	}

	long := NewUserMessage(strings.Repeat("a", 100))
	got := long.Preview(50)
	if len([]rune(got)) != 50 {
		t.Errorf("Preview length = %d, want 50", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Preview missing ellipsis: %q", got)
	}

	multiline := NewUserMessage("bail conditions\nunder Section 438")
	if got := multiline.Preview(50); got != "bail conditions" {
		t.Errorf("Preview crossed a newline: %q", got)
	}
}

func TestMessageIsError(t *testing.T) {
	msg := NewAssistantMessage("Sorry, I encountered an error. Please try again.")
	if msg.IsError() {
		t.Error("message without ErrorKind reported as error")
	}
	msg.ErrorKind = "timeout"
	if !msg.IsError() {
		t.Error("message with ErrorKind not reported as error")
	}
}

func TestFeedbackToggles(t *testing.T) {
	msg := NewAssistantMessage("answer")

	msg.ToggleLike()
	if !msg.Liked || msg.Disliked {
		t.Errorf("after like: liked=%v disliked=%v", msg.Liked, msg.Disliked)
	}

	msg.ToggleDislike()
	if msg.Liked || !msg.Disliked {
		t.Errorf("dislike must clear like: liked=%v disliked=%v", msg.Liked, msg.Disliked)
	}

	msg.ToggleDislike()
	if msg.Liked || msg.Disliked {
		t.Errorf("second toggle must clear: liked=%v disliked=%v", msg.Liked, msg.Disliked)
	}
}

func TestConversationAppendOrder(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("first")
	conv.AddAssistantMessage("second")
	conv.AddUserMessage("third")

	if conv.MessageCount() != 3 {
		t.Fatalf("MessageCount = %d, want 3", conv.MessageCount())
	}
	want := []string{"first", "second", "third"}
	for i, w := range want {
		if conv.Messages[i].Content != w {
			t.Errorf("Messages[%d] = %q, want %q", i, conv.Messages[i].Content, w)
		}
	}
}

func TestConversationTitle(t *testing.T) {
	conv := NewConversation()
	if conv.GetTitle() != "New Conversation" {
		t.Errorf("default title = %q", conv.GetTitle())
	}

	conv.AddSystemMessage("welcome")
	if conv.Title != "" {
		t.Errorf("system message set title: %q", conv.Title)
	}

	conv.AddUserMessage("What is anticipatory bail?")
	if conv.Title != "What is anticipatory bail?" {
		t.Errorf("title = %q", conv.Title)
	}

	// Title is sticky once derived.
	conv.AddUserMessage("another question")
	if conv.Title != "What is anticipatory bail?" {
		t.Errorf("title changed to %q", conv.Title)
	}
}

func TestConversationClear(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("hello")
	conv.AddAssistantMessage("hi")
	id := conv.ID

	conv.Clear()

	if !conv.IsEmpty() {
		t.Error("conversation not empty after Clear")
	}
	if conv.ID != id {
		t.Error("Clear changed the conversation ID")
	}
	if conv.Title != "" {
		t.Errorf("Clear kept title %q", conv.Title)
	}

	// Clearing an empty conversation is fine.
	conv.Clear()
	if !conv.IsEmpty() {
		t.Error("double Clear broke the conversation")
	}
}

func TestConversationClone(t *testing.T) {
	conv := NewConversation()
	msg := conv.AddAssistantMessage("answer")
	msg.Sources = []Source{{Title: "Kesavananda Bharati v. State of Kerala"}}

	clone := conv.Clone()
	clone.Messages[0].Content = "mutated"

	if conv.Messages[0].Content != "answer" {
		t.Error("mutating clone changed the original")
	}
}
