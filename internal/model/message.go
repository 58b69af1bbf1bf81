// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for conversations and messages.
package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/jeranaias/nyaya-tui/internal/util"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleAssistant:
		return "Nyaya"
	case RoleSystem:
		return "System"
	default:
		return string(r)
	}
}

// =============================================================================
// SOURCE AND ATTACHMENT TYPES
// =============================================================================

// Source is a legal citation attached to an assistant answer, typically a
// case, statute section, or article returned by the research backend.
type Source struct {
	Type      string  `json:"type,omitempty"`
	Title     string  `json:"title"`
	URL       string  `json:"url,omitempty"`
	Court     string  `json:"court,omitempty"`
	Relevance float64 `json:"relevance,omitempty"`
}

// Attachment records a file the user attached to a message.
type Attachment struct {
	Name string `json:"name"`
	Size int64  `json:"size,omitempty"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single message in a conversation.
type Message struct {
	// Identity
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Timestamp time.Time `json:"timestamp"`

	// Content
	Content string `json:"content"`

	// Citations returned with an assistant answer.
	Sources []Source `json:"sources,omitempty"`

	// Files the user attached to this message.
	Attachments []Attachment `json:"attachments,omitempty"`

	// FileAnalysis names the document an assistant message analyzes.
	// Empty for ordinary chat replies.
	FileAnalysis string `json:"file_analysis,omitempty"`

	// ErrorKind records which failure produced a fallback reply
	// ("timeout", "unavailable", "rate_limited", "bad_request").
	// The rendered text stays generic; the kind is for logs and tests.
	ErrorKind string `json:"error_kind,omitempty"`

	// Local view state. Feedback never leaves the terminal.
	Liked    bool `json:"liked,omitempty"`
	Disliked bool `json:"disliked,omitempty"`
	Copied   bool `json:"-"`
}

// NewMessage creates a new message with a generated ID.
func NewMessage(role Role, content string) *Message {
	return &Message{
		ID:        generateID(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a new user message.
func NewUserMessage(content string) *Message {
	return NewMessage(RoleUser, content)
}

// NewAssistantMessage creates a new assistant message.
func NewAssistantMessage(content string) *Message {
	return NewMessage(RoleAssistant, content)
}

// NewSystemMessage creates a new system message.
func NewSystemMessage(content string) *Message {
	return NewMessage(RoleSystem, content)
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Preview returns a single-line truncated preview of the message
// content. Rune-based truncation keeps multi-byte Devanagari intact.
func (m *Message) Preview(maxLen int) string {
	return util.TruncateRunes(util.FirstLine(m.Content), maxLen)
}

// IsEmpty returns true if the message has no content.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0
}

// IsError returns true if this message is a fallback produced by a failed
// request rather than a real backend answer.
func (m *Message) IsError() bool {
	return m.ErrorKind != ""
}

// ToggleLike marks the message liked. Liking clears an earlier dislike.
func (m *Message) ToggleLike() {
	m.Liked = !m.Liked
	if m.Liked {
		m.Disliked = false
	}
}

// ToggleDislike marks the message disliked. Disliking clears an earlier like.
func (m *Message) ToggleDislike() {
	m.Disliked = !m.Disliked
	if m.Disliked {
		m.Liked = false
	}
}

// generateID creates a unique message ID. Random UUIDs keep IDs unique
// even when two messages land on the same clock tick.
func generateID() string {
	return "msg_" + uuid.NewString()
}
