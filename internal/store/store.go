// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store holds the chat state shared by the TUI and the plain CLI.
//
// The store owns the active conversation and runs the send/upload flows
// against the backend. It is constructed explicitly and passed to the
// surfaces that need it; there is no package-level singleton. All message
// appends happen under one mutex, so overlapping requests interleave
// safely and both land in the history.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeranaias/nyaya-tui/internal/api"
	"github.com/jeranaias/nyaya-tui/internal/model"
)

// FallbackText is the assistant reply shown when a request fails. The
// real failure is recorded on the message's ErrorKind and in the log;
// the user just sees this and retries.
const FallbackText = "Sorry, I encountered an error. Please try again."

// ErrEmptyMessage indicates a blank or whitespace-only message reached
// the store. The UI filters these, so hitting this means a caller bug.
var ErrEmptyMessage = errors.New("empty message")

// Backend is the slice of the API client the store uses. Tests swap in
// a fake; production passes *api.Client.
type Backend interface {
	Chat(ctx context.Context, message, conversationID string) (*api.ChatResponse, error)
	AnalyzeDocument(ctx context.Context, filename string, r io.Reader) (*api.AnalysisResponse, error)
}

// Store manages the active conversation and its backend requests.
type Store struct {
	mu   sync.Mutex
	conv *model.Conversation

	// conversationID threads server-side context across turns. Updated
	// from successful chat responses, reset by Clear.
	conversationID string

	// inFlight counts outstanding backend requests. Advisory: the UI
	// disables submit while nonzero, but the store itself accepts
	// overlapping sends and lets both complete.
	inFlight int

	client Backend
}

// New creates a store over a fresh conversation.
func New(client Backend) *Store {
	return &Store{
		conv:   model.NewConversation(),
		client: client,
	}
}

// =============================================================================
// SEND FLOW
// =============================================================================

// SendMessage runs one chat turn: the user message is appended
// immediately, then the backend is asked for an answer. On success the
// answer is appended with its citations; on any failure a fallback
// assistant message is appended instead. Either way the conversation
// grows by exactly two messages.
//
// The returned message is the appended assistant message. The error is
// the underlying failure for callers that want to log it; the fallback
// has already been appended when it is non-nil.
func (s *Store) SendMessage(ctx context.Context, text string) (*model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	s.conv.AddUserMessage(text)
	convID := s.conversationID
	s.inFlight++
	s.mu.Unlock()

	resp, err := s.client.Chat(ctx, text, convID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if err != nil {
		log.Printf("chat request failed (%s): %v", api.ErrorKind(err), err)
		msg := s.conv.AddAssistantMessage(FallbackText)
		msg.ErrorKind = api.ErrorKind(err)
		return msg, err
	}

	if resp.ConversationID != "" {
		s.conversationID = resp.ConversationID
	}
	msg := s.conv.AddAssistantMessage(resp.Response)
	msg.Sources = resp.Sources
	return msg, nil
}

// =============================================================================
// UPLOAD FLOW
// =============================================================================

// UploadFile sends a local document for analysis. The user message
// carries the attachment; the assistant message carries the analysis
// labeled with the filename. Validation failures surface before any
// message is appended so the user can fix the path and retry. Once the
// upload starts, the flow mirrors SendMessage: exactly two messages,
// fallback on failure.
func (s *Store) UploadFile(ctx context.Context, path string) (*model.Message, error) {
	if err := api.ValidateUpload(path); err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat file: %w", err)
	}
	name := filepath.Base(path)

	s.mu.Lock()
	userMsg := s.conv.AddUserMessage("Please analyze this document: " + name)
	userMsg.Attachments = []model.Attachment{{Name: name, Size: info.Size()}}
	s.inFlight++
	s.mu.Unlock()

	resp, err := s.client.AnalyzeDocument(ctx, name, f)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inFlight--

	if err != nil {
		log.Printf("document analysis failed (%s): %v", api.ErrorKind(err), err)
		msg := s.conv.AddAssistantMessage(FallbackText)
		msg.ErrorKind = api.ErrorKind(err)
		return msg, err
	}

	msg := s.conv.AddAssistantMessage(resp.Analysis)
	msg.FileAnalysis = name
	return msg, nil
}

// =============================================================================
// STATE ACCESS
// =============================================================================

// ClearMessages resets the conversation. Always safe to call, including
// while requests are in flight; their replies append to the cleared
// history when they settle.
func (s *Store) ClearMessages() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv.Clear()
	s.conversationID = ""
}

// Loading reports whether any backend request is outstanding.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inFlight > 0
}

// Messages returns a snapshot of the current message list.
func (s *Store) Messages() []*model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Message, len(s.conv.Messages))
	copy(out, s.conv.Messages)
	return out
}

// MessageCount returns the number of messages in the conversation.
func (s *Store) MessageCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.MessageCount()
}

// Snapshot returns a deep copy of the conversation for persistence.
func (s *Store) Snapshot() *model.Conversation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.Clone()
}

// Restore replaces the active conversation, used when loading a saved
// session. The server-side context does not survive a restore.
func (s *Store) Restore(conv *model.Conversation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conv = conv
	s.conversationID = ""
}

// AddSystemMessage appends a local system notice (command feedback,
// load/save confirmations). Never sent to the backend.
func (s *Store) AddSystemMessage(content string) *model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.AddSystemMessage(content)
}

// LastAssistantMessage returns the most recent assistant reply, or nil
// when nothing has been answered yet. Feedback commands act on it.
func (s *Store) LastAssistantMessage() *model.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conv.GetLastAssistantMessage()
}
