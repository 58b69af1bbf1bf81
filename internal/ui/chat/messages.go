// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive chat view for the nyaya TUI.
//
// This file defines the Bubble Tea message types and the commands that
// produce them. Backend calls run inside tea.Cmd closures so the event
// loop never blocks on the network.
package chat

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nyaya-tui/internal/model"
	"github.com/jeranaias/nyaya-tui/internal/store"
)

// =============================================================================
// CHAT MESSAGES
// =============================================================================

// ChatResponseMsg carries the assistant reply (or fallback) after a send.
type ChatResponseMsg struct {
	Message *model.Message
	Err     error
}

// UploadResponseMsg carries the analysis reply after a document upload.
type UploadResponseMsg struct {
	Message *model.Message
	Err     error
}

// HealthMsg reports the result of a backend health probe.
type HealthMsg struct {
	Healthy bool
	Err     error
}

// SessionSavedMsg confirms a session save.
type SessionSavedMsg struct {
	ID  string
	Err error
}

// SessionLoadedMsg delivers a restored conversation.
type SessionLoadedMsg struct {
	Conversation *model.Conversation
	Err          error
}

// ExportDoneMsg confirms a transcript export.
type ExportDoneMsg struct {
	Path string
	Err  error
}

// =============================================================================
// COMMANDS
// =============================================================================

// sendChatCmd sends the user text through the store. The store appends
// both the user message and the reply; the returned message is the
// reply so the view can scroll to it.
func sendChatCmd(s *store.Store, text string) tea.Cmd {
	return func() tea.Msg {
		msg, err := s.SendMessage(context.Background(), text)
		return ChatResponseMsg{Message: msg, Err: err}
	}
}

// uploadFileCmd uploads a document for analysis through the store.
func uploadFileCmd(s *store.Store, path string) tea.Cmd {
	return func() tea.Msg {
		msg, err := s.UploadFile(context.Background(), path)
		return UploadResponseMsg{Message: msg, Err: err}
	}
}

// checkHealthCmd probes the backend health endpoint.
func checkHealthCmd(backend HealthChecker) tea.Cmd {
	return func() tea.Msg {
		if backend == nil {
			return HealthMsg{Healthy: false}
		}
		_, err := backend.Health(context.Background())
		return HealthMsg{Healthy: err == nil, Err: err}
	}
}
