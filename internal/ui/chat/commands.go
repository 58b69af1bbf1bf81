// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive chat view for the nyaya TUI.
//
// This file implements the slash command registry. Each command is an
// individual handler function keyed by name and aliases.
package chat

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nyaya-tui/internal/index"
	"github.com/jeranaias/nyaya-tui/internal/storage"
	"github.com/jeranaias/nyaya-tui/internal/store"
	"github.com/jeranaias/nyaya-tui/internal/ui/components"
	"github.com/jeranaias/nyaya-tui/internal/util"
)

// =============================================================================
// COMMAND HANDLER REGISTRY
// =============================================================================

// CommandHandler handles one slash command. Handlers take and return
// the model by value, matching Update.
type CommandHandler func(m Model, args []string) (tea.Model, tea.Cmd)

// commandHandlers maps command names to their handlers.
var commandHandlers = map[string]CommandHandler{
	// Help & meta
	"help": handleHelpCommand,
	"h":    handleHelpCommand,
	"?":    handleHelpCommand,
	"quit": handleQuitCommand,
	"q":    handleQuitCommand,
	"exit": handleQuitCommand,

	// Conversation
	"clear": handleClearCommand,
	"c":     handleClearCommand,
	"new":   handleClearCommand,

	// Sessions
	"save":     handleSaveCommand,
	"s":        handleSaveCommand,
	"load":     handleLoadCommand,
	"l":        handleLoadCommand,
	"sessions": handleListCommand,
	"list":     handleListCommand,
	"search":   handleSearchCommand,
	"export":   handleExportCommand,
	"e":        handleExportCommand,

	// Documents
	"upload":  handleUploadCommand,
	"u":       handleUploadCommand,
	"analyze": handleUploadCommand,

	// Feedback on the last answer
	"like":    handleLikeCommand,
	"dislike": handleDislikeCommand,
	"copy":    handleCopyCommand,

	// Display
	"sources": handleSourcesCommand,
	"version": handleVersionCommand,
	"ver":     handleVersionCommand,
}

// handleCommand processes slash commands through the registry.
func (m Model) handleCommand(content string) (tea.Model, tea.Cmd) {
	m.input.Reset()

	parts := strings.Fields(content)
	if len(parts) == 0 {
		return m, nil
	}

	cmdName := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	args := parts[1:]

	if handler, ok := commandHandlers[cmdName]; ok {
		return handler(m, args)
	}

	m.store.AddSystemMessage("Unknown command '" + content + "'. Type /help for available commands.")
	m.updateViewport()
	return m, nil
}

// =============================================================================
// HELP AND META
// =============================================================================

const helpText = `Commands:
  /help              Show this help
  /clear             Clear the conversation
  /save              Save the session
  /load N            Load session N (see /sessions)
  /sessions          List saved sessions
  /search QUERY      Search saved sessions
  /upload PATH       Analyze a legal document (pdf, docx, doc, txt, jpg, png)
  /export [PATH]     Export the transcript as markdown
  /like              Mark the last answer helpful
  /dislike           Mark the last answer unhelpful
  /copy              Copy the last answer to the clipboard
  /sources           Toggle citation display
  /version           Show version
  /quit              Exit

Keys: Enter send, C-l clear, C-s save, C-c quit`

func handleHelpCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	m.store.AddSystemMessage(helpText)
	m.updateViewport()
	return m, nil
}

func handleQuitCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}

func handleVersionCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	m.store.AddSystemMessage("nyaya v" + m.version + "  ·  backend " + m.cfg.API.BaseURL)
	m.updateViewport()
	return m, nil
}

// =============================================================================
// CONVERSATION COMMANDS
// =============================================================================

func handleClearCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	m.store.ClearMessages()
	m.updateViewport()
	return m, nil
}

func handleSourcesCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	m.messageList.ShowSources = !m.messageList.ShowSources
	if m.messageList.ShowSources {
		m.store.AddSystemMessage("Citations shown")
	} else {
		m.store.AddSystemMessage("Citations hidden")
	}
	m.updateViewport()
	return m, nil
}

// =============================================================================
// FEEDBACK COMMANDS
// =============================================================================

func handleLikeCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	msg := m.store.LastAssistantMessage()
	if msg == nil {
		m.store.AddSystemMessage("No answer to rate yet.")
		m.updateViewport()
		return m, nil
	}
	msg.ToggleLike()
	if msg.Liked {
		m.store.AddSystemMessage("Marked the last answer as helpful.")
	} else {
		m.store.AddSystemMessage("Removed the helpful mark.")
	}
	m.updateViewport()
	return m, nil
}

func handleDislikeCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	msg := m.store.LastAssistantMessage()
	if msg == nil {
		m.store.AddSystemMessage("No answer to rate yet.")
		m.updateViewport()
		return m, nil
	}
	msg.ToggleDislike()
	if msg.Disliked {
		m.store.AddSystemMessage("Marked the last answer as not helpful.")
	} else {
		m.store.AddSystemMessage("Removed the not-helpful mark.")
	}
	m.updateViewport()
	return m, nil
}

func handleCopyCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	msg := m.store.LastAssistantMessage()
	if msg == nil {
		m.store.AddSystemMessage("No answer to copy yet.")
		m.updateViewport()
		return m, nil
	}
	if err := clipboard.WriteAll(msg.Content); err != nil {
		m.store.AddSystemMessage("Clipboard unavailable: " + err.Error())
	} else {
		msg.Copied = true
		m.store.AddSystemMessage("Copied the last answer.")
	}
	m.updateViewport()
	return m, nil
}

// =============================================================================
// SESSION COMMANDS
// =============================================================================

func handleSaveCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	if m.store.MessageCount() == 0 {
		m.store.AddSystemMessage("Nothing to save yet.")
		m.updateViewport()
		return m, nil
	}
	return m, saveSessionCmd(m.sessions, m.store, m.history)
}

func handleLoadCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.store.AddSystemMessage("Usage: /load N (see /sessions for the list)")
		m.updateViewport()
		return m, nil
	}
	return m, loadSessionCmd(m.sessions, args[0])
}

func handleListCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	metas, err := m.sessions.List()
	if err != nil {
		m.store.AddSystemMessage("Cannot list sessions: " + err.Error())
		m.updateViewport()
		return m, nil
	}
	if len(metas) == 0 {
		m.store.AddSystemMessage("No saved sessions. Use /save to keep this one.")
		m.updateViewport()
		return m, nil
	}

	var b strings.Builder
	b.WriteString("Saved sessions:\n")
	for i, meta := range metas {
		b.WriteString(strconv.Itoa(i))
		b.WriteString(". ")
		b.WriteString(util.TruncateRunes(meta.Title, 50))
		b.WriteString(" (")
		b.WriteString(strconv.Itoa(meta.MessageCount))
		b.WriteString(" messages, ")
		b.WriteString(meta.UpdatedAt.Format("Jan 2 15:04"))
		b.WriteString(")\n")
	}
	b.WriteString("\nUse /load N to resume one.")
	m.store.AddSystemMessage(b.String())
	m.updateViewport()
	return m, nil
}

func handleSearchCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.store.AddSystemMessage("Usage: /search QUERY")
		m.updateViewport()
		return m, nil
	}
	query := strings.Join(args, " ")

	var b strings.Builder
	if m.history != nil {
		results, err := m.history.Search(query, index.SearchOptions{Limit: 10})
		if err == nil && len(results) > 0 {
			b.WriteString("Matches for \"" + query + "\":\n")
			for _, r := range results {
				b.WriteString("- [")
				b.WriteString(util.TruncateRunes(r.SessionTitle, 40))
				b.WriteString("] ")
				b.WriteString(r.Snippet)
				b.WriteString("\n")
			}
			m.store.AddSystemMessage(strings.TrimRight(b.String(), "\n"))
			m.updateViewport()
			return m, nil
		}
	}

	// Substring fallback when the index is unavailable or empty.
	matches, err := m.sessions.SearchMessages(query)
	if err != nil || len(matches) == 0 {
		m.store.AddSystemMessage("No matches for \"" + query + "\".")
		m.updateViewport()
		return m, nil
	}
	b.WriteString("Matches for \"" + query + "\":\n")
	for _, meta := range matches {
		b.WriteString("- ")
		b.WriteString(util.TruncateRunes(meta.Title, 50))
		b.WriteString("\n")
	}
	m.store.AddSystemMessage(strings.TrimRight(b.String(), "\n"))
	m.updateViewport()
	return m, nil
}

func handleExportCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	if m.store.MessageCount() == 0 {
		m.store.AddSystemMessage("Nothing to export yet.")
		m.updateViewport()
		return m, nil
	}
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	return m, exportSessionCmd(m.store, path)
}

// =============================================================================
// DOCUMENT COMMANDS
// =============================================================================

func handleUploadCommand(m Model, args []string) (tea.Model, tea.Cmd) {
	if len(args) == 0 {
		m.store.AddSystemMessage("Usage: /upload PATH")
		m.updateViewport()
		return m, nil
	}
	if m.Loading() {
		m.store.AddSystemMessage("A request is already in flight.")
		m.updateViewport()
		return m, nil
	}

	path := strings.Join(args, " ")
	m.state = StateUploading
	m.statusBar.SetStatus(components.StatusUploading)
	m.spinner.SetMessage("Analyzing " + filepath.Base(path))
	spinCmd := m.spinner.Start()

	return m, tea.Batch(spinCmd, uploadFileCmd(m.store, path))
}

// =============================================================================
// SESSION COMMAND IMPLEMENTATIONS
// =============================================================================

// saveSessionCmd persists the current conversation and refreshes the
// search index when one is attached.
func saveSessionCmd(sessions *storage.SessionStore, s *store.Store, hist *index.HistoryIndex) tea.Cmd {
	return func() tea.Msg {
		snap := s.Snapshot()
		if _, err := sessions.Save(snap); err != nil {
			return SessionSavedMsg{Err: err}
		}
		if hist != nil {
			// Index errors do not fail the save; search just lags.
			_ = hist.IndexConversation(snap)
		}
		return SessionSavedMsg{ID: snap.ID}
	}
}

// loadSessionCmd loads a session by list index or by ID.
func loadSessionCmd(sessions *storage.SessionStore, ref string) tea.Cmd {
	return func() tea.Msg {
		if n, err := strconv.Atoi(ref); err == nil {
			conv, err := sessions.LoadByIndex(n)
			return SessionLoadedMsg{Conversation: conv, Err: err}
		}
		conv, err := sessions.Load(ref)
		return SessionLoadedMsg{Conversation: conv, Err: err}
	}
}

// exportSessionCmd writes the transcript as markdown.
func exportSessionCmd(s *store.Store, path string) tea.Cmd {
	return func() tea.Msg {
		snap := s.Snapshot()
		if path == "" {
			path = "nyaya-" + snap.ID + ".md"
		}
		data := storage.ExportMarkdown(snap)
		if err := util.AtomicWriteFile(path, []byte(data), 0o644); err != nil {
			return ExportDoneMsg{Err: err}
		}
		return ExportDoneMsg{Path: path}
	}
}
