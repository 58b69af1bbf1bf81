// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the interactive chat view for the nyaya TUI.
package chat

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nyaya-tui/internal/api"
	"github.com/jeranaias/nyaya-tui/internal/config"
	"github.com/jeranaias/nyaya-tui/internal/index"
	"github.com/jeranaias/nyaya-tui/internal/storage"
	"github.com/jeranaias/nyaya-tui/internal/store"
	"github.com/jeranaias/nyaya-tui/internal/ui/components"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady     State = iota // Ready for input
	StateThinking               // Waiting on a chat reply
	StateUploading              // Waiting on a document analysis
)

// HealthChecker probes the backend health endpoint.
type HealthChecker interface {
	Health(ctx context.Context) (*api.HealthStatus, error)
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	state State

	// Dimensions
	width  int
	height int

	// Wiring
	cfg      *config.Config
	store    *store.Store
	sessions *storage.SessionStore
	history  *index.HistoryIndex
	backend  HealthChecker

	// UI components
	viewport    viewport.Model
	input       textinput.Model
	spinner     components.Spinner
	statusBar   *components.StatusBar
	welcome     components.Welcome
	messageList *components.MessageList
	keyMap      KeyMap

	// Status
	version        string
	backendHealthy bool
	showHelp       bool
}

// Options carries the dependencies for a chat model.
type Options struct {
	Config   *config.Config
	Store    *store.Store
	Sessions *storage.SessionStore
	History  *index.HistoryIndex
	Backend  HealthChecker
	Version  string
}

// New creates a new chat model.
func New(opts Options) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Ask about Indian law..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	sb := components.NewStatusBar()
	sb.BackendURL = opts.Config.API.BaseURL

	ml := components.NewMessageList()
	ml.ShowSources = opts.Config.UI.ShowSources

	return Model{
		state:       StateReady,
		cfg:         opts.Config,
		store:       opts.Store,
		sessions:    opts.Sessions,
		history:     opts.History,
		backend:     opts.Backend,
		viewport:    vp,
		input:       ti,
		spinner:     components.NewSpinner(),
		statusBar:   sb,
		welcome:     components.NewWelcome(opts.Version, opts.Config.API.BaseURL),
		messageList: ml,
		keyMap:      DefaultKeyMap(),
		version:     opts.Version,
	}
}

// Init starts the backend health probe.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		checkHealthCmd(m.backend),
	)
}

// Loading reports whether a request is in flight.
func (m Model) Loading() bool {
	return m.state != StateReady
}

// updateViewport re-renders the transcript into the viewport and keeps
// the view pinned to the latest message.
func (m *Model) updateViewport() {
	messages := m.store.Messages()
	m.messageList.SetMessages(messages)
	m.messageList.SetWidth(m.viewport.Width)

	if len(messages) == 0 {
		m.welcome.SetSize(m.viewport.Width, m.viewport.Height)
		m.viewport.SetContent(m.welcome.View())
	} else {
		m.viewport.SetContent(m.messageList.View())
	}
	m.viewport.GotoBottom()

	title := ""
	if snap := m.store.Snapshot(); snap != nil {
		title = snap.GetTitle()
	}
	m.statusBar.SetSession(title, len(messages))
}
