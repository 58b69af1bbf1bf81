// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nyaya-tui/internal/ui/components"
)

// =============================================================================
// UPDATE LOOP
// =============================================================================

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case ChatResponseMsg:
		return m.handleChatResponse(msg)

	case UploadResponseMsg:
		return m.handleUploadResponse(msg)

	case HealthMsg:
		m.backendHealthy = msg.Healthy
		if !msg.Healthy && m.state == StateReady {
			m.statusBar.SetStatus(components.StatusOffline)
		}
		return m, nil

	case SessionSavedMsg:
		if msg.Err != nil {
			m.store.AddSystemMessage("Save failed: " + msg.Err.Error())
		} else {
			m.store.AddSystemMessage("Session saved: " + msg.ID)
		}
		m.updateViewport()
		return m, nil

	case SessionLoadedMsg:
		if msg.Err != nil {
			m.store.AddSystemMessage("Load failed: " + msg.Err.Error())
		} else {
			m.store.Restore(msg.Conversation)
		}
		m.updateViewport()
		return m, nil

	case ExportDoneMsg:
		if msg.Err != nil {
			m.store.AddSystemMessage("Export failed: " + msg.Err.Error())
		} else {
			m.store.AddSystemMessage("Transcript exported to " + msg.Path)
		}
		m.updateViewport()
		return m, nil
	}

	// Spinner ticks arrive while a request is in flight. Refreshing the
	// viewport here also surfaces the optimistically appended user
	// message before the reply lands.
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
		m.updateViewport()
	}

	m.viewport, cmd = m.viewport.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// handleResize recomputes component dimensions.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Header, spinner line, input and status bar sit outside the viewport.
	chromeHeight := 5
	m.viewport.Width = msg.Width
	m.viewport.Height = msg.Height - chromeHeight
	if m.viewport.Height < 3 {
		m.viewport.Height = 3
	}

	m.input.Width = msg.Width - 4
	m.statusBar.SetWidth(msg.Width)
	m.updateViewport()
	return m, nil
}

// handleKey dispatches keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keyMap.Help):
		m.showHelp = !m.showHelp
		return m, nil

	case key.Matches(msg, m.keyMap.Clear):
		m.store.ClearMessages()
		m.updateViewport()
		return m, nil

	case key.Matches(msg, m.keyMap.Save):
		return m, saveSessionCmd(m.sessions, m.store, m.history)

	case key.Matches(msg, m.keyMap.Submit):
		return m.handleSubmit()

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.HalfViewUp()
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.HalfViewDown()
		return m, nil

	case key.Matches(msg, m.keyMap.Home):
		m.viewport.GotoTop()
		return m, nil

	case key.Matches(msg, m.keyMap.End):
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	m.viewport, cmd = m.viewport.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// handleSubmit sends the input text. Submits are ignored while a
// request is in flight or when the input is blank.
func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	content := strings.TrimSpace(m.input.Value())
	if content == "" {
		return m, nil
	}

	if strings.HasPrefix(content, "/") {
		return m.handleCommand(content)
	}

	if m.Loading() {
		return m, nil
	}

	m.input.Reset()
	m.state = StateThinking
	m.statusBar.SetStatus(components.StatusThinking)
	m.spinner.SetMessage("Thinking")
	spinCmd := m.spinner.Start()

	return m, tea.Batch(spinCmd, sendChatCmd(m.store, content))
}

// handleChatResponse finishes a send. Success and failure both arrive
// here; the store has already appended the reply or the fallback.
func (m Model) handleChatResponse(msg ChatResponseMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.spinner.Stop()
	if msg.Err != nil {
		m.statusBar.SetStatus(components.StatusError)
	} else {
		m.statusBar.SetStatus(components.StatusReady)
	}
	m.updateViewport()
	return m, nil
}

// handleUploadResponse finishes a document analysis.
func (m Model) handleUploadResponse(msg UploadResponseMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.spinner.Stop()
	if msg.Err != nil {
		m.statusBar.SetStatus(components.StatusError)
		// Local validation failures never reach the transcript, so
		// surface them as a system notice.
		if msg.Message == nil {
			m.store.AddSystemMessage("Upload rejected: " + msg.Err.Error())
		}
	} else {
		m.statusBar.SetStatus(components.StatusReady)
	}
	m.updateViewport()
	return m, nil
}
