// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nyaya-tui/internal/ui/styles"
	"github.com/jeranaias/nyaya-tui/internal/util"
)

// =============================================================================
// STATUS BAR COMPONENT
// =============================================================================

// Status represents the current application status.
type Status int

const (
	StatusReady Status = iota
	StatusThinking
	StatusUploading
	StatusError
	StatusOffline
)

// String returns the display string for the status.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "Ready"
	case StatusThinking:
		return "Thinking..."
	case StatusUploading:
		return "Uploading..."
	case StatusError:
		return "Error"
	case StatusOffline:
		return "Offline"
	default:
		return "Unknown"
	}
}

// Icon returns a shape indicator so the state reads without color.
func (s Status) Icon() string {
	switch s {
	case StatusReady:
		return styles.StatusIndicators.Success
	case StatusThinking, StatusUploading:
		return styles.StatusIndicators.Pending
	case StatusError:
		return styles.StatusIndicators.Error
	case StatusOffline:
		return styles.StatusIndicators.Warning
	default:
		return "?"
	}
}

// StatusBar is the bottom status bar: backend endpoint, message count,
// request state and key hints.
type StatusBar struct {
	BackendURL    string
	SessionTitle  string
	MessageCount  int
	Status        Status
	Width         int
	ShowShortcuts bool
}

// NewStatusBar creates a status bar in the ready state.
func NewStatusBar() *StatusBar {
	return &StatusBar{
		Status:        StatusReady,
		Width:         80,
		ShowShortcuts: true,
	}
}

// SetWidth updates the status bar width.
func (s *StatusBar) SetWidth(width int) {
	s.Width = width
}

// SetStatus updates the current status.
func (s *StatusBar) SetStatus(status Status) {
	s.Status = status
}

// SetSession updates the session title and message count.
func (s *StatusBar) SetSession(title string, count int) {
	s.SessionTitle = title
	s.MessageCount = count
}

// View renders the status bar.
func (s *StatusBar) View() string {
	if s.Width < 60 {
		return s.viewNarrow()
	}
	return s.viewWide()
}

// viewNarrow renders a compact bar for narrow terminals.
func (s *StatusBar) viewNarrow() string {
	statusText := s.getStatusStyle().Render(s.Status.Icon())
	countText := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(strconv.Itoa(s.MessageCount) + " msg")

	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	return styles.StatusBarStyle.
		Width(s.Width).
		Render(statusText + sep + countText)
}

// viewWide renders the full bar: endpoint and session on the left,
// status and shortcuts on the right.
func (s *StatusBar) viewWide() string {
	sep := lipgloss.NewStyle().Foreground(styles.Overlay).Render(" | ")

	leftParts := []string{}
	if s.BackendURL != "" {
		urlStyle := lipgloss.NewStyle().Foreground(styles.TextSecondary)
		leftParts = append(leftParts, urlStyle.Render(s.BackendURL))
	}
	if s.SessionTitle != "" {
		// Width-aware truncation so CJK titles do not overrun the bar.
		title := util.TruncateWidth(s.SessionTitle, 30)
		leftParts = append(leftParts, lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(title))
	}
	leftParts = append(leftParts, lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render(strconv.Itoa(s.MessageCount)+" messages"))

	leftSection := strings.Join(leftParts, sep)

	rightParts := []string{s.getStatusStyle().Render(s.Status.Icon() + " " + s.Status.String())}
	if s.ShowShortcuts {
		rightParts = append(rightParts, s.renderShortcuts())
	}
	rightSection := strings.Join(rightParts, " ")

	spacing := s.Width - lipgloss.Width(leftSection) - lipgloss.Width(rightSection) - 2
	if spacing < 1 {
		spacing = 1
	}

	return styles.StatusBarStyle.
		Padding(0, 1).
		Width(s.Width).
		Render(leftSection + strings.Repeat(" ", spacing) + rightSection)
}

// renderShortcuts renders keyboard shortcut hints.
func (s *StatusBar) renderShortcuts() string {
	shortcuts := []string{
		styles.HelpKeyStyle.Render("^L") + styles.HelpDescStyle.Render("clear"),
		styles.HelpKeyStyle.Render("^S") + styles.HelpDescStyle.Render("save"),
		styles.HelpKeyStyle.Render("^C") + styles.HelpDescStyle.Render("quit"),
	}
	return strings.Join(shortcuts, " ")
}

// getStatusStyle returns the style for the current status.
func (s *StatusBar) getStatusStyle() lipgloss.Style {
	switch s.Status {
	case StatusReady:
		return lipgloss.NewStyle().Foreground(styles.SuccessHighContrast).Bold(true)
	case StatusThinking, StatusUploading:
		return lipgloss.NewStyle().Foreground(styles.InfoHighContrast).Bold(true)
	case StatusError:
		return lipgloss.NewStyle().Foreground(styles.ErrorHighContrast).Bold(true)
	case StatusOffline:
		return lipgloss.NewStyle().Foreground(styles.WarningHighContrast).Bold(true)
	default:
		return lipgloss.NewStyle().Foreground(styles.TextMuted)
	}
}
