// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nyaya-tui/internal/ui/styles"
)

// =============================================================================
// WELCOME SCREEN
// =============================================================================

// DisclaimerText is shown on the welcome screen and in the CLI banner.
// Nyaya provides legal information, not legal advice.
const DisclaimerText = "Nyaya provides general legal information about Indian law. " +
	"It is not a substitute for advice from a qualified advocate."

// Welcome is the first screen shown before any messages exist.
type Welcome struct {
	version    string
	backendURL string
	width      int
	height     int
}

// NewWelcome creates a welcome screen.
func NewWelcome(version, backendURL string) Welcome {
	return Welcome{
		version:    version,
		backendURL: backendURL,
	}
}

// SetSize updates the dimensions.
func (w *Welcome) SetSize(width, height int) {
	w.width = width
	w.height = height
}

// View renders the welcome screen centered in the available area.
func (w Welcome) View() string {
	width := w.width
	if width == 0 {
		width = 80
	}
	height := w.height
	if height == 0 {
		height = 24
	}

	boxWidth := 62
	if width < 70 {
		boxWidth = width - 8
	}
	if boxWidth < 40 {
		boxWidth = 40
	}

	title := styles.TitleStyle.Render("nyaya")
	tagline := styles.SubtitleStyle.Render("Indian legal research assistant")
	versionLine := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Render("v" + w.version + "  ·  " + w.backendURL)

	hints := []string{
		styles.HelpKeyStyle.Render("enter") + " " + styles.HelpDescStyle.Render("send message"),
		styles.HelpKeyStyle.Render("/upload PATH") + " " + styles.HelpDescStyle.Render("analyze a document"),
		styles.HelpKeyStyle.Render("/help") + " " + styles.HelpDescStyle.Render("all commands"),
	}

	disclaimer := styles.DisclaimerStyle.
		Width(boxWidth - 6).
		Render(DisclaimerText)

	content := strings.Join([]string{
		title,
		tagline,
		versionLine,
		"",
		strings.Join(hints, "\n"),
		"",
		disclaimer,
	}, "\n")

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Saffron).
		Padding(1, 3).
		Width(boxWidth).
		Align(lipgloss.Center).
		Render(content)

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
