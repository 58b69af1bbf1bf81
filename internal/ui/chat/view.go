// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nyaya-tui/internal/ui/components"
	"github.com/jeranaias/nyaya-tui/internal/ui/styles"
)

// =============================================================================
// VIEW
// =============================================================================

// View renders the full chat screen.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.renderSpinnerLine())
	b.WriteString("\n")
	b.WriteString(m.renderInput())
	b.WriteString("\n")
	b.WriteString(m.statusBar.View())

	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return b.String()
}

// renderHeader renders the title line.
func (m Model) renderHeader() string {
	title := styles.TitleStyle.Render("nyaya")
	tagline := styles.SubtitleStyle.Render(" · Indian legal research")

	health := ""
	if !m.backendHealthy {
		health = "  " + styles.RenderWarning("backend unreachable")
	}

	return lipgloss.NewStyle().
		Width(m.width).
		Render(title + tagline + health)
}

// renderSpinnerLine renders the in-flight indicator row, blank when idle.
func (m Model) renderSpinnerLine() string {
	if !m.spinner.IsActive() {
		return ""
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(m.spinner.View())
}

// renderInput renders the input row. The prompt dims while a request is
// in flight to signal that submits are ignored.
func (m Model) renderInput() string {
	inputView := m.input.View()
	if m.Loading() {
		inputView = lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Render(m.input.View())
	}
	return lipgloss.NewStyle().PaddingLeft(1).Render(inputView)
}

// renderHelpOverlay renders the full-screen key reference.
func (m Model) renderHelpOverlay() string {
	width := m.width
	if width == 0 {
		width = 80
	}
	height := m.height
	if height == 0 {
		height = 24
	}

	var rows []string
	rows = append(rows, styles.TitleStyle.Render("Keyboard reference"), "")
	for _, group := range m.keyMap.FullHelp() {
		for _, binding := range group {
			help := binding.Help()
			rows = append(rows,
				styles.HelpKeyStyle.Render(padRight(help.Key, 12))+
					styles.HelpDescStyle.Render(help.Desc))
		}
		rows = append(rows, "")
	}
	rows = append(rows, styles.DisclaimerStyle.Render(components.DisclaimerText))

	box := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Saffron).
		Padding(1, 3).
		Render(strings.Join(rows, "\n"))

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s + " "
	}
	return s + strings.Repeat(" ", width-len(s))
}
