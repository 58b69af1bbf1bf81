// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ApplyTheme configures the renderer for the requested theme.
// "auto" queries the terminal background via termenv; "dark" and
// "light" force the corresponding palette half.
func ApplyTheme(theme string) {
	switch theme {
	case "dark":
		lipgloss.SetHasDarkBackground(true)
	case "light":
		lipgloss.SetHasDarkBackground(false)
	default:
		lipgloss.SetHasDarkBackground(termenv.HasDarkBackground())
	}
}

// ColorProfile reports the terminal's color capability. Used by the
// plain CLI to skip styling entirely on dumb terminals.
func ColorProfile() termenv.Profile {
	return termenv.ColorProfile()
}

// SupportsColor reports whether the terminal renders color at all.
func SupportsColor() bool {
	return termenv.ColorProfile() != termenv.Ascii
}

// =============================================================================
// SHARED STYLES
// =============================================================================

// TitleStyle renders the app header.
var TitleStyle = lipgloss.NewStyle().
	Foreground(Saffron).
	Bold(true)

// SubtitleStyle renders secondary header text.
var SubtitleStyle = lipgloss.NewStyle().
	Foreground(TextSecondary)

// StatusBarStyle is the base style for the bottom status bar.
var StatusBarStyle = lipgloss.NewStyle().
	Foreground(TextSecondary).
	Background(SurfaceDim)

// HelpKeyStyle highlights key names in the help line.
var HelpKeyStyle = lipgloss.NewStyle().
	Foreground(Saffron).
	Bold(true)

// HelpDescStyle renders help descriptions.
var HelpDescStyle = lipgloss.NewStyle().
	Foreground(TextMuted)

// SpinnerStyle colors the loading spinner.
var SpinnerStyle = lipgloss.NewStyle().
	Foreground(Indigo)

// DisclaimerStyle renders the legal-information notice.
var DisclaimerStyle = lipgloss.NewStyle().
	Foreground(TextMuted).
	Italic(true)
