// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/nyaya-tui/internal/model"
	"github.com/jeranaias/nyaya-tui/internal/ui/styles"
	"github.com/jeranaias/nyaya-tui/internal/util"
)

// =============================================================================
// MESSAGE BUBBLE COMPONENT
// =============================================================================

// MessageBubble renders one message: user bubbles right-aligned in
// blue, assistant bubbles left-aligned in indigo with markdown content,
// system notices centered in amber.
type MessageBubble struct {
	Message       *model.Message
	Width         int
	ShowTimestamp bool
	ShowSources   bool
}

// NewMessageBubble creates a bubble for a message.
func NewMessageBubble(msg *model.Message) *MessageBubble {
	if msg == nil {
		msg = &model.Message{Role: model.RoleSystem}
	}
	return &MessageBubble{
		Message:       msg,
		Width:         80,
		ShowTimestamp: true,
		ShowSources:   true,
	}
}

// SetWidth sets the bubble width.
func (b *MessageBubble) SetWidth(width int) {
	b.Width = width
}

// View renders the message bubble.
func (b *MessageBubble) View() string {
	switch b.Message.Role {
	case model.RoleUser:
		return b.renderUserBubble()
	case model.RoleAssistant:
		return b.renderAssistantBubble()
	case model.RoleSystem:
		return b.renderSystemBubble()
	default:
		return b.renderGenericBubble()
	}
}

// ==========================================================================
// USER BUBBLE - Blue tones, right-aligned
// ==========================================================================

func (b *MessageBubble) renderUserBubble() string {
	// User text renders plain, never as markdown.
	content := b.Message.Content
	if content == "" {
		content = "..."
	}

	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	wrapped := wordWrap(content, maxContentWidth)

	if len(b.Message.Attachments) > 0 {
		attachStyle := lipgloss.NewStyle().Foreground(styles.TextMuted).Italic(true)
		var lines []string
		for _, att := range b.Message.Attachments {
			lines = append(lines, attachStyle.Render("[file] "+att.Name))
		}
		wrapped = wrapped + "\n" + strings.Join(lines, "\n")
	}

	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.UserBubbleFg).
		Background(styles.UserBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.UserBubbleBorder).
		Padding(0, 2).
		Width(contentWidth)

	bubble := bubbleStyle.Render(wrapped)

	header := b.renderHeader("you")

	leftMargin := b.Width - contentWidth - 4
	if leftMargin < 0 {
		leftMargin = 0
	}
	marginStyle := lipgloss.NewStyle().MarginLeft(leftMargin)

	return lipgloss.JoinVertical(lipgloss.Right,
		marginStyle.Render(header),
		marginStyle.Render(bubble))
}

// ==========================================================================
// ASSISTANT BUBBLE - Indigo tones, left-aligned, markdown content
// ==========================================================================

func (b *MessageBubble) renderAssistantBubble() string {
	maxContentWidth := b.Width - 12
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}

	var content string
	if b.Message.IsError() {
		// Fallback replies render plain in error colors.
		content = b.Message.Content
	} else {
		content = RenderMarkdown(b.Message.Content, maxContentWidth)
	}
	if content == "" {
		content = "..."
	}

	contentWidth := minInt(maxLineWidth(content)+4, b.Width-8)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.AssistantBubbleFg).
		Background(styles.AssistantBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.AssistantBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		MarginRight(4)

	if b.Message.IsError() {
		bubbleStyle = bubbleStyle.
			Foreground(styles.ErrorBubbleFg).
			Background(styles.ErrorBubbleBg).
			BorderForeground(styles.Rose)
	}

	bubble := bubbleStyle.Render(content)

	label := "nyaya"
	if b.Message.FileAnalysis != "" {
		label = "nyaya · analysis of " + b.Message.FileAnalysis
	}
	header := b.renderHeader(label)

	parts := []string{header, bubble}

	if b.ShowSources && len(b.Message.Sources) > 0 {
		parts = append(parts, b.renderSources())
	}
	if fb := b.renderFeedback(); fb != "" {
		parts = append(parts, fb)
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderSources renders the numbered citation list under an answer.
func (b *MessageBubble) renderSources() string {
	titleStyle := lipgloss.NewStyle().
		Foreground(styles.TextSecondary).
		Bold(true).
		PaddingLeft(2)
	itemStyle := lipgloss.NewStyle().
		Foreground(styles.CitationColor).
		PaddingLeft(2)
	metaStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted)

	lines := []string{titleStyle.Render("Sources:")}
	for i, src := range b.Message.Sources {
		line := strconv.Itoa(i+1) + ". " + src.Title
		if src.Court != "" {
			line += " " + metaStyle.Render("("+src.Court+")")
		}
		lines = append(lines, itemStyle.Render(line))
		if src.URL != "" {
			lines = append(lines, lipgloss.NewStyle().PaddingLeft(5).Render(styles.RenderLink(src.URL)))
		}
	}
	return strings.Join(lines, "\n")
}

// renderFeedback shows the local like/dislike/copied state.
func (b *MessageBubble) renderFeedback() string {
	var marks []string
	if b.Message.Liked {
		marks = append(marks, styles.RenderSuccess("helpful"))
	}
	if b.Message.Disliked {
		marks = append(marks, styles.RenderWarning("not helpful"))
	}
	if b.Message.Copied {
		marks = append(marks, styles.RenderInfo("copied"))
	}
	if len(marks) == 0 {
		return ""
	}
	return lipgloss.NewStyle().PaddingLeft(2).Render(strings.Join(marks, "  "))
}

// ==========================================================================
// SYSTEM BUBBLE - Amber tones, centered
// ==========================================================================

func (b *MessageBubble) renderSystemBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "System message"
	}

	maxContentWidth := b.Width - 20
	if maxContentWidth < 30 {
		maxContentWidth = 30
	}
	wrapped := wordWrap(content, maxContentWidth)
	contentWidth := minInt(maxLineWidth(wrapped)+4, b.Width-16)

	bubbleStyle := lipgloss.NewStyle().
		Foreground(styles.SystemBubbleFg).
		Background(styles.SystemBubbleBg).
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(styles.SystemBubbleBorder).
		Padding(0, 2).
		Width(contentWidth).
		Align(lipgloss.Center)

	bubble := bubbleStyle.Render(wrapped)

	centerStyle := lipgloss.NewStyle().
		Width(b.Width).
		Align(lipgloss.Center)

	return lipgloss.JoinVertical(
		lipgloss.Center,
		centerStyle.Render(b.renderHeader("system")),
		centerStyle.Render(bubble),
	)
}

// ==========================================================================
// GENERIC BUBBLE
// ==========================================================================

func (b *MessageBubble) renderGenericBubble() string {
	content := b.Message.Content
	if content == "" {
		content = "..."
	}
	maxContentWidth := b.Width - 10
	if maxContentWidth < 20 {
		maxContentWidth = 20
	}
	return lipgloss.NewStyle().
		Foreground(styles.TextPrimary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(styles.Overlay).
		Padding(0, 2).
		Render(wordWrap(content, maxContentWidth))
}

// ==========================================================================
// HELPERS
// ==========================================================================

// renderHeader builds the role/timestamp line above a bubble.
func (b *MessageBubble) renderHeader(role string) string {
	roleStyle := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true)
	header := roleStyle.Render(role)
	if b.ShowTimestamp {
		if ts := b.renderTimestamp(); ts != "" {
			header += " " + ts
		}
	}
	return header
}

// renderTimestamp renders a dimmed timestamp, date included when the
// message is from another day.
func (b *MessageBubble) renderTimestamp() string {
	ts := b.Message.Timestamp
	if ts.IsZero() {
		return ""
	}

	now := time.Now()
	layout := "3:04 PM"
	if ts.Year() != now.Year() || ts.YearDay() != now.YearDay() {
		layout = "Jan 2, 3:04 PM"
	}

	return lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render(ts.Format(layout))
}

// wordWrap wraps text to fit within the specified width, preserving
// existing newlines.
func wordWrap(text string, width int) string {
	if width <= 0 {
		return text
	}

	var result strings.Builder
	for lineIdx, line := range strings.Split(text, "\n") {
		if lineIdx > 0 {
			result.WriteString("\n")
		}

		words := strings.Fields(line)
		if len(words) == 0 {
			continue
		}

		currentLine := words[0]
		for _, word := range words[1:] {
			if util.RuneLen(currentLine)+1+util.RuneLen(word) <= width {
				currentLine += " " + word
			} else {
				result.WriteString(currentLine)
				result.WriteString("\n")
				currentLine = word
			}
		}
		result.WriteString(currentLine)
	}
	return result.String()
}

// maxLineWidth returns the display width of the longest line.
func maxLineWidth(text string) int {
	maxWidth := 0
	for _, line := range strings.Split(text, "\n") {
		if w := util.StringWidth(line); w > maxWidth {
			maxWidth = w
		}
	}
	return maxWidth
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// =============================================================================
// MESSAGE LIST COMPONENT
// =============================================================================

// MessageList renders a sequence of message bubbles.
type MessageList struct {
	Messages       []*model.Message
	Width          int
	ShowTimestamps bool
	ShowSources    bool
}

// NewMessageList creates an empty message list.
func NewMessageList() *MessageList {
	return &MessageList{
		Messages:       []*model.Message{},
		Width:          80,
		ShowTimestamps: true,
		ShowSources:    true,
	}
}

// SetMessages sets the messages to display.
func (ml *MessageList) SetMessages(messages []*model.Message) {
	ml.Messages = messages
}

// SetWidth sets the list width.
func (ml *MessageList) SetWidth(width int) {
	ml.Width = width
}

// View renders all messages, or the empty-state hint.
func (ml *MessageList) View() string {
	if len(ml.Messages) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(styles.TextMuted).
			Italic(true).
			Width(ml.Width).
			Align(lipgloss.Center).
			Padding(2, 0)
		return emptyStyle.Render("Ask a question about Indian law to get started.")
	}

	var bubbles []string
	for _, msg := range ml.Messages {
		bubble := NewMessageBubble(msg)
		bubble.SetWidth(ml.Width)
		bubble.ShowTimestamp = ml.ShowTimestamps
		bubble.ShowSources = ml.ShowSources
		bubbles = append(bubbles, bubble.View())
	}
	return strings.Join(bubbles, "\n")
}
