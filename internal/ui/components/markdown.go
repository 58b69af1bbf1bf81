// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
)

// markdownRenderers caches glamour renderers by wrap width. Building a
// renderer walks the style tree, so reuse matters during resize storms.
var (
	markdownMu        sync.Mutex
	markdownRenderers = map[int]*glamour.TermRenderer{}
)

// RenderMarkdown renders assistant markdown for the terminal at the
// given wrap width. When glamour fails, the fallback still highlights
// fenced code blocks so an odd answer never blanks the transcript.
func RenderMarkdown(text string, width int) string {
	if width < 20 {
		width = 20
	}

	r, err := rendererFor(width)
	if err != nil {
		return renderFallback(text, width)
	}

	out, err := r.Render(text)
	if err != nil {
		return renderFallback(text, width)
	}
	// Glamour pads with leading/trailing newlines that double up inside
	// bubbles.
	return strings.Trim(out, "\n")
}

// renderFallback keeps code fences readable when full markdown
// rendering is unavailable. Prose passes through untouched.
func renderFallback(text string, width int) string {
	return ParseCodeBlocks(text, width)
}

func rendererFor(width int) (*glamour.TermRenderer, error) {
	markdownMu.Lock()
	defer markdownMu.Unlock()

	if r, ok := markdownRenderers[width]; ok {
		return r, nil
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	markdownRenderers[width] = r
	return r, nil
}
