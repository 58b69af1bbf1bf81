// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question command for the nyaya CLI.
//
// Command: ask
// Short:   Ask a single question and print the answer with citations
//
// Examples:
//   nyaya ask "What is anticipatory bail?"
//   nyaya ask --plain "Section 138 NI Act" > answer.txt
package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/nyaya-tui/internal/api"
)

// HandleAsk handles the "ask" command.
func HandleAsk(args Args) {
	if err := runAsk(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAsk(args Args) error {
	query := strings.TrimSpace(args.Query)
	if query == "" {
		return fmt.Errorf("no question given; usage: nyaya ask \"question\"")
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client := NewBackend(cfg)

	resp, err := client.Chat(context.Background(), query, "")
	if err != nil {
		return describeAPIError(err)
	}

	fmt.Println(renderAnswer(resp.Response, args.Plain))

	if len(resp.Sources) > 0 && !args.Quiet {
		fmt.Println()
		fmt.Println(SectionStyle.Render("Sources:"))
		for i, src := range resp.Sources {
			line := "  " + strconv.Itoa(i+1) + ". " + src.Title
			if src.Court != "" {
				line += DimStyle.Render(" (" + src.Court + ")")
			}
			fmt.Println(CitationStyle.Render(line))
			if src.URL != "" {
				fmt.Println(DimStyle.Render("     " + src.URL))
			}
		}
	}

	return nil
}

// renderAnswer renders markdown for TTYs, plain text otherwise.
func renderAnswer(text string, plain bool) string {
	if plain || !IsStdoutTTY() {
		return text
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetTerminalWidth()),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.Trim(out, "\n")
}

// describeAPIError turns backend failures into actionable messages.
func describeAPIError(err error) error {
	switch api.ErrorKind(err) {
	case "unavailable":
		return fmt.Errorf("backend unreachable: %w\nIs the nyaya backend running? Check with: nyaya status", err)
	case "timeout":
		return fmt.Errorf("request timed out: %w\nThe backend may be overloaded; try again", err)
	case "rate_limited":
		return fmt.Errorf("rate limited: %w\nWait a moment and retry", err)
	default:
		return err
	}
}
