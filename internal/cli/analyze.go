// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// analyze.go - One-shot document analysis command for the nyaya CLI.
//
// Command: analyze
// Short:   Upload a legal document and print the analysis
//
// Examples:
//   nyaya analyze rental-agreement.pdf
//   nyaya analyze --plain contract.docx > review.txt
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jeranaias/nyaya-tui/internal/api"
)

// HandleAnalyze handles the "analyze" command.
func HandleAnalyze(args Args) {
	if err := runAnalyze(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runAnalyze(args Args) error {
	if args.File == "" {
		return fmt.Errorf("no file given; usage: nyaya analyze FILE")
	}

	if err := api.ValidateUpload(args.File); err != nil {
		return err
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client := NewBackend(cfg)

	f, err := os.Open(args.File)
	if err != nil {
		return fmt.Errorf("cannot open file: %w", err)
	}
	defer f.Close()

	name := filepath.Base(args.File)
	if !args.Quiet {
		fmt.Println(DimStyle.Render("Analyzing " + name + "..."))
	}

	resp, err := client.AnalyzeDocument(context.Background(), name, f)
	if err != nil {
		return describeAPIError(err)
	}

	fmt.Println(renderAnswer(resp.Analysis, args.Plain))
	return nil
}
