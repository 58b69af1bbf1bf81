// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// status.go - Backend connectivity check for the nyaya CLI.
//
// Command: status
// Short:   Show backend health and local storage state
package cli

import (
	"context"
	"fmt"
	"os"
	"time"
)

// HandleStatus handles the "status" command.
func HandleStatus(args Args) {
	if err := runStatus(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runStatus(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client := NewBackend(cfg)

	fmt.Println(TitleStyle.Render("nyaya status"))

	fmt.Println(LabelStyle.Render("Backend:") + ValueStyle.Render(cfg.API.BaseURL))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	health, err := client.Health(ctx)
	latency := time.Since(start).Round(time.Millisecond)

	if err != nil {
		fmt.Println(LabelStyle.Render("Health:") + RenderStatus("unreachable") + " " + DimStyle.Render(err.Error()))
	} else {
		line := RenderStatus("ok") + " " + DimStyle.Render(latency.String())
		if health.Version != "" {
			line += DimStyle.Render(" · backend v" + health.Version)
		}
		fmt.Println(LabelStyle.Render("Health:") + line)
	}

	sessions, err := OpenSessions(cfg)
	if err != nil {
		return err
	}
	metas, err := sessions.List()
	if err != nil {
		return err
	}
	fmt.Println(LabelStyle.Render("Data dir:") + ValueStyle.Render(cfg.Storage.Dir))
	fmt.Println(LabelStyle.Render("Sessions:") + ValueStyle.Render(fmt.Sprintf("%d saved", len(metas))))

	if hist, herr := OpenHistoryIndex(cfg); herr == nil {
		indexed, msgs, serr := hist.Stats()
		hist.Close()
		if serr == nil {
			fmt.Println(LabelStyle.Render("Search index:") +
				ValueStyle.Render(fmt.Sprintf("%d sessions, %d messages", indexed, msgs)))
		}
	}

	return nil
}
