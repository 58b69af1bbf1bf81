// nyaya - A terminal client for Indian legal research.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/nyaya-tui/internal/cli"
	"github.com/jeranaias/nyaya-tui/internal/store"
	"github.com/jeranaias/nyaya-tui/internal/ui/chat"
	"github.com/jeranaias/nyaya-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdAnalyze:
		cli.HandleAnalyze(args)
	case cli.CmdSessions:
		cli.HandleSessions(args)
	case cli.CmdStatus:
		cli.HandleStatus(args)
	case cli.CmdConfig:
		cli.HandleConfig(args)
	case cli.CmdVersion:
		cli.HandleVersion()
	case cli.CmdHelp:
		cli.HandleHelp()
	default:
		runTUI(args)
	}
}

// runTUI starts the full-screen interface.
func runTUI(args cli.Args) {
	if err := cli.RequiresTTY("run the TUI"); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Try: nyaya ask \"your question\"")
		os.Exit(1)
	}

	cfg, err := cli.LoadConfig(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	styles.ApplyTheme(cfg.UI.Theme)

	client := cli.NewBackend(cfg)
	sessions, err := cli.OpenSessions(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// The TUI works without the search index; /search degrades.
	hist, err := cli.OpenHistoryIndex(cfg)
	if err != nil {
		hist = nil
	} else {
		defer hist.Close()
	}

	m := chat.New(chat.Options{
		Config:   cfg,
		Store:    store.New(client),
		Sessions: sessions,
		History:  hist,
		Backend:  client,
		Version:  Version,
	})

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running nyaya: %v\n", err)
		os.Exit(1)
	}
}
