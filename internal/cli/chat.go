// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive chat REPL for the nyaya CLI.
//
// Command: chat
// Short:   Converse with the research backend in the terminal
//
// Interactive commands during chat:
//   /help               Show commands
//   /clear              Clear the conversation
//   /save               Save the session
//   /load N             Load saved session N
//   /sessions           List saved sessions
//   /upload PATH        Analyze a document
//   /quit               Exit (also Ctrl+D)
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/nyaya-tui/internal/config"
	"github.com/jeranaias/nyaya-tui/internal/index"
	"github.com/jeranaias/nyaya-tui/internal/storage"
	"github.com/jeranaias/nyaya-tui/internal/store"
	"github.com/jeranaias/nyaya-tui/internal/ui/components"
)

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI wraps liner with persistent input history.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with history loaded from the data dir.
func NewChatCLI(cfg *config.Config) *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	cli := &ChatCLI{
		line:        line,
		historyFile: cfg.Storage.HistoryPath(),
	}
	cli.loadHistory()
	return cli
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// ReadInput reads one line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// saveHistory persists input history with owner-only permissions.
func (c *ChatCLI) saveHistory() {
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// Close saves history and releases the terminal.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat handles the "chat" command.
func HandleChat(args Args) {
	if err := runChat(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runChat(args Args) error {
	if err := RequiresTTY("chat"); err != nil {
		return err
	}

	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	client := NewBackend(cfg)
	chatStore := store.New(client)

	sessions, err := OpenSessions(cfg)
	if err != nil {
		return err
	}
	hist, err := OpenHistoryIndex(cfg)
	if err != nil {
		// Search degrades to substring scans without the index.
		hist = nil
	} else {
		defer hist.Close()
	}

	input := NewChatCLI(cfg)
	defer input.Close()

	if !args.Quiet {
		fmt.Println(TitleStyle.Render("nyaya chat"))
		fmt.Println(DimStyle.Render("Backend: " + cfg.API.BaseURL))
		fmt.Println(DimStyle.Render(components.DisclaimerText))
		fmt.Println(DimStyle.Render("Type /help for commands, Ctrl+D to exit."))
		fmt.Println()
	}

	for {
		line, err := input.ReadInput("> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			if errors.Is(err, io.EOF) {
				fmt.Println()
				return nil
			}
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if strings.HasPrefix(line, "/") {
			done, err := runChatCommand(line, chatStore, sessions, hist, args)
			if err != nil {
				fmt.Println(ErrorStyle.Render("Error: " + err.Error()))
			}
			if done {
				return nil
			}
			continue
		}

		msg, err := chatStore.SendMessage(context.Background(), line)
		if err != nil {
			// The fallback reply is already in the history; show it.
			fmt.Println(ErrorStyle.Render(msg.Content))
			continue
		}

		fmt.Println()
		fmt.Println(renderAnswer(msg.Content, args.Plain))
		if len(msg.Sources) > 0 && !args.Quiet {
			for i, src := range msg.Sources {
				line := "  " + strconv.Itoa(i+1) + ". " + src.Title
				if src.Court != "" {
					line += DimStyle.Render(" (" + src.Court + ")")
				}
				fmt.Println(CitationStyle.Render(line))
			}
		}
		fmt.Println()
	}
}

// runChatCommand executes one REPL slash command. Returns true to exit.
func runChatCommand(line string, chatStore *store.Store, sessions *storage.SessionStore, hist *index.HistoryIndex, args Args) (bool, error) {
	parts := strings.Fields(line)
	cmd := strings.ToLower(strings.TrimPrefix(parts[0], "/"))
	rest := parts[1:]

	switch cmd {
	case "quit", "q", "exit":
		return true, nil

	case "help", "h", "?":
		fmt.Println(`Commands:
  /clear        Clear the conversation
  /save         Save the session
  /load N       Load saved session N
  /sessions     List saved sessions
  /upload PATH  Analyze a document
  /quit         Exit (also Ctrl+D)`)
		return false, nil

	case "clear", "c":
		chatStore.ClearMessages()
		fmt.Println(DimStyle.Render("Conversation cleared."))
		return false, nil

	case "save", "s":
		if chatStore.MessageCount() == 0 {
			fmt.Println(DimStyle.Render("Nothing to save yet."))
			return false, nil
		}
		snap := chatStore.Snapshot()
		if _, err := sessions.Save(snap); err != nil {
			return false, err
		}
		if hist != nil {
			_ = hist.IndexConversation(snap)
		}
		fmt.Println(SuccessStyle.Render("Saved session " + snap.ID))
		return false, nil

	case "load", "l":
		if len(rest) == 0 {
			return false, fmt.Errorf("usage: /load N")
		}
		n, err := strconv.Atoi(rest[0])
		if err != nil {
			return false, fmt.Errorf("session index must be a number")
		}
		conv, err := sessions.LoadByIndex(n)
		if err != nil {
			return false, err
		}
		chatStore.Restore(conv)
		fmt.Println(SuccessStyle.Render("Loaded: " + conv.GetTitle()))
		return false, nil

	case "sessions", "list":
		metas, err := sessions.List()
		if err != nil {
			return false, err
		}
		if len(metas) == 0 {
			fmt.Println(DimStyle.Render("No saved sessions."))
			return false, nil
		}
		for i, meta := range metas {
			fmt.Printf("  %d. %s (%d messages, %s)\n",
				i, meta.Title, meta.MessageCount, meta.UpdatedAt.Format("Jan 2 15:04"))
		}
		return false, nil

	case "upload", "u", "analyze":
		if len(rest) == 0 {
			return false, fmt.Errorf("usage: /upload PATH")
		}
		path := strings.Join(rest, " ")
		fmt.Println(DimStyle.Render("Analyzing " + path + "..."))
		msg, err := chatStore.UploadFile(context.Background(), path)
		if err != nil {
			if msg != nil {
				// Backend failure: the fallback is in the transcript.
				fmt.Println(ErrorStyle.Render(msg.Content))
				return false, nil
			}
			return false, err
		}
		fmt.Println()
		fmt.Println(renderAnswer(msg.Content, args.Plain))
		fmt.Println()
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %q; try /help", cmd)
	}
}
