// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sessions.go - Saved session management for the nyaya CLI.
//
// Command: sessions
// Subcommands: list, show, search, export, delete, reindex
package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jeranaias/nyaya-tui/internal/config"
	"github.com/jeranaias/nyaya-tui/internal/index"
	"github.com/jeranaias/nyaya-tui/internal/model"
	"github.com/jeranaias/nyaya-tui/internal/storage"
	"github.com/jeranaias/nyaya-tui/internal/util"
)

// HandleSessions handles the "sessions" command.
func HandleSessions(args Args) {
	if err := runSessions(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runSessions(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}
	sessions, err := OpenSessions(cfg)
	if err != nil {
		return err
	}

	switch args.Subcommand {
	case "", "list", "ls", "l":
		return listSessions(sessions)
	case "show":
		return showSession(sessions, args.Raw)
	case "search":
		return searchSessions(cfg, sessions, args.Raw)
	case "export":
		return exportSession(sessions, args.Raw)
	case "delete", "rm":
		return deleteSession(cfg, sessions, args.Raw)
	case "reindex":
		return reindexSessions(cfg, sessions)
	default:
		return fmt.Errorf("unknown subcommand %q; see nyaya help", args.Subcommand)
	}
}

func listSessions(sessions *storage.SessionStore) error {
	metas, err := sessions.List()
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println(DimStyle.Render("No saved sessions."))
		return nil
	}

	fmt.Println(TitleStyle.Render("Saved sessions"))
	for i, meta := range metas {
		fmt.Printf("  %d. %s\n", i, util.TruncateRunes(meta.Title, 60))
		fmt.Println(DimStyle.Render(fmt.Sprintf("     %d messages · updated %s · %s",
			meta.MessageCount, meta.UpdatedAt.Format("Jan 2 2006 15:04"), meta.ID)))
	}
	return nil
}

func showSession(sessions *storage.SessionStore, rest []string) error {
	conv, err := resolveSession(sessions, rest)
	if err != nil {
		return err
	}
	fmt.Print(storage.ExportMarkdown(conv))
	return nil
}

func searchSessions(cfg *config.Config, sessions *storage.SessionStore, rest []string) error {
	if len(rest) == 0 {
		return fmt.Errorf("usage: nyaya sessions search QUERY")
	}
	query := strings.Join(rest, " ")

	hist, err := OpenHistoryIndex(cfg)
	if err == nil {
		defer hist.Close()
		results, serr := hist.Search(query, index.SearchOptions{Limit: 20})
		if serr == nil && len(results) > 0 {
			fmt.Println(TitleStyle.Render("Matches for \"" + query + "\""))
			for _, r := range results {
				fmt.Println("  " + CitationStyle.Render(util.TruncateRunes(r.SessionTitle, 50)))
				fmt.Println(DimStyle.Render("     " + r.Snippet))
			}
			return nil
		}
	}

	// Substring fallback when the index is missing or empty.
	metas, err := sessions.SearchMessages(query)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println(DimStyle.Render("No matches."))
		return nil
	}
	fmt.Println(TitleStyle.Render("Matches for \"" + query + "\""))
	for _, meta := range metas {
		fmt.Println("  " + util.TruncateRunes(meta.Title, 60) + DimStyle.Render(" ("+meta.ID+")"))
	}
	return nil
}

func exportSession(sessions *storage.SessionStore, rest []string) error {
	conv, err := resolveSession(sessions, rest)
	if err != nil {
		return err
	}

	output := ""
	for i, arg := range rest {
		if arg == "--output" || arg == "-o" {
			if i+1 < len(rest) {
				output = rest[i+1]
			}
		}
		if strings.HasPrefix(arg, "--output=") {
			output = strings.TrimPrefix(arg, "--output=")
		}
	}

	data, err := transcriptBytes(conv, output)
	if err != nil {
		return err
	}
	if output == "" {
		fmt.Print(string(data))
		return nil
	}
	if err := util.AtomicWriteFile(output, data, 0o644); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Exported to " + output))
	return nil
}

// transcriptBytes serializes a conversation for export. A .json output
// path selects JSON; everything else gets markdown.
func transcriptBytes(conv *model.Conversation, path string) ([]byte, error) {
	if strings.HasSuffix(strings.ToLower(path), ".json") {
		return storage.ExportJSON(conv)
	}
	return []byte(storage.ExportMarkdown(conv)), nil
}

func deleteSession(cfg *config.Config, sessions *storage.SessionStore, rest []string) error {
	conv, err := resolveSession(sessions, rest)
	if err != nil {
		return err
	}
	if err := sessions.Delete(conv.ID); err != nil {
		return err
	}
	if hist, herr := OpenHistoryIndex(cfg); herr == nil {
		_ = hist.Remove(conv.ID)
		hist.Close()
	}
	fmt.Println(SuccessStyle.Render("Deleted " + conv.ID))
	return nil
}

func reindexSessions(cfg *config.Config, sessions *storage.SessionStore) error {
	hist, err := OpenHistoryIndex(cfg)
	if err != nil {
		return fmt.Errorf("opening search index: %w", err)
	}
	defer hist.Close()

	n, err := hist.Rebuild(sessions)
	if err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render(fmt.Sprintf("Indexed %d sessions", n)))
	return nil
}

// resolveSession loads a session from the first positional arg, by
// list index or by ID.
func resolveSession(sessions *storage.SessionStore, rest []string) (*model.Conversation, error) {
	ref := ""
	for _, arg := range rest {
		if !strings.HasPrefix(arg, "-") {
			ref = arg
			break
		}
	}
	if ref == "" {
		return nil, fmt.Errorf("session reference required (index or id; see: nyaya sessions list)")
	}
	if n, nerr := strconv.Atoi(ref); nerr == nil {
		return sessions.LoadByIndex(n)
	}
	return sessions.Load(ref)
}
