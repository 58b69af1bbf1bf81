// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/jeranaias/nyaya-tui/internal/config"
	"github.com/jeranaias/nyaya-tui/internal/model"
)

func TestParseArgsCommands(t *testing.T) {
	tests := []struct {
		name string
		argv []string
		want Command
	}{
		{"no args is tui", nil, CmdTUI},
		{"explicit tui", []string{"tui"}, CmdTUI},
		{"ask", []string{"ask", "what", "is", "bail"}, CmdAsk},
		{"chat", []string{"chat"}, CmdChat},
		{"analyze", []string{"analyze", "doc.pdf"}, CmdAnalyze},
		{"upload alias", []string{"upload", "doc.pdf"}, CmdAnalyze},
		{"sessions", []string{"sessions", "list"}, CmdSessions},
		{"session alias", []string{"session"}, CmdSessions},
		{"status", []string{"status"}, CmdStatus},
		{"config", []string{"config", "show"}, CmdConfig},
		{"cfg alias", []string{"cfg"}, CmdConfig},
		{"version", []string{"version"}, CmdVersion},
		{"version flag", []string{"--version"}, CmdVersion},
		{"help", []string{"help"}, CmdHelp},
		{"help flag", []string{"--help"}, CmdHelp},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, _ := ParseArgs(tt.argv)
			if cmd != tt.want {
				t.Errorf("ParseArgs(%v) = %v, want %v", tt.argv, cmd, tt.want)
			}
		})
	}
}

func TestParseArgsAskQuery(t *testing.T) {
	cmd, args := ParseArgs([]string{"ask", "what", "is", "anticipatory", "bail"})
	if cmd != CmdAsk {
		t.Fatalf("expected CmdAsk, got %v", cmd)
	}
	if args.Query != "what is anticipatory bail" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsUnknownWordBecomesQuery(t *testing.T) {
	cmd, args := ParseArgs([]string{"grounds", "for", "divorce"})
	if cmd != CmdAsk {
		t.Fatalf("expected CmdAsk, got %v", cmd)
	}
	if args.Query != "grounds for divorce" {
		t.Errorf("Query = %q", args.Query)
	}
}

func TestParseArgsGlobalFlags(t *testing.T) {
	cmd, args := ParseArgs([]string{"--plain", "-q", "ask", "test"})
	if cmd != CmdAsk {
		t.Fatalf("expected CmdAsk, got %v", cmd)
	}
	if !args.Plain || !args.Quiet {
		t.Errorf("flags not parsed: plain=%v quiet=%v", args.Plain, args.Quiet)
	}
}

func TestParseArgsAPIOverride(t *testing.T) {
	_, args := ParseArgs([]string{"--api", "http://10.0.0.5:8000", "status"})
	if args.APIURL != "http://10.0.0.5:8000" {
		t.Errorf("APIURL = %q", args.APIURL)
	}

	_, args = ParseArgs([]string{"--api=http://other:9000", "status"})
	if args.APIURL != "http://other:9000" {
		t.Errorf("APIURL = %q", args.APIURL)
	}
}

func TestParseArgsAnalyzeFile(t *testing.T) {
	_, args := ParseArgs([]string{"analyze", "rental-agreement.pdf"})
	if args.File != "rental-agreement.pdf" {
		t.Errorf("File = %q", args.File)
	}
}

func TestParseArgsSessionsSubcommand(t *testing.T) {
	_, args := ParseArgs([]string{"sessions", "export", "2", "--output", "out.md"})
	if args.Subcommand != "export" {
		t.Errorf("Subcommand = %q", args.Subcommand)
	}
	if len(args.Raw) != 3 || args.Raw[0] != "2" {
		t.Errorf("Raw = %v", args.Raw)
	}
}

func TestParseArgsConfigSet(t *testing.T) {
	_, args := ParseArgs([]string{"config", "set", "api.base_url", "http://localhost:8000"})
	if args.Subcommand != "set" {
		t.Errorf("Subcommand = %q", args.Subcommand)
	}
	if args.ConfigKey != "api.base_url" {
		t.Errorf("ConfigKey = %q", args.ConfigKey)
	}
	if args.ConfigVal != "http://localhost:8000" {
		t.Errorf("ConfigVal = %q", args.ConfigVal)
	}
}

func TestApplyConfigValue(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := applyConfigValue(cfg, "api.timeout_secs", "45"); err != nil {
		t.Fatalf("set timeout: %v", err)
	}
	if cfg.API.TimeoutSecs != 45 {
		t.Errorf("TimeoutSecs = %d", cfg.API.TimeoutSecs)
	}

	if err := applyConfigValue(cfg, "ui.show_sources", "false"); err != nil {
		t.Fatalf("set show_sources: %v", err)
	}
	if cfg.UI.ShowSources {
		t.Error("ShowSources should be false")
	}

	if err := applyConfigValue(cfg, "ui.theme", "neon"); err == nil {
		t.Error("expected error for bad theme")
	}
	if err := applyConfigValue(cfg, "storage.max_sessions", "0"); err == nil {
		t.Error("expected error for zero max_sessions")
	}
	if err := applyConfigValue(cfg, "no.such.key", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestParseArgsShortVIsVerbose(t *testing.T) {
	cmd, args := ParseArgs([]string{"-v"})
	if cmd != CmdTUI {
		t.Fatalf("ParseArgs(-v) = %v, want CmdTUI", cmd)
	}
	if !args.Verbose {
		t.Error("-v did not set Verbose")
	}
}

func TestTranscriptBytes(t *testing.T) {
	conv := model.NewConversation()
	conv.AddUserMessage("what is bail?")
	conv.AddAssistantMessage("Bail is conditional release.")

	md, err := transcriptBytes(conv, "out.md")
	if err != nil {
		t.Fatalf("markdown export: %v", err)
	}
	if !strings.Contains(string(md), "what is bail?") {
		t.Errorf("markdown missing content: %q", md)
	}

	// A .json path switches the format, case-insensitively.
	raw, err := transcriptBytes(conv, "session.JSON")
	if err != nil {
		t.Fatalf("json export: %v", err)
	}
	if !json.Valid(raw) {
		t.Fatalf("export is not valid JSON: %q", raw)
	}
	if !strings.Contains(string(raw), "Bail is conditional release.") {
		t.Errorf("json missing content: %q", raw)
	}

	// No path means stdout, which prints markdown.
	plain, err := transcriptBytes(conv, "")
	if err != nil {
		t.Fatalf("default export: %v", err)
	}
	if json.Valid(plain) {
		t.Errorf("default export should be markdown, got JSON")
	}
}

func TestWrapText(t *testing.T) {
	wrapped := WrapText("the quick brown fox jumps over the lazy dog", 15)
	for _, line := range strings.Split(wrapped, "\n") {
		if len(line) > 15 {
			t.Errorf("line too long: %q", line)
		}
	}
	if !strings.Contains(wrapped, "quick") {
		t.Errorf("content lost: %q", wrapped)
	}
}

func TestUsageMentionsCommands(t *testing.T) {
	for _, want := range []string{"ask", "chat", "analyze", "sessions", "status", "config"} {
		if !strings.Contains(usageText, want) {
			t.Errorf("usage text missing %q", want)
		}
	}
}
