// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for nyaya.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.3.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdAnalyze
	CmdSessions
	CmdStatus
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	Plain   bool // Disable markdown rendering on output
	APIURL  string

	// Command-specific
	Query      string
	File       string
	Subcommand string
	ConfigKey  string
	ConfigVal  string

	// Raw args remaining after flag parsing
	Raw []string
}

const usageText = `nyaya - Indian legal research assistant

Nyaya answers questions about Indian law with citations to statutes and
case law, and analyzes legal documents. It talks to a local research
backend over HTTP.

Usage:
  nyaya                         Start the TUI (default)
  nyaya ask "question"          Ask a single question
  nyaya chat                    Interactive chat in the terminal
  nyaya analyze FILE            Analyze a legal document
  nyaya sessions [subcommand]   Saved session management
  nyaya status                  Check backend connectivity
  nyaya config [show|set|path]  Configuration
  nyaya version                 Show version

Session Commands:
  nyaya sessions list           List saved sessions
  nyaya sessions show N         Show session N's transcript
  nyaya sessions search QUERY   Full-text search across sessions
  nyaya sessions export N       Export session N as markdown
    --output FILE               Write to FILE instead of stdout
  nyaya sessions delete N       Delete session N
  nyaya sessions reindex        Rebuild the search index

Config Commands:
  nyaya config show             Show current configuration
  nyaya config set KEY VALUE    Set a value (api.base_url, api.timeout_secs,
                                ui.theme, ui.show_sources, storage.max_sessions)
  nyaya config path             Print the config file path

Global Flags:
  --api URL       Override the backend URL for this run
  --plain         Print answers as plain text (no markdown rendering)
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Examples:
  nyaya ask "What is anticipatory bail under Section 438 CrPC?"
  nyaya ask --plain "Grounds for divorce under the Hindu Marriage Act" > notes.txt
  nyaya analyze rental-agreement.pdf
  nyaya sessions search "arbitration clause"
  nyaya config set api.base_url http://10.0.0.5:8000

Environment:
  NYAYA_API_URL, NYAYA_API_TIMEOUT_SECS, NYAYA_THEME, NYAYA_DATA_DIR

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("nyaya version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses the given arguments. Split out of Parse for tests.
func ParseArgs(argv []string) (Command, Args) {
	remaining, parsed := parseGlobalFlags(argv)

	if len(remaining) == 0 {
		return CmdTUI, parsed
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsed.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsed

	case "ask":
		parsed.Query = strings.Join(positionalOnly(remaining), " ")
		return CmdAsk, parsed

	case "chat":
		return CmdChat, parsed

	case "analyze", "upload":
		if len(remaining) > 0 {
			parsed.File = remaining[0]
		}
		return CmdAnalyze, parsed

	case "session", "sessions":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
			parsed.Raw = remaining[1:]
		}
		return CmdSessions, parsed

	case "status", "s":
		return CmdStatus, parsed

	case "config", "cfg":
		if len(remaining) > 0 {
			parsed.Subcommand = remaining[0]
		}
		if len(remaining) > 1 {
			parsed.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			parsed.ConfigVal = strings.Join(remaining[2:], " ")
		}
		return CmdConfig, parsed

	case "version", "--version":
		return CmdVersion, parsed

	case "help", "-h", "--help":
		return CmdHelp, parsed

	default:
		// Unknown first word: treat the whole line as a question.
		parsed.Query = strings.Join(append([]string{cmd}, positionalOnly(remaining)...), " ")
		return CmdAsk, parsed
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var parsed Args

	i := 0
	for i < len(argv) {
		arg := argv[i]
		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		case "--plain":
			parsed.Plain = true
		case "--api":
			if i+1 < len(argv) {
				i++
				parsed.APIURL = argv[i]
			}
		default:
			if strings.HasPrefix(arg, "--api=") {
				parsed.APIURL = strings.TrimPrefix(arg, "--api=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsed
}

// positionalOnly drops flag-shaped arguments.
func positionalOnly(argv []string) []string {
	var out []string
	for _, arg := range argv {
		if !strings.HasPrefix(arg, "-") {
			out = append(out, arg)
		}
	}
	return out
}

// HandleVersion handles the "version" command.
func HandleVersion() {
	PrintVersion()
}

// HandleHelp handles the "help" command.
func HandleHelp() {
	PrintUsage()
}
