// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// configcmd.go - Configuration commands for the nyaya CLI.
//
// Command: config
// Subcommands: show (default), set, path
package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jeranaias/nyaya-tui/internal/config"
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) {
	if err := runConfig(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return showConfig(args)
	case "set":
		return setConfig(args)
	case "path":
		fmt.Println(config.DefaultPath())
		return nil
	default:
		return fmt.Errorf("unknown subcommand %q; use show, set or path", args.Subcommand)
	}
}

func showConfig(args Args) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	fmt.Println(TitleStyle.Render("nyaya configuration"))
	fmt.Println(LabelStyle.Render("api.base_url:") + ValueStyle.Render(cfg.API.BaseURL))
	fmt.Println(LabelStyle.Render("api.timeout_secs:") + ValueStyle.Render(strconv.Itoa(cfg.API.TimeoutSecs)))
	fmt.Println(LabelStyle.Render("ui.theme:") + ValueStyle.Render(cfg.UI.Theme))
	fmt.Println(LabelStyle.Render("ui.show_sources:") + ValueStyle.Render(strconv.FormatBool(cfg.UI.ShowSources)))
	fmt.Println(LabelStyle.Render("ui.word_wrap:") + ValueStyle.Render(strconv.Itoa(cfg.UI.WordWrap)))
	fmt.Println(LabelStyle.Render("storage.dir:") + ValueStyle.Render(cfg.Storage.Dir))
	fmt.Println(LabelStyle.Render("storage.max_sessions:") + ValueStyle.Render(strconv.Itoa(cfg.Storage.MaxSessions)))
	fmt.Println()
	fmt.Println(DimStyle.Render("Config file: " + config.DefaultPath()))
	return nil
}

func setConfig(args Args) error {
	if args.ConfigKey == "" || args.ConfigVal == "" {
		return fmt.Errorf("usage: nyaya config set KEY VALUE")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if err := applyConfigValue(cfg, args.ConfigKey, args.ConfigVal); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := cfg.Save(); err != nil {
		return err
	}

	fmt.Println(SuccessStyle.Render("Set " + args.ConfigKey + " = " + args.ConfigVal))
	return nil
}

// applyConfigValue sets one dotted key on the config.
func applyConfigValue(cfg *config.Config, key, value string) error {
	switch key {
	case "api.base_url":
		cfg.API.BaseURL = value
	case "api.timeout_secs":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("timeout must be a number of seconds")
		}
		cfg.API.TimeoutSecs = n
	case "ui.theme":
		if value != "auto" && value != "dark" && value != "light" {
			return fmt.Errorf("theme must be auto, dark or light")
		}
		cfg.UI.Theme = value
	case "ui.show_sources":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("show_sources must be true or false")
		}
		cfg.UI.ShowSources = b
	case "ui.word_wrap":
		n, err := strconv.Atoi(value)
		if err != nil || n < 20 {
			return fmt.Errorf("word_wrap must be a number >= 20")
		}
		cfg.UI.WordWrap = n
	case "storage.dir":
		cfg.Storage.Dir = value
	case "storage.max_sessions":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("max_sessions must be a positive number")
		}
		cfg.Storage.MaxSessions = n
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}
