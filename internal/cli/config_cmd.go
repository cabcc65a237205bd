// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Config command implementation for kindling.
//
// Command: config [subcommand]
// Short:   View and modify configuration
//
// Subcommands:
//   show (default)      Display current configuration
//   set <key> <value>   Set a configuration value
//   path                Show configuration file path
//
// Configuration Keys:
//   server.base_url            REST API base URL
//   server.realtime_url        Websocket URL (empty derives from base_url)
//   server.timeout_secs        Per-request timeout in seconds
//   discovery.batch_size       Candidates requested per deck fetch
//   ui.theme                   auto, dark, or light
//   ui.render_markdown_bios    Render bios as markdown (true/false)
//   ui.compact_mode            Reduced padding for small terminals (true/false)
//   profile.default_latitude   Default latitude for profile setup
//   profile.default_longitude  Default longitude for profile setup
package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kindlingapp/kindling-tui/internal/config"
)

var (
	configTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("209"))

	configSectionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("255")).
				MarginTop(1)

	configKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Width(24)

	configValueStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82"))

	configPathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")).
			Italic(true)
)

// HandleConfig handles the "config" command.
func HandleConfig(args Args) error {
	switch args.Subcommand {
	case "", "show":
		return handleConfigShow(args)

	case "set":
		if args.ConfigKey == "" || args.ConfigVal == "" {
			return fmt.Errorf("usage: kindling config set <key> <value>")
		}
		return handleConfigSet(args.ConfigKey, args.ConfigVal)

	case "path":
		return handleConfigPath(args)

	default:
		return fmt.Errorf("unknown config subcommand: %s", args.Subcommand)
	}
}

func loadOrDefault() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
		cfg = config.Default()
	}
	return cfg
}

func handleConfigShow(args Args) error {
	cfg := loadOrDefault()

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	row := func(key, val string) {
		fmt.Printf("  %s%s\n", configKeyStyle.Render(key+":"), configValueStyle.Render(val))
	}

	fmt.Println()
	fmt.Println(configTitleStyle.Render("kindling configuration"))

	fmt.Println(configSectionStyle.Render("[server]"))
	row("base_url", cfg.Server.BaseURL)
	row("realtime_url", cfg.EffectiveRealtimeURL())
	row("timeout_secs", strconv.Itoa(cfg.Server.TimeoutSecs))

	fmt.Println(configSectionStyle.Render("[discovery]"))
	row("batch_size", strconv.Itoa(cfg.Discovery.BatchSize))

	fmt.Println(configSectionStyle.Render("[ui]"))
	row("theme", cfg.UI.Theme)
	row("render_markdown_bios", strconv.FormatBool(cfg.UI.RenderMarkdownBios))
	row("compact_mode", strconv.FormatBool(cfg.UI.CompactMode))

	fmt.Println(configSectionStyle.Render("[profile]"))
	row("default_latitude", strconv.FormatFloat(cfg.Profile.DefaultLatitude, 'f', -1, 64))
	row("default_longitude", strconv.FormatFloat(cfg.Profile.DefaultLongitude, 'f', -1, 64))

	if path, err := config.PathTOML(); err == nil {
		fmt.Println()
		fmt.Println(configPathStyle.Render("config: " + path))
	}
	fmt.Println()
	return nil
}

func handleConfigSet(key, value string) error {
	cfg := loadOrDefault()

	if err := applyConfigKey(cfg, key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("rejected: %w", err)
	}
	if err := cfg.Save(); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("Set %s = %s\n", key, value)
	return nil
}

// applyConfigKey maps a dotted key to a config field.
func applyConfigKey(cfg *config.Config, key, value string) error {
	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("%s expects true or false, got %q", key, value)
		}
		return b, nil
	}
	parseInt := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("%s expects a number, got %q", key, value)
		}
		return n, nil
	}
	parseFloat := func() (float64, error) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("%s expects a number, got %q", key, value)
		}
		return f, nil
	}

	switch strings.ToLower(key) {
	case "server.base_url":
		cfg.Server.BaseURL = value
	case "server.realtime_url":
		cfg.Server.RealtimeURL = value
	case "server.timeout_secs":
		n, err := parseInt()
		if err != nil {
			return err
		}
		cfg.Server.TimeoutSecs = n
	case "discovery.batch_size":
		n, err := parseInt()
		if err != nil {
			return err
		}
		cfg.Discovery.BatchSize = n
	case "ui.theme":
		cfg.UI.Theme = value
	case "ui.render_markdown_bios":
		b, err := parseBool()
		if err != nil {
			return err
		}
		cfg.UI.RenderMarkdownBios = b
	case "ui.compact_mode":
		b, err := parseBool()
		if err != nil {
			return err
		}
		cfg.UI.CompactMode = b
	case "profile.default_latitude":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		cfg.Profile.DefaultLatitude = f
	case "profile.default_longitude":
		f, err := parseFloat()
		if err != nil {
			return err
		}
		cfg.Profile.DefaultLongitude = f
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}

func handleConfigPath(args Args) error {
	path, err := config.PathTOML()
	if err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	exists := statErr == nil

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"path": path, "exists": exists})
	}

	fmt.Println(path)
	if !exists {
		fmt.Println(configPathStyle.Render("(not created yet; defaults in effect)"))
	}
	return nil
}
