// kindling TUI - a dating app for your terminal.
//
// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kindlingapp/kindling-tui/internal/api"
	"github.com/kindlingapp/kindling-tui/internal/cli"
	"github.com/kindlingapp/kindling-tui/internal/config"
	"github.com/kindlingapp/kindling-tui/internal/credentials"
	"github.com/kindlingapp/kindling-tui/internal/session"
	"github.com/kindlingapp/kindling-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdLogin:
		exitOnError(cli.HandleLogin(args))
	case cli.CmdLogout:
		exitOnError(cli.HandleLogout(args))
	case cli.CmdWhoami:
		exitOnError(cli.HandleWhoami(args))
	case cli.CmdConfig:
		exitOnError(cli.HandleConfig(args))
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	}
}

func exitOnError(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runTUI(args cli.Args) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %s (using defaults)\n", err)
		cfg = config.Default()
	}
	cfg.ApplyEnvOverrides()
	if args.Server != "" {
		cfg.Server.BaseURL = args.Server
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid configuration: %v\n", err)
		os.Exit(1)
	}

	creds, err := credentials.NewStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: opening credential store: %v\n", err)
		os.Exit(1)
	}

	client := api.NewClient(cfg.Server.BaseURL, creds).
		WithTimeout(cfg.RequestTimeout()).
		WithVerboseLogging(args.Verbose)

	mgr := session.NewManager(client, creds)
	// A 401 from any endpoint invalidates the whole session.
	client.WithUnauthorizedHook(mgr.HandleUnauthorized)

	m := app.New(app.Deps{
		Config:  cfg,
		Session: mgr,
		Creds:   creds,
		Deck:    client,
		Matches: client,
		History: client,
	})

	// Live-reload UI settings when the config file changes on disk.
	// The watcher is best effort: a missing config file is fine.
	if path, perr := config.PathTOML(); perr == nil {
		if w, werr := config.NewWatcher(path, m.ReloadConfig); werr == nil {
			go func() { _ = w.Watch() }()
			defer w.Close()
		}
	}

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
