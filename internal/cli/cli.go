// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command dispatch for kindling.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// defaultCmdTimeout bounds one-shot commands that hit the server.
const defaultCmdTimeout = 30 * time.Second

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdWhoami
	CmdConfig
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Verbose bool
	JSON    bool
	Server  string

	// Command-specific
	Email      string
	ConfigKey  string
	ConfigVal  string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `kindling - a dating app for your terminal

Kindling connects to a kindling server and gives you the whole app
without leaving the terminal: swipe through profiles, see your
matches, and chat in real time.

Usage:
  kindling                   Start the TUI (default)
  kindling login             Sign in and store a session token
  kindling logout            Sign out and clear the stored token
  kindling whoami            Show the signed-in account
  kindling config [show|set|path]  Configuration
  kindling version           Show version information
  kindling help              Show this help

Config Commands:
  kindling config show             Display current configuration
  kindling config set <key> <val>  Set a configuration value
  kindling config path             Show configuration file location

  Keys: server.base_url, server.realtime_url, server.timeout_secs,
        discovery.batch_size, ui.theme, ui.render_markdown_bios,
        ui.compact_mode, profile.default_latitude, profile.default_longitude

Global Flags:
  -v, --verbose   Debug output (logs API requests to stderr)
  --json          Machine-readable output where supported
  --server URL    Override the configured server base URL

Environment:
  KINDLING_SERVER_URL     Override server.base_url
  KINDLING_REALTIME_URL   Override server.realtime_url
  KINDLING_THEME          Override ui.theme (auto/dark/light)

Examples:
  kindling                              Start swiping
  kindling login --email me@example.com
  kindling config set ui.theme light
  kindling config set server.base_url https://kindling.example.com
  kindling --server http://localhost:8000

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("kindling version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	return parse(os.Args[1:])
}

func parse(args []string) (Command, Args) {
	remaining, parsedArgs := parseGlobalFlags(args)

	// If no remaining args, default to TUI
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "login", "signin":
		parseLoginArgs(&parsedArgs, remaining)
		return CmdLogin, parsedArgs

	case "logout", "signout":
		return CmdLogout, parsedArgs

	case "whoami", "me":
		return CmdWhoami, parsedArgs

	case "config":
		parseConfigArgs(&parsedArgs, remaining)
		return CmdConfig, parsedArgs

	case "version", "-v", "--version":
		return CmdVersion, parsedArgs

	case "help", "-h", "--help":
		return CmdHelp, parsedArgs

	default:
		// Unknown command: show help rather than guessing.
		parsedArgs.Raw = append([]string{cmd}, remaining...)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags from args and returns remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var remaining []string
	var parsedArgs Args

	i := 0
	for i < len(args) {
		arg := args[i]

		switch arg {
		case "-v", "--verbose":
			parsedArgs.Verbose = true
		case "--json":
			parsedArgs.JSON = true
		case "--server":
			if i+1 < len(args) {
				i++
				parsedArgs.Server = args[i]
			}
		default:
			if strings.HasPrefix(arg, "--server=") {
				parsedArgs.Server = strings.TrimPrefix(arg, "--server=")
			} else {
				remaining = append(remaining, arg)
			}
		}
		i++
	}

	return remaining, parsedArgs
}

// parseLoginArgs parses login command specific arguments.
func parseLoginArgs(args *Args, remaining []string) {
	for i := 0; i < len(remaining); i++ {
		arg := remaining[i]

		switch arg {
		case "-e", "--email":
			if i+1 < len(remaining) {
				i++
				args.Email = remaining[i]
			}
		default:
			if strings.HasPrefix(arg, "--email=") {
				args.Email = strings.TrimPrefix(arg, "--email=")
			}
		}
	}
}

// parseConfigArgs parses config command specific arguments.
func parseConfigArgs(args *Args, remaining []string) {
	if len(remaining) > 0 {
		args.Subcommand = remaining[0]
		if len(remaining) > 1 {
			args.ConfigKey = remaining[1]
		}
		if len(remaining) > 2 {
			args.ConfigVal = remaining[2]
		}
	}
}
