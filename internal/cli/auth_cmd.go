// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login/logout/whoami command implementations for kindling.
//
// Command: login [--email ADDR]
// Short:   Sign in and store a session token
//
// Command: logout
// Short:   Sign out and clear the stored token
//
// Command: whoami
// Short:   Show the signed-in account
//
// Examples:
//   kindling login                        Prompt for email and password
//   kindling login --email me@example.com Prompt for password only
//   kindling whoami --json                Account info as JSON
//   kindling logout
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/kindlingapp/kindling-tui/internal/api"
	"github.com/kindlingapp/kindling-tui/internal/config"
	"github.com/kindlingapp/kindling-tui/internal/credentials"
	"github.com/kindlingapp/kindling-tui/internal/session"
)

// buildClient loads configuration and wires a credential-backed API client.
// Shared by every CLI command that talks to the server.
func buildClient(args Args) (*config.Config, *credentials.Store, *api.Client, error) {
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
		return nil, nil, nil, err
	}

	creds, err := credentials.NewStore()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("opening credential store: %w", err)
	}

	client := api.NewClient(cfg.Server.BaseURL, creds).
		WithTimeout(cfg.RequestTimeout()).
		WithVerboseLogging(args.Verbose)

	return cfg, creds, client, nil
}

// HandleLogin handles the "login" command.
func HandleLogin(args Args) error {
	_, creds, client, err := buildClient(args)
	if err != nil {
		return err
	}

	email := args.Email
	if email == "" {
		email, err = promptLine("Email: ")
		if err != nil {
			return err
		}
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	input := session.LoginInput{Email: email, Password: password}
	if err := input.Validate(); err != nil {
		return err
	}

	mgr := session.NewManager(client, creds)
	ctx, cancel := context.WithTimeout(context.Background(), defaultCmdTimeout)
	defer cancel()

	if err := mgr.Login(ctx, input); err != nil {
		if errors.Is(err, api.ErrAuthFailed) {
			return fmt.Errorf("login failed: check your email and password")
		}
		return fmt.Errorf("login failed: %w", err)
	}

	user := mgr.User()
	fmt.Printf("Signed in as %s <%s>\n", user.DisplayName(), user.Email)
	if mgr.NeedsProfileSetup() {
		fmt.Println("Your profile is incomplete. Run kindling to finish setup.")
	}
	return nil
}

// HandleLogout handles the "logout" command.
func HandleLogout(args Args) error {
	creds, err := credentials.NewStore()
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}
	if _, ok := creds.Token(); !ok {
		fmt.Println("Not signed in.")
		return nil
	}
	if err := creds.Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	fmt.Println("Signed out.")
	return nil
}

// HandleWhoami handles the "whoami" command.
func HandleWhoami(args Args) error {
	_, creds, client, err := buildClient(args)
	if err != nil {
		return err
	}
	if _, ok := creds.Token(); !ok {
		return fmt.Errorf("not signed in (run: kindling login)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultCmdTimeout)
	defer cancel()

	user, err := client.Me(ctx)
	if err != nil {
		if errors.Is(err, api.ErrAuthFailed) || errors.Is(err, api.ErrNotAuthenticated) {
			// Stale token: drop it so the next TUI start goes to the
			// auth screen instead of failing the same way.
			_ = creds.Clear()
			return fmt.Errorf("session expired (run: kindling login)")
		}
		return err
	}

	if args.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(user)
	}

	fmt.Printf("%s <%s>\n", user.DisplayName(), user.Email)
	if user.Age > 0 {
		fmt.Printf("  Age: %d\n", user.Age)
	}
	if user.Gender != "" {
		fmt.Printf("  Gender: %s\n", user.Gender)
	}
	if !user.IsProfileComplete {
		fmt.Println("  Profile: incomplete")
	}
	return nil
}
