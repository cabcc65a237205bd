// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package credentials persists the session token between runs.
//
// The token is the only state Kindling keeps on disk. It is written with a
// fixed one-day expiry, the same lifetime the web client gave its session
// cookie; everything else is rebuilt from the API on startup.
package credentials

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kindlingapp/kindling-tui/internal/util"
)

// TokenTTL is the fixed lifetime of a stored session token.
const TokenTTL = 24 * time.Hour

// tokenFile is the name of the token file inside the config directory.
const tokenFile = "session"

// Store reads and writes the session token file.
//
// The zero value is not usable; construct with NewStore or NewStoreAt.
type Store struct {
	path string
	// now is stubbed in tests.
	now func() time.Time
}

// NewStore returns a store rooted at the default config directory
// (~/.kindling).
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return NewStoreAt(filepath.Join(home, ".kindling")), nil
}

// NewStoreAt returns a store rooted at dir. Used directly by tests.
func NewStoreAt(dir string) *Store {
	return &Store{
		path: filepath.Join(dir, tokenFile),
		now:  time.Now,
	}
}

// Token returns the stored session token, if one is present and unexpired.
// An expired or malformed token file is removed on read.
func (s *Store) Token() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", false
	}

	lines := strings.SplitN(strings.TrimSpace(string(data)), "\n", 2)
	if len(lines) != 2 {
		os.Remove(s.path)
		return "", false
	}

	token := strings.TrimSpace(lines[0])
	expiry, err := time.Parse(time.RFC3339, strings.TrimSpace(lines[1]))
	if err != nil || token == "" || !s.now().Before(expiry) {
		os.Remove(s.path)
		return "", false
	}
	return token, true
}

// Save writes the token with a fresh one-day expiry. The file is written
// atomically and readable only by the current user.
func (s *Store) Save(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("refusing to save empty token")
	}
	expiry := s.now().Add(TokenTTL).Format(time.RFC3339)
	data := []byte(token + "\n" + expiry + "\n")
	if err := util.AtomicWriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing an already-empty store is not an
// error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// Path returns the location of the token file, for diagnostics.
func (s *Store) Path() string {
	return s.path
}
