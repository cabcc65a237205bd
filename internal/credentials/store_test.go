// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package credentials

import (
	"os"
	"testing"
	"time"
)

func TestStore_SaveAndToken(t *testing.T) {
	s := NewStoreAt(t.TempDir())

	if err := s.Save("tok-123"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, ok := s.Token()
	if !ok {
		t.Fatal("Token() should find a freshly saved token")
	}
	if got != "tok-123" {
		t.Errorf("Token() = %q, want tok-123", got)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("token file mode = %o, want 600", perm)
	}
}

func TestStore_ExpiredTokenIsRemoved(t *testing.T) {
	s := NewStoreAt(t.TempDir())
	if err := s.Save("tok-123"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// Jump past the stored expiry.
	s.now = func() time.Time { return time.Now().Add(TokenTTL + time.Minute) }

	if _, ok := s.Token(); ok {
		t.Error("Token() should reject an expired token")
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("expired token file should be removed on read")
	}
}

func TestStore_MalformedFileIsRemoved(t *testing.T) {
	s := NewStoreAt(t.TempDir())
	if err := os.WriteFile(s.Path(), []byte("garbage"), 0o600); err != nil {
		t.Fatalf("seed malformed file: %v", err)
	}

	if _, ok := s.Token(); ok {
		t.Error("Token() should reject a malformed file")
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Error("malformed token file should be removed on read")
	}
}

func TestStore_ClearIsIdempotent(t *testing.T) {
	s := NewStoreAt(t.TempDir())
	if err := s.Save("tok"); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear should succeed, got %v", err)
	}
	if _, ok := s.Token(); ok {
		t.Error("Token() should be empty after Clear")
	}
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	s := NewStoreAt(t.TempDir())
	if err := s.Save("  "); err == nil {
		t.Error("Save should reject a blank token")
	}
}
