// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session owns the authentication state machine.
//
// The manager starts Unknown, reads the credential store, and settles into
// Authenticated or Anonymous. Login, register, logout, and the profile
// operations all go through here so the rest of the client only ever reads
// one source of truth for "who am I".
package session

import (
	"context"
	"sync"

	"github.com/kindlingapp/kindling-tui/internal/api"
	"github.com/kindlingapp/kindling-tui/internal/model"
)

// Status is the authentication state.
type Status int

const (
	// StatusUnknown is the startup state before the credential store has
	// been consulted.
	StatusUnknown Status = iota
	// StatusAuthenticating means a credential is present and the profile
	// fetch is in flight.
	StatusAuthenticating
	// StatusAuthenticated means the user record is loaded.
	StatusAuthenticated
	// StatusAnonymous means there is no usable session.
	StatusAnonymous
)

// String returns a readable name for the status.
func (s Status) String() string {
	switch s {
	case StatusUnknown:
		return "unknown"
	case StatusAuthenticating:
		return "authenticating"
	case StatusAuthenticated:
		return "authenticated"
	case StatusAnonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}

// Backend is the slice of the API client the manager needs.
type Backend interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthSession, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthSession, error)
	Me(ctx context.Context) (*model.User, error)
	SetupProfile(ctx context.Context, req api.SetupProfileRequest) (*model.User, error)
	UpdateProfile(ctx context.Context, req api.UpdateProfileRequest) (*model.User, error)
	UploadPhoto(ctx context.Context, path string) (string, error)
}

// CredentialStore is the slice of the credential layer the manager needs.
type CredentialStore interface {
	Token() (string, bool)
	Save(token string) error
	Clear() error
}

// Manager drives the authentication state machine.
type Manager struct {
	backend Backend
	creds   CredentialStore

	mu     sync.Mutex
	status Status
	user   *model.User
}

// NewManager creates a manager in the Unknown state.
func NewManager(backend Backend, creds CredentialStore) *Manager {
	return &Manager{
		backend: backend,
		creds:   creds,
		status:  StatusUnknown,
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// Status returns the current authentication state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// User returns the authenticated user, or nil.
func (m *Manager) User() *model.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// IsAuthenticated reports whether a user record is loaded.
func (m *Manager) IsAuthenticated() bool {
	return m.Status() == StatusAuthenticated
}

// NeedsProfileSetup reports the authenticated-but-incomplete sub-state that
// redirects to profile setup instead of discovery.
func (m *Manager) NeedsProfileSetup() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status == StatusAuthenticated && m.user != nil && !m.user.IsProfileComplete
}

// =============================================================================
// LIFECYCLE OPERATIONS
// =============================================================================

// Init derives the initial state from the credential store plus a profile
// fetch. Without a stored token it settles on Anonymous immediately. With
// one, it transitions through Authenticating; an auth rejection (the API
// layer has already cleared the credential) or any fetch failure lands on
// Anonymous, and the error is returned for surfacing.
func (m *Manager) Init(ctx context.Context) error {
	if _, ok := m.creds.Token(); !ok {
		m.setState(StatusAnonymous, nil)
		return nil
	}

	m.setState(StatusAuthenticating, nil)
	user, err := m.backend.Me(ctx)
	if err != nil {
		m.setState(StatusAnonymous, nil)
		return err
	}
	m.setState(StatusAuthenticated, user)
	return nil
}

// Login validates locally, then exchanges credentials for a session.
// Validation failures never reach the network.
func (m *Manager) Login(ctx context.Context, input LoginInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	m.setState(StatusAuthenticating, nil)
	sess, err := m.backend.Login(ctx, api.LoginRequest{
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		m.setState(StatusAnonymous, nil)
		return err
	}
	if err := m.creds.Save(sess.Token); err != nil {
		m.setState(StatusAnonymous, nil)
		return err
	}
	user := sess.User
	m.setState(StatusAuthenticated, &user)
	return nil
}

// Register validates locally, then creates the account and its first
// session.
func (m *Manager) Register(ctx context.Context, input RegisterInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	m.setState(StatusAuthenticating, nil)
	sess, err := m.backend.Register(ctx, api.RegisterRequest{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		m.setState(StatusAnonymous, nil)
		return err
	}
	if err := m.creds.Save(sess.Token); err != nil {
		m.setState(StatusAnonymous, nil)
		return err
	}
	user := sess.User
	m.setState(StatusAuthenticated, &user)
	return nil
}

// Logout clears the credential and drops to Anonymous synchronously. It
// needs no network call to succeed.
func (m *Manager) Logout() {
	_ = m.creds.Clear()
	m.setState(StatusAnonymous, nil)
}

// HandleUnauthorized is wired to the API client's 401 hook: the credential
// is already cleared by then, so only local state needs to fall back.
func (m *Manager) HandleUnauthorized() {
	m.setState(StatusAnonymous, nil)
}

// =============================================================================
// PROFILE OPERATIONS
// =============================================================================

// SetupProfile validates and submits first-time profile setup, updating the
// local user record only on success.
func (m *Manager) SetupProfile(ctx context.Context, input SetupInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	user, err := m.backend.SetupProfile(ctx, input.toRequest())
	if err != nil {
		return err
	}
	m.setState(StatusAuthenticated, user)
	return nil
}

// UpdateProfile applies a partial profile edit.
func (m *Manager) UpdateProfile(ctx context.Context, input UpdateInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	user, err := m.backend.UpdateProfile(ctx, input.toRequest())
	if err != nil {
		return err
	}
	m.setState(StatusAuthenticated, user)
	return nil
}

// UploadPhoto uploads a profile photo and returns its stored URL. The URL
// still needs to be attached via SetupProfile or UpdateProfile.
func (m *Manager) UploadPhoto(ctx context.Context, path string) (string, error) {
	return m.backend.UploadPhoto(ctx, path)
}

func (m *Manager) setState(status Status, user *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.status = status
	m.user = user
}
