// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Concurrency tests for the session manager. The API client invokes
// HandleUnauthorized from request goroutines while the UI reads session
// state, so state transitions must be safe under contention.
package session

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kindlingapp/kindling-tui/internal/api"
	"github.com/kindlingapp/kindling-tui/internal/model"
)

// lockedCreds is a credential store safe for concurrent use.
type lockedCreds struct {
	mu    sync.Mutex
	token string
}

func (l *lockedCreds) Token() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.token, l.token != ""
}

func (l *lockedCreds) Save(t string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.token = t
	return nil
}

func (l *lockedCreds) Clear() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.token = ""
	return nil
}

func TestManager_ConcurrentReads(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(api.LoginRequest) (*api.AuthSession, error) {
			return &api.AuthSession{
				Token: "tok",
				User:  model.User{ID: "u1", Name: "Sam", IsProfileComplete: true},
			}, nil
		},
	}
	creds := &lockedCreds{}
	m := NewManager(backend, creds)
	require.NoError(t, m.Login(context.Background(), LoginInput{
		Email:    "sam@example.com",
		Password: "hunter22",
	}))

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Status()
			_ = m.User()
			_ = m.IsAuthenticated()
			_ = m.NeedsProfileSetup()
		}()
	}
	wg.Wait()

	require.Equal(t, StatusAuthenticated, m.Status())
	require.Equal(t, "u1", m.User().ID)
}

func TestManager_ConcurrentUnauthorized(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(api.LoginRequest) (*api.AuthSession, error) {
			return &api.AuthSession{
				Token: "tok",
				User:  model.User{ID: "u1", Name: "Sam", IsProfileComplete: true},
			}, nil
		},
	}
	creds := &lockedCreds{}
	m := NewManager(backend, creds)
	require.NoError(t, m.Login(context.Background(), LoginInput{
		Email:    "sam@example.com",
		Password: "hunter22",
	}))

	// Several in-flight requests can all hit a 401 at once.
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.HandleUnauthorized()
			_ = m.IsAuthenticated()
		}()
	}
	wg.Wait()

	require.Equal(t, StatusAnonymous, m.Status())
	require.Nil(t, m.User())
}
