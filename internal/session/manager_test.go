// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kindlingapp/kindling-tui/internal/api"
	"github.com/kindlingapp/kindling-tui/internal/model"
)

// fakeBackend scripts API responses per call.
type fakeBackend struct {
	loginFn    func(api.LoginRequest) (*api.AuthSession, error)
	registerFn func(api.RegisterRequest) (*api.AuthSession, error)
	meFn       func() (*model.User, error)
	setupFn    func(api.SetupProfileRequest) (*model.User, error)
	updateFn   func(api.UpdateProfileRequest) (*model.User, error)

	loginCalls int
}

func (f *fakeBackend) Login(_ context.Context, req api.LoginRequest) (*api.AuthSession, error) {
	f.loginCalls++
	return f.loginFn(req)
}
func (f *fakeBackend) Register(_ context.Context, req api.RegisterRequest) (*api.AuthSession, error) {
	return f.registerFn(req)
}
func (f *fakeBackend) Me(context.Context) (*model.User, error) { return f.meFn() }
func (f *fakeBackend) SetupProfile(_ context.Context, req api.SetupProfileRequest) (*model.User, error) {
	return f.setupFn(req)
}
func (f *fakeBackend) UpdateProfile(_ context.Context, req api.UpdateProfileRequest) (*model.User, error) {
	return f.updateFn(req)
}
func (f *fakeBackend) UploadPhoto(context.Context, string) (string, error) {
	return "https://cdn.example/p.png", nil
}

type memCreds struct {
	token string
}

func (m *memCreds) Token() (string, bool) { return m.token, m.token != "" }
func (m *memCreds) Save(t string) error   { m.token = t; return nil }
func (m *memCreds) Clear() error          { m.token = ""; return nil }

// =============================================================================
// INIT TESTS
// =============================================================================

func TestInit_NoCredential(t *testing.T) {
	m := NewManager(&fakeBackend{}, &memCreds{})
	if m.Status() != StatusUnknown {
		t.Fatalf("initial status = %v, want unknown", m.Status())
	}

	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if m.Status() != StatusAnonymous {
		t.Errorf("status = %v, want anonymous", m.Status())
	}
}

func TestInit_WithCredential(t *testing.T) {
	backend := &fakeBackend{
		meFn: func() (*model.User, error) {
			return &model.User{ID: "u1", Name: "Ada", IsProfileComplete: true}, nil
		},
	}
	m := NewManager(backend, &memCreds{token: "tok"})

	if err := m.Init(context.Background()); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Error("should be authenticated")
	}
	if m.User().Name != "Ada" {
		t.Errorf("user = %+v", m.User())
	}
	if m.NeedsProfileSetup() {
		t.Error("complete profile should not need setup")
	}
}

func TestInit_ExpiredToken(t *testing.T) {
	creds := &memCreds{token: "stale"}
	backend := &fakeBackend{
		meFn: func() (*model.User, error) {
			// The API layer clears the credential on 401 before returning.
			creds.Clear()
			return nil, fmt.Errorf("%w: session expired", api.ErrAuthFailed)
		},
	}
	m := NewManager(backend, creds)

	err := m.Init(context.Background())
	if !errors.Is(err, api.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	if m.Status() != StatusAnonymous {
		t.Errorf("status = %v, want anonymous", m.Status())
	}
	if _, ok := creds.Token(); ok {
		t.Error("credential should be gone")
	}
}

// =============================================================================
// LOGIN / REGISTER TESTS
// =============================================================================

func TestLogin_Success(t *testing.T) {
	creds := &memCreds{}
	backend := &fakeBackend{
		loginFn: func(req api.LoginRequest) (*api.AuthSession, error) {
			return &api.AuthSession{Token: "tok-1", User: model.User{ID: "u1", Email: req.Email}}, nil
		},
	}
	m := NewManager(backend, creds)

	err := m.Login(context.Background(), LoginInput{Email: "ada@example.com", Password: "hunter22"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if !m.IsAuthenticated() {
		t.Error("should be authenticated")
	}
	if creds.token != "tok-1" {
		t.Errorf("stored token = %q", creds.token)
	}
}

func TestLogin_ValidationSkipsNetwork(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(api.LoginRequest) (*api.AuthSession, error) {
			return nil, errors.New("should not be called")
		},
	}
	m := NewManager(backend, &memCreds{})

	err := m.Login(context.Background(), LoginInput{Email: "", Password: "x"})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
	if backend.loginCalls != 0 {
		t.Error("validation failure must not hit the network")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	backend := &fakeBackend{
		loginFn: func(api.LoginRequest) (*api.AuthSession, error) {
			return nil, fmt.Errorf("%w: invalid email or password", api.ErrAuthFailed)
		},
	}
	m := NewManager(backend, &memCreds{})

	err := m.Login(context.Background(), LoginInput{Email: "a@b.c", Password: "wrongpass"})
	if !errors.Is(err, api.ErrAuthFailed) {
		t.Fatalf("err = %v, want ErrAuthFailed", err)
	}
	if m.Status() != StatusAnonymous {
		t.Errorf("status = %v, want anonymous after failed login", m.Status())
	}
}

func TestRegister_IncompleteProfileNeedsSetup(t *testing.T) {
	backend := &fakeBackend{
		registerFn: func(req api.RegisterRequest) (*api.AuthSession, error) {
			return &api.AuthSession{Token: "tok", User: model.User{ID: "u1", Name: req.Name}}, nil
		},
	}
	m := NewManager(backend, &memCreds{})

	err := m.Register(context.Background(), RegisterInput{
		Email: "ada@example.com", Name: "Ada",
		Password: "longenough", ConfirmPassword: "longenough",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if !m.NeedsProfileSetup() {
		t.Error("fresh account should need profile setup")
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	m := NewManager(&fakeBackend{}, &memCreds{})
	err := m.Register(context.Background(), RegisterInput{
		Email: "a@b.c", Name: "A", Password: "longenough", ConfirmPassword: "different1",
	})
	if !IsValidation(err) {
		t.Fatalf("err = %v, want ValidationError", err)
	}
}

// =============================================================================
// LOGOUT AND EXPIRY TESTS
// =============================================================================

func TestLogout_IsSynchronous(t *testing.T) {
	creds := &memCreds{token: "tok"}
	m := NewManager(&fakeBackend{}, creds)
	m.setState(StatusAuthenticated, &model.User{ID: "u1"})

	m.Logout()

	if m.Status() != StatusAnonymous || m.User() != nil {
		t.Error("logout should drop to anonymous immediately")
	}
	if _, ok := creds.Token(); ok {
		t.Error("logout should clear the credential")
	}
}

func TestHandleUnauthorized(t *testing.T) {
	m := NewManager(&fakeBackend{}, &memCreds{})
	m.setState(StatusAuthenticated, &model.User{ID: "u1"})

	m.HandleUnauthorized()

	if m.Status() != StatusAnonymous || m.User() != nil {
		t.Error("unauthorized hook should drop to anonymous")
	}
}

// =============================================================================
// PROFILE TESTS
// =============================================================================

func validSetup() SetupInput {
	return SetupInput{
		Age: 30, Gender: model.GenderFemale, Bio: "hello",
		Interests: []string{"climbing"},
		MinAge:    25, MaxAge: 35,
		InterestedInGender: []model.Gender{model.GenderMale},
	}
}

func TestSetupProfile_Success(t *testing.T) {
	backend := &fakeBackend{
		setupFn: func(req api.SetupProfileRequest) (*model.User, error) {
			return &model.User{ID: "u1", Age: req.Age, IsProfileComplete: true}, nil
		},
	}
	m := NewManager(backend, &memCreds{token: "tok"})
	m.setState(StatusAuthenticated, &model.User{ID: "u1"})

	if err := m.SetupProfile(context.Background(), validSetup()); err != nil {
		t.Fatalf("SetupProfile: %v", err)
	}
	if m.NeedsProfileSetup() {
		t.Error("profile should be complete after setup")
	}
}

func TestSetupProfile_FailureKeepsUser(t *testing.T) {
	backend := &fakeBackend{
		setupFn: func(api.SetupProfileRequest) (*model.User, error) {
			return nil, fmt.Errorf("%w: connection reset", api.ErrNetwork)
		},
	}
	m := NewManager(backend, &memCreds{token: "tok"})
	before := &model.User{ID: "u1"}
	m.setState(StatusAuthenticated, before)

	err := m.SetupProfile(context.Background(), validSetup())
	if !errors.Is(err, api.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}
	if m.User() != before {
		t.Error("failed setup must leave the local user untouched")
	}
}

func TestSetupValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SetupInput)
	}{
		{"under 18", func(in *SetupInput) { in.Age = 17 }},
		{"over 100", func(in *SetupInput) { in.Age = 101 }},
		{"empty bio", func(in *SetupInput) { in.Bio = "   " }},
		{"no interests", func(in *SetupInput) { in.Interests = nil }},
		{"inverted range", func(in *SetupInput) { in.MinAge = 40; in.MaxAge = 30 }},
		{"bad gender", func(in *SetupInput) { in.Gender = "robot" }},
		{"no preference", func(in *SetupInput) { in.InterestedInGender = nil }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validSetup()
			tc.mutate(&in)
			if err := in.Validate(); !IsValidation(err) {
				t.Errorf("Validate() = %v, want ValidationError", err)
			}
		})
	}
}
