// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the typed HTTP client for the Kindling backend.
package api

import (
	"errors"
	"fmt"

	"github.com/kindlingapp/kindling-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

// Error variables for common API failures.
var (
	// ErrNotAuthenticated indicates no session token is stored.
	ErrNotAuthenticated = errors.New("not signed in")

	// ErrAuthFailed indicates the server rejected the credentials or the
	// session token. For non-auth endpoints the stored token has already
	// been cleared by the time this is returned.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNetwork indicates the request never produced a usable response:
	// connection refused, timeout, or a malformed body.
	ErrNetwork = errors.New("network error")
)

// APIError is a non-auth error response from the backend (4xx/5xx with a
// JSON body). It satisfies errors.Is(err, ErrNetwork) so callers can treat
// every server-side failure as one retriable-by-the-user category.
type APIError struct {
	Status  int
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("server error (HTTP %d): %s", e.Status, e.Message)
	}
	return fmt.Sprintf("server error (HTTP %d)", e.Status)
}

// Unwrap lets errors.Is(err, ErrNetwork) match API errors.
func (e *APIError) Unwrap() error {
	return ErrNetwork
}

// errorEnvelope is the JSON error body the backend returns.
type errorEnvelope struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e errorEnvelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// =============================================================================
// REQUEST TYPES
// =============================================================================

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body for POST /auth/register.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// SetupProfileRequest is the body for POST /users/profile/setup. All fields
// are required; the session layer validates before anything hits the wire.
type SetupProfileRequest struct {
	Age                int            `json:"age"`
	Gender             model.Gender   `json:"gender"`
	Bio                string         `json:"bio"`
	Interests          []string       `json:"interests"`
	Latitude           float64        `json:"latitude"`
	Longitude          float64        `json:"longitude"`
	MinAge             int            `json:"minAge"`
	MaxAge             int            `json:"maxAge"`
	InterestedInGender []model.Gender `json:"interestedInGender"`
	PhotoURL           string         `json:"photoUrl,omitempty"`
}

// UpdateProfileRequest is the body for PATCH /users/profile. Nil fields are
// omitted and left unchanged server-side.
type UpdateProfileRequest struct {
	Age                *int           `json:"age,omitempty"`
	Gender             model.Gender   `json:"gender,omitempty"`
	Bio                *string        `json:"bio,omitempty"`
	Interests          []string       `json:"interests,omitempty"`
	Latitude           *float64       `json:"latitude,omitempty"`
	Longitude          *float64       `json:"longitude,omitempty"`
	MinAge             *int           `json:"minAge,omitempty"`
	MaxAge             *int           `json:"maxAge,omitempty"`
	InterestedInGender []model.Gender `json:"interestedInGender,omitempty"`
	PhotoURL           *string        `json:"photoUrl,omitempty"`
}

// =============================================================================
// RESPONSE TYPES
// =============================================================================

// AuthSession is the response to a successful login or registration.
type AuthSession struct {
	Token string     `json:"access_token"`
	User  model.User `json:"user"`
}

// profileEnvelope wraps profile mutation responses.
type profileEnvelope struct {
	Message string     `json:"message"`
	User    model.User `json:"user"`
}

// SwipeResult is the response to POST /matches/swipe.
type SwipeResult struct {
	// IsMatch is true when the like was reciprocal and a match now exists.
	IsMatch bool `json:"isMatch"`
	// Match is the created match record, present only when IsMatch.
	Match *model.Match `json:"match,omitempty"`
	// MatchedUser is the partner's public profile, present only when
	// IsMatch.
	MatchedUser *model.Candidate `json:"matchedUser,omitempty"`
}

// historyEnvelope wraps GET /chat/history responses.
type historyEnvelope struct {
	Messages []model.Message `json:"messages"`
}

// uploadEnvelope wraps POST /users/profile/photo responses.
type uploadEnvelope struct {
	URL string `json:"url"`
}
