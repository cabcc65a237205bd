// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the typed HTTP client for the Kindling backend.
//
// Every endpoint except login and register attaches the stored bearer
// token. A 401 on any of those endpoints clears the stored credential and
// fires the unauthorized hook so the UI can drop back to the login screen.
// Requests are never retried automatically; failures surface to the caller
// and retry is a user decision.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kindlingapp/kindling-tui/internal/model"
)

// Configuration constants for the API client.
const (
	// DefaultTimeout is the default per-request timeout.
	DefaultTimeout = 30 * time.Second

	// MaxResponseSize caps response bodies so a misbehaving server cannot
	// exhaust client memory.
	MaxResponseSize = 10 * 1024 * 1024

	// userAgent identifies the client on every request.
	userAgent = "kindling-tui/0.1.0"
)

// CredentialStore is the slice of the credential layer the client needs.
type CredentialStore interface {
	Token() (string, bool)
	Clear() error
}

// Client is the typed HTTP client for the backend REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      CredentialStore

	// onUnauthorized runs after a 401 on a non-auth endpoint has cleared
	// the stored credential.
	onUnauthorized func()

	verbose bool
}

// NewClient creates a client for the backend at baseURL.
func NewClient(baseURL string, creds CredentialStore) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		creds: creds,
	}
}

// WithTimeout sets the per-request timeout.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithUnauthorizedHook sets the callback fired after a 401 on a non-auth
// endpoint has cleared the stored credential.
func (c *Client) WithUnauthorizedHook(fn func()) *Client {
	c.onUnauthorized = fn
	return c
}

// WithVerboseLogging enables request/response line logging. Bodies and
// headers are never logged; they carry the token and message content.
func (c *Client) WithVerboseLogging(enabled bool) *Client {
	c.verbose = enabled
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// =============================================================================
// AUTH ENDPOINTS
// =============================================================================

// Login exchanges credentials for a session. The token is returned, not
// stored; the session layer owns persistence.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*AuthSession, error) {
	var out AuthSession
	if err := c.do(ctx, http.MethodPost, "/auth/login", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its first session.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthSession, error) {
	var out AuthSession
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me fetches the authenticated user's own record.
func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var out model.User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// =============================================================================
// PROFILE ENDPOINTS
// =============================================================================

// SetupProfile completes first-time profile setup.
func (c *Client) SetupProfile(ctx context.Context, req SetupProfileRequest) (*model.User, error) {
	var out profileEnvelope
	if err := c.do(ctx, http.MethodPost, "/users/profile/setup", req, &out, true); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// UpdateProfile applies a partial profile update.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*model.User, error) {
	var out profileEnvelope
	if err := c.do(ctx, http.MethodPatch, "/users/profile", req, &out, true); err != nil {
		return nil, err
	}
	return &out.User, nil
}

// =============================================================================
// DISCOVERY AND MATCH ENDPOINTS
// =============================================================================

// Cards fetches up to limit discovery candidates.
func (c *Client) Cards(ctx context.Context, limit int) ([]model.Candidate, error) {
	path := "/matches/cards"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []model.Candidate
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Swipe submits a like/pass decision and reports whether it produced a
// mutual match.
func (c *Client) Swipe(ctx context.Context, decision model.SwipeDecision) (*SwipeResult, error) {
	var out SwipeResult
	if err := c.do(ctx, http.MethodPost, "/matches/swipe", decision, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Matches fetches the confirmed match list.
func (c *Client) Matches(ctx context.Context) ([]model.Match, error) {
	var out []model.Match
	if err := c.do(ctx, http.MethodGet, "/matches", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// Unmatch deletes a match.
func (c *Client) Unmatch(ctx context.Context, matchID string) error {
	return c.do(ctx, http.MethodDelete, "/matches/"+matchID, nil, nil, true)
}

// =============================================================================
// CHAT ENDPOINTS
// =============================================================================

// ChatHistory fetches the message history with one user, ascending by
// timestamp, at most limit entries.
func (c *Client) ChatHistory(ctx context.Context, targetUserID string, limit int) ([]model.Message, error) {
	path := "/chat/history/" + targetUserID
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out historyEnvelope
	if err := c.do(ctx, http.MethodGet, path, nil, &out, true); err != nil {
		return nil, err
	}
	return out.Messages, nil
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do performs one request/response cycle. authed selects bearer attachment
// and the 401 handling contract.
func (c *Client) do(ctx context.Context, method, path string, body, out any, authed bool) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	if authed {
		token, ok := c.creds.Token()
		if !ok {
			return ErrNotAuthenticated
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	if c.verbose {
		log.Printf("API request: %s %s", method, path)
	}
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()
	if c.verbose {
		log.Printf("API response: %d (%v)", resp.StatusCode, time.Since(start).Round(time.Millisecond))
	}

	data, err := readBody(resp)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return c.handleUnauthorized(data, authed)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorEnvelope
		_ = json.Unmarshal(data, &envelope)
		return &APIError{Status: resp.StatusCode, Message: envelope.text()}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("%w: decode response: %v", ErrNetwork, err)
		}
	}
	return nil
}

// handleUnauthorized implements the session expiry contract: a 401 on a
// non-auth endpoint clears the credential and fires the unauthorized hook.
// A 401 on login/register is just bad credentials.
func (c *Client) handleUnauthorized(data []byte, authed bool) error {
	var envelope errorEnvelope
	_ = json.Unmarshal(data, &envelope)
	msg := envelope.text()

	if authed {
		_ = c.creds.Clear()
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
		if msg == "" {
			msg = "session expired"
		}
	} else if msg == "" {
		msg = "invalid email or password"
	}
	return fmt.Errorf("%w: %s", ErrAuthFailed, msg)
}

// readBody reads a response body with the size cap applied.
func readBody(resp *http.Response) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > MaxResponseSize {
		return nil, errors.New("response too large")
	}
	return data, nil
}
