// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package matches maintains the authenticated user's match list and the
// optimistic unmatch flow. The list is replaced wholesale on refresh and
// mutated locally during an unmatch, which rolls back if the server
// rejects the removal.
package matches

import (
	"context"
	"errors"
	"sync"

	"github.com/kindlingapp/kindling-tui/internal/model"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnknownMatch is returned when an operation names a match ID that
	// is not in the current list.
	ErrUnknownMatch = errors.New("matches: unknown match id")

	// ErrUnmatchInFlight is returned when an unmatch is requested for a
	// match that already has one pending.
	ErrUnmatchInFlight = errors.New("matches: unmatch already in progress")
)

// =============================================================================
// CONTROLLER
// =============================================================================

// ListAPI is the remote surface the controller needs.
type ListAPI interface {
	Matches(ctx context.Context) ([]model.Match, error)
	Unmatch(ctx context.Context, matchID string) error
}

// Controller owns the match list.
type Controller struct {
	api ListAPI

	mu      sync.Mutex
	matches []model.Match
	loaded  bool
	pending map[string]struct{} // match IDs with an unmatch in flight
}

// NewController creates an empty match list controller.
func NewController(listAPI ListAPI) *Controller {
	return &Controller{
		api:     listAPI,
		pending: make(map[string]struct{}),
	}
}

// Loaded reports whether at least one refresh has completed.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Matches returns a copy of the current list in server order.
func (c *Controller) Matches() []model.Match {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Match, len(c.matches))
	copy(out, c.matches)
	return out
}

// Len returns the number of matches currently listed.
func (c *Controller) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.matches)
}

// Get returns the match with the given ID.
func (c *Controller) Get(matchID string) (model.Match, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(matchID)
	if i < 0 {
		return model.Match{}, false
	}
	return c.matches[i], true
}

// Refresh replaces the list with the server's current view. On failure the
// existing list is kept.
func (c *Controller) Refresh(ctx context.Context) error {
	fresh, err := c.api.Matches(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Do not resurrect entries the user removed while the fetch was
	// running.
	kept := fresh[:0]
	for _, m := range fresh {
		if _, gone := c.pending[m.ID]; !gone {
			kept = append(kept, m)
		}
	}
	c.matches = kept
	c.loaded = true
	return nil
}

// Add inserts a newly created match at the front of the list. Used when a
// swipe comes back mutual so the list reflects it without a refetch.
func (c *Controller) Add(m model.Match) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.indexOf(m.ID) >= 0 {
		return
	}
	c.matches = append([]model.Match{m}, c.matches...)
}

// Unmatch removes the match optimistically, then confirms with the server.
// If the server rejects the removal the entry is restored at its original
// position. Only one unmatch per match may be in flight.
func (c *Controller) Unmatch(ctx context.Context, matchID string) error {
	c.mu.Lock()
	if _, busy := c.pending[matchID]; busy {
		c.mu.Unlock()
		return ErrUnmatchInFlight
	}
	i := c.indexOf(matchID)
	if i < 0 {
		c.mu.Unlock()
		return ErrUnknownMatch
	}
	removed := c.matches[i]
	c.matches = append(c.matches[:i], c.matches[i+1:]...)
	c.pending[matchID] = struct{}{}
	c.mu.Unlock()

	err := c.api.Unmatch(ctx, matchID)

	c.mu.Lock()
	delete(c.pending, matchID)
	if err != nil {
		// Roll back at the original position, clamped in case the
		// list shrank meanwhile.
		pos := i
		if pos > len(c.matches) {
			pos = len(c.matches)
		}
		c.matches = append(c.matches[:pos], append([]model.Match{removed}, c.matches[pos:]...)...)
	}
	c.mu.Unlock()
	return err
}

// indexOf returns the position of matchID, or -1. Caller holds the lock.
func (c *Controller) indexOf(matchID string) int {
	for i, m := range c.matches {
		if m.ID == matchID {
			return i
		}
	}
	return -1
}
