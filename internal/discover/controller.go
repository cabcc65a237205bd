// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package discover drives the swipe deck: an ordered, finite, in-memory
// queue of candidates and the decision lifecycle against its head.
//
// The controller is strictly FIFO: decisions are only ever accepted against
// the current head, matching the top-card interaction of the deck view, and
// at most one decision is in flight at a time. A decision that fails leaves
// the head in place; retry is a user action, never automatic.
package discover

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/kindlingapp/kindling-tui/internal/api"
	"github.com/kindlingapp/kindling-tui/internal/model"
)

// ReplenishThreshold is the queue size at or below which a background fetch
// should top the deck up.
const ReplenishThreshold = 3

// State is the deck lifecycle state.
type State int

const (
	// StateEmpty is the initial state, before any candidates have loaded.
	StateEmpty State = iota
	// StateLoaded means the queue holds at least one candidate.
	StateLoaded
	// StateDeciding means a swipe submission is in flight; further input
	// against the deck is rejected until it resolves.
	StateDeciding
	// StateExhausted means the queue drained and the last fetch returned
	// nothing new; a manual reload re-enters StateEmpty.
	StateExhausted
)

// String returns a readable name for the state.
func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoaded:
		return "loaded"
	case StateDeciding:
		return "deciding"
	case StateExhausted:
		return "exhausted"
	default:
		return "invalid"
	}
}

// Error variables for rejected deck operations.
var (
	// ErrDecisionInFlight means a decision is already pending; the second
	// call is ignored, not queued.
	ErrDecisionInFlight = errors.New("a decision is already in flight")

	// ErrNoCandidate means the deck has no head to decide against.
	ErrNoCandidate = errors.New("no candidate to decide on")

	// ErrNotTopCard means the caller tried to decide against a candidate
	// that is not the current head.
	ErrNotTopCard = errors.New("decision must target the top card")

	// ErrInvalidAction means the action was neither like nor pass.
	ErrInvalidAction = errors.New("invalid swipe action")
)

// DeckAPI is the slice of the API client the controller needs.
type DeckAPI interface {
	Cards(ctx context.Context, limit int) ([]model.Candidate, error)
	Swipe(ctx context.Context, decision model.SwipeDecision) (*api.SwipeResult, error)
}

// MatchNotifier is told exactly once about each mutual match, with the
// partner's display name, so the UI can pop its notification.
type MatchNotifier interface {
	NotifyMatch(candidate model.Candidate)
}

// NotifierFunc adapts a function to MatchNotifier.
type NotifierFunc func(model.Candidate)

// NotifyMatch implements MatchNotifier.
func (f NotifierFunc) NotifyMatch(c model.Candidate) { f(c) }

// Result reports the outcome of a successful decision.
type Result struct {
	// Candidate is the card the decision consumed.
	Candidate model.Candidate
	// Mutual is true when a like was reciprocal and created a match.
	Mutual bool
	// MatchedName is the partner's display name when Mutual.
	MatchedName string
	// Match is the created record when the server included it.
	Match *model.Match
}

// Controller owns the candidate queue and the decision lifecycle.
type Controller struct {
	api      DeckAPI
	notifier MatchNotifier

	mu       sync.Mutex
	state    State
	queue    []model.Candidate
	inQueue  map[string]struct{}
	decided  map[string]struct{}
	deciding bool
	loading  bool
}

// NewController creates an empty deck controller. notifier may be nil.
func NewController(deckAPI DeckAPI, notifier MatchNotifier) *Controller {
	return &Controller{
		api:      deckAPI,
		notifier: notifier,
		state:    StateEmpty,
		inQueue:  make(map[string]struct{}),
		decided:  make(map[string]struct{}),
	}
}

// =============================================================================
// ACCESSORS
// =============================================================================

// State returns the current deck state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Head returns the top card, if any.
func (c *Controller) Head() (model.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.queue) == 0 {
		return model.Candidate{}, false
	}
	return c.queue[0], true
}

// Queue returns a copy of the pending candidates in order.
func (c *Controller) Queue() []model.Candidate {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Candidate, len(c.queue))
	copy(out, c.queue)
	return out
}

// Size returns the number of pending candidates.
func (c *Controller) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queue)
}

// ShouldReplenish reports whether the deck is running low and no fetch is
// already underway. The view checks this after every removal and kicks off
// a background LoadCandidates without blocking the current card.
func (c *Controller) ShouldReplenish() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateLoaded && len(c.queue) <= ReplenishThreshold && !c.loading
}

// =============================================================================
// OPERATIONS
// =============================================================================

// LoadCandidates fetches up to limit candidates and appends them to the
// queue, skipping any id already queued or already decided this session.
// On failure the queue is left exactly as it was. Concurrent calls
// collapse: a call while a fetch is underway is a no-op.
func (c *Controller) LoadCandidates(ctx context.Context, limit int) error {
	c.mu.Lock()
	if c.loading {
		c.mu.Unlock()
		return nil
	}
	c.loading = true
	c.mu.Unlock()

	cards, err := c.api.Cards(ctx, limit)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		return fmt.Errorf("load candidates: %w", err)
	}

	for _, card := range cards {
		if _, dup := c.inQueue[card.ID]; dup {
			continue
		}
		if _, done := c.decided[card.ID]; done {
			continue
		}
		c.inQueue[card.ID] = struct{}{}
		c.queue = append(c.queue, card)
	}

	// A fetch settles the deck: either there are cards to show, or the
	// deck is exhausted. There is no loaded-but-empty state.
	if c.deciding {
		return nil
	}
	if len(c.queue) == 0 {
		c.state = StateExhausted
	} else {
		c.state = StateLoaded
	}
	return nil
}

// Decide submits a swipe against the top card. At most one decision may be
// in flight; a second call during that window returns ErrDecisionInFlight
// without submitting anything. On success the head is consumed, and a
// mutual like notifies the match notifier exactly once. On failure the head
// stays put.
func (c *Controller) Decide(ctx context.Context, candidateID string, action model.SwipeAction) (*Result, error) {
	c.mu.Lock()
	if c.deciding {
		c.mu.Unlock()
		return nil, ErrDecisionInFlight
	}
	if len(c.queue) == 0 {
		c.mu.Unlock()
		return nil, ErrNoCandidate
	}
	head := c.queue[0]
	if head.ID != candidateID {
		c.mu.Unlock()
		return nil, ErrNotTopCard
	}
	if !action.Valid() {
		c.mu.Unlock()
		return nil, ErrInvalidAction
	}
	c.deciding = true
	c.state = StateDeciding
	c.mu.Unlock()

	res, err := c.api.Swipe(ctx, model.SwipeDecision{
		TargetUserID: head.ID,
		Action:       action,
	})

	c.mu.Lock()
	c.deciding = false
	if err != nil {
		// The candidate stays at the head; retry is up to the user.
		c.state = StateLoaded
		c.mu.Unlock()
		return nil, fmt.Errorf("swipe: %w", err)
	}

	c.queue = c.queue[1:]
	delete(c.inQueue, head.ID)
	c.decided[head.ID] = struct{}{}
	if len(c.queue) == 0 && !c.loading {
		c.state = StateExhausted
	} else {
		c.state = StateLoaded
	}

	result := &Result{
		Candidate: head,
		Mutual:    action == model.SwipeLike && res.IsMatch,
		Match:     res.Match,
	}
	matched := head
	if res.MatchedUser != nil {
		matched = *res.MatchedUser
	}
	result.MatchedName = matched.Name
	notifier := c.notifier
	c.mu.Unlock()

	if result.Mutual && notifier != nil {
		notifier.NotifyMatch(matched)
	}
	return result, nil
}

// Reload re-enters the empty state after exhaustion so a fresh
// LoadCandidates can run. Decisions already submitted this session keep
// guarding the dedupe filter.
func (c *Controller) Reload() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.deciding {
		return
	}
	c.state = StateEmpty
}
