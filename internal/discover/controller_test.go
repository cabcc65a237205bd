// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package discover

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/kindlingapp/kindling-tui/internal/api"
	"github.com/kindlingapp/kindling-tui/internal/model"
)

// fakeDeckAPI scripts candidate batches and swipe results.
type fakeDeckAPI struct {
	mu         sync.Mutex
	batches    [][]model.Candidate
	swipeErr   error
	swipeRes   *api.SwipeResult
	swipeCalls int
	cardCalls  int

	// blockSwipe, when set, holds Swipe until released; swipeStarted
	// receives once per blocked call as it enters.
	blockSwipe   chan struct{}
	swipeStarted chan struct{}
}

func (f *fakeDeckAPI) Cards(context.Context, int) ([]model.Candidate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cardCalls++
	if len(f.batches) == 0 {
		return nil, nil
	}
	batch := f.batches[0]
	f.batches = f.batches[1:]
	return batch, nil
}

func (f *fakeDeckAPI) Swipe(context.Context, model.SwipeDecision) (*api.SwipeResult, error) {
	f.mu.Lock()
	f.swipeCalls++
	block := f.blockSwipe
	err := f.swipeErr
	res := f.swipeRes
	f.mu.Unlock()

	if block != nil {
		if f.swipeStarted != nil {
			f.swipeStarted <- struct{}{}
		}
		<-block
	}
	if err != nil {
		return nil, err
	}
	if res != nil {
		return res, nil
	}
	return &api.SwipeResult{}, nil
}

func cand(id string) model.Candidate {
	return model.Candidate{ID: id, Name: "name-" + id}
}

func ids(queue []model.Candidate) []string {
	out := make([]string, len(queue))
	for i, c := range queue {
		out[i] = c.ID
	}
	return out
}

// =============================================================================
// LOAD TESTS
// =============================================================================

func TestLoadCandidates_DeduplicatesAcrossBatches(t *testing.T) {
	deck := &fakeDeckAPI{batches: [][]model.Candidate{
		{cand("a"), cand("b")},
		{cand("b"), cand("c"), cand("a")},
	}}
	c := NewController(deck, nil)

	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatalf("first load: %v", err)
	}
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatalf("second load: %v", err)
	}

	got := ids(c.Queue())
	want := []string{"a", "b", "c"}
	if len(got) != len(want) {
		t.Fatalf("queue = %v, want %v", got, want)
	}
	// First-seen instances keep their positions.
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("queue[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestLoadCandidates_DuplicateWithinOneBatch(t *testing.T) {
	deck := &fakeDeckAPI{batches: [][]model.Candidate{
		{cand("a"), cand("a"), cand("b")},
	}}
	c := NewController(deck, nil)

	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if got := ids(c.Queue()); len(got) != 2 {
		t.Errorf("queue = %v, want [a b]", got)
	}
}

func TestLoadCandidates_ZeroResultsMeansExhausted(t *testing.T) {
	deck := &fakeDeckAPI{}
	c := NewController(deck, nil)

	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateExhausted {
		t.Errorf("state = %v, want exhausted", c.State())
	}
}

func TestLoadCandidates_FailureLeavesQueueUnchanged(t *testing.T) {
	deck := &fakeDeckAPI{batches: [][]model.Candidate{{cand("a")}}}
	c := NewController(deck, nil)
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	failing := &failingDeck{}
	c.api = failing
	if err := c.LoadCandidates(context.Background(), 10); err == nil {
		t.Fatal("load should fail")
	}

	if got := ids(c.Queue()); len(got) != 1 || got[0] != "a" {
		t.Errorf("queue = %v, want [a]", got)
	}
	if c.State() != StateLoaded {
		t.Errorf("state = %v, want loaded", c.State())
	}
}

type failingDeck struct{}

func (failingDeck) Cards(context.Context, int) ([]model.Candidate, error) {
	return nil, fmt.Errorf("%w: connection refused", api.ErrNetwork)
}
func (failingDeck) Swipe(context.Context, model.SwipeDecision) (*api.SwipeResult, error) {
	return nil, fmt.Errorf("%w: connection refused", api.ErrNetwork)
}

// =============================================================================
// DECIDE TESTS
// =============================================================================

func TestDecide_ConsumesHead(t *testing.T) {
	deck := &fakeDeckAPI{batches: [][]model.Candidate{{cand("a"), cand("b")}}}
	c := NewController(deck, nil)
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	res, err := c.Decide(context.Background(), "a", model.SwipePass)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if res.Mutual {
		t.Error("pass cannot be mutual")
	}
	if head, _ := c.Head(); head.ID != "b" {
		t.Errorf("head = %q, want b", head.ID)
	}
}

func TestDecide_RejectsNonHead(t *testing.T) {
	deck := &fakeDeckAPI{batches: [][]model.Candidate{{cand("a"), cand("b")}}}
	c := NewController(deck, nil)
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	if _, err := c.Decide(context.Background(), "b", model.SwipeLike); !errors.Is(err, ErrNotTopCard) {
		t.Errorf("err = %v, want ErrNotTopCard", err)
	}
	if deck.swipeCalls != 0 {
		t.Error("rejected decision must not reach the network")
	}
}

func TestDecide_SingleFlight(t *testing.T) {
	deck := &fakeDeckAPI{
		batches:      [][]model.Candidate{{cand("a"), cand("b")}},
		blockSwipe:   make(chan struct{}),
		swipeStarted: make(chan struct{}, 1),
	}
	c := NewController(deck, nil)
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	firstDone := make(chan error, 1)
	go func() {
		_, err := c.Decide(context.Background(), "a", model.SwipeLike)
		firstDone <- err
	}()

	// Wait for the first decision to be in flight.
	<-deck.swipeStarted

	// A double-invoke while pending is ignored, not queued.
	_, err := c.Decide(context.Background(), "a", model.SwipeLike)
	if !errors.Is(err, ErrDecisionInFlight) {
		t.Errorf("err = %v, want ErrDecisionInFlight", err)
	}

	close(deck.blockSwipe)
	if err := <-firstDone; err != nil {
		t.Fatalf("first decision: %v", err)
	}

	if deck.swipeCalls != 1 {
		t.Errorf("swipe calls = %d, want 1", deck.swipeCalls)
	}
	if c.Size() != 1 {
		t.Errorf("queue size = %d, want 1 (exactly one candidate removed)", c.Size())
	}
}

func TestDecide_FailureKeepsHead(t *testing.T) {
	deck := &fakeDeckAPI{
		batches:  [][]model.Candidate{{cand("a"), cand("b")}},
		swipeErr: fmt.Errorf("%w: timeout", api.ErrNetwork),
	}
	c := NewController(deck, nil)
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	_, err := c.Decide(context.Background(), "a", model.SwipeLike)
	if !errors.Is(err, api.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}

	if head, _ := c.Head(); head.ID != "a" {
		t.Errorf("head = %q, want a (failed decision keeps the card)", head.ID)
	}
	if c.State() != StateLoaded {
		t.Errorf("state = %v, want loaded", c.State())
	}

	// An explicit user retry can now succeed.
	deck.mu.Lock()
	deck.swipeErr = nil
	deck.mu.Unlock()
	if _, err := c.Decide(context.Background(), "a", model.SwipeLike); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestDecide_MutualMatchNotifiesExactlyOnce(t *testing.T) {
	deck := &fakeDeckAPI{
		batches: [][]model.Candidate{{cand("a"), cand("b")}},
		swipeRes: &api.SwipeResult{
			IsMatch:     true,
			MatchedUser: &model.Candidate{ID: "a", Name: "Grace"},
		},
	}

	var notified []string
	c := NewController(deck, NotifierFunc(func(m model.Candidate) {
		notified = append(notified, m.Name)
	}))
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	res, err := c.Decide(context.Background(), "a", model.SwipeLike)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !res.Mutual || res.MatchedName != "Grace" {
		t.Errorf("result = %+v", res)
	}
	if len(notified) != 1 || notified[0] != "Grace" {
		t.Errorf("notifications = %v, want exactly [Grace]", notified)
	}
	if c.Size() != 1 {
		t.Errorf("queue size = %d, want 1 (exactly one candidate removed)", c.Size())
	}
}

func TestDecide_MutualLikeOnPassIsIgnored(t *testing.T) {
	// A server claiming a match on a pass is nonsense; the client must not
	// pop a notification for it.
	deck := &fakeDeckAPI{
		batches:  [][]model.Candidate{{cand("a")}},
		swipeRes: &api.SwipeResult{IsMatch: true},
	}
	notifications := 0
	c := NewController(deck, NotifierFunc(func(model.Candidate) { notifications++ }))
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	res, err := c.Decide(context.Background(), "a", model.SwipePass)
	if err != nil {
		t.Fatal(err)
	}
	if res.Mutual || notifications != 0 {
		t.Error("a pass must never produce a match notification")
	}
}

// =============================================================================
// LIFECYCLE TESTS
// =============================================================================

func TestExhaustionAndReload(t *testing.T) {
	deck := &fakeDeckAPI{batches: [][]model.Candidate{
		{cand("a"), cand("b")},
		{cand("c")},
	}}
	c := NewController(deck, nil)

	// loadCandidates(10) returns 2 candidates.
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateLoaded {
		t.Fatalf("state = %v, want loaded", c.State())
	}

	// Two successful decisions drain the deck.
	for _, id := range []string{"a", "b"} {
		if _, err := c.Decide(context.Background(), id, model.SwipePass); err != nil {
			t.Fatalf("decide %s: %v", id, err)
		}
	}
	if c.State() != StateExhausted {
		t.Fatalf("state = %v, want exhausted", c.State())
	}

	// Manual reload re-enters empty, then a fetch brings fresh cards.
	c.Reload()
	if c.State() != StateEmpty {
		t.Fatalf("state = %v, want empty after reload", c.State())
	}
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if head, _ := c.Head(); head.ID != "c" {
		t.Errorf("head = %q, want c", head.ID)
	}
}

func TestDecidedCandidatesNeverReappear(t *testing.T) {
	deck := &fakeDeckAPI{batches: [][]model.Candidate{
		{cand("a")},
		{cand("a"), cand("b")},
	}}
	c := NewController(deck, nil)
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Decide(context.Background(), "a", model.SwipeLike); err != nil {
		t.Fatal(err)
	}

	// The server returns "a" again; the session already decided it.
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}
	got := ids(c.Queue())
	if len(got) != 1 || got[0] != "b" {
		t.Errorf("queue = %v, want [b]", got)
	}
}

func TestShouldReplenish(t *testing.T) {
	deck := &fakeDeckAPI{batches: [][]model.Candidate{
		{cand("a"), cand("b"), cand("c"), cand("d"), cand("e")},
	}}
	c := NewController(deck, nil)
	if err := c.LoadCandidates(context.Background(), 10); err != nil {
		t.Fatal(err)
	}

	if c.ShouldReplenish() {
		t.Error("five cards should not need replenishment yet")
	}

	if _, err := c.Decide(context.Background(), "a", model.SwipePass); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Decide(context.Background(), "b", model.SwipePass); err != nil {
		t.Fatal(err)
	}

	// Three left, at the threshold.
	if !c.ShouldReplenish() {
		t.Error("three cards should trigger replenishment")
	}
}
