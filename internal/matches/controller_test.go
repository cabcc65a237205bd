// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package matches

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/kindlingapp/kindling-tui/internal/api"
	"github.com/kindlingapp/kindling-tui/internal/model"
)

type fakeListAPI struct {
	mu         sync.Mutex
	list       []model.Match
	listErr    error
	unmatchErr error
	unmatched  []string

	// blockUnmatch, when set, holds Unmatch until released; started
	// receives once per blocked call.
	blockUnmatch chan struct{}
	started      chan struct{}
}

func (f *fakeListAPI) Matches(context.Context) ([]model.Match, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]model.Match, len(f.list))
	copy(out, f.list)
	return out, nil
}

func (f *fakeListAPI) Unmatch(_ context.Context, matchID string) error {
	f.mu.Lock()
	f.unmatched = append(f.unmatched, matchID)
	block := f.blockUnmatch
	err := f.unmatchErr
	f.mu.Unlock()

	if block != nil {
		if f.started != nil {
			f.started <- struct{}{}
		}
		<-block
	}
	return err
}

func match(id string) model.Match {
	return model.Match{
		ID:     id,
		Status: model.MatchMatched,
		User:   model.Candidate{ID: "u-" + id, Name: "name-" + id},
	}
}

func ids(matches []model.Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.ID
	}
	return out
}

func loaded(t *testing.T, list ...model.Match) (*Controller, *fakeListAPI) {
	t.Helper()
	deck := &fakeListAPI{list: list}
	c := NewController(deck)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	return c, deck
}

func TestRefresh_ReplacesList(t *testing.T) {
	c, srv := loaded(t, match("m1"), match("m2"))

	srv.mu.Lock()
	srv.list = []model.Match{match("m2"), match("m3")}
	srv.mu.Unlock()

	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := ids(c.Matches())
	if len(got) != 2 || got[0] != "m2" || got[1] != "m3" {
		t.Errorf("matches = %v, want [m2 m3]", got)
	}
}

func TestRefresh_FailureKeepsList(t *testing.T) {
	c, srv := loaded(t, match("m1"))

	srv.mu.Lock()
	srv.listErr = fmt.Errorf("%w: timeout", api.ErrNetwork)
	srv.mu.Unlock()

	if err := c.Refresh(context.Background()); err == nil {
		t.Fatal("refresh should fail")
	}
	if c.Len() != 1 {
		t.Errorf("len = %d, want 1", c.Len())
	}
}

func TestUnmatch_RemovesImmediately(t *testing.T) {
	c, srv := loaded(t, match("m1"), match("m2"), match("m3"))

	if err := c.Unmatch(context.Background(), "m2"); err != nil {
		t.Fatalf("unmatch: %v", err)
	}
	got := ids(c.Matches())
	if len(got) != 2 || got[0] != "m1" || got[1] != "m3" {
		t.Errorf("matches = %v, want [m1 m3]", got)
	}
	if len(srv.unmatched) != 1 || srv.unmatched[0] != "m2" {
		t.Errorf("server saw %v, want [m2]", srv.unmatched)
	}
}

func TestUnmatch_FailureRestoresOriginalPosition(t *testing.T) {
	c, srv := loaded(t, match("m1"), match("m2"), match("m3"))
	srv.unmatchErr = fmt.Errorf("%w: server error", api.ErrNetwork)

	err := c.Unmatch(context.Background(), "m2")
	if !errors.Is(err, api.ErrNetwork) {
		t.Fatalf("err = %v, want ErrNetwork", err)
	}

	got := ids(c.Matches())
	want := []string{"m1", "m2", "m3"}
	if len(got) != len(want) {
		t.Fatalf("matches = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("matches[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnmatch_UnknownID(t *testing.T) {
	c, _ := loaded(t, match("m1"))
	if err := c.Unmatch(context.Background(), "nope"); !errors.Is(err, ErrUnknownMatch) {
		t.Errorf("err = %v, want ErrUnknownMatch", err)
	}
}

func TestUnmatch_OnlyOneInFlightPerMatch(t *testing.T) {
	srv := &fakeListAPI{
		list:         []model.Match{match("m1")},
		blockUnmatch: make(chan struct{}),
		started:      make(chan struct{}, 1),
	}
	c := NewController(srv)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- c.Unmatch(context.Background(), "m1") }()
	<-srv.started

	// Already removed locally, so a second attempt sees an unknown id
	// rather than double-submitting.
	if err := c.Unmatch(context.Background(), "m1"); !errors.Is(err, ErrUnknownMatch) {
		t.Errorf("err = %v, want ErrUnknownMatch", err)
	}

	close(srv.blockUnmatch)
	if err := <-done; err != nil {
		t.Fatalf("first unmatch: %v", err)
	}
	if len(srv.unmatched) != 1 {
		t.Errorf("server saw %d unmatch calls, want 1", len(srv.unmatched))
	}
}

func TestRefresh_DoesNotResurrectPendingUnmatch(t *testing.T) {
	srv := &fakeListAPI{
		list:         []model.Match{match("m1"), match("m2")},
		blockUnmatch: make(chan struct{}),
		started:      make(chan struct{}, 1),
	}
	c := NewController(srv)
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}

	done := make(chan error, 1)
	go func() { done <- c.Unmatch(context.Background(), "m1") }()
	<-srv.started

	// A refresh racing the unmatch still includes m1 server-side.
	if err := c.Refresh(context.Background()); err != nil {
		t.Fatal(err)
	}
	got := ids(c.Matches())
	if len(got) != 1 || got[0] != "m2" {
		t.Errorf("matches = %v, want [m2]", got)
	}

	close(srv.blockUnmatch)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
}

func TestAdd_PrependsAndDeduplicates(t *testing.T) {
	c, _ := loaded(t, match("m1"))

	c.Add(match("m2"))
	c.Add(match("m2"))

	got := ids(c.Matches())
	if len(got) != 2 || got[0] != "m2" || got[1] != "m1" {
		t.Errorf("matches = %v, want [m2 m1]", got)
	}
}

func TestGet(t *testing.T) {
	c, _ := loaded(t, match("m1"))

	if m, ok := c.Get("m1"); !ok || m.User.Name != "name-m1" {
		t.Errorf("Get(m1) = %+v, %v", m, ok)
	}
	if _, ok := c.Get("m9"); ok {
		t.Error("Get(m9) should miss")
	}
}
