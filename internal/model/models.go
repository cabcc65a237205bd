// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the API client,
// the realtime client, and the controllers.
package model

import (
	"strings"
	"time"
)

// =============================================================================
// GENDER TYPE
// =============================================================================

// Gender is the wire representation of a user's gender.
type Gender string

const (
	GenderMale      Gender = "male"
	GenderFemale    Gender = "female"
	GenderNonBinary Gender = "non-binary"
)

// String returns the string representation of the gender.
func (g Gender) String() string {
	return string(g)
}

// Valid reports whether g is one of the known gender values.
func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderNonBinary:
		return true
	}
	return false
}

// ParseGender normalizes a user-entered gender string.
func ParseGender(s string) (Gender, bool) {
	g := Gender(strings.ToLower(strings.TrimSpace(s)))
	return g, g.Valid()
}

// =============================================================================
// USER TYPE
// =============================================================================

// Location is a geographic point attached to a profile.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// AgeRange bounds the ages a user wants to see in discovery.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Preferences holds a user's discovery preferences.
type Preferences struct {
	AgeRange           AgeRange `json:"ageRange"`
	InterestedInGender []Gender `json:"interestedInGender"`
}

// User is the identity record for the authenticated account.
//
// It is created on registration, mutated by profile setup and update, and
// never deleted by the client. IsProfileComplete gates access to the
// discovery and messaging screens.
type User struct {
	ID                string       `json:"id"`
	Email             string       `json:"email"`
	Name              string       `json:"name"`
	Age               int          `json:"age,omitempty"`
	Gender            Gender       `json:"gender,omitempty"`
	Bio               string       `json:"bio,omitempty"`
	Interests         []string     `json:"interests,omitempty"`
	Location          *Location    `json:"location,omitempty"`
	Preferences       *Preferences `json:"preferences,omitempty"`
	ProfilePictureURL string       `json:"profilePictureUrl,omitempty"`
	IsProfileComplete bool         `json:"isProfileComplete"`
	CreatedAt         time.Time    `json:"createdAt,omitempty"`
	UpdatedAt         time.Time    `json:"updatedAt,omitempty"`
}

// DisplayName returns the name to show in lists and notifications.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

// =============================================================================
// CANDIDATE TYPE
// =============================================================================

// Candidate is a read-only projection of another user's public profile as
// returned by the discovery endpoint, plus a server-computed distance.
// Candidates are immutable client-side: they are consumed and discarded once
// a swipe decision against them succeeds.
type Candidate struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Age               int      `json:"age"`
	Gender            Gender   `json:"gender"`
	Bio               string   `json:"bio"`
	Interests         []string `json:"interests"`
	ProfilePictureURL string   `json:"profilePictureUrl,omitempty"`
	DistanceKm        float64  `json:"distance"`
}

// =============================================================================
// SWIPE TYPES
// =============================================================================

// SwipeAction is the decision taken against a candidate.
type SwipeAction string

const (
	SwipeLike SwipeAction = "like"
	SwipePass SwipeAction = "pass"
)

// Valid reports whether a is a known swipe action.
func (a SwipeAction) Valid() bool {
	return a == SwipeLike || a == SwipePass
}

// SwipeDecision is the ephemeral value submitted once per candidate per
// session. It is never retried automatically on failure.
type SwipeDecision struct {
	TargetUserID string      `json:"targetUserId"`
	Action       SwipeAction `json:"action"`
}

// =============================================================================
// MATCH TYPE
// =============================================================================

// MatchStatus is the lifecycle state of a match record.
type MatchStatus string

const (
	MatchPending MatchStatus = "pending"
	MatchMatched MatchStatus = "matched"
)

// Match is a confirmed mutual-like relationship. It is created server-side
// upon a reciprocal like; the client only ever reads or deletes it.
type Match struct {
	ID        string      `json:"id"`
	UserID1   string      `json:"userId1"`
	UserID2   string      `json:"userId2"`
	Status    MatchStatus `json:"status"`
	MatchedAt time.Time   `json:"matchedAt,omitempty"`

	// User is the other participant's public profile, embedded by the
	// matches endpoint so the client can render the list without an extra
	// round trip per match.
	User Candidate `json:"user"`
}

// PartnerID returns the id of the other participant given our own id.
func (m *Match) PartnerID(selfID string) string {
	if m.UserID1 == selfID {
		return m.UserID2
	}
	return m.UserID1
}
