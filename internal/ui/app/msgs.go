// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the Bubble Tea application shell for the kindling
// TUI: screen routing, shared messages, and the event bridge from the
// realtime channel into the update loop.
package app

import (
	"github.com/kindlingapp/kindling-tui/internal/config"
	"github.com/kindlingapp/kindling-tui/internal/discover"
	"github.com/kindlingapp/kindling-tui/internal/model"
	"github.com/kindlingapp/kindling-tui/internal/session"
)

// =============================================================================
// SHARED MESSAGES
// =============================================================================

// sessionReadyMsg reports the outcome of the startup session restore.
type sessionReadyMsg struct {
	status session.Status
	err    error
}

// authDoneMsg reports a completed login or register attempt.
type authDoneMsg struct {
	err error
}

// setupDoneMsg reports a completed profile setup submission.
type setupDoneMsg struct {
	err error
}

// cardsLoadedMsg reports a completed candidate fetch.
type cardsLoadedMsg struct {
	err error
}

// decideDoneMsg reports a completed swipe decision.
type decideDoneMsg struct {
	result *discover.Result
	err    error
}

// matchesLoadedMsg reports a completed match list refresh.
type matchesLoadedMsg struct {
	err error
}

// unmatchDoneMsg reports a completed unmatch attempt.
type unmatchDoneMsg struct {
	matchID string
	err     error
}

// convoOpenedMsg reports a completed conversation open.
type convoOpenedMsg struct {
	matchID string
	err     error
}

// messageSentMsg reports a completed realtime send.
type messageSentMsg struct {
	err error
}

// realtimeConnectedMsg reports the realtime channel coming up.
type realtimeConnectedMsg struct {
	err error
}

// realtimeDroppedMsg reports the realtime channel going down.
type realtimeDroppedMsg struct{}

// liveMessageMsg wakes the update loop when a chat message arrives over
// the realtime channel. The message is already merged into its
// conversation; this only triggers a redraw and unread refresh.
type liveMessageMsg struct {
	message model.Message
}

// matchPopupMsg announces a mutual match for the celebration overlay.
type matchPopupMsg struct {
	partner model.Candidate
}

// profileSavedMsg reports a finished profile edit (with optional photo
// upload).
type profileSavedMsg struct {
	err error
}

// logoutDoneMsg reports a completed logout.
type logoutDoneMsg struct{}

// configReloadedMsg carries a config re-read from disk by the file watcher.
type configReloadedMsg struct {
	cfg *config.Config
}
