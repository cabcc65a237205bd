// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the domain types for the Kindling client.
//
// The types mirror what the backend returns on the wire:
//
//   - User: the authenticated account and its profile
//   - Candidate: another user's public profile shown during discovery
//   - SwipeDecision: a like/pass submitted against a candidate
//   - Match: a confirmed mutual like, created server-side only
//   - Message / MessageList: chat messages with idempotent merge by id
//   - Conversation: the in-memory thread aggregate for one match
//
// Nothing in this package performs I/O; controllers own all mutation
// beyond MessageList's ordered insert.
package model
