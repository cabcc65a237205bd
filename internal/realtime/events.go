// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package realtime implements the websocket chat channel client.
package realtime

import (
	"encoding/json"

	"github.com/kindlingapp/kindling-tui/internal/model"
)

// Event names - client to server.
const (
	// EventJoin enters the room for one conversation partner.
	EventJoin = "join"
	// EventMessage sends a chat message to one partner.
	EventMessage = "message"
)

// Event names - server to client.
const (
	// EventMessageIn delivers a chat message, both to the recipient and as
	// the echo confirming the sender's own message.
	EventMessageIn = "message"
	// EventError reports a server-side channel failure.
	EventError = "error"
)

// Envelope is the frame wrapper for every websocket message, in both
// directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NewEnvelope wraps a payload, panicking only on unmarshalable payloads
// (which would be a programming error in this package).
func NewEnvelope(event string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Event: event, Data: data}, nil
}

// --- Client to server payloads ---

// JoinPayload keys the conversation room by the other participant.
type JoinPayload struct {
	TargetUserID string `json:"targetUserId"`
}

// SendPayload is an outgoing chat message. The nonce lets the server drop
// accidental duplicate submissions.
type SendPayload struct {
	TargetUserID string `json:"targetUserId"`
	Content      string `json:"content"`
	Nonce        string `json:"nonce,omitempty"`
}

// --- Server to client payloads ---

// MessagePayload is a delivered chat message.
type MessagePayload struct {
	model.Message
}

// ErrorPayload is a server-reported channel error.
type ErrorPayload struct {
	Message string `json:"message"`
}
