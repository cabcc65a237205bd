// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures shared by the API client,
// the realtime client, and the controllers.
package model

import (
	"sort"
	"time"
)

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message is a single chat message, created either by history fetch or by
// realtime delivery. The conversation layer merges messages idempotently by
// ID, so the same message arriving through both paths yields one entry.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	Timestamp  time.Time `json:"timestamp"`
	IsRead     bool      `json:"isRead"`
}

// =============================================================================
// MESSAGE LIST
// =============================================================================

// MessageList is an ordered list of messages with idempotent insertion.
// Messages are kept sorted ascending by timestamp; duplicates (same ID) are
// dropped on insert regardless of which path delivered them first.
type MessageList struct {
	msgs []Message
	seen map[string]struct{}
}

// NewMessageList returns an empty message list.
func NewMessageList() *MessageList {
	return &MessageList{seen: make(map[string]struct{})}
}

// Insert adds msg to the list unless a message with the same ID is already
// present. It reports whether the message was added.
func (l *MessageList) Insert(msg Message) bool {
	if l.seen == nil {
		l.seen = make(map[string]struct{})
	}
	if _, dup := l.seen[msg.ID]; dup {
		return false
	}
	l.seen[msg.ID] = struct{}{}

	// Common case: message is newer than everything we have.
	if n := len(l.msgs); n == 0 || !msg.Timestamp.Before(l.msgs[n-1].Timestamp) {
		l.msgs = append(l.msgs, msg)
		return true
	}

	i := sort.Search(len(l.msgs), func(i int) bool {
		return l.msgs[i].Timestamp.After(msg.Timestamp)
	})
	l.msgs = append(l.msgs, Message{})
	copy(l.msgs[i+1:], l.msgs[i:])
	l.msgs[i] = msg
	return true
}

// InsertAll inserts every message in msgs, returning how many were new.
func (l *MessageList) InsertAll(msgs []Message) int {
	added := 0
	for _, m := range msgs {
		if l.Insert(m) {
			added++
		}
	}
	return added
}

// Len returns the number of messages in the list.
func (l *MessageList) Len() int {
	return len(l.msgs)
}

// Messages returns the messages in ascending timestamp order. The returned
// slice is shared; callers must not mutate it.
func (l *MessageList) Messages() []Message {
	return l.msgs
}

// Last returns the newest message, or false if the list is empty.
func (l *MessageList) Last() (Message, bool) {
	if len(l.msgs) == 0 {
		return Message{}, false
	}
	return l.msgs[len(l.msgs)-1], true
}

// Contains reports whether a message with the given id is in the list.
func (l *MessageList) Contains(id string) bool {
	_, ok := l.seen[id]
	return ok
}

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation is the client-local aggregate tied to one match. It lives
// only in memory for the session and is rebuilt from the match list on each
// load.
type Conversation struct {
	MatchID     string
	Partner     Candidate
	Messages    *MessageList
	UnreadCount int
}

// NewConversation creates an empty conversation for a match.
func NewConversation(matchID string, partner Candidate) *Conversation {
	return &Conversation{
		MatchID:  matchID,
		Partner:  partner,
		Messages: NewMessageList(),
	}
}

// LastMessage returns the conversation's newest message, or false if there
// are no messages yet.
func (c *Conversation) LastMessage() (Message, bool) {
	return c.Messages.Last()
}
