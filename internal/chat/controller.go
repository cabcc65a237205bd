// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat coordinates per-match conversations: message history over
// the REST API, live delivery over the realtime channel, and unread
// tracking. Outgoing messages are never appended locally; the server
// echoes every accepted message back on the channel, and that echo is the
// single source of truth for display order and IDs.
package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/kindlingapp/kindling-tui/internal/model"
	"github.com/kindlingapp/kindling-tui/internal/realtime"
)

// HistoryLimit is how many messages one history fetch requests.
const HistoryLimit = 100

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrUnknownConversation is returned when an operation names a match
	// the controller is not tracking.
	ErrUnknownConversation = errors.New("chat: unknown conversation")

	// ErrNoActiveConversation is returned by Send when no conversation
	// is open.
	ErrNoActiveConversation = errors.New("chat: no active conversation")

	// ErrEmptyMessage is returned by Send for blank content.
	ErrEmptyMessage = errors.New("chat: message content is empty")
)

// =============================================================================
// CONTROLLER
// =============================================================================

// HistoryAPI is the REST surface the controller needs.
type HistoryAPI interface {
	ChatHistory(ctx context.Context, targetUserID string, limit int) ([]model.Message, error)
}

// Channel is the realtime surface the controller needs.
type Channel interface {
	Join(targetUserID string) error
	SendMessage(targetUserID, content string) error
	Subscribe(fn realtime.Handler) (unsubscribe func())
}

// Controller tracks every conversation for the session and at most one
// active (open) conversation receiving live delivery.
type Controller struct {
	api     HistoryAPI
	channel Channel
	selfID  string

	mu          sync.Mutex
	convos      map[string]*model.Conversation // keyed by match ID
	active      string                         // match ID, "" when none
	unsubscribe func()
}

// NewController creates a controller for the authenticated user selfID.
func NewController(historyAPI HistoryAPI, channel Channel, selfID string) *Controller {
	return &Controller{
		api:     historyAPI,
		channel: channel,
		selfID:  selfID,
		convos:  make(map[string]*model.Conversation),
	}
}

// Attach subscribes the controller to the realtime channel for the whole
// session, so messages for conversations that are not open still land in
// their lists and bump unread counts. The per-conversation subscription
// Open manages is separate; duplicate delivery is absorbed by the
// ID-keyed insert. Returns a release function.
func (c *Controller) Attach() (release func()) {
	return c.channel.Subscribe(c.onMessage)
}

// Track registers a conversation for a match if one is not tracked yet.
// Safe to call on every match list refresh.
func (c *Controller) Track(m model.Match) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.convos[m.ID]; !ok {
		c.convos[m.ID] = model.NewConversation(m.ID, m.User)
	}
}

// Drop forgets a conversation, typically after an unmatch. If it was
// active, the live subscription is released too.
func (c *Controller) Drop(matchID string) {
	c.mu.Lock()
	release := func() {}
	if c.active == matchID {
		c.active = ""
		if c.unsubscribe != nil {
			release = c.unsubscribe
			c.unsubscribe = nil
		}
	}
	delete(c.convos, matchID)
	c.mu.Unlock()
	release()
}

// Active returns the open conversation's match ID.
func (c *Controller) Active() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active, c.active != ""
}

// Conversation returns the tracked conversation for a match.
func (c *Controller) Conversation(matchID string) (*model.Conversation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	convo, ok := c.convos[matchID]
	return convo, ok
}

// Messages returns the conversation's messages in ascending timestamp
// order.
func (c *Controller) Messages(matchID string) []model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	convo, ok := c.convos[matchID]
	if !ok {
		return nil
	}
	msgs := convo.Messages.Messages()
	out := make([]model.Message, len(msgs))
	copy(out, msgs)
	return out
}

// Unread returns the conversation's unread count.
func (c *Controller) Unread(matchID string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if convo, ok := c.convos[matchID]; ok {
		return convo.UnreadCount
	}
	return 0
}

// TotalUnread sums unread counts across all conversations.
func (c *Controller) TotalUnread() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := 0
	for _, convo := range c.convos {
		total += convo.UnreadCount
	}
	return total
}

// Open makes the conversation active: it joins the partner's room, fetches
// history, and swaps the live subscription over. The previous subscription
// is released only after the new one is in place, so a failed open leaves
// the prior conversation intact. History merges by message ID, so messages
// that already arrived live are not duplicated.
func (c *Controller) Open(ctx context.Context, matchID string) (*model.Conversation, error) {
	c.mu.Lock()
	convo, ok := c.convos[matchID]
	if !ok {
		c.mu.Unlock()
		return nil, ErrUnknownConversation
	}
	partnerID := convo.Partner.ID
	c.mu.Unlock()

	unsub := c.channel.Subscribe(c.onMessage)
	if err := c.channel.Join(partnerID); err != nil {
		unsub()
		return nil, err
	}
	history, err := c.api.ChatHistory(ctx, partnerID, HistoryLimit)
	if err != nil {
		unsub()
		return nil, err
	}

	c.mu.Lock()
	prior := c.unsubscribe
	c.unsubscribe = unsub
	c.active = matchID
	convo.Messages.InsertAll(history)
	convo.UnreadCount = 0
	c.mu.Unlock()

	if prior != nil {
		prior()
	}
	return convo, nil
}

// Close deactivates the open conversation and releases its live
// subscription. Idempotent.
func (c *Controller) Close() {
	c.mu.Lock()
	c.active = ""
	release := c.unsubscribe
	c.unsubscribe = nil
	c.mu.Unlock()
	if release != nil {
		release()
	}
}

// Send submits content to the open conversation's partner over the
// realtime channel. The message appears in the conversation when the
// server echoes it back.
func (c *Controller) Send(content string) error {
	if content == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.active == "" {
		c.mu.Unlock()
		return ErrNoActiveConversation
	}
	partnerID := c.convos[c.active].Partner.ID
	c.mu.Unlock()

	return c.channel.SendMessage(partnerID, content)
}

// onMessage routes a live message into its conversation. Duplicates of
// already-known IDs are ignored. Incoming messages for a conversation
// other than the active one bump its unread count.
func (c *Controller) onMessage(msg model.Message) {
	c.mu.Lock()
	defer c.mu.Unlock()

	convo := c.conversationFor(msg)
	if convo == nil {
		return
	}
	if !convo.Messages.Insert(msg) {
		return
	}
	if msg.SenderID != c.selfID && convo.MatchID != c.active {
		convo.UnreadCount++
	}
}

// conversationFor finds the conversation a message belongs to by its
// partner-side participant. Caller holds the lock.
func (c *Controller) conversationFor(msg model.Message) *model.Conversation {
	partnerID := msg.SenderID
	if partnerID == c.selfID {
		partnerID = msg.ReceiverID
	}
	for _, convo := range c.convos {
		if convo.Partner.ID == partnerID {
			return convo
		}
	}
	return nil
}
