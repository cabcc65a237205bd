// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package realtime implements the websocket chat channel client.
//
// One connection is opened per authenticated session, handshaking with the
// stored token as a query parameter. The conversation layer joins one room
// at a time and subscribes to inbound messages; subscriptions return an
// unsubscribe handle so switching conversations deterministically releases
// the previous room's routing.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/kindlingapp/kindling-tui/internal/model"
)

// Connection timing constants.
const (
	// writeWait bounds a single frame write.
	writeWait = 10 * time.Second
	// pongWait is how long to wait for a pong before the reader gives up.
	pongWait = 60 * time.Second
	// pingPeriod keeps the connection alive; must be under pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Outbound sends pass a limiter so a stuck key or a spamming script cannot
// flood the channel.
const (
	sendRatePerSec = 2
	sendBurst      = 5
)

// Error variables for channel failures.
var (
	// ErrNotConnected indicates Connect has not succeeded yet or the
	// connection is closed.
	ErrNotConnected = errors.New("realtime channel not connected")

	// ErrSendRateLimited indicates the local send limiter rejected the
	// message.
	ErrSendRateLimited = errors.New("sending too fast, slow down")
)

// Handler receives inbound chat messages.
type Handler func(model.Message)

// Client is the duplex realtime channel for one authenticated session.
type Client struct {
	baseURL string
	token   string
	dialer  *websocket.Dialer
	limiter *rate.Limiter

	mu        sync.Mutex
	conn      *websocket.Conn
	subs      map[int]Handler
	nextSubID int
	done      chan struct{}

	// onDisconnect fires once when the read loop exits.
	onDisconnect func(error)
}

// NewClient creates a realtime client for the websocket base URL (ws:// or
// wss://), authenticating with the given session token.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(sendRatePerSec), sendBurst),
		subs:    make(map[int]Handler),
	}
}

// WithDisconnectHook sets the callback fired when the connection drops.
func (c *Client) WithDisconnectHook(fn func(error)) *Client {
	c.onDisconnect = fn
	return c
}

// Connect dials the chat namespace and starts the read and keepalive loops.
func (c *Client) Connect(ctx context.Context) error {
	u, err := url.Parse(c.baseURL + "/chat")
	if err != nil {
		return fmt.Errorf("realtime url: %w", err)
	}
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()

	conn, resp, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("realtime handshake failed (HTTP %d): %w", resp.StatusCode, err)
		}
		return fmt.Errorf("realtime connect: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.done = make(chan struct{})
	c.mu.Unlock()

	go c.readLoop(conn)
	go c.pingLoop(conn)
	return nil
}

// Connected reports whether the channel is currently open.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn != nil
}

// Close tears down the connection. Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	if c.done != nil {
		select {
		case <-c.done:
		default:
			close(c.done)
		}
	}
	c.mu.Unlock()

	if conn == nil {
		return nil
	}
	deadline := time.Now().Add(writeWait)
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	return conn.Close()
}

// =============================================================================
// OUTBOUND
// =============================================================================

// Join enters the conversation room keyed by the other participant.
func (c *Client) Join(targetUserID string) error {
	env, err := NewEnvelope(EventJoin, JoinPayload{TargetUserID: targetUserID})
	if err != nil {
		return err
	}
	return c.write(env)
}

// SendMessage emits a chat message. The server echoes the stored message
// back on the channel; nothing is appended locally here.
func (c *Client) SendMessage(targetUserID, content string) error {
	if !c.limiter.Allow() {
		return ErrSendRateLimited
	}
	env, err := NewEnvelope(EventMessage, SendPayload{
		TargetUserID: targetUserID,
		Content:      content,
		Nonce:        uuid.NewString(),
	})
	if err != nil {
		return err
	}
	return c.write(env)
}

// write serializes frame writes; gorilla connections allow only one
// concurrent writer.
func (c *Client) write(env Envelope) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return ErrNotConnected
	}
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(env)
}

// =============================================================================
// INBOUND
// =============================================================================

// Subscribe registers a handler for inbound chat messages and returns the
// handle that removes it. Handlers run on the read loop goroutine; keep
// them short and hand messages to your own event loop.
func (c *Client) Subscribe(fn Handler) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSubID
	c.nextSubID++
	c.subs[id] = fn

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Client) readLoop(conn *websocket.Conn) {
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	var exitErr error
	for {
		var env Envelope
		if err := conn.ReadJSON(&env); err != nil {
			exitErr = err
			break
		}

		switch env.Event {
		case EventMessageIn:
			var payload MessagePayload
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				log.Printf("realtime: dropping malformed message event: %v", err)
				continue
			}
			c.dispatch(payload.Message)
		case EventError:
			var payload ErrorPayload
			_ = json.Unmarshal(env.Data, &payload)
			log.Printf("realtime: server error event: %s", payload.Message)
		default:
			// Unknown events are ignored so server additions never break
			// older clients.
		}
	}

	c.mu.Lock()
	stillCurrent := c.conn == conn
	if stillCurrent {
		c.conn = nil
	}
	c.mu.Unlock()

	if stillCurrent && c.onDisconnect != nil {
		c.onDisconnect(exitErr)
	}
}

// dispatch fans a message out to the current subscribers.
func (c *Client) dispatch(msg model.Message) {
	c.mu.Lock()
	handlers := make([]Handler, 0, len(c.subs))
	for _, h := range c.subs {
		handlers = append(handlers, h)
	}
	c.mu.Unlock()

	for _, h := range handlers {
		h(msg)
	}
}

func (c *Client) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	c.mu.Lock()
	done := c.done
	c.mu.Unlock()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			c.mu.Lock()
			current := c.conn
			c.mu.Unlock()
			if current != conn {
				return
			}
			// WriteControl is safe alongside the data writer.
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
