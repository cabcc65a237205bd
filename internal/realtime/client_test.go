// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/kindlingapp/kindling-tui/internal/model"
)

var testUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// chatServer is a minimal in-process stand-in for the backend's chat
// namespace: it records received envelopes and can push events down.
type chatServer struct {
	t        *testing.T
	srv      *httptest.Server
	received chan Envelope
	outbound chan Envelope
	token    chan string
}

func newChatServer(t *testing.T) *chatServer {
	t.Helper()
	cs := &chatServer{
		t:        t,
		received: make(chan Envelope, 16),
		outbound: make(chan Envelope, 16),
		token:    make(chan string, 1),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		cs.token <- r.URL.Query().Get("token")
		conn, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		go func() {
			for env := range cs.outbound {
				if err := conn.WriteJSON(env); err != nil {
					return
				}
			}
		}()
		for {
			var env Envelope
			if err := conn.ReadJSON(&env); err != nil {
				return
			}
			cs.received <- env
		}
	})
	cs.srv = httptest.NewServer(mux)
	t.Cleanup(cs.srv.Close)
	return cs
}

func (cs *chatServer) wsURL() string {
	return "ws" + strings.TrimPrefix(cs.srv.URL, "http")
}

func (cs *chatServer) pushMessage(msg model.Message) {
	env, err := NewEnvelope(EventMessageIn, MessagePayload{Message: msg})
	if err != nil {
		cs.t.Fatalf("build envelope: %v", err)
	}
	cs.outbound <- env
}

func waitFor[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

// =============================================================================
// CONNECT AND EMIT TESTS
// =============================================================================

func TestConnect_HandshakesWithToken(t *testing.T) {
	cs := newChatServer(t)
	client := NewClient(cs.wsURL(), "tok-42")
	defer client.Close()

	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}
	if got := waitFor(t, cs.token, "handshake token"); got != "tok-42" {
		t.Errorf("handshake token = %q, want tok-42", got)
	}
	if !client.Connected() {
		t.Error("Connected() should be true after Connect")
	}
}

func TestJoin_EmitsJoinEnvelope(t *testing.T) {
	cs := newChatServer(t)
	client := NewClient(cs.wsURL(), "tok")
	defer client.Close()
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := client.Join("u2"); err != nil {
		t.Fatalf("Join: %v", err)
	}

	env := waitFor(t, cs.received, "join envelope")
	if env.Event != EventJoin {
		t.Errorf("event = %q, want join", env.Event)
	}
	var payload JoinPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.TargetUserID != "u2" {
		t.Errorf("targetUserId = %q, want u2", payload.TargetUserID)
	}
}

func TestSendMessage_CarriesNonce(t *testing.T) {
	cs := newChatServer(t)
	client := NewClient(cs.wsURL(), "tok")
	defer client.Close()
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	if err := client.SendMessage("u2", "hello"); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	env := waitFor(t, cs.received, "message envelope")
	var payload SendPayload
	if err := json.Unmarshal(env.Data, &payload); err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if payload.Content != "hello" || payload.TargetUserID != "u2" {
		t.Errorf("payload = %+v", payload)
	}
	if payload.Nonce == "" {
		t.Error("send payload should carry a nonce")
	}
}

func TestSendMessage_RateLimited(t *testing.T) {
	cs := newChatServer(t)
	client := NewClient(cs.wsURL(), "tok")
	defer client.Close()
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	limited := false
	for i := 0; i < sendBurst+2; i++ {
		if err := client.SendMessage("u2", "spam"); err == ErrSendRateLimited {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("burst of sends should eventually hit the rate limiter")
	}
}

func TestSendMessage_NotConnected(t *testing.T) {
	client := NewClient("ws://127.0.0.1:1", "tok")
	if err := client.SendMessage("u2", "hi"); err != ErrNotConnected {
		t.Errorf("err = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// SUBSCRIPTION TESTS
// =============================================================================

func TestSubscribe_DeliversInboundMessages(t *testing.T) {
	cs := newChatServer(t)
	client := NewClient(cs.wsURL(), "tok")
	defer client.Close()
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	got := make(chan model.Message, 1)
	unsubscribe := client.Subscribe(func(m model.Message) { got <- m })
	defer unsubscribe()

	cs.pushMessage(model.Message{ID: "m1", SenderID: "u2", Content: "hey"})

	msg := waitFor(t, got, "subscribed message")
	if msg.ID != "m1" || msg.Content != "hey" {
		t.Errorf("msg = %+v", msg)
	}
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	cs := newChatServer(t)
	client := NewClient(cs.wsURL(), "tok")
	defer client.Close()
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	got := make(chan model.Message, 4)
	unsubscribe := client.Subscribe(func(m model.Message) { got <- m })

	cs.pushMessage(model.Message{ID: "m1"})
	waitFor(t, got, "message before unsubscribe")

	unsubscribe()
	cs.pushMessage(model.Message{ID: "m2"})

	select {
	case m := <-got:
		t.Errorf("received %q after unsubscribe", m.ID)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestReadLoop_IgnoresUnknownEvents(t *testing.T) {
	cs := newChatServer(t)
	client := NewClient(cs.wsURL(), "tok")
	defer client.Close()
	if err := client.Connect(context.Background()); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	got := make(chan model.Message, 1)
	defer client.Subscribe(func(m model.Message) { got <- m })()

	env, _ := NewEnvelope("typing", map[string]string{"userId": "u2"})
	cs.outbound <- env
	cs.pushMessage(model.Message{ID: "m1"})

	msg := waitFor(t, got, "message after unknown event")
	if msg.ID != "m1" {
		t.Errorf("msg = %+v", msg)
	}
}
