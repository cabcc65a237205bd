// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app provides the Bubble Tea application shell for the kindling TUI.
package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kindlingapp/kindling-tui/internal/chat"
	"github.com/kindlingapp/kindling-tui/internal/config"
	"github.com/kindlingapp/kindling-tui/internal/credentials"
	"github.com/kindlingapp/kindling-tui/internal/discover"
	"github.com/kindlingapp/kindling-tui/internal/matches"
	"github.com/kindlingapp/kindling-tui/internal/model"
	"github.com/kindlingapp/kindling-tui/internal/realtime"
	"github.com/kindlingapp/kindling-tui/internal/session"
	"github.com/kindlingapp/kindling-tui/internal/ui/components"
	"github.com/kindlingapp/kindling-tui/internal/ui/styles"
)

// =============================================================================
// SCREENS
// =============================================================================

// Screen identifies which view owns the keyboard.
type Screen int

const (
	ScreenAuth Screen = iota
	ScreenSetup
	ScreenDeck
	ScreenMatches
	ScreenConvo
)

// =============================================================================
// APP MODEL
// =============================================================================

// Model is the root Bubble Tea model. It owns the session, the domain
// controllers, and routes updates to the active screen.
type Model struct {
	cfg   *config.Config
	theme *styles.Theme

	session *session.Manager
	creds   *credentials.Store

	deckAPI discover.DeckAPI
	listAPI matches.ListAPI
	histAPI chat.HistoryAPI

	// Built after authentication succeeds.
	realtime  *realtime.Client
	deck      *discover.Controller
	matches   *matches.Controller
	chat      *chat.Controller
	chatHooks []func() // release funcs for realtime subscriptions

	screen Screen
	width  int
	height int

	booting   bool
	connected bool
	toasts    *components.ToastManager

	// events bridges callbacks from controller goroutines into the
	// update loop.
	events chan tea.Msg

	auth      authModel
	setup     setupModel
	deckView  deckModel
	matchList matchListModel
	convo     convoModel

	// match celebration overlay
	popup *model.Candidate

	quitting bool
}

// Deps carries everything the shell needs from main.
type Deps struct {
	Config  *config.Config
	Session *session.Manager
	Creds   *credentials.Store

	// Backend is the swipe/match/chat REST surface. In production this is
	// the api.Client; tests substitute fakes.
	Deck    discover.DeckAPI
	Matches matches.ListAPI
	History chat.HistoryAPI
}

// New creates the application model.
func New(deps Deps) *Model {
	theme := styles.NewTheme(deps.Config.UI.Theme)
	m := &Model{
		cfg:      deps.Config,
		theme:    theme,
		session:  deps.Session,
		creds:    deps.Creds,
		screen:   ScreenAuth,
		booting:  true,
		toasts:   components.NewToastManager(),
		events:   make(chan tea.Msg, 64),
		deckAPI:  deps.Deck,
		listAPI:  deps.Matches,
		histAPI:  deps.History,
		auth:     newAuthModel(theme),
		setup:    newSetupModel(theme, deps.Config),
		deckView: newDeckModel(theme, deps.Config),
	}
	m.matchList = newMatchListModel(theme)
	m.convo = newConvoModel(theme)
	return m
}

// Init restores the saved session and starts the toast ticker.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.restoreSessionCmd(), components.ToastTickCmd(), m.listenEvents())
}

// restoreSessionCmd validates any saved credential against the server.
func (m *Model) restoreSessionCmd() tea.Cmd {
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		err := m.session.Init(ctx)
		return sessionReadyMsg{status: m.session.Status(), err: err}
	}
}

// listenEvents forwards one bridged event into the update loop. The
// handler re-issues it after every event.
func (m *Model) listenEvents() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

// push delivers a bridged event without blocking the caller; the update
// loop drains the channel quickly, and a full buffer only costs a redraw.
func (m *Model) push(msg tea.Msg) {
	select {
	case m.events <- msg:
	default:
	}
}

// ReloadConfig hands a freshly parsed config to the update loop. Safe to
// call from any goroutine; the config watcher calls it on file changes.
func (m *Model) ReloadConfig(cfg *config.Config) {
	m.push(configReloadedMsg{cfg: cfg})
}

// enterAuthenticated wires the realtime channel and the per-session
// controllers once a user is signed in.
func (m *Model) enterAuthenticated() tea.Cmd {
	user := m.session.User()
	if user == nil {
		return nil
	}

	token, ok := m.creds.Token()
	if !ok {
		return nil
	}

	m.deck = discover.NewController(m.deckAPI, discover.NotifierFunc(func(partner model.Candidate) {
		m.push(matchPopupMsg{partner: partner})
	}))
	m.matches = matches.NewController(m.listAPI)

	rt := realtime.NewClient(m.cfg.EffectiveRealtimeURL(), token).
		WithDisconnectHook(func(error) {
			m.push(realtimeDroppedMsg{})
		})
	m.realtime = rt
	m.chat = chat.NewController(m.histAPI, rt, user.ID)
	m.chatHooks = append(m.chatHooks, m.chat.Attach())
	m.chatHooks = append(m.chatHooks, rt.Subscribe(func(msg model.Message) {
		m.push(liveMessageMsg{message: msg})
	}))

	if m.session.NeedsProfileSetup() {
		m.screen = ScreenSetup
	} else {
		m.screen = ScreenDeck
	}

	return tea.Batch(
		m.connectRealtimeCmd(),
		m.loadCardsCmd(),
		m.refreshMatchesCmd(),
	)
}

// leaveAuthenticated tears down the per-session state on logout or a
// credential expiry.
func (m *Model) leaveAuthenticated() {
	for _, release := range m.chatHooks {
		release()
	}
	m.chatHooks = nil
	if m.realtime != nil {
		m.realtime.Close()
		m.realtime = nil
	}
	m.deck = nil
	m.matches = nil
	m.chat = nil
	m.connected = false
	m.popup = nil
	m.auth = newAuthModel(m.theme)
	m.screen = ScreenAuth
}
