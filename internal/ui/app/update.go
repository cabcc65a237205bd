// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kindlingapp/kindling-tui/internal/api"
	"github.com/kindlingapp/kindling-tui/internal/config"
	"github.com/kindlingapp/kindling-tui/internal/discover"
	"github.com/kindlingapp/kindling-tui/internal/model"
	"github.com/kindlingapp/kindling-tui/internal/realtime"
	"github.com/kindlingapp/kindling-tui/internal/session"
	"github.com/kindlingapp/kindling-tui/internal/ui/components"
	"github.com/kindlingapp/kindling-tui/internal/ui/styles"
)

// Update routes messages to the active screen and applies the results of
// finished commands.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.theme.SetSize(msg.Width, msg.Height)
		if m.screen == ScreenConvo {
			m.layoutConvo()
			m.refreshConvo()
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			if m.realtime != nil {
				m.realtime.Close()
			}
			return m, tea.Quit
		}
		return m, m.routeKey(msg)

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case sessionReadyMsg:
		return m, m.applySessionReady(msg)

	case authDoneMsg:
		m.auth.busy = false
		if msg.err != nil {
			m.auth.formErr = msg.err.Error()
			return m, nil
		}
		return m, m.enterAuthenticated()

	case setupDoneMsg:
		m.setup.busy = false
		if msg.err != nil {
			m.setup.formErr = msg.err.Error()
			return m, nil
		}
		m.toasts.AddSuccess("profile saved")
		m.screen = ScreenDeck
		m.deckView.loading = true
		return m, tea.Batch(m.loadCardsCmd(), m.deckView.spinner.Start())

	case profileSavedMsg:
		m.setup.busy = false
		if msg.err != nil {
			m.setup.formErr = msg.err.Error()
			return m, m.checkAuthErr(msg.err)
		}
		m.setup.editing = false
		m.toasts.AddSuccess("profile updated")
		m.screen = ScreenDeck
		return m, nil

	case cardsLoadedMsg:
		m.deckView.loading = false
		m.deckView.spinner.Stop()
		if msg.err != nil && !isAuthError(msg.err) {
			m.toasts.AddError("couldn't load people nearby")
		}
		return m, m.checkAuthErr(msg.err)

	case decideDoneMsg:
		return m, m.applyDecideDone(msg)

	case matchesLoadedMsg:
		m.matchList.loading = false
		if msg.err != nil && !isAuthError(msg.err) {
			m.toasts.AddError("couldn't refresh your matches")
		}
		return m, m.checkAuthErr(msg.err)

	case unmatchDoneMsg:
		if msg.err != nil {
			m.toasts.AddError("unmatch failed, match restored")
			return m, m.checkAuthErr(msg.err)
		}
		m.chat.Drop(msg.matchID)
		m.toasts.AddStatus("unmatched")
		return m, nil

	case convoOpenedMsg:
		m.convo.opening = false
		if msg.err != nil {
			m.closeConvo()
			m.toasts.AddError("couldn't open conversation")
			return m, m.checkAuthErr(msg.err)
		}
		m.layoutConvo()
		m.refreshConvo()
		return m, nil

	case messageSentMsg:
		if msg.err != nil {
			switch {
			case errors.Is(msg.err, realtime.ErrSendRateLimited):
				m.toasts.AddError("slow down a little")
			case errors.Is(msg.err, realtime.ErrNotConnected):
				m.toasts.AddError("chat is offline")
			default:
				m.toasts.AddError("message not sent")
			}
		}
		return m, nil

	case realtimeConnectedMsg:
		m.connected = msg.err == nil
		if msg.err != nil {
			m.toasts.AddError("live chat unavailable")
		}
		return m, nil

	case realtimeDroppedMsg:
		m.connected = false
		m.toasts.AddError("live chat disconnected")
		return m, m.listenEvents()

	case liveMessageMsg:
		if m.screen == ScreenConvo {
			m.refreshConvo()
		}
		return m, m.listenEvents()

	case matchPopupMsg:
		partner := msg.partner
		m.popup = &partner
		m.toasts.AddMatch("It's a match with " + partner.Name + "!")
		return m, m.listenEvents()

	case logoutDoneMsg:
		m.leaveAuthenticated()
		m.toasts.AddStatus("signed out")
		return m, nil

	case configReloadedMsg:
		return m, m.applyConfigReload(msg.cfg)
	}

	// Everything else (spinner frames, input blinks) goes to the active
	// screen.
	return m, m.routeOther(msg)
}

// applySessionReady finishes startup once the saved credential has been
// checked.
func (m *Model) applySessionReady(msg sessionReadyMsg) tea.Cmd {
	m.booting = false
	if msg.status == session.StatusAuthenticated {
		return m.enterAuthenticated()
	}
	if msg.err != nil && !errors.Is(msg.err, api.ErrAuthFailed) {
		m.toasts.AddError("couldn't restore your session")
	}
	m.screen = ScreenAuth
	return nil
}

// applyConfigReload picks up a config file change without restarting.
// Server settings are left alone: swapping the backend mid-session would
// orphan the realtime channel, so those take effect on next start.
func (m *Model) applyConfigReload(cfg *config.Config) tea.Cmd {
	themeChanged := cfg.UI.Theme != m.cfg.UI.Theme
	*m.cfg = *cfg

	if themeChanged {
		*m.theme = *styles.NewTheme(m.cfg.UI.Theme)
		m.theme.SetSize(m.width, m.height)
	}
	// Drop the cached bio render so a markdown toggle shows up.
	m.deckView.bioFor = ""
	m.deckView.md = nil

	if m.screen == ScreenConvo {
		m.refreshConvo()
	}
	return m.listenEvents()
}

// applyDecideDone handles a finished swipe.
func (m *Model) applyDecideDone(msg decideDoneMsg) tea.Cmd {
	m.deckView.deciding = false
	if msg.err != nil {
		if errors.Is(msg.err, discover.ErrDecisionInFlight) || errors.Is(msg.err, discover.ErrNotTopCard) {
			return nil
		}
		m.toasts.AddError("swipe didn't go through, try again")
		return m.checkAuthErr(msg.err)
	}

	var cmds []tea.Cmd
	if msg.result != nil && msg.result.Mutual && msg.result.Match != nil {
		m.matches.Add(*msg.result.Match)
		m.chat.Track(*msg.result.Match)
	}
	if m.deck.ShouldReplenish() && m.deck.State() == discover.StateLoaded {
		m.deckView.loading = true
		cmds = append(cmds, m.loadCardsCmd())
	}
	return tea.Batch(cmds...)
}

// isAuthError reports whether a command failed on an expired or missing
// credential rather than an ordinary network problem.
func isAuthError(err error) bool {
	return errors.Is(err, api.ErrAuthFailed) || errors.Is(err, api.ErrNotAuthenticated)
}

// checkAuthErr downgrades to the auth screen when a command failed on an
// expired credential.
func (m *Model) checkAuthErr(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	if isAuthError(err) {
		m.leaveAuthenticated()
		m.toasts.AddError("session expired, please sign in again")
	}
	return nil
}

// routeKey dispatches a key press to the active screen.
func (m *Model) routeKey(msg tea.KeyMsg) tea.Cmd {
	if m.booting {
		return nil
	}

	// The match popup swallows the next key.
	if m.popup != nil {
		key := msg.String()
		m.popup = nil
		if key == "m" {
			m.screen = ScreenMatches
			m.matchList.loading = true
			return m.refreshMatchesCmd()
		}
		return nil
	}

	switch m.screen {
	case ScreenAuth:
		return m.updateAuth(msg)
	case ScreenSetup:
		return m.updateSetup(msg)
	case ScreenDeck:
		return m.updateDeckKeys(msg)
	case ScreenMatches:
		return m.updateMatchKeys(msg)
	case ScreenConvo:
		return m.updateConvo(msg)
	}
	return nil
}

// routeOther dispatches non-key messages to the active screen.
func (m *Model) routeOther(msg tea.Msg) tea.Cmd {
	switch m.screen {
	case ScreenAuth:
		return m.auth.updateInputs(msg)
	case ScreenSetup:
		return m.setup.updateInputs(msg)
	case ScreenDeck:
		return m.deckView.spinner.Update(msg)
	case ScreenConvo:
		return m.updateConvo(msg)
	}
	return nil
}

// updateDeckKeys handles keys on the swipe screen.
func (m *Model) updateDeckKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "right", "l":
		return m.swipe(model.SwipeLike)
	case "left", "p":
		return m.swipe(model.SwipePass)
	case "r":
		if m.deck.State() == discover.StateExhausted {
			m.deck.Reload()
		}
		m.deckView.loading = true
		return tea.Batch(m.loadCardsCmd(), m.deckView.spinner.Start())
	case "m", "tab":
		m.screen = ScreenMatches
		m.matchList.loading = true
		return m.refreshMatchesCmd()
	case "e":
		m.openProfileEdit()
		return nil
	case "ctrl+l":
		return m.logoutCmd()
	case "q":
		m.quitting = true
		if m.realtime != nil {
			m.realtime.Close()
		}
		return tea.Quit
	}
	return nil
}

// swipe submits a decision against the head card.
func (m *Model) swipe(action model.SwipeAction) tea.Cmd {
	head, ok := m.deck.Head()
	if !ok || m.deckView.deciding {
		return nil
	}
	m.deckView.deciding = true
	return m.decideCmd(head.ID, action)
}

// updateMatchKeys handles keys on the match list screen.
func (m *Model) updateMatchKeys(msg tea.KeyMsg) tea.Cmd {
	l := &m.matchList

	// A pending unmatch confirmation claims y/n.
	if l.confirmUnmatch != "" {
		switch msg.String() {
		case "y", "Y":
			id := l.confirmUnmatch
			l.confirmUnmatch = ""
			return m.unmatchCmd(id)
		default:
			l.confirmUnmatch = ""
			return nil
		}
	}

	switch msg.String() {
	case "up", "k":
		l.clampCursor(m.matches.Len())
		if l.cursor > 0 {
			l.cursor--
		}
	case "down", "j":
		if l.cursor < m.matches.Len()-1 {
			l.cursor++
		}
	case "enter":
		if match, ok := m.selectedMatch(); ok {
			return m.openConvo(match.ID)
		}
	case "u":
		if match, ok := m.selectedMatch(); ok {
			l.confirmUnmatch = match.ID
		}
	case "R":
		l.loading = true
		return m.refreshMatchesCmd()
	case "esc", "tab", "d":
		m.screen = ScreenDeck
	case "ctrl+l":
		return m.logoutCmd()
	case "q":
		m.quitting = true
		if m.realtime != nil {
			m.realtime.Close()
		}
		return tea.Quit
	}
	return nil
}
