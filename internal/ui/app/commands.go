// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kindlingapp/kindling-tui/internal/model"
	"github.com/kindlingapp/kindling-tui/internal/session"
)

// =============================================================================
// ASYNC COMMANDS
//
// Every network operation runs in a tea.Cmd goroutine and reports back
// with one of the messages in msgs.go. Controllers are safe to call from
// these goroutines; the update loop stays single threaded.
// =============================================================================

// reqCtx builds a request context from a timeout captured when the command
// was created. Command goroutines must not read m.cfg: the update loop
// overwrites it in place when the config file changes on disk.
func reqCtx(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func (m *Model) loginCmd(in session.LoginInput) tea.Cmd {
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := reqCtx(timeout)
		defer cancel()
		return authDoneMsg{err: m.session.Login(ctx, in)}
	}
}

func (m *Model) registerCmd(in session.RegisterInput) tea.Cmd {
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := reqCtx(timeout)
		defer cancel()
		return authDoneMsg{err: m.session.Register(ctx, in)}
	}
}

func (m *Model) setupCmd(in session.SetupInput, photoPath string) tea.Cmd {
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := reqCtx(timeout)
		defer cancel()
		if photoPath != "" {
			url, err := m.session.UploadPhoto(ctx, photoPath)
			if err != nil {
				return setupDoneMsg{err: err}
			}
			in.PhotoURL = url
		}
		return setupDoneMsg{err: m.session.SetupProfile(ctx, in)}
	}
}

func (m *Model) updateProfileCmd(in session.UpdateInput, photoPath string) tea.Cmd {
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := reqCtx(timeout)
		defer cancel()
		if photoPath != "" {
			url, err := m.session.UploadPhoto(ctx, photoPath)
			if err != nil {
				return profileSavedMsg{err: err}
			}
			in.PhotoURL = &url
		}
		return profileSavedMsg{err: m.session.UpdateProfile(ctx, in)}
	}
}

func (m *Model) logoutCmd() tea.Cmd {
	return func() tea.Msg {
		m.session.Logout()
		return logoutDoneMsg{}
	}
}

func (m *Model) connectRealtimeCmd() tea.Cmd {
	rt := m.realtime
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := reqCtx(timeout)
		defer cancel()
		return realtimeConnectedMsg{err: rt.Connect(ctx)}
	}
}

func (m *Model) loadCardsCmd() tea.Cmd {
	deck := m.deck
	limit := m.cfg.Discovery.BatchSize
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := reqCtx(timeout)
		defer cancel()
		return cardsLoadedMsg{err: deck.LoadCandidates(ctx, limit)}
	}
}

func (m *Model) decideCmd(candidateID string, action model.SwipeAction) tea.Cmd {
	deck := m.deck
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := reqCtx(timeout)
		defer cancel()
		res, err := deck.Decide(ctx, candidateID, action)
		return decideDoneMsg{result: res, err: err}
	}
}

func (m *Model) refreshMatchesCmd() tea.Cmd {
	list := m.matches
	conv := m.chat
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := reqCtx(timeout)
		defer cancel()
		err := list.Refresh(ctx)
		if err == nil && conv != nil {
			for _, match := range list.Matches() {
				conv.Track(match)
			}
		}
		return matchesLoadedMsg{err: err}
	}
}

func (m *Model) unmatchCmd(matchID string) tea.Cmd {
	list := m.matches
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := reqCtx(timeout)
		defer cancel()
		return unmatchDoneMsg{matchID: matchID, err: list.Unmatch(ctx, matchID)}
	}
}

func (m *Model) openConvoCmd(matchID string) tea.Cmd {
	conv := m.chat
	timeout := m.cfg.RequestTimeout()
	return func() tea.Msg {
		ctx, cancel := reqCtx(timeout)
		defer cancel()
		_, err := conv.Open(ctx, matchID)
		return convoOpenedMsg{matchID: matchID, err: err}
	}
}

func (m *Model) sendCmd(content string) tea.Cmd {
	conv := m.chat
	return func() tea.Msg {
		return messageSentMsg{err: conv.Send(content)}
	}
}
