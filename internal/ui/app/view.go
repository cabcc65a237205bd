// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kindlingapp/kindling-tui/internal/ui/components"
)

// View renders the full frame: header, active screen, toasts, status bar.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 {
		return "starting kindling..."
	}
	if m.booting {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center,
			m.theme.LoadingText.Render("restoring your session..."))
	}

	var body string
	switch m.screen {
	case ScreenAuth:
		body = m.viewAuth()
	case ScreenSetup:
		body = m.viewSetup()
	case ScreenDeck:
		body = m.viewDeck()
	case ScreenMatches:
		body = m.viewMatches()
	case ScreenConvo:
		body = m.viewConvo()
	}

	frame := lipgloss.JoinVertical(lipgloss.Left,
		m.viewHeader(),
		body,
	)

	if m.toasts.HasToasts() {
		overlay := components.RenderToasts(m.toasts.Toasts(), m.width)
		frame = lipgloss.JoinVertical(lipgloss.Right, frame, overlay)
	}

	return lipgloss.JoinVertical(lipgloss.Left, frame, m.viewStatusBar())
}

// viewHeader renders the brand plus screen tabs for signed-in users.
func (m *Model) viewHeader() string {
	t := m.theme
	brand := t.HeaderTitle.Render("kindling")

	if !m.session.IsAuthenticated() || m.screen == ScreenAuth || m.screen == ScreenSetup {
		return " " + brand
	}

	deckTab := t.TabInactive.Render("discover")
	matchTab := t.TabInactive.Render("matches")
	switch m.screen {
	case ScreenDeck:
		deckTab = t.TabActive.Render("discover")
	case ScreenMatches, ScreenConvo:
		matchTab = t.TabActive.Render("matches")
	}

	return " " + brand + "  " + deckTab + " " + matchTab
}

// viewStatusBar renders the bottom bar with per-screen shortcuts.
func (m *Model) viewStatusBar() string {
	state := components.StatusBarState{
		Connected: m.connected,
	}
	if user := m.session.User(); user != nil {
		state.UserName = user.DisplayName()
	}
	if m.chat != nil {
		state.TotalUnread = m.chat.TotalUnread()
	}

	switch m.screen {
	case ScreenAuth:
		state.Shortcuts = []components.Shortcut{
			{Key: "enter", Desc: "submit"},
			{Key: "ctrl+r", Desc: "switch mode"},
			{Key: "ctrl+c", Desc: "quit"},
		}
	case ScreenSetup:
		state.Shortcuts = []components.Shortcut{
			{Key: "tab", Desc: "next"},
			{Key: "enter", Desc: "save"},
		}
	case ScreenDeck:
		state.Shortcuts = []components.Shortcut{
			{Key: "->", Desc: "like"},
			{Key: "<-", Desc: "pass"},
			{Key: "m", Desc: "matches"},
			{Key: "e", Desc: "edit profile"},
			{Key: "q", Desc: "quit"},
		}
	case ScreenMatches:
		state.Shortcuts = []components.Shortcut{
			{Key: "enter", Desc: "chat"},
			{Key: "u", Desc: "unmatch"},
			{Key: "R", Desc: "refresh"},
			{Key: "tab", Desc: "deck"},
		}
	case ScreenConvo:
		state.Shortcuts = convoShortcuts()
	}

	bar := components.RenderStatusBar(m.theme, state, m.width)
	return strings.TrimRight(bar, "\n")
}
