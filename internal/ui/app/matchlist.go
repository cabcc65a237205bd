// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/kindlingapp/kindling-tui/internal/model"
	"github.com/kindlingapp/kindling-tui/internal/ui/components"
	"github.com/kindlingapp/kindling-tui/internal/ui/styles"
)

// =============================================================================
// MATCH LIST SCREEN
// =============================================================================

// matchListModel is the match list screen.
type matchListModel struct {
	theme *styles.Theme

	cursor  int
	loading bool

	// confirmUnmatch holds the match ID awaiting a y/n confirmation.
	confirmUnmatch string
}

func newMatchListModel(theme *styles.Theme) matchListModel {
	return matchListModel{theme: theme}
}

// clampCursor keeps the cursor inside the list after removals.
func (l *matchListModel) clampCursor(n int) {
	if l.cursor >= n {
		l.cursor = n - 1
	}
	if l.cursor < 0 {
		l.cursor = 0
	}
}

// selected returns the match under the cursor.
func (m *Model) selectedMatch() (model.Match, bool) {
	list := m.matches.Matches()
	if len(list) == 0 || m.matchList.cursor >= len(list) {
		return model.Match{}, false
	}
	return list[m.matchList.cursor], true
}

// viewMatches renders the match list.
func (m *Model) viewMatches() string {
	l := &m.matchList
	t := l.theme

	list := m.matches.Matches()
	l.clampCursor(len(list))

	if len(list) == 0 {
		empty := "No matches yet. Keep swiping!"
		if l.loading {
			empty = "loading matches..."
		}
		return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center,
			t.ListEmpty.Render(empty))
	}

	now := time.Now()
	rowWidth := m.width - 4
	if rowWidth < 30 {
		rowWidth = 30
	}

	var b strings.Builder
	for i, match := range list {
		row := m.renderMatchRow(match, rowWidth, now)
		if i == l.cursor {
			b.WriteString(t.ListItemSelected.Render(row))
		} else {
			b.WriteString(t.ListItem.Render(row))
		}
		b.WriteString("\n")
	}

	if l.confirmUnmatch != "" {
		if match, ok := m.matches.Get(l.confirmUnmatch); ok {
			b.WriteString("\n")
			b.WriteString(t.FormError.Render("Unmatch " + match.User.Name + "? (y/n)"))
		}
	}

	return b.String()
}

// renderMatchRow renders one list row: name, unread badge, last message
// preview, timestamp.
func (m *Model) renderMatchRow(match model.Match, width int, now time.Time) string {
	t := m.matchList.theme

	name := t.ListName.Render(components.Truncate(match.User.Name, 20))

	badge := ""
	if unread := m.chat.Unread(match.ID); unread > 0 {
		badge = " " + t.ListUnread.Render("("+strconv.Itoa(unread)+")")
	}

	preview := "say hi!"
	stamp := ""
	if convo, ok := m.chat.Conversation(match.ID); ok {
		if last, ok := convo.LastMessage(); ok {
			preview = last.Content
			stamp = components.FormatRelativeTime(last.Timestamp.Local(), now)
		}
	}

	head := name + badge
	tail := t.BubbleTime.Render(stamp)
	room := width - lipgloss.Width(head) - lipgloss.Width(tail) - 4
	if room < 8 {
		room = 8
	}
	return head + "  " + t.ListPreview.Render(components.Truncate(preview, room)) + "  " + tail
}
