// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kindlingapp/kindling-tui/internal/ui/styles"
)

// Shortcut is one key hint rendered in the status bar.
type Shortcut struct {
	Key  string
	Desc string
}

// StatusBarState is everything the status bar renders.
type StatusBarState struct {
	UserName    string
	Connected   bool
	TotalUnread int
	Shortcuts   []Shortcut
}

// RenderStatusBar renders the bottom status bar at the given width.
func RenderStatusBar(theme *styles.Theme, state StatusBarState, width int) string {
	var left strings.Builder
	if state.UserName != "" {
		left.WriteString(state.UserName)
		left.WriteString("  ")
	}
	if state.Connected {
		left.WriteString(theme.StatusConnected.Render("online"))
	} else {
		left.WriteString(theme.StatusOffline.Render("offline"))
	}
	if state.TotalUnread > 0 {
		left.WriteString("  ")
		left.WriteString(theme.ListUnread.Render(styles.StatusIndicators.Unread + " " + toStr(state.TotalUnread)))
	}

	hints := make([]string, 0, len(state.Shortcuts))
	for _, s := range state.Shortcuts {
		hints = append(hints, theme.ShortcutKey.Render(s.Key)+" "+theme.ShortcutDesc.Render(s.Desc))
	}
	right := strings.Join(hints, "  ")

	leftStr := left.String()
	gap := width - lipgloss.Width(leftStr) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return theme.StatusBar.Width(width).Render(leftStr + strings.Repeat(" ", gap) + right)
}

// toStr converts an integer to a string without using fmt.
func toStr(n int) string {
	if n == 0 {
		return "0"
	}
	negative := n < 0
	if negative {
		n = -n
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}
