// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the kindling TUI.
package components

import (
	"strconv"
	"time"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// Truncate shortens s to fit width terminal cells, appending an ellipsis
// when it had to cut. Width is measured in display cells, so wide runes
// count as two.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}

// PadRight pads s with spaces to exactly width cells, truncating if it is
// already longer.
func PadRight(s string, width int) string {
	return runewidth.FillRight(Truncate(s, width), width)
}

// FormatRelativeTime renders a timestamp the way chat lists do: clock time
// today, weekday within a week, date otherwise. Both times must share a
// location.
func FormatRelativeTime(t time.Time, now time.Time) string {
	if t.IsZero() {
		return ""
	}

	sameDay := t.Year() == now.Year() && t.YearDay() == now.YearDay()
	if sameDay {
		return t.Format("15:04")
	}
	if now.Sub(t) < 7*24*time.Hour {
		return t.Format("Mon")
	}
	if t.Year() == now.Year() {
		return t.Format("Jan 2")
	}
	return t.Format("2006-01-02")
}

// FormatDistance renders a distance in kilometers for profile cards.
func FormatDistance(km float64) string {
	if km <= 0 {
		return ""
	}
	if km < 1 {
		return "less than 1 km away"
	}
	return strconv.FormatFloat(km, 'f', 0, 64) + " km away"
}

// FormatAge renders "name, age" the way profile cards caption themselves.
func FormatAge(name string, age int) string {
	if age <= 0 {
		return name
	}
	return name + ", " + strconv.Itoa(age)
}
