// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"testing"
	"time"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		width int
		want  string
	}{
		{"fits", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"cut", "hello world", 8, "hello..."},
		{"zero width", "hello", 0, ""},
		{"tiny width", "hello", 2, "he"},
		{"empty", "", 5, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Truncate(tt.in, tt.width); got != tt.want {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
			}
		})
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight = %q", got)
	}
	if got := PadRight("abcdefgh", 5); len([]rune(got)) != 5 {
		t.Errorf("PadRight should truncate, got %q", got)
	}
}

func TestFormatRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 18, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"zero", time.Time{}, ""},
		{"today", time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC), "09:30"},
		{"this week", time.Date(2025, 6, 12, 9, 30, 0, 0, time.UTC), "Thu"},
		{"this year", time.Date(2025, 2, 1, 9, 30, 0, 0, time.UTC), "Feb 1"},
		{"older", time.Date(2024, 2, 1, 9, 30, 0, 0, time.UTC), "2024-02-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatRelativeTime(tt.t, now); got != tt.want {
				t.Errorf("FormatRelativeTime = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatDistance(t *testing.T) {
	if got := FormatDistance(0); got != "" {
		t.Errorf("FormatDistance(0) = %q", got)
	}
	if got := FormatDistance(0.4); got != "less than 1 km away" {
		t.Errorf("FormatDistance(0.4) = %q", got)
	}
	if got := FormatDistance(12.6); got != "13 km away" {
		t.Errorf("FormatDistance(12.6) = %q", got)
	}
}

func TestFormatAge(t *testing.T) {
	if got := FormatAge("Sam", 29); got != "Sam, 29" {
		t.Errorf("FormatAge = %q", got)
	}
	if got := FormatAge("Sam", 0); got != "Sam" {
		t.Errorf("FormatAge without age = %q", got)
	}
}
