// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the kindling TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER STYLES
	// ==========================================================================

	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderSubtitle lipgloss.Style
	TabActive      lipgloss.Style
	TabInactive    lipgloss.Style

	// ==========================================================================
	// PROFILE CARD STYLES
	// ==========================================================================

	Card          lipgloss.Style
	CardName      lipgloss.Style
	CardMeta      lipgloss.Style
	CardBio       lipgloss.Style
	CardInterests lipgloss.Style
	CardDistance  lipgloss.Style
	DeckCounter   lipgloss.Style

	// ==========================================================================
	// MATCH CELEBRATION STYLES
	// ==========================================================================

	MatchPopup   lipgloss.Style
	MatchHeading lipgloss.Style
	MatchName    lipgloss.Style
	MatchHint    lipgloss.Style

	// ==========================================================================
	// LIST STYLES
	// ==========================================================================

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListName         lipgloss.Style
	ListPreview      lipgloss.Style
	ListUnread       lipgloss.Style
	ListEmpty        lipgloss.Style

	// ==========================================================================
	// CHAT BUBBLE STYLES
	// ==========================================================================

	SelfBubble    lipgloss.Style
	PartnerBubble lipgloss.Style
	BubbleTime    lipgloss.Style

	// ==========================================================================
	// FORM AND INPUT STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputLabel       lipgloss.Style
	InputLabelFocus  lipgloss.Style
	InputPlaceholder lipgloss.Style
	FormError        lipgloss.Style
	FormTitle        lipgloss.Style
	Button           lipgloss.Style
	ButtonActive     lipgloss.Style

	// ==========================================================================
	// STATUS BAR STYLES
	// ==========================================================================

	StatusBar       lipgloss.Style
	StatusConnected lipgloss.Style
	StatusOffline   lipgloss.Style
	ShortcutKey     lipgloss.Style
	ShortcutDesc    lipgloss.Style

	// ==========================================================================
	// FEEDBACK STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	LoadingText  lipgloss.Style
	ToastError   lipgloss.Style
	ToastInfo    lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
}

// NewTheme creates a new theme with all styles configured. mode is the
// configured theme preference: "dark", "light", or "auto".
func NewTheme(mode string) *Theme {
	colorProfile := termenv.ColorProfile()
	hasTrueColor := colorProfile == termenv.TrueColor

	var isDark bool
	switch mode {
	case "dark":
		isDark = true
	case "light":
		isDark = false
	default:
		isDark = termenv.HasDarkBackground()
	}
	lipgloss.SetHasDarkBackground(isDark)

	t := &Theme{
		IsDark:       isDark,
		HasTrueColor: hasTrueColor,
		ColorProfile: colorProfile,
	}

	t.initStyles()
	return t
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	// App container
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(Flame).
		Background(SurfaceDim).
		Padding(0, 2)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Flame)

	t.HeaderSubtitle = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Italic(true)

	t.TabActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextInverse).
		Background(Flame).
		Padding(0, 2)

	t.TabInactive = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Padding(0, 2)

	// Profile card
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Flame).
		Padding(1, 3)

	t.CardName = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.CardMeta = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.CardBio = lipgloss.NewStyle().
		Foreground(TextPrimary)

	t.CardInterests = lipgloss.NewStyle().
		Foreground(Violet)

	t.CardDistance = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.DeckCounter = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Match celebration popup
	t.MatchPopup = lipgloss.NewStyle().
		BorderStyle(lipgloss.DoubleBorder()).
		BorderForeground(Coral).
		Padding(1, 4).
		Align(lipgloss.Center)

	t.MatchHeading = lipgloss.NewStyle().
		Bold(true).
		Foreground(Coral)

	t.MatchName = lipgloss.NewStyle().
		Bold(true).
		Foreground(Flame)

	t.MatchHint = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	// Lists
	t.ListItem = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Padding(0, 1)

	t.ListItemSelected = lipgloss.NewStyle().
		Background(SelectionBg).
		Foreground(TextPrimary).
		Bold(true).
		Padding(0, 1)

	t.ListName = lipgloss.NewStyle().
		Bold(true).
		Foreground(TextPrimary)

	t.ListPreview = lipgloss.NewStyle().
		Foreground(TextMuted)

	t.ListUnread = lipgloss.NewStyle().
		Bold(true).
		Foreground(Flame)

	t.ListEmpty = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Padding(1, 2)

	// Chat bubbles
	t.SelfBubble = lipgloss.NewStyle().
		Foreground(SelfBubbleFg).
		Background(SelfBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(SelfBubbleBorder).
		Padding(0, 2).
		MarginLeft(4)

	t.PartnerBubble = lipgloss.NewStyle().
		Foreground(PartnerBubbleFg).
		Background(PartnerBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(PartnerBubbleBorder).
		Padding(0, 2).
		MarginRight(4)

	t.BubbleTime = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Forms and input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(Overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(Flame).
		Bold(true)

	t.InputLabel = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.InputLabelFocus = lipgloss.NewStyle().
		Foreground(FocusRing).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true)

	t.FormError = lipgloss.NewStyle().
		Foreground(Rose)

	t.FormTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(Flame).
		MarginBottom(1)

	t.Button = lipgloss.NewStyle().
		Foreground(TextSecondary).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 3)

	t.ButtonActive = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Flame).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Flame).
		Bold(true).
		Padding(0, 3)

	// Status bar
	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)

	t.StatusConnected = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.StatusOffline = lipgloss.NewStyle().
		Foreground(Amber).
		Bold(true)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(Teal).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(TextMuted)

	// Feedback
	t.Spinner = lipgloss.NewStyle().
		Foreground(Flame)

	t.LoadingText = lipgloss.NewStyle().
		Foreground(TextSecondary)

	t.ToastError = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Rose).
		Bold(true).
		Padding(0, 2)

	t.ToastInfo = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Padding(0, 2)

	t.SuccessStyle = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)

	t.ErrorStyle = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)
}

// SetSize updates the theme's layout dimensions on terminal resize.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}
