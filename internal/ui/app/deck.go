// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/kindlingapp/kindling-tui/internal/config"
	"github.com/kindlingapp/kindling-tui/internal/discover"
	"github.com/kindlingapp/kindling-tui/internal/model"
	"github.com/kindlingapp/kindling-tui/internal/ui/components"
	"github.com/kindlingapp/kindling-tui/internal/ui/styles"
)

// =============================================================================
// DECK SCREEN
// =============================================================================

// cardWidth is the inner width of a rendered profile card.
const cardWidth = 56

// deckModel is the swipe screen.
type deckModel struct {
	theme *styles.Theme
	cfg   *config.Config

	spinner  components.Spinner
	loading  bool
	deciding bool

	// bio markdown renderer, built lazily since it depends on the
	// terminal profile
	md *glamour.TermRenderer

	// cached render of the current head card's bio
	bioFor string
	bio    string
}

func newDeckModel(theme *styles.Theme, cfg *config.Config) deckModel {
	return deckModel{
		theme:   theme,
		cfg:     cfg,
		spinner: components.NewSpinner(theme, "finding people nearby..."),
	}
}

// renderBio renders a candidate's bio, through glamour when markdown
// rendering is enabled. Falls back to the raw text on renderer errors.
func (d *deckModel) renderBio(c model.Candidate) string {
	if d.bioFor == c.ID {
		return d.bio
	}
	text := strings.TrimSpace(c.Bio)
	if d.cfg.UI.RenderMarkdownBios && text != "" {
		if d.md == nil {
			d.md, _ = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(cardWidth-4),
			)
		}
		if d.md != nil {
			if out, err := d.md.Render(text); err == nil {
				text = strings.TrimRight(out, "\n")
			}
		}
	}
	d.bioFor = c.ID
	d.bio = text
	return text
}

// viewDeck renders the swipe screen for the current deck state.
func (m *Model) viewDeck() string {
	d := &m.deckView
	t := d.theme

	if m.popup != nil {
		return m.viewMatchPopup()
	}

	var body string
	switch m.deck.State() {
	case discover.StateEmpty:
		if d.loading {
			body = d.spinner.View(t)
		} else {
			body = t.ListEmpty.Render("No cards yet. Press r to look for people.")
		}
	case discover.StateExhausted:
		body = t.ListEmpty.Render("You've seen everyone nearby.\nPress r to check again later.")
	default:
		head, ok := m.deck.Head()
		if !ok {
			body = d.spinner.View(t)
			break
		}
		body = m.viewCard(head)
	}

	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, body)
}

// viewCard renders one candidate profile card.
func (m *Model) viewCard(c model.Candidate) string {
	d := &m.deckView
	t := d.theme

	var b strings.Builder
	b.WriteString(t.CardName.Render(components.FormatAge(c.Name, c.Age)))
	if c.Gender != "" {
		b.WriteString(t.CardMeta.Render("  " + string(c.Gender)))
	}
	b.WriteString("\n")
	if dist := components.FormatDistance(c.DistanceKm); dist != "" {
		b.WriteString(t.CardDistance.Render(dist))
		b.WriteString("\n")
	}

	if bio := d.renderBio(c); bio != "" {
		b.WriteString("\n")
		b.WriteString(t.CardBio.Render(bio))
		b.WriteString("\n")
	}

	if len(c.Interests) > 0 {
		b.WriteString("\n")
		b.WriteString(t.CardInterests.Render(strings.Join(c.Interests, " - ")))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	counter := strconv.Itoa(m.deck.Size()) + " in deck"
	if d.deciding {
		counter = "sending..."
	}
	b.WriteString(t.DeckCounter.Render(counter))

	card := t.Card.Width(cardWidth).Render(b.String())

	hints := t.ShortcutKey.Render("<-/p") + t.ShortcutDesc.Render(" pass  ") +
		t.ShortcutKey.Render("->/l") + t.ShortcutDesc.Render(" like")
	return lipgloss.JoinVertical(lipgloss.Center, card, "", hints)
}

// viewMatchPopup renders the mutual-match celebration overlay.
func (m *Model) viewMatchPopup() string {
	t := m.theme
	partner := m.popup

	var b strings.Builder
	b.WriteString(t.MatchHeading.Render(styles.StatusIndicators.Match + " It's a match! " + styles.StatusIndicators.Match))
	b.WriteString("\n\n")
	b.WriteString("You and " + t.MatchName.Render(partner.Name) + " like each other.")
	b.WriteString("\n\n")
	b.WriteString(t.MatchHint.Render("m open matches - any other key keep swiping"))

	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center,
		t.MatchPopup.Render(b.String()))
}
