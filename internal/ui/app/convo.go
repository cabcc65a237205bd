// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kindlingapp/kindling-tui/internal/ui/components"
	"github.com/kindlingapp/kindling-tui/internal/ui/styles"
)

// =============================================================================
// CONVERSATION SCREEN
// =============================================================================

// convoModel is the one-on-one chat screen.
type convoModel struct {
	theme *styles.Theme

	matchID string
	opening bool

	viewport viewport.Model
	input    textinput.Model
	ready    bool
}

func newConvoModel(theme *styles.Theme) convoModel {
	input := textinput.New()
	input.Placeholder = "type a message"
	input.CharLimit = 1000

	return convoModel{theme: theme, input: input}
}

// openConvo switches to the conversation screen and kicks off the open.
func (m *Model) openConvo(matchID string) tea.Cmd {
	c := &m.convo
	c.matchID = matchID
	c.opening = true
	c.input.Reset()
	c.input.Focus()
	m.screen = ScreenConvo
	return m.openConvoCmd(matchID)
}

// closeConvo leaves the conversation screen back to the match list.
func (m *Model) closeConvo() {
	m.chat.Close()
	m.convo.matchID = ""
	m.convo.input.Blur()
	m.screen = ScreenMatches
}

// layoutConvo sizes the viewport for the current terminal.
func (m *Model) layoutConvo() {
	c := &m.convo
	height := m.height - 6 // header, input box, status bar
	if height < 3 {
		height = 3
	}
	width := m.width - 2
	if width < 20 {
		width = 20
	}
	if !c.ready {
		c.viewport = viewport.New(width, height)
		c.ready = true
	} else {
		c.viewport.Width = width
		c.viewport.Height = height
	}
}

// refreshConvo re-renders the transcript into the viewport and follows
// the tail.
func (m *Model) refreshConvo() {
	c := &m.convo
	if c.matchID == "" {
		return
	}
	if !c.ready {
		m.layoutConvo()
	}
	c.viewport.SetContent(m.renderTranscript())
	c.viewport.GotoBottom()
}

// renderTranscript renders the conversation as aligned bubbles.
func (m *Model) renderTranscript() string {
	c := &m.convo
	t := c.theme

	msgs := m.chat.Messages(c.matchID)
	if len(msgs) == 0 {
		if c.opening {
			return t.ListEmpty.Render("loading conversation...")
		}
		return t.ListEmpty.Render("No messages yet. Break the ice!")
	}

	selfID := ""
	if user := m.session.User(); user != nil {
		selfID = user.ID
	}

	width := c.viewport.Width
	bubbleMax := width * 3 / 4
	if bubbleMax < 16 {
		bubbleMax = 16
	}

	var b strings.Builder
	for _, msg := range msgs {
		stamp := t.BubbleTime.Render(msg.Timestamp.Local().Format("15:04"))
		if msg.SenderID == selfID {
			bubble := t.SelfBubble.MaxWidth(bubbleMax).Render(msg.Content)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble+" "+stamp))
		} else {
			bubble := t.PartnerBubble.MaxWidth(bubbleMax).Render(msg.Content)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Left, stamp+" "+bubble))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// updateConvo handles keys while the conversation screen is active.
func (m *Model) updateConvo(msg tea.Msg) tea.Cmd {
	c := &m.convo

	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			m.closeConvo()
			return nil
		case "enter":
			content := strings.TrimSpace(c.input.Value())
			if content == "" {
				return nil
			}
			c.input.Reset()
			return m.sendCmd(content)
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			c.viewport, cmd = c.viewport.Update(msg)
			return cmd
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// viewConvo renders the conversation screen.
func (m *Model) viewConvo() string {
	c := &m.convo
	t := c.theme

	title := ""
	if convo, ok := m.chat.Conversation(c.matchID); ok {
		title = t.HeaderTitle.Render(convo.Partner.Name)
	}

	inputBox := t.InputContainer.Width(m.width - 2).Render(
		t.InputPrompt.Render("> ") + c.input.View())

	return lipgloss.JoinVertical(lipgloss.Left,
		" "+title,
		c.viewport.View(),
		inputBox,
	)
}

// convoShortcuts are the status bar hints for this screen.
func convoShortcuts() []components.Shortcut {
	return []components.Shortcut{
		{Key: "enter", Desc: "send"},
		{Key: "esc", Desc: "back"},
	}
}
