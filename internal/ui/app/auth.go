// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kindlingapp/kindling-tui/internal/session"
	"github.com/kindlingapp/kindling-tui/internal/ui/styles"
)

// =============================================================================
// AUTH SCREEN
// =============================================================================

// authMode selects between the sign-in and sign-up forms.
type authMode int

const (
	modeLogin authMode = iota
	modeRegister
)

// Field order in the register form.
const (
	authFieldEmail = iota
	authFieldName
	authFieldPassword
	authFieldConfirm
	authFieldCount
)

// authModel is the sign-in / sign-up screen.
type authModel struct {
	theme *styles.Theme

	mode    authMode
	inputs  []textinput.Model
	focus   int
	busy    bool
	formErr string
}

func newAuthModel(theme *styles.Theme) authModel {
	inputs := make([]textinput.Model, authFieldCount)

	email := textinput.New()
	email.Placeholder = "email"
	email.CharLimit = 120
	email.Focus()
	inputs[authFieldEmail] = email

	name := textinput.New()
	name.Placeholder = "name"
	name.CharLimit = 60
	inputs[authFieldName] = name

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '*'
	password.CharLimit = 120
	inputs[authFieldPassword] = password

	confirm := textinput.New()
	confirm.Placeholder = "confirm password"
	confirm.EchoMode = textinput.EchoPassword
	confirm.EchoCharacter = '*'
	confirm.CharLimit = 120
	inputs[authFieldConfirm] = confirm

	return authModel{theme: theme, inputs: inputs}
}

// fields returns the visible field indexes for the current mode.
func (a *authModel) fields() []int {
	if a.mode == modeRegister {
		return []int{authFieldEmail, authFieldName, authFieldPassword, authFieldConfirm}
	}
	return []int{authFieldEmail, authFieldPassword}
}

func (a *authModel) setFocus(idx int) {
	visible := a.fields()
	a.focus = ((idx % len(visible)) + len(visible)) % len(visible)
	for i := range a.inputs {
		a.inputs[i].Blur()
	}
	a.inputs[visible[a.focus]].Focus()
}

func (a *authModel) toggleMode() {
	if a.mode == modeLogin {
		a.mode = modeRegister
	} else {
		a.mode = modeLogin
	}
	a.formErr = ""
	a.setFocus(0)
}

// submit validates locally and returns the login/register command.
func (m *Model) submitAuth() tea.Cmd {
	a := &m.auth
	email := strings.TrimSpace(a.inputs[authFieldEmail].Value())
	password := a.inputs[authFieldPassword].Value()

	if a.mode == modeLogin {
		in := session.LoginInput{Email: email, Password: password}
		if err := in.Validate(); err != nil {
			a.formErr = err.Error()
			return nil
		}
		a.busy = true
		a.formErr = ""
		return m.loginCmd(in)
	}

	in := session.RegisterInput{
		Email:           email,
		Name:            strings.TrimSpace(a.inputs[authFieldName].Value()),
		Password:        password,
		ConfirmPassword: a.inputs[authFieldConfirm].Value(),
	}
	if err := in.Validate(); err != nil {
		a.formErr = err.Error()
		return nil
	}
	a.busy = true
	a.formErr = ""
	return m.registerCmd(in)
}

// updateAuth handles keys while the auth screen is active.
func (m *Model) updateAuth(msg tea.Msg) tea.Cmd {
	a := &m.auth

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a.updateInputs(msg)
	}
	if a.busy {
		return nil
	}

	switch keyMsg.String() {
	case "tab", "down":
		a.setFocus(a.focus + 1)
		return nil
	case "shift+tab", "up":
		a.setFocus(a.focus - 1)
		return nil
	case "ctrl+r":
		a.toggleMode()
		return nil
	case "enter":
		return m.submitAuth()
	}
	return a.updateInputs(msg)
}

func (a *authModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.inputs))
	for i := range a.inputs {
		var cmd tea.Cmd
		a.inputs[i], cmd = a.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// viewAuth renders the sign-in / sign-up form.
func (m *Model) viewAuth() string {
	a := &m.auth
	t := a.theme

	title := "Sign in to Kindling"
	hint := "enter sign in - ctrl+r create account - ctrl+c quit"
	if a.mode == modeRegister {
		title = "Create your Kindling account"
		hint = "enter create account - ctrl+r back to sign in - ctrl+c quit"
	}

	var b strings.Builder
	b.WriteString(t.FormTitle.Render(title))
	b.WriteString("\n\n")

	labels := map[int]string{
		authFieldEmail:    "Email",
		authFieldName:     "Name",
		authFieldPassword: "Password",
		authFieldConfirm:  "Confirm",
	}
	visible := a.fields()
	for i, idx := range visible {
		label := t.InputLabel
		if i == a.focus {
			label = t.InputLabelFocus
		}
		b.WriteString(label.Render(labels[idx]))
		b.WriteString("\n")
		b.WriteString(a.inputs[idx].View())
		b.WriteString("\n")
	}

	if a.formErr != "" {
		b.WriteString("\n")
		b.WriteString(t.FormError.Render(a.formErr))
	}
	if a.busy {
		b.WriteString("\n")
		b.WriteString(t.LoadingText.Render("talking to the server..."))
	}
	b.WriteString("\n\n")
	b.WriteString(t.HeaderSubtitle.Render(hint))

	box := t.Card.Width(48)
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, box.Render(b.String()))
}
