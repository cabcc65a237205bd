// Copyright (c) 2025 Kindling Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kindlingapp/kindling-tui/internal/config"
	"github.com/kindlingapp/kindling-tui/internal/model"
	"github.com/kindlingapp/kindling-tui/internal/session"
	"github.com/kindlingapp/kindling-tui/internal/ui/styles"
)

// =============================================================================
// PROFILE SETUP SCREEN
// =============================================================================

// Field order in the setup form.
const (
	setupFieldAge = iota
	setupFieldBio
	setupFieldInterests
	setupFieldMinAge
	setupFieldMaxAge
	setupFieldPhoto
	setupFieldCount
)

var genderOptions = []model.Gender{model.GenderMale, model.GenderFemale, model.GenderNonBinary}

// interestedOptions maps the "show me" selector to preference lists. The
// last entry means everyone.
var interestedOptions = [][]model.Gender{
	{model.GenderMale},
	{model.GenderFemale},
	{model.GenderNonBinary},
	{model.GenderMale, model.GenderFemale, model.GenderNonBinary},
}

var interestedLabels = []string{"men", "women", "non-binary people", "everyone"}

// setupModel is the profile form, used both for first-run setup and for
// editing an existing profile.
type setupModel struct {
	theme *styles.Theme
	cfg   *config.Config

	inputs     []textinput.Model
	focus      int // 0..setupFieldCount+1: text fields, then gender, then show-me
	gender     int
	interested int
	editing    bool // true when reached from the deck's edit binding
	busy       bool
	formErr    string
}

func newSetupModel(theme *styles.Theme, cfg *config.Config) setupModel {
	inputs := make([]textinput.Model, setupFieldCount)

	age := textinput.New()
	age.Placeholder = "age"
	age.CharLimit = 3
	age.Focus()
	inputs[setupFieldAge] = age

	bio := textinput.New()
	bio.Placeholder = "a short bio (markdown ok)"
	bio.CharLimit = session.MaxBioLen
	inputs[setupFieldBio] = bio

	interests := textinput.New()
	interests.Placeholder = "interests, comma separated"
	interests.CharLimit = 200
	inputs[setupFieldInterests] = interests

	minAge := textinput.New()
	minAge.Placeholder = "min age"
	minAge.CharLimit = 3
	inputs[setupFieldMinAge] = minAge

	maxAge := textinput.New()
	maxAge.Placeholder = "max age"
	maxAge.CharLimit = 3
	inputs[setupFieldMaxAge] = maxAge

	photo := textinput.New()
	photo.Placeholder = "path to a profile photo (optional)"
	photo.CharLimit = 256
	inputs[setupFieldPhoto] = photo

	return setupModel{
		theme:      theme,
		cfg:        cfg,
		inputs:     inputs,
		interested: len(interestedOptions) - 1,
	}
}

// selector rows come after the text fields.
const (
	setupRowGender = setupFieldCount
	setupRowShowMe = setupFieldCount + 1
	setupRowCount  = setupFieldCount + 2
)

func (s *setupModel) setFocus(idx int) {
	s.focus = ((idx % setupRowCount) + setupRowCount) % setupRowCount
	for i := range s.inputs {
		s.inputs[i].Blur()
	}
	if s.focus < setupFieldCount {
		s.inputs[s.focus].Focus()
	}
}

// cycle moves a selector row left or right.
func (s *setupModel) cycle(delta int) {
	switch s.focus {
	case setupRowGender:
		s.gender = ((s.gender+delta)%len(genderOptions) + len(genderOptions)) % len(genderOptions)
	case setupRowShowMe:
		n := len(interestedOptions)
		s.interested = ((s.interested+delta)%n + n) % n
	}
}

// prefill loads an existing profile into the form for editing.
func (s *setupModel) prefill(u *model.User) {
	s.editing = true
	s.busy = false
	s.formErr = ""

	s.inputs[setupFieldAge].SetValue(strconv.Itoa(u.Age))
	s.inputs[setupFieldBio].SetValue(u.Bio)
	s.inputs[setupFieldInterests].SetValue(strings.Join(u.Interests, ", "))
	s.inputs[setupFieldPhoto].SetValue("")

	for i, g := range genderOptions {
		if g == u.Gender {
			s.gender = i
		}
	}

	if u.Preferences != nil {
		s.inputs[setupFieldMinAge].SetValue(strconv.Itoa(u.Preferences.AgeRange.Min))
		s.inputs[setupFieldMaxAge].SetValue(strconv.Itoa(u.Preferences.AgeRange.Max))
		s.interested = interestedIndex(u.Preferences.InterestedInGender)
	}

	s.setFocus(0)
}

// interestedIndex maps a preference list back onto the show-me selector,
// defaulting to everyone.
func interestedIndex(prefs []model.Gender) int {
	for i, opt := range interestedOptions {
		if len(opt) != len(prefs) {
			continue
		}
		match := true
		for j := range opt {
			if opt[j] != prefs[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return len(interestedOptions) - 1
}

// openProfileEdit switches to the form prefilled from the signed-in user.
func (m *Model) openProfileEdit() {
	user := m.session.User()
	if user == nil {
		return
	}
	m.setup.prefill(user)
	m.screen = ScreenSetup
}

// submitSetup validates the form and returns the save command: first-time
// setup posts the whole profile, editing sends a partial update.
func (m *Model) submitSetup() tea.Cmd {
	s := &m.setup

	age, err := strconv.Atoi(strings.TrimSpace(s.inputs[setupFieldAge].Value()))
	if err != nil {
		s.formErr = "age must be a number"
		return nil
	}
	minAge, err := strconv.Atoi(strings.TrimSpace(s.inputs[setupFieldMinAge].Value()))
	if err != nil {
		s.formErr = "min age must be a number"
		return nil
	}
	maxAge, err := strconv.Atoi(strings.TrimSpace(s.inputs[setupFieldMaxAge].Value()))
	if err != nil {
		s.formErr = "max age must be a number"
		return nil
	}

	var interests []string
	for _, part := range strings.Split(s.inputs[setupFieldInterests].Value(), ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			interests = append(interests, trimmed)
		}
	}

	bio := strings.TrimSpace(s.inputs[setupFieldBio].Value())
	photoPath := strings.TrimSpace(s.inputs[setupFieldPhoto].Value())

	if s.editing {
		in := session.UpdateInput{
			Age:                &age,
			Gender:             genderOptions[s.gender],
			Bio:                &bio,
			Interests:          interests,
			MinAge:             &minAge,
			MaxAge:             &maxAge,
			InterestedInGender: interestedOptions[s.interested],
		}
		if err := in.Validate(); err != nil {
			s.formErr = err.Error()
			return nil
		}
		s.busy = true
		s.formErr = ""
		return m.updateProfileCmd(in, photoPath)
	}

	in := session.SetupInput{
		Age:                age,
		Gender:             genderOptions[s.gender],
		Bio:                bio,
		Interests:          interests,
		Latitude:           s.cfg.Profile.DefaultLatitude,
		Longitude:          s.cfg.Profile.DefaultLongitude,
		MinAge:             minAge,
		MaxAge:             maxAge,
		InterestedInGender: interestedOptions[s.interested],
	}
	if err := in.Validate(); err != nil {
		s.formErr = err.Error()
		return nil
	}
	s.busy = true
	s.formErr = ""
	return m.setupCmd(in, photoPath)
}

// updateSetup handles keys while the setup screen is active.
func (m *Model) updateSetup(msg tea.Msg) tea.Cmd {
	s := &m.setup

	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s.updateInputs(msg)
	}
	if s.busy {
		return nil
	}

	switch keyMsg.String() {
	case "esc":
		if s.editing {
			s.editing = false
			m.screen = ScreenDeck
		}
		return nil
	case "tab", "down":
		s.setFocus(s.focus + 1)
		return nil
	case "shift+tab", "up":
		s.setFocus(s.focus - 1)
		return nil
	case "left":
		s.cycle(-1)
		return nil
	case "right":
		s.cycle(1)
		return nil
	case "enter":
		return m.submitSetup()
	}
	return s.updateInputs(msg)
}

func (s *setupModel) updateInputs(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(s.inputs))
	for i := range s.inputs {
		var cmd tea.Cmd
		s.inputs[i], cmd = s.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// viewSetup renders the profile form.
func (m *Model) viewSetup() string {
	s := &m.setup
	t := s.theme

	title := "Set up your profile"
	hint := "tab next field - left/right change - enter save"
	if s.editing {
		title = "Edit your profile"
		hint = "tab next field - left/right change - enter save - esc cancel"
	}

	var b strings.Builder
	b.WriteString(t.FormTitle.Render(title))
	b.WriteString("\n\n")

	labels := []string{"Age", "Bio", "Interests", "Min age", "Max age", "Photo"}
	for i := 0; i < setupFieldCount; i++ {
		label := t.InputLabel
		if s.focus == i {
			label = t.InputLabelFocus
		}
		b.WriteString(label.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(s.inputs[i].View())
		b.WriteString("\n")
	}

	genderLabel := t.InputLabel
	if s.focus == setupRowGender {
		genderLabel = t.InputLabelFocus
	}
	b.WriteString(genderLabel.Render("I am"))
	b.WriteString("\n  < " + string(genderOptions[s.gender]) + " >\n")

	showLabel := t.InputLabel
	if s.focus == setupRowShowMe {
		showLabel = t.InputLabelFocus
	}
	b.WriteString(showLabel.Render("Show me"))
	b.WriteString("\n  < " + interestedLabels[s.interested] + " >\n")

	if s.formErr != "" {
		b.WriteString("\n")
		b.WriteString(t.FormError.Render(s.formErr))
	}
	if s.busy {
		b.WriteString("\n")
		b.WriteString(t.LoadingText.Render("saving profile..."))
	}
	b.WriteString("\n\n")
	b.WriteString(t.HeaderSubtitle.Render(hint))

	box := t.Card.Width(56)
	return lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, box.Render(b.String()))
}
