package tui

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/salus-health/salus/internal/config"
	"github.com/salus-health/salus/internal/profile"
	"github.com/salus-health/salus/internal/session"
)

// Form field order.
const (
	fieldAge = iota
	fieldGender
	fieldRegion
	fieldInsuranceToggle
	fieldProvider
	fieldPolicyNumber
	fieldCount
)

// profileFormModel collects the profile when the gate finds nothing stored.
type profileFormModel struct {
	age      textinput.Model
	policyNo textinput.Model

	genderIdx    int
	regionIdx    int
	hasInsurance bool
	providerIdx  int

	focus   int
	problem string
}

func newProfileFormModel(defaultRegion string) profileFormModel {
	age := textinput.New()
	age.Placeholder = "34"
	age.CharLimit = 3
	age.Width = 6
	age.Focus()

	policyNo := textinput.New()
	policyNo.Placeholder = "POL-123456"
	policyNo.CharLimit = 32
	policyNo.Width = 20

	f := profileFormModel{age: age, policyNo: policyNo}
	for i, region := range config.ValidRegions() {
		if region == defaultRegion {
			f.regionIdx = i
		}
	}
	return f
}

func (f profileFormModel) focusCmd() tea.Cmd {
	return textinput.Blink
}

// fieldActive reports whether the field participates in navigation given the
// insurance toggle.
func (f profileFormModel) fieldActive(field int) bool {
	if field == fieldProvider || field == fieldPolicyNumber {
		return f.hasInsurance
	}
	return true
}

func (f profileFormModel) nextField(dir int) int {
	field := f.focus
	for {
		field += dir
		if field < 0 {
			field = fieldCount - 1
		}
		if field >= fieldCount {
			field = 0
		}
		if f.fieldActive(field) {
			return field
		}
	}
}

func (m Model) updateProfileForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form

	switch msg.String() {
	case "tab", "down":
		f.focus = f.nextField(1)
	case "shift+tab", "up":
		f.focus = f.nextField(-1)

	case "left", "right":
		dir := 1
		if msg.String() == "left" {
			dir = -1
		}
		switch f.focus {
		case fieldGender:
			f.genderIdx = cycle(f.genderIdx, dir, len(session.GenderCategories()))
		case fieldRegion:
			f.regionIdx = cycle(f.regionIdx, dir, len(config.ValidRegions()))
		case fieldInsuranceToggle:
			f.hasInsurance = !f.hasInsurance
		case fieldProvider:
			f.providerIdx = cycle(f.providerIdx, dir, len(session.InsuranceProviders()))
		}

	case " ":
		if f.focus == fieldInsuranceToggle {
			f.hasInsurance = !f.hasInsurance
			break
		}
		return m.updateFormInputs(f, msg)

	case "enter":
		return m.submitProfileForm(f)

	default:
		return m.updateFormInputs(f, msg)
	}

	f = f.syncFocus()
	m.form = f
	return m, nil
}

// updateFormInputs routes plain keystrokes to the focused text input.
func (m Model) updateFormInputs(f profileFormModel, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch f.focus {
	case fieldAge:
		f.age, cmd = f.age.Update(msg)
	case fieldPolicyNumber:
		f.policyNo, cmd = f.policyNo.Update(msg)
	}
	m.form = f
	return m, cmd
}

func (f profileFormModel) syncFocus() profileFormModel {
	f.age.Blur()
	f.policyNo.Blur()
	switch f.focus {
	case fieldAge:
		f.age.Focus()
	case fieldPolicyNumber:
		f.policyNo.Focus()
	}
	return f
}

func (m Model) submitProfileForm(f profileFormModel) (tea.Model, tea.Cmd) {
	age, err := strconv.Atoi(strings.TrimSpace(f.age.Value()))
	if err != nil {
		f.problem = "age must be a number"
		m.form = f
		return m, nil
	}

	p := &session.UserProfile{
		Age:    age,
		Gender: session.GenderCategories()[f.genderIdx],
		Region: config.ValidRegions()[f.regionIdx],
	}
	if f.hasInsurance {
		p.PrivateInsurance = &session.PrivateInsurance{
			Provider:     session.InsuranceProviders()[f.providerIdx],
			PolicyNumber: strings.TrimSpace(f.policyNo.Value()),
		}
	}

	if err := profile.Validate(p); err != nil {
		f.problem = userMessage(err)
		m.form = f
		return m, nil
	}

	m.state.SetProfile(p)
	// Persistence is fire and forget; navigation never waits on it.
	m.deps.Gate.Save(context.Background(), m.state.UserID, p)
	return m.enterIntake()
}

func (m Model) viewProfileForm() string {
	f := m.form
	var b strings.Builder

	b.WriteString(titleStyle.Render("Tell us about yourself"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("This determines which programs and plans apply to you."))
	b.WriteString("\n\n")

	rows := []struct {
		field int
		label string
		value string
	}{
		{fieldAge, "Age", f.age.View()},
		{fieldGender, "Gender", cycleValue(string(session.GenderCategories()[f.genderIdx]))},
		{fieldRegion, "Region", cycleValue(config.ValidRegions()[f.regionIdx])},
		{fieldInsuranceToggle, "Private insurance", checkbox(f.hasInsurance)},
	}
	if f.hasInsurance {
		rows = append(rows,
			struct {
				field int
				label string
				value string
			}{fieldProvider, "Provider", cycleValue(string(session.InsuranceProviders()[f.providerIdx]))},
			struct {
				field int
				label string
				value string
			}{fieldPolicyNumber, "Policy number", f.policyNo.View()},
		)
	}

	for _, row := range rows {
		marker := "  "
		label := fmt.Sprintf("%-20s", row.label)
		if row.field == f.focus {
			marker = "> "
			label = selectedStyle.Render(label)
		}
		fmt.Fprintf(&b, "%s%s %s\n", marker, label, row.value)
	}

	if f.problem != "" {
		b.WriteString("\n" + errorStyle.Render(f.problem))
	}
	b.WriteString(helpStyle.Render("\ntab/↑/↓ move · ←/→ change · enter submit"))
	return b.String()
}

func cycle(idx, dir, n int) int {
	return ((idx+dir)%n + n) % n
}

func cycleValue(v string) string {
	return fmt.Sprintf("‹ %s ›", v)
}

func checkbox(on bool) string {
	if on {
		return "[x] yes"
	}
	return "[ ] no"
}
