package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/salus-health/salus/internal/identity"
)

// landingModel is the entry screen: unlock with a passkey or continue as a
// guest.
type landingModel struct {
	cursor        int
	hasCredential bool
	starting      bool
}

func newLandingModel(mgr *identity.Manager) landingModel {
	return landingModel{
		hasCredential: mgr != nil && mgr.HasCredential(),
	}
}

func (m Model) updateLanding(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.landing.starting {
		return m, nil
	}

	switch msg.String() {
	case "up", "k":
		if m.landing.cursor > 0 {
			m.landing.cursor--
		}
	case "down", "j":
		if m.landing.cursor < 1 {
			m.landing.cursor++
		}
	case "enter":
		m.landing.starting = true
		return m, m.startSessionCmd(m.landing.cursor == 0)
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) viewLanding() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Salus"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Understand your medical bill and what your coverage pays."))
	b.WriteString("\n\n")

	unlockLabel := "Check my coverage (set up a passkey)"
	if m.landing.hasCredential {
		unlockLabel = "Check my coverage (unlock with passkey)"
	}
	options := []string{unlockLabel, "Continue as guest"}

	for i, opt := range options {
		cursor := "  "
		line := opt
		if i == m.landing.cursor {
			cursor = "> "
			line = selectedStyle.Render(opt)
		}
		fmt.Fprintf(&b, "%s%s\n", cursor, line)
	}

	if m.landing.starting {
		b.WriteString("\n" + subtitleStyle.Render("unlocking..."))
	}
	b.WriteString(helpStyle.Render("\n↑/↓ choose · enter select · q quit"))
	return b.String()
}
