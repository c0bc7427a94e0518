package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/salus-health/salus/internal/session"
)

// claimsModel lists past settled claims, newest first.
type claimsModel struct {
	records []session.BillRecord
	cursor  int
	loaded  bool
}

func newClaimsModel() claimsModel {
	return claimsModel{}
}

func (cm claimsModel) withRecords(records []session.BillRecord) claimsModel {
	cm.records = records
	cm.loaded = true
	if cm.cursor >= len(records) {
		cm.cursor = 0
	}
	return cm
}

func (m Model) updateClaims(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cm := m.claimsView

	switch msg.String() {
	case "up", "k":
		if cm.cursor > 0 {
			cm.cursor--
		}
	case "down", "j":
		if cm.cursor < len(cm.records)-1 {
			cm.cursor++
		}
	case "n":
		// New analysis: same session identity, fresh conversation.
		m.state.ResetAnalysis()
		return m.enterIntake()
	case "q":
		return m, tea.Quit
	}

	m.claimsView = cm
	return m, nil
}

func (m Model) viewClaims() string {
	cm := m.claimsView
	var b strings.Builder

	b.WriteString(titleStyle.Render("Claim history"))
	b.WriteString("\n")

	switch {
	case !cm.loaded:
		b.WriteString(subtitleStyle.Render("loading..."))
	case len(cm.records) == 0:
		b.WriteString(subtitleStyle.Render("No claims yet. Run an analysis and it will show up here."))
	default:
		for i, record := range cm.records {
			marker := "  "
			if i == cm.cursor {
				marker = "> "
			}

			provider := record.BillData.Provider
			if provider == "" {
				provider = "unknown provider"
			}
			line := fmt.Sprintf("%s · billed $%.2f · you paid $%.2f",
				provider, record.Analysis.BillTotal, record.Analysis.FinalCost)
			if !record.CreatedAt.IsZero() {
				line = record.CreatedAt.Format("2006-01-02") + " · " + line
			}
			if i == cm.cursor {
				line = selectedStyle.Render(line)
			}
			fmt.Fprintf(&b, "%s%s\n", marker, line)
		}
	}

	b.WriteString(helpStyle.Render("\n↑/↓ browse · n new analysis · q quit"))
	return b.String()
}
