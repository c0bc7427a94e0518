package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salus-health/salus/internal/progress"
	"github.com/salus-health/salus/internal/session"
)

// progressModel is the live analysis view: a paced reveal of the agent log
// timeline. Completion comes from the settled result, never from the logs
// drying up, and moving on is always the user's keypress.
type progressModel struct {
	spinner  spinner.Model
	pacer    progress.Pacer
	result   *session.AnalysisResult
	entries  []progress.Entry
	revealed int
}

func newProgressModel(pacer progress.Pacer) progressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	return progressModel{spinner: sp, pacer: pacer}
}

func (pm progressModel) withResult(result *session.AnalysisResult) progressModel {
	pm.result = result
	pm.entries = progress.Project(result.Logs)
	return pm
}

func (pm progressModel) revealAll() progressModel {
	pm.revealed = len(pm.entries)
	return pm
}

func (pm progressModel) revealNext() progressModel {
	pm.revealed = pm.pacer.Reveal(pm.revealed, len(pm.entries))
	return pm
}

func (pm progressModel) revealDone() bool {
	return pm.pacer.Done(pm.revealed, len(pm.entries))
}

func (pm progressModel) settled() bool {
	return pm.result != nil
}

func (pm progressModel) updateComponents(msg tea.Msg) (progressModel, tea.Cmd) {
	var cmd tea.Cmd
	pm.spinner, cmd = pm.spinner.Update(msg)
	return pm, cmd
}

func (m Model) updateProgress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() != "enter" {
		return m, nil
	}
	if !m.progressView.settled() {
		return m, nil
	}
	if !m.progressView.revealDone() {
		// The reveal is cosmetic and the result is already in hand, so a
		// keypress skips to the full timeline instead of being swallowed.
		m.progressView = m.progressView.revealAll()
		return m, nil
	}

	if err := m.state.Transition(session.ViewResults); err != nil {
		return m.transitionFailed(err)
	}
	m.resultsView = newResultsModel(m.state.Result, m.width)
	return m, nil
}

func (m Model) viewProgress() string {
	pm := m.progressView
	var b strings.Builder

	b.WriteString(titleStyle.Render("Checking your coverage"))
	b.WriteString("\n")

	visible := pm.entries
	if pm.revealed < len(visible) {
		visible = visible[:pm.revealed]
	}
	for _, entry := range visible {
		line := entry.Message
		switch entry.Level {
		case progress.LevelError:
			line = errorStyle.Render(line)
		case progress.LevelWarning:
			line = warningStyle.Render(line)
		}
		if entry.Agent != "" {
			fmt.Fprintf(&b, "%s %s\n", agentStyle.Render(entry.Agent+":"), line)
		} else {
			fmt.Fprintf(&b, "%s\n", line)
		}
	}

	b.WriteString("\n")
	switch {
	case pm.settled() && pm.revealDone():
		b.WriteString(selectedStyle.Render("analysis complete"))
		b.WriteString(helpStyle.Render("\nenter view results"))
	default:
		label := progress.StatusLabel(progress.CurrentAgent(visible))
		fmt.Fprintf(&b, "%s %s\n", pm.spinner.View(), subtitleStyle.Render(label))
	}
	return b.String()
}
