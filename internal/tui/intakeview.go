package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salus-health/salus/internal/session"
	"github.com/salus-health/salus/internal/watch"
)

const uploadCommandPrefix = "/upload "

// intakeModel is the conversational intake view: one document upload, then
// chat turns until the session is ready for analysis.
type intakeModel struct {
	input      textinput.Model
	vp         viewport.Model
	transcript []session.ChatMessage
	candidate  *watch.Candidate
	busy       bool
	width      int
	height     int
}

func newIntakeModel(width, height int) intakeModel {
	input := textinput.New()
	input.Placeholder = "type a message, or /upload <path to bill>"
	input.CharLimit = 500
	input.Focus()

	im := intakeModel{input: input}
	return im.resize(width, height)
}

func (im intakeModel) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (im intakeModel) resize(width, height int) intakeModel {
	im.width = width
	im.height = height

	vpWidth := width - 4
	if vpWidth < 20 {
		vpWidth = 20
	}
	vpHeight := height - 8
	if vpHeight < 5 {
		vpHeight = 5
	}
	im.vp = viewport.New(vpWidth, vpHeight)
	im.input.Width = vpWidth - 2
	return im.withTranscript(im.transcript)
}

// withTranscript re-renders the conversation and pins focus to the latest
// turn.
func (im intakeModel) withTranscript(transcript []session.ChatMessage) intakeModel {
	im.transcript = transcript

	var b strings.Builder
	for _, msg := range transcript {
		switch msg.Role {
		case session.RoleUser:
			b.WriteString(userStyle.Render("You: ") + msg.Text)
		default:
			b.WriteString(assistantStyle.Render("Salus: ") + msg.Text)
		}
		b.WriteString("\n\n")
	}
	im.vp.SetContent(lipgloss.NewStyle().Width(im.vp.Width).Render(b.String()))
	im.vp.GotoBottom()
	return im
}

func (im intakeModel) withCandidate(c watch.Candidate) intakeModel {
	im.candidate = &c
	return im
}

func (im intakeModel) settled() intakeModel {
	im.busy = false
	return im
}

func (m Model) updateIntake(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	im := m.chat

	switch msg.String() {
	case "enter":
		if im.busy {
			return m, nil
		}
		text := strings.TrimSpace(im.input.Value())
		if text == "" {
			return m, nil
		}
		im.input.SetValue("")
		im.busy = true
		m.chat = im
		if path, ok := strings.CutPrefix(text, uploadCommandPrefix); ok {
			return m, m.uploadCmd(strings.TrimSpace(path))
		}
		return m, m.chatCmd(text)

	case "ctrl+o":
		if im.busy || im.candidate == nil {
			return m, nil
		}
		im.busy = true
		m.chat = im
		return m, m.uploadCmd(im.candidate.Path)

	case "ctrl+a":
		if m.controller != nil && m.controller.Ready() {
			return m.beginAnalysis()
		}
		m.statusLine = warningStyle.Render("confirm your bill details first, then run the analysis")
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		im.vp, cmd = im.vp.Update(msg)
		m.chat = im
		return m, cmd
	}

	var cmd tea.Cmd
	im.input, cmd = im.input.Update(msg)
	m.chat = im
	return m, cmd
}

func (m Model) viewIntake() string {
	im := m.chat
	var b strings.Builder

	b.WriteString(titleStyle.Render("Bill intake"))
	b.WriteString("\n")
	b.WriteString(panelStyle.Render(im.vp.View()))
	b.WriteString("\n")
	b.WriteString(im.input.View())
	b.WriteString("\n")

	var hints []string
	if im.busy {
		hints = append(hints, "waiting for Salus...")
	}
	if im.candidate != nil && m.controller != nil && !m.controller.DocumentPresent() {
		hints = append(hints, fmt.Sprintf("spotted %s · ctrl+o to upload it", im.candidate.Name))
	}
	if m.controller != nil && m.controller.Ready() {
		hints = append(hints, selectedStyle.Render("ready · ctrl+a to run the coverage analysis"))
	}
	hints = append(hints, "enter send · /upload <path> · ctrl+c quit")

	b.WriteString(helpStyle.Render(strings.Join(hints, "\n")))
	return b.String()
}
