package tui

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salus-health/salus/internal/api"
	"github.com/salus-health/salus/internal/config"
	"github.com/salus-health/salus/internal/errors"
	"github.com/salus-health/salus/internal/identity"
	"github.com/salus-health/salus/internal/intake"
	"github.com/salus-health/salus/internal/logging"
	"github.com/salus-health/salus/internal/profile"
	"github.com/salus-health/salus/internal/progress"
	"github.com/salus-health/salus/internal/session"
	"github.com/salus-health/salus/internal/watch"
)

// Deps bundles the collaborators the TUI drives.
type Deps struct {
	Client   *api.Client
	Identity *identity.Manager
	Gate     *profile.Gate
	Store    *session.ClaimStore
	Watcher  *watch.Watcher // nil when the drop directory is disabled
	Config   *config.Config
	Logger   *logging.Logger
}

// Model is the root orchestrator. It owns the session state machine and
// fans key input out to whichever view is current; every backend call runs
// as a command and comes back as a typed message.
type Model struct {
	deps  Deps
	state *session.State
	pacer progress.Pacer

	controller *intake.Controller

	width  int
	height int

	// Transient one-line notice under the active view.
	statusLine string

	landing      landingModel
	form         profileFormModel
	chat         intakeModel
	progressView progressModel
	resultsView  resultsModel
	claimsView   claimsModel
}

// NewModel creates the root model.
func NewModel(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = logging.NopLogger()
	}
	return Model{
		deps:    deps,
		state:   session.NewState(),
		pacer:   progress.NewPacer(deps.Config.TUI.RevealInterval()),
		landing: newLandingModel(deps.Identity),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.chat = m.chat.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		m.statusLine = ""
		return m.updateCurrentView(msg)

	case sessionStartMsg:
		return m.handleSessionStart(msg)

	case uploadResultMsg:
		return m.handleUploadResult(msg)

	case chatReplyMsg:
		return m.handleChatReply(msg)

	case analyzeResultMsg:
		return m.handleAnalyzeResult(msg)

	case revealTickMsg:
		return m.handleRevealTick()

	case claimsLoadedMsg:
		m.claimsView = m.claimsView.withRecords(msg.records)
		if msg.err != nil {
			m.statusLine = errorStyle.Render("claim history unavailable: " + userMessage(msg.err))
		}
		return m, nil

	case statusSyncMsg:
		if m.controller != nil {
			m.controller.SyncStatus(msg.status)
		}
		return m, nil

	case candidateMsg:
		m.chat = m.chat.withCandidate(msg.candidate)
		return m, nil
	}

	// Non-key messages for view-owned components (spinner ticks etc.).
	if m.state.CurrentView == session.ViewLiveProgress {
		var cmd tea.Cmd
		m.progressView, cmd = m.progressView.updateComponents(msg)
		return m, cmd
	}
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	var body string
	switch m.state.CurrentView {
	case session.ViewLanding:
		body = m.viewLanding()
	case session.ViewProfileCollection:
		body = m.viewProfileForm()
	case session.ViewIntake:
		body = m.viewIntake()
	case session.ViewLiveProgress:
		body = m.viewProgress()
	case session.ViewResults:
		body = m.viewResults()
	case session.ViewClaimsList:
		body = m.viewClaims()
	}

	if m.statusLine != "" {
		body = lipgloss.JoinVertical(lipgloss.Left, body, m.statusLine)
	}
	return body
}

func (m Model) updateCurrentView(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.state.CurrentView {
	case session.ViewLanding:
		return m.updateLanding(msg)
	case session.ViewProfileCollection:
		return m.updateProfileForm(msg)
	case session.ViewIntake:
		return m.updateIntake(msg)
	case session.ViewLiveProgress:
		return m.updateProgress(msg)
	case session.ViewResults:
		return m.updateResults(msg)
	case session.ViewClaimsList:
		return m.updateClaims(msg)
	}
	return m, nil
}

// -----------------------------------------------------------------------------
// Transitions and async outcome handling
// -----------------------------------------------------------------------------

func (m Model) handleSessionStart(msg sessionStartMsg) (tea.Model, tea.Cmd) {
	m.state.UserID = msg.passkeyID

	if msg.outcome == profile.OutcomeFound {
		m.state.SetProfile(msg.profile)
		return m.enterIntake()
	}

	if err := m.state.Transition(session.ViewProfileCollection); err != nil {
		return m.transitionFailed(err)
	}
	m.form = newProfileFormModel(m.deps.Config.Session.Region)
	return m, m.form.focusCmd()
}

// enterIntake moves to the intake view with a fresh conversation.
func (m Model) enterIntake() (tea.Model, tea.Cmd) {
	if err := m.state.Transition(session.ViewIntake); err != nil {
		return m.transitionFailed(err)
	}
	m.controller = intake.NewController(m.deps.Client, m.state.PolicyID, m.state.UserID, m.deps.Logger)
	m.chat = newIntakeModel(m.width, m.height)
	m.chat = m.chat.withTranscript(m.controller.Transcript())
	return m, tea.Batch(m.chat.focusCmd(), m.syncStatusCmd())
}

func (m Model) handleUploadResult(msg uploadResultMsg) (tea.Model, tea.Cmd) {
	m.chat = m.chat.settled()
	if msg.err != nil {
		m.statusLine = errorStyle.Render(userMessage(msg.err))
		return m, nil
	}
	m.chat = m.chat.withTranscript(m.controller.Transcript())
	return m, nil
}

func (m Model) handleChatReply(msg chatReplyMsg) (tea.Model, tea.Cmd) {
	m.chat = m.chat.settled()
	// The controller appends a diagnostic turn on failure, so the
	// transcript is refreshed either way.
	m.chat = m.chat.withTranscript(m.controller.Transcript())
	if msg.err != nil {
		m.statusLine = errorStyle.Render(userMessage(msg.err))
	}
	return m, nil
}

// beginAnalysis moves to the live progress view and fires the analysis.
func (m Model) beginAnalysis() (tea.Model, tea.Cmd) {
	if err := m.state.Transition(session.ViewLiveProgress); err != nil {
		return m.transitionFailed(err)
	}
	m.progressView = newProgressModel(m.pacer)
	return m, tea.Batch(m.progressView.spinner.Tick, m.analyzeCmd())
}

func (m Model) handleAnalyzeResult(msg analyzeResultMsg) (tea.Model, tea.Cmd) {
	result := msg.result
	if msg.err != nil {
		// A failed run still settles: zero figures plus a diagnostic
		// line, and the results view stays reachable.
		m.deps.Logger.Error("analysis failed", "error", msg.err)
		result = &session.AnalysisResult{
			Logs:    []string{"Coordinator Agent: Error: analysis could not be completed. " + userMessage(msg.err)},
			Summary: "The analysis could not be completed. Your bill details are unchanged; please try again later.",
		}
	}

	m.state.SetResult(result)
	m.progressView = m.progressView.withResult(result)

	if msg.err == nil && m.deps.Store != nil {
		record := session.BillRecord{
			PasskeyID: m.state.UserID,
			Analysis:  result.Summarize(),
		}
		if bill := m.controller.Bill(); bill != nil {
			record.BillData = *bill
		}
		if err := m.deps.Store.Save(record); err != nil {
			m.deps.Logger.Warn("claim snapshot not saved", "error", err)
		}
	}

	if m.pacer.Enabled() {
		return m, m.revealCmd()
	}
	m.progressView = m.progressView.revealAll()
	return m, nil
}

func (m Model) handleRevealTick() (tea.Model, tea.Cmd) {
	m.progressView = m.progressView.revealNext()
	if m.progressView.revealDone() {
		return m, nil
	}
	return m, m.revealCmd()
}

// transitionFailed logs an illegal transition and stays put. These indicate
// a wiring bug, not a user mistake.
func (m Model) transitionFailed(err error) (tea.Model, tea.Cmd) {
	m.deps.Logger.Error("view transition rejected", "view", m.state.CurrentView.String(), "error", err)
	m.statusLine = errorStyle.Render("that action isn't available right now")
	return m, nil
}

// -----------------------------------------------------------------------------
// Commands
// -----------------------------------------------------------------------------

func (m Model) startSessionCmd(returning bool) tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		if !returning {
			return sessionStartMsg{outcome: profile.OutcomeNotFound}
		}

		cred, err := deps.Identity.Unlock()
		if err != nil {
			// Passkey unavailable: continue anonymously.
			deps.Logger.Info("passkey unavailable, continuing as guest", "error", err)
			return sessionStartMsg{outcome: profile.OutcomeNotFound}
		}

		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Backend.Timeout())
		defer cancel()
		p, outcome := deps.Gate.Lookup(ctx, cred.ID)
		return sessionStartMsg{passkeyID: cred.ID, profile: p, outcome: outcome}
	}
}

func (m Model) uploadCmd(path string) tea.Cmd {
	controller := m.controller
	timeout := m.deps.Config.Backend.Timeout()
	return func() tea.Msg {
		f, err := os.Open(path)
		if err != nil {
			return uploadResultMsg{err: errors.NewValidationError("file", fmt.Sprintf("cannot open %s", path))}
		}
		defer func() { _ = f.Close() }()

		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		bill, err := controller.UploadDocument(ctx, f.Name(), f)
		return uploadResultMsg{bill: bill, err: err}
	}
}

func (m Model) chatCmd(text string) tea.Cmd {
	controller := m.controller
	timeout := m.deps.Config.Backend.Timeout()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		reply, err := controller.SendMessage(ctx, text)
		return chatReplyMsg{reply: reply, err: err}
	}
}

func (m Model) analyzeCmd() tea.Cmd {
	deps := m.deps
	state := m.state
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Backend.Timeout())
		defer cancel()

		req := api.AnalyzeRequest{
			PolicyID:  state.PolicyID,
			Region:    state.Region(deps.Config.Session.Region),
			PasskeyID: state.UserID,
		}
		if state.Profile != nil {
			req.Age = state.Profile.Age
			req.Gender = string(state.Profile.Gender)
		}

		result, err := deps.Client.Analyze(ctx, req)
		return analyzeResultMsg{result: result, err: err}
	}
}

func (m Model) revealCmd() tea.Cmd {
	return tea.Tick(m.pacer.Interval(), func(time.Time) tea.Msg {
		return revealTickMsg{}
	})
}

// syncStatusCmd re-fetches the backend's session status so a document the
// backend already holds is reflected in the intake gates.
func (m Model) syncStatusCmd() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Backend.Timeout())
		defer cancel()

		status, err := deps.Client.Status(ctx)
		if err != nil {
			deps.Logger.Debug("status sync failed", "error", err)
			return statusSyncMsg{}
		}
		return statusSyncMsg{status: status}
	}
}

func (m Model) loadClaimsCmd() tea.Cmd {
	deps := m.deps
	passkeyID := m.state.UserID
	return func() tea.Msg {
		if passkeyID != "" {
			ctx, cancel := context.WithTimeout(context.Background(), deps.Config.Backend.Timeout())
			defer cancel()
			records, err := deps.Client.Bills(ctx, passkeyID)
			if err == nil {
				return claimsLoadedMsg{records: records}
			}
			deps.Logger.Warn("backend claim history unavailable, using local snapshots", "error", err)
		}

		if deps.Store == nil {
			return claimsLoadedMsg{}
		}
		records, err := deps.Store.List()
		return claimsLoadedMsg{records: records, err: err}
	}
}

// userMessage renders an error for the status line, hiding internals unless
// the error is marked user facing.
func userMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.IsUserFacing(err) {
		return err.Error()
	}
	return "something went wrong; see the debug log"
}
