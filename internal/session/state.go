package session

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/salus-health/salus/internal/errors"
)

// NewPolicyID generates the session's opaque policy identifier. It is
// created once at orchestrator construction, stays stable for the session's
// lifetime and is never reused across sessions.
func NewPolicyID() string {
	return "pol-" + uuid.NewString()
}

// State is the owned session-state record shared across views. The
// orchestrator is the only writer of PolicyID, CurrentView and Result; the
// profile gate is the only writer of Profile. Views receive the slices they
// need plus callbacks, never the whole mutable record.
type State struct {
	PolicyID    string
	UserID      string // passkey credential id; empty means anonymous
	CurrentView View
	Profile     *UserProfile
	Result      *AnalysisResult

	analysisSettled bool
}

// NewState creates session state in the Landing view with a fresh policy id.
func NewState() *State {
	return &State{
		PolicyID:    NewPolicyID(),
		CurrentView: ViewLanding,
	}
}

// Transition moves to the target view if the edge is legal and its guard
// holds. Returns ErrIllegalTransition otherwise; callers treat that as a
// no-op, never a crash.
func (s *State) Transition(to View) error {
	if !s.CurrentView.canReach(to) {
		return fmt.Errorf("%w: %s -> %s", errors.ErrIllegalTransition, s.CurrentView, to)
	}
	if to == ViewResults && !s.analysisSettled {
		return fmt.Errorf("%w: %s -> %s", errors.ErrAnalysisNotSettled, s.CurrentView, to)
	}
	s.CurrentView = to
	return nil
}

// SetProfile replaces the session profile wholesale. Resubmission is a full
// replacement, not a patch.
func (s *State) SetProfile(p *UserProfile) {
	s.Profile = p
}

// SetResult records the settled analysis outcome, superseding any previous
// run, and unlocks the guarded transition to Results.
func (s *State) SetResult(r *AnalysisResult) {
	s.Result = r
	s.analysisSettled = true
}

// ResetAnalysis clears the settled flag for a new intake run. The previous
// result stays readable until the next run supersedes it.
func (s *State) ResetAnalysis() {
	s.analysisSettled = false
}

// AnalysisSettled reports whether a completed analysis is available.
func (s *State) AnalysisSettled() bool {
	return s.analysisSettled
}

// Anonymous reports whether the session runs without a persisted identity.
func (s *State) Anonymous() bool {
	return s.UserID == ""
}

// Region returns the profile region, falling back to the given default when
// no profile was collected.
func (s *State) Region(fallback string) string {
	if s.Profile != nil && s.Profile.Region != "" {
		return s.Profile.Region
	}
	return fallback
}
