// Package profile implements the gate between the landing screen and the
// intake flow. A returning user with a stored profile skips straight to
// intake; everyone else fills the profile form first. Lookup failures are
// deliberately indistinguishable from "no profile": the worst outcome is
// asking the user to type their details again.
package profile

import (
	"context"
	"strings"

	"github.com/salus-health/salus/internal/errors"
	"github.com/salus-health/salus/internal/logging"
	"github.com/salus-health/salus/internal/session"
)

// Backend is the subset of the API client the gate needs.
type Backend interface {
	GetUser(ctx context.Context, passkeyID string) (*session.UserProfile, error)
	SaveUser(ctx context.Context, passkeyID string, profile *session.UserProfile) error
}

// Outcome classifies a profile lookup.
type Outcome int

const (
	// OutcomeFound means a stored profile was hydrated.
	OutcomeFound Outcome = iota
	// OutcomeNotFound means the user must fill the profile form. Backend
	// failures also land here.
	OutcomeNotFound
)

// Gate decides whether a session needs the profile-collection view.
type Gate struct {
	backend Backend
	logger  *logging.Logger
}

// NewGate creates a profile gate.
func NewGate(backend Backend, logger *logging.Logger) *Gate {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Gate{backend: backend, logger: logger}
}

// Lookup fetches the stored profile for a credential. An anonymous session
// (empty passkeyID) always routes to the form.
func (g *Gate) Lookup(ctx context.Context, passkeyID string) (*session.UserProfile, Outcome) {
	if passkeyID == "" {
		return nil, OutcomeNotFound
	}

	profile, err := g.backend.GetUser(ctx, passkeyID)
	if err != nil {
		if !errors.Is(err, errors.ErrProfileNotFound) {
			g.logger.Warn("profile lookup failed, collecting fresh", "error", err)
		}
		return nil, OutcomeNotFound
	}
	return profile, OutcomeFound
}

// Validate checks a profile before it is accepted for the session.
func Validate(p *session.UserProfile) error {
	if p == nil {
		return errors.ErrProfileIncomplete
	}
	if p.Age <= 0 || p.Age > 130 {
		return errors.NewValidationError("age", "age must be between 1 and 130")
	}
	if p.Gender == "" {
		return errors.NewValidationError("gender", "gender is required")
	}
	if strings.TrimSpace(p.Region) == "" {
		return errors.NewValidationError("region", "region is required")
	}
	if p.PrivateInsurance != nil && p.PrivateInsurance.Provider == "" {
		return errors.NewValidationError("provider", "insurance provider is required")
	}
	return nil
}

// Save persists the profile to the backend without blocking the flow. The
// session keeps its in-memory copy either way; a failed save only costs the
// user a re-entry next time.
func (g *Gate) Save(ctx context.Context, passkeyID string, p *session.UserProfile) {
	if passkeyID == "" {
		return
	}
	go func() {
		if err := g.backend.SaveUser(ctx, passkeyID, p); err != nil {
			g.logger.Warn("profile save failed", "error", err)
		}
	}()
}
