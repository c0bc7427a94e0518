package tui

import (
	"github.com/salus-health/salus/internal/api"
	"github.com/salus-health/salus/internal/profile"
	"github.com/salus-health/salus/internal/session"
	"github.com/salus-health/salus/internal/watch"
)

// sessionStartMsg carries the outcome of the landing choice: a credential
// (empty for guests) and the profile lookup result.
type sessionStartMsg struct {
	passkeyID string
	profile   *session.UserProfile
	outcome   profile.Outcome
}

// uploadResultMsg carries the outcome of a document upload.
type uploadResultMsg struct {
	bill *session.BillData
	err  error
}

// chatReplyMsg carries the outcome of one chat turn.
type chatReplyMsg struct {
	reply *session.ChatMessage
	err   error
}

// analyzeResultMsg carries the settled analysis. A failed run still settles,
// with a zeroed result and a diagnostic log line.
type analyzeResultMsg struct {
	result *session.AnalysisResult
	err    error
}

// revealTickMsg advances the paced log reveal by one entry.
type revealTickMsg struct{}

// claimsLoadedMsg carries the claim history for the claims view.
type claimsLoadedMsg struct {
	records []session.BillRecord
	err     error
}

// statusSyncMsg carries the backend session status fetched on intake entry.
// A nil status means the fetch failed and the local flags stand.
type statusSyncMsg struct {
	status *api.StatusResponse
}

// candidateMsg announces a document spotted in the drop directory.
type candidateMsg struct {
	candidate watch.Candidate
}
