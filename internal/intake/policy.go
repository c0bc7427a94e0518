package intake

import (
	"strings"
)

// ReadinessPolicy decides when the session is ready for analysis. It is a
// keyword heuristic, not a semantic judgment: an assistant reply like "great,
// let me know when you're ready" trips it just as a real confirmation does.
// The backend's structured analysis_complete flag overrides the heuristic
// when present.
type ReadinessPolicy struct {
	// AssistantKeywords mark an assistant reply as a readiness signal.
	AssistantKeywords []string
	// UserKeywords mark a user utterance as a confirmation, honored only
	// once a document is present.
	UserKeywords []string
}

// DefaultReadinessPolicy returns the stock keyword sets.
func DefaultReadinessPolicy() ReadinessPolicy {
	return ReadinessPolicy{
		AssistantKeywords: []string{
			"ready", "proceed", "confirmed", "perfect", "great", "yes",
			"looks good", "all set",
		},
		UserKeywords: []string{
			"yes", "confirm", "correct", "check", "coverage",
			"pay", "cost", "analyze", "run",
		},
	}
}

// Signal is one exchange the policy evaluates.
type Signal struct {
	UserText         string
	AssistantText    string
	DocumentPresent  bool
	AnalysisComplete bool
}

// Ready reports whether this exchange marks the session ready-to-analyze.
// Readiness is sticky at the controller level; the policy itself is
// stateless.
func (p ReadinessPolicy) Ready(sig Signal) bool {
	if sig.AnalysisComplete {
		return true
	}
	if containsAny(sig.AssistantText, p.AssistantKeywords) {
		return true
	}
	if sig.DocumentPresent && containsAny(sig.UserText, p.UserKeywords) {
		return true
	}
	return false
}

func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
