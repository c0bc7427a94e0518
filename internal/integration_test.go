// Package internal holds cross-package tests that walk a whole session the
// way the TUI drives it: unlock, profile gate, intake conversation, analysis
// and the settled breakdown.
package internal

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/salus-health/salus/internal/api"
	"github.com/salus-health/salus/internal/intake"
	"github.com/salus-health/salus/internal/profile"
	"github.com/salus-health/salus/internal/progress"
	"github.com/salus-health/salus/internal/reconcile"
	"github.com/salus-health/salus/internal/session"
)

func salusBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/user", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"user": map[string]any{
				"profile": map[string]any{"age": 34, "gender": "female", "region": "Ontario"},
			},
		})
	})
	mux.HandleFunc("POST /api/upload", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"bill_data": map[string]any{
				"filename": "bill.pdf",
				"total":    5000.0,
				"services": []string{"Emergency Room Visit"},
				"provider": "General Hospital",
			},
		})
	})
	mux.HandleFunc("POST /api/chat", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"response": "Everything checks out. Ready to proceed?",
		})
	})
	mux.HandleFunc("POST /api/analyze", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]any{
			"bill_total":       5000.0,
			"private_coverage": 4000.0,
			"public_coverage":  1000.0,
			"final_cost":       0.0,
			"logs": []string{
				"Extractor: Starting bill analysis...",
				"Adjuster Agent: Coverage approved: $4,000.00",
				"Social Worker Agent: Found 1 applicable program(s)",
				"Coordinator Agent: Coordination of Benefits complete!",
			},
			"summary": "After coordinating benefits, you pay: $0.00",
		})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("encode response: %v", err)
	}
}

func TestFullSessionFlow(t *testing.T) {
	srv := salusBackend(t)
	client := api.NewClient(srv.URL)
	ctx := context.Background()

	state := session.NewState()
	state.UserID = "cred-1"

	// Profile gate: stored profile skips the collection form.
	gate := profile.NewGate(client, nil)
	p, outcome := gate.Lookup(ctx, state.UserID)
	if outcome != profile.OutcomeFound {
		t.Fatalf("Lookup outcome = %v, want OutcomeFound", outcome)
	}
	state.SetProfile(p)
	if err := state.Transition(session.ViewIntake); err != nil {
		t.Fatalf("Transition(Intake) error = %v", err)
	}

	// Intake: upload, confirm, become ready.
	controller := intake.NewController(client, state.PolicyID, state.UserID, nil)
	if _, err := controller.UploadDocument(ctx, "bill.pdf", strings.NewReader("pdf bytes")); err != nil {
		t.Fatalf("UploadDocument() error = %v", err)
	}
	if _, err := controller.SendMessage(ctx, "yes, that's my bill"); err != nil {
		t.Fatalf("SendMessage() error = %v", err)
	}
	if !controller.Ready() {
		t.Fatal("controller not ready after confirmation")
	}

	// Analysis: results stay gated until the run settles.
	if err := state.Transition(session.ViewLiveProgress); err != nil {
		t.Fatalf("Transition(LiveProgress) error = %v", err)
	}
	if err := state.Transition(session.ViewResults); err == nil {
		t.Fatal("Results reachable before the analysis settled")
	}

	result, err := client.Analyze(ctx, api.AnalyzeRequest{
		PolicyID: state.PolicyID,
		Region:   state.Region("Ontario"),
		Age:      state.Profile.Age,
		Gender:   string(state.Profile.Gender),
	})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	state.SetResult(result)

	entries := progress.Project(result.Logs)
	if len(entries) != 4 {
		t.Fatalf("projected %d entries, want 4", len(entries))
	}
	if agent := progress.CurrentAgent(entries); agent != "Coordinator Agent" {
		t.Errorf("current agent = %q", agent)
	}

	if err := state.Transition(session.ViewResults); err != nil {
		t.Fatalf("Transition(Results) error = %v", err)
	}

	// Breakdown: 80/20, patient segment suppressed at zero.
	breakdown := reconcile.Reconcile(state.Result)
	if len(breakdown.Segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(breakdown.Segments))
	}

	// Claim snapshot round-trips through the local store.
	store, err := session.NewClaimStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewClaimStore() error = %v", err)
	}
	record := session.BillRecord{
		PasskeyID: state.UserID,
		BillData:  *controller.Bill(),
		Analysis:  state.Result.Summarize(),
	}
	if err := store.Save(record); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	saved, err := store.List()
	if err != nil || len(saved) != 1 {
		t.Fatalf("List() = %d records, err %v", len(saved), err)
	}

	if err := state.Transition(session.ViewClaimsList); err != nil {
		t.Fatalf("Transition(Claims) error = %v", err)
	}
	state.ResetAnalysis()
	if err := state.Transition(session.ViewIntake); err != nil {
		t.Fatalf("Transition(Intake) for a new run error = %v", err)
	}
}
