package api

import (
	"github.com/salus-health/salus/internal/session"
)

// HistoryItem is one prior turn sent as chat context.
type HistoryItem struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body for POST /api/chat.
type ChatRequest struct {
	PolicyID  string        `json:"policy_id"`
	Message   string        `json:"message"`
	History   []HistoryItem `json:"history"`
	PasskeyID string        `json:"passkey_id,omitempty"`
}

// ChatResponse is the reply from POST /api/chat. AnalysisComplete is the
// backend's structured readiness signal; older backends omit it and the
// client falls back to keyword matching.
type ChatResponse struct {
	Response         string   `json:"response"`
	Logs             []string `json:"logs,omitempty"`
	AnalysisComplete bool     `json:"analysis_complete,omitempty"`
}

// AnalyzeRequest is the body for POST /api/analyze.
type AnalyzeRequest struct {
	PolicyID  string `json:"policy_id"`
	Region    string `json:"region"`
	Age       int    `json:"age"`
	Gender    string `json:"gender"`
	PasskeyID string `json:"passkey_id,omitempty"`
}

// StatusResponse is the reply from GET /api/status.
type StatusResponse struct {
	HasUploadedFile  bool   `json:"has_uploaded_file"`
	UploadedFile     string `json:"uploaded_file,omitempty"`
	ReadyForAnalysis bool   `json:"ready_for_analysis"`
}

type userRecord struct {
	Profile *session.UserProfile `json:"profile,omitempty"`
}

type userResponse struct {
	User *userRecord `json:"user,omitempty"`
}

type saveUserRequest struct {
	PasskeyID string               `json:"passkey_id"`
	Profile   *session.UserProfile `json:"profile"`
}

type uploadResponse struct {
	Filename string            `json:"filename,omitempty"`
	Status   string            `json:"status,omitempty"`
	BillData *session.BillData `json:"bill_data"`
	Message  string            `json:"message,omitempty"`
}

type analyzeResponse struct {
	BillTotal         float64  `json:"bill_total"`
	PrivateCoverage   float64  `json:"private_coverage"`
	PublicCoverage    float64  `json:"public_coverage"`
	FinalCost         float64  `json:"final_cost"`
	Logs              []string `json:"logs"`
	Summary           string   `json:"summary"`
	InsurancePlan     string   `json:"insurance_plan,omitempty"`
	GovernmentProgram string   `json:"government_program,omitempty"`
}

type billsResponse struct {
	Bills []session.BillRecord `json:"bills"`
}
