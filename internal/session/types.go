// Package session owns the per-run state of the Salus client: the opaque
// policy identifier, the active view, the user's profile, the chat
// transcript types and the analysis result. It also provides a file-backed
// store for snapshotting settled claims locally.
package session

import (
	"time"
)

// Role identifies who produced a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// GenderCategory is the fixed set of gender values the backend accepts.
type GenderCategory string

const (
	GenderFemale         GenderCategory = "female"
	GenderMale           GenderCategory = "male"
	GenderNonBinary      GenderCategory = "non_binary"
	GenderPreferNotToSay GenderCategory = "prefer_not_to_say"
)

// GenderCategories returns all accepted gender values, in display order.
func GenderCategories() []GenderCategory {
	return []GenderCategory{GenderFemale, GenderMale, GenderNonBinary, GenderPreferNotToSay}
}

// InsuranceProvider is a known private insurance provider id.
type InsuranceProvider string

const (
	ProviderSunLife     InsuranceProvider = "sun_life"
	ProviderManulife    InsuranceProvider = "manulife"
	ProviderCanadaLife  InsuranceProvider = "canada_life"
	ProviderGreenShield InsuranceProvider = "green_shield"
	ProviderBlueCross   InsuranceProvider = "blue_cross"
)

// InsuranceProviders returns all known provider ids, in display order.
func InsuranceProviders() []InsuranceProvider {
	return []InsuranceProvider{
		ProviderSunLife, ProviderManulife, ProviderCanadaLife,
		ProviderGreenShield, ProviderBlueCross,
	}
}

// PrivateInsurance describes the user's private coverage. Present on a
// profile only when the user declared they hold private insurance.
type PrivateInsurance struct {
	Provider     InsuranceProvider `json:"provider"`
	PolicyNumber string            `json:"policy_number"`
}

// UserProfile is the profile collected by the profile gate or hydrated from
// the backend. Once submitted for a session it is treated as immutable;
// resubmission replaces the whole record.
type UserProfile struct {
	Age              int               `json:"age"`
	Gender           GenderCategory    `json:"gender"`
	Region           string            `json:"region"`
	PrivateInsurance *PrivateInsurance `json:"private_insurance,omitempty"`
}

// HasPrivateInsurance reports whether the user declared private coverage.
func (p *UserProfile) HasPrivateInsurance() bool {
	return p != nil && p.PrivateInsurance != nil
}

// ChatMessage is one turn in the intake transcript. IDs increase
// monotonically in creation order; the transcript is append-only.
type ChatMessage struct {
	ID        int       `json:"id"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// BillData is what the backend extracted from an uploaded document. Every
// field is optional; zero values mean the extractor found nothing.
type BillData struct {
	Filename              string   `json:"filename,omitempty"`
	Total                 float64  `json:"total,omitempty"`
	Services              []string `json:"services,omitempty"`
	Service               string   `json:"service,omitempty"`
	Date                  string   `json:"date,omitempty"`
	Provider              string   `json:"provider,omitempty"`
	DocumentType          string   `json:"document_type,omitempty"`
	InsuranceAlreadyPaid  float64  `json:"insurance_already_paid,omitempty"`
	PatientResponsibility float64  `json:"patient_responsibility,omitempty"`
}

// AnalysisResult is the settled outcome of one coverage analysis run.
// Immutable once created; a new run supersedes it wholesale. The three
// coverage figures need not sum exactly to the bill total; upstream
// rounding is tolerated, never corrected.
type AnalysisResult struct {
	BillTotal         float64  `json:"bill_total"`
	PrivateCoverage   float64  `json:"private_coverage"`
	PublicCoverage    float64  `json:"public_coverage"`
	FinalCost         float64  `json:"final_cost"`
	Logs              []string `json:"logs"`
	Summary           string   `json:"summary"`
	InsurancePlan     string   `json:"insurance_plan,omitempty"`
	GovernmentProgram string   `json:"government_program,omitempty"`
}

// BillRecord is one entry in the user's claim history.
type BillRecord struct {
	PasskeyID string          `json:"passkey_id,omitempty"`
	BillData  BillData        `json:"bill_data"`
	Analysis  AnalysisSummary `json:"analysis_result"`
	CreatedAt time.Time       `json:"created_at"`
}

// AnalysisSummary is the monetary subset of an AnalysisResult kept in the
// claim history.
type AnalysisSummary struct {
	BillTotal       float64 `json:"bill_total"`
	PrivateCoverage float64 `json:"private_coverage"`
	PublicCoverage  float64 `json:"public_coverage"`
	FinalCost       float64 `json:"final_cost"`
}

// Summarize reduces a full result to its claim-history form.
func (r *AnalysisResult) Summarize() AnalysisSummary {
	return AnalysisSummary{
		BillTotal:       r.BillTotal,
		PrivateCoverage: r.PrivateCoverage,
		PublicCoverage:  r.PublicCoverage,
		FinalCost:       r.FinalCost,
	}
}
