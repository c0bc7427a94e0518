// Package reconcile computes the presentation breakdown of a settled
// coverage result. Percentages are taken against max(billTotal, 1) so a
// missing total yields empty segments instead of a division error. Upstream
// rounding is left alone: segments may sum to slightly more or less than
// 100% and are rendered independently.
package reconcile

import (
	"fmt"

	"github.com/salus-health/salus/internal/session"
)

// Kind identifies a breakdown segment.
type Kind int

const (
	KindPrivate Kind = iota
	KindPublic
	KindPatient
)

// String returns the display name of the segment kind.
func (k Kind) String() string {
	switch k {
	case KindPrivate:
		return "private insurance"
	case KindPublic:
		return "government programs"
	case KindPatient:
		return "you pay"
	default:
		return "unknown"
	}
}

// Segment is one proportional slice of the bill.
type Segment struct {
	Kind    Kind
	Amount  float64
	Percent float64
}

// Label returns the segment's display line, e.g. "private insurance: $3500.00 (70.0%)".
func (s Segment) Label() string {
	return fmt.Sprintf("%s: $%.2f (%.1f%%)", s.Kind, s.Amount, s.Percent)
}

// Breakdown is the derived presentation of an analysis result.
type Breakdown struct {
	BillTotal float64
	FinalCost float64
	Segments  []Segment
}

// Reconcile derives the breakdown from a settled result. Zero-amount
// segments are suppressed entirely rather than drawn as degenerate shapes.
func Reconcile(r *session.AnalysisResult) Breakdown {
	if r == nil {
		return Breakdown{}
	}

	denom := r.BillTotal
	if denom < 1 {
		denom = 1
	}

	b := Breakdown{
		BillTotal: r.BillTotal,
		FinalCost: r.FinalCost,
	}
	for _, s := range []Segment{
		{Kind: KindPrivate, Amount: r.PrivateCoverage},
		{Kind: KindPublic, Amount: r.PublicCoverage},
		{Kind: KindPatient, Amount: r.FinalCost},
	} {
		if s.Amount == 0 {
			continue
		}
		s.Percent = s.Amount / denom * 100
		b.Segments = append(b.Segments, s)
	}
	return b
}
