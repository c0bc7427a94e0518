package reconcile

import (
	"math"
	"testing"

	"github.com/salus-health/salus/internal/session"
)

func almost(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestReconcile_SuppressesZeroSegments(t *testing.T) {
	b := Reconcile(&session.AnalysisResult{
		BillTotal:       5000,
		PrivateCoverage: 4000,
		PublicCoverage:  1000,
		FinalCost:       0,
	})

	if len(b.Segments) != 2 {
		t.Fatalf("got %d segments, want 2 (patient suppressed)", len(b.Segments))
	}
	if b.Segments[0].Kind != KindPrivate || !almost(b.Segments[0].Percent, 80) {
		t.Errorf("private segment = %+v, want 80%%", b.Segments[0])
	}
	if b.Segments[1].Kind != KindPublic || !almost(b.Segments[1].Percent, 20) {
		t.Errorf("public segment = %+v, want 20%%", b.Segments[1])
	}
}

func TestReconcile_ZeroTotal(t *testing.T) {
	b := Reconcile(&session.AnalysisResult{
		BillTotal:       0,
		PrivateCoverage: 0,
		PublicCoverage:  0,
		FinalCost:       0,
	})

	if len(b.Segments) != 0 {
		t.Errorf("got %d segments for zeroed result, want 0", len(b.Segments))
	}
}

func TestReconcile_ZeroTotalNonZeroCoverage(t *testing.T) {
	// Denominator clamps to 1; no division error, no normalization.
	b := Reconcile(&session.AnalysisResult{
		BillTotal:       0,
		PrivateCoverage: 50,
		FinalCost:       0,
	})

	if len(b.Segments) != 1 {
		t.Fatalf("got %d segments, want 1", len(b.Segments))
	}
	if !almost(b.Segments[0].Percent, 5000) {
		t.Errorf("percent = %v, want 5000 (50 / max(0,1) * 100)", b.Segments[0].Percent)
	}
}

func TestReconcile_RoundingNotCorrected(t *testing.T) {
	// Figures that do not sum to the total stay as-is.
	b := Reconcile(&session.AnalysisResult{
		BillTotal:       300,
		PrivateCoverage: 100,
		PublicCoverage:  100,
		FinalCost:       99.99,
	})

	var sum float64
	for _, s := range b.Segments {
		sum += s.Percent
	}
	if almost(sum, 100) {
		t.Errorf("percentages sum to exactly 100 (%v); expected uncorrected undershoot", sum)
	}
}

func TestReconcile_Nil(t *testing.T) {
	b := Reconcile(nil)
	if len(b.Segments) != 0 || b.BillTotal != 0 {
		t.Errorf("Reconcile(nil) = %+v, want zero breakdown", b)
	}
}

func TestSegment_Label(t *testing.T) {
	s := Segment{Kind: KindPrivate, Amount: 3500, Percent: 70}
	want := "private insurance: $3500.00 (70.0%)"
	if got := s.Label(); got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}
