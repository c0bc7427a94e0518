package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/salus-health/salus/internal/reconcile"
	"github.com/salus-health/salus/internal/session"
)

// resultsModel is the settled coverage breakdown: a proportional segment bar
// plus the rendered coordination summary.
type resultsModel struct {
	breakdown reconcile.Breakdown
	summary   string
	barWidth  int
}

func newResultsModel(result *session.AnalysisResult, width int) resultsModel {
	barWidth := width - 8
	if barWidth < 20 {
		barWidth = 40
	}
	return resultsModel{
		breakdown: reconcile.Reconcile(result),
		summary:   renderSummary(result),
		barWidth:  barWidth,
	}
}

// renderSummary formats the coordination summary as markdown. Rendering
// failures fall back to the raw text.
func renderSummary(result *session.AnalysisResult) string {
	if result == nil {
		return ""
	}

	var md strings.Builder
	md.WriteString(result.Summary)
	md.WriteString("\n")
	if result.InsurancePlan != "" {
		fmt.Fprintf(&md, "\n- Private plan: **%s**", result.InsurancePlan)
	}
	if result.GovernmentProgram != "" {
		fmt.Fprintf(&md, "\n- Government program: **%s**", result.GovernmentProgram)
	}

	rendered, err := glamour.Render(md.String(), "dark")
	if err != nil {
		return md.String()
	}
	return rendered
}

func segmentStyle(kind reconcile.Kind) lipgloss.Style {
	switch kind {
	case reconcile.KindPrivate:
		return privateSegmentStyle
	case reconcile.KindPublic:
		return publicSegmentStyle
	default:
		return patientSegmentStyle
	}
}

// segmentBar draws each segment independently at its own proportional
// length. Rounding drift is left visible rather than normalized away.
func (rm resultsModel) segmentBar() string {
	var b strings.Builder
	for _, seg := range rm.breakdown.Segments {
		cells := int(seg.Percent / 100 * float64(rm.barWidth))
		if cells < 1 {
			cells = 1
		}
		b.WriteString(segmentStyle(seg.Kind).Render(strings.Repeat("█", cells)))
	}
	return b.String()
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "c":
		if err := m.state.Transition(session.ViewClaimsList); err != nil {
			return m.transitionFailed(err)
		}
		m.claimsView = newClaimsModel()
		return m, m.loadClaimsCmd()
	case "q":
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) viewResults() string {
	rm := m.resultsView
	var b strings.Builder

	b.WriteString(titleStyle.Render("Your coverage"))
	b.WriteString("\n")

	if len(rm.breakdown.Segments) > 0 {
		b.WriteString(rm.segmentBar())
		b.WriteString("\n\n")
		for _, seg := range rm.breakdown.Segments {
			marker := segmentStyle(seg.Kind).Render("■")
			fmt.Fprintf(&b, "%s %s\n", marker, seg.Label())
		}
		b.WriteString("\n")
		fmt.Fprintf(&b, "Bill total: $%.2f\n", rm.breakdown.BillTotal)
		fmt.Fprintf(&b, "%s\n", userStyle.Render(fmt.Sprintf("You pay: $%.2f", rm.breakdown.FinalCost)))
	}

	if rm.summary != "" {
		b.WriteString(rm.summary)
	}

	b.WriteString(helpStyle.Render("\nc claim history · q quit"))
	return b.String()
}
