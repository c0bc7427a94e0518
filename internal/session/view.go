package session

// View identifies which of the six screens is active. Exactly one view is
// active at any time; transitions outside the legal table are no-ops at the
// orchestrator level.
type View int

const (
	ViewLanding View = iota
	ViewProfileCollection
	ViewIntake
	ViewLiveProgress
	ViewResults
	ViewClaimsList
)

// String returns the short name used in logs.
func (v View) String() string {
	switch v {
	case ViewLanding:
		return "landing"
	case ViewProfileCollection:
		return "profile"
	case ViewIntake:
		return "intake"
	case ViewLiveProgress:
		return "progress"
	case ViewResults:
		return "results"
	case ViewClaimsList:
		return "claims"
	default:
		return "unknown"
	}
}

// legalTransitions is the adjacency table of the view state machine.
// Landing branches to ProfileCollection or Intake depending on whether a
// remote profile was found. LiveProgress reaches Results only via an
// explicit user confirmation once the analysis settles; that guard lives in
// State.Transition, not here.
var legalTransitions = map[View][]View{
	ViewLanding:           {ViewProfileCollection, ViewIntake},
	ViewProfileCollection: {ViewIntake},
	ViewIntake:            {ViewLiveProgress},
	ViewLiveProgress:      {ViewResults},
	ViewResults:           {ViewClaimsList},
	ViewClaimsList:        {ViewIntake},
}

// canReach reports whether the raw edge from v to target exists.
func (v View) canReach(target View) bool {
	if v == target {
		return true
	}
	for _, next := range legalTransitions[v] {
		if next == target {
			return true
		}
	}
	return false
}
