package progress

import (
	"time"
)

// Pacer controls the cosmetic reveal delay between timeline entries. It is a
// pure sequencing helper: it never sleeps, never fetches, and a zero interval
// disables pacing entirely so tests and impatient users see everything at
// once. The full result is always in hand before pacing starts.
type Pacer struct {
	interval time.Duration
}

// NewPacer creates a pacer with the given reveal interval. A non-positive
// interval disables pacing.
func NewPacer(interval time.Duration) Pacer {
	if interval < 0 {
		interval = 0
	}
	return Pacer{interval: interval}
}

// Enabled reports whether entries are revealed one at a time.
func (p Pacer) Enabled() bool {
	return p.interval > 0
}

// Interval returns the delay between reveals. Zero when pacing is disabled.
func (p Pacer) Interval() time.Duration {
	return p.interval
}

// Reveal returns how many of total entries should be visible after the
// current tick, given shown are visible now. With pacing disabled everything
// is visible immediately.
func (p Pacer) Reveal(shown, total int) int {
	if !p.Enabled() {
		return total
	}
	if shown >= total {
		return total
	}
	return shown + 1
}

// Done reports whether the reveal has caught up with the timeline.
func (p Pacer) Done(shown, total int) bool {
	return shown >= total
}
