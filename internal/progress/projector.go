// Package progress turns the backend's raw analysis log lines into a paced,
// append-only timeline. Projection is a pure function of the full log
// sequence: the caller hands over everything it has on each update and gets
// identical entries for identical input. Completion is the caller's call,
// never inferred from the logs going quiet.
package progress

import (
	"strings"
)

// Level classifies a log entry for display.
type Level int

const (
	LevelInfo Level = iota
	LevelWarning
	LevelError
)

// String returns the display name of the level.
func (l Level) String() string {
	switch l {
	case LevelWarning:
		return "warning"
	case LevelError:
		return "error"
	default:
		return "info"
	}
}

// Entry is one derived timeline entry.
type Entry struct {
	Agent   string
	Message string
	Level   Level
	Raw     string
}

// Agent display phrases. Unknown producers fall back to a generic label.
var statusLabels = map[string]string{
	"Extractor":           "Reading your bill",
	"Adjuster Agent":      "Checking your private insurance",
	"Social Worker Agent": "Searching government programs",
	"Coordinator Agent":   "Coordinating your benefits",
}

const fallbackLabel = "running"

// maxAgentPrefix bounds how much of a line can be an agent tag. Anything
// longer before the first colon is message text, not a producer name.
const maxAgentPrefix = 40

// Project derives display entries from the raw log sequence. Blank lines are
// dropped; everything else produces exactly one entry in input order.
func Project(lines []string) []Entry {
	entries := make([]Entry, 0, len(lines))
	for _, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}

		agent, message := splitAgent(trimmed)
		entries = append(entries, Entry{
			Agent:   agent,
			Message: message,
			Level:   classify(trimmed),
			Raw:     raw,
		})
	}
	return entries
}

// CurrentAgent returns the producer of the most recent entry, or "" when the
// timeline is empty.
func CurrentAgent(entries []Entry) string {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Agent != "" {
			return entries[i].Agent
		}
	}
	return ""
}

// StatusLabel maps an agent name to its display phrase.
func StatusLabel(agent string) string {
	if label, ok := statusLabels[agent]; ok {
		return label
	}
	return fallbackLabel
}

// splitAgent separates an optional "<Agent>: " prefix from the message. The
// prefix is only honored when it is short enough to be a name; a colon deep
// inside prose stays part of the message.
func splitAgent(line string) (agent, message string) {
	idx := strings.Index(line, ":")
	if idx <= 0 || idx > maxAgentPrefix {
		return "", line
	}
	prefix := strings.TrimSpace(line[:idx])
	rest := strings.TrimSpace(line[idx+1:])
	if prefix == "" || rest == "" {
		return "", line
	}
	// Bracketed qualifiers like "Adjuster Agent [REASONING]" collapse to
	// the bare agent name.
	if b := strings.Index(prefix, "["); b > 0 {
		prefix = strings.TrimSpace(prefix[:b])
	}
	return prefix, rest
}

func classify(line string) Level {
	lower := strings.ToLower(line)
	switch {
	case strings.Contains(lower, "error") || strings.Contains(lower, "failed"):
		return LevelError
	case strings.Contains(lower, "warning") || strings.Contains(lower, "unavailable") ||
		strings.Contains(lower, "fallback"):
		return LevelWarning
	default:
		return LevelInfo
	}
}
