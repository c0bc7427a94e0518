package progress

import (
	"reflect"
	"testing"
	"time"
)

func TestProject(t *testing.T) {
	lines := []string{
		"Extractor: Starting bill analysis...",
		"Extractor: Total bill amount: $5,000.00",
		"Adjuster Agent: Querying insurance database...",
		"Adjuster Agent [REASONING]: High deductible plan detected",
		"Social Worker Agent: Found 2 applicable program(s)",
		"Coordinator Agent: Coordination of Benefits complete!",
	}

	entries := Project(lines)
	if len(entries) != len(lines) {
		t.Fatalf("Project() returned %d entries, want %d", len(entries), len(lines))
	}

	wantAgents := []string{
		"Extractor", "Extractor", "Adjuster Agent", "Adjuster Agent",
		"Social Worker Agent", "Coordinator Agent",
	}
	for i, e := range entries {
		if e.Agent != wantAgents[i] {
			t.Errorf("entry %d agent = %q, want %q", i, e.Agent, wantAgents[i])
		}
	}
	if entries[0].Message != "Starting bill analysis..." {
		t.Errorf("entry 0 message = %q", entries[0].Message)
	}
}

func TestProject_Idempotent(t *testing.T) {
	lines := []string{
		"Extractor: Starting bill analysis...",
		"Adjuster Agent: LLM unavailable, using fallback calculation...",
		"progress without a tag",
	}

	first := Project(lines)
	second := Project(lines)
	if !reflect.DeepEqual(first, second) {
		t.Error("Project() is not idempotent for identical input")
	}
}

func TestProject_UntaggedAndBlankLines(t *testing.T) {
	entries := Project([]string{
		"",
		"   ",
		"no colon here",
		"This sentence has a colon much too far along to be an agent tag: see?",
	})

	if len(entries) != 2 {
		t.Fatalf("Project() returned %d entries, want 2 (blanks dropped)", len(entries))
	}
	for i, e := range entries {
		if e.Agent != "" {
			t.Errorf("entry %d agent = %q, want untagged", i, e.Agent)
		}
	}
}

func TestProject_Levels(t *testing.T) {
	tests := []struct {
		line string
		want Level
	}{
		{"Extractor: Total bill amount: $100.00", LevelInfo},
		{"Adjuster Agent: LLM unavailable, using fallback calculation...", LevelWarning},
		{"Coordinator Agent: Error contacting benefits database", LevelError},
		{"Social Worker Agent: Query failed, retrying", LevelError},
	}

	for _, tt := range tests {
		entries := Project([]string{tt.line})
		if len(entries) != 1 {
			t.Fatalf("Project(%q) returned %d entries", tt.line, len(entries))
		}
		if entries[0].Level != tt.want {
			t.Errorf("Project(%q) level = %v, want %v", tt.line, entries[0].Level, tt.want)
		}
	}
}

func TestCurrentAgent(t *testing.T) {
	entries := Project([]string{
		"Extractor: Starting bill analysis...",
		"Adjuster Agent: Initializing...",
		"untagged line",
	})

	if got := CurrentAgent(entries); got != "Adjuster Agent" {
		t.Errorf("CurrentAgent() = %q, want Adjuster Agent (skipping untagged)", got)
	}
	if got := CurrentAgent(nil); got != "" {
		t.Errorf("CurrentAgent(nil) = %q, want empty", got)
	}
}

func TestStatusLabel(t *testing.T) {
	tests := []struct {
		agent string
		want  string
	}{
		{"Extractor", "Reading your bill"},
		{"Adjuster Agent", "Checking your private insurance"},
		{"Social Worker Agent", "Searching government programs"},
		{"Coordinator Agent", "Coordinating your benefits"},
		{"Mystery Agent", "running"},
		{"", "running"},
	}

	for _, tt := range tests {
		if got := StatusLabel(tt.agent); got != tt.want {
			t.Errorf("StatusLabel(%q) = %q, want %q", tt.agent, got, tt.want)
		}
	}
}

func TestPacer_Disabled(t *testing.T) {
	p := NewPacer(0)
	if p.Enabled() {
		t.Error("Enabled() = true for zero interval")
	}
	if got := p.Reveal(0, 7); got != 7 {
		t.Errorf("Reveal(0, 7) = %d, want 7 (everything at once)", got)
	}
	if !p.Done(7, 7) {
		t.Error("Done(7, 7) = false")
	}
}

func TestPacer_RevealsOneAtATime(t *testing.T) {
	p := NewPacer(600 * time.Millisecond)
	if !p.Enabled() {
		t.Fatal("Enabled() = false for positive interval")
	}

	shown := 0
	for i := 1; i <= 3; i++ {
		shown = p.Reveal(shown, 3)
		if shown != i {
			t.Fatalf("reveal step %d: shown = %d", i, shown)
		}
	}
	if got := p.Reveal(shown, 3); got != 3 {
		t.Errorf("Reveal past end = %d, want 3", got)
	}
	if !p.Done(shown, 3) {
		t.Error("Done() = false after full reveal")
	}
}

func TestPacer_NegativeIntervalDisables(t *testing.T) {
	p := NewPacer(-time.Second)
	if p.Enabled() {
		t.Error("Enabled() = true for negative interval")
	}
}
