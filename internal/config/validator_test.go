package config

import (
	"strings"
	"testing"
)

func validConfig() *Config {
	return Default()
}

func TestValidate_Backend(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty_base_url",
			mutate:    func(c *Config) { c.Backend.BaseURL = "" },
			wantField: "backend.base_url",
		},
		{
			name:      "relative_base_url",
			mutate:    func(c *Config) { c.Backend.BaseURL = "localhost:8000" },
			wantField: "backend.base_url",
		},
		{
			name:      "zero_timeout",
			mutate:    func(c *Config) { c.Backend.TimeoutSeconds = 0 },
			wantField: "backend.timeout_seconds",
		},
		{
			name:      "negative_timeout",
			mutate:    func(c *Config) { c.Backend.TimeoutSeconds = -5 },
			wantField: "backend.timeout_seconds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			errs := cfg.Validate()
			if len(errs) == 0 {
				t.Fatal("Validate() returned no errors")
			}
			found := false
			for _, e := range errs {
				if e.Field == tt.wantField {
					found = true
				}
			}
			if !found {
				t.Errorf("Validate() errors = %v, want error on field %q", errs, tt.wantField)
			}
		})
	}
}

func TestValidate_NegativeRevealInterval(t *testing.T) {
	cfg := validConfig()
	cfg.TUI.RevealIntervalMs = -1

	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "tui.reveal_interval_ms" {
		t.Errorf("Validate() = %v, want single error on tui.reveal_interval_ms", errs)
	}
}

func TestValidate_UnknownRegion(t *testing.T) {
	cfg := validConfig()
	cfg.Session.Region = "Atlantis"

	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "session.region" {
		t.Errorf("Validate() = %v, want single error on session.region", errs)
	}
}

func TestValidate_BadLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	errs := cfg.Validate()
	if len(errs) != 1 || errs[0].Field != "logging.level" {
		t.Errorf("Validate() = %v, want single error on logging.level", errs)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Value: 1, Message: "bad"},
		{Field: "b", Value: "x", Message: "worse"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "2 validation errors") {
		t.Errorf("Error() = %q, want count header", msg)
	}
	if !strings.Contains(msg, "a: bad") || !strings.Contains(msg, "b: worse") {
		t.Errorf("Error() = %q, missing individual errors", msg)
	}

	single := ValidationErrors{{Field: "a", Value: 1, Message: "bad"}}
	if strings.Contains(single.Error(), "validation errors") {
		t.Errorf("single error should not include count header: %q", single.Error())
	}
}
