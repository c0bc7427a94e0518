package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "backend.base_url")
	Value   any    // The invalid value
	Message string // Human-readable error description
}

// Error implements the error interface for ValidationError
func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got: %v)", e.Field, e.Message, e.Value)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for ValidationErrors
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	if len(e) == 1 {
		return e[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e)))
	for i, err := range e {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// ValidLogLevels returns the list of valid log levels
func ValidLogLevels() []string {
	return []string{"debug", "info", "warn", "error"}
}

// ValidRegions returns the regions the backend has public-aid rule sets for.
func ValidRegions() []string {
	return []string{"Ontario", "Quebec", "British Columbia", "Alberta", "Manitoba", "Nova Scotia"}
}

// Validate checks the Config for invalid values and returns all validation
// errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	errors = append(errors, c.validateBackend()...)
	errors = append(errors, c.validateTUI()...)
	errors = append(errors, c.validateSession()...)
	errors = append(errors, c.validateLogging()...)

	return errors
}

func (c *Config) validateBackend() []ValidationError {
	var errors []ValidationError

	if c.Backend.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "backend.base_url",
			Value:   c.Backend.BaseURL,
			Message: "must not be empty",
		})
	} else if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "backend.base_url",
			Value:   c.Backend.BaseURL,
			Message: "must be an absolute URL (http://host or https://host)",
		})
	}

	if c.Backend.TimeoutSeconds <= 0 {
		errors = append(errors, ValidationError{
			Field:   "backend.timeout_seconds",
			Value:   c.Backend.TimeoutSeconds,
			Message: "must be positive",
		})
	}

	return errors
}

func (c *Config) validateTUI() []ValidationError {
	var errors []ValidationError

	if c.TUI.RevealIntervalMs < 0 {
		errors = append(errors, ValidationError{
			Field:   "tui.reveal_interval_ms",
			Value:   c.TUI.RevealIntervalMs,
			Message: "must be >= 0 (0 disables pacing)",
		})
	}

	return errors
}

func (c *Config) validateSession() []ValidationError {
	var errors []ValidationError

	if c.Session.Region != "" && !slices.Contains(ValidRegions(), c.Session.Region) {
		errors = append(errors, ValidationError{
			Field:   "session.region",
			Value:   c.Session.Region,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidRegions(), ", ")),
		})
	}

	return errors
}

func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), strings.ToLower(c.Logging.Level)) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	return errors
}
