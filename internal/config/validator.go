package config

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError represents a single validation failure
type ValidationError struct {
	Field   string // The config field path (e.g., "simulate.interval_ms")
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

// Limits enforced by Validate. Sizes are in MB, times in milliseconds.
const (
	maxLogSizeMB     = 1000
	maxBridges       = 1000
	minIntervalMs    = 10
	maxGeometry      = 1000
	maxPromptTimeout = 10 * 60 * 1000
)

// Validate checks the Config for invalid values and returns all validation errors found
func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Logging config
	errors = append(errors, c.validateLogging()...)

	// Validate Simulate config
	errors = append(errors, c.validateSimulate()...)

	return errors
}

// validateLogging validates the LoggingConfig
func (c *Config) validateLogging() []ValidationError {
	var errors []ValidationError

	// Validate log level
	if c.Logging.Level != "" && !slices.Contains(ValidLogLevels(), c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Value:   c.Logging.Level,
			Message: fmt.Sprintf("must be one of: %s", strings.Join(ValidLogLevels(), ", ")),
		})
	}

	// Max size must be positive
	if c.Logging.MaxSizeMB <= 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: "must be positive",
		})
	}

	// Reasonable upper bound for log file size
	if c.Logging.MaxSizeMB > maxLogSizeMB {
		errors = append(errors, ValidationError{
			Field:   "logging.max_size_mb",
			Value:   c.Logging.MaxSizeMB,
			Message: fmt.Sprintf("exceeds maximum of %dMB", maxLogSizeMB),
		})
	}

	// Max backups must be non-negative
	if c.Logging.MaxBackups < 0 {
		errors = append(errors, ValidationError{
			Field:   "logging.max_backups",
			Value:   c.Logging.MaxBackups,
			Message: "must be non-negative",
		})
	}

	return errors
}

// validateSimulate validates the SimulateConfig
func (c *Config) validateSimulate() []ValidationError {
	var errors []ValidationError
	s := c.Simulate

	if s.Bridges < 0 || s.Bridges > maxBridges {
		errors = append(errors, ValidationError{
			Field:   "simulate.bridges",
			Value:   s.Bridges,
			Message: fmt.Sprintf("must be between 0 and %d", maxBridges),
		})
	}

	if s.IntervalMs < minIntervalMs {
		errors = append(errors, ValidationError{
			Field:   "simulate.interval_ms",
			Value:   s.IntervalMs,
			Message: fmt.Sprintf("must be at least %d", minIntervalMs),
		})
	}

	for _, dim := range []struct {
		field string
		value int
	}{
		{"simulate.cols", s.Cols},
		{"simulate.rows", s.Rows},
	} {
		if dim.value <= 0 || dim.value > maxGeometry {
			errors = append(errors, ValidationError{
				Field:   dim.field,
				Value:   dim.value,
				Message: fmt.Sprintf("must be between 1 and %d", maxGeometry),
			})
		}
	}

	if s.PromptTimeoutMs <= 0 || s.PromptTimeoutMs > maxPromptTimeout {
		errors = append(errors, ValidationError{
			Field:   "simulate.prompt_timeout_ms",
			Value:   s.PromptTimeoutMs,
			Message: fmt.Sprintf("must be between 1 and %d", maxPromptTimeout),
		})
	}

	return errors
}
