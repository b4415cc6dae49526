package config

import (
	"strings"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	err := ValidationError{
		Field:   "simulate.bridges",
		Value:   -1,
		Message: "must be between 0 and 1000",
	}

	expected := "simulate.bridges: must be between 0 and 1000 (got: -1)"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Run("empty errors", func(t *testing.T) {
		var errs ValidationErrors
		if errs.Error() != "" {
			t.Errorf("Error() for empty = %q, want empty string", errs.Error())
		}
	})

	t.Run("single error", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "logging.level", Value: "loud", Message: "is invalid"},
		}
		expected := "logging.level: is invalid (got: loud)"
		if errs.Error() != expected {
			t.Errorf("Error() = %q, want %q", errs.Error(), expected)
		}
	})

	t.Run("multiple errors", func(t *testing.T) {
		errs := ValidationErrors{
			{Field: "field1", Value: "bad", Message: "is invalid"},
			{Field: "field2", Value: -1, Message: "must be positive"},
		}
		result := errs.Error()
		if !strings.Contains(result, "2 validation errors") {
			t.Errorf("Error() should mention 2 errors: %s", result)
		}
		if !strings.Contains(result, "1. field1") || !strings.Contains(result, "2. field2") {
			t.Errorf("Error() should number both fields: %s", result)
		}
	})
}

func TestConfig_Validate_DefaultConfig(t *testing.T) {
	cfg := Default()
	errs := cfg.Validate()
	if len(errs) != 0 {
		t.Errorf("Default config should be valid, got %d errors: %v", len(errs), errs)
	}
}

// fields returns the field names of errs in order.
func fields(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Field
	}
	return out
}

func TestConfig_Validate_Logging(t *testing.T) {
	for _, level := range ValidLogLevels() {
		t.Run("valid level "+level, func(t *testing.T) {
			cfg := Default()
			cfg.Logging.Level = level
			if errs := cfg.Validate(); len(errs) != 0 {
				t.Errorf("level %q should be valid, got %v", level, errs)
			}
		})
	}

	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{
			name:      "unknown level",
			modify:    func(c *Config) { c.Logging.Level = "verbose" },
			wantField: "logging.level",
		},
		{
			name:      "level is case sensitive",
			modify:    func(c *Config) { c.Logging.Level = "INFO" },
			wantField: "logging.level",
		},
		{
			name:      "zero max size",
			modify:    func(c *Config) { c.Logging.MaxSizeMB = 0 },
			wantField: "logging.max_size_mb",
		},
		{
			name:      "max size too large",
			modify:    func(c *Config) { c.Logging.MaxSizeMB = 2000 },
			wantField: "logging.max_size_mb",
		},
		{
			name:      "negative backups",
			modify:    func(c *Config) { c.Logging.MaxBackups = -1 },
			wantField: "logging.max_backups",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()
			if len(errs) != 1 || errs[0].Field != tt.wantField {
				t.Errorf("Validate() fields = %v, want [%s]", fields(errs), tt.wantField)
			}
		})
	}

	t.Run("empty level and zero backups are valid", func(t *testing.T) {
		cfg := Default()
		cfg.Logging.Level = ""
		cfg.Logging.MaxBackups = 0
		if errs := cfg.Validate(); len(errs) != 0 {
			t.Errorf("expected no errors, got %v", errs)
		}
	})
}

func TestConfig_Validate_Simulate(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*Config)
		wantField string
	}{
		{name: "no bridges", modify: func(c *Config) { c.Simulate.Bridges = 0 }},
		{name: "max bridges", modify: func(c *Config) { c.Simulate.Bridges = maxBridges }},
		{
			name:      "negative bridges",
			modify:    func(c *Config) { c.Simulate.Bridges = -1 },
			wantField: "simulate.bridges",
		},
		{
			name:      "too many bridges",
			modify:    func(c *Config) { c.Simulate.Bridges = maxBridges + 1 },
			wantField: "simulate.bridges",
		},
		{name: "minimum interval", modify: func(c *Config) { c.Simulate.IntervalMs = minIntervalMs }},
		{
			name:      "interval too short",
			modify:    func(c *Config) { c.Simulate.IntervalMs = minIntervalMs - 1 },
			wantField: "simulate.interval_ms",
		},
		{name: "negative seed", modify: func(c *Config) { c.Simulate.Seed = -7 }},
		{
			name:      "zero cols",
			modify:    func(c *Config) { c.Simulate.Cols = 0 },
			wantField: "simulate.cols",
		},
		{
			name:      "rows too large",
			modify:    func(c *Config) { c.Simulate.Rows = maxGeometry + 1 },
			wantField: "simulate.rows",
		},
		{
			name:      "zero prompt timeout",
			modify:    func(c *Config) { c.Simulate.PromptTimeoutMs = 0 },
			wantField: "simulate.prompt_timeout_ms",
		},
		{
			name:      "prompt timeout too long",
			modify:    func(c *Config) { c.Simulate.PromptTimeoutMs = maxPromptTimeout + 1 },
			wantField: "simulate.prompt_timeout_ms",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			errs := cfg.Validate()
			if tt.wantField == "" {
				if len(errs) != 0 {
					t.Errorf("expected no errors, got %v", errs)
				}
				return
			}
			if len(errs) != 1 || errs[0].Field != tt.wantField {
				t.Errorf("Validate() fields = %v, want [%s]", fields(errs), tt.wantField)
			}
		})
	}
}

func TestValidLogLevels(t *testing.T) {
	levels := ValidLogLevels()
	expected := []string{"debug", "info", "warn", "error"}

	if len(levels) != len(expected) {
		t.Fatalf("ValidLogLevels() returned %d levels, want %d", len(levels), len(expected))
	}
	for i, level := range expected {
		if levels[i] != level {
			t.Errorf("ValidLogLevels()[%d] = %q, want %q", i, levels[i], level)
		}
	}
}

func TestConfig_Validate_MultipleErrors(t *testing.T) {
	cfg := Default()
	cfg.Logging.Level = "invalid"
	cfg.Simulate.IntervalMs = 0
	cfg.Simulate.Cols = -1

	errs := cfg.Validate()
	want := []string{"logging.level", "simulate.interval_ms", "simulate.cols"}
	got := fields(errs)
	if len(got) != len(want) {
		t.Fatalf("Validate() fields = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
