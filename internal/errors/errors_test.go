package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSeverity_String(t *testing.T) {
	tests := []struct {
		severity Severity
		want     string
	}{
		{SeverityDebug, "debug"},
		{SeverityInfo, "info"},
		{SeverityWarning, "warning"},
		{SeverityError, "error"},
		{SeverityCritical, "critical"},
		{Severity(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.severity.String(); got != tt.want {
				t.Errorf("Severity.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBridgeError(t *testing.T) {
	err := NewBridgeError("open view", ErrBridgeNotFound).WithBridgeID("b-1")

	want := "bridge error [bridge=b-1]: open view: bridge not found"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrBridgeNotFound) {
		t.Error("expected errors.Is to match ErrBridgeNotFound")
	}
	if err.Severity() != SeverityWarning {
		t.Errorf("Severity() = %v, want %v", err.Severity(), SeverityWarning)
	}

	noID := NewBridgeError("prompt", nil).WithSeverity(SeverityError)
	if noID.Error() != "bridge error: prompt" {
		t.Errorf("Error() = %q", noID.Error())
	}
	if GetSeverity(noID) != SeverityError {
		t.Errorf("GetSeverity() = %v, want error", GetSeverity(noID))
	}
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("bridge", "abc")
	if err.Error() != "bridge 'abc' not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !Is(err, ErrBridgeNotFound) {
		t.Error("bridge NotFoundError should match ErrBridgeNotFound")
	}
	if Is(NewNotFoundError("surface", "x"), ErrBridgeNotFound) {
		t.Error("non-bridge NotFoundError should not match ErrBridgeNotFound")
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrNotAttached, true},
		{"wrapped sentinel", fmt.Errorf("ctx: %w", ErrNoPromptHandler), true},
		{"bridge error", NewBridgeError("x", nil), true},
		{"not found", NewNotFoundError("bridge", "1"), true},
		{"plain", New("boom"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUserFacing(tt.err); got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, "x") != nil {
		t.Error("Wrap(nil) should be nil")
	}
	err := Wrapf(ErrDispatcherClosed, "post %d", 3)
	if !Is(err, ErrDispatcherClosed) {
		t.Error("Wrapf should preserve the chain")
	}
	if err.Error() != "post 3: dispatcher closed" {
		t.Errorf("Error() = %q", err.Error())
	}
}
