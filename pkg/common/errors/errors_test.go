package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelMessages(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrClosed, "resource is closed"},
		{ErrTimeout, "operation timed out"},
		{ErrInvalidConfiguration, "invalid configuration"},
		{ErrAlreadyScheduled, "event already scheduled"},
		{ErrAlreadyRunning, "already running"},
		{ErrNotRunning, "not running"},
		{ErrClockBackwards, "clock cannot move backwards"},
		{ErrCallbackPanic, "callback panicked"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{
			name: "without hint",
			err:  NewValidationError("scheduler", "freq_hz", -1.0, "must be positive"),
			want: "scheduler: invalid freq_hz=-1 (must be positive)",
		},
		{
			name: "with hint",
			err: NewValidationError("scheduler", "time_scale", 0.0, "must be positive").
				WithHint("use a value greater than 0"),
			want: "scheduler: invalid time_scale=0 (must be positive) - use a value greater than 0",
		},
		{
			name: "empty string value",
			err:  NewValidationError("score", "cues[0].cron", "", "cannot be empty"),
			want: "score: invalid cues[0].cron= (cannot be empty)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
			if !errors.Is(tt.err, ErrInvalidConfiguration) {
				t.Error("ValidationError should wrap ErrInvalidConfiguration")
			}
		})
	}

	err := NewValidationError("clock", "dt", 0.0, "must be positive")
	if err.WithHint("a") != err {
		t.Error("WithHint should return the receiver for chaining")
	}
}

func TestOperationError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewOperationError("clock", "Publish", cause).WithContext("channel tickflow:clock")

	if got, want := err.Error(), "clock.Publish failed: connection refused (channel tickflow:clock)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, cause) {
		t.Error("OperationError should wrap its cause")
	}
	if got, want := NewOperationError("scheduler", "Stop", ErrNotRunning).Error(),
		"scheduler.Stop failed: not running"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

// The chains below mirror how the scheduler and clocks report failures.
func TestWrappedSentinels(t *testing.T) {
	panicked := NewOperationError("scheduler", "Evaluate",
		fmt.Errorf("%w: %v", ErrCallbackPanic, "index out of range")).WithContext("event pulse")
	resubmitted := NewOperationError("scheduler", "Schedule", ErrAlreadyScheduled)
	started := NewOperationError("scheduler", "Start", ErrAlreadyRunning)
	backwards := fmt.Errorf("set 1.5: %w", ErrClockBackwards)
	invalid := NewOperationError("score", "Parse", NewValidationError("score", "cues", 0, "cannot be empty"))

	tests := []struct {
		name       string
		err        error
		sentinel   error
		validation bool
		retryable  bool
		temporary  bool
	}{
		{"callback panic", panicked, ErrCallbackPanic, false, false, false},
		{"resubmitted spec", resubmitted, ErrAlreadyScheduled, false, false, false},
		{"double start", started, ErrAlreadyRunning, false, false, false},
		{"clock backwards", backwards, ErrClockBackwards, false, false, false},
		{"wrapped validation", invalid, ErrInvalidConfiguration, true, false, false},
		{"stop while stopped", NewOperationError("scheduler", "Stop", ErrNotRunning), ErrNotRunning, false, true, false},
		{"wrapped timeout", NewOperationError("clock", "Publish", ErrTimeout), ErrTimeout, false, true, true},
		{"relay closed", NewOperationError("clock", "Relay", ErrClosed), ErrClosed, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			if got := IsValidationError(tt.err); got != tt.validation {
				t.Errorf("IsValidationError() = %v, want %v", got, tt.validation)
			}
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable() = %v, want %v", got, tt.retryable)
			}
			if got := IsTemporary(tt.err); got != tt.temporary {
				t.Errorf("IsTemporary() = %v, want %v", got, tt.temporary)
			}
		})
	}
}

func TestClassifiersOnPlainErrors(t *testing.T) {
	for _, err := range []error{nil, errors.New("lamp offline")} {
		if IsValidationError(err) || IsRetryable(err) || IsTemporary(err) {
			t.Errorf("%v classified as a tickflow error", err)
		}
	}
}
