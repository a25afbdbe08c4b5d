package validation

import (
	"errors"
	"math"
	"testing"

	tferrors "github.com/vnykmshr/tickflow/pkg/common/errors"
)

func TestValidators(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantReason string
	}{
		{"queue size ok", ValidatePositive("clock", "queue_size", 64), ""},
		{"queue size zero", ValidatePositive("clock", "queue_size", 0), "must be positive"},
		{"queue size negative", ValidatePositive("clock", "queue_size", -1), "must be positive"},

		{"max rate zero", ValidateNonNegative("clock", "max_rate", 0), ""},
		{"max rate negative", ValidateNonNegative("clock", "max_rate", -0.001), "cannot be negative"},
		{"max rate NaN", ValidateNonNegative("clock", "max_rate", math.NaN()), "must be a number"},
		{"until infinite", ValidateNonNegative("score", "until", math.Inf(1)), ""},

		{"freq ok", ValidatePositiveFloat("scheduler", "freq_hz", 1e-10), ""},
		{"freq zero", ValidatePositiveFloat("scheduler", "freq_hz", 0), "must be positive"},
		{"freq negative infinity", ValidatePositiveFloat("scheduler", "freq_hz", math.Inf(-1)), "must be positive"},
		{"freq infinite", ValidatePositiveFloat("scheduler", "freq_hz", math.Inf(1)), "must be a finite number"},
		{"freq NaN", ValidatePositiveFloat("scheduler", "freq_hz", math.NaN()), "must be a finite number"},

		{"callback set", ValidateNotNil("scheduler", "callback", func() {}), ""},
		{"callback nil", ValidateNotNil("scheduler", "callback", nil), "cannot be nil"},
		{"typed nil pointer", ValidateNotNil("scheduler", "clock", (*int)(nil)), ""},

		{"cron set", ValidateNotEmpty("scheduler", "cron", "@hourly"), ""},
		{"cron whitespace", ValidateNotEmpty("scheduler", "cron", " "), ""},
		{"cron empty", ValidateNotEmpty("scheduler", "cron", ""), "cannot be empty"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantReason == "" {
				if tt.err != nil {
					t.Fatalf("unexpected error: %v", tt.err)
				}
				return
			}
			var verr *tferrors.ValidationError
			if !errors.As(tt.err, &verr) {
				t.Fatalf("expected ValidationError, got %T (%v)", tt.err, tt.err)
			}
			if verr.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", verr.Reason, tt.wantReason)
			}
			if verr.Hint == "" {
				t.Error("expected a hint")
			}
			if !errors.Is(tt.err, tferrors.ErrInvalidConfiguration) {
				t.Error("expected ErrInvalidConfiguration in chain")
			}
		})
	}
}

func TestValidateFinite(t *testing.T) {
	tests := []struct {
		name      string
		value     float64
		wantError bool
	}{
		{"zero", 0, false},
		{"negative zero", math.Copysign(0, -1), false},
		{"negative offset", -3, false},
		{"largest float", math.MaxFloat64, false},
		{"most negative float", -math.MaxFloat64, false},
		{"smallest subnormal", math.SmallestNonzeroFloat64, false},
		{"NaN", math.NaN(), true},
		{"positive infinity", math.Inf(1), true},
		{"negative infinity", math.Inf(-1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFinite("scheduler", "time_offset", tt.value)
			if (err != nil) != tt.wantError {
				t.Fatalf("ValidateFinite(%v) error = %v, wantError %v", tt.value, err, tt.wantError)
			}
			if err != nil && !tferrors.IsValidationError(err) {
				t.Errorf("expected ValidationError, got %T", err)
			}
		})
	}
}

func TestValidationErrorNamesField(t *testing.T) {
	err := ValidateNotEmpty("score", "cues[2].name", "")

	var verr *tferrors.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Module != "score" || verr.Field != "cues[2].name" {
		t.Errorf("got %s/%s, want score/cues[2].name", verr.Module, verr.Field)
	}
	if verr.Hint != "provide a non-empty cues[2].name" {
		t.Errorf("Hint = %q", verr.Hint)
	}
}
