package bucket

import (
	"testing"

	"github.com/vnykmshr/tickflow/pkg/common/errors"
)

func TestAllowAt(t *testing.T) {
	lim, err := NewSafe(2, 1)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		now  float64
		want bool
	}{
		{0, true},      // full bucket
		{0.125, false}, // 0.25 tokens
		{0.5, true},    // refilled
		{0.625, false},
		{1.0, true},
		{1.0, false},
		{5.0, true}, // capped at burst
		{5.0, false},
	}

	for _, tt := range tests {
		if got := lim.AllowAt(tt.now); got != tt.want {
			t.Errorf("AllowAt(%v) = %v, want %v", tt.now, got, tt.want)
		}
	}
}

func TestAllowNAt(t *testing.T) {
	lim, _ := NewSafe(10, 5)

	if !lim.AllowNAt(0, 5) {
		t.Error("expected full burst to be allowed")
	}
	if lim.AllowNAt(0, 1) {
		t.Error("expected empty bucket to refuse")
	}
	if lim.AllowNAt(10, 6) {
		t.Error("expected n > burst to be refused")
	}
	if !lim.AllowNAt(0.25, 2) {
		t.Error("expected refill of 2.5 tokens after 0.25s")
	}
	if !lim.AllowNAt(0.25, 0) {
		t.Error("expected n = 0 to be allowed")
	}
}

func TestBackwardsTimeAddsNothing(t *testing.T) {
	lim, _ := NewWithConfigSafe(Config{Rate: 1, Burst: 3, InitialTokens: 0, Start: 10})

	if got := lim.TokensAt(5); got != 0 {
		t.Errorf("tokens after moving backwards = %v, want 0", got)
	}
	if got := lim.TokensAt(12); got != 2 {
		t.Errorf("tokens at 12 = %v, want 2", got)
	}
}

func TestInfAndZero(t *testing.T) {
	inf, _ := NewSafe(Inf, 1)
	for i := 0; i < 100; i++ {
		if !inf.AllowAt(0) {
			t.Fatal("Inf limiter refused")
		}
	}

	zero, _ := NewSafe(0, 2)
	if !zero.AllowNAt(0, 2) {
		t.Error("expected initial burst")
	}
	if zero.AllowAt(1000) {
		t.Error("zero rate must not refill")
	}
}

func TestSetLimitAndBurst(t *testing.T) {
	lim, _ := NewSafe(1, 4)
	lim.SetLimit(Every(0.25))
	if lim.Limit() != 4 {
		t.Errorf("Limit = %v, want 4", lim.Limit())
	}

	if err := lim.SetBurst(2); err != nil {
		t.Fatal(err)
	}
	if got := lim.TokensAt(0); got != 2 {
		t.Errorf("tokens after shrinking burst = %v, want 2", got)
	}
	if err := lim.SetBurst(0); !errors.IsValidationError(err) {
		t.Errorf("SetBurst(0) = %v, want ValidationError", err)
	}
	if lim.Burst() != 2 {
		t.Errorf("Burst = %v, want 2", lim.Burst())
	}
}

func TestNewWithConfigSafeValidation(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{"negative rate", Config{Rate: -1, Burst: 1}},
		{"zero burst", Config{Rate: 1, Burst: 0}},
		{"negative burst", Config{Rate: 1, Burst: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewWithConfigSafe(tt.config); !errors.IsValidationError(err) {
				t.Errorf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestEvery(t *testing.T) {
	if Every(0) != Inf {
		t.Error("Every(0) should be Inf")
	}
	if Every(0.5) != 2 {
		t.Errorf("Every(0.5) = %v, want 2", Every(0.5))
	}
}
