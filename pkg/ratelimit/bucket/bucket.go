package bucket

import (
	"math"

	"github.com/vnykmshr/tickflow/pkg/common/errors"
)

// AllowAt reports whether an event may happen at now.
func (tb *tokenBucket) AllowAt(now float64) bool {
	return tb.AllowNAt(now, 1)
}

// AllowNAt reports whether n events may happen at now and takes their
// tokens if so.
func (tb *tokenBucket) AllowNAt(now float64, n int) bool {
	if n <= 0 {
		return true
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	if tb.limit == Inf {
		return true
	}
	if n > tb.burst {
		return false
	}

	tb.updateTokens(now)
	if tb.tokens < float64(n) {
		return false
	}
	tb.tokens -= float64(n)
	return true
}

// SetLimit changes the rate limit. Tokens accrued so far are kept.
func (tb *tokenBucket) SetLimit(newLimit Limit) {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	tb.limit = newLimit
}

// SetBurst changes the burst size.
func (tb *tokenBucket) SetBurst(newBurst int) error {
	if newBurst <= 0 {
		return errors.NewValidationError("bucket", "burst", newBurst, "must be positive")
	}

	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.burst = newBurst

	// Limit tokens to new burst capacity
	if tb.tokens > float64(newBurst) {
		tb.tokens = float64(newBurst)
	}
	return nil
}

// Limit returns the current rate limit.
func (tb *tokenBucket) Limit() Limit {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.limit
}

// Burst returns the current burst size.
func (tb *tokenBucket) Burst() int {
	tb.mu.Lock()
	defer tb.mu.Unlock()
	return tb.burst
}

// TokensAt returns the number of tokens available at now.
func (tb *tokenBucket) TokensAt(now float64) float64 {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	tb.updateTokens(now)
	return tb.tokens
}

// updateTokens refills the bucket for the time elapsed since the last
// update. Time that moves backwards adds nothing. Caller holds tb.mu.
func (tb *tokenBucket) updateTokens(now float64) {
	elapsed := now - tb.lastUpdate
	if elapsed <= 0 || math.IsNaN(elapsed) {
		return
	}
	tb.lastUpdate = now

	if tb.limit <= 0 {
		return
	}
	tb.tokens = math.Min(float64(tb.burst), tb.tokens+elapsed*float64(tb.limit))
}
