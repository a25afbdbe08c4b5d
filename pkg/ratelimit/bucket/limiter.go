package bucket

import (
	"math"
	"sync"

	"github.com/vnykmshr/tickflow/pkg/common/errors"
)

// Limit represents the maximum frequency of events per logical second.
// A zero Limit allows no events beyond the initial burst. Use Inf for
// unlimited rates.
type Limit float64

// Inf is the infinite rate limit; it allows all events.
var Inf = Limit(math.Inf(1))

// Every converts a minimum interval between events, in seconds, to a Limit.
func Every(interval float64) Limit {
	if interval <= 0 {
		return Inf
	}
	return Limit(1 / interval)
}

// Limiter is a token bucket whose refill is driven by caller-supplied
// logical times instead of the wall clock, so it follows whatever clock
// produced now. Times that move backwards refill nothing.
type Limiter interface {
	AllowAt(now float64) bool
	AllowNAt(now float64, n int) bool

	// SetLimit and SetBurst take effect from the last observed time.
	SetLimit(limit Limit)
	SetBurst(burst int) error

	Limit() Limit
	Burst() int

	// TokensAt reports the tokens that would be available at now without
	// consuming any.
	TokensAt(now float64) float64
}

// Config describes a bucket. Start is the logical time of the initial fill;
// use math.Inf(-1) to have the first call see a full bucket regardless of
// its time.
type Config struct {
	Rate  Limit
	Burst int

	// InitialTokens below zero means a full bucket.
	InitialTokens int

	Start float64
}

type tokenBucket struct {
	mu         sync.Mutex
	limit      Limit
	burst      int
	tokens     float64
	lastUpdate float64
}

// NewSafe creates a full limiter refilled at rate tokens per second.
func NewSafe(rate Limit, burst int) (Limiter, error) {
	return NewWithConfigSafe(Config{
		Rate:          rate,
		Burst:         burst,
		InitialTokens: -1,
	})
}

// NewWithConfigSafe creates a limiter from config, returning a
// ValidationError for invalid settings.
func NewWithConfigSafe(config Config) (Limiter, error) {
	if config.Rate < 0 || math.IsNaN(float64(config.Rate)) {
		return nil, errors.NewValidationError("bucket", "rate", config.Rate, "cannot be negative").
			WithHint("use 0 for a bucket that never refills")
	}
	if config.Burst <= 0 {
		return nil, errors.NewValidationError("bucket", "burst", config.Burst, "must be positive").
			WithHint("burst is the most events allowed at one instant")
	}

	initialTokens := float64(config.InitialTokens)
	if config.InitialTokens < 0 || initialTokens > float64(config.Burst) {
		initialTokens = float64(config.Burst)
	}

	return &tokenBucket{
		limit:      config.Rate,
		burst:      config.Burst,
		tokens:     initialTokens,
		lastUpdate: config.Start,
	}, nil
}
