package clock

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	tferrors "github.com/vnykmshr/tickflow/pkg/common/errors"
	"github.com/vnykmshr/tickflow/pkg/common/validation"
)

// RealtimeConfig holds configuration for a host-timer-driven clock.
type RealtimeConfig struct {
	// Resolution is the tick period (default: 10ms).
	Resolution time.Duration

	// QueueSize bounds the number of pending Do calls (default: 64).
	QueueSize int

	// Logger receives lifecycle events. Defaults to a no-op logger.
	Logger *zerolog.Logger

	// WallClock returns the host time. Defaults to time.Now.
	WallClock func() time.Time
}

// RealtimeClock advances with the host's wall clock. Ticks and Do calls are
// delivered on the goroutine running Run, so a scheduler attached to this
// clock is only ever touched from that goroutine.
type RealtimeClock struct {
	resolution time.Duration
	wall       func() time.Time
	logger     zerolog.Logger

	mu      sync.Mutex
	now     float64
	running bool

	listeners Listeners
	do        chan func()
}

// NewRealtimeClock creates a realtime clock. Time starts at 0 when Run is called.
func NewRealtimeClock(cfg RealtimeConfig) (*RealtimeClock, error) {
	if cfg.Resolution < 0 {
		return nil, tferrors.NewValidationError("clock", "resolution", cfg.Resolution, "cannot be negative").
			WithHint("use 0 for the 10ms default")
	}
	if cfg.Resolution == 0 {
		cfg.Resolution = 10 * time.Millisecond
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 64
	}
	if err := validation.ValidatePositive("clock", "queue_size", cfg.QueueSize); err != nil {
		return nil, err
	}
	if cfg.WallClock == nil {
		cfg.WallClock = time.Now
	}
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}

	return &RealtimeClock{
		resolution: cfg.Resolution,
		wall:       cfg.WallClock,
		logger:     logger.With().Str("component", "realtime_clock").Logger(),
		do:         make(chan func(), cfg.QueueSize),
	}, nil
}

// Now returns the time of the most recent tick.
func (c *RealtimeClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// OnTick registers fn for every tick.
func (c *RealtimeClock) OnTick(fn TickFunc) func() {
	return c.listeners.Add(fn)
}

// Do queues fn to run on the clock's goroutine between ticks. It blocks
// while the queue is full, until ctx is done.
func (c *RealtimeClock) Do(ctx context.Context, fn func()) error {
	return enqueue(ctx, c.do, fn)
}

// Run drives the clock until ctx is canceled. It returns ErrAlreadyRunning
// if another Run is active.
func (c *RealtimeClock) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return tferrors.ErrAlreadyRunning
	}
	c.running = true
	base := c.now
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	ticker := time.NewTicker(c.resolution)
	defer ticker.Stop()

	start := c.wall()
	c.logger.Debug().Dur("resolution", c.resolution).Float64("start", base).Msg("realtime clock started")

	for {
		select {
		case <-ctx.Done():
			c.logger.Debug().Float64("now", c.Now()).Msg("realtime clock stopped")
			return nil
		case fn := <-c.do:
			fn()
		case <-ticker.C:
			now := base + c.wall().Sub(start).Seconds()
			if c.advance(now) {
				c.listeners.Notify(now)
			}
		}
	}
}

func (c *RealtimeClock) advance(now float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if now <= c.now {
		return false
	}
	c.now = now
	return true
}

func enqueue(ctx context.Context, ch chan<- func(), fn func()) error {
	if fn == nil {
		return validation.ValidateNotNil("clock", "fn", nil)
	}
	select {
	case ch <- fn:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
