package clock

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	tferrors "github.com/vnykmshr/tickflow/pkg/common/errors"
	"github.com/vnykmshr/tickflow/pkg/common/validation"
	"github.com/vnykmshr/tickflow/pkg/ratelimit/bucket"
)

// DefaultRelayChannel is the Redis channel used when none is configured.
const DefaultRelayChannel = "tickflow:clock"

// RelayConfig holds configuration shared by Publisher and RelayClock.
type RelayConfig struct {
	// Redis client used for pub/sub.
	Redis redis.UniversalClient

	// Channel carries tick values (default: DefaultRelayChannel).
	Channel string

	// Timeout bounds each publish (default: 500ms).
	Timeout time.Duration

	// QueueSize bounds pending Do calls on a RelayClock (default: 64).
	QueueSize int

	// MaxRate caps published ticks per second of clock time; ticks over
	// the cap are skipped. Zero publishes every tick.
	MaxRate float64

	// Logger receives relay events. Defaults to a no-op logger.
	Logger *zerolog.Logger
}

func (cfg *RelayConfig) applyDefaults() error {
	if err := validation.ValidateNotNil("clock", "redis", cfg.Redis); err != nil {
		return err
	}
	if cfg.Channel == "" {
		cfg.Channel = DefaultRelayChannel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 500 * time.Millisecond
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 64
	}
	if err := validation.ValidateNonNegative("clock", "max_rate", cfg.MaxRate); err != nil {
		return err
	}
	return validation.ValidatePositive("clock", "queue_size", cfg.QueueSize)
}

func (cfg RelayConfig) logger(component string) zerolog.Logger {
	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	return logger.With().Str("component", component).Str("channel", cfg.Channel).Logger()
}

// Publisher forwards a local clock's ticks to a Redis channel so other
// processes can follow the same timeline with a RelayClock.
type Publisher struct {
	client  redis.UniversalClient
	channel string
	timeout time.Duration
	limiter bucket.Limiter
	logger  zerolog.Logger
}

// NewPublisher creates a publisher.
func NewPublisher(cfg RelayConfig) (*Publisher, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	p := &Publisher{
		client:  cfg.Redis,
		channel: cfg.Channel,
		timeout: cfg.Timeout,
		logger:  cfg.logger("relay_publisher"),
	}
	if cfg.MaxRate > 0 {
		lim, err := bucket.NewWithConfigSafe(bucket.Config{
			Rate:          bucket.Limit(cfg.MaxRate),
			Burst:         1,
			InitialTokens: -1,
			Start:         math.Inf(-1),
		})
		if err != nil {
			return nil, err
		}
		p.limiter = lim
	}
	return p, nil
}

// Publish sends a single tick value.
func (p *Publisher) Publish(ctx context.Context, now float64) error {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if err := p.client.Publish(ctx, p.channel, encodeTick(now)).Err(); err != nil {
		return tferrors.NewOperationError("clock", "Publish", err).
			WithContext("channel " + p.channel)
	}
	return nil
}

// Attach publishes every tick of c until the returned function is called.
// Publish failures are logged and do not stop the source clock.
func (p *Publisher) Attach(ctx context.Context, c Clock) func() {
	return c.OnTick(func(now float64) {
		if p.limiter != nil && !p.limiter.AllowAt(now) {
			return
		}
		if err := p.Publish(ctx, now); err != nil {
			p.logger.Warn().Err(err).Float64("now", now).Msg("tick publish failed")
		}
	})
}

// RelayClock follows tick values published on a Redis channel. Ticks and Do
// calls are delivered on the goroutine running Run. Values that do not move
// time forward are ignored.
type RelayClock struct {
	client  redis.UniversalClient
	channel string
	logger  zerolog.Logger

	mu      sync.Mutex
	now     float64
	running bool

	listeners Listeners
	do        chan func()
}

// NewRelayClock creates a relay clock positioned at 0.
func NewRelayClock(cfg RelayConfig) (*RelayClock, error) {
	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &RelayClock{
		client:  cfg.Redis,
		channel: cfg.Channel,
		logger:  cfg.logger("relay_clock"),
		do:      make(chan func(), cfg.QueueSize),
	}, nil
}

// Now returns the most recently relayed time.
func (c *RelayClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// OnTick registers fn for every relayed tick.
func (c *RelayClock) OnTick(fn TickFunc) func() {
	return c.listeners.Add(fn)
}

// Do queues fn to run on the relay goroutine between ticks.
func (c *RelayClock) Do(ctx context.Context, fn func()) error {
	return enqueue(ctx, c.do, fn)
}

// Run subscribes to the channel and relays ticks until ctx is canceled or
// the subscription closes.
func (c *RelayClock) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return tferrors.ErrAlreadyRunning
	}
	c.running = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.running = false
		c.mu.Unlock()
	}()

	pubsub := c.client.Subscribe(ctx, c.channel)
	defer func() { _ = pubsub.Close() }()

	// Wait for the subscription confirmation so no tick published after Run
	// starts is missed.
	if _, err := pubsub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return tferrors.NewOperationError("clock", "Subscribe", err).WithContext("channel " + c.channel)
	}
	c.logger.Info().Msg("following remote clock")

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-c.do:
			fn()
		case msg, ok := <-msgs:
			if !ok {
				return tferrors.NewOperationError("clock", "Relay", tferrors.ErrClosed).
					WithContext("channel " + c.channel)
			}
			now, err := decodeTick(msg.Payload)
			if err != nil {
				c.logger.Warn().Err(err).Str("payload", msg.Payload).Msg("dropping malformed tick")
				continue
			}
			c.Deliver(now)
		}
	}
}

// Deliver applies a relayed tick value. Run calls it for every message;
// it is exported for replaying captured tick streams.
func (c *RelayClock) Deliver(now float64) bool {
	c.mu.Lock()
	if now <= c.now {
		c.mu.Unlock()
		return false
	}
	c.now = now
	c.mu.Unlock()

	c.listeners.Notify(now)
	return true
}

func encodeTick(now float64) string {
	return strconv.FormatFloat(now, 'g', -1, 64)
}

func decodeTick(payload string) (float64, error) {
	now, err := strconv.ParseFloat(payload, 64)
	if err != nil {
		return 0, fmt.Errorf("decode tick: %w", err)
	}
	if err := validation.ValidateFinite("clock", "tick", now); err != nil {
		return 0, err
	}
	return now, nil
}
