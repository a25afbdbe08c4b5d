package clock

import (
	"math"
	"sync"

	tferrors "github.com/vnykmshr/tickflow/pkg/common/errors"
	"github.com/vnykmshr/tickflow/pkg/common/validation"
)

// ManualClock is an offline clock that only moves when told to. It produces
// the same tick sequence on every run, which makes it the clock of choice
// for rendering and tests.
type ManualClock struct {
	mu        sync.Mutex
	now       float64
	listeners Listeners
}

// NewManualClock creates a clock positioned at start.
func NewManualClock(start float64) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current time.
func (c *ManualClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// OnTick registers fn for every advance.
func (c *ManualClock) OnTick(fn TickFunc) func() {
	return c.listeners.Add(fn)
}

// Set moves the clock to t and notifies subscribers. Setting the current
// time again is a no-op; moving backwards returns ErrClockBackwards.
func (c *ManualClock) Set(t float64) error {
	if err := validation.ValidateFinite("clock", "time", t); err != nil {
		return err
	}

	c.mu.Lock()
	if t < c.now {
		c.mu.Unlock()
		return tferrors.ErrClockBackwards
	}
	if t == c.now {
		c.mu.Unlock()
		return nil
	}
	c.now = t
	c.mu.Unlock()

	c.listeners.Notify(t)
	return nil
}

// Advance moves the clock forward by dt seconds.
func (c *ManualClock) Advance(dt float64) error {
	if err := validation.ValidateNonNegative("clock", "dt", dt); err != nil {
		return err
	}
	return c.Set(c.Now() + dt)
}

// Step advances the clock n times by dt, producing n ticks.
func (c *ManualClock) Step(n int, dt float64) error {
	if err := validation.ValidatePositiveFloat("clock", "dt", dt); err != nil {
		return err
	}
	start := c.Now()
	for i := 1; i <= n; i++ {
		// Multiply rather than accumulate so long runs land exactly on the grid.
		if err := c.Set(start + float64(i)*dt); err != nil {
			return err
		}
	}
	return nil
}

// RunUntil steps by dt until the clock reaches end. The final tick lands
// exactly on end.
func (c *ManualClock) RunUntil(end, dt float64) error {
	if err := validation.ValidatePositiveFloat("clock", "dt", dt); err != nil {
		return err
	}
	if err := validation.ValidateFinite("clock", "end", end); err != nil {
		return err
	}

	start := c.Now()
	steps := int(math.Ceil((end - start) / dt))
	for i := 1; i < steps; i++ {
		if err := c.Set(start + float64(i)*dt); err != nil {
			return err
		}
	}
	return c.Set(math.Max(end, c.Now()))
}
