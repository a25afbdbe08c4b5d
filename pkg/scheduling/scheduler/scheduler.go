package scheduler

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/tickflow/pkg/clock"
	tferrors "github.com/vnykmshr/tickflow/pkg/common/errors"
	"github.com/vnykmshr/tickflow/pkg/common/validation"
	"github.com/vnykmshr/tickflow/pkg/scheduling/pqueue"
)

// Scheduler fires callbacks at logical clock times.
//
// A Scheduler is not safe for concurrent use. Every call, including Tick,
// must come from the goroutine that drives its clock.
type Scheduler interface {
	// Schedule submits spec and returns it as the cancellation handle.
	// A spec that is already due fires before Schedule returns.
	Schedule(spec *Spec) (*Spec, error)

	// ScheduleAll submits specs in order, each independently. The result
	// has one entry per input, nil where submission failed, and the
	// error joins every failure.
	ScheduleAll(specs []*Spec) ([]*Spec, error)

	// Once fires cb a single time, offset seconds from now.
	Once(offset float64, cb Callback) (*Spec, error)

	// Repeat fires cb freqHz times per second starting offset seconds from
	// now, up to and including end seconds from now. Pass NoEnd for an
	// unbounded repeat; an end of 0 fires once, at submission.
	//
	// Occurrences follow the grid offset + k/freqHz rather than the tick
	// times that fired them. A tick that arrives late fires every occurrence
	// it skipped, in order, each seeing that tick's now.
	Repeat(freqHz float64, cb Callback, offset, end float64) (*Spec, error)

	// Cron fires cb on every instant of expr, mapped through Config.Origin,
	// up to and including end seconds from now. Pass NoEnd for no bound.
	Cron(expr string, cb Callback, end float64) (*Spec, error)

	// Tick fires every event due at or before now. A NaN or infinite now is
	// ignored.
	Tick(now float64)

	// Clear cancels spec. It returns false if spec is not pending.
	Clear(spec *Spec) bool

	// ClearAll cancels every pending event.
	ClearAll()

	// SetTimeScale changes the time scale and reschedules pending events.
	SetTimeScale(scale float64) error
	TimeScale() float64

	// Now returns the scheduler's notion of the current time.
	Now() float64

	Pending() int
	List() []Event
	Stats() Stats

	// Start subscribes Tick to the clock. Stop unsubscribes it.
	Start() error
	Stop() error
}

// Config holds scheduler configuration.
type Config struct {
	// Clock provides the current time. Defaults to a manual clock at 0.
	Clock clock.Clock

	// TimeScale multiplies every offset (default: 1).
	TimeScale float64

	// Origin is the wall time of logical time 0, used by cron events
	// (default: the Unix epoch).
	Origin time.Time

	// Name identifies the scheduler in logs and metrics.
	Name string

	// Logger receives scheduler events. Defaults to a no-op logger.
	Logger *zerolog.Logger

	// Lifecycle callbacks
	OnScheduled func(spec *Spec)
	OnFired     func(spec *Spec, now float64, elapsed time.Duration)
	OnError     func(spec *Spec, err error)
	OnCleared   func(spec *Spec)
	OnExpired   func(spec *Spec)
	OnTick      func(now float64, drained int)
	OnTimeScale func(scale float64)
}

// Event is a read-only snapshot of a pending spec.
type Event struct {
	ID          string
	Name        string
	Kind        Kind
	ScheduledAt float64
	DueAt       float64
	Fired       int
}

// Stats holds scheduler statistics.
type Stats struct {
	Scheduled uint64
	Fired     uint64
	Failed    uint64
	Cleared   uint64
	Expired   uint64
	Ticks     uint64
	Pending   int
	TimeScale float64
}

type scheduler struct {
	clock     clock.Clock
	queue     *pqueue.Queue[*Spec]
	timeScale float64
	origin    time.Time
	name      string
	logger    zerolog.Logger
	config    Config

	ticking int
	tickNow float64
	active  []*Spec
	detach  func()

	stats Stats
}

// New creates a scheduler driven by clk with default configuration.
func New(clk clock.Clock) Scheduler {
	return NewWithConfig(Config{Clock: clk})
}

// NewWithConfig creates a scheduler with custom configuration. An invalid
// TimeScale falls back to 1; use NewSafe to have it reported instead.
func NewWithConfig(cfg Config) Scheduler {
	if cfg.TimeScale <= 0 || math.IsNaN(cfg.TimeScale) || math.IsInf(cfg.TimeScale, 0) {
		cfg.TimeScale = 1
	}
	return newScheduler(cfg)
}

// NewSafe creates a scheduler and returns an error if cfg is invalid.
func NewSafe(cfg Config) (Scheduler, error) {
	if cfg.TimeScale != 0 {
		if err := validation.ValidatePositiveFloat("scheduler", "time_scale", cfg.TimeScale); err != nil {
			return nil, err
		}
	}
	return NewWithConfig(cfg), nil
}

func newScheduler(cfg Config) *scheduler {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewManualClock(0)
	}

	origin := cfg.Origin
	if origin.IsZero() {
		origin = time.Unix(0, 0).UTC()
	}

	logger := zerolog.Nop()
	if cfg.Logger != nil {
		logger = *cfg.Logger
	}
	lctx := logger.With().Str("component", "scheduler")
	if cfg.Name != "" {
		lctx = lctx.Str("scheduler", cfg.Name)
	}

	return &scheduler{
		clock:     clk,
		queue:     pqueue.New[*Spec](),
		timeScale: cfg.TimeScale,
		origin:    origin,
		name:      cfg.Name,
		logger:    lctx.Logger(),
		config:    cfg,
	}
}

func (s *scheduler) Now() float64 {
	if s.ticking > 0 {
		return s.tickNow
	}
	return s.clock.Now()
}

func (s *scheduler) Schedule(spec *Spec) (*Spec, error) {
	if spec == nil {
		return nil, tferrors.NewValidationError("scheduler", "spec", nil, "cannot be nil")
	}
	if spec.state != stateNew {
		return nil, tferrors.NewOperationError("scheduler", "Schedule", tferrors.ErrAlreadyScheduled).
			WithContext("spec " + spec.id)
	}
	if err := spec.validate(cronParser); err != nil {
		return nil, err
	}

	now := s.Now()
	spec.normalize(now, s.timeScale)
	spec.owner = s
	if spec.Kind == KindCron {
		spec.due = cronNext(spec.cronSchedule, s.origin, now+spec.TimeOffset)
	} else {
		spec.due = spec.occurrence(0)
	}

	s.stats.Scheduled++
	s.logger.Debug().
		Str("event", spec.label()).
		Str("kind", spec.Kind.String()).
		Float64("now", now).
		Float64("due", spec.due).
		Msg("event scheduled")
	if s.config.OnScheduled != nil {
		s.config.OnScheduled(spec)
	}

	s.admit(spec, now)
	return spec, nil
}

// admit queues spec, or evaluates it in place for as long as it stays due.
func (s *scheduler) admit(spec *Spec, now float64) {
	for {
		if spec.expired() {
			s.expire(spec)
			return
		}
		if spec.due > now {
			s.push(spec)
			return
		}
		if !s.evaluate(spec, now) {
			return
		}
	}
}

func (s *scheduler) push(spec *Spec) {
	spec.item = s.queue.Push(spec, spec.due)
	spec.state = statePending
}

func (s *scheduler) ScheduleAll(specs []*Spec) ([]*Spec, error) {
	out := make([]*Spec, len(specs))
	var errs []error
	for i, spec := range specs {
		got, err := s.Schedule(spec)
		if err != nil {
			errs = append(errs, fmt.Errorf("spec %d: %w", i, err))
			continue
		}
		out[i] = got
	}
	return out, errors.Join(errs...)
}

func (s *scheduler) Once(offset float64, cb Callback) (*Spec, error) {
	return s.Schedule(&Spec{Kind: KindOnce, TimeOffset: offset, Callback: cb})
}

func (s *scheduler) Repeat(freqHz float64, cb Callback, offset, end float64) (*Spec, error) {
	return s.Schedule(&Spec{
		Kind:          KindRepeat,
		FreqHz:        freqHz,
		Callback:      cb,
		TimeOffset:    offset,
		EndTimeOffset: end,
		HasEnd:        !math.IsInf(end, 1),
	})
}

func (s *scheduler) Cron(expr string, cb Callback, end float64) (*Spec, error) {
	return s.Schedule(&Spec{
		Kind:          KindCron,
		CronExpr:      expr,
		Callback:      cb,
		EndTimeOffset: end,
		HasEnd:        !math.IsInf(end, 1),
	})
}

func (s *scheduler) Tick(now float64) {
	if math.IsNaN(now) || math.IsInf(now, 0) {
		s.logger.Warn().Float64("now", now).Msg("ignoring non-finite tick")
		return
	}

	prev := s.tickNow
	s.ticking++
	s.tickNow = now
	defer func() {
		s.ticking--
		s.tickNow = prev
	}()

	s.stats.Ticks++
	drained := 0
	for {
		it, ok := s.queue.Peek()
		if !ok || it.Priority() > now {
			break
		}
		s.queue.Pop()
		spec := it.Value
		spec.item = nil
		drained++

		if !s.evaluate(spec, now) {
			continue
		}
		if spec.expired() {
			s.expire(spec)
			continue
		}
		// A re-armed occurrence that is still due is drained by this loop.
		s.push(spec)
	}

	if drained > 0 {
		s.logger.Trace().Float64("now", now).Int("drained", drained).Msg("tick")
	}
	if s.config.OnTick != nil {
		s.config.OnTick(now, drained)
	}
}

// evaluate fires spec and reports whether it was advanced to another
// occurrence that should be queued.
func (s *scheduler) evaluate(spec *Spec, now float64) bool {
	spec.state = stateEvaluating
	s.active = append(s.active, spec)

	start := time.Now()
	err := invoke(spec, now)
	elapsed := time.Since(start)

	s.active = s.active[:len(s.active)-1]
	spec.fired++
	s.stats.Fired++

	s.logger.Debug().
		Str("event", spec.label()).
		Float64("now", now).
		Float64("due", spec.due).
		Msg("event fired")
	if s.config.OnFired != nil {
		s.config.OnFired(spec, now, elapsed)
	}
	if err != nil {
		s.fail(spec, now, err)
	}

	if spec.Kind == KindOnce || spec.stop {
		spec.state = stateDone
		return false
	}

	prevDue := spec.due
	spec.advance(s.timeScale, s.origin)
	if !(spec.due > prevDue) {
		s.logger.Warn().
			Str("event", spec.label()).
			Float64("due", prevDue).
			Msg("repeat interval below clock resolution, dropping event")
		spec.due = math.Inf(1)
	}
	return true
}

func invoke(spec *Spec, now float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", tferrors.ErrCallbackPanic, r)
		}
	}()
	return spec.Callback(now, spec)
}

func (s *scheduler) fail(spec *Spec, now float64, cause error) {
	s.stats.Failed++
	err := tferrors.NewOperationError("scheduler", "Evaluate", cause).
		WithContext(fmt.Sprintf("event %s at %g", spec.label(), now))

	s.logger.Error().Err(cause).
		Str("event", spec.label()).
		Float64("now", now).
		Msg("event callback failed")
	if s.config.OnError != nil {
		s.config.OnError(spec, err)
	}
}

func (s *scheduler) expire(spec *Spec) {
	spec.state = stateDone
	s.stats.Expired++
	s.logger.Debug().
		Str("event", spec.label()).
		Float64("end", spec.absoluteEnd).
		Msg("event expired")
	if s.config.OnExpired != nil {
		s.config.OnExpired(spec)
	}
}

func (s *scheduler) Clear(spec *Spec) bool {
	if spec == nil || spec.owner != s {
		return false
	}
	switch spec.state {
	case statePending:
		s.queue.Remove(spec.item)
		spec.item = nil
	case stateEvaluating:
		if spec.Kind == KindOnce || spec.stop {
			return false
		}
		spec.stop = true
	default:
		return false
	}
	s.cleared(spec)
	return true
}

func (s *scheduler) cleared(spec *Spec) {
	if spec.state == statePending {
		spec.state = stateDone
	}
	s.stats.Cleared++
	s.logger.Debug().Str("event", spec.label()).Msg("event cleared")
	if s.config.OnCleared != nil {
		s.config.OnCleared(spec)
	}
}

func (s *scheduler) ClearAll() {
	var specs []*Spec
	s.queue.Each(func(it *pqueue.Item[*Spec]) {
		specs = append(specs, it.Value)
	})
	s.queue.Clear()

	for _, spec := range specs {
		spec.item = nil
		s.cleared(spec)
	}
	for _, spec := range s.active {
		if spec.Kind != KindOnce && !spec.stop {
			spec.stop = true
			s.cleared(spec)
		}
	}
}

func (s *scheduler) SetTimeScale(scale float64) error {
	if err := validation.ValidatePositiveFloat("scheduler", "time_scale", scale); err != nil {
		return err
	}
	old := s.timeScale
	s.timeScale = scale
	s.queue.Rescore(func(spec *Spec, _ float64) float64 {
		spec.rescale(scale)
		return spec.due
	})

	s.logger.Info().
		Float64("from", old).
		Float64("to", scale).
		Int("pending", s.queue.Len()).
		Msg("time scale changed")
	if s.config.OnTimeScale != nil {
		s.config.OnTimeScale(scale)
	}
	return nil
}

func (s *scheduler) TimeScale() float64 {
	return s.timeScale
}

func (s *scheduler) Pending() int {
	return s.queue.Len()
}

// List returns the pending events sorted by due time.
func (s *scheduler) List() []Event {
	events := make([]Event, 0, s.queue.Len())
	s.queue.Each(func(it *pqueue.Item[*Spec]) {
		spec := it.Value
		events = append(events, Event{
			ID:          spec.id,
			Name:        spec.Name,
			Kind:        spec.Kind,
			ScheduledAt: spec.scheduledAt,
			DueAt:       spec.due,
			Fired:       spec.fired,
		})
	})
	sort.Slice(events, func(i, j int) bool {
		return events[i].DueAt < events[j].DueAt
	})
	return events
}

func (s *scheduler) Stats() Stats {
	stats := s.stats
	stats.Pending = s.queue.Len()
	stats.TimeScale = s.timeScale
	return stats
}

func (s *scheduler) Start() error {
	if s.detach != nil {
		return tferrors.NewOperationError("scheduler", "Start", tferrors.ErrAlreadyRunning)
	}
	s.detach = s.clock.OnTick(s.Tick)
	s.logger.Debug().Msg("scheduler attached to clock")
	return nil
}

func (s *scheduler) Stop() error {
	if s.detach == nil {
		return tferrors.NewOperationError("scheduler", "Stop", tferrors.ErrNotRunning)
	}
	s.detach()
	s.detach = nil
	s.logger.Debug().Msg("scheduler detached from clock")
	return nil
}
