package scheduler

import (
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	tferrors "github.com/vnykmshr/tickflow/pkg/common/errors"
	"github.com/vnykmshr/tickflow/pkg/common/validation"
	"github.com/vnykmshr/tickflow/pkg/scheduling/pqueue"
)

// Kind selects how an event recurs.
type Kind int

const (
	// KindOnce fires a single time. It is the zero value.
	KindOnce Kind = iota
	// KindRepeat fires every 1/FreqHz seconds of scaled time.
	KindRepeat
	// KindCron fires on the instants of a cron expression.
	KindCron
)

func (k Kind) String() string {
	switch k {
	case KindOnce:
		return "once"
	case KindRepeat:
		return "repeat"
	case KindCron:
		return "cron"
	default:
		return "unknown"
	}
}

// Callback is invoked with the tick time and the firing spec. A returned
// error is reported through Config.OnError and does not stop the event.
type Callback func(now float64, spec *Spec) error

// NoEnd leaves a repeating or cron event unbounded when passed as the end
// of Repeat or Cron.
var NoEnd = math.Inf(1)

// endTolerance absorbs rounding in anchor + k*interval when comparing
// an occurrence against an inclusive end bound.
const endTolerance = 1e-9

type specState int

const (
	stateNew specState = iota
	statePending
	stateEvaluating
	stateDone
)

// Spec describes one event stream. A Spec is a single-use handle: once
// submitted it identifies exactly that submission for Clear, even when
// another spec has identical fields.
type Spec struct {
	// Kind defaults to KindOnce.
	Kind Kind

	// TimeOffset is the delay, in seconds, between submission and the first
	// firing. It is multiplied by the scheduler's time scale.
	TimeOffset float64

	// Callback is required.
	Callback Callback

	// FreqHz is the repeat frequency. Required for KindRepeat.
	FreqHz float64

	// EndTimeOffset bounds a repeating event, in seconds after submission.
	// The bound is inclusive. A positive value applies on its own; zero only
	// applies with HasEnd set. +Inf means the event never ends.
	EndTimeOffset float64

	// HasEnd makes EndTimeOffset binding even when it is zero, so the
	// event fires at most at submission time.
	HasEnd bool

	// CronExpr is the schedule for KindCron.
	CronExpr string

	// Name is an optional label used in logs and listings.
	Name string

	id          string
	state       specState
	owner       *scheduler
	item        *pqueue.Item[*Spec]
	scheduledAt float64
	interval    float64
	absoluteEnd float64
	due         float64
	fired       int
	stop        bool

	// Occurrence k of a repeat is due at anchor + (lead + k*interval)*scale.
	anchor float64
	lead   float64
	steps  int
	scale  float64

	cronSchedule cron.Schedule
}

// ID returns the identifier assigned at submission, or "" before that.
func (sp *Spec) ID() string { return sp.id }

// ScheduledAt returns the clock time at which the spec was submitted.
func (sp *Spec) ScheduledAt() float64 { return sp.scheduledAt }

// DueAt returns the time of the next firing.
func (sp *Spec) DueAt() float64 { return sp.due }

// Interval returns 1/FreqHz for repeating events, or 0.
func (sp *Spec) Interval() float64 { return sp.interval }

// AbsoluteEnd returns the last time at which the event may fire.
func (sp *Spec) AbsoluteEnd() float64 { return sp.absoluteEnd }

// Fired returns how many times the callback has been invoked.
func (sp *Spec) Fired() int { return sp.fired }

// Queued reports whether the spec is waiting in a scheduler's queue.
func (sp *Spec) Queued() bool { return sp.state == statePending }

// Done reports whether the spec has fired for the last time, expired,
// or been cleared.
func (sp *Spec) Done() bool { return sp.state == stateDone }

func (sp *Spec) label() string {
	if sp.Name != "" {
		return sp.Name
	}
	return sp.id
}

// validate checks the caller-supplied fields.
func (sp *Spec) validate(parser cron.Parser) error {
	if sp.Callback == nil {
		return tferrors.NewValidationError("scheduler", "callback", nil, "cannot be nil").
			WithHint("provide a callback")
	}
	if err := validation.ValidateFinite("scheduler", "time_offset", sp.TimeOffset); err != nil {
		return err
	}
	if math.IsNaN(sp.EndTimeOffset) || sp.EndTimeOffset < 0 {
		return tferrors.NewValidationError("scheduler", "end_time_offset", sp.EndTimeOffset, "cannot be negative").
			WithHint("use 0 for an event that never ends")
	}

	switch sp.Kind {
	case KindOnce:
	case KindRepeat:
		if err := validation.ValidatePositiveFloat("scheduler", "freq_hz", sp.FreqHz); err != nil {
			return err
		}
	case KindCron:
		if err := validation.ValidateNotEmpty("scheduler", "cron", sp.CronExpr); err != nil {
			return err
		}
		sched, err := parser.Parse(sp.CronExpr)
		if err != nil {
			return tferrors.NewValidationError("scheduler", "cron", sp.CronExpr, err.Error()).
				WithHint(`use "sec min hour dom month dow" or a descriptor such as @every 2s`)
		}
		sp.cronSchedule = sched
	default:
		return tferrors.NewValidationError("scheduler", "kind", int(sp.Kind), "unknown kind")
	}
	return nil
}

// normalize fixes the derived fields at submission time.
func (sp *Spec) normalize(now, scale float64) {
	sp.id = uuid.NewString()
	sp.scheduledAt = now
	sp.absoluteEnd = math.Inf(1)
	if sp.Kind != KindOnce && sp.bounded() {
		sp.absoluteEnd = now + sp.EndTimeOffset
	}
	if sp.Kind == KindRepeat {
		sp.interval = 1 / sp.FreqHz
	}
	sp.anchor = now
	sp.lead = sp.TimeOffset
	sp.steps = 0
	sp.scale = scale
}

func (sp *Spec) bounded() bool {
	if math.IsInf(sp.EndTimeOffset, 1) {
		return false
	}
	return sp.HasEnd || sp.EndTimeOffset > 0
}

func (sp *Spec) occurrence(k int) float64 {
	return sp.anchor + (sp.lead+float64(k)*sp.interval)*sp.scale
}

// advance moves the spec to its next occurrence under the given scale.
func (sp *Spec) advance(scale float64, origin time.Time) {
	if sp.Kind == KindCron {
		sp.due = cronNext(sp.cronSchedule, origin, sp.due)
		return
	}
	if sp.scale != scale {
		sp.anchor = sp.due
		sp.lead = 0
		sp.steps = 0
		sp.scale = scale
	}
	sp.steps++
	sp.due = sp.occurrence(sp.steps)
}

// rescale recomputes the pending due time under a new scale. Occurrences
// already fired are kept: a fired repeat is re-anchored at its last
// occurrence first.
func (sp *Spec) rescale(scale float64) {
	if sp.Kind == KindCron {
		return
	}
	if sp.steps > 0 {
		sp.anchor = sp.occurrence(sp.steps - 1)
		sp.lead = 0
		sp.steps = 1
	}
	sp.scale = scale
	sp.due = sp.occurrence(sp.steps)
}

func (sp *Spec) expired() bool {
	return math.IsInf(sp.due, 1) || sp.due > sp.absoluteEnd+endTolerance
}
