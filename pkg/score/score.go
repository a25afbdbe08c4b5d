package score

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	tferrors "github.com/vnykmshr/tickflow/pkg/common/errors"
	"github.com/vnykmshr/tickflow/pkg/common/validation"
	"github.com/vnykmshr/tickflow/pkg/scheduling/scheduler"
)

// Cue kinds as written in score files.
const (
	KindOnce   = "once"
	KindRepeat = "repeat"
	KindCron   = "cron"
)

// Score is a named list of timed cues.
type Score struct {
	Name      string  `yaml:"name"`
	TimeScale float64 `yaml:"time_scale,omitempty"`
	Cues      []Cue   `yaml:"cues"`
}

// Cue is one event in a score. Times are seconds from the moment the score
// is applied.
type Cue struct {
	Name    string   `yaml:"name"`
	Kind    string   `yaml:"kind,omitempty"`
	At      float64  `yaml:"at,omitempty"`
	EveryHz float64  `yaml:"every_hz,omitempty"`
	Until   *float64 `yaml:"until,omitempty"`
	Cron    string   `yaml:"cron,omitempty"`
	Message string   `yaml:"message,omitempty"`
}

// FireFunc is called each time a cue fires.
type FireFunc func(cue Cue, now float64) error

// Parse decodes and validates a score. Unknown fields are rejected.
func Parse(data []byte) (*Score, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, tferrors.NewValidationError("score", "document", "", "cannot be empty")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Score
	if err := dec.Decode(&sc); err != nil && !errors.Is(err, io.EOF) {
		return nil, tferrors.NewOperationError("score", "Parse", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses the score at path.
func Load(path string) (*Score, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, tferrors.NewOperationError("score", "Load", err).WithContext(path)
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Marshal encodes the score as YAML.
func (sc *Score) Marshal() ([]byte, error) {
	return yaml.Marshal(sc)
}

// Validate checks every cue and returns all problems joined.
func (sc *Score) Validate() error {
	var errs []error
	if sc.TimeScale != 0 {
		if err := validation.ValidatePositiveFloat("score", "time_scale", sc.TimeScale); err != nil {
			errs = append(errs, err)
		}
	}
	if len(sc.Cues) == 0 {
		errs = append(errs, tferrors.NewValidationError("score", "cues", 0, "cannot be empty").
			WithHint("add at least one cue"))
	}

	seen := make(map[string]int, len(sc.Cues))
	for i, cue := range sc.Cues {
		field := func(name string) string { return fmt.Sprintf("cues[%d].%s", i, name) }

		if err := validation.ValidateNotEmpty("score", field("name"), cue.Name); err != nil {
			errs = append(errs, err)
		} else if prev, dup := seen[cue.Name]; dup {
			errs = append(errs, tferrors.NewValidationError("score", field("name"), cue.Name,
				fmt.Sprintf("duplicates cues[%d]", prev)))
		} else {
			seen[cue.Name] = i
		}

		if err := validation.ValidateFinite("score", field("at"), cue.At); err != nil {
			errs = append(errs, err)
		}
		if cue.Until != nil {
			if err := validation.ValidateNonNegative("score", field("until"), *cue.Until); err != nil {
				errs = append(errs, err)
			}
		}

		switch cue.kind() {
		case KindOnce:
			if cue.EveryHz != 0 || cue.Until != nil || cue.Cron != "" {
				errs = append(errs, tferrors.NewValidationError("score", field("kind"), cue.Kind,
					"once cues take only at").WithHint("use kind: repeat or kind: cron"))
			}
		case KindRepeat:
			if err := validation.ValidatePositiveFloat("score", field("every_hz"), cue.EveryHz); err != nil {
				errs = append(errs, err)
			}
		case KindCron:
			if err := scheduler.ValidateCronExpression(cue.Cron); err != nil {
				errs = append(errs, fmt.Errorf("%s: %w", field("cron"), err))
			}
		default:
			errs = append(errs, tferrors.NewValidationError("score", field("kind"), cue.Kind, "unknown kind").
				WithHint("use once, repeat or cron"))
		}
	}
	return errors.Join(errs...)
}

func (c Cue) kind() string {
	if c.Kind == "" {
		return KindOnce
	}
	return strings.ToLower(c.Kind)
}

// End returns the cue's until bound. An absent until, or any until on a
// once cue, reports false.
func (c Cue) End() (float64, bool) {
	if c.Until == nil || c.kind() == KindOnce {
		return 0, false
	}
	return *c.Until, true
}

// Spec builds the scheduler spec for the cue.
func (c Cue) Spec(fire FireFunc) *scheduler.Spec {
	spec := &scheduler.Spec{
		Name:          c.Name,
		TimeOffset:    c.At,
		EndTimeOffset: scheduler.NoEnd,
		Callback: func(now float64, _ *scheduler.Spec) error {
			return fire(c, now)
		},
	}
	if end, ok := c.End(); ok {
		spec.EndTimeOffset = end
		spec.HasEnd = true
	}
	switch c.kind() {
	case KindRepeat:
		spec.Kind = scheduler.KindRepeat
		spec.FreqHz = c.EveryHz
	case KindCron:
		spec.Kind = scheduler.KindCron
		spec.CronExpr = c.Cron
	}
	return spec
}

// Apply sets the score's time scale on s, if any, and schedules every cue.
// Cues are submitted independently; the returned slice has one entry per
// cue, nil where scheduling failed.
func (sc *Score) Apply(s scheduler.Scheduler, fire FireFunc) ([]*scheduler.Spec, error) {
	if sc.TimeScale != 0 {
		if err := s.SetTimeScale(sc.TimeScale); err != nil {
			return nil, err
		}
	}
	specs := make([]*scheduler.Spec, len(sc.Cues))
	for i, cue := range sc.Cues {
		specs[i] = cue.Spec(fire)
	}
	return s.ScheduleAll(specs)
}

// Duration returns the time, in unscaled seconds from the start, after which
// no bounded cue fires. Repeats and crons without an end contribute their
// start time only.
func (sc *Score) Duration() float64 {
	var d float64
	for _, cue := range sc.Cues {
		end := cue.At
		if until, ok := cue.End(); ok {
			end = math.Max(end, until)
		}
		d = math.Max(d, end)
	}
	return d
}
