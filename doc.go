/*
Package tickflow provides a logical-clock event scheduler for timelines that
are driven tick by tick: audio and animation cues, simulations, and
rehearsable show control.

Clocks (pkg/clock):
  - ManualClock: advanced explicitly, for offline rendering and tests
  - RealtimeClock: wall-clock driven ticks at a fixed resolution
  - RelayClock: ticks received from a Redis channel

Scheduling (pkg/scheduling):
  - pqueue: min-heap keyed by due time with handle removal
  - scheduler: once, repeat and cron events with time scaling

Scores (pkg/score):
  - YAML cue sheets applied to a scheduler

Example usage:

	import (
		"github.com/vnykmshr/tickflow/pkg/clock"
		"github.com/vnykmshr/tickflow/pkg/scheduling/scheduler"
	)

	clk := clock.NewManualClock(0)
	s := scheduler.New(clk)
	_ = s.Start()

	s.Repeat(4, func(now float64, _ *scheduler.Spec) error {
		fmt.Println("beat", now)
		return nil
	}, 0, 2)

	clk.RunUntil(2, 0.01)
*/
package tickflow
