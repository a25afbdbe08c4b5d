/*
Package scheduler fires callbacks at times measured on a logical clock.

The scheduler owns a priority queue of pending events keyed by due time and a
time scale that stretches or compresses every offset. A clock drives it by
calling Tick with each new time; every event due at or before that time
fires before Tick returns.

Basic Usage:

	clk := clock.NewManualClock(0)
	s := scheduler.New(clk)
	_ = s.Start()

	s.Once(2, func(now float64, _ *scheduler.Spec) error {
		fmt.Println("cue", now)
		return nil
	})

	clk.Step(4, 1) // prints "cue 2"

Event Kinds:

	// One-shot, 1.5 seconds from now
	s.Once(1.5, cb)

	// 4 Hz, starting now, for 10 seconds (inclusive)
	s.Repeat(4, cb, 0, 10)

	// Every 30 seconds on the wall-clock grid anchored at Config.Origin
	s.Cron("0/30 * * * * *", cb, scheduler.NoEnd)

	// Full control over a spec
	s.Schedule(&scheduler.Spec{Kind: scheduler.KindRepeat, FreqHz: 2, Callback: cb, Name: "pulse"})

Late Firing:

Ticks are discrete. An event due between two ticks fires on the first tick
at or after its due time and receives that tick's time. A repeating event
whose interval is shorter than the tick period fires once per elapsed
occurrence within a single Tick call, so no occurrence is lost.

An event submitted with a due time that has already passed fires inside the
Schedule call.

Time Scale:

	s.SetTimeScale(2)   // half speed
	s.SetTimeScale(0.5) // double speed

Changing the scale reschedules every pending event. An event that has not
fired yet becomes due at ScheduledAt + TimeOffset*scale. A repeating event
that has already fired keeps its past occurrences and spaces the remaining
ones by interval*scale from its last occurrence. Cron events are not scaled.

Cancellation:

	spec, _ := s.Repeat(1, cb, 0, scheduler.NoEnd)
	s.Clear(spec) // true
	s.Clear(spec) // false, nothing pending

Each submitted Spec is its own handle, so two specs with identical fields are
cancelled independently. A repeating event may clear itself from inside its
callback to stop re-arming.

Error Handling:

Invalid specs are rejected with *errors.ValidationError before anything is
queued. A callback that returns an error or panics does not stop the tick;
the failure is logged, counted, and passed to Config.OnError as an
*errors.OperationError. Repeating events keep running after a failure.

Concurrency:

A Scheduler is not safe for concurrent use. Drive it from one goroutine; the
realtime and relay clocks in package clock deliver ticks and Do calls on the
goroutine running their Run loop for this purpose.

Metrics:

	ms := scheduler.NewWithMetrics(clk, "cues")

records scheduled, fired, failed, cleared and expired events, the pending
queue depth, the time scale, and per-tick drain sizes in Prometheus.
*/
package scheduler
