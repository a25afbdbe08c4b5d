/*
Package clock provides the time sources that drive a tickflow scheduler.

A Clock reports the time of its latest tick in seconds and notifies
subscribers each time that value advances:

	clk := clock.NewManualClock(0)
	cancel := clk.OnTick(func(now float64) {
		fmt.Println("tick", now)
	})
	defer cancel()

	_ = clk.RunUntil(1.0, 0.25) // ticks at 0.25, 0.5, 0.75, 1.0

Three implementations are provided:

  - ManualClock: stepped explicitly; deterministic, for offline rendering and tests
  - RealtimeClock: driven by a host ticker at a fixed resolution
  - RelayClock: follows tick values published to Redis by a Publisher

RealtimeClock and RelayClock deliver ticks on the goroutine that calls Run.
Work that must not race with ticks, such as scheduling from another
goroutine, is handed to the loop with Do:

	go func() { _ = clk.Run(ctx) }()

	_ = clk.Do(ctx, func() {
		sched.Once(0.5, cue)
	})

Clocks never move backwards. ManualClock.Set rejects earlier times with
errors.ErrClockBackwards, and the goroutine-driven clocks silently ignore
values that do not advance.
*/
package clock
