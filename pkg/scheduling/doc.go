/*
Package scheduling provides the event queue and scheduler that run a
logical timeline.

  - pqueue: generic min-heap with removable item handles
  - scheduler: once, repeat and cron events driven by a clock

Priority Queue:

	q := pqueue.New[string]()
	a := q.Push("a", 2)
	q.Push("b", 1)
	q.Remove(a)
	it, _ := q.Pop() // "b"

Scheduler:

The scheduler fires callbacks on the ticks of a clock. Times are seconds on
the clock's own timeline; nothing is tied to the wall clock unless the clock
is.

	clk := clock.NewManualClock(0)
	s := scheduler.New(clk)
	_ = s.Start()
	defer s.Stop()

	// One shot, two seconds from now
	s.Once(2, cb)

	// Ten times per second until second five
	s.Repeat(10, cb, 0, 5)

	// Every fifteen seconds of logical time
	s.Cron("0/15 * * * * *", cb, scheduler.NoEnd)

	// Run everything twice as slowly
	s.SetTimeScale(2)

A single Tick fires every event whose due time has passed, including
repeats that fell behind, in due order. Callbacks may schedule and clear
events; new events due at or before the current tick fire in the same tick.
*/
package scheduling
