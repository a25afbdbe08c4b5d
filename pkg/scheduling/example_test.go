package scheduling_test

import (
	"fmt"

	"github.com/vnykmshr/tickflow/pkg/clock"
	"github.com/vnykmshr/tickflow/pkg/scheduling/pqueue"
	"github.com/vnykmshr/tickflow/pkg/scheduling/scheduler"
)

func Example() {
	q := pqueue.New[string]()
	a := q.Push("a", 2)
	q.Push("b", 1)
	q.Remove(a)
	it, _ := q.Pop()
	fmt.Println("pop", it.Value)

	clk := clock.NewManualClock(0)
	s := scheduler.New(clk)
	_ = s.Start()
	defer func() { _ = s.Stop() }()

	_, _ = s.Once(2, func(now float64, _ *scheduler.Spec) error {
		fmt.Println("once at", now)
		return nil
	})
	_, _ = s.Cron("0/15 * * * * *", func(now float64, _ *scheduler.Spec) error {
		fmt.Println("cron at", now)
		return nil
	}, scheduler.NoEnd)

	_ = clk.Step(4, 10)
	// Output:
	// pop b
	// once at 10
	// cron at 20
	// cron at 30
}
