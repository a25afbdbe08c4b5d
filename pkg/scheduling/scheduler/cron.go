package scheduler

import (
	"math"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser accepts an optional leading seconds field and descriptors
// such as @hourly or @every 1.5s.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ValidateCronExpression reports whether expr can drive a KindCron spec.
func ValidateCronExpression(expr string) error {
	sp := &Spec{Kind: KindCron, CronExpr: expr, Callback: func(float64, *Spec) error { return nil }}
	return sp.validate(cronParser)
}

// cronNext maps logical time onto wall time through origin and returns the
// logical time of the first cron instant strictly after after. It returns
// +Inf when the schedule has no further instants.
func cronNext(sched cron.Schedule, origin time.Time, after float64) float64 {
	wall := origin.Add(secondsToDuration(after))
	next := sched.Next(wall)
	if next.IsZero() {
		return math.Inf(1)
	}
	return next.Sub(origin).Seconds()
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

// NextCronTimes returns the logical times of the next n instants of expr
// after the given time, measured from origin.
func NextCronTimes(expr string, origin time.Time, after float64, n int) ([]float64, error) {
	if err := ValidateCronExpression(expr); err != nil {
		return nil, err
	}
	sched, _ := cronParser.Parse(expr)

	out := make([]float64, 0, n)
	t := after
	for i := 0; i < n; i++ {
		t = cronNext(sched, origin, t)
		if math.IsInf(t, 1) {
			break
		}
		out = append(out, t)
	}
	return out, nil
}
