package metrics

import (
	"github.com/vnykmshr/tickflow/pkg/clock"
)

// InstrumentClock counts every tick of clk under the given clock name. The
// returned function stops counting.
func (r *Registry) InstrumentClock(name string, clk clock.Clock) (cancel func()) {
	ticks := r.ClockTicks.WithLabelValues(name)
	return clk.OnTick(func(float64) {
		ticks.Inc()
	})
}
