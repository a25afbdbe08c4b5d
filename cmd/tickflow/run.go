package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/vnykmshr/tickflow/pkg/clock"
	"github.com/vnykmshr/tickflow/pkg/metrics"
	"github.com/vnykmshr/tickflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/tickflow/pkg/score"
)

// newScoreScheduler builds the scheduler a score plays on.
func newScoreScheduler(clk clock.Clock, sc *score.Score, log zerolog.Logger, mcfg metrics.Config) *scheduler.MetricsScheduler {
	name := sc.Name
	if name == "" {
		name = "score"
	}
	return scheduler.NewWithConfigAndMetrics(scheduler.Config{
		Clock:  clk,
		Name:   name,
		Logger: &log,
	}, name, mcfg)
}

// logCue reports every cue firing.
func logCue(log zerolog.Logger) score.FireFunc {
	return func(cue score.Cue, now float64) error {
		ev := log.Info().Str("cue", cue.Name).Float64("t", now)
		if cue.Message != "" {
			ev = ev.Str("text", cue.Message)
		}
		ev.Msg("cue")
		return nil
	}
}

func printSummary(w io.Writer, name string, st scheduler.Stats) {
	fmt.Fprintf(w, "%s: scheduled=%d fired=%d failed=%d cleared=%d expired=%d pending=%d ticks=%d\n",
		name, st.Scheduled, st.Fired, st.Failed, st.Cleared, st.Expired, st.Pending, st.Ticks)
}
