package main

import (
	"github.com/spf13/cobra"

	"github.com/vnykmshr/tickflow/pkg/clock"
	"github.com/vnykmshr/tickflow/pkg/metrics"
	"github.com/vnykmshr/tickflow/pkg/score"
)

var (
	renderUntil     float64
	renderStep      float64
	renderTimeScale float64
)

var renderCmd = &cobra.Command{
	Use:   "render <score.yaml>",
	Short: "Play a score offline on a manual clock",
	Long: "Render steps a manual clock from 0 in fixed increments and logs every cue as it fires.\n" +
		"The run is deterministic and as fast as the host allows.",
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	renderCmd.Flags().Float64Var(&renderUntil, "until", 0, "stop time in seconds (default: score duration + 1s)")
	renderCmd.Flags().Float64Var(&renderStep, "step", 0.01, "tick period in seconds")
	renderCmd.Flags().Float64Var(&renderTimeScale, "time-scale", 0, "override the score's time scale")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	sc, err := score.Load(args[0])
	if err != nil {
		return err
	}
	if renderTimeScale != 0 {
		sc.TimeScale = renderTimeScale
	}

	clk := clock.NewManualClock(0)
	s := newScoreScheduler(clk, sc, logger, metrics.Config{Enabled: false})
	if err := s.Start(); err != nil {
		return err
	}
	defer func() { _ = s.Stop() }()

	if _, err := sc.Apply(s, logCue(logger)); err != nil {
		return err
	}

	until := renderUntil
	if until <= 0 {
		until = sc.Duration()*s.TimeScale() + 1
	}
	logger.Info().Str("score", sc.Name).Float64("until", until).Float64("step", renderStep).Msg("rendering")

	if err := clk.RunUntil(until, renderStep); err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), args[0], s.Stats())
	return nil
}
