package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/vnykmshr/tickflow/pkg/clock"
	tfcontext "github.com/vnykmshr/tickflow/pkg/common/context"
	"github.com/vnykmshr/tickflow/pkg/metrics"
	"github.com/vnykmshr/tickflow/pkg/scheduling/scheduler"
	"github.com/vnykmshr/tickflow/pkg/score"
)

var (
	playResolution  time.Duration
	playMetricsAddr string
	playTimeScale   float64
	playDuration    time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play <score.yaml>",
	Short: "Play a score in real time",
	Long: "Play drives the score from the host clock until every cue has finished or the\n" +
		"process receives SIGINT or SIGTERM.",
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().DurationVar(&playResolution, "resolution", 10*time.Millisecond, "tick period")
	playCmd.Flags().StringVar(&playMetricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :9090)")
	playCmd.Flags().Float64Var(&playTimeScale, "time-scale", 0, "override the score's time scale")
	playCmd.Flags().DurationVar(&playDuration, "duration", 0, "stop after this long (0: when the score ends)")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	sc, err := score.Load(args[0])
	if err != nil {
		return err
	}
	if playTimeScale != 0 {
		sc.TimeScale = playTimeScale
	}

	ctx, stop := tfcontext.WithSignals(cmd.Context())
	defer stop()
	ctx, cancel := tfcontext.WithTimeoutOrCancel(ctx, playDuration)
	defer cancel()

	clk, err := clock.NewRealtimeClock(clock.RealtimeConfig{Resolution: playResolution, Logger: &logger})
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	mcfg := metrics.Config{Enabled: playMetricsAddr != "", Registry: registry}
	s := newScoreScheduler(clk, sc, logger, mcfg)
	if mcfg.Enabled {
		defer s.Registry().InstrumentClock("realtime", clk)()
		srv := serveMetrics(playMetricsAddr, registry)
		defer shutdownServer(srv)
	}

	if err := s.Start(); err != nil {
		return err
	}
	defer func() { _ = s.Stop() }()

	if _, err := sc.Apply(s, logCue(logger)); err != nil {
		return err
	}

	return runUntilDone(ctx, clk, s, func(ctx context.Context) error {
		logger.Info().Str("score", sc.Name).Int("cues", len(sc.Cues)).Msg("playing")
		err := clk.Run(ctx)
		if tfcontext.IsTimedOut(ctx) {
			logger.Info().Dur("duration", playDuration).Msg("play duration reached")
		}
		printSummary(cmd.OutOrStdout(), args[0], s.Stats())
		return err
	})
}

// runUntilDone runs loop with a context that is also canceled once the
// scheduler has nothing left to fire.
func runUntilDone(ctx context.Context, clk clock.Clock, s scheduler.Scheduler, loop func(context.Context) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if s.Pending() == 0 {
		cancel()
	}
	detach := clk.OnTick(func(float64) {
		if s.Pending() == 0 {
			cancel()
		}
	})
	defer detach()

	return loop(ctx)
}

func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		logger.Info().Str("addr", addr).Msg("metrics server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("metrics server error")
		}
	}()
	return srv
}

func shutdownServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("metrics server shutdown failed")
	}
}
