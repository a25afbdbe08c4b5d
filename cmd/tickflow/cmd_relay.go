package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/vnykmshr/tickflow/pkg/clock"
	tfcontext "github.com/vnykmshr/tickflow/pkg/common/context"
	"github.com/vnykmshr/tickflow/pkg/metrics"
	"github.com/vnykmshr/tickflow/pkg/score"
)

var (
	relayRedisAddr  string
	relayChannel    string
	relayResolution time.Duration
	relayMaxRate    float64
)

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Share a clock between processes over Redis",
}

var relayPublishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish a realtime clock to a Redis channel",
	Args:  cobra.NoArgs,
	RunE:  runRelayPublish,
}

var relayFollowCmd = &cobra.Command{
	Use:   "follow <score.yaml>",
	Short: "Play a score against a clock published on Redis",
	Long: "Follow subscribes to a published clock and applies the score on the first tick it\n" +
		"receives, so cue offsets count from the moment the follower joined.",
	Args: cobra.ExactArgs(1),
	RunE: runRelayFollow,
}

func init() {
	relayCmd.PersistentFlags().StringVar(&relayRedisAddr, "redis-addr", "localhost:6379", "Redis address")
	relayCmd.PersistentFlags().StringVar(&relayChannel, "channel", clock.DefaultRelayChannel, "Redis pub/sub channel")
	relayPublishCmd.Flags().DurationVar(&relayResolution, "resolution", 10*time.Millisecond, "tick period")
	relayPublishCmd.Flags().Float64Var(&relayMaxRate, "max-rate", 0, "publish at most this many ticks per second (0: every tick)")

	relayCmd.AddCommand(relayPublishCmd, relayFollowCmd)
	rootCmd.AddCommand(relayCmd)
}

func newRedisClient(ctx context.Context) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: relayRedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

func runRelayPublish(cmd *cobra.Command, args []string) error {
	ctx, stop := tfcontext.WithSignals(cmd.Context())
	defer stop()

	client, err := newRedisClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	clk, err := clock.NewRealtimeClock(clock.RealtimeConfig{Resolution: relayResolution, Logger: &logger})
	if err != nil {
		return err
	}
	pub, err := clock.NewPublisher(clock.RelayConfig{
		Redis:   client,
		Channel: relayChannel,
		MaxRate: relayMaxRate,
		Logger:  &logger,
	})
	if err != nil {
		return err
	}
	defer pub.Attach(ctx, clk)()

	logger.Info().Str("redis", relayRedisAddr).Str("channel", relayChannel).Msg("publishing clock")
	return clk.Run(ctx)
}

func runRelayFollow(cmd *cobra.Command, args []string) error {
	sc, err := score.Load(args[0])
	if err != nil {
		return err
	}

	ctx, stop := tfcontext.WithSignals(cmd.Context())
	defer stop()

	client, err := newRedisClient(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	clk, err := clock.NewRelayClock(clock.RelayConfig{Redis: client, Channel: relayChannel, Logger: &logger})
	if err != nil {
		return err
	}

	s := newScoreScheduler(clk, sc, logger, metrics.Config{Enabled: false, Registry: prometheus.NewRegistry()})
	if err := s.Start(); err != nil {
		return err
	}
	defer func() { _ = s.Stop() }()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Apply on the first relayed tick, from the Run goroutine.
	var detach func()
	detach = clk.OnTick(func(now float64) {
		detach()
		logger.Info().Float64("t", now).Msg("joined remote clock")
		if _, err := sc.Apply(s, logCue(logger)); err != nil {
			logger.Error().Err(err).Msg("score rejected")
			cancel()
		}
	})
	defer detach()

	err = clk.Run(ctx)
	printSummary(cmd.OutOrStdout(), args[0], s.Stats())
	return err
}
