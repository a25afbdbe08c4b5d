package scheduler

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vnykmshr/tickflow/pkg/clock"
	"github.com/vnykmshr/tickflow/pkg/metrics"
)

// MetricsScheduler wraps a Scheduler with Prometheus metrics collection.
type MetricsScheduler struct {
	Scheduler
	name     string
	registry *metrics.Registry
	enabled  atomic.Bool
}

var _ metrics.Instrumentable = (*MetricsScheduler)(nil)

// NewWithMetrics creates a scheduler on clk with metrics enabled.
func NewWithMetrics(clk clock.Clock, name string) *MetricsScheduler {
	// Use a separate registry for each metrics-enabled component to avoid conflicts
	registry := prometheus.NewRegistry()
	config := metrics.Config{
		Enabled:  true,
		Registry: registry,
	}

	return NewWithConfigAndMetrics(Config{Clock: clk}, name, config)
}

// NewWithConfigAndMetrics creates a scheduler with custom config and metrics.
func NewWithConfigAndMetrics(config Config, name string, metricsConfig metrics.Config) *MetricsScheduler {
	registry := metrics.DefaultRegistry
	if metricsConfig.Registry != nil {
		registry = metrics.NewRegistryWithConfig(metricsConfig)
	}

	ms := &MetricsScheduler{
		name:     name,
		registry: registry,
	}
	ms.enabled.Store(metricsConfig.Enabled)

	// Wrap the config callbacks to add metrics
	original := config
	if config.Name == "" {
		config.Name = name
	}
	config.OnScheduled = func(spec *Spec) {
		if ms.enabled.Load() {
			ms.registry.EventsScheduled.WithLabelValues(name, spec.Kind.String()).Inc()
		}
		if original.OnScheduled != nil {
			original.OnScheduled(spec)
		}
	}
	config.OnFired = func(spec *Spec, now float64, elapsed time.Duration) {
		if ms.enabled.Load() {
			ms.registry.EventsFired.WithLabelValues(name, spec.Kind.String()).Inc()
			ms.registry.CallbackDuration.WithLabelValues(name).Observe(elapsed.Seconds())
		}
		if original.OnFired != nil {
			original.OnFired(spec, now, elapsed)
		}
	}
	config.OnError = func(spec *Spec, err error) {
		if ms.enabled.Load() {
			ms.registry.EventsFailed.WithLabelValues(name).Inc()
		}
		if original.OnError != nil {
			original.OnError(spec, err)
		}
	}
	config.OnCleared = func(spec *Spec) {
		if ms.enabled.Load() {
			ms.registry.EventsCleared.WithLabelValues(name).Inc()
		}
		if original.OnCleared != nil {
			original.OnCleared(spec)
		}
	}
	config.OnExpired = func(spec *Spec) {
		if ms.enabled.Load() {
			ms.registry.EventsExpired.WithLabelValues(name).Inc()
		}
		if original.OnExpired != nil {
			original.OnExpired(spec)
		}
	}
	config.OnTick = func(now float64, drained int) {
		if ms.enabled.Load() {
			ms.registry.TickDrained.WithLabelValues(name).Observe(float64(drained))
			ms.observeQueue()
		}
		if original.OnTick != nil {
			original.OnTick(now, drained)
		}
	}
	config.OnTimeScale = func(scale float64) {
		if ms.enabled.Load() {
			ms.registry.TimeScale.WithLabelValues(name).Set(scale)
		}
		if original.OnTimeScale != nil {
			original.OnTimeScale(scale)
		}
	}

	ms.Scheduler = NewWithConfig(config)
	if ms.enabled.Load() {
		ms.registry.TimeScale.WithLabelValues(name).Set(ms.Scheduler.TimeScale())
		ms.observeQueue()
	}
	return ms
}

func (ms *MetricsScheduler) observeQueue() {
	ms.registry.PendingEvents.WithLabelValues(ms.name).Set(float64(ms.Scheduler.Pending()))
}

func (ms *MetricsScheduler) afterMutation() {
	if ms.enabled.Load() {
		ms.observeQueue()
	}
}

// Schedule submits spec and updates the pending gauge.
func (ms *MetricsScheduler) Schedule(spec *Spec) (*Spec, error) {
	defer ms.afterMutation()
	return ms.Scheduler.Schedule(spec)
}

// ScheduleAll submits specs and updates the pending gauge.
func (ms *MetricsScheduler) ScheduleAll(specs []*Spec) ([]*Spec, error) {
	defer ms.afterMutation()
	return ms.Scheduler.ScheduleAll(specs)
}

// Once schedules a one-shot event and updates the pending gauge.
func (ms *MetricsScheduler) Once(offset float64, cb Callback) (*Spec, error) {
	defer ms.afterMutation()
	return ms.Scheduler.Once(offset, cb)
}

// Repeat schedules a repeating event and updates the pending gauge.
func (ms *MetricsScheduler) Repeat(freqHz float64, cb Callback, offset, end float64) (*Spec, error) {
	defer ms.afterMutation()
	return ms.Scheduler.Repeat(freqHz, cb, offset, end)
}

// Cron schedules a cron event and updates the pending gauge.
func (ms *MetricsScheduler) Cron(expr string, cb Callback, end float64) (*Spec, error) {
	defer ms.afterMutation()
	return ms.Scheduler.Cron(expr, cb, end)
}

// Clear cancels spec and updates the pending gauge.
func (ms *MetricsScheduler) Clear(spec *Spec) bool {
	defer ms.afterMutation()
	return ms.Scheduler.Clear(spec)
}

// ClearAll cancels every pending event and updates the pending gauge.
func (ms *MetricsScheduler) ClearAll() {
	defer ms.afterMutation()
	ms.Scheduler.ClearAll()
}

// EnableMetrics enables metrics collection.
func (ms *MetricsScheduler) EnableMetrics(config metrics.Config) error {
	if config.Registry != nil {
		ms.registry = metrics.NewRegistryWithConfig(config)
	}
	ms.enabled.Store(true)
	return nil
}

// DisableMetrics disables metrics collection.
func (ms *MetricsScheduler) DisableMetrics() {
	ms.enabled.Store(false)
}

// MetricsEnabled returns true if metrics collection is enabled.
func (ms *MetricsScheduler) MetricsEnabled() bool {
	return ms.enabled.Load()
}

// Registry returns the metrics registry in use.
func (ms *MetricsScheduler) Registry() *metrics.Registry {
	return ms.registry
}
