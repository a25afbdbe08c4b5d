// Package metrics provides Prometheus instrumentation for tickflow components.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every tickflow metric name.
const DefaultNamespace = "tickflow"

// Registry holds all metric instances for tickflow components.
type Registry struct {
	// Scheduler Metrics
	EventsScheduled  *prometheus.CounterVec
	EventsFired      *prometheus.CounterVec
	EventsFailed     *prometheus.CounterVec
	EventsCleared    *prometheus.CounterVec
	EventsExpired    *prometheus.CounterVec
	PendingEvents    *prometheus.GaugeVec
	TimeScale        *prometheus.GaugeVec
	TickDrained      *prometheus.HistogramVec
	CallbackDuration *prometheus.HistogramVec

	// Clock Metrics
	ClockTicks *prometheus.CounterVec
}

// DefaultRegistry is the default metrics registry used by tickflow components.
var DefaultRegistry *Registry

func init() {
	DefaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{Registry: reg})
}

// NewRegistryWithConfig creates a registry honoring the namespace and
// constant labels in cfg.
func NewRegistryWithConfig(cfg Config) *Registry {
	reg := cfg.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	factory := promauto.With(reg)

	counter := func(subsystem, name, help string, labels ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.Labels,
		}, labels)
	}
	gauge := func(subsystem, name, help string, labels ...string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: cfg.Labels,
		}, labels)
	}

	return &Registry{
		EventsScheduled: counter("scheduler", "events_scheduled_total",
			"Total number of events accepted by the scheduler", "scheduler_name", "kind"),
		EventsFired: counter("scheduler", "events_fired_total",
			"Total number of event callbacks invoked", "scheduler_name", "kind"),
		EventsFailed: counter("scheduler", "events_failed_total",
			"Total number of event callbacks that returned an error or panicked", "scheduler_name"),
		EventsCleared: counter("scheduler", "events_cleared_total",
			"Total number of pending events removed before firing", "scheduler_name"),
		EventsExpired: counter("scheduler", "events_expired_total",
			"Total number of repeating events dropped after reaching their end time", "scheduler_name"),
		PendingEvents: gauge("scheduler", "pending_events",
			"Number of events currently queued", "scheduler_name"),
		TimeScale: gauge("scheduler", "time_scale",
			"Current time scale factor", "scheduler_name"),

		TickDrained: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "tick_drained_events",
				Help:        "Number of events evaluated per tick",
				Buckets:     []float64{0, 1, 2, 4, 8, 16, 32, 64, 128},
				ConstLabels: cfg.Labels,
			},
			[]string{"scheduler_name"},
		),

		CallbackDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace:   ns,
				Subsystem:   "scheduler",
				Name:        "callback_duration_seconds",
				Help:        "Wall time spent inside event callbacks",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: cfg.Labels,
			},
			[]string{"scheduler_name"},
		),

		ClockTicks: counter("clock", "ticks_total",
			"Total number of clock ticks delivered", "clock_name"),
	}
}
