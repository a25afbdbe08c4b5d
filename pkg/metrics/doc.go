// Package metrics provides Prometheus instrumentation for tickflow components.
//
// # Overview
//
// The metrics package instruments:
//   - Event scheduling (scheduled, fired, failed, cleared and expired events)
//   - Queue state (pending events, current time scale)
//   - Tick processing (events drained per tick, callback duration)
//   - Clocks (ticks produced)
//
// # Quick Start
//
// Enable metrics by using the metrics-enabled constructor:
//
//	sched := scheduler.NewWithMetrics(clk, "stage_cues")
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":8080", nil))
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation:
//
//	registry := prometheus.NewRegistry()
//	config := metrics.Config{
//		Enabled:  true,
//		Registry: registry,
//	}
//	sched := scheduler.NewWithConfigAndMetrics(scheduler.Config{Clock: clk}, "cues", config)
//
// # Available Metrics
//
//	tickflow_scheduler_events_scheduled_total{scheduler_name,kind}
//	tickflow_scheduler_events_fired_total{scheduler_name,kind}
//	tickflow_scheduler_events_failed_total{scheduler_name}
//	tickflow_scheduler_events_cleared_total{scheduler_name}
//	tickflow_scheduler_events_expired_total{scheduler_name}
//	tickflow_scheduler_pending_events{scheduler_name}
//	tickflow_scheduler_time_scale{scheduler_name}
//	tickflow_scheduler_tick_drained_events{scheduler_name}
//	tickflow_scheduler_callback_duration_seconds{scheduler_name}
//	tickflow_clock_ticks_total{clock_name}
package metrics
