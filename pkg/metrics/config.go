package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Config selects where and under which names scheduler and clock series
// are registered.
type Config struct {
	// Enabled turns collection on. Wrappers built with Enabled false still
	// register their series but leave them untouched.
	Enabled bool

	// Registry receives the collectors. Nil means prometheus.DefaultRegisterer.
	Registry prometheus.Registerer

	// Namespace prefixes every series; empty means DefaultNamespace.
	Namespace string

	// Labels are attached to every series as constant labels, e.g. the show
	// or host a scheduler belongs to.
	Labels prometheus.Labels
}

// DefaultConfig collects into the default registry under "tickflow".
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: DefaultNamespace,
	}
}

// Instrumentable is implemented by wrappers whose collection can be
// switched at runtime.
type Instrumentable interface {
	EnableMetrics(config Config) error
	DisableMetrics()
	MetricsEnabled() bool
}
