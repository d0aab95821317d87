// Package metrics exposes prometheus counters for provider failures and
// stream-health watchdog timeouts, per the teacher's habit of wiring
// prometheus counters close to the code path that increments them rather
// than centralizing them behind an indirection layer. pkg/tui increments
// them on every stream failure; nothing in loom reads them back, and the
// TUI's recovery message does not change with the failure count.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// ProviderFailuresTotal counts ChatCompletion/StreamCompletion
	// failures, labeled by provider type and apperrors.ProviderErrorKind.
	ProviderFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loom_provider_failures_total",
			Help: "Total provider request failures, by provider type and error kind.",
		},
		[]string{"provider", "kind"},
	)

	// StreamTimeoutsTotal counts stream-health watchdog timeouts, labeled
	// by provider type.
	StreamTimeoutsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "loom_stream_timeouts_total",
			Help: "Total streaming response timeouts detected by the TUI's stream-health watchdog.",
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(ProviderFailuresTotal, StreamTimeoutsTotal)
}
