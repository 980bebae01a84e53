package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DatabaseQueryLatency records repository call latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chirp_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// MutationsTotal counts mutation operations by name and outcome error type.
	MutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_mutations_total",
		Help: "Total number of mutation operations by outcome",
	}, []string{"operation", "outcome"})

	// CacheLookups counts cache-aside lookups by cache name and result (hit, miss, error).
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_cache_lookups_total",
		Help: "Total number of cache lookups by result",
	}, []string{"cache", "result"})

	// EventsPublished counts domain events published to Redis by event type.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chirp_events_published_total",
		Help: "Total number of domain events published",
	}, []string{"event"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}

// RecordMutation counts one mutation with outcome "ok" or the error type.
func RecordMutation(operation, outcome string) {
	MutationsTotal.WithLabelValues(operation, outcome).Inc()
}
