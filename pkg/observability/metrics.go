// Package observability provides Prometheus metrics and HTTP middleware
// for monitoring the gencode gateway.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// GenerationBuckets covers code generation latencies, from 100ms to 10m.
var GenerationBuckets = []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60, 120, 300, 600}

// Provider outcomes for ProviderRequestsTotal.
const (
	OutcomeOK        = "ok"
	OutcomeDispatch  = "dispatch_error"
	OutcomeTruncated = "truncated"
	OutcomeCancelled = "cancelled"
)

var (
	// RequestsTotal counts HTTP requests by method and status class.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gencode_requests_total",
			Help: "Total requests",
		},
		[]string{"method", "status"},
	)

	// RequestDuration records HTTP request duration in seconds, including
	// the full streamed body.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gencode_request_duration_seconds",
			Help:    "Request duration",
			Buckets: GenerationBuckets,
		},
		[]string{"method"},
	)

	// StreamingConnections tracks responses currently streaming generated text.
	StreamingConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "gencode_streaming_connections_active",
			Help: "Active streaming connections",
		},
	)

	// ProviderRequestsTotal counts upstream generations by outcome.
	ProviderRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gencode_provider_requests_total",
			Help: "Provider requests",
		},
		[]string{"provider", "model", "outcome"},
	)

	// ProviderFirstFragment records the time from dispatch to the first
	// emitted fragment.
	ProviderFirstFragment = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gencode_provider_first_fragment_seconds",
			Help:    "Time to first fragment",
			Buckets: GenerationBuckets,
		},
		[]string{"provider", "model"},
	)

	// FragmentsTotal counts text fragments written to clients.
	FragmentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gencode_fragments_total",
			Help: "Text fragments streamed",
		},
		[]string{"provider"},
	)

	// MidStreamTruncationsTotal counts responses cut short after streaming began.
	MidStreamTruncationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gencode_midstream_truncations_total",
			Help: "Mid-stream truncations",
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		StreamingConnections,
		ProviderRequestsTotal,
		ProviderFirstFragment,
		FragmentsTotal,
		MidStreamTruncationsTotal,
	)
}

// RecordFirstFragment observes the dispatch-to-first-fragment latency.
func RecordFirstFragment(provider, model string, since time.Time) {
	ProviderFirstFragment.WithLabelValues(provider, model).Observe(time.Since(since).Seconds())
}
