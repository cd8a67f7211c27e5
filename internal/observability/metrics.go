// Package observability groups the Prometheus instruments and OpenTelemetry
// tracing setup used across the service.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the chat engine and
// gateway. Construct it once per process; promauto registers on the
// default registry.
type Metrics struct {
	Turns             *prometheus.CounterVec
	DegenerateReplies prometheus.Counter
	SummaryFallbacks  prometheus.Counter
	CompletionTokens  prometheus.Counter
	TurnLatency       prometheus.Histogram
	StoredSessions    prometheus.Gauge
	PrunedSessions    prometheus.Counter
}

// Turn outcome label values.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeUpstream = "upstream_error"
)

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		Turns: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "turns_total",
			Help:      "Chat turns by outcome.",
		}, []string{"outcome"}),
		DegenerateReplies: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degenerate_replies_total",
			Help:      "Replies where the model returned no usable text.",
		}),
		SummaryFallbacks: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "summary_fallbacks_total",
			Help:      "Compactions that kept the prior summary after a failed or empty re-summarization.",
		}),
		CompletionTokens: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "completion_tokens_total",
			Help:      "Tokens consumed across reply and summary completions.",
		}),
		TurnLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "turn_latency_seconds",
			Help:      "End-to-end latency of a chat turn.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 30},
		}),
		StoredSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stored_sessions",
			Help:      "Sessions currently holding state in the store.",
		}),
		PrunedSessions: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pruned_sessions_total",
			Help:      "Sessions removed by the idle-retention job.",
		}),
	}
}

// ObserveTurn records a completed turn with its outcome and latency.
func (m *Metrics) ObserveTurn(outcome string, d time.Duration) {
	m.Turns.WithLabelValues(outcome).Inc()
	m.TurnLatency.Observe(d.Seconds())
}

// MetricsHandler returns the HTTP handler for GET /metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
