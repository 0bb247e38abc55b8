package metrics

import "github.com/prometheus/client_golang/prometheus"

// Assistant Prometheus metrics.
var (
	SearchTierTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "martpilot",
			Name:      "search_tier_total",
			Help:      "Search requests served per ranking tier",
		},
		[]string{"tier"}, // "semantic" / "fuzzy"
	)

	ReplyTierTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "martpilot",
			Name:      "reply_tier_total",
			Help:      "Assistant replies produced per generation tier",
		},
		[]string{"tier"}, // "generated" / "fallback"
	)

	BackendRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "martpilot",
			Name:      "backend_requests_total",
			Help:      "Calls to the optional LLM backends",
		},
		[]string{"capability", "status"}, // match/generate/transcribe, success/error
	)

	BackendRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "martpilot",
			Name:      "backend_request_duration_seconds",
			Help:      "LLM backend request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"capability"},
	)
)

var assistantMetricsRegistered bool

// RegisterAssistantMetrics registers the assistant metrics. Must be called once from main.
func RegisterAssistantMetrics() {
	if assistantMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchTierTotal)
	prometheus.MustRegister(ReplyTierTotal)
	prometheus.MustRegister(BackendRequestsTotal)
	prometheus.MustRegister(BackendRequestDuration)
	assistantMetricsRegistered = true
}
