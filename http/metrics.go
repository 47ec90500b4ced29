package http

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for the API server. A nil
// *Metrics disables instrumentation.
type Metrics struct {
	Conversions    *prometheus.CounterVec
	ChatRequests   *prometheus.CounterVec
	ConvertSeconds prometheus.Histogram
}

// NewMetrics registers the server's instruments with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pagemark_conversions_total",
			Help: "Conversion requests by processing mode and outcome.",
		}, []string{"mode", "status"}),
		ChatRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "pagemark_chat_requests_total",
			Help: "Chat requests by outcome.",
		}, []string{"status"}),
		ConvertSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagemark_convert_duration_seconds",
			Help:    "End-to-end conversion latency including fetch and model call.",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}
}

// IncConversion records a conversion outcome.
func (m *Metrics) IncConversion(mode, status string) {
	if m == nil || m.Conversions == nil {
		return
	}
	m.Conversions.WithLabelValues(mode, status).Inc()
}

// IncChat records a chat outcome.
func (m *Metrics) IncChat(status string) {
	if m == nil || m.ChatRequests == nil {
		return
	}
	m.ChatRequests.WithLabelValues(status).Inc()
}

// ObserveConvert records conversion latency in seconds.
func (m *Metrics) ObserveConvert(seconds float64) {
	if m == nil || m.ConvertSeconds == nil {
		return
	}
	m.ConvertSeconds.Observe(seconds)
}
