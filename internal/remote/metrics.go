package remote

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts backend calls by resource and status class.
type Metrics struct {
	requests *prometheus.CounterVec
	latency  *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "marketplace",
			Subsystem: "client",
			Name:      "requests_total",
			Help:      "Backend calls issued by the marketplace client",
		}, []string{"resource", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "marketplace",
			Subsystem: "client",
			Name:      "request_duration_seconds",
			Help:      "Latency of backend calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"resource"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requests, m.latency)
	return m
}

func (m *Metrics) Observe(resource, method string, status int, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(resource, method, statusClass(status)).Inc()
	m.latency.WithLabelValues(resource).Observe(seconds)
}

func statusClass(status int) string {
	switch {
	case status == 0:
		return "error"
	case status < 300:
		return "2xx"
	case status < 400:
		return "3xx"
	case status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}
