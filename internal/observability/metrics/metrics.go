package metrics

import "github.com/prometheus/client_golang/prometheus"

// WebhookMetrics exposes counters/histograms for webhook, predictor and email flows.
type WebhookMetrics struct {
	requestsTotal     *prometheus.CounterVec
	latency           *prometheus.HistogramVec
	predictorFallback *prometheus.CounterVec
	emailTotal        *prometheus.CounterVec
}

func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	m := &WebhookMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restaurant",
			Subsystem: "webhook",
			Name:      "requests_total",
			Help:      "Total fulfillment requests by intent and outcome",
		}, []string{"intent", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "restaurant",
			Subsystem: "webhook",
			Name:      "latency_seconds",
			Help:      "Latency of fulfillment request handling",
			Buckets:   prometheus.DefBuckets,
		}, []string{"intent"}),
		predictorFallback: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restaurant",
			Subsystem: "predictor",
			Name:      "fallback_total",
			Help:      "Occupancy lookups answered by the rule-based fallback",
		}, []string{"reason"}),
		emailTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "restaurant",
			Subsystem: "email",
			Name:      "total",
			Help:      "Transactional emails by delivery status",
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.requestsTotal, m.latency, m.predictorFallback, m.emailTotal)
	return m
}

func (m *WebhookMetrics) ObserveRequest(intent, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(intent, outcome).Inc()
	m.latency.WithLabelValues(intent).Observe(seconds)
}

func (m *WebhookMetrics) ObserveFallback(reason string) {
	if m == nil {
		return
	}
	m.predictorFallback.WithLabelValues(reason).Inc()
}

func (m *WebhookMetrics) ObserveEmail(status string) {
	if m == nil {
		return
	}
	m.emailTotal.WithLabelValues(status).Inc()
}
