package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all application metrics
type Metrics struct {
	// Verification metrics
	VerificationsTotal   *prometheus.CounterVec
	VerificationDuration prometheus.Histogram
	LockContention       prometheus.Counter

	// Checkout metrics
	CheckoutsTotal *prometheus.CounterVec

	// Outbox metrics
	OutboxDispatchTotal    *prometheus.CounterVec
	OutboxDispatchDuration *prometheus.HistogramVec
	OutboxPendingBatch     prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics against the given registry.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		VerificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verifications_total",
				Help:      "Total number of payment verification attempts by outcome",
			},
			[]string{"outcome"},
		),
		VerificationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "verification_duration_seconds",
				Help:      "Payment verification duration in seconds",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
			},
		),
		LockContention: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verification_lock_contention_total",
				Help:      "Number of verification attempts that failed to acquire the lock",
			},
		),
		CheckoutsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "checkouts_total",
				Help:      "Total number of checkout sessions created by outcome",
			},
			[]string{"outcome"},
		),
		OutboxDispatchTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "outbox_dispatch_total",
				Help:      "Total number of outbox messages dispatched by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		OutboxDispatchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "outbox_dispatch_duration_seconds",
				Help:      "Outbox message dispatch duration in seconds",
				Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"kind"},
		),
		OutboxPendingBatch: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "outbox_pending_batch_size",
				Help:      "Number of pending messages fetched in the last poll",
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}

	reg.MustRegister(
		m.VerificationsTotal,
		m.VerificationDuration,
		m.LockContention,
		m.CheckoutsTotal,
		m.OutboxDispatchTotal,
		m.OutboxDispatchDuration,
		m.OutboxPendingBatch,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
	)

	return m
}
