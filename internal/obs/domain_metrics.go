package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// CheckoutAttemptTotal counts checkout attempt outcomes per channel.
	CheckoutAttemptTotal *prometheus.CounterVec
	// CheckoutBeginTotal counts provider begin calls per channel and result.
	CheckoutBeginTotal *prometheus.CounterVec
	// CheckoutCaptureTotal counts redirect-wallet capture outcomes.
	CheckoutCaptureTotal *prometheus.CounterVec
	// AccessResolveTotal counts success-URL resolution outcomes.
	AccessResolveTotal *prometheus.CounterVec
	// CountdownCancelTotal counts confirmation countdowns canceled by the buyer.
	CountdownCancelTotal prometheus.Counter
	// ProviderLatency records provider round-trip latency in milliseconds.
	ProviderLatency *prometheus.HistogramVec
)

// MustRegisterDomainMetrics initialises and registers checkout-domain collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		CheckoutAttemptTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_attempt_total",
			Help:      "Count of checkout attempts by channel and final state.",
		}, []string{"channel", "state"})
		CheckoutBeginTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_begin_total",
			Help:      "Count of provider begin calls by channel and result.",
		}, []string{"channel", "result"})
		CheckoutCaptureTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_capture_total",
			Help:      "Count of redirect-wallet capture outcomes.",
		}, []string{"result"})
		AccessResolveTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "access_resolve_total",
			Help:      "Count of success-URL resolution outcomes by channel.",
		}, []string{"channel", "result"})
		CountdownCancelTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "checkout_countdown_cancel_total",
			Help:      "Confirmation countdowns canceled before reaching zero.",
		})
		ProviderLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "checkout_provider_duration_ms",
			Help:      "Provider round-trip latency in milliseconds.",
			Buckets:   []float64{10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"channel", "operation"})

		if v, ok := registerCollector(reg, CheckoutAttemptTotal).(*prometheus.CounterVec); ok {
			CheckoutAttemptTotal = v
		}
		if v, ok := registerCollector(reg, CheckoutBeginTotal).(*prometheus.CounterVec); ok {
			CheckoutBeginTotal = v
		}
		if v, ok := registerCollector(reg, CheckoutCaptureTotal).(*prometheus.CounterVec); ok {
			CheckoutCaptureTotal = v
		}
		if v, ok := registerCollector(reg, AccessResolveTotal).(*prometheus.CounterVec); ok {
			AccessResolveTotal = v
		}
		if v, ok := registerCollector(reg, CountdownCancelTotal).(prometheus.Counter); ok {
			CountdownCancelTotal = v
		}
		if v, ok := registerCollector(reg, ProviderLatency).(*prometheus.HistogramVec); ok {
			ProviderLatency = v
		}
	})
}
