// Package metrics holds the Prometheus collectors for the notification pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	dispatchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "chatnotify_dispatch_total",
		Help: "Message-created events processed, by outcome.",
	}, []string{"outcome"})

	dispatchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "chatnotify_dispatch_duration_seconds",
		Help:    "Time spent handling one message-created event.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})

	breakerState = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "chatnotify_push_breaker_open",
		Help: "1 while the push provider circuit breaker rejects sends.",
	})
)

// ObserveDispatch records one finished dispatch.
func ObserveDispatch(outcome string, d time.Duration) {
	dispatchTotal.WithLabelValues(outcome).Inc()
	dispatchDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// SetBreakerOpen exports the push breaker state.
func SetBreakerOpen(open bool) {
	if open {
		breakerState.Set(1)
		return
	}
	breakerState.Set(0)
}
