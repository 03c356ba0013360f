package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chatnotify",
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests by route pattern.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"route", "method", "status"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chatnotify",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern.",
	}, []string{"route", "method", "status"})

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chatnotify",
		Name:      "http_requests_in_flight",
		Help:      "HTTP requests currently being served, intake dispatches included.",
	})
)

// MetricsMiddleware records RED metrics per chi route pattern.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := strconv.Itoa(ww.Status())
		route := routePattern(r)
		httpDuration.WithLabelValues(route, r.Method, status).Observe(time.Since(start).Seconds())
		httpRequests.WithLabelValues(route, r.Method, status).Inc()
	})
}

// routePattern keeps user and conversation ids out of label values.
func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
		return rc.RoutePattern()
	}
	return "unmatched"
}
