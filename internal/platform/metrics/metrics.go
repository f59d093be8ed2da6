// Package metrics records HTTP-level Prometheus metrics for the consent API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"consentsync/internal/platform/middleware"
)

type Metrics struct {
	EndpointLatency *prometheus.HistogramVec
	Requests        *prometheus.CounterVec
	InFlight        prometheus.Gauge
}

// New registers the HTTP metrics with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		EndpointLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consentsync_http_endpoint_latency_seconds",
			Help:    "Latency of HTTP endpoints in seconds, labeled by route pattern",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"route"}),
		Requests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "consentsync_http_requests_total",
			Help: "Total HTTP requests, labeled by route pattern, method and status code",
		}, []string{"route", "method", "code"}),
		InFlight: factory.NewGauge(prometheus.GaugeOpts{
			Name: "consentsync_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),
	}
}

// ObserveEndpointLatency records the latency for a given route
func (m *Metrics) ObserveEndpointLatency(route string, d time.Duration) {
	m.EndpointLatency.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) IncrementRequests(route, method string, status int) {
	m.Requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
}

// Instrument is router middleware. Labels use the chi route pattern so path
// parameters do not explode cardinality.
func (m *Metrics) Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.InFlight.Inc()
		defer m.InFlight.Dec()

		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := middleware.RoutePattern(r)
		m.ObserveEndpointLatency(route, time.Since(start))
		m.IncrementRequests(route, r.Method, status)
	})
}
