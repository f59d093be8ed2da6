package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for the consent coordinator.
type Metrics struct {
	Loads               *prometheus.CounterVec
	LoadLatency         prometheus.Histogram
	ConsentSets         *prometheus.CounterVec
	PermissionRefreshes *prometheus.CounterVec
	NativeRoutes        *prometheus.CounterVec
	ReadyTransitions    prometheus.Counter
	SDKCallLatency      *prometheus.HistogramVec
	PurposesCached      prometheus.Gauge
	PermissionsCached   prometheus.Gauge
}

// New registers collectors on reg. Pass prometheus.DefaultRegisterer in
// production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Loads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "consentsync_loads_total",
			Help: "Total number of collection loads, labeled by collection and result",
		}, []string{"collection", "result"}),
		LoadLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "consentsync_load_all_latency_seconds",
			Help:    "Latency of a full purposes and permissions reload in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ConsentSets: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "consentsync_consent_sets_total",
			Help: "Total number of consent-set calls, labeled by kind, status and outcome",
		}, []string{"kind", "status", "outcome"}),
		PermissionRefreshes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "consentsync_permission_refreshes_total",
			Help: "Total number of single-permission refreshes, labeled by result",
		}, []string{"result"}),
		NativeRoutes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "consentsync_native_routes_total",
			Help: "Native permission requests, labeled by the route taken",
		}, []string{"route"}),
		ReadyTransitions: factory.NewCounter(prometheus.CounterOpts{
			Name: "consentsync_sdk_ready_total",
			Help: "Number of times the consent SDK became ready",
		}),
		SDKCallLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "consentsync_sdk_call_latency_seconds",
			Help:    "Latency of consent SDK calls in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),
		PurposesCached: factory.NewGauge(prometheus.GaugeOpts{
			Name: "consentsync_purposes_cached",
			Help: "Number of purposes in the coordinator cache",
		}),
		PermissionsCached: factory.NewGauge(prometheus.GaugeOpts{
			Name: "consentsync_permissions_cached",
			Help: "Number of permissions in the coordinator cache",
		}),
	}
}

func (m *Metrics) IncrementLoad(collection string, ok bool) {
	m.Loads.WithLabelValues(collection, result(ok)).Inc()
}

func (m *Metrics) ObserveLoadAllLatency(d time.Duration) {
	m.LoadLatency.Observe(d.Seconds())
}

// IncrementConsentSet counts a set call. outcome is accepted, rejected or failed.
func (m *Metrics) IncrementConsentSet(kind, status, outcome string) {
	m.ConsentSets.WithLabelValues(kind, status, outcome).Inc()
}

func (m *Metrics) IncrementPermissionRefresh(ok bool) {
	m.PermissionRefreshes.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) IncrementNativeRoute(route string) {
	m.NativeRoutes.WithLabelValues(route).Inc()
}

func (m *Metrics) IncrementReady() {
	m.ReadyTransitions.Inc()
}

func (m *Metrics) ObserveSDKCall(operation string, d time.Duration) {
	m.SDKCallLatency.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) SetCached(purposes, permissions int) {
	m.PurposesCached.Set(float64(purposes))
	m.PermissionsCached.Set(float64(permissions))
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
