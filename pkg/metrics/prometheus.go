// Package metrics provides Prometheus metrics for the trendboard dashboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Dashboard query metrics
	dashboardQueries *prometheus.CounterVec
	filterResultSize prometheus.Histogram
	emptyResults     prometheus.Counter
	rankingQueries   *prometheus.CounterVec
	datasetSize      prometheus.Gauge

	// Time gate metrics
	gateActive      prometheus.Gauge
	gateEvaluations prometheus.Counter
	gateTransitions *prometheus.CounterVec

	// Live push metrics
	wsClients    prometheus.Gauge
	wsBroadcasts prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "trendboard",
		subsystem:        "dashboard",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one block per metric
	auto := promauto.With(m.registry)
	constLabels := prometheus.Labels(m.customLabels)

	m.dashboardQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "queries_total",
		Help:        "Filtered metric queries by engagement and impression tier",
		ConstLabels: constLabels,
	}, []string{"engagement", "impressions"})

	m.filterResultSize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "filter_result_size",
		Help:        "Number of categories returned per filtered query",
		Buckets:     prometheus.LinearBuckets(0, 1, 11),
		ConstLabels: constLabels,
	})

	m.emptyResults = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "empty_results_total",
		Help:        "Filtered queries that matched no category",
		ConstLabels: constLabels,
	})

	m.rankingQueries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ranking_queries_total",
		Help:        "Top-N ranking queries by sort key",
		ConstLabels: constLabels,
	}, []string{"by"})

	m.datasetSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "dataset_categories",
		Help:        "Number of categories in the loaded dataset",
		ConstLabels: constLabels,
	})

	m.gateActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "gate_active",
		Help:        "1 while the time gate allows live analytics, 0 otherwise",
		ConstLabels: constLabels,
	})

	m.gateEvaluations = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "gate_evaluations_total",
		Help:        "Total number of time gate evaluations",
		ConstLabels: constLabels,
	})

	m.gateTransitions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "gate_transitions_total",
		Help:        "Time gate state changes by target state",
		ConstLabels: constLabels,
	}, []string{"to"})

	m.wsClients = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ws_clients",
		Help:        "Currently connected websocket clients",
		ConstLabels: constLabels,
	})

	m.wsBroadcasts = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "ws_broadcasts_total",
		Help:        "Gate snapshots broadcast to websocket clients",
		ConstLabels: constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByType = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_type_total",
		Help:        "Errors by type and severity",
		ConstLabels: constLabels,
	}, []string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_endpoint_total",
		Help:        "Errors by HTTP endpoint",
		ConstLabels: constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_memory_usage_bytes",
		Help:        "System memory usage in bytes",
		ConstLabels: constLabels,
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: constLabels,
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "system_gc_pause_time_milliseconds",
		Help:        "GC pause time in milliseconds",
		Buckets:     []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		ConstLabels: constLabels,
	})
}

// RecordQuery counts a filtered query and observes its result size.
func (m *Manager) RecordQuery(engagement, impressions string, results int) {
	if !m.enabled {
		return
	}
	m.dashboardQueries.WithLabelValues(engagement, impressions).Inc()
	m.filterResultSize.Observe(float64(results))
	if results == 0 {
		m.emptyResults.Inc()
	}
}

// RecordRanking counts a top-N query.
func (m *Manager) RecordRanking(by string) {
	if !m.enabled {
		return
	}
	m.rankingQueries.WithLabelValues(by).Inc()
}

// UpdateGateActive mirrors the gate flag into a 0/1 gauge.
func (m *Manager) UpdateGateActive(active bool) {
	if !m.enabled {
		return
	}
	if active {
		m.gateActive.Set(1)
		return
	}
	m.gateActive.Set(0)
}

// RecordGateEvaluation counts one gate evaluation.
func (m *Manager) RecordGateEvaluation() {
	if !m.enabled {
		return
	}
	m.gateEvaluations.Inc()
}

// RecordGateTransition counts a gate state change to the given state.
func (m *Manager) RecordGateTransition(to string) {
	if !m.enabled {
		return
	}
	m.gateTransitions.WithLabelValues(to).Inc()
}

// Global recorders delegate to the package manager.

// RecordQuery counts a filtered query on the global manager.
func RecordQuery(engagement, impressions string, results int) {
	globalManager.RecordQuery(engagement, impressions, results)
}

// RecordRanking counts a top-N query on the global manager.
func RecordRanking(by string) {
	globalManager.RecordRanking(by)
}

// UpdateDatasetSize sets the loaded category count.
func UpdateDatasetSize(n int) {
	globalManager.datasetSize.Set(float64(n))
}

// UpdateGateActive mirrors the gate flag on the global manager.
func UpdateGateActive(active bool) {
	globalManager.UpdateGateActive(active)
}

// RecordGateEvaluation counts one gate evaluation on the global manager.
func RecordGateEvaluation() {
	globalManager.RecordGateEvaluation()
}

// RecordGateTransition counts a gate state change on the global manager.
func RecordGateTransition(to string) {
	globalManager.RecordGateTransition(to)
}

// UpdateWSClients sets the connected websocket client count.
func UpdateWSClients(n int) {
	globalManager.wsClients.Set(float64(n))
}

// RecordWSBroadcast counts one broadcast round.
func RecordWSBroadcast() {
	globalManager.wsBroadcasts.Inc()
}

// RecordHTTPRequest increments the HTTP requests counter.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByType records an error by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error by HTTP endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage updates the system memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom registry served by /healthz.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
