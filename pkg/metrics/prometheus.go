// Package metrics provides Prometheus metrics for the LeetInsight service.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// readinessBuckets spans the 0-100 readiness display range.
var readinessBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100} //nolint:gochecknoglobals // fixed bucket layout

// Manager manages all Prometheus metrics for the LeetInsight service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Analytics
	insightsComputed     prometheus.Counter
	readinessScore       prometheus.Histogram
	recommendationsCount prometheus.Histogram

	// Upstream data source
	upstreamRequests *prometheus.CounterVec
	upstreamLatency  *prometheus.HistogramVec

	// Response cache
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheEntries   prometheus.Gauge
	cacheEvictions prometheus.Counter

	// Snapshots
	snapshotsTaken   *prometheus.CounterVec
	snapshotFailures *prometheus.CounterVec

	// Leaderboard
	leaderboardUsers   prometheus.Gauge
	leaderboardUpserts prometheus.Counter

	// Repository
	repositoryQueryLatency *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Snapshot job queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueTotal  prometheus.Counter
	queueDequeueTotal  prometheus.Counter
	queueEnqueueErrors prometheus.Counter
	jobsDuplicate      prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Scheduler
	schedulerRuns        prometheus.Counter
	schedulerLastRunUnix prometheus.Gauge

	// Errors
	errorsByComponent *prometheus.CounterVec
	errorsByEndpoint  *prometheus.CounterVec

	// System
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
		namespace:        "leetinsight",
		subsystem:        "",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()
	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	})
}

func (m *Manager) histogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return promauto.With(m.registry).NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels, Buckets: buckets,
	}, labels)
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	m.insightsComputed = m.counter("insights_computed_total", "Total number of readiness reports computed (cache misses)")
	m.readinessScore = m.histogram("readiness_score", "Distribution of final readiness scores", readinessBuckets)
	m.recommendationsCount = m.histogram("recommendations_count", "Number of topics recommended per report", []float64{0, 1, 2, 3, 5, 7, 10})

	m.upstreamRequests = m.counterVec("upstream_requests_total", "Upstream GraphQL requests by operation and outcome", "operation", "outcome")
	m.upstreamLatency = m.histogramVec("upstream_latency_milliseconds", "Upstream GraphQL latency in milliseconds", []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}, "operation")

	m.cacheHits = m.counterVec("cache_hits_total", "Response cache hits by key kind", "kind")
	m.cacheMisses = m.counterVec("cache_misses_total", "Response cache misses by key kind", "kind")
	m.cacheEntries = m.gauge("cache_entries", "Current number of live cache entries")
	m.cacheEvictions = m.counter("cache_evictions_total", "Cache entries removed because they expired or the cache was full")

	m.snapshotsTaken = m.counterVec("snapshots_taken_total", "Snapshots persisted by trigger source", "source")
	m.snapshotFailures = m.counterVec("snapshot_failures_total", "Snapshot attempts that failed by trigger source", "source")

	m.leaderboardUsers = m.gauge("leaderboard_users", "Number of users tracked on the leaderboard")
	m.leaderboardUpserts = m.counter("leaderboard_upserts_total", "Leaderboard rows written")

	m.repositoryQueryLatency = m.histogramVec("repository_query_latency_milliseconds", "Repository operation latency in milliseconds", m.histogramBuckets, "operation")

	m.httpRequests = m.counterVec("http_requests_total", "Total number of HTTP requests by endpoint and method", "endpoint", "method", "status_code")
	m.httpRequestDuration = m.histogramVec("http_request_duration_milliseconds", "HTTP request duration in milliseconds", []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000}, "endpoint", "method", "status_code")

	m.queueSize = m.gauge("queue_size", "Current number of queued snapshot jobs")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum number of queued snapshot jobs")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queued jobs divided by capacity")
	m.queueEnqueueTotal = m.counter("queue_enqueue_total", "Snapshot jobs enqueued")
	m.queueDequeueTotal = m.counter("queue_dequeue_total", "Snapshot jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Snapshot jobs rejected by the queue")
	m.jobsDuplicate = m.counter("jobs_duplicate_total", "Snapshot jobs skipped because they were already scheduled")

	m.workerCount = m.gauge("worker_count", "Number of snapshot workers")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds", "Snapshot job processing latency in milliseconds", []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000})
	m.workerErrors = m.counter("worker_errors_total", "Snapshot jobs that failed")

	m.schedulerRuns = m.counter("scheduler_runs_total", "Scheduled snapshot batches started")
	m.schedulerLastRunUnix = m.gauge("scheduler_last_run_unix", "Unix time of the last scheduled snapshot batch")

	m.errorsByComponent = m.counterVec("errors_by_component_total", "Errors by component and type", "component", "error_type")
	m.errorsByEndpoint = m.counterVec("errors_by_endpoint_total", "HTTP errors by endpoint, method and type", "endpoint", "method", "error_type")

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
	m.systemGCPauseTime = m.histogram("system_gc_pause_time_milliseconds", "GC pause time in milliseconds", []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000})
}

// Analytics.

// RecordInsightsComputed records a freshly computed report and its scores.
func RecordInsightsComputed(finalScore float64, recommendations int) {
	globalManager.insightsComputed.Inc()
	globalManager.readinessScore.Observe(finalScore)
	globalManager.recommendationsCount.Observe(float64(recommendations))
}

// Upstream.

// RecordUpstreamRequest records one upstream call with its outcome and latency.
func RecordUpstreamRequest(operation, outcome string, latencyMs float64) {
	globalManager.upstreamRequests.WithLabelValues(operation, outcome).Inc()
	globalManager.upstreamLatency.WithLabelValues(operation).Observe(latencyMs)
}

// Cache.

// RecordCacheHit increments the cache hit counter for a key kind.
func RecordCacheHit(kind string) {
	globalManager.cacheHits.WithLabelValues(kind).Inc()
}

// RecordCacheMiss increments the cache miss counter for a key kind.
func RecordCacheMiss(kind string) {
	globalManager.cacheMisses.WithLabelValues(kind).Inc()
}

// UpdateCacheEntries sets the number of live cache entries.
func UpdateCacheEntries(n int) {
	globalManager.cacheEntries.Set(float64(n))
}

// RecordCacheEvictions adds n evicted entries.
func RecordCacheEvictions(n int) {
	if n > 0 {
		globalManager.cacheEvictions.Add(float64(n))
	}
}

// Snapshots.

// RecordSnapshotTaken increments the snapshot counter for a trigger source.
func RecordSnapshotTaken(source string) {
	globalManager.snapshotsTaken.WithLabelValues(source).Inc()
}

// RecordSnapshotFailure increments the snapshot failure counter for a trigger source.
func RecordSnapshotFailure(source string) {
	globalManager.snapshotFailures.WithLabelValues(source).Inc()
}

// Leaderboard.

// UpdateLeaderboardUsers sets the number of ranked users.
func UpdateLeaderboardUsers(n int) {
	globalManager.leaderboardUsers.Set(float64(n))
}

// RecordLeaderboardUpsert increments the leaderboard write counter.
func RecordLeaderboardUpsert() {
	globalManager.leaderboardUpserts.Inc()
}

// Repository.

// RecordRepositoryQueryLatency records a repository operation latency.
func RecordRepositoryQueryLatency(operation string, latencyMs float64) {
	globalManager.repositoryQueryLatency.WithLabelValues(operation).Observe(latencyMs)
}

// HTTP.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Queue.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueTotal.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueTotal.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// RecordJobDuplicate increments the duplicate job counter.
func RecordJobDuplicate() {
	globalManager.jobsDuplicate.Inc()
}

// Workers.

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// Scheduler.

// RecordSchedulerRun records the start of a scheduled batch.
func RecordSchedulerRun(unix int64) {
	globalManager.schedulerRuns.Inc()
	globalManager.schedulerLastRunUnix.Set(float64(unix))
}

// Errors.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RegisterCollector adds an extra collector (e.g. build info) to the service registry.
func RegisterCollector(c prometheus.Collector) error {
	if err := customRegistry.Register(c); err != nil {
		return fmt.Errorf("%w: %w", ErrRegister, err)
	}
	return nil
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
