// Package metrics provides Prometheus metrics for the faceoff ranking service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager owns every Prometheus metric the service emits.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Ranking metrics. The duel loop is the product.
	verdictsTotal   prometheus.Counter
	undosTotal      prometheus.Counter
	undosRejected   prometheus.Counter
	pairsServed     *prometheus.CounterVec
	pairRepeats     prometheus.Counter
	pairFallbacks   prometheus.Counter
	itemsTotal      prometheus.Gauge
	coveragePairs   prometheus.Gauge
	coverageRatio   prometheus.Gauge
	ratingSpread    prometheus.Gauge
	verdictLatency  prometheus.Histogram

	// Tournament metrics.
	tournamentRounds       prometheus.Counter
	tournamentMatches      prometheus.Counter
	tournamentEliminations prometheus.Counter
	tournamentCompletions  prometheus.Counter
	tournamentActive       prometheus.Gauge

	// Deletion sequencer metrics.
	deletionsScheduled prometheus.Counter
	deletionsCancelled prometheus.Counter
	deletionsCompleted prometheus.Counter

	// Ingest metrics.
	ingestBatches    prometheus.Counter
	ingestItems      prometheus.Counter
	ingestDuplicates prometheus.Counter

	// Queue metrics.
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueTotal  prometheus.Counter
	queueDequeueTotal  prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics.
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// Store metrics.
	storeOpLatency *prometheus.HistogramVec
	storeErrors    prometheus.Counter

	// HTTP metrics.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics.
	errorsByComponent *prometheus.CounterVec

	// System metrics.
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid the default Go collectors.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "faceoff",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all Prometheus metrics on the configured registry.
func (m *Manager) initializeMetrics() { //nolint:funlen // one registration site for every metric
	auto := promauto.With(m.registry)

	m.verdictsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "verdicts_total",
		Help:      "Total number of comparison verdicts applied",
	})

	m.undosTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "undos_total",
		Help:      "Total number of verdicts undone",
	})

	m.undosRejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "undos_rejected_total",
		Help:      "Total number of undo requests rejected while a tournament was running",
	})

	m.pairsServed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "pairs_served_total",
			Help:      "Total number of comparison pairs served, by mode",
		},
		[]string{"mode"},
	)

	m.pairRepeats = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pair_repeats_total",
		Help:      "Total number of served pairs that had been seen before",
	})

	m.pairFallbacks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pair_fallbacks_total",
		Help:      "Total number of pair selections that fell back to a uniform random draw",
	})

	m.itemsTotal = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "items_total",
		Help:      "Current number of items in the arena",
	})

	m.coveragePairs = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "coverage_unique_pairs",
		Help:      "Number of distinct pairs compared at least once",
	})

	m.coverageRatio = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "coverage_ratio",
		Help:      "Unique pairs seen divided by the maximum possible pairs",
	})

	m.ratingSpread = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "rating_spread",
		Help:      "Difference between the highest and lowest item rating",
	})

	m.verdictLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "verdict_latency_milliseconds",
		Help:      "Histogram of verdict application latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.tournamentRounds = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tournament_rounds_total",
		Help:      "Total number of tournament rounds started",
	})

	m.tournamentMatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tournament_matches_total",
		Help:      "Total number of tournament matches resolved",
	})

	m.tournamentEliminations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tournament_eliminations_total",
		Help:      "Total number of participants eliminated at the loss limit",
	})

	m.tournamentCompletions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tournament_completions_total",
		Help:      "Total number of tournaments that reached a champion",
	})

	m.tournamentActive = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "tournament_active",
		Help:      "Whether a tournament is currently running (1) or not (0)",
	})

	m.deletionsScheduled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "deletions_scheduled_total",
		Help:      "Total number of deferred deletions scheduled",
	})

	m.deletionsCancelled = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "deletions_cancelled_total",
		Help:      "Total number of deferred deletions cancelled before expiry",
	})

	m.deletionsCompleted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "deletions_completed_total",
		Help:      "Total number of deferred deletions that completed",
	})

	m.ingestBatches = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_batches_total",
		Help:      "Total number of ingest batches accepted",
	})

	m.ingestItems = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_items_total",
		Help:      "Total number of items admitted through ingestion",
	})

	m.ingestDuplicates = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_duplicates_total",
		Help:      "Total number of ingest items dropped as duplicate sources",
	})

	m.queueSize = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_size",
		Help:      "Current number of batches waiting in the ingest queue",
	})

	m.queueCapacity = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_capacity",
		Help:      "Maximum ingest queue capacity",
	})

	m.queueUtilization = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_utilization_ratio",
		Help:      "Ingest queue utilization ratio (current size / capacity)",
	})

	m.queueEnqueueTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_total",
		Help:      "Total number of batches enqueued",
	})

	m.queueDequeueTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_dequeue_total",
		Help:      "Total number of batches dequeued",
	})

	m.queueEnqueueErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "queue_enqueue_errors_total",
		Help:      "Total number of enqueue failures (queue full or closed)",
	})

	m.workerCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_count",
		Help:      "Current number of ingest workers",
	})

	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_processing_latency_milliseconds",
		Help:      "Ingest worker batch processing latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.workerErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "worker_errors_total",
		Help:      "Total number of ingest worker errors",
	})

	m.storeOpLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "store_op_latency_milliseconds",
			Help:      "State store operation latency in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"op"},
	)

	m.storeErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "store_errors_total",
		Help:      "Total number of state store errors",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint, method and status",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})

	m.systemGCPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_gc_pause_time_milliseconds",
		Help:      "GC pause time in milliseconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	})
}

// RecordVerdict increments the verdicts counter.
func RecordVerdict() {
	globalManager.verdictsTotal.Inc()
}

// RecordVerdictLatency records verdict application latency in milliseconds.
func RecordVerdictLatency(latencyMs float64) {
	globalManager.verdictLatency.Observe(latencyMs)
}

// RecordUndo increments the undo counter.
func RecordUndo() {
	globalManager.undosTotal.Inc()
}

// RecordUndoRejected increments the rejected-undo counter.
func RecordUndoRejected() {
	globalManager.undosRejected.Inc()
}

// RecordPairServed increments the served-pairs counter for a mode
// ("casual" or "tournament").
func RecordPairServed(mode string) {
	globalManager.pairsServed.WithLabelValues(mode).Inc()
}

// RecordPairRepeat increments the repeated-pair counter.
func RecordPairRepeat() {
	globalManager.pairRepeats.Inc()
}

// RecordPairFallback increments the fallback-selection counter.
func RecordPairFallback() {
	globalManager.pairFallbacks.Inc()
}

// UpdateItemsTotal sets the current arena size.
func UpdateItemsTotal(count int) {
	globalManager.itemsTotal.Set(float64(count))
}

// UpdateCoverage sets the unique-pair gauge and the coverage ratio.
func UpdateCoverage(uniquePairs int, ratio float64) {
	globalManager.coveragePairs.Set(float64(uniquePairs))
	globalManager.coverageRatio.Set(ratio)
}

// UpdateRatingSpread sets the highest-minus-lowest rating gauge.
func UpdateRatingSpread(spread float64) {
	globalManager.ratingSpread.Set(spread)
}

// RecordTournamentRound increments the rounds counter.
func RecordTournamentRound() {
	globalManager.tournamentRounds.Inc()
}

// RecordTournamentMatch increments the resolved-matches counter.
func RecordTournamentMatch() {
	globalManager.tournamentMatches.Inc()
}

// RecordTournamentElimination increments the eliminations counter.
func RecordTournamentElimination() {
	globalManager.tournamentEliminations.Inc()
}

// RecordTournamentCompletion increments the completions counter.
func RecordTournamentCompletion() {
	globalManager.tournamentCompletions.Inc()
}

// UpdateTournamentActive sets the tournament-running gauge.
func UpdateTournamentActive(active bool) {
	v := 0.0
	if active {
		v = 1.0
	}
	globalManager.tournamentActive.Set(v)
}

// RecordDeletionScheduled increments the scheduled-deletions counter.
func RecordDeletionScheduled() {
	globalManager.deletionsScheduled.Inc()
}

// RecordDeletionCancelled increments the cancelled-deletions counter.
func RecordDeletionCancelled() {
	globalManager.deletionsCancelled.Inc()
}

// RecordDeletionCompleted increments the completed-deletions counter.
func RecordDeletionCompleted() {
	globalManager.deletionsCompleted.Inc()
}

// RecordIngestBatch increments the ingest batch counter.
func RecordIngestBatch() {
	globalManager.ingestBatches.Inc()
}

// RecordIngestItems adds to the admitted-items counter.
func RecordIngestItems(count int) {
	globalManager.ingestItems.Add(float64(count))
}

// RecordIngestDuplicates adds to the duplicate-sources counter.
func RecordIngestDuplicates(count int) {
	globalManager.ingestDuplicates.Add(float64(count))
}

// UpdateQueueSize sets the current ingest queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum ingest queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the ingest queue utilization ratio.
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

// UpdateWorkerCount sets the current worker count.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker batch latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// RecordStoreOpLatency records a store operation latency in milliseconds.
func RecordStoreOpLatency(op string, latencyMs float64) {
	globalManager.storeOpLatency.WithLabelValues(op).Observe(latencyMs)
}

// RecordStoreError increments the store error counter.
func RecordStoreError() {
	globalManager.storeErrors.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

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

// GetRegistry returns the custom Prometheus registry backing the
// global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
