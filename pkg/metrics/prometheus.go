// Package metrics provides Prometheus metrics for the modtier service.
package metrics

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Classification sources used as label values.
const (
	SourceFamily   = "family"
	SourceFallback = "fallback"
	SourceUnknown  = "unknown"
)

// Manager owns all Prometheus collectors for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Classification
	classifications    *prometheus.CounterVec
	familySize         prometheus.Histogram
	fallbackOutOfRange prometheus.Counter

	// Catalog
	catalogRecords  prometheus.Gauge
	catalogFamilies prometheus.Gauge

	// Inspections
	inspectionsProcessed prometheus.Counter
	inspectionsDuplicate prometheus.Counter
	unknownModifiers     prometheus.Counter
	reportsStored        prometheus.Gauge

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueEnqueue       prometheus.Counter
	queueDequeue       prometheus.Counter
	queueEnqueueErrors *prometheus.CounterVec

	// Workers
	workerCount             prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec
}

var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide metrics registry

var globalManager = NewManager(WithPrometheusRegistry(customRegistry)) //nolint:gochecknoglobals // singleton metrics manager

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "modtier",
		subsystem:        "classifier",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      prometheus.Labels{},
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

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	})
}

func (m *Manager) counterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return promauto.With(m.registry).NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}, labels)
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.classifications = m.counterVec("classifications_total",
		"Modifier classifications by tier source", "source")
	m.familySize = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "eligible_tiers",
		Help:        "Number of eligible tiers counted per classification",
		Buckets:     []float64{0, 1, 2, 3, 4, 5, 6, 8, 10, 15, 20},
		ConstLabels: m.constLabels,
	})
	m.fallbackOutOfRange = m.counter("fallback_out_of_range_total",
		"Fallback tiers larger than the counted family size")

	m.catalogRecords = m.gauge("catalog_records", "Modifier records in the loaded catalog")
	m.catalogFamilies = m.gauge("catalog_families", "Modifier families in the tier table")

	m.inspectionsProcessed = m.counter("inspections_processed_total", "Items inspected")
	m.inspectionsDuplicate = m.counter("inspections_duplicate_total", "Inspection submissions rejected as duplicates")
	m.unknownModifiers = m.counter("unknown_modifiers_total", "Modifier keys missing from the catalog")
	m.reportsStored = m.gauge("reports_stored", "Inspection reports held in the report store")

	m.queueSize = m.gauge("queue_size", "Current size of the inspection queue")
	m.queueCapacity = m.gauge("queue_capacity", "Capacity of the inspection queue")
	m.queueEnqueue = m.counter("queue_enqueue_total", "Inspections enqueued")
	m.queueDequeue = m.counter("queue_dequeue_total", "Inspections dequeued")
	m.queueEnqueueErrors = m.counterVec("queue_enqueue_errors_total", "Rejected enqueues by reason", "reason")

	m.workerCount = m.gauge("worker_count", "Configured inspection workers")
	m.workerProcessingLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "worker_processing_latency_milliseconds",
		Help:        "Time spent inspecting one queued item",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	})
	m.workerErrors = m.counter("worker_errors_total", "Failed queued inspections")

	m.httpRequests = m.counterVec("http_requests_total",
		"HTTP requests by endpoint, method and status", "endpoint", "method", "status_code")
	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})
	m.httpErrors = m.counterVec("http_errors_total",
		"HTTP error responses by endpoint and error type", "endpoint", "error_type")
}

// RecordClassification counts one classification and the eligible tiers it saw.
func (m *Manager) RecordClassification(source string, totalTiers int) error {
	switch source {
	case SourceFamily, SourceFallback, SourceUnknown:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	m.classifications.WithLabelValues(source).Inc()
	m.familySize.Observe(float64(totalTiers))
	return nil
}

// RecordClassification counts one classification on the global manager.
// Unknown sources are counted as "unknown".
func RecordClassification(source string, totalTiers int) {
	if err := globalManager.RecordClassification(source, totalTiers); err != nil {
		_ = globalManager.RecordClassification(SourceUnknown, totalTiers)
	}
}

// RecordFallbackOutOfRange counts a fallback tier above the family size.
func RecordFallbackOutOfRange() { globalManager.fallbackOutOfRange.Inc() }

// UpdateCatalog sets the catalog size gauges.
func UpdateCatalog(records, families int) {
	globalManager.catalogRecords.Set(float64(records))
	globalManager.catalogFamilies.Set(float64(families))
}

// RecordInspectionProcessed counts an inspected item.
func RecordInspectionProcessed() { globalManager.inspectionsProcessed.Inc() }

// RecordInspectionDuplicate counts a duplicate submission.
func RecordInspectionDuplicate() { globalManager.inspectionsDuplicate.Inc() }

// RecordUnknownModifiers adds n modifier keys missing from the catalog.
func RecordUnknownModifiers(n int) { globalManager.unknownModifiers.Add(float64(n)) }

// UpdateReportsStored sets the number of stored reports.
func UpdateReportsStored(n int) { globalManager.reportsStored.Set(float64(n)) }

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) { globalManager.queueSize.Set(float64(size)) }

// UpdateQueueCapacity sets the queue capacity.
func UpdateQueueCapacity(capacity int) { globalManager.queueCapacity.Set(float64(capacity)) }

// RecordQueueEnqueue counts an enqueue.
func RecordQueueEnqueue() { globalManager.queueEnqueue.Inc() }

// RecordQueueDequeue counts a dequeue.
func RecordQueueDequeue() { globalManager.queueDequeue.Inc() }

// RecordQueueEnqueueError counts a rejected enqueue.
func RecordQueueEnqueueError(reason string) {
	globalManager.queueEnqueueErrors.WithLabelValues(reason).Inc()
}

// UpdateWorkerCount sets the configured worker count.
func UpdateWorkerCount(count int) { globalManager.workerCount.Set(float64(count)) }

// RecordWorkerProcessingLatency records per-item worker latency in milliseconds.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError counts a failed queued inspection.
func RecordWorkerError() { globalManager.workerErrors.Inc() }

// RecordHTTPRequest counts a request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordHTTPError counts an error response.
func RecordHTTPError(endpoint, errorType string) {
	globalManager.httpErrors.WithLabelValues(endpoint, errorType).Inc()
}

// GetRegistry returns the registry the global metrics are registered on.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

var runtimeOnce sync.Once //nolint:gochecknoglobals // guards RegisterRuntimeCollectors

// RegisterRuntimeCollectors adds the Go runtime and process collectors to
// the global registry. Safe to call more than once.
func RegisterRuntimeCollectors() {
	runtimeOnce.Do(func() {
		customRegistry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	})
}
