// Package telemetry exports Prometheus metrics for the label pipeline,
// ingredient detection, corrections and chat.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nourish"

// Metrics holds the service collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	PipelineRuns       *prometheus.CounterVec
	PipelineDuration   prometheus.Histogram
	SearchDegradations *prometheus.CounterVec
	AlternativeCache   *prometheus.CounterVec

	DetectRequests *prometheus.CounterVec
	Detections     *prometheus.CounterVec

	Corrections *prometheus.CounterVec

	ChatRequests  *prometheus.CounterVec
	IndexedChunks prometheus.Gauge
}

// New registers every collector on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{registry: reg}
	f := promauto.With(reg)

	initPipelineMetrics(f, m)
	initDetectionMetrics(f, m)
	initCorrectionMetrics(f, m)
	initChatMetrics(f, m)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry for tests and gatherers.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func initPipelineMetrics(f promauto.Factory, m *Metrics) {
	m.PipelineRuns = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "pipeline_runs_total",
		Help:      "Label pipeline runs by outcome",
	}, []string{"outcome"})

	m.PipelineDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "pipeline_duration_seconds",
		Help:      "Wall time of one label pipeline run",
		Buckets:   []float64{0.5, 1, 2, 4, 8, 15, 30, 60, 120},
	})

	m.SearchDegradations = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_degradations_total",
		Help:      "Alternative searches that degraded to no alternative",
	}, []string{"reason"})

	m.AlternativeCache = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "alternative_cache_total",
		Help:      "Alternative memo lookups by result",
	}, []string{"result"})
}

func initDetectionMetrics(f promauto.Factory, m *Metrics) {
	m.DetectRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "detect_requests_total",
		Help:      "Detection requests by outcome",
	}, []string{"outcome"})

	m.Detections = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "detections_total",
		Help:      "Ingredients returned after post-processing",
	}, []string{"label"})
}

func initCorrectionMetrics(f promauto.Factory, m *Metrics) {
	m.Corrections = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "corrections_saved_total",
		Help:      "Saved human corrections by backend",
	}, []string{"backend"})
}

func initChatMetrics(f promauto.Factory, m *Metrics) {
	m.ChatRequests = f.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "chat_requests_total",
		Help:      "Chat requests by outcome",
	}, []string{"outcome"})

	m.IndexedChunks = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "chat_indexed_chunks",
		Help:      "Chunks held by the chat vector collection",
	})
}

// RecordPipeline counts one pipeline run and observes its duration.
func (m *Metrics) RecordPipeline(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.PipelineRuns.WithLabelValues(outcome).Inc()
	m.PipelineDuration.Observe(d.Seconds())
}

// RecordSearchDegradation counts a finder failure that fell back to no alternative.
func (m *Metrics) RecordSearchDegradation(reason string) {
	if m == nil {
		return
	}
	m.SearchDegradations.WithLabelValues(reason).Inc()
}

// RecordAlternativeCache counts a memo hit or miss.
func (m *Metrics) RecordAlternativeCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.AlternativeCache.WithLabelValues(result).Inc()
}

// RecordDetect counts a detection request and each returned label.
func (m *Metrics) RecordDetect(outcome string, labels []string) {
	if m == nil {
		return
	}
	m.DetectRequests.WithLabelValues(outcome).Inc()
	for _, l := range labels {
		m.Detections.WithLabelValues(l).Inc()
	}
}

// RecordCorrection counts a saved correction.
func (m *Metrics) RecordCorrection(backend string) {
	if m == nil {
		return
	}
	m.Corrections.WithLabelValues(backend).Inc()
}

// RecordChat counts a chat request.
func (m *Metrics) RecordChat(outcome string) {
	if m == nil {
		return
	}
	m.ChatRequests.WithLabelValues(outcome).Inc()
}

// SetIndexedChunks reports the size of the chat collection.
func (m *Metrics) SetIndexedChunks(n int) {
	if m == nil {
		return
	}
	m.IndexedChunks.Set(float64(n))
}
