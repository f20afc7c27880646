package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/archdeck/pkg/observability"
)

// Metrics implements the observability hooks with Prometheus collectors.
// Each Metrics owns its registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	requests    *prometheus.CounterVec
	latency     *prometheus.HistogramVec
	rateLimited *prometheus.CounterVec

	stageDuration *prometheus.HistogramVec
	stageErrors   *prometheus.CounterVec
	diagnostics   *prometheus.CounterVec
	artifactBytes *prometheus.HistogramVec

	cache *prometheus.CounterVec
}

// NewMetrics creates and registers the server's collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archdeck_http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		latency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "archdeck_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		rateLimited: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archdeck_http_rate_limited_total",
				Help: "Requests rejected by the rate limiter",
			},
			[]string{"route"},
		),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "archdeck_pipeline_stage_duration_seconds",
				Help:    "Duration of parse, layout and render stages",
				Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"stage", "variant"},
		),
		stageErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archdeck_pipeline_stage_errors_total",
				Help: "Pipeline stage failures",
			},
			[]string{"stage"},
		),
		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archdeck_layout_diagnostics_total",
				Help: "Diagnostics reported by the layout engine",
			},
			[]string{"strategy"},
		),
		artifactBytes: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "archdeck_artifact_bytes",
				Help:    "Size of rendered artifacts",
				Buckets: prometheus.ExponentialBuckets(512, 4, 8),
			},
			[]string{"format"},
		),
		cache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "archdeck_cache_operations_total",
				Help: "Cache hits, misses and writes by key type",
			},
			[]string{"key_type", "result"},
		),
	}
	m.registry.MustRegister(
		m.requests, m.latency, m.rateLimited,
		m.stageDuration, m.stageErrors, m.diagnostics, m.artifactBytes,
		m.cache,
	)
	return m
}

// Install registers m as the process-wide pipeline, cache and request hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetRequestHooks(m)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// =============================================================================
// Pipeline Hooks
// =============================================================================

func (m *Metrics) OnParseStart(context.Context, string) {}

func (m *Metrics) OnParseComplete(_ context.Context, format string, _ int, d time.Duration, err error) {
	m.stage("parse", format, d, err)
}

func (m *Metrics) OnLayoutStart(context.Context, string, int) {}

func (m *Metrics) OnLayoutComplete(_ context.Context, strategy string, diagnostics int, d time.Duration, err error) {
	m.stage("layout", strategy, d, err)
	if diagnostics > 0 {
		m.diagnostics.WithLabelValues(strategy).Add(float64(diagnostics))
	}
}

func (m *Metrics) OnRenderStart(context.Context, string) {}

func (m *Metrics) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	m.stage("render", format, d, err)
	if err == nil {
		m.artifactBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (m *Metrics) stage(name, variant string, d time.Duration, err error) {
	m.stageDuration.WithLabelValues(name, variant).Observe(d.Seconds())
	if err != nil {
		m.stageErrors.WithLabelValues(name).Inc()
	}
}

// =============================================================================
// Cache Hooks
// =============================================================================

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cache.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cache.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, _ int) {
	m.cache.WithLabelValues(keyType, "set").Inc()
}

// =============================================================================
// Request Hooks
// =============================================================================

// OnRequest is a no-op: requests are counted once their status is known.
func (m *Metrics) OnRequest(context.Context, string, string) {}

func (m *Metrics) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) OnRateLimited(_ context.Context, route string) {
	m.rateLimited.WithLabelValues(route).Inc()
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.RequestHooks  = (*Metrics)(nil)
)
