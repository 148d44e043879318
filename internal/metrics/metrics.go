// Package metrics implements the observability hooks with Prometheus
// collectors on a dedicated registry.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/jsongraph/pkg/observability"
)

const namespace = "jsongraph"

var durationBuckets = []float64{.0005, .001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5}

// Metrics holds every collector. Create it with New.
type Metrics struct {
	reg *prometheus.Registry

	parses          *prometheus.CounterVec
	parseBytes      prometheus.Histogram
	parseDuration   prometheus.Histogram
	graphNodes      prometheus.Histogram
	buildDuration   prometheus.Histogram
	layoutsInFlight *prometheus.GaugeVec
	layouts         *prometheus.CounterVec
	layoutDuration  *prometheus.HistogramVec
	layoutsStale    *prometheus.CounterVec
	searches        *prometheus.CounterVec
	cacheRequests   *prometheus.CounterVec
	cacheBytes      *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	sessions        prometheus.Gauge
}

// New registers the collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		reg: reg,
		parses: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "parses_total",
			Help:      "JSON documents parsed, labelled by outcome.",
		}, []string{"status"}),
		parseBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_input_bytes",
			Help:      "Size of parsed JSON input.",
			Buckets:   prometheus.ExponentialBuckets(64, 4, 10),
		}),
		parseDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parse_duration_seconds",
			Help:      "Time spent parsing JSON input.",
			Buckets:   durationBuckets,
		}),
		graphNodes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Node count of built graphs.",
			Buckets:   prometheus.ExponentialBuckets(4, 4, 8),
		}),
		buildDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Time spent building graphs.",
			Buckets:   durationBuckets,
		}),
		layoutsInFlight: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "layouts_in_flight",
			Help:      "Layouts currently running, labelled by engine.",
		}, []string{"engine"}),
		layouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_total",
			Help:      "Completed layouts, labelled by engine and outcome.",
		}, []string{"engine", "status"}),
		layoutDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Layout latency, labelled by engine.",
			Buckets:   durationBuckets,
		}, []string{"engine"}),
		layoutsStale: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layouts_discarded_total",
			Help:      "Layouts discarded because a newer generation replaced them.",
		}, []string{"engine"}),
		searches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Path searches, labelled by mode and result.",
		}, []string{"mode", "result"}),
		cacheRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_requests_total",
			Help:      "Cache lookups, labelled by key type and result.",
		}, []string{"type", "result"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_written_bytes_total",
			Help:      "Bytes written to the cache, labelled by key type.",
		}, []string{"type"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests, labelled by method, route and status code.",
		}, []string{"method", "route", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency, labelled by route.",
			Buckets:   durationBuckets,
		}, []string{"route"}),
		sessions: f.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Live sessions held by the server.",
		}),
	}
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry { return m.reg }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{Registry: m.reg})
}

// Install makes m the process-wide pipeline, cache and server hooks.
func (m *Metrics) Install() {
	observability.SetPipelineHooks(m)
	observability.SetCacheHooks(m)
	observability.SetServerHooks(m)
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (m *Metrics) OnParse(_ context.Context, size int, d time.Duration, err error) {
	m.parses.WithLabelValues(status(err)).Inc()
	m.parseBytes.Observe(float64(size))
	m.parseDuration.Observe(d.Seconds())
}

func (m *Metrics) OnBuild(_ context.Context, nodes, _ int, d time.Duration) {
	m.graphNodes.Observe(float64(nodes))
	m.buildDuration.Observe(d.Seconds())
}

func (m *Metrics) OnLayoutStart(_ context.Context, engine string, _ int) {
	m.layoutsInFlight.WithLabelValues(engine).Inc()
}

func (m *Metrics) OnLayoutComplete(_ context.Context, engine string, d time.Duration, err error) {
	m.layoutsInFlight.WithLabelValues(engine).Dec()
	m.layouts.WithLabelValues(engine, status(err)).Inc()
	m.layoutDuration.WithLabelValues(engine).Observe(d.Seconds())
}

func (m *Metrics) OnLayoutDiscarded(_ context.Context, engine string) {
	m.layoutsStale.WithLabelValues(engine).Inc()
}

func (m *Metrics) OnSearch(_ context.Context, mode string, found bool, _ time.Duration) {
	result := "miss"
	if found {
		result = "hit"
	}
	m.searches.WithLabelValues(mode, result).Inc()
}

func (m *Metrics) OnCacheHit(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "hit").Inc()
}

func (m *Metrics) OnCacheMiss(_ context.Context, keyType string) {
	m.cacheRequests.WithLabelValues(keyType, "miss").Inc()
}

func (m *Metrics) OnCacheSet(_ context.Context, keyType string, size int) {
	m.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

func (m *Metrics) OnRequest(_ context.Context, method, route string, code int, d time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	m.requestDuration.WithLabelValues(route).Observe(d.Seconds())
}

func (m *Metrics) OnSessionsChanged(_ context.Context, count int) {
	m.sessions.Set(float64(count))
}

var (
	_ observability.PipelineHooks = (*Metrics)(nil)
	_ observability.CacheHooks    = (*Metrics)(nil)
	_ observability.ServerHooks   = (*Metrics)(nil)
)
