package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// Prometheus Metrics
// =============================================================================

var (
	crawlRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citegraph_crawl_runs_total",
		Help: "Crawler runs by provider, direction and final state",
	}, []string{"provider", "direction", "state"})

	crawlDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "citegraph_crawl_duration_seconds",
		Help:    "Crawler run duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 12), // 0.5s to ~17min
	}, []string{"provider", "direction"})

	crawlVertices = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "citegraph_crawl_vertices",
		Help:    "Vertices collected per crawler run",
		Buckets: []float64{1, 10, 50, 100, 500, 1000, 5000},
	})

	crawlActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "citegraph_crawl_active",
		Help: "Crawler runs in progress",
	})

	taskTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citegraph_task_status_total",
		Help: "Task status transitions by target status",
	}, []string{"status"})

	cacheOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citegraph_cache_operations_total",
		Help: "Response cache operations by key type and result",
	}, []string{"key_type", "result"})

	cacheBytes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "citegraph_cache_written_bytes_total",
		Help: "Bytes written to the response cache",
	})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citegraph_upstream_requests_total",
		Help: "Upstream API responses by host and status code",
	}, []string{"host", "code"})

	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "citegraph_upstream_request_duration_seconds",
		Help:    "Upstream API request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"host"})

	httpErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "citegraph_upstream_errors_total",
		Help: "Upstream API transport failures by host",
	}, []string{"host"})
)

// PrometheusHooks records hook events as Prometheus metrics on the default
// registry. It implements [CrawlHooks], [CacheHooks] and [HTTPHooks].
type PrometheusHooks struct{}

// NewPrometheusHooks returns hooks backed by the package's collectors.
func NewPrometheusHooks() *PrometheusHooks { return &PrometheusHooks{} }

func (*PrometheusHooks) OnCrawlStart(_ context.Context, _, _ string) {
	crawlActive.Inc()
}

func (*PrometheusHooks) OnCrawlComplete(_ context.Context, provider, direction, state string, vertices, _ int, d time.Duration) {
	crawlActive.Dec()
	crawlRuns.WithLabelValues(provider, direction, state).Inc()
	crawlDuration.WithLabelValues(provider, direction).Observe(d.Seconds())
	crawlVertices.Observe(float64(vertices))
}

func (*PrometheusHooks) OnTaskStatus(_ context.Context, status string) {
	taskTransitions.WithLabelValues(status).Inc()
}

func (*PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (*PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (*PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	cacheOps.WithLabelValues(keyType, "set").Inc()
	cacheBytes.Add(float64(size))
}

func (*PrometheusHooks) OnRequest(context.Context, string, string, string) {}

func (*PrometheusHooks) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	httpRequests.WithLabelValues(host, strconv.Itoa(code)).Inc()
	httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (*PrometheusHooks) OnError(_ context.Context, _, host, _ string, _ error) {
	httpErrors.WithLabelValues(host).Inc()
}

var (
	_ CrawlHooks = (*PrometheusHooks)(nil)
	_ CacheHooks = (*PrometheusHooks)(nil)
	_ HTTPHooks  = (*PrometheusHooks)(nil)
)
