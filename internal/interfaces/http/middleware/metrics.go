package middleware

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPMetrics holds the Prometheus request instruments
type HTTPMetrics struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	inflight        *prometheus.GaugeVec
	gatherer        prometheus.Gatherer
}

// MetricsConfig selects where collectors are registered
type MetricsConfig struct {
	// Registry defaults to a fresh registry with Go and process collectors
	Registry *prometheus.Registry
	// DB, when set, exports connection pool statistics
	DB *sql.DB
	// DBName labels the pool statistics
	DBName string
}

// NewHTTPMetrics creates and registers the request counters, latency histogram and
// in-flight gauge.
func NewHTTPMetrics(cfg MetricsConfig) (*HTTPMetrics, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
		if err := registerCollector(registry, collectors.NewGoCollector()); err != nil {
			return nil, err
		}
		if err := registerCollector(registry, collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
			return nil, err
		}
	}

	m := &HTTPMetrics{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests processed",
		}, []string{"method", "path", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
		inflight: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "http_inflight_requests",
			Help: "Requests currently being served by method and route",
		}, []string{"method", "path"}),
		gatherer: registry,
	}

	for _, c := range []prometheus.Collector{m.requestsTotal, m.requestDuration, m.inflight} {
		if err := registerCollector(registry, c); err != nil {
			return nil, err
		}
	}
	if cfg.DB != nil {
		name := cfg.DBName
		if name == "" {
			name = "storefront"
		}
		if err := registerCollector(registry, collectors.NewDBStatsCollector(cfg.DB, name)); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Middleware records one observation per request, labelled by route template
func (m *HTTPMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		method := strings.ToUpper(c.Request.Method)
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.inflight.WithLabelValues(method, path).Inc()
		start := time.Now()
		defer func() {
			m.inflight.WithLabelValues(method, path).Dec()
			m.requestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
			status := c.Writer.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
		}()

		c.Next()
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *HTTPMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// registerCollector registers collector, tolerating duplicates
func registerCollector(reg prometheus.Registerer, collector prometheus.Collector) error {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return nil
		}
		return err
	}
	return nil
}
