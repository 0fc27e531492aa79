// Package metrics exposes Prometheus collectors for the HTTP layer and the
// comment/identity operations.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec

	SignUps         prometheus.Counter
	CommentsCreated prometheus.Counter
	CommentsDeleted prometheus.Counter
	ForestNodes     prometheus.Gauge
}

// New registers every collector on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		SignUps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "users_signed_up_total",
			Help: "Users created through signup.",
		}),
		CommentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comments_created_total",
			Help: "Comments persisted.",
		}),
		CommentsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "comments_deleted_total",
			Help: "Comments deleted by their owners.",
		}),
		ForestNodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "comment_forest_nodes",
			Help: "Comments included in the last materialized forest.",
		}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests, m.duration,
		m.SignUps, m.CommentsCreated, m.CommentsDeleted, m.ForestNodes,
	)
	return m
}

// Middleware records request count and latency keyed by the matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the private registry backing Handler.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
