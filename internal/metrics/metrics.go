package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics groups the board's Prometheus collectors.
type Metrics struct {
	Requests       *prometheus.CounterVec
	Latency        *prometheus.HistogramVec
	Created        *prometheus.CounterVec
	Rejected       prometheus.Counter
	Visits         prometheus.Counter
	SweepRuns      *prometheus.CounterVec
	SweepPurged    *prometheus.CounterVec
	SweepLastClean prometheus.Gauge
}

// New registers the collectors on reg. Tests pass a fresh registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bulletin",
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		Latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "bulletin",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		Created: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bulletin",
			Name:      "postings_created_total",
			Help:      "Rows created by kind.",
		}, []string{"kind"}),
		Rejected: f.NewCounter(prometheus.CounterOpts{
			Namespace: "bulletin",
			Name:      "content_rejections_total",
			Help:      "Postings rejected by the content filter.",
		}),
		Visits: f.NewCounter(prometheus.CounterOpts{
			Namespace: "bulletin",
			Name:      "visits_logged_total",
			Help:      "Visits logged since start.",
		}),
		SweepRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bulletin",
			Name:      "sweep_runs_total",
			Help:      "Expiration sweeps by outcome.",
		}, []string{"outcome"}),
		SweepPurged: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bulletin",
			Name:      "sweep_purged_rows_total",
			Help:      "Expired rows deleted by table.",
		}, []string{"table"}),
		SweepLastClean: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "bulletin",
			Name:      "sweep_last_success_timestamp_seconds",
			Help:      "Unix time of the last successful sweep.",
		}),
	}
}

// Middleware records request counts and latency per matched route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.Latency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
