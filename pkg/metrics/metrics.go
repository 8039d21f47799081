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

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linkbio",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "linkbio",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	analyticsEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linkbio",
			Subsystem: "analytics",
			Name:      "events_total",
			Help:      "Analytics events by kind and outcome.",
		},
		[]string{"kind", "result"},
	)

	sweepRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "linkbio",
			Subsystem: "link_sweep",
			Name:      "rows_total",
			Help:      "Links touched by the activation sweep.",
		},
		[]string{"action"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		httpRequests,
		httpDuration,
		analyticsEvents,
		sweepRows,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// GinMiddleware records request counts and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

func RecordAnalyticsEvent(kind, result string) {
	analyticsEvents.WithLabelValues(kind, result).Inc()
}

func RecordSweep(action string, rows int64) {
	if rows > 0 {
		sweepRows.WithLabelValues(action).Add(float64(rows))
	}
}
