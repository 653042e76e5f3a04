package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "daily_planner",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daily_planner",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "daily_planner",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	plansCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "daily_planner",
			Subsystem: "plans",
			Name:      "created_total",
			Help:      "Total number of day plans created.",
		},
	)

	taskTransitions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daily_planner",
			Subsystem: "tasks",
			Name:      "transitions_total",
			Help:      "Total number of task status changes, by resulting status.",
		},
		[]string{"status"},
	)

	leaderboardBuilds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "daily_planner",
			Subsystem: "leaderboard",
			Name:      "build_duration_seconds",
			Help:      "Duration of leaderboard builds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"scope", "period"},
	)

	scoreDrift = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "daily_planner",
			Subsystem: "scores",
			Name:      "drift_total",
			Help:      "Plans whose stored final score differed from the recomputed one.",
		},
		[]string{"repaired"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		plansCreated,
		taskTransitions,
		leaderboardBuilds,
		scoreDrift,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latencies per route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		httpInFlight.Inc()
		defer httpInFlight.Dec()

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// RecordPlanCreated counts a newly created plan.
func RecordPlanCreated() {
	plansCreated.Inc()
}

// RecordTaskTransition counts a task status change.
func RecordTaskTransition(status string) {
	taskTransitions.WithLabelValues(status).Inc()
}

// RecordLeaderboardBuild observes the duration of a leaderboard build.
func RecordLeaderboardBuild(scope, period string, d time.Duration) {
	leaderboardBuilds.WithLabelValues(scope, period).Observe(d.Seconds())
}

// RecordScoreDrift counts a plan whose stored score had drifted.
func RecordScoreDrift(repaired bool) {
	scoreDrift.WithLabelValues(strconv.FormatBool(repaired)).Inc()
}
