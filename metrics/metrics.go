package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "brainnova_http_requests_total",
		Help: "Total number of API requests by route and status",
	}, []string{"route", "status"})
	RequestDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "brainnova_http_request_duration_ms",
		Help:    "API request duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000, 5000},
	}, []string{"route"})
	ScoreDurationMs = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "brainnova_score_duration_ms",
		Help:    "Score computation duration in milliseconds",
		Buckets: []float64{1, 5, 10, 20, 50, 100, 200, 500, 1000},
	})
	ScoreNoDataTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "brainnova_score_no_data_total",
		Help: "Score requests whose selection matched no results",
	})
	LoaderRowsInserted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "brainnova_loader_rows_inserted_total",
		Help: "Rows inserted by the loader by destination table",
	}, []string{"table"})
	LoaderRowsDuplicate = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "brainnova_loader_rows_duplicate_total",
		Help: "Rows discarded by the loader because their natural key already existed",
	}, []string{"table"})
	LoaderSourcesFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "brainnova_loader_sources_failed_total",
		Help: "Loader sources skipped or rolled back, by reason",
	}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(RequestsTotal)
	prometheus.MustRegister(RequestDurationMs)
	prometheus.MustRegister(ScoreDurationMs)
	prometheus.MustRegister(ScoreNoDataTotal)
	prometheus.MustRegister(LoaderRowsInserted)
	prometheus.MustRegister(LoaderRowsDuplicate)
	prometheus.MustRegister(LoaderSourcesFailed)
}

// Middleware records request counts and durations keyed by the matched route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		RequestsTotal.WithLabelValues(route, strconv.Itoa(c.Writer.Status())).Inc()
		RequestDurationMs.WithLabelValues(route).Observe(float64(time.Since(start).Milliseconds()))
	}
}

// Handler exposes the registered collectors for scraping at /metrics.
func Handler() gin.HandlerFunc { return gin.WrapH(promhttp.Handler()) }
