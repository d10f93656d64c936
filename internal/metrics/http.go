package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "choo",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests processed.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "choo",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	httpInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "choo",
		Subsystem: "http",
		Name:      "in_flight_requests",
		Help:      "Requests currently being served.",
	})
)

// scrapeRoutes are scraped constantly and would drown the API series.
var scrapeRoutes = map[string]bool{"/healthz": true, "/metrics": true}

// HTTPMiddleware instruments each request with Prometheus metrics. Routes are
// labelled by their echo path template; requests that matched no route share
// the "unmatched" label.
func HTTPMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if scrapeRoutes[c.Request().URL.Path] {
				return next(c)
			}
			httpInFlight.Inc()
			start := time.Now()
			err := next(c)
			httpInFlight.Dec()

			route := c.Path()
			if route == "" || route == "/*" {
				route = "unmatched"
			}
			status := c.Response().Status
			if he, ok := err.(*echo.HTTPError); ok && !c.Response().Committed {
				status = he.Code
			}
			method := c.Request().Method

			httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
			httpRequestDurationSeconds.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
			return err
		}
	}
}
