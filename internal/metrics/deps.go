package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Dependency names used as the "dependency" label.
const (
	DepPostgres = "postgres"
	DepRedis    = "redis"
)

var (
	dependencyUp = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "choo",
		Subsystem: "dependency",
		Name:      "up",
		Help:      "Result of the last health ping per dependency (1=up, 0=down).",
	}, []string{"dependency"})

	dependencyPingSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "choo",
		Subsystem: "dependency",
		Name:      "ping_seconds",
		Help:      "Health ping latency per dependency in seconds.",
		Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5},
	}, []string{"dependency"})
)

// ObservePing records one health ping of dep that took the given time and
// returned err. It returns "ok" or "down" for the health payload.
func ObservePing(dep string, took time.Duration, err error) string {
	dependencyPingSeconds.WithLabelValues(dep).Observe(took.Seconds())
	if err != nil {
		dependencyUp.WithLabelValues(dep).Set(0)
		return "down"
	}
	dependencyUp.WithLabelValues(dep).Set(1)
	return "ok"
}
