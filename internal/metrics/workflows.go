package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// workflowFiresTotal counts trigger events by event and number of matches.
	// Labels:
	// - event: signup | renewal
	// - matched: "none" | "some"
	workflowFiresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "choo",
			Subsystem: "workflow",
			Name:      "fires_total",
			Help:      "Trigger events processed by the workflow engine.",
		},
		[]string{"event", "matched"},
	)

	// workflowDeliveriesTotal counts delivery attempts by kind and result.
	// Labels:
	// - kind: trigger | test
	// - result: success | failure | timeout | unresolved
	workflowDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "choo",
			Subsystem: "workflow",
			Name:      "deliveries_total",
			Help:      "Workflow email deliveries by kind and result.",
		},
		[]string{"kind", "result"},
	)

	workflowDeliverySeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "choo",
			Subsystem: "workflow",
			Name:      "delivery_seconds",
			Help:      "Duration of a single delivery attempt in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)
)

// IncWorkflowFire records a processed trigger event.
func IncWorkflowFire(event string, matched int) {
	if event == "" {
		event = "unknown"
	}
	m := "some"
	if matched == 0 {
		m = "none"
	}
	workflowFiresTotal.WithLabelValues(event, m).Inc()
}

// IncWorkflowDelivery increments the delivery counter.
func IncWorkflowDelivery(kind, result string) {
	if kind == "" {
		kind = "unknown"
	}
	if result == "" {
		result = "unknown"
	}
	workflowDeliveriesTotal.WithLabelValues(kind, result).Inc()
}

// ObserveWorkflowDelivery records a delivery attempt latency in seconds.
func ObserveWorkflowDelivery(kind string, seconds float64) {
	if kind == "" {
		kind = "unknown"
	}
	workflowDeliverySeconds.WithLabelValues(kind).Observe(seconds)
}
