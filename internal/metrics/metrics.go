package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder holds the order workflow collectors on a private registry so
// tests can create as many as they like.
type Recorder struct {
	registry *prometheus.Registry

	placements       *prometheus.CounterVec
	transitions      *prometheus.CounterVec
	conflicts        *prometheus.CounterVec
	placementLatency prometheus.Histogram
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		placements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ration",
				Name:      "order_placements_total",
				Help:      "Order placement attempts by result.",
			},
			[]string{"result"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ration",
				Name:      "order_transitions_total",
				Help:      "Order status transitions applied.",
			},
			[]string{"from", "to"},
		),
		conflicts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "ration",
				Name:      "transaction_conflicts_total",
				Help:      "Optimistic concurrency conflicts by operation.",
			},
			[]string{"operation"},
		),
		placementLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ration",
			Name:      "order_placement_seconds",
			Help:      "Latency of order placement including retries.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	r.registry.MustRegister(
		r.placements,
		r.transitions,
		r.conflicts,
		r.placementLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

func (r *Recorder) PlacementResult(result string) {
	if r == nil {
		return
	}
	r.placements.WithLabelValues(result).Inc()
}

func (r *Recorder) Transition(from, to string) {
	if r == nil {
		return
	}
	r.transitions.WithLabelValues(from, to).Inc()
}

func (r *Recorder) Conflict(operation string) {
	if r == nil {
		return
	}
	r.conflicts.WithLabelValues(operation).Inc()
}

func (r *Recorder) ObservePlacement(d time.Duration) {
	if r == nil {
		return
	}
	r.placementLatency.Observe(d.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
