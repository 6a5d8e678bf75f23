// Package telemetry registers the Prometheus metrics of the update loop.
package telemetry

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once sync.Once

	Cycles        prometheus.Counter
	FetchFailures *prometheus.CounterVec
	Publishes     *prometheus.CounterVec
	CycleDuration prometheus.Histogram
	LiveMessage   prometheus.Gauge // 1 while a live message is known
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		Cycles = promauto.NewCounter(prometheus.CounterOpts{Name: "zoneboard_cycles_total", Help: "Number of update cycles executed"})
		FetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{Name: "zoneboard_fetch_failures_total", Help: "Number of failed API requests"}, []string{"resource", "kind"})
		Publishes = promauto.NewCounterVec(prometheus.CounterOpts{Name: "zoneboard_publish_total", Help: "Number of publish attempts by outcome"}, []string{"outcome"})
		CycleDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "zoneboard_cycle_duration_seconds", Help: "Duration of an update cycle", Buckets: prometheus.DefBuckets})
		LiveMessage = promauto.NewGauge(prometheus.GaugeOpts{Name: "zoneboard_live_message", Help: "Live message known=1 unknown=0"})
	})
}

// FetchFailed counts a failed request for a resource. No-op before Init.
func FetchFailed(resource string, kind string) {
	if FetchFailures != nil {
		FetchFailures.WithLabelValues(resource, kind).Inc()
	}
}

// CycleFinished records the result of an update cycle. No-op before Init.
func CycleFinished(outcome string, live bool, duration time.Duration) {
	if Cycles == nil {
		return
	}
	Cycles.Inc()
	Publishes.WithLabelValues(outcome).Inc()
	CycleDuration.Observe(duration.Seconds())
	if live {
		LiveMessage.Set(1)
	} else {
		LiveMessage.Set(0)
	}
}
