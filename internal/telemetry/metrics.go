package telemetry

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	transformations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "loom_transformations_total",
		Help: "Transformations executed, by result.",
	}, []string{"result"})

	transformDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "loom_transformation_duration_seconds",
		Help:    "Wall time of a single transformation.",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	runs = promauto.NewCounter(prometheus.CounterOpts{
		Name: "loom_runs_total",
		Help: "Completed job runs.",
	})
)

func ObserveTransformation(success bool, d time.Duration) {
	result := "failure"
	if success {
		result = "success"
	}
	transformations.WithLabelValues(result).Inc()
	transformDuration.Observe(d.Seconds())
}

func ObserveRun() { runs.Inc() }

// Expose serves /metrics in the background; port <= 0 disables it.
func Expose(port int) {
	if port <= 0 {
		return
	}
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(fmt.Sprintf(":%d", port), nil)
	}()
}
