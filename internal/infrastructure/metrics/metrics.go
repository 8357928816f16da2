// Package metrics exposes prometheus instrumentation for analysis runs.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	analysisRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "riskcast",
		Name:      "analysis_runs_total",
		Help:      "Completed analysis runs by scenario and outcome.",
	}, []string{"scenario", "status"})

	analysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "riskcast",
		Name:      "analysis_duration_seconds",
		Help:      "Wall-clock duration of full analysis runs.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	})

	simulationPaths = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "riskcast",
		Name:      "simulation_paths_total",
		Help:      "Monte Carlo paths generated across all runs.",
	})
)

// ObserveRun records one finished analysis run.
func ObserveRun(scenario, status string, elapsed time.Duration) {
	analysisRuns.WithLabelValues(scenario, status).Inc()
	analysisDuration.Observe(elapsed.Seconds())
}

// AddPaths counts generated Monte Carlo paths.
func AddPaths(n int) {
	simulationPaths.Add(float64(n))
}

// Handler serves the default prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
