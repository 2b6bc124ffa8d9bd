package cluster

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ClusterRunsTotal counts clustering passes by method.
	ClusterRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openinglens_cluster_runs_total",
			Help: "Total clustering passes executed",
		},
		[]string{"method"},
	)

	// ClusterRunSeconds tracks the duration of the last clustering pass.
	ClusterRunSeconds = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "openinglens_cluster_run_seconds",
			Help: "Duration of the last clustering pass",
		},
		[]string{"method"},
	)

	// ClusterCount tracks the number of clusters produced by the last pass.
	ClusterCount = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "openinglens_cluster_count",
			Help: "Clusters produced by the last pass",
		},
		[]string{"method"},
	)
)

func init() {
	prometheus.MustRegister(ClusterRunsTotal)
	prometheus.MustRegister(ClusterRunSeconds)
	prometheus.MustRegister(ClusterCount)
}

func observeRun(method string, clusters int, elapsed time.Duration) {
	ClusterRunsTotal.WithLabelValues(method).Inc()
	ClusterRunSeconds.WithLabelValues(method).Set(elapsed.Seconds())
	ClusterCount.WithLabelValues(method).Set(float64(clusters))
}
