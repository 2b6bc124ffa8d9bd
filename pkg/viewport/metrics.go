package viewport

import "github.com/prometheus/client_golang/prometheus"

var (
	// AutoFitTotal counts auto-fit executions by trigger source.
	AutoFitTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "openinglens_autofit_total",
			Help: "Auto-fit executions by trigger source",
		},
		[]string{"source"},
	)

	// ForcedCompletionsTotal counts liveness fallbacks: forced default
	// sizes and forced initialization completions.
	ForcedCompletionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "openinglens_forced_completions_total",
			Help: "Liveness fallbacks that forced initialization forward",
		},
	)

	// CurrentScale tracks the viewport zoom scale.
	CurrentScale = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "openinglens_viewport_scale",
			Help: "Current viewport zoom scale",
		},
	)
)

func init() {
	prometheus.MustRegister(AutoFitTotal)
	prometheus.MustRegister(ForcedCompletionsTotal)
	prometheus.MustRegister(CurrentScale)
}
