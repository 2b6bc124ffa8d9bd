package render

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// FramesTotal counts drawn frames.
	FramesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "openinglens_render_frames_total",
			Help: "Frames drawn by the raster pipeline",
		},
	)

	// FrameSeconds tracks per-frame draw latency.
	FrameSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "openinglens_render_frame_seconds",
			Help:    "Raster frame draw latency",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
	)
)

func init() {
	prometheus.MustRegister(FramesTotal)
	prometheus.MustRegister(FrameSeconds)
}

func observeFrame() func() {
	start := time.Now()
	return func() {
		FramesTotal.Inc()
		FrameSeconds.Observe(time.Since(start).Seconds())
	}
}
