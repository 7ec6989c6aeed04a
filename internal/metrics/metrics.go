// Package metrics exposes Prometheus instrumentation for the frame pipeline.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// FramesProcessed counts frames that made it through the full pipeline.
	FramesProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phuljhari_frames_processed_total",
		Help: "Number of video frames processed by the effect pipeline.",
	})

	// DetectionErrors counts frames where hand detection failed.
	DetectionErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phuljhari_detection_errors_total",
		Help: "Number of frames where hand detection returned an error.",
	})

	// BurstsTotal counts burst gestures fired.
	BurstsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "phuljhari_bursts_total",
		Help: "Number of burst gestures triggered.",
	})

	// LiveParticles tracks the particle population after each tick.
	LiveParticles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "phuljhari_live_particles",
		Help: "Number of live particles after the last simulation tick.",
	})

	// ActiveEmitters tracks currently tracked fingertip emitters.
	ActiveEmitters = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "phuljhari_active_emitters",
		Help: "Number of currently tracked fingertip emitters.",
	})

	// TickDuration observes how long one full pipeline tick takes.
	TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "phuljhari_tick_duration_seconds",
		Help:    "Wall time of one full pipeline tick.",
		Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
	})
)

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
