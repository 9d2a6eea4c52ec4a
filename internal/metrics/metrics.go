package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Counters
var (
	ClipsGeneratedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kyma_clips_generated_total",
		Help: "Total audio clips rendered by waveform",
	}, []string{"waveform"})
	ClipsNormalizedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kyma_clips_normalized_total",
		Help: "Total audio clips scaled down to avoid clipping",
	})
	ValidationRejectionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kyma_validation_rejections_total",
		Help: "Total requests rejected by validation by route",
	}, []string{"route"})
	StillsRenderedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kyma_stills_rendered_total",
		Help: "Total still images rendered",
	})
	AnimationStreamsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kyma_animation_streams_total",
		Help: "Total animation websocket streams opened",
	})
)

// Gauges
var (
	ActiveAnimationStreams = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "kyma_active_animation_streams",
		Help: "Number of animation websocket streams currently open",
	})
)

// Histograms
var (
	SynthesisSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "kyma_synthesis_seconds",
		Help:    "Wall time spent rendering and encoding one audio clip",
		Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	})
)
