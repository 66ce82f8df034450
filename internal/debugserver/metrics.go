package debugserver

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Faultbox/glade/internal/game/boot"
)

const namespace = "glade"

// BootSource exposes the boot tracker state.
type BootSource interface {
	Snapshot() boot.Snapshot
	Reached(stage boot.Stage) bool
	OverlayVisible() bool
}

// Metrics holds the scene's Prometheus collectors on a private registry.
//
// Metrics:
// * glade_boot_stage_reached{stage}: gauge, 1 once the stage is reached
// * glade_boot_overlay_visible: gauge
// * glade_frames_total: counter
// * glade_frame_seconds: histogram of unscaled frame time
// * glade_draw_calls: gauge, last frame
type Metrics struct {
	registry  *prometheus.Registry
	frames    prometheus.Counter
	frameTime prometheus.Histogram
	drawCalls prometheus.Gauge
}

// NewMetrics registers the collectors. src may be nil when there is no boot
// tracker to report.
func NewMetrics(src BootSource) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		frames: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames rendered.",
		}),
		frameTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_seconds",
			Help:      "Wall clock time between frames.",
			Buckets:   []float64{0.004, 0.008, 0.0167, 0.025, 0.033, 0.05, 0.1, 0.25},
		}),
		drawCalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "draw_calls",
			Help:      "Draw calls issued by the last frame.",
		}),
	}
	m.registry.MustRegister(m.frames, m.frameTime, m.drawCalls)

	if src != nil {
		for _, st := range boot.Stages {
			m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
				Namespace:   namespace,
				Name:        "boot_stage_reached",
				Help:        "Whether a boot stage has been reached.",
				ConstLabels: prometheus.Labels{"stage": string(st)},
			}, func() float64 { return boolGauge(src.Reached(st)) }))
		}
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "boot_overlay_visible",
			Help:      "Whether the loading overlay is still shown.",
		}, func() float64 { return boolGauge(src.OverlayVisible()) }))
	}
	return m
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// ObserveFrame records one frame. Safe to call from the game loop.
func (m *Metrics) ObserveFrame(frameTime time.Duration, drawCalls int) {
	m.frames.Inc()
	m.frameTime.Observe(frameTime.Seconds())
	m.drawCalls.Set(float64(drawCalls))
}

// Registry returns the registry backing /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
