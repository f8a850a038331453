// Package metrics exposes Prometheus instrumentation for unification and playback.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the projection and playback loop.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// Time spent deriving one frame
	ProjectionDuration prometheus.Histogram

	// Playback ticks by outcome ("applied", "stale")
	Ticks *prometheus.CounterVec

	// Play/pause transitions by target mode
	PlaybackToggles *prometheus.CounterVec

	// Selection changes rejected by validation, by field
	RejectedSelections *prometheus.CounterVec

	// Rows in the unified table currently served
	UnifiedRows prometheus.Gauge
}

// New creates the metrics and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them on the global handler.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ProjectionDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "pdscatter_projection_duration_seconds",
			Help:    "Duration of deriving one frame from the unified table",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05},
		}),

		Ticks: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pdscatter_ticks_total",
			Help: "Total playback ticks by outcome",
		}, []string{"outcome"}), // outcome: "applied", "stale"

		PlaybackToggles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pdscatter_playback_toggles_total",
			Help: "Total play/pause transitions by target mode",
		}, []string{"to"}),

		RejectedSelections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "pdscatter_rejected_selections_total",
			Help: "Total selection changes rejected by validation",
		}, []string{"field"}),

		UnifiedRows: f.NewGauge(prometheus.GaugeOpts{
			Name: "pdscatter_unified_rows",
			Help: "Number of rows in the unified table",
		}),
	}
}

// ObserveProjection records the duration of one projection.
func (m *Metrics) ObserveProjection(d time.Duration) {
	if m != nil {
		m.ProjectionDuration.Observe(d.Seconds())
	}
}

// IncrementTick records a tick that advanced the year.
func (m *Metrics) IncrementTick() {
	if m != nil {
		m.Ticks.WithLabelValues("applied").Inc()
	}
}

// IncrementStaleTick records a tick discarded because its timer was cancelled.
func (m *Metrics) IncrementStaleTick() {
	if m != nil {
		m.Ticks.WithLabelValues("stale").Inc()
	}
}

// IncrementToggle records a transition into mode.
func (m *Metrics) IncrementToggle(mode string) {
	if m != nil {
		m.PlaybackToggles.WithLabelValues(mode).Inc()
	}
}

// IncrementRejected records a rejected selection change.
func (m *Metrics) IncrementRejected(field string) {
	if m != nil {
		m.RejectedSelections.WithLabelValues(field).Inc()
	}
}

// SetUnifiedRows records the size of the served table.
func (m *Metrics) SetUnifiedRows(n int) {
	if m != nil {
		m.UnifiedRows.Set(float64(n))
	}
}
