package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the counters of one decorating board. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	placements     *prometheus.CounterVec
	celebrations   prometheus.Counter
	combos         *prometheus.CounterVec
	exports        *prometheus.CounterVec
	exportDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		placements: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treedecor_placements_total",
				Help: "Placement attempts by result",
			},
			[]string{"result"},
		),
		celebrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "treedecor_celebrations_total",
			Help: "Times the ornament threshold was reached",
		}),
		combos: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treedecor_combos_total",
				Help: "Combos unlocked by name",
			},
			[]string{"combo"},
		),
		exports: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "treedecor_exports_total",
				Help: "Export attempts by mode and result",
			},
			[]string{"mode", "result"},
		),
		exportDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "treedecor_export_duration_seconds",
				Help:    "Wall time of successful exports",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 10),
			},
			[]string{"mode"},
		),
	}
	reg.MustRegister(m.placements, m.celebrations, m.combos, m.exports, m.exportDuration)
	return m
}

func (m *Metrics) Placed(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.placements.WithLabelValues("placed").Add(float64(n))
}

func (m *Metrics) Unknown() {
	if m == nil {
		return
	}
	m.placements.WithLabelValues("unknown_item").Inc()
}

func (m *Metrics) Celebrated() {
	if m == nil {
		return
	}
	m.celebrations.Inc()
}

func (m *Metrics) Combo(name string) {
	if m == nil {
		return
	}
	m.combos.WithLabelValues(name).Inc()
}

// Export records the outcome of one export call.
func (m *Metrics) Export(mode string, err error, d time.Duration) {
	if m == nil {
		return
	}
	if err != nil {
		m.exports.WithLabelValues(mode, "error").Inc()
		return
	}
	m.exports.WithLabelValues(mode, "ok").Inc()
	m.exportDuration.WithLabelValues(mode).Observe(d.Seconds())
}
