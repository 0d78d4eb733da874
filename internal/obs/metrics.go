package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors the core updates. Callers that
// want an HTTP exposition endpoint register Registry with their own
// promhttp.Handler; this package never listens on a socket.
type Metrics struct {
	Registry *prometheus.Registry

	SimulationTicks    prometheus.Counter
	DetectionsEmitted  prometheus.Counter
	ActiveTrackCount   prometheus.Gauge
	TracksCreatedTotal prometheus.Counter
	TracksPurgedTotal  prometheus.Counter
	ThreatsByLevel     *prometheus.CounterVec
	KalmanSkippedTotal prometheus.Counter
}

// NewMetrics creates a fresh, independently-registered Metrics instance so
// multiple pipeline instances (per spec §5, independent instances may run
// in parallel on disjoint data) never collide on collector names.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		Registry: reg,
		SimulationTicks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aegis_simulation_ticks_total",
			Help: "Number of simulation ticks processed.",
		}),
		DetectionsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aegis_detections_emitted_total",
			Help: "Number of detections emitted by sensors.",
		}),
		ActiveTrackCount: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "aegis_active_track_count",
			Help: "Current number of ACTIVE tracks.",
		}),
		TracksCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aegis_tracks_created_total",
			Help: "Number of tracks created.",
		}),
		TracksPurgedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aegis_tracks_purged_total",
			Help: "Number of terminated tracks purged.",
		}),
		ThreatsByLevel: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aegis_threats_by_level_total",
			Help: "Threat assessments bucketed by threat level.",
		}, []string{"level"}),
		KalmanSkippedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aegis_kalman_update_skipped_total",
			Help: "Number of Kalman updates skipped due to a singular innovation covariance.",
		}),
	}

	reg.MustRegister(
		m.SimulationTicks,
		m.DetectionsEmitted,
		m.ActiveTrackCount,
		m.TracksCreatedTotal,
		m.TracksPurgedTotal,
		m.ThreatsByLevel,
		m.KalmanSkippedTotal,
	)

	return m
}
