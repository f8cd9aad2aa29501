package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gaia_pulse"

// Metrics holds the Prometheus counters, histograms, and gauges for the refresh pipeline.
type Metrics struct {
	// Narrative service metrics.
	NarrativeRequests *prometheus.CounterVec // labels: outcome={success,not_found,timeout,error,malformed}
	NarrativeDuration prometheus.Histogram

	// Weather metrics.
	WeatherRequests *prometheus.CounterVec // labels: outcome={success,error,unknown_region,throttled}
	WeatherDuration prometheus.Histogram
	WeatherCache    *prometheus.CounterVec // labels: result={hit,miss,bypass}

	// Refresh cycle metrics.
	Cycles             *prometheus.CounterVec // labels: outcome={success,error,stale}
	CycleDuration      prometheus.Histogram
	RefreshLoopRunning prometheus.Gauge

	// Snapshot sink metrics.
	SnapshotsPublished    prometheus.Counter
	SnapshotPublishErrors prometheus.Counter
}

var (
	fetchBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	cycleBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15}
)

func newMetrics() *Metrics {
	return &Metrics{
		NarrativeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "narrative_requests_total",
			Help:      "Narrative service requests by outcome.",
		}, []string{"outcome"}),
		NarrativeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "narrative_request_duration_seconds",
			Help:      "Narrative service request duration in seconds.",
			Buckets:   fetchBuckets,
		}),
		WeatherRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_requests_total",
			Help:      "Weather service requests by outcome.",
		}, []string{"outcome"}),
		WeatherDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "weather_request_duration_seconds",
			Help:      "Open-Meteo request duration in seconds.",
			Buckets:   fetchBuckets,
		}),
		WeatherCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "weather_cache_total",
			Help:      "Weather cache lookups by result.",
		}, []string{"result"}),
		Cycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "refresh_cycles_total",
			Help:      "Completed refresh cycles by outcome.",
		}, []string{"outcome"}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "refresh_cycle_duration_seconds",
			Help:      "Duration of a fetch-merge cycle in seconds.",
			Buckets:   cycleBuckets,
		}),
		RefreshLoopRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "refresh_loop_running",
			Help:      "1 while a region's refresh loop is active, 0 otherwise.",
		}),
		SnapshotsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshots_published_total",
			Help:      "Merged snapshots written to the snapshot topic.",
		}),
		SnapshotPublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "snapshot_publish_errors_total",
			Help:      "Snapshot writes that failed.",
		}),
	}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.NarrativeRequests,
		m.NarrativeDuration,
		m.WeatherRequests,
		m.WeatherDuration,
		m.WeatherCache,
		m.Cycles,
		m.CycleDuration,
		m.RefreshLoopRunning,
		m.SnapshotsPublished,
		m.SnapshotPublishErrors,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}
