package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// flood monitoring service.
type Metrics struct {
	SnapshotRefreshes prometheus.Counter
	SnapshotErrors    prometheus.Counter
	SnapshotsExported prometheus.Counter
	LastRefreshTime   prometheus.Gauge

	// Upstream fetch metrics.
	FetchRequests *prometheus.CounterVec   // labels: layer={stations,gauges,rivers}, outcome={success,error}
	FetchDuration *prometheus.HistogramVec // labels: layer={stations,gauges,rivers}

	// Per-status station counts from the latest snapshot.
	StationsByStatus *prometheus.GaugeVec // labels: status

	// Risk query metrics.
	RiskQueries prometheus.Counter
	RiskCache   *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		SnapshotRefreshes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "snapshot_refreshes_total",
			Help:      "Total completed snapshot refresh cycles.",
		}),
		SnapshotErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "snapshot_errors_total",
			Help:      "Total snapshot refresh failures.",
		}),
		SnapshotsExported: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "snapshots_exported_total",
			Help:      "Total snapshots published to the export topic.",
		}),
		LastRefreshTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "floodwatch",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the most recent successful refresh.",
		}),
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "fetch_requests_total",
			Help:      "Upstream feature service requests by layer and outcome.",
		}, []string{"layer", "outcome"}),
		FetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "floodwatch",
			Name:      "fetch_duration_seconds",
			Help:      "Upstream feature service request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"layer"}),
		StationsByStatus: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "floodwatch",
			Name:      "stations_by_status",
			Help:      "Station count per status in the latest snapshot.",
		}, []string{"status"}),
		RiskQueries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "risk_queries_total",
			Help:      "Total point risk assessments served.",
		}),
		RiskCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "floodwatch",
			Name:      "risk_cache_total",
			Help:      "Risk assessment cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.SnapshotRefreshes,
		m.SnapshotErrors,
		m.SnapshotsExported,
		m.LastRefreshTime,
		m.FetchRequests,
		m.FetchDuration,
		m.StationsByStatus,
		m.RiskQueries,
		m.RiskCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		SnapshotRefreshes: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "floodwatch", Name: "snapshot_refreshes_total"}),
		SnapshotErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "floodwatch", Name: "snapshot_errors_total"}),
		SnapshotsExported: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "floodwatch", Name: "snapshots_exported_total"}),
		LastRefreshTime:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "floodwatch", Name: "last_refresh_timestamp_seconds"}),
		FetchRequests:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "floodwatch", Name: "fetch_requests_total"}, []string{"layer", "outcome"}),
		FetchDuration:     prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "floodwatch", Name: "fetch_duration_seconds"}, []string{"layer"}),
		StationsByStatus:  prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "floodwatch", Name: "stations_by_status"}, []string{"status"}),
		RiskQueries:       prometheus.NewCounter(prometheus.CounterOpts{Namespace: "floodwatch", Name: "risk_queries_total"}),
		RiskCache:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "floodwatch", Name: "risk_cache_total"}, []string{"result"}),
	}
}
