package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for
// the station finder.
type Metrics struct {
	RefreshTotal    *prometheus.CounterVec // labels: mode={visible,silent}, outcome={success,error}
	RefreshDuration prometheus.Histogram
	StaleDrops      prometheus.Counter
	StationsLoaded  prometheus.Gauge
	DecodeRejects   prometheus.Counter
	LiveUpdates     prometheus.Gauge

	SearchTotal    prometheus.Counter
	SearchDuration prometheus.Histogram
	WatchSessions  prometheus.Gauge

	GeocodeRequests *prometheus.CounterVec // labels: outcome={success,error,fallback}
}

// NewMetrics creates and registers all metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		RefreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ev_finder",
			Name:      "refresh_total",
			Help:      "Station refreshes by mode and outcome.",
		}, []string{"mode", "outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ev_finder",
			Name:      "refresh_duration_seconds",
			Help:      "Duration of a complete fetch-decode-commit cycle.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StaleDrops: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ev_finder",
			Name:      "refresh_stale_drops_total",
			Help:      "Completed fetches discarded because a newer refresh had started.",
		}),
		StationsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ev_finder",
			Name:      "stations_loaded",
			Help:      "Stations in the current snapshot.",
		}),
		DecodeRejects: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ev_finder",
			Name:      "decode_rejects_total",
			Help:      "Station records dropped at the decode boundary.",
		}),
		LiveUpdates: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ev_finder",
			Name:      "live_updates_enabled",
			Help:      "1 when the periodic silent refresh is scheduled, 0 otherwise.",
		}),
		SearchTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "ev_finder",
			Name:      "search_runs_total",
			Help:      "Search pipeline executions.",
		}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ev_finder",
			Name:      "search_duration_seconds",
			Help:      "Duration of one filter-rank-format pass.",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
		}),
		WatchSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "ev_finder",
			Name:      "watch_sessions",
			Help:      "Open live-search sessions.",
		}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ev_finder",
			Name:      "geocode_requests_total",
			Help:      "Place lookups by outcome.",
		}, []string{"outcome"}),
	}

	prometheus.MustRegister(
		m.RefreshTotal,
		m.RefreshDuration,
		m.StaleDrops,
		m.StationsLoaded,
		m.DecodeRejects,
		m.LiveUpdates,
		m.SearchTotal,
		m.SearchDuration,
		m.WatchSessions,
		m.GeocodeRequests,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, so
// tests can construct as many as they need without "already
// registered" panics.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		RefreshTotal:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "ev_finder", Name: "refresh_total"}, []string{"mode", "outcome"}),
		RefreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "ev_finder", Name: "refresh_duration_seconds"}),
		StaleDrops:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ev_finder", Name: "refresh_stale_drops_total"}),
		StationsLoaded:  prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "ev_finder", Name: "stations_loaded"}),
		DecodeRejects:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ev_finder", Name: "decode_rejects_total"}),
		LiveUpdates:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "ev_finder", Name: "live_updates_enabled"}),
		SearchTotal:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "ev_finder", Name: "search_runs_total"}),
		SearchDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "ev_finder", Name: "search_duration_seconds"}),
		WatchSessions:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "ev_finder", Name: "watch_sessions"}),
		GeocodeRequests: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "ev_finder", Name: "geocode_requests_total"}, []string{"outcome"}),
	}
}
