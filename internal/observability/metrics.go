package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters and histograms for the analysis pipeline.
type Metrics struct {
	AnalysesCompleted *prometheus.CounterVec // labels: risk_level
	AnalysesFailed    *prometheus.CounterVec // labels: reason={location_not_found,invalid_input}
	AnalysisDuration  prometheus.Histogram

	// External provider metrics.
	ProviderRequests *prometheus.CounterVec   // labels: provider, outcome={success,error}
	ProviderDuration *prometheus.HistogramVec // labels: provider
	SignalFallbacks  *prometheus.CounterVec   // labels: signal={elevation,temperature,precipitation}

	// Insight generation metrics.
	InsightOutcomes *prometheus.CounterVec // labels: outcome={generated,fallback}

	// Geocode cache metrics.
	GeocodeCache *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all pipeline metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AnalysesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_risk",
			Name:      "analyses_completed_total",
			Help:      "Completed climate risk analyses by resulting risk level.",
		}, []string{"risk_level"}),
		AnalysesFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_risk",
			Name:      "analyses_failed_total",
			Help:      "Aborted analyses by failure reason.",
		}, []string{"reason"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "climate_risk",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete analysis including provider calls.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_risk",
			Name:      "provider_requests_total",
			Help:      "External data provider requests by provider and outcome.",
		}, []string{"provider", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "climate_risk",
			Name:      "provider_request_duration_seconds",
			Help:      "External provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"provider"}),
		SignalFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_risk",
			Name:      "signal_fallbacks_total",
			Help:      "Analyses that substituted the documented default for a signal.",
		}, []string{"signal"}),
		InsightOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_risk",
			Name:      "insight_outcomes_total",
			Help:      "Insight generation attempts by outcome.",
		}, []string{"outcome"}),
		GeocodeCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "climate_risk",
			Name:      "geocode_cache_total",
			Help:      "Geocode cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.AnalysesCompleted,
		m.AnalysesFailed,
		m.AnalysisDuration,
		m.ProviderRequests,
		m.ProviderDuration,
		m.SignalFallbacks,
		m.InsightOutcomes,
		m.GeocodeCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		AnalysesCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_risk", Name: "analyses_completed_total"}, []string{"risk_level"}),
		AnalysesFailed:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_risk", Name: "analyses_failed_total"}, []string{"reason"}),
		AnalysisDuration:  prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "climate_risk", Name: "analysis_duration_seconds"}),
		ProviderRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_risk", Name: "provider_requests_total"}, []string{"provider", "outcome"}),
		ProviderDuration:  prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "climate_risk", Name: "provider_request_duration_seconds"}, []string{"provider"}),
		SignalFallbacks:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_risk", Name: "signal_fallbacks_total"}, []string{"signal"}),
		InsightOutcomes:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_risk", Name: "insight_outcomes_total"}, []string{"outcome"}),
		GeocodeCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "climate_risk", Name: "geocode_cache_total"}, []string{"result"}),
	}
}
