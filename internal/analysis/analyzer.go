package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
	"github.com/couchcryptid/climate-risk-engine/internal/observability"
)

// Request carries the validated caller inputs for one analysis.
type Request struct {
	Address       string
	AssetValue    float64
	LoanTermYears int
}

// Analyzer runs the full assessment pipeline. It is stateless: concurrent
// invocations share only the injected clients.
type Analyzer struct {
	geocoder      Geocoder
	elevation     ElevationProvider
	temperature   TemperatureProvider
	precipitation PrecipitationProvider
	insight       InsightProvider // nil disables narrative generation
	logger        *slog.Logger
	metrics       *observability.Metrics
}

// NewAnalyzer wires the pipeline stages. Pass a nil insight provider to
// always use the fallback narrative.
func NewAnalyzer(geocoder Geocoder, elevation ElevationProvider, temperature TemperatureProvider, precipitation PrecipitationProvider, insight InsightProvider, logger *slog.Logger, metrics *observability.Metrics) *Analyzer {
	return &Analyzer{
		geocoder:      geocoder,
		elevation:     elevation,
		temperature:   temperature,
		precipitation: precipitation,
		insight:       insight,
		logger:        logger,
		metrics:       metrics,
	}
}

// Analyze resolves the address and produces an assessment. Only two errors
// reach the caller: invalid input (checked before any outbound call) and an
// unresolvable location. Every other upstream failure degrades to the
// documented default so that an assessment is always produced once the
// location resolves.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (domain.Assessment, error) {
	if err := a.validate(req); err != nil {
		a.metrics.AnalysesFailed.WithLabelValues("invalid_input").Inc()
		return domain.Assessment{}, err
	}

	start := time.Now()

	coords, err := a.geocoder.Geocode(ctx, req.Address)
	if err != nil {
		a.metrics.AnalysesFailed.WithLabelValues("location_not_found").Inc()
		a.logger.Warn("geocoding failed, aborting analysis", "address", req.Address, "error", err)
		return domain.Assessment{}, fmt.Errorf("%w: %v", ErrLocationNotFound, err)
	}

	signals := a.fetchSignals(ctx, coords)

	components := domain.ComputeComponents(signals, coords)
	score, level := domain.Aggregate(components)

	// Projections and the narrative are mutually independent; the narrative
	// needs a network round-trip, so compute projections while it runs.
	insightCh := make(chan domain.Insight, 1)
	go func() {
		insightCh <- a.generateInsight(ctx, req, score, components)
	}()

	projections, err := domain.Project(score, req.LoanTermYears)
	if err != nil {
		// Unreachable after validate, but never hand out a partial result.
		return domain.Assessment{}, err
	}
	insight := <-insightCh

	assessment := domain.NewAssessment(req.Address, req.AssetValue, req.LoanTermYears, coords, signals, components, score, level, projections, insight)

	a.metrics.AnalysesCompleted.WithLabelValues(string(level)).Inc()
	a.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	a.logger.Info("analysis complete",
		"address", req.Address,
		"lat", coords.Latitude,
		"lon", coords.Longitude,
		"score", assessment.Score,
		"risk_level", assessment.RiskLevel,
		"duration", time.Since(start),
	)
	return assessment, nil
}

func (a *Analyzer) validate(req Request) error {
	if req.LoanTermYears < 0 {
		return domain.ErrInvalidLoanTerm
	}
	if req.AssetValue <= 0 {
		return domain.ErrInvalidAssetValue
	}
	return nil
}

// fetchSignals issues the three independent provider calls concurrently and
// joins before the calculators run. Each signal fails soft: a provider
// error substitutes the documented default and is logged, never raised.
func (a *Analyzer) fetchSignals(ctx context.Context, coords domain.Coordinates) domain.RawSignals {
	signals := domain.RawSignals{Elevation: domain.FallbackElevation}

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		elevation, err := a.elevation.FetchElevation(ctx, coords)
		if err != nil {
			a.metrics.SignalFallbacks.WithLabelValues("elevation").Inc()
			a.logger.Warn("elevation lookup failed, using fallback",
				"lat", coords.Latitude, "lon", coords.Longitude,
				"fallback", domain.FallbackElevation, "error", err)
			return
		}
		signals.Elevation = elevation
	}()

	go func() {
		defer wg.Done()
		series, err := a.temperature.FetchTemperatureSeries(ctx, coords)
		if err != nil {
			a.metrics.SignalFallbacks.WithLabelValues("temperature").Inc()
			a.logger.Warn("temperature history fetch failed, using empty series",
				"lat", coords.Latitude, "lon", coords.Longitude, "error", err)
			return
		}
		signals.TemperatureSeries = series
	}()

	go func() {
		defer wg.Done()
		series, err := a.precipitation.FetchPrecipitationSeries(ctx, coords)
		if err != nil {
			a.metrics.SignalFallbacks.WithLabelValues("precipitation").Inc()
			a.logger.Warn("precipitation history fetch failed, using empty series",
				"lat", coords.Latitude, "lon", coords.Longitude, "error", err)
			return
		}
		signals.PrecipitationSeries = series
	}()

	wg.Wait()
	return signals
}

// generateInsight runs the narrative stage. Any failure, including a nil
// provider or an unparsable reply, yields the fixed fallback pair.
func (a *Analyzer) generateInsight(ctx context.Context, req Request, score float64, components domain.RiskComponents) domain.Insight {
	if a.insight == nil {
		a.metrics.InsightOutcomes.WithLabelValues("fallback").Inc()
		return domain.FallbackInsight()
	}

	prompt := domain.BuildInsightPrompt(req.Address, req.AssetValue, req.LoanTermYears, score, components)
	reply, err := a.insight.GenerateInsight(ctx, prompt)
	if err != nil {
		a.metrics.InsightOutcomes.WithLabelValues("fallback").Inc()
		a.logger.Warn("insight generation failed, using fallback", "address", req.Address, "error", err)
		return domain.FallbackInsight()
	}

	insight, err := domain.ParseInsightReply(reply)
	if err != nil {
		a.metrics.InsightOutcomes.WithLabelValues("fallback").Inc()
		a.logger.Warn("insight reply unparsable, using fallback", "address", req.Address, "error", err)
		return domain.FallbackInsight()
	}

	a.metrics.InsightOutcomes.WithLabelValues("generated").Inc()
	return insight
}
