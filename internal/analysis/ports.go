// Package analysis orchestrates the climate risk pipeline: geocode the
// address, fan out to the environmental signal providers, evaluate the risk
// calculators, aggregate the score, and generate projections and the
// narrative insight. Each external provider sits behind a narrow interface
// so the pipeline is fully testable without network access.
package analysis

import (
	"context"
	"errors"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

// ErrLocationNotFound aborts the whole analysis: risk signals have no
// meaning without coordinates.
var ErrLocationNotFound = errors.New("location not found")

// ErrAssessmentNotFound is returned by stores for unknown assessment IDs.
var ErrAssessmentNotFound = errors.New("assessment not found")

// Geocoder resolves a free-text address to coordinates. Implementations
// return ErrLocationNotFound (possibly wrapped) when no match exists.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (domain.Coordinates, error)
}

// ElevationProvider looks up terrain elevation in meters for a point.
type ElevationProvider interface {
	FetchElevation(ctx context.Context, coords domain.Coordinates) (float64, error)
}

// TemperatureProvider returns the daily maximum temperature series for the
// fixed two-year lookback window, in chronological order.
type TemperatureProvider interface {
	FetchTemperatureSeries(ctx context.Context, coords domain.Coordinates) ([]float64, error)
}

// PrecipitationProvider returns the daily precipitation series for the
// fixed lookback year, ordered by day.
type PrecipitationProvider interface {
	FetchPrecipitationSeries(ctx context.Context, coords domain.Coordinates) ([]float64, error)
}

// InsightProvider sends a prompt to a generative-text model and returns the
// raw reply text. It is the pipeline's only nondeterministic dependency.
type InsightProvider interface {
	GenerateInsight(ctx context.Context, prompt string) (string, error)
}

// Store persists completed assessments for the portfolio view.
type Store interface {
	SaveAssessment(ctx context.Context, a domain.Assessment) error
	GetAssessment(ctx context.Context, id string) (domain.Assessment, error)
	ListAssessments(ctx context.Context, limit int) ([]domain.Assessment, error)
}

// Publisher hands completed assessments to downstream consumers.
type Publisher interface {
	PublishAssessment(ctx context.Context, a domain.Assessment) error
}
