package domain

import (
	"errors"
	"time"
)

// ErrInvalidLoanTerm rejects caller-supplied loan terms before any
// external provider is contacted.
var ErrInvalidLoanTerm = errors.New("loan term must not be negative")

// ErrInvalidAssetValue rejects non-positive asset values.
var ErrInvalidAssetValue = errors.New("asset value must be positive")

// Coordinates is a WGS-84 latitude/longitude pair. It is resolved once by
// the geocoder and immutable for the rest of the analysis.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// RawSignals holds the environmental inputs gathered for one location.
// Each field is independently optional: a zero-length series or a fallback
// elevation is substituted by the fetch layer when a provider fails.
type RawSignals struct {
	Elevation           float64
	TemperatureSeries   []float64 // daily max temperature, chronological
	PrecipitationSeries []float64 // daily precipitation, chronological
}

// RiskComponents are the four 0-10 sub-scores feeding the overall score.
type RiskComponents struct {
	Flood    float64 `json:"flood"`
	Heat     float64 `json:"heat"`
	Storm    float64 `json:"storm"`
	SeaLevel float64 `json:"sea_level"`
}

// RiskLevel is the discrete classification derived solely from the score.
type RiskLevel string

const (
	RiskLow     RiskLevel = "Low"
	RiskMedium  RiskLevel = "Medium"
	RiskHigh    RiskLevel = "High"
	RiskExtreme RiskLevel = "Extreme"
)

// Projection is the score extrapolated to a future year.
type Projection struct {
	Year  int     `json:"year"`
	Score float64 `json:"score"`
}

// Insight is the narrative explanation and loan recommendation produced by
// the generative-text provider, or the documented fallback pair.
type Insight struct {
	Explanation    string `json:"explanation"`
	Recommendation string `json:"recommendation"`
}

// Assessment is the assembled result of one analysis invocation. Entities
// are created fresh per invocation and handed to the caller; persistence
// is the caller's concern.
type Assessment struct {
	ID                 string         `json:"id,omitempty"`
	Address            string         `json:"address"`
	Coordinates        Coordinates    `json:"coordinates"`
	Elevation          float64        `json:"elevation"`
	AssetValue         float64        `json:"asset_value"`
	LoanTermYears      int            `json:"loan_term_years"`
	Score              float64        `json:"climate_score"`
	RiskLevel          RiskLevel      `json:"risk_level"`
	Components         RiskComponents `json:"environmental_composition"`
	AIInsights         string         `json:"ai_insights"`
	LoanRecommendation string         `json:"loan_recommendation"`
	Projections        []Projection   `json:"projections"`
	GeneratedAt        time.Time      `json:"generated_at"`
}
