package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// NewAssessment assembles the final result of one analysis invocation.
// Scores and components are rounded to two decimals for user-facing output;
// the risk level is always derived from the unrounded score.
func NewAssessment(address string, assetValue float64, loanTermYears int, coords Coordinates, signals RawSignals, components RiskComponents, score float64, level RiskLevel, projections []Projection, insight Insight) Assessment {
	generatedAt := clock.Now().UTC()
	return Assessment{
		ID:            generateID(address, coords, score, generatedAt.Unix()),
		Address:       address,
		Coordinates:   coords,
		Elevation:     signals.Elevation,
		AssetValue:    assetValue,
		LoanTermYears: loanTermYears,
		Score:         Round2(score),
		RiskLevel:     level,
		Components: RiskComponents{
			Flood:    Round2(components.Flood),
			Heat:     Round2(components.Heat),
			Storm:    Round2(components.Storm),
			SeaLevel: Round2(components.SeaLevel),
		},
		AIInsights:         insight.Explanation,
		LoanRecommendation: insight.Recommendation,
		Projections:        projections,
		GeneratedAt:        generatedAt,
	}
}

// generateID produces a deterministic short ID from the assessment's key
// fields. Reanalyzing the same address at the same instant yields the same
// ID, making persistence upserts idempotent.
func generateID(address string, coords Coordinates, score float64, unixTime int64) string {
	input := fmt.Sprintf("%s|%.4f|%.4f|%g|%d", address, coords.Latitude, coords.Longitude, score, unixTime)
	hash := sha256.Sum256([]byte(input))
	return "asmt-" + hex.EncodeToString(hash[:8])
}
