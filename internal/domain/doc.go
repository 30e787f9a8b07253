// Package domain models climate risk assessments for property lending.
//
// # Scoring Model
//
// An assessment fuses four environmental signals into one 0-100 climate
// score. Each signal is first reduced to a bounded 0-10 risk component:
//
//	Flood:     0.6*elevationFactor + 0.4*precipFactor, where
//	           elevationFactor = max(0, 10 - elevation/5) and
//	           precipFactor = min(10, avgPrecip * 0.5).
//	Heat:      clamp((avgMaxTemp - 20) * 0.5, 0, 10).
//	Storm:     clamp(maxDailyPrecip / 10, 0, 10).
//	Sea level: 0 above 60 degrees absolute latitude (treated as
//	           non-coastal), otherwise clamp(10 - elevation/2, 0, 10).
//
// Missing series fall back to documented defaults (average precipitation
// 5.0 mm/day, heat and storm components 5.0) so a missing upstream signal
// never aborts an assessment.
//
// Components combine with fixed weights 0.30/0.25/0.25/0.20 (flood, heat,
// storm, sea level), and score = clamp(100 - rawRisk*10, 0, 100). The
// weights and divisors are heuristic constants carried over from the
// original scoring model; they must not change without product sign-off.
//
// # Risk Levels
//
// The discrete risk level is a pure function of the score with inclusive
// lower bounds: >=80 Low, >=50 Medium, >=30 High, else Extreme.
//
// # Projections
//
// The score is extrapolated from a fixed base year (2025) in 5-year steps
// bounded by the loan term, decaying linearly at 0.7 points per year and
// floored at zero.
package domain
