package domain

import "math"

// Component weights. They sum to exactly 1.0 and are fixed contractually:
// downstream lending decisions depend on score stability across releases.
const (
	WeightFlood    = 0.30
	WeightHeat     = 0.25
	WeightStorm    = 0.25
	WeightSeaLevel = 0.20
)

// Defaults substituted when an upstream signal is unavailable.
const (
	// FallbackElevation is used when the elevation provider fails (meters).
	FallbackElevation = 10.0

	// defaultAvgPrecip stands in for the mean daily precipitation when the
	// precipitation series is empty (mm/day).
	defaultAvgPrecip = 5.0

	// defaultHeatRisk and defaultStormRisk are the flat components used when
	// the corresponding series is empty.
	defaultHeatRisk  = 5.0
	defaultStormRisk = 5.0

	// coastalLatitudeCutoff marks the absolute latitude above which a
	// location is treated as non-coastal for sea-level risk.
	coastalLatitudeCutoff = 60.0
)

// FloodRisk combines low elevation and high average precipitation.
// elevationFactor dominates: locations below 50m elevation carry risk even
// in dry climates.
func FloodRisk(elevation float64, precipSeries []float64) float64 {
	avgPrecip := defaultAvgPrecip
	if len(precipSeries) > 0 {
		avgPrecip = mean(precipSeries)
	}
	elevationFactor := math.Max(0, 10-elevation/5)
	precipFactor := math.Min(10, avgPrecip*0.5)
	return clamp(elevationFactor*0.6+precipFactor*0.4, 0, 10)
}

// HeatRisk scales the historical average daily maximum temperature:
// risk accrues above 20C, saturating at 40C.
func HeatRisk(temperatureSeries []float64) float64 {
	if len(temperatureSeries) == 0 {
		return defaultHeatRisk
	}
	avgMaxTemp := mean(temperatureSeries)
	return clamp((avgMaxTemp-20)*0.5, 0, 10)
}

// StormRisk uses the single worst daily precipitation reading as a proxy
// for storm vulnerability. The max-of-series is intentionally unguarded
// against outliers.
func StormRisk(precipSeries []float64) float64 {
	if len(precipSeries) == 0 {
		return defaultStormRisk
	}
	maxPrecip := precipSeries[0]
	for _, v := range precipSeries[1:] {
		if v > maxPrecip {
			maxPrecip = v
		}
	}
	return clamp(maxPrecip/10, 0, 10)
}

// SeaLevelRisk is zero for locations at or above 60 degrees absolute
// latitude; elsewhere it grows as elevation drops below 20m.
func SeaLevelRisk(elevation, latitude float64) float64 {
	if math.Abs(latitude) >= coastalLatitudeCutoff {
		return 0
	}
	return clamp(10-elevation/2, 0, 10)
}

// ComputeComponents evaluates all four risk calculators for one location.
func ComputeComponents(signals RawSignals, coords Coordinates) RiskComponents {
	return RiskComponents{
		Flood:    FloodRisk(signals.Elevation, signals.PrecipitationSeries),
		Heat:     HeatRisk(signals.TemperatureSeries),
		Storm:    StormRisk(signals.PrecipitationSeries),
		SeaLevel: SeaLevelRisk(signals.Elevation, coords.Latitude),
	}
}

// Aggregate combines the four components into the overall climate score and
// its discrete risk level. Pure function, no failure modes.
func Aggregate(c RiskComponents) (float64, RiskLevel) {
	rawRisk := WeightFlood*c.Flood + WeightHeat*c.Heat + WeightStorm*c.Storm + WeightSeaLevel*c.SeaLevel
	score := clamp(100-rawRisk*10, 0, 100)
	return score, RiskLevelFor(score)
}

// RiskLevelFor maps a score to its risk level using inclusive lower bounds.
func RiskLevelFor(score float64) RiskLevel {
	switch {
	case score >= 80:
		return RiskLow
	case score >= 50:
		return RiskMedium
	case score >= 30:
		return RiskHigh
	default:
		return RiskExtreme
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func mean(series []float64) float64 {
	sum := 0.0
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// Round2 rounds to two decimal places for user-facing output.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
