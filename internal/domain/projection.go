package domain

// Projection model constants. The base year and decay rate are fixed
// heuristics from the original scoring model.
const (
	ProjectionBaseYear  = 2025
	ProjectionStepYears = 5
	projectionDecayRate = 0.7 // score points lost per year
)

// Project extrapolates a score from the base year in 5-year steps up to and
// including baseYear+loanTermYears. Each entry decays linearly and is
// floored at zero. A negative loan term is invalid input.
func Project(score float64, loanTermYears int) ([]Projection, error) {
	if loanTermYears < 0 {
		return nil, ErrInvalidLoanTerm
	}

	var projections []Projection
	for year := ProjectionBaseYear; year <= ProjectionBaseYear+loanTermYears; year += ProjectionStepYears {
		decayed := score - projectionDecayRate*float64(year-ProjectionBaseYear)
		if decayed < 0 {
			decayed = 0
		}
		projections = append(projections, Projection{Year: year, Score: Round2(decayed)})
	}
	return projections, nil
}
