package postgres

import (
	"testing"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

type fakeRow struct {
	values []any
	err    error
}

func (f fakeRow) Scan(dest ...any) error {
	if f.err != nil {
		return f.err
	}
	for i, d := range dest {
		switch v := d.(type) {
		case *string:
			*v = f.values[i].(string)
		case *float64:
			*v = f.values[i].(float64)
		case *int:
			*v = f.values[i].(int)
		case *[]byte:
			*v = f.values[i].([]byte)
		case *time.Time:
			*v = f.values[i].(time.Time)
		}
	}
	return nil
}

func TestScanAssessment(t *testing.T) {
	generated := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	row := fakeRow{values: []any{
		"asmt-deadbeef",
		"Galveston, TX",
		29.3013,
		-94.7977,
		2.1,
		250000.0,
		30,
		47.6,
		"High",
		[]byte(`{"flood":5.8,"heat":5,"storm":5,"sea_level":5}`),
		"Coastal exposure drives risk.",
		"Manual Review Required",
		[]byte(`[{"year":2025,"score":47.6},{"year":2030,"score":44.1}]`),
		generated,
	}}

	a, err := scanAssessment(row)
	require.NoError(t, err)

	assert.Equal(t, "asmt-deadbeef", a.ID)
	assert.Equal(t, domain.RiskHigh, a.RiskLevel)
	assert.Equal(t, 5.8, a.Components.Flood)
	require.Len(t, a.Projections, 2)
	assert.Equal(t, 2030, a.Projections[1].Year)
	assert.Equal(t, generated, a.GeneratedAt)
}

func TestScanAssessmentBadJSON(t *testing.T) {
	row := fakeRow{values: []any{
		"asmt-deadbeef", "Galveston, TX", 29.3013, -94.7977, 2.1, 250000.0,
		30, 47.6, "High", []byte(`{not json`), "", "", []byte(`[]`),
		time.Now(),
	}}

	_, err := scanAssessment(row)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal components")
}

func TestSelectAssessmentsSQL(t *testing.T) {
	s := &Store{builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar)}

	query, args, err := s.selectAssessments().
		Where(sq.Eq{"id": "asmt-deadbeef"}).
		ToSql()
	require.NoError(t, err)

	assert.Contains(t, query, "FROM assessments")
	assert.Contains(t, query, "id = $1")
	assert.Equal(t, []any{"asmt-deadbeef"}, args)
}
