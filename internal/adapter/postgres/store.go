// Package postgres persists completed assessments in PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"

	"github.com/couchcryptid/climate-risk-engine/internal/analysis"
	"github.com/couchcryptid/climate-risk-engine/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS assessments (
	id                  TEXT PRIMARY KEY,
	address             TEXT NOT NULL,
	latitude            DOUBLE PRECISION NOT NULL,
	longitude           DOUBLE PRECISION NOT NULL,
	elevation           DOUBLE PRECISION NOT NULL,
	asset_value         DOUBLE PRECISION NOT NULL,
	loan_term_years     INTEGER NOT NULL,
	climate_score       DOUBLE PRECISION NOT NULL,
	risk_level          TEXT NOT NULL,
	components          JSONB NOT NULL,
	ai_insights         TEXT NOT NULL DEFAULT '',
	loan_recommendation TEXT NOT NULL DEFAULT '',
	projections         JSONB NOT NULL DEFAULT '[]',
	generated_at        TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_assessments_generated_at ON assessments (generated_at DESC);
`

// Store implements analysis.Store on top of PostgreSQL.
type Store struct {
	db      *sql.DB
	builder sq.StatementBuilderType
	logger  *slog.Logger
}

// NewStore opens a connection pool, verifies connectivity, and ensures the
// schema exists.
func NewStore(databaseURL string, logger *slog.Logger) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
		logger:  logger,
	}, nil
}

// SaveAssessment inserts one assessment. Saving the same ID twice is a no-op
// since IDs are content-derived.
func (s *Store) SaveAssessment(ctx context.Context, a domain.Assessment) error {
	components, err := json.Marshal(a.Components)
	if err != nil {
		return fmt.Errorf("marshal components: %w", err)
	}
	projections, err := json.Marshal(a.Projections)
	if err != nil {
		return fmt.Errorf("marshal projections: %w", err)
	}

	query, args, err := s.builder.
		Insert("assessments").
		Columns("id", "address", "latitude", "longitude", "elevation",
			"asset_value", "loan_term_years", "climate_score", "risk_level",
			"components", "ai_insights", "loan_recommendation", "projections",
			"generated_at").
		Values(a.ID, a.Address, a.Coordinates.Latitude, a.Coordinates.Longitude,
			a.Elevation, a.AssetValue, a.LoanTermYears, a.Score, string(a.RiskLevel),
			components, a.AIInsights, a.LoanRecommendation, projections,
			a.GeneratedAt).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert assessment %s: %w", a.ID, err)
	}
	return nil
}

// GetAssessment fetches one assessment by ID.
func (s *Store) GetAssessment(ctx context.Context, id string) (domain.Assessment, error) {
	query, args, err := s.selectAssessments().
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("build select: %w", err)
	}

	a, err := scanAssessment(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Assessment{}, analysis.ErrAssessmentNotFound
	}
	if err != nil {
		return domain.Assessment{}, fmt.Errorf("get assessment %s: %w", id, err)
	}
	return a, nil
}

// ListAssessments returns the most recent assessments, newest first.
func (s *Store) ListAssessments(ctx context.Context, limit int) ([]domain.Assessment, error) {
	query, args, err := s.selectAssessments().
		OrderBy("generated_at DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	defer rows.Close()

	var assessments []domain.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		assessments = append(assessments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate assessments: %w", err)
	}
	return assessments, nil
}

// CheckReadiness pings the database so /readyz reflects connectivity.
func (s *Store) CheckReadiness(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("database not reachable: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) selectAssessments() sq.SelectBuilder {
	return s.builder.
		Select("id", "address", "latitude", "longitude", "elevation",
			"asset_value", "loan_term_years", "climate_score", "risk_level",
			"components", "ai_insights", "loan_recommendation", "projections",
			"generated_at").
		From("assessments")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAssessment(row rowScanner) (domain.Assessment, error) {
	var (
		a           domain.Assessment
		riskLevel   string
		components  []byte
		projections []byte
	)
	err := row.Scan(&a.ID, &a.Address, &a.Coordinates.Latitude,
		&a.Coordinates.Longitude, &a.Elevation, &a.AssetValue,
		&a.LoanTermYears, &a.Score, &riskLevel, &components, &a.AIInsights,
		&a.LoanRecommendation, &projections, &a.GeneratedAt)
	if err != nil {
		return domain.Assessment{}, err
	}

	a.RiskLevel = domain.RiskLevel(riskLevel)
	if err := json.Unmarshal(components, &a.Components); err != nil {
		return domain.Assessment{}, fmt.Errorf("unmarshal components: %w", err)
	}
	if err := json.Unmarshal(projections, &a.Projections); err != nil {
		return domain.Assessment{}, fmt.Errorf("unmarshal projections: %w", err)
	}
	return a, nil
}
