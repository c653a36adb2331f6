// Package store persists run results to Postgres so sweeps and repeated
// studies can be compared across sessions.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"greenheart/internal/model"
	"greenheart/internal/sim"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// RunRecord is one persisted simulation outcome. Levelized costs are nullable
// because not every run configures every product.
type RunRecord struct {
	ID        string    `db:"id"`
	CreatedAt time.Time `db:"created_at"`

	DesignScenario  int `db:"design_scenario"`
	IncentiveOption int `db:"incentive_option"`

	AEPKWh           float64 `db:"aep_kwh"`
	CapacityFactor   float64 `db:"capacity_factor"`
	AnnualHydrogenKG float64 `db:"annual_hydrogen_kg"`

	LCOEUSDPerKWh   sql.NullFloat64 `db:"lcoe_usd_per_kwh"`
	LCOHUSDPerKG    sql.NullFloat64 `db:"lcoh_usd_per_kg"`
	LCOAUSDPerKG    sql.NullFloat64 `db:"lcoa_usd_per_kg"`
	LCOSUSDPerTonne sql.NullFloat64 `db:"lcos_usd_per_tonne"`
}

// Store wraps the runs table.
type Store struct {
	db *sqlx.DB
}

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, errors.New("database DSN is required")
	}
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id                 TEXT PRIMARY KEY,
	created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
	design_scenario    INTEGER NOT NULL,
	incentive_option   INTEGER NOT NULL,
	aep_kwh            DOUBLE PRECISION NOT NULL,
	capacity_factor    DOUBLE PRECISION NOT NULL,
	annual_hydrogen_kg DOUBLE PRECISION NOT NULL,
	lcoe_usd_per_kwh   DOUBLE PRECISION,
	lcoh_usd_per_kg    DOUBLE PRECISION,
	lcoa_usd_per_kg    DOUBLE PRECISION,
	lcos_usd_per_tonne DOUBLE PRECISION
)`

// Migrate creates the runs table if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("migrate runs table: %w", err)
	}
	return nil
}

// InsertRun persists one simulation result.
func (s *Store) InsertRun(ctx context.Context, res *sim.Results) error {
	rec := RecordFromResults(res)
	const q = `
		INSERT INTO runs (
			id, design_scenario, incentive_option,
			aep_kwh, capacity_factor, annual_hydrogen_kg,
			lcoe_usd_per_kwh, lcoh_usd_per_kg, lcoa_usd_per_kg, lcos_usd_per_tonne
		) VALUES (
			:id, :design_scenario, :incentive_option,
			:aep_kwh, :capacity_factor, :annual_hydrogen_kg,
			:lcoe_usd_per_kwh, :lcoh_usd_per_kg, :lcoa_usd_per_kg, :lcos_usd_per_tonne
		)`
	if _, err := s.db.NamedExecContext(ctx, q, rec); err != nil {
		return fmt.Errorf("insert run %s: %w", rec.ID, err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	var recs []RunRecord
	const q = `SELECT * FROM runs ORDER BY created_at DESC LIMIT $1`
	if err := s.db.SelectContext(ctx, &recs, q, limit); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return recs, nil
}

// GetRun fetches one run by ID.
func (s *Store) GetRun(ctx context.Context, id string) (*RunRecord, error) {
	var rec RunRecord
	const q = `SELECT * FROM runs WHERE id = $1`
	if err := s.db.GetContext(ctx, &rec, q, id); err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &rec, nil
}

// RecordFromResults flattens a results handle into a row.
func RecordFromResults(res *sim.Results) RunRecord {
	rec := RunRecord{
		ID:              res.RunID,
		DesignScenario:  res.Settings.DesignScenario,
		IncentiveOption: res.Settings.IncentiveOption,
	}
	if res.Performance != nil {
		rec.AEPKWh = res.Performance.AEPKWh
		rec.CapacityFactor = res.Performance.CapacityFactor
	}
	if res.Hydrogen != nil {
		rec.AnnualHydrogenKG = res.Hydrogen.AnnualProductionKG
	}
	rec.LCOEUSDPerKWh = nullMetric(res, model.MetricLCOE)
	rec.LCOHUSDPerKG = nullMetric(res, model.MetricLCOH)
	rec.LCOAUSDPerKG = nullMetric(res, model.MetricLCOA)
	rec.LCOSUSDPerTonne = nullMetric(res, model.MetricLCOS)
	return rec
}

func nullMetric(res *sim.Results, name string) sql.NullFloat64 {
	q, err := res.Metric(name)
	if err != nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: q.Value, Valid: true}
}
