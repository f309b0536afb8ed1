package stores

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	// SQLite driver
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db   *sql.DB
	path string
	cfg  Config
}

// Config holds SQLite store configuration.
type Config struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewSQLiteStore creates a new SQLite store instance.
func NewSQLiteStore(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path is required")
	}

	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = 25
	}
	if cfg.MaxIdleConns == 0 {
		cfg.MaxIdleConns = 5
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = 5 * time.Minute
	}

	return &SQLiteStore{
		path: cfg.Path,
		cfg:  cfg,
	}, nil
}

// Init initializes the database connection and enables WAL mode.
func (s *SQLiteStore) Init(ctx context.Context) error {
	dsn := fmt.Sprintf("%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000&_synchronous=NORMAL&_txlock=immediate", s.path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(s.cfg.MaxOpenConns)
	db.SetMaxIdleConns(s.cfg.MaxIdleConns)
	db.SetConnMaxLifetime(s.cfg.ConnMaxLifetime)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	// Foreign keys are a connection-level setting.
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Migrate runs database migrations from the embedded migration files.
func (s *SQLiteStore) Migrate(_ context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}

	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(s.db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// BeginTx starts a new transaction.
func (s *SQLiteStore) BeginTx(ctx context.Context) (*sql.Tx, error) {
	return s.db.BeginTx(ctx, &sql.TxOptions{
		Isolation: sql.LevelSerializable,
	})
}

// SaveRun stores one run with its phases and directives atomically.
func (s *SQLiteStore) SaveRun(ctx context.Context, run *Run, phases []RunPhase, directives []RunDirective) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, mission, eom, status, error, warnings, boundary_index, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		run.Mission,
		run.EOM,
		run.Status,
		run.Error,
		run.Warnings,
		run.BoundaryIndex,
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	for i := range phases {
		p := &phases[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_phases (run_id, position, name, phase_group, kind, analytic, options)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID, p.Position, p.Name, p.Group, p.Kind, p.Analytic, p.Options,
		)
		if err != nil {
			return fmt.Errorf("failed to insert phase %s: %w", p.Name, err)
		}
	}

	for i := range directives {
		d := &directives[i]
		_, err = tx.ExecContext(ctx, `
			INSERT INTO run_directives (run_id, position, from_phase, to_phase, kind, links)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			run.ID, d.Position, d.FromPhase, d.ToPhase, d.Kind, d.Links,
		)
		if err != nil {
			return fmt.Errorf("failed to insert directive %s->%s: %w", d.FromPhase, d.ToPhase, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit run: %w", err)
	}

	return nil
}

// GetRun retrieves a run by ID.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*Run, error) {
	run := &Run{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, mission, eom, status, error, warnings, boundary_index, created_at
		FROM runs
		WHERE id = ?
	`, id).Scan(
		&run.ID,
		&run.Mission,
		&run.EOM,
		&run.Status,
		&run.Error,
		&run.Warnings,
		&run.BoundaryIndex,
		&run.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	return run, nil
}

// ListRuns lists runs with pagination, most recent first.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit, offset int) ([]*Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, mission, eom, status, error, warnings, boundary_index, created_at
		FROM runs
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	runs := []*Run{}
	for rows.Next() {
		run := &Run{}
		err := rows.Scan(
			&run.ID,
			&run.Mission,
			&run.EOM,
			&run.Status,
			&run.Error,
			&run.Warnings,
			&run.BoundaryIndex,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}

	return runs, nil
}

// DeleteRun deletes a run by ID. Phases, directives, and fuel summaries
// cascade.
func (s *SQLiteStore) DeleteRun(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found: %s", id)
	}

	return nil
}

// ListPhasesByRun lists the annotated phases of a run in flight order.
func (s *SQLiteStore) ListPhasesByRun(ctx context.Context, runID string) ([]*RunPhase, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, position, name, phase_group, kind, analytic, options
		FROM run_phases
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list phases: %w", err)
	}
	defer rows.Close()

	phases := []*RunPhase{}
	for rows.Next() {
		p := &RunPhase{}
		err := rows.Scan(&p.RunID, &p.Position, &p.Name, &p.Group, &p.Kind, &p.Analytic, &p.Options)
		if err != nil {
			return nil, fmt.Errorf("failed to scan phase: %w", err)
		}
		phases = append(phases, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating phases: %w", err)
	}

	return phases, nil
}

// ListDirectivesByRun lists the continuity directives of a run in order.
func (s *SQLiteStore) ListDirectivesByRun(ctx context.Context, runID string) ([]*RunDirective, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, position, from_phase, to_phase, kind, links
		FROM run_directives
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to list directives: %w", err)
	}
	defer rows.Close()

	directives := []*RunDirective{}
	for rows.Next() {
		d := &RunDirective{}
		err := rows.Scan(&d.RunID, &d.Position, &d.FromPhase, &d.ToPhase, &d.Kind, &d.Links)
		if err != nil {
			return nil, fmt.Errorf("failed to scan directive: %w", err)
		}
		directives = append(directives, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating directives: %w", err)
	}

	return directives, nil
}

// SaveFuelSummary stores the fuel accounting result for a run.
func (s *SQLiteStore) SaveFuelSummary(ctx context.Context, summary *FuelSummary) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO fuel_summaries (run_id, fuel_burned, reserve_fuel_burned, reserve_fuel, additional, fraction, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id) DO UPDATE SET
			fuel_burned = excluded.fuel_burned,
			reserve_fuel_burned = excluded.reserve_fuel_burned,
			reserve_fuel = excluded.reserve_fuel,
			additional = excluded.additional,
			fraction = excluded.fraction,
			created_at = excluded.created_at
	`,
		summary.RunID,
		summary.FuelBurned,
		summary.ReserveFuelBurned,
		summary.ReserveFuel,
		summary.Additional,
		summary.Fraction,
		summary.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save fuel summary: %w", err)
	}

	return nil
}

// GetFuelSummary retrieves the fuel accounting result for a run.
func (s *SQLiteStore) GetFuelSummary(ctx context.Context, runID string) (*FuelSummary, error) {
	summary := &FuelSummary{}
	err := s.db.QueryRowContext(ctx, `
		SELECT run_id, fuel_burned, reserve_fuel_burned, reserve_fuel, additional, fraction, created_at
		FROM fuel_summaries
		WHERE run_id = ?
	`, runID).Scan(
		&summary.RunID,
		&summary.FuelBurned,
		&summary.ReserveFuelBurned,
		&summary.ReserveFuel,
		&summary.Additional,
		&summary.Fraction,
		&summary.CreatedAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("fuel summary not found for run: %s", runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get fuel summary: %w", err)
	}

	return summary, nil
}

// HealthCheck verifies the database connection is alive.
func (s *SQLiteStore) HealthCheck(ctx context.Context) error {
	if s.db == nil {
		return fmt.Errorf("database not initialized")
	}
	return s.db.PingContext(ctx)
}
