// Package migration drives schema migrations from the migrations/ SQL files.
package migration

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Runner applies file-based SQL migrations against postgres.
type Runner struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// NewRunner builds a Runner over an open *sql.DB.
func NewRunner(db *sql.DB, dir string, log *zap.Logger) (*Runner, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("postgres migration driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance("file://"+dir, "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate instance: %w", err)
	}
	return &Runner{m: m, log: log}, nil
}

// Up applies every pending migration.
func (r *Runner) Up() error {
	if err := r.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.log.Info("schema already up to date")
			return nil
		}
		return fmt.Errorf("migrate up: %w", err)
	}

	v, dirty, err := r.m.Version()
	if err != nil {
		return fmt.Errorf("migration version: %w", err)
	}
	r.log.Info("migrations applied", zap.Uint("version", v), zap.Bool("dirty", dirty))
	return nil
}

// Down rolls every migration back.
func (r *Runner) Down() error {
	if err := r.m.Down(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.log.Info("nothing to roll back")
			return nil
		}
		return fmt.Errorf("migrate down: %w", err)
	}
	r.log.Info("all migrations rolled back")
	return nil
}

// Steps moves n migrations forward, or backward when n is negative.
func (r *Runner) Steps(n int) error {
	if err := r.m.Steps(n); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate steps(%d): %w", n, err)
	}
	return nil
}

// Version reports the current schema version. A fresh database reports
// version 0, not an error.
func (r *Runner) Version() (uint, bool, error) {
	v, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("migration version: %w", err)
	}
	return v, dirty, nil
}

// Force overwrites the recorded version to recover a dirty schema state.
func (r *Runner) Force(version int) error {
	r.log.Warn("forcing migration version", zap.Int("version", version))
	if err := r.m.Force(version); err != nil {
		return fmt.Errorf("force version %d: %w", version, err)
	}
	return nil
}

// Close releases the source and database handles.
func (r *Runner) Close() error {
	srcErr, dbErr := r.m.Close()
	if srcErr != nil {
		return fmt.Errorf("close migration source: %w", srcErr)
	}
	if dbErr != nil {
		return fmt.Errorf("close migration database: %w", dbErr)
	}
	return nil
}
