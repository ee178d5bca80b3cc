// Package migrate applies the embedded SQL migrations that define the
// profiles and business-ownership schema this service reads.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const trackingTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`

// Run applies every embedded migration that has not been recorded yet, in
// filename order, each in its own transaction. Safe to call on every boot.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, trackingTable); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	versions, err := embeddedVersions()
	if err != nil {
		return err
	}

	logger := slog.Default().With("component", "migrations")
	for _, version := range versions {
		applied, checkErr := alreadyApplied(ctx, db, version)
		if checkErr != nil {
			return checkErr
		}
		if applied {
			continue
		}
		if applyErr := applyOne(ctx, db, logger, version); applyErr != nil {
			return applyErr
		}
	}
	return nil
}

// embeddedVersions lists the migration versions in apply order. Versions are
// the .sql filenames without extension, so the 000N_ prefix orders them.
func embeddedVersions() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}

	var versions []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		versions = append(versions, strings.TrimSuffix(e.Name(), ".sql"))
	}
	sort.Strings(versions)
	return versions, nil
}

func alreadyApplied(ctx context.Context, db *sql.DB, version string) (bool, error) {
	var applied bool
	err := db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`,
		version,
	).Scan(&applied)
	if err != nil {
		return false, fmt.Errorf("check migration %s: %w", version, err)
	}
	return applied, nil
}

// applyOne runs one migration and records it, atomically.
func applyOne(ctx context.Context, db *sql.DB, logger *slog.Logger, version string) error {
	stmts, err := migrationsFS.ReadFile("migrations/" + version + ".sql")
	if err != nil {
		return fmt.Errorf("read migration %s: %w", version, err)
	}

	logger.InfoContext(ctx, "applying migration", "version", version)

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin migration %s: %w", version, err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "migration rollback failed",
				"version", version, "error", rollbackErr)
		}
	}()

	if _, execErr := tx.ExecContext(ctx, string(stmts)); execErr != nil {
		return fmt.Errorf("exec migration %s: %w", version, execErr)
	}
	if _, recordErr := tx.ExecContext(ctx,
		`INSERT INTO schema_migrations (version) VALUES ($1)`, version); recordErr != nil {
		return fmt.Errorf("record migration %s: %w", version, recordErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		return fmt.Errorf("commit migration %s: %w", version, commitErr)
	}
	return nil
}
