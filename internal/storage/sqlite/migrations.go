package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

// migrationFS holds the versioned schema. Migrations run on startup to
// ensure tables exist, and through the server's migrate command.
//
//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationResult describes one applied migration.
type MigrationResult struct {
	Version    int64
	Path       string
	DurationMs int64
}

// runMigrations applies all pending goose migrations to db.
func runMigrations(ctx context.Context, db *sql.DB) ([]MigrationResult, error) {
	sub, err := fs.Sub(migrationFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}

	applied := make([]MigrationResult, 0, len(results))
	for _, r := range results {
		applied = append(applied, MigrationResult{
			Version:    r.Source.Version,
			Path:       r.Source.Path,
			DurationMs: r.Duration.Milliseconds(),
		})
	}
	return applied, nil
}
