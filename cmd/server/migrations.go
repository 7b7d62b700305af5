package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/dsoria/taskflow-api/internal/platform/postgres"
)

// migrationTableName is the table used by goose to track applied migrations.
const migrationTableName = "schema_migrations"

// slogGooseLogger adapts goose's logging to slog so migration output lands
// in the same structured stream as everything else.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level without calling os.Exit; goose's return values
// carry the failure back to the caller.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations applies all pending migrations from the embedded filesystem.
func runMigrations(db *sql.DB, logger *slog.Logger) error {
	start := time.Now()
	logger.Info("applying database migrations")

	goose.SetLogger(&slogGooseLogger{})
	goose.SetBaseFS(postgres.Migrations)
	goose.SetTableName(migrationTableName)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read migration version: %w", err)
	}

	logger.Info("database migrations applied",
		slog.Int64("version", version),
		slog.Duration("duration", time.Since(start)))
	return nil
}
