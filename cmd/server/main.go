// Package main implements the entry point for the taskflow API server,
// a role-based task tracker backed by Postgres with optional workflow
// notifications to a jBPM process engine.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/dsoria/taskflow-api/internal/config"
	"github.com/dsoria/taskflow-api/internal/platform/logger"
)

func main() {
	migrate := flag.Bool("migrate", false, "apply pending database migrations and exit")
	flag.Parse()

	if err := run(context.Background(), *migrate); err != nil {
		log.Fatalf("taskflow-api: %v", err)
	}
}

// run loads configuration, wires the application together and either runs
// migrations or starts the HTTP server. Split out of main so errors flow
// back through a single exit path.
func run(ctx context.Context, migrate bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		slog.Int("port", cfg.Server.Port),
		slog.String("log_level", cfg.Server.LogLevel),
		slog.Bool("workflow_enabled", cfg.KIE.Enabled))

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return err
	}

	if migrate {
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				appLogger.Error("error closing database connection", slog.Any("error", closeErr))
			}
		}()
		return runMigrations(db, appLogger)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
