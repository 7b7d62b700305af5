package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"

	"github.com/dsoria/taskflow-api/internal/config"
	"github.com/dsoria/taskflow-api/internal/platform/kie"
	"github.com/dsoria/taskflow-api/internal/platform/postgres"
	"github.com/dsoria/taskflow-api/internal/service"
	"github.com/dsoria/taskflow-api/internal/service/auth"
	"github.com/dsoria/taskflow-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	// Stores (using interfaces for proper abstraction)
	userStore store.UserStore
	taskStore store.TaskStore

	// Service interfaces
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	notifier         service.WorkflowNotifier
	taskService      service.TaskService
	userService      service.UserService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts core dependencies like configuration, logger, and
// database connection that must be established before application
// initialization.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	app.passwordVerifier = auth.NewBcryptVerifier()

	app.userStore = postgres.NewPostgresUserStore(db, bcrypt.DefaultCost, logger)
	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	// The workflow notifier is best-effort by contract: when the engine is
	// disabled or unreachable the rest of the application keeps working.
	if cfg.KIE.Enabled {
		client := kie.NewClient(cfg.KIE, logger.With(slog.String("component", "kie_client")))
		app.notifier = kie.NewNotifier(client, logger)
		logger.Info("workflow engine notifier initialized",
			slog.String("container_id", cfg.KIE.ContainerID),
			slog.String("process_id", cfg.KIE.ProcessID))
	} else {
		app.notifier = kie.NewNoopNotifier()
		logger.Info("workflow engine integration disabled")
	}

	app.taskService, err = service.NewTaskService(app.taskStore, app.notifier, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	app.userService, err = service.NewUserService(app.userStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create user service: %w", err)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
func (app *application) Run(ctx context.Context) error {
	router, err := app.setupRouter()
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.Any("error", err))
		}
	}

	app.logger.Info("application shutdown completed")
}
