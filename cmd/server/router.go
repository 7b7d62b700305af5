package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/dsoria/taskflow-api/internal/api"
	apiMiddleware "github.com/dsoria/taskflow-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(
		app.userService,
		app.jwtService,
		app.passwordVerifier,
		app.config.Auth,
		app.logger,
	)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	userHandler := api.NewUserHandler(app.userService, app.logger)

	dashboardHandler, err := api.NewDashboardHandler(
		app.taskService,
		app.jwtService,
		app.userService,
		app.logger,
	)
	if err != nil {
		return nil, err
	}

	sessionMiddleware := apiMiddleware.NewSessionMiddleware(app.jwtService, app.userService)

	// Public endpoints. The dashboard resolves the session itself so an
	// anonymous visit renders the login page instead of a JSON 401.
	r.Get("/", dashboardHandler.Home)
	r.Post("/auth/login", authHandler.Login)
	r.Post("/auth/logout", authHandler.Logout)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware.Authenticate)

		// Registration requires an authenticated admin actor.
		r.Post("/auth/register", authHandler.Register)

		r.Route("/api", func(r chi.Router) {
			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Get("/tasks/{id}", taskHandler.Get)
			r.Put("/tasks/{id}", taskHandler.Update)
			r.Delete("/tasks/{id}", taskHandler.Delete)
			r.Post("/tasks/{id}/status", taskHandler.UpdateStatus)

			r.Get("/users", userHandler.List)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r, nil
}
