package api

import (
	"embed"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/dsoria/taskflow-api/internal/api/middleware"
	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/platform/logger"
	"github.com/dsoria/taskflow-api/internal/service"
	"github.com/dsoria/taskflow-api/internal/service/auth"
)

//go:embed templates/*.html
var templateFS embed.FS

// DashboardHandler serves the HTML shell at /: a login form for anonymous
// visitors and the task board for an authenticated session.
type DashboardHandler struct {
	taskService service.TaskService
	jwtService  auth.JWTService
	users       middleware.UserResolver
	templates   *template.Template
	logger      *slog.Logger
}

// NewDashboardHandler creates a new DashboardHandler, parsing the embedded
// templates once at construction.
func NewDashboardHandler(
	taskService service.TaskService,
	jwtService auth.JWTService,
	users middleware.UserResolver,
	logger *slog.Logger,
) (*DashboardHandler, error) {
	templates, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &DashboardHandler{
		taskService: taskService,
		jwtService:  jwtService,
		users:       users,
		templates:   templates,
		logger:      logger.With(slog.String("component", "dashboard_handler")),
	}, nil
}

// dashboardData feeds the dashboard template.
type dashboardData struct {
	Username        string
	IsAdmin         bool
	AllowedStatuses []domain.Status
	Tasks           []TaskResponse
}

// Home handles GET /. Authentication is optional here: a missing or invalid
// session renders the login page instead of a JSON 401.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, err := middleware.ResolveSession(r, h.jwtService, h.users)
	if err != nil {
		h.render(w, log, "login.html", nil)
		return
	}

	tasks, err := h.taskService.List(r.Context(), user)
	if err != nil {
		log.Error("failed to load tasks for dashboard",
			"error", err,
			"user_id", user.ID.String())
		http.Error(w, "Failed to load tasks", http.StatusInternalServerError)
		return
	}

	h.render(w, log, "dashboard.html", dashboardData{
		Username:        user.Username,
		IsAdmin:         user.IsAdmin(),
		AllowedStatuses: domain.AllowedStatuses(user.Role),
		Tasks:           tasksToResponse(tasks),
	})
}

func (h *DashboardHandler) render(w http.ResponseWriter, log *slog.Logger, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.templates.ExecuteTemplate(w, name, data); err != nil {
		log.Error("failed to render template", "template", name, "error", err)
	}
}
