package api

import (
	"log/slog"
	"net/http"

	"github.com/dsoria/taskflow-api/internal/api/shared"
	"github.com/dsoria/taskflow-api/internal/service"
)

// UserHandler handles user listing requests.
type UserHandler struct {
	userService service.UserService
	logger      *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, logger *slog.Logger) *UserHandler {
	if userService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("userService cannot be nil for UserHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &UserHandler{
		userService: userService,
		logger:      logger.With(slog.String("component", "user_handler")),
	}
}

// List handles GET /api/users requests. Admin only; used to populate
// assignee pickers when creating or reassigning tasks.
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	users, err := h.userService.List(r.Context(), actor)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list users")
		return
	}

	out := make([]UserResponse, len(users))
	for i, user := range users {
		out[i] = userToResponse(user)
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}
