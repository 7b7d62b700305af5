package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dsoria/taskflow-api/internal/api/shared"
	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/platform/logger"
)

// currentUser extracts the authenticated user placed in the request context
// by the session middleware. Writes a 401 and returns false when absent.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	user, ok := shared.GetUser(r.Context())
	if !ok {
		log := logger.FromContextOrDefault(r.Context(), nil)
		log.Warn("authenticated user missing from request context",
			"path", r.URL.Path)
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return nil, false
	}
	return user, true
}

// pathUUID extracts and parses a UUID path parameter.
func pathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrValidation)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// userAndTaskID is the composite extraction used by every per-task handler:
// the session user plus the {id} path parameter. Writes the error response
// itself and returns false when either is missing.
func userAndTaskID(w http.ResponseWriter, r *http.Request) (*domain.User, uuid.UUID, bool) {
	user, ok := currentUser(w, r)
	if !ok {
		return nil, uuid.Nil, false
	}

	taskID, err := pathUUID(r, "id")
	if err != nil {
		log := logger.FromContextOrDefault(r.Context(), nil)
		log.Warn("invalid task id in path",
			"value", chi.URLParam(r, "id"))
		HandleAPIError(w, r, err, "")
		return nil, uuid.Nil, false
	}

	return user, taskID, true
}
