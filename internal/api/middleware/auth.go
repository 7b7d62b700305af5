package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dsoria/taskflow-api/internal/api/shared"
	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/platform/logger"
	"github.com/dsoria/taskflow-api/internal/redact"
	"github.com/dsoria/taskflow-api/internal/service/auth"
	"github.com/dsoria/taskflow-api/internal/store"
)

// SessionCookieName duplicates the auth handler's cookie name so this
// package does not import the handler package.
const SessionCookieName = "taskflow_session"

// UserResolver turns a validated token subject back into a full user.
// Satisfied by service.UserService.
type UserResolver interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

// SessionMiddleware authenticates requests from the session cookie or a
// Bearer token and stores the resolved *domain.User in the request context.
type SessionMiddleware struct {
	jwtService auth.JWTService
	users      UserResolver
}

// NewSessionMiddleware creates a new SessionMiddleware with the given dependencies.
func NewSessionMiddleware(jwtService auth.JWTService, users UserResolver) *SessionMiddleware {
	return &SessionMiddleware{
		jwtService: jwtService,
		users:      users,
	}
}

// tokenFromRequest extracts the session token, preferring the cookie and
// falling back to an Authorization: Bearer header for API clients.
func tokenFromRequest(r *http.Request) (string, error) {
	if cookie, err := r.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value, nil
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", auth.ErrMissingToken
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", auth.ErrInvalidToken
	}
	return parts[1], nil
}

// ResolveSession extracts and validates the session token from the request
// and resolves it to a full user. The user is looked up on every request so
// role changes and deleted accounts take effect without waiting for token
// expiry. Returns the auth sentinel errors and store.ErrUserNotFound for the
// caller to map.
func ResolveSession(r *http.Request, jwtService auth.JWTService, users UserResolver) (*domain.User, error) {
	token, err := tokenFromRequest(r)
	if err != nil {
		return nil, err
	}

	claims, err := jwtService.ValidateToken(r.Context(), token)
	if err != nil {
		return nil, err
	}

	return users.GetByID(r.Context(), claims.UserID)
}

// Authenticate validates the session token and adds the acting user to the
// request context for authorized requests.
func (m *SessionMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromContextOrDefault(r.Context(), nil)

		user, err := ResolveSession(r, m.jwtService, m.users)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrMissingToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
			case errors.Is(err, auth.ErrExpiredToken):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Session expired")
			case errors.Is(err, auth.ErrInvalidToken),
				errors.Is(err, auth.ErrTokenNotYetValid),
				errors.Is(err, store.ErrUserNotFound):
				shared.RespondWithError(w, r, http.StatusUnauthorized, "Invalid session")
			default:
				log.Error("failed to authenticate session", "error", redact.Error(err))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Authentication error")
			}
			return
		}

		ctx := shared.WithUser(r.Context(), user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetUser extracts the authenticated user from the request context.
func GetUser(r *http.Request) (*domain.User, bool) {
	return shared.GetUser(r.Context())
}
