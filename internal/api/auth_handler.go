package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dsoria/taskflow-api/internal/api/shared"
	"github.com/dsoria/taskflow-api/internal/config"
	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/platform/logger"
	"github.com/dsoria/taskflow-api/internal/service"
	"github.com/dsoria/taskflow-api/internal/service/auth"
	"github.com/dsoria/taskflow-api/internal/store"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "taskflow_session"

// AuthHandler handles authentication-related API requests.
type AuthHandler struct {
	userService      service.UserService
	jwtService       auth.JWTService
	passwordVerifier auth.PasswordVerifier
	tokenLifetime    time.Duration
	logger           *slog.Logger
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(
	userService service.UserService,
	jwtService auth.JWTService,
	passwordVerifier auth.PasswordVerifier,
	cfg config.AuthConfig,
	logger *slog.Logger,
) *AuthHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		userService:      userService,
		jwtService:       jwtService,
		passwordVerifier: passwordVerifier,
		tokenLifetime:    time.Duration(cfg.TokenLifetimeMinutes) * time.Minute,
		logger:           logger.With(slog.String("component", "auth_handler")),
	}
}

// decodeLoginRequest reads credentials from a JSON body or, for the
// server-rendered login form, from urlencoded form fields.
func decodeLoginRequest(r *http.Request) (LoginRequest, error) {
	var req LoginRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return req, err
		}
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
		return req, nil
	}
	err := shared.DecodeJSON(r, &req)
	return req, err
}

// wantsHTML reports whether the client is a browser form submission rather
// than an API caller.
func wantsHTML(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") ||
		strings.Contains(r.Header.Get("Accept"), "text/html")
}

// Login handles POST /auth/login. On success it issues the session cookie.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	req, err := decodeLoginRequest(r)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	user, err := h.userService.GetByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// Same response as a bad password so usernames cannot be probed.
			shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials",
				auth.ErrInvalidCredentials, shared.WithElevatedLogLevel())
			return
		}
		HandleAPIError(w, r, err, "Failed to authenticate user")
		return
	}

	if err := h.passwordVerifier.Compare(user.HashedPassword, req.Password); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, "Invalid credentials",
			err, shared.WithElevatedLogLevel())
		return
	}

	token, err := h.jwtService.GenerateToken(r.Context(), user.ID)
	if err != nil {
		log.Error("failed to generate session token",
			"error", err,
			"user_id", user.ID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to establish session")
		return
	}

	expiresAt := time.Now().Add(h.tokenLifetime)
	http.SetCookie(w, h.sessionCookie(token, expiresAt))

	log.Info("user logged in",
		"user_id", user.ID.String(),
		"username", user.Username)

	if wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{
		UserID:    user.ID,
		Username:  user.Username,
		Role:      string(user.Role),
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout handles POST /auth/logout by expiring the session cookie.
// The token itself stays valid until expiry; there is no server-side
// session state to revoke.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	expired := h.sessionCookie("", time.Unix(0, 0))
	expired.MaxAge = -1
	http.SetCookie(w, expired)

	if wantsHTML(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Register handles POST /auth/register. Admin only: new accounts are
// provisioned by an administrator, there is no self-signup.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	actor, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	role, err := domain.ParseRole(req.Role)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	user, err := h.userService.Register(r.Context(), actor, req.Username, req.Password, role)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, userToResponse(user))
}

// sessionCookie builds the HttpOnly session cookie. Secure is left to the
// deployment's TLS terminator; SameSite=Lax keeps the dashboard form flows
// working while blocking cross-site POSTs.
func (h *AuthHandler) sessionCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
