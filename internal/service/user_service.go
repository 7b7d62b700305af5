package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/store"
)

// ErrUsernameTaken indicates that registration targeted an existing username.
var ErrUsernameTaken = errors.New("username already taken")

// UserService provides user account operations. Account creation and user
// listing are admin-only; lookup by credentials is used by the login flow.
type UserService interface {
	// Register creates a new user account. Admin only.
	// Returns ErrUsernameTaken if the username exists already.
	Register(ctx context.Context, actor *domain.User, username, password string, role domain.Role) (*domain.User, error)

	// GetByID retrieves a user by ID, used to resolve session tokens back
	// into an acting user.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by username, used by the login flow.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// List retrieves all users ordered by username. Admin only; used to
	// populate assignee pickers.
	List(ctx context.Context, actor *domain.User) ([]*domain.User, error)
}

// userServiceImpl implements the UserService interface.
type userServiceImpl struct {
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userStore store.UserStore, logger *slog.Logger) (UserService, error) {
	if userStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "userStore cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &userServiceImpl{
		userStore: userStore,
		logger:    logger.With(slog.String("component", "user_service")),
	}, nil
}

// Register implements UserService.Register.
func (s *userServiceImpl) Register(
	ctx context.Context,
	actor *domain.User,
	username, password string,
	role domain.Role,
) (*domain.User, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("non-admin attempted user registration",
			slog.String("actor_id", actor.ID.String()))
		return nil, ErrNotAuthorized
	}

	user, err := domain.NewUser(username, password, role)
	if err != nil {
		return nil, err
	}

	if err := s.userStore.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrUsernameExists) {
			return nil, ErrUsernameTaken
		}
		return nil, NewTaskServiceError("register_user", "failed to persist user", err)
	}

	s.logger.Info("user registered",
		slog.String("user_id", user.ID.String()),
		slog.String("username", user.Username),
		slog.String("role", string(user.Role)),
		slog.String("registered_by", actor.Username))
	return user, nil
}

// GetByID implements UserService.GetByID.
func (s *userServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.userStore.GetByID(ctx, id)
}

// GetByUsername implements UserService.GetByUsername.
func (s *userServiceImpl) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.userStore.GetByUsername(ctx, username)
}

// List implements UserService.List.
func (s *userServiceImpl) List(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	if !actor.IsAdmin() {
		return nil, ErrNotAuthorized
	}
	return s.userStore.List(ctx)
}
