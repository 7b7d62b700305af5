package api

import (
	"context"

	"github.com/google/uuid"

	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/service"
	"github.com/dsoria/taskflow-api/internal/store"
)

// mockTaskService implements service.TaskService via function fields so each
// test can script exactly the behavior it needs.
type mockTaskService struct {
	createFunc       func(ctx context.Context, actor *domain.User, title, description string, assigneeID uuid.UUID) (*domain.Task, error)
	getFunc          func(ctx context.Context, actor *domain.User, taskID uuid.UUID) (*domain.Task, error)
	listFunc         func(ctx context.Context, actor *domain.User) ([]*domain.Task, error)
	updateFunc       func(ctx context.Context, actor *domain.User, taskID uuid.UUID, update store.TaskUpdate) (*domain.Task, error)
	updateStatusFunc func(ctx context.Context, actor *domain.User, taskID uuid.UUID, status domain.Status) (*domain.Task, error)
	deleteFunc       func(ctx context.Context, actor *domain.User, taskID uuid.UUID) error
}

var _ service.TaskService = (*mockTaskService)(nil)

func (m *mockTaskService) Create(ctx context.Context, actor *domain.User, title, description string, assigneeID uuid.UUID) (*domain.Task, error) {
	return m.createFunc(ctx, actor, title, description, assigneeID)
}

func (m *mockTaskService) Get(ctx context.Context, actor *domain.User, taskID uuid.UUID) (*domain.Task, error) {
	return m.getFunc(ctx, actor, taskID)
}

func (m *mockTaskService) List(ctx context.Context, actor *domain.User) ([]*domain.Task, error) {
	return m.listFunc(ctx, actor)
}

func (m *mockTaskService) Update(ctx context.Context, actor *domain.User, taskID uuid.UUID, update store.TaskUpdate) (*domain.Task, error) {
	return m.updateFunc(ctx, actor, taskID, update)
}

func (m *mockTaskService) UpdateStatus(ctx context.Context, actor *domain.User, taskID uuid.UUID, status domain.Status) (*domain.Task, error) {
	return m.updateStatusFunc(ctx, actor, taskID, status)
}

func (m *mockTaskService) Delete(ctx context.Context, actor *domain.User, taskID uuid.UUID) error {
	return m.deleteFunc(ctx, actor, taskID)
}

// mockUserService implements service.UserService the same way.
type mockUserService struct {
	registerFunc      func(ctx context.Context, actor *domain.User, username, password string, role domain.Role) (*domain.User, error)
	getByIDFunc       func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByUsernameFunc func(ctx context.Context, username string) (*domain.User, error)
	listFunc          func(ctx context.Context, actor *domain.User) ([]*domain.User, error)
}

var _ service.UserService = (*mockUserService)(nil)

func (m *mockUserService) Register(ctx context.Context, actor *domain.User, username, password string, role domain.Role) (*domain.User, error) {
	return m.registerFunc(ctx, actor, username, password, role)
}

func (m *mockUserService) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return m.getByUsernameFunc(ctx, username)
}

func (m *mockUserService) List(ctx context.Context, actor *domain.User) ([]*domain.User, error) {
	return m.listFunc(ctx, actor)
}
