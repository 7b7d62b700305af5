package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/dsoria/taskflow-api/internal/domain"
)

// TaskUpdate describes a partial update to a task's editable fields.
// Nil fields retain their prior value. Status is deliberately absent:
// status changes go through UpdateStatus only.
type TaskUpdate struct {
	Title       *string
	Description *string
	OwnerID     *uuid.UUID
}

// TaskStore defines the interface for task data persistence.
// Every operation is synchronous and atomic with respect to a single
// caller; no partial writes are ever visible.
type TaskStore interface {
	// Create saves a new task to the store.
	// The task is persisted with whatever status it carries, which for new
	// tasks is always domain.StatusToDo (enforced by domain.NewTask).
	// Returns ErrInvalidEntity if the owner does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// List retrieves all tasks, newest first.
	List(ctx context.Context) ([]*domain.Task, error)

	// ListByOwner retrieves the tasks owned by the given user, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error)

	// Update applies a partial update to a task's title, description, or
	// owner. Unset fields retain their prior value; status is never touched.
	// Returns the updated task.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns ErrInvalidEntity if a new owner does not exist.
	Update(ctx context.Context, id uuid.UUID, update TaskUpdate) (*domain.Task, error)

	// UpdateStatus overwrites a task's status and nothing else.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns domain validation errors if the status is invalid.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error

	// SetProcessInstanceID records the external process instance linked to
	// the task after a successful workflow start.
	// Returns ErrTaskNotFound if the task does not exist.
	SetProcessInstanceID(ctx context.Context, id uuid.UUID, instanceID int64) error

	// Delete removes a task from the store by its ID.
	// Returns ErrTaskNotFound if the task does not exist.
	// This operation is permanent and cannot be undone.
	Delete(ctx context.Context, id uuid.UUID) error
}
