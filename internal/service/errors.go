package service

import (
	"errors"
	"fmt"

	"github.com/dsoria/taskflow-api/internal/store"
)

// Common sentinel errors for the task service.
var (
	// ErrTaskNotFound indicates that the task does not exist, or is not
	// visible to the acting user.
	ErrTaskNotFound = errors.New("task not found")

	// ErrNotAuthorized indicates that the acting user's role does not
	// permit the operation (e.g. a non-admin creating a task).
	ErrNotAuthorized = errors.New("operation not permitted for role")

	// ErrStatusNotAllowed indicates that the requested status transition
	// is not permitted for the acting user's role. No state is mutated and
	// no notification is sent when this is returned.
	ErrStatusNotAllowed = errors.New("status not allowed for role")
)

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "update_status")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// It returns known sentinel errors directly without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	// Service-defined sentinels pass through untouched
	if errors.Is(err, ErrTaskNotFound) ||
		errors.Is(err, ErrNotAuthorized) ||
		errors.Is(err, ErrStatusNotAllowed) {
		return err
	}

	// Store-level not-found maps to the service-level sentinel
	if errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
