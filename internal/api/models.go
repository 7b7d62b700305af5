package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/dsoria/taskflow-api/internal/domain"
)

// Common request/response structures

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required,min=1"`
}

// RegisterRequest defines the payload for the admin-only user creation endpoint.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role"     validate:"required,oneof=admin user"`
}

// CreateTaskRequest defines the payload for task creation.
// Status is deliberately absent: new tasks always start in todo.
type CreateTaskRequest struct {
	Title       string    `json:"title"       validate:"required,max=255"`
	Description string    `json:"description" validate:"max=4000"`
	UserID      uuid.UUID `json:"user_id"     validate:"required"`
}

// UpdateTaskRequest defines the payload for partial task edits.
// Nil fields are left unchanged. Status is not editable here; it has its
// own endpoint with its own policy.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"       validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=4000"`
	UserID      *uuid.UUID `json:"user_id,omitempty"`
}

// UpdateStatusRequest defines the payload for status transitions.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// SessionResponse defines the successful response for the login endpoint.
// The token itself travels in the session cookie, not the body.
type SessionResponse struct {
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	ExpiresAt string    `json:"expires_at,omitempty"`
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Status            string    `json:"status"`
	UserID            string    `json:"user_id"`
	ProcessInstanceID *int64    `json:"process_instance_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// UserResponse represents the response data for a user listing entry.
// Password material never appears here.
type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// taskToResponse converts a domain.Task to a TaskResponse.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:                task.ID.String(),
		Title:             task.Title,
		Description:       task.Description,
		Status:            string(task.Status),
		UserID:            task.OwnerID.String(),
		ProcessInstanceID: task.ProcessInstanceID,
		CreatedAt:         task.CreatedAt,
		UpdatedAt:         task.UpdatedAt,
	}
}

// tasksToResponse converts a slice of tasks, keeping order.
func tasksToResponse(tasks []*domain.Task) []TaskResponse {
	out := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = taskToResponse(task)
	}
	return out
}

// userToResponse converts a domain.User to a UserResponse.
func userToResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID.String(),
		Username: user.Username,
		Role:     string(user.Role),
	}
}
