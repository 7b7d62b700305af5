package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Status represents the workflow state of a task.
type Status string

// Possible task status values.
const (
	StatusToDo       Status = "todo"
	StatusReview     Status = "review"
	StatusDone       Status = "done"
	StatusReleased   Status = "released"
	StatusIncomplete Status = "incomplete"
)

// AllStatuses lists every valid task status.
// Order matters: this is the order shown in status pickers.
var AllStatuses = []Status{
	StatusToDo,
	StatusReview,
	StatusDone,
	StatusReleased,
	StatusIncomplete,
}

// Common validation errors for Task.
var (
	ErrEmptyTaskID      = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle   = errors.New("task title cannot be empty")
	ErrEmptyTaskOwnerID = errors.New("task owner ID cannot be empty")
	ErrInvalidStatus    = errors.New("invalid task status")
)

// Task represents a tracked unit of work. A task always has exactly one
// owner; reassignment replaces the owner, never clears it.
// ProcessInstanceID correlates the task with a workflow instance in the
// external process engine; it is nil until a started process reports back.
type Task struct {
	ID                uuid.UUID `json:"id"`
	Title             string    `json:"title"`
	Description       string    `json:"description"`
	Status            Status    `json:"status"`
	OwnerID           uuid.UUID `json:"user_id"`
	ProcessInstanceID *int64    `json:"process_instance_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// NewTask creates a new Task owned by the given user. It generates a new
// UUID for the task ID and always starts the task in StatusToDo regardless
// of any status the caller may have wanted; status changes go through the
// transition operation only.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title, description string) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      StatusToDo,
		OwnerID:     ownerID,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwnerID
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	return nil
}

// HasProcessInstance reports whether the task is linked to a workflow
// instance in the external process engine.
func (t *Task) HasProcessInstance() bool {
	return t.ProcessInstanceID != nil
}

// IsValid checks if the status is one of the fixed status set.
func (s Status) IsValid() bool {
	switch s {
	case StatusToDo, StatusReview, StatusDone, StatusReleased, StatusIncomplete:
		return true
	default:
		return false
	}
}

// ParseStatus converts a raw string into a Status.
// Returns ErrInvalidStatus if the value is not in the fixed status set.
func ParseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
