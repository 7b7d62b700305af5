package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/store"
)

// WorkflowNotifier informs the external process engine of task lifecycle
// events. Implementations are strictly best-effort: no method returns an
// error, and a failed notification must never affect the local mutation
// it follows.
type WorkflowNotifier interface {
	// TaskCreated starts a workflow instance for a new task. On success it
	// returns the process instance ID and true so the correlation can be
	// persisted; on failure it returns false.
	TaskCreated(ctx context.Context, task *domain.Task, byUsername string) (int64, bool)

	// TaskStatusChanged signals the linked workflow instance that the task
	// moved to a new status. No-op when no instance is linked.
	TaskStatusChanged(ctx context.Context, task *domain.Task)

	// TaskReleased signals the linked workflow instance to complete.
	// No-op when no instance is linked.
	TaskReleased(ctx context.Context, task *domain.Task)

	// TaskDeleting aborts the linked workflow instance ahead of a delete.
	// No-op when no instance is linked.
	TaskDeleting(ctx context.Context, task *domain.Task)
}

// TaskService provides task-related operations, gated by the role-based
// status policy. Local data-integrity failures (validation, policy,
// not-found, authorization) reject the operation before any side effect;
// notifier failures are strictly downstream of the committed local
// mutation and never surface to callers.
type TaskService interface {
	// Create creates a new task assigned to the given user. Admin only.
	// The task always starts in StatusToDo regardless of caller input.
	Create(ctx context.Context, actor *domain.User, title, description string, assigneeID uuid.UUID) (*domain.Task, error)

	// Get retrieves one task. Admins see every task; regular users only
	// their own (others surface as ErrTaskNotFound).
	Get(ctx context.Context, actor *domain.User, taskID uuid.UUID) (*domain.Task, error)

	// List retrieves the tasks visible to the actor, newest first:
	// all tasks for admins, owned tasks for regular users.
	List(ctx context.Context, actor *domain.User) ([]*domain.Task, error)

	// Update applies a partial edit to title, description, or owner.
	// Admin only. Status is never touched and no notification is sent.
	Update(ctx context.Context, actor *domain.User, taskID uuid.UUID, update store.TaskUpdate) (*domain.Task, error)

	// UpdateStatus moves a task to a new status if the actor is the owner
	// or an admin and the role policy allows the target status.
	UpdateStatus(ctx context.Context, actor *domain.User, taskID uuid.UUID, status domain.Status) (*domain.Task, error)

	// Delete removes a task permanently, aborting any linked workflow
	// instance first (best-effort). Admin only.
	Delete(ctx context.Context, actor *domain.User, taskID uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	taskStore store.TaskStore
	notifier  WorkflowNotifier
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	taskStore store.TaskStore,
	notifier WorkflowNotifier,
	logger *slog.Logger,
) (TaskService, error) {
	if taskStore == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "taskStore cannot be nil",
		}
	}
	if notifier == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "notifier cannot be nil",
		}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		taskStore: taskStore,
		notifier:  notifier,
		logger:    logger.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.Create.
func (s *taskServiceImpl) Create(
	ctx context.Context,
	actor *domain.User,
	title, description string,
	assigneeID uuid.UUID,
) (*domain.Task, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("non-admin attempted task creation",
			slog.String("actor_id", actor.ID.String()))
		return nil, ErrNotAuthorized
	}

	// NewTask enforces the required fields and forces StatusToDo.
	task, err := domain.NewTask(assigneeID, title, description)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, NewTaskServiceError("create_task", "failed to persist task", err)
	}

	// The local task is committed; everything below is best-effort.
	if instanceID, ok := s.notifier.TaskCreated(ctx, task, actor.Username); ok {
		if err := s.taskStore.SetProcessInstanceID(ctx, task.ID, instanceID); err != nil {
			// The task exists with no external linkage, a silently
			// degraded state the integration contract accepts.
			s.logger.Warn("failed to record process instance for task",
				slog.String("task_id", task.ID.String()),
				slog.Int64("process_instance_id", instanceID),
				slog.String("error", err.Error()))
		} else {
			task.ProcessInstanceID = &instanceID
		}
	}

	s.logger.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()),
		slog.String("created_by", actor.Username))
	return task, nil
}

// Get implements TaskService.Get.
func (s *taskServiceImpl) Get(
	ctx context.Context,
	actor *domain.User,
	taskID uuid.UUID,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, NewTaskServiceError("get_task", "failed to load task", err)
	}

	// Regular users must not learn about other users' tasks.
	if !actor.IsAdmin() && task.OwnerID != actor.ID {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// List implements TaskService.List.
func (s *taskServiceImpl) List(ctx context.Context, actor *domain.User) ([]*domain.Task, error) {
	var tasks []*domain.Task
	var err error

	if actor.IsAdmin() {
		tasks, err = s.taskStore.List(ctx)
	} else {
		tasks, err = s.taskStore.ListByOwner(ctx, actor.ID)
	}
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}

	return tasks, nil
}

// Update implements TaskService.Update.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	actor *domain.User,
	taskID uuid.UUID,
	update store.TaskUpdate,
) (*domain.Task, error) {
	if !actor.IsAdmin() {
		s.logger.Warn("non-admin attempted task edit",
			slog.String("actor_id", actor.ID.String()),
			slog.String("task_id", taskID.String()))
		return nil, ErrNotAuthorized
	}

	task, err := s.taskStore.Update(ctx, taskID, update)
	if err != nil {
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}

	s.logger.Info("task edited",
		slog.String("task_id", task.ID.String()),
		slog.String("edited_by", actor.Username))
	return task, nil
}

// UpdateStatus implements TaskService.UpdateStatus. This is the transition
// operation of the task state machine: policy check first, then the store
// write, then the engine notifications. A rejected transition mutates
// nothing and notifies nobody.
func (s *taskServiceImpl) UpdateStatus(
	ctx context.Context,
	actor *domain.User,
	taskID uuid.UUID,
	status domain.Status,
) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return nil, NewTaskServiceError("update_status", "failed to load task", err)
	}

	// Only the owner or an admin may touch the task at all.
	if !actor.IsAdmin() && task.OwnerID != actor.ID {
		return nil, ErrTaskNotFound
	}

	if !domain.CanTransitionTo(actor.Role, status) {
		s.logger.Warn("status transition rejected by policy",
			slog.String("actor_id", actor.ID.String()),
			slog.String("role", string(actor.Role)),
			slog.String("task_id", taskID.String()),
			slog.String("requested_status", string(status)))
		return nil, ErrStatusNotAllowed
	}

	if err := s.taskStore.UpdateStatus(ctx, taskID, status); err != nil {
		return nil, NewTaskServiceError("update_status", "failed to persist status", err)
	}
	task.Status = status

	// Local state is committed; the engine is only an observer from here.
	s.notifier.TaskStatusChanged(ctx, task)
	if status == domain.StatusReleased {
		s.notifier.TaskReleased(ctx, task)
	}

	s.logger.Info("task status updated",
		slog.String("task_id", task.ID.String()),
		slog.String("status", string(status)),
		slog.String("updated_by", actor.Username))
	return task, nil
}

// Delete implements TaskService.Delete.
func (s *taskServiceImpl) Delete(
	ctx context.Context,
	actor *domain.User,
	taskID uuid.UUID,
) error {
	if !actor.IsAdmin() {
		s.logger.Warn("non-admin attempted task delete",
			slog.String("actor_id", actor.ID.String()),
			slog.String("task_id", taskID.String()))
		return ErrNotAuthorized
	}

	task, err := s.taskStore.GetByID(ctx, taskID)
	if err != nil {
		return NewTaskServiceError("delete_task", "failed to load task", err)
	}

	// A failed abort never blocks the local delete.
	s.notifier.TaskDeleting(ctx, task)

	if err := s.taskStore.Delete(ctx, taskID); err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}

	s.logger.Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("deleted_by", actor.Username))
	return nil
}
