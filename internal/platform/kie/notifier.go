package kie

import (
	"context"
	"log/slog"

	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/platform/logger"
)

// Notifier informs the process engine of task lifecycle events on a
// best-effort basis. No method ever reports failure to the caller: the
// local task store is the source of truth, and a broken or slow engine
// must never block or roll back a local mutation. Failures are logged
// with the event kind and task ID and then discarded.
type Notifier struct {
	client *Client
	logger *slog.Logger
}

// NewNotifier creates a Notifier over the given client.
// If logger is nil, a default logger will be used.
func NewNotifier(client *Client, logger *slog.Logger) *Notifier {
	if client == nil {
		panic("client cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Notifier{
		client: client,
		logger: logger.With(slog.String("component", "workflow_notifier")),
	}
}

// TaskCreated starts a workflow instance for a freshly created task.
// On success it returns the new process instance ID and true so the caller
// can persist the correlation; on any failure it returns false and the
// task simply stays unlinked.
func (n *Notifier) TaskCreated(ctx context.Context, task *domain.Task, byUsername string) (int64, bool) {
	log := logger.FromContextOrDefault(ctx, n.logger)

	vars := ProcessVariables{
		"taskId":      task.ID.String(),
		"title":       task.Title,
		"description": task.Description,
		"status":      string(task.Status),
		"userId":      task.OwnerID.String(),
		"byUser":      byUsername,
	}

	instanceID, err := n.client.StartProcess(ctx, vars)
	if err != nil {
		log.Warn("failed to start workflow process for task",
			slog.String("event", "created"),
			slog.String("task_id", task.ID.String()),
			slog.String("error", err.Error()))
		return 0, false
	}

	log.Info("workflow process started for task",
		slog.String("event", "created"),
		slog.String("task_id", task.ID.String()),
		slog.Int64("process_instance_id", instanceID))
	return instanceID, true
}

// TaskStatusChanged signals the linked workflow instance that the task
// moved to a new status. A task with no linked instance is a silent no-op.
func (n *Notifier) TaskStatusChanged(ctx context.Context, task *domain.Task) {
	n.signal(ctx, task, "status_changed", SignalStatusChanged)
}

// TaskReleased signals the linked workflow instance to complete normally.
// Called in addition to TaskStatusChanged when a task lands on the
// released status. A task with no linked instance is a silent no-op.
func (n *Notifier) TaskReleased(ctx context.Context, task *domain.Task) {
	n.signal(ctx, task, "completed", SignalComplete)
}

// TaskDeleting aborts the linked workflow instance ahead of a task delete.
// A failed abort never blocks the delete; a task with no linked instance
// is a silent no-op.
func (n *Notifier) TaskDeleting(ctx context.Context, task *domain.Task) {
	log := logger.FromContextOrDefault(ctx, n.logger)

	if !task.HasProcessInstance() {
		log.Debug("task has no linked process instance, nothing to abort",
			slog.String("task_id", task.ID.String()))
		return
	}

	if err := n.client.AbortProcess(ctx, *task.ProcessInstanceID); err != nil {
		log.Warn("failed to abort workflow process for task",
			slog.String("event", "deleting"),
			slog.String("task_id", task.ID.String()),
			slog.Int64("process_instance_id", *task.ProcessInstanceID),
			slog.String("error", err.Error()))
		return
	}

	log.Info("workflow process aborted for task",
		slog.String("event", "deleting"),
		slog.String("task_id", task.ID.String()),
		slog.Int64("process_instance_id", *task.ProcessInstanceID))
}

// signal sends one named signal to the task's linked instance, logging and
// swallowing every failure.
func (n *Notifier) signal(ctx context.Context, task *domain.Task, event, signalName string) {
	log := logger.FromContextOrDefault(ctx, n.logger)

	if !task.HasProcessInstance() {
		log.Debug("task has no linked process instance, skipping signal",
			slog.String("event", event),
			slog.String("task_id", task.ID.String()))
		return
	}

	if err := n.client.SignalProcess(ctx, *task.ProcessInstanceID, signalName); err != nil {
		log.Warn("failed to signal workflow process for task",
			slog.String("event", event),
			slog.String("signal", signalName),
			slog.String("task_id", task.ID.String()),
			slog.Int64("process_instance_id", *task.ProcessInstanceID),
			slog.String("error", err.Error()))
		return
	}

	log.Info("workflow process signaled for task",
		slog.String("event", event),
		slog.String("signal", signalName),
		slog.String("task_id", task.ID.String()),
		slog.Int64("process_instance_id", *task.ProcessInstanceID))
}
