package kie

import (
	"context"

	"github.com/dsoria/taskflow-api/internal/domain"
)

// NoopNotifier satisfies the workflow notifier contract without talking to
// any engine. Used when the integration is disabled in configuration.
type NoopNotifier struct{}

// NewNoopNotifier creates a NoopNotifier.
func NewNoopNotifier() *NoopNotifier {
	return &NoopNotifier{}
}

// TaskCreated reports that no process instance was started.
func (n *NoopNotifier) TaskCreated(ctx context.Context, task *domain.Task, byUsername string) (int64, bool) {
	return 0, false
}

// TaskStatusChanged does nothing.
func (n *NoopNotifier) TaskStatusChanged(ctx context.Context, task *domain.Task) {}

// TaskReleased does nothing.
func (n *NoopNotifier) TaskReleased(ctx context.Context, task *domain.Task) {}

// TaskDeleting does nothing.
func (n *NoopNotifier) TaskDeleting(ctx context.Context, task *domain.Task) {}
