package kie

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/platform/logger"
)

// engineRecorder is a fake KIE server that records every request path.
type engineRecorder struct {
	mu     sync.Mutex
	paths  []string
	status int
	body   string
}

func (e *engineRecorder) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		e.mu.Lock()
		e.paths = append(e.paths, r.Method+" "+r.URL.Path)
		e.mu.Unlock()
		w.WriteHeader(e.status)
		_, _ = w.Write([]byte(e.body))
	}
}

func (e *engineRecorder) requests() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.paths...)
}

func linkedTask(instanceID int64) *domain.Task {
	return &domain.Task{
		ID:                uuid.New(),
		Title:             "Draft report",
		Status:            domain.StatusReleased,
		OwnerID:           uuid.New(),
		ProcessInstanceID: &instanceID,
	}
}

func TestNotifierTaskCreated(t *testing.T) {
	t.Parallel()

	recorder := &engineRecorder{status: http.StatusCreated, body: "77"}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	notifier := NewNotifier(newTestClient(server.URL), nil)

	task, err := domain.NewTask(uuid.New(), "Draft report", "")
	require.NoError(t, err)

	instanceID, ok := notifier.TaskCreated(context.Background(), task, "admin")

	assert.True(t, ok)
	assert.Equal(t, int64(77), instanceID)
	require.Len(t, recorder.requests(), 1)
}

func TestNotifierTaskCreatedEngineDown(t *testing.T) {
	t.Parallel()

	ctx, logBuf := logger.NewLogCaptureContext(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // Nothing listening

	notifier := NewNotifier(newTestClient(server.URL), nil)

	task, err := domain.NewTask(uuid.New(), "Draft report", "")
	require.NoError(t, err)

	// The notifier must swallow the failure, not panic or propagate.
	_, ok := notifier.TaskCreated(ctx, task, "admin")

	assert.False(t, ok)
	logger.AssertLogContains(t, logBuf, "failed to start workflow process")
}

func TestNotifierSignalsLinkedInstance(t *testing.T) {
	t.Parallel()

	recorder := &engineRecorder{status: http.StatusOK}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	notifier := NewNotifier(newTestClient(server.URL), nil)
	task := linkedTask(42)

	notifier.TaskStatusChanged(context.Background(), task)
	notifier.TaskReleased(context.Background(), task)

	reqs := recorder.requests()
	require.Len(t, reqs, 2)
	assert.Contains(t, reqs[0], "/processes/instances/42/signal/status_changed")
	assert.Contains(t, reqs[1], "/processes/instances/42/signal/complete")
}

func TestNotifierSkipsUnlinkedTask(t *testing.T) {
	t.Parallel()

	recorder := &engineRecorder{status: http.StatusOK}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	notifier := NewNotifier(newTestClient(server.URL), nil)

	task, err := domain.NewTask(uuid.New(), "Draft report", "")
	require.NoError(t, err)

	// No linked instance: all three must be silent no-ops.
	notifier.TaskStatusChanged(context.Background(), task)
	notifier.TaskReleased(context.Background(), task)
	notifier.TaskDeleting(context.Background(), task)

	assert.Empty(t, recorder.requests(), "unlinked tasks must not reach the engine")
}

func TestNotifierTaskDeleting(t *testing.T) {
	t.Parallel()

	recorder := &engineRecorder{status: http.StatusNoContent}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	notifier := NewNotifier(newTestClient(server.URL), nil)

	notifier.TaskDeleting(context.Background(), linkedTask(42))

	reqs := recorder.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "DELETE /containers/tasks-kjar_1.0.0-SNAPSHOT/processes/instances/42", reqs[0])
}

func TestNotifierSwallowsEngineErrors(t *testing.T) {
	t.Parallel()

	ctx, logBuf := logger.NewLogCaptureContext(t)

	recorder := &engineRecorder{status: http.StatusInternalServerError, body: "boom"}
	server := httptest.NewServer(recorder.handler())
	defer server.Close()

	notifier := NewNotifier(newTestClient(server.URL), nil)
	task := linkedTask(42)

	notifier.TaskStatusChanged(ctx, task)
	notifier.TaskReleased(ctx, task)
	notifier.TaskDeleting(ctx, task)

	// All three calls were attempted and all three failures swallowed.
	assert.Len(t, recorder.requests(), 3)
	logger.AssertLogContains(t, logBuf, "failed to signal workflow process")
	logger.AssertLogContains(t, logBuf, "failed to abort workflow process")
}
