package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dsoria/taskflow-api/internal/config"
	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/platform/kie"
	"github.com/dsoria/taskflow-api/internal/store"
)

func newTestTaskService(t *testing.T, taskStore store.TaskStore, notifier WorkflowNotifier) TaskService {
	t.Helper()
	svc, err := NewTaskService(taskStore, notifier, slog.Default())
	require.NoError(t, err)
	return svc
}

func seedTask(t *testing.T, taskStore *mockTaskStore, ownerID uuid.UUID, status domain.Status) *domain.Task {
	t.Helper()
	task, err := domain.NewTask(ownerID, "seeded task", "seeded for test")
	require.NoError(t, err)
	task.Status = status
	require.NoError(t, taskStore.Create(context.Background(), task))
	return task
}

func TestNewTaskService(t *testing.T) {
	t.Parallel()

	taskStore := newMockTaskStore()
	notifier := &recordingNotifier{}

	testCases := []struct {
		name      string
		taskStore store.TaskStore
		notifier  WorkflowNotifier
		wantErr   string
	}{
		{
			name:      "valid dependencies",
			taskStore: taskStore,
			notifier:  notifier,
		},
		{
			name:     "nil task store",
			notifier: notifier,
			wantErr:  "taskStore cannot be nil",
		},
		{
			name:      "nil notifier",
			taskStore: taskStore,
			wantErr:   "notifier cannot be nil",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			svc, err := NewTaskService(tc.taskStore, tc.notifier, slog.Default())
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, svc)
		})
	}
}

func TestTaskServiceCreate(t *testing.T) {
	t.Parallel()

	admin := adminUser()
	user := regularUser()

	t.Run("new task always starts in todo and links the workflow instance", func(t *testing.T) {
		t.Parallel()

		taskStore := newMockTaskStore()
		notifier := &recordingNotifier{startInstanceID: 4711, startOK: true}
		svc := newTestTaskService(t, taskStore, notifier)

		task, err := svc.Create(context.Background(), admin, "ship release notes", "for 2.4", user.ID)
		require.NoError(t, err)

		assert.Equal(t, domain.StatusToDo, task.Status)
		assert.Equal(t, user.ID, task.OwnerID)
		require.NotNil(t, task.ProcessInstanceID)
		assert.Equal(t, int64(4711), *task.ProcessInstanceID)
		assert.Equal(t, []string{"created"}, notifier.eventKinds())

		stored, err := taskStore.GetByID(context.Background(), task.ID)
		require.NoError(t, err)
		require.NotNil(t, stored.ProcessInstanceID)
		assert.Equal(t, int64(4711), *stored.ProcessInstanceID)
	})

	t.Run("engine failure leaves the task unlinked but created", func(t *testing.T) {
		t.Parallel()

		taskStore := newMockTaskStore()
		notifier := &recordingNotifier{startOK: false}
		svc := newTestTaskService(t, taskStore, notifier)

		task, err := svc.Create(context.Background(), admin, "triage bug", "", user.ID)
		require.NoError(t, err)
		assert.Nil(t, task.ProcessInstanceID)

		stored, err := taskStore.GetByID(context.Background(), task.ID)
		require.NoError(t, err)
		assert.Nil(t, stored.ProcessInstanceID)
	})

	t.Run("instance persistence failure is swallowed", func(t *testing.T) {
		t.Parallel()

		taskStore := newMockTaskStore()
		taskStore.setInstanceErr = errors.New("connection reset")
		notifier := &recordingNotifier{startInstanceID: 99, startOK: true}
		svc := newTestTaskService(t, taskStore, notifier)

		task, err := svc.Create(context.Background(), admin, "rotate credentials", "", user.ID)
		require.NoError(t, err)
		assert.Nil(t, task.ProcessInstanceID)
	})

	t.Run("non-admin cannot create tasks", func(t *testing.T) {
		t.Parallel()

		taskStore := newMockTaskStore()
		notifier := &recordingNotifier{}
		svc := newTestTaskService(t, taskStore, notifier)

		task, err := svc.Create(context.Background(), user, "sneaky task", "", user.ID)
		assert.ErrorIs(t, err, ErrNotAuthorized)
		assert.Nil(t, task)
		assert.Empty(t, notifier.eventKinds())
	})

	t.Run("empty title is rejected before any side effect", func(t *testing.T) {
		t.Parallel()

		taskStore := newMockTaskStore()
		notifier := &recordingNotifier{startOK: true}
		svc := newTestTaskService(t, taskStore, notifier)

		_, err := svc.Create(context.Background(), admin, "", "no title", user.ID)
		assert.ErrorIs(t, err, domain.ErrEmptyTaskTitle)
		assert.Empty(t, notifier.eventKinds())

		tasks, err := taskStore.List(context.Background())
		require.NoError(t, err)
		assert.Empty(t, tasks)
	})
}

func TestTaskServiceVisibility(t *testing.T) {
	t.Parallel()

	admin := adminUser()
	owner := regularUser()
	other := &domain.User{ID: uuid.New(), Username: "other", HashedPassword: "hashed", Role: domain.RoleUser}

	taskStore := newMockTaskStore()
	ownedTask := seedTask(t, taskStore, owner.ID, domain.StatusToDo)
	otherTask := seedTask(t, taskStore, other.ID, domain.StatusReview)
	svc := newTestTaskService(t, taskStore, &recordingNotifier{})

	t.Run("admin sees every task", func(t *testing.T) {
		t.Parallel()

		tasks, err := svc.List(context.Background(), admin)
		require.NoError(t, err)
		assert.Len(t, tasks, 2)

		got, err := svc.Get(context.Background(), admin, otherTask.ID)
		require.NoError(t, err)
		assert.Equal(t, otherTask.ID, got.ID)
	})

	t.Run("regular user only sees owned tasks", func(t *testing.T) {
		t.Parallel()

		tasks, err := svc.List(context.Background(), owner)
		require.NoError(t, err)
		require.Len(t, tasks, 1)
		assert.Equal(t, ownedTask.ID, tasks[0].ID)
	})

	t.Run("foreign task reads as not found", func(t *testing.T) {
		t.Parallel()

		got, err := svc.Get(context.Background(), owner, otherTask.ID)
		assert.ErrorIs(t, err, ErrTaskNotFound)
		assert.Nil(t, got)
	})

	t.Run("unknown id maps to the service not-found sentinel", func(t *testing.T) {
		t.Parallel()

		_, err := svc.Get(context.Background(), admin, uuid.New())
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

func TestTaskServiceUpdate(t *testing.T) {
	t.Parallel()

	admin := adminUser()
	user := regularUser()

	t.Run("admin edits fields without touching status or the engine", func(t *testing.T) {
		t.Parallel()

		taskStore := newMockTaskStore()
		task := seedTask(t, taskStore, user.ID, domain.StatusReview)
		notifier := &recordingNotifier{}
		svc := newTestTaskService(t, taskStore, notifier)

		newTitle := "retitled"
		updated, err := svc.Update(context.Background(), admin, task.ID, store.TaskUpdate{Title: &newTitle})
		require.NoError(t, err)
		assert.Equal(t, "retitled", updated.Title)
		assert.Equal(t, domain.StatusReview, updated.Status)
		assert.Empty(t, notifier.eventKinds())
	})

	t.Run("non-admin cannot edit", func(t *testing.T) {
		t.Parallel()

		taskStore := newMockTaskStore()
		task := seedTask(t, taskStore, user.ID, domain.StatusToDo)
		svc := newTestTaskService(t, taskStore, &recordingNotifier{})

		newTitle := "mine now"
		_, err := svc.Update(context.Background(), user, task.ID, store.TaskUpdate{Title: &newTitle})
		assert.ErrorIs(t, err, ErrNotAuthorized)
	})
}

func TestTaskServiceUpdateStatus(t *testing.T) {
	t.Parallel()

	admin := adminUser()
	owner := regularUser()

	testCases := []struct {
		name       string
		actorRole  domain.Role
		target     domain.Status
		wantErr    error
		wantEvents []string
	}{
		{
			name:       "owner moves task to review",
			actorRole:  domain.RoleUser,
			target:     domain.StatusReview,
			wantEvents: []string{"status_changed"},
		},
		{
			name:       "owner moves task to done",
			actorRole:  domain.RoleUser,
			target:     domain.StatusDone,
			wantEvents: []string{"status_changed"},
		},
		{
			name:      "owner cannot release",
			actorRole: domain.RoleUser,
			target:    domain.StatusReleased,
			wantErr:   ErrStatusNotAllowed,
		},
		{
			name:      "owner cannot mark incomplete",
			actorRole: domain.RoleUser,
			target:    domain.StatusIncomplete,
			wantErr:   ErrStatusNotAllowed,
		},
		{
			name:       "admin releases with a completion signal",
			actorRole:  domain.RoleAdmin,
			target:     domain.StatusReleased,
			wantEvents: []string{"status_changed", "completed"},
		},
		{
			name:       "admin marks incomplete",
			actorRole:  domain.RoleAdmin,
			target:     domain.StatusIncomplete,
			wantEvents: []string{"status_changed"},
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			taskStore := newMockTaskStore()
			task := seedTask(t, taskStore, owner.ID, domain.StatusDone)
			notifier := &recordingNotifier{}
			svc := newTestTaskService(t, taskStore, notifier)

			actor := owner
			if tc.actorRole == domain.RoleAdmin {
				actor = admin
			}

			updated, err := svc.UpdateStatus(context.Background(), actor, task.ID, tc.target)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, updated)
				// A rejected transition never reaches the store or the engine.
				assert.Zero(t, taskStore.updateStatusCalls)
				assert.Empty(t, notifier.eventKinds())

				stored, getErr := taskStore.GetByID(context.Background(), task.ID)
				require.NoError(t, getErr)
				assert.Equal(t, domain.StatusDone, stored.Status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.target, updated.Status)
			assert.Equal(t, tc.wantEvents, notifier.eventKinds())

			stored, getErr := taskStore.GetByID(context.Background(), task.ID)
			require.NoError(t, getErr)
			assert.Equal(t, tc.target, stored.Status)
		})
	}

	t.Run("non-owner cannot move a foreign task", func(t *testing.T) {
		t.Parallel()

		taskStore := newMockTaskStore()
		task := seedTask(t, taskStore, uuid.New(), domain.StatusToDo)
		notifier := &recordingNotifier{}
		svc := newTestTaskService(t, taskStore, notifier)

		_, err := svc.UpdateStatus(context.Background(), owner, task.ID, domain.StatusReview)
		assert.ErrorIs(t, err, ErrTaskNotFound)
		assert.Empty(t, notifier.eventKinds())
	})

	t.Run("store failure surfaces and skips notifications", func(t *testing.T) {
		t.Parallel()

		taskStore := newMockTaskStore()
		task := seedTask(t, taskStore, owner.ID, domain.StatusToDo)
		taskStore.updateStatusErr = errors.New("connection reset")
		notifier := &recordingNotifier{}
		svc := newTestTaskService(t, taskStore, notifier)

		_, err := svc.UpdateStatus(context.Background(), owner, task.ID, domain.StatusReview)
		require.Error(t, err)
		assert.Empty(t, notifier.eventKinds())
	})
}

func TestTaskServiceDelete(t *testing.T) {
	t.Parallel()

	admin := adminUser()
	user := regularUser()

	t.Run("admin delete aborts the workflow first", func(t *testing.T) {
		t.Parallel()

		taskStore := newMockTaskStore()
		task := seedTask(t, taskStore, user.ID, domain.StatusDone)
		notifier := &recordingNotifier{}
		svc := newTestTaskService(t, taskStore, notifier)

		require.NoError(t, svc.Delete(context.Background(), admin, task.ID))
		assert.Equal(t, []string{"deleting"}, notifier.eventKinds())

		_, err := taskStore.GetByID(context.Background(), task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("non-admin cannot delete", func(t *testing.T) {
		t.Parallel()

		taskStore := newMockTaskStore()
		task := seedTask(t, taskStore, user.ID, domain.StatusDone)
		notifier := &recordingNotifier{}
		svc := newTestTaskService(t, taskStore, notifier)

		err := svc.Delete(context.Background(), user, task.ID)
		assert.ErrorIs(t, err, ErrNotAuthorized)
		assert.Empty(t, notifier.eventKinds())

		_, getErr := taskStore.GetByID(context.Background(), task.ID)
		assert.NoError(t, getErr)
	})

	t.Run("unknown task maps to not found", func(t *testing.T) {
		t.Parallel()

		svc := newTestTaskService(t, newMockTaskStore(), &recordingNotifier{})
		err := svc.Delete(context.Background(), admin, uuid.New())
		assert.ErrorIs(t, err, ErrTaskNotFound)
	})
}

// TestTaskServiceUnreachableEngine pairs the service with the real HTTP
// notifier pointed at a dead endpoint: every local mutation must still
// succeed and no engine error may surface.
func TestTaskServiceUnreachableEngine(t *testing.T) {
	t.Parallel()

	client := kie.NewClient(config.KIEConfig{
		ServerURL:      "http://127.0.0.1:1/kie-server/services/rest/server",
		Username:       "wbadmin",
		Password:       "wbadmin",
		ContainerID:    "tasks-kjar_1.0.0-SNAPSHOT",
		ProcessID:      "tasks-kjar.task-process",
		TimeoutSeconds: 1,
	}, slog.Default())
	notifier := kie.NewNotifier(client, slog.Default())

	taskStore := newMockTaskStore()
	svc := newTestTaskService(t, taskStore, notifier)

	admin := adminUser()
	user := regularUser()

	task, err := svc.Create(context.Background(), admin, "survive outage", "", user.ID)
	require.NoError(t, err)
	assert.Nil(t, task.ProcessInstanceID)

	// Link an instance by hand so the signal and abort paths actually
	// hit the dead engine instead of short-circuiting.
	require.NoError(t, taskStore.SetProcessInstanceID(context.Background(), task.ID, 1234))

	updated, err := svc.UpdateStatus(context.Background(), admin, task.ID, domain.StatusReleased)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReleased, updated.Status)

	require.NoError(t, svc.Delete(context.Background(), admin, task.ID))
	_, err = taskStore.GetByID(context.Background(), task.ID)
	assert.ErrorIs(t, err, store.ErrTaskNotFound)
}

// TestTaskServiceLifecycle walks a task through its full life: creation
// with a linked workflow instance, a forbidden release attempt by the
// owner, the admin release with its completion signal, and final deletion.
func TestTaskServiceLifecycle(t *testing.T) {
	t.Parallel()

	admin := adminUser()
	owner := regularUser()

	taskStore := newMockTaskStore()
	notifier := &recordingNotifier{startInstanceID: 9001, startOK: true}
	svc := newTestTaskService(t, taskStore, notifier)

	task, err := svc.Create(context.Background(), admin, "ship the release", "cut and tag", owner.ID)
	require.NoError(t, err)
	require.NotNil(t, task.ProcessInstanceID)
	assert.Equal(t, int64(9001), *task.ProcessInstanceID)
	assert.Equal(t, domain.StatusToDo, task.Status)

	// The owner may move the task through the working statuses but not
	// release it.
	_, err = svc.UpdateStatus(context.Background(), owner, task.ID, domain.StatusDone)
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), owner, task.ID, domain.StatusReleased)
	assert.ErrorIs(t, err, ErrStatusNotAllowed)

	current, err := svc.Get(context.Background(), owner, task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, current.Status)

	released, err := svc.UpdateStatus(context.Background(), admin, task.ID, domain.StatusReleased)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReleased, released.Status)

	require.NoError(t, svc.Delete(context.Background(), admin, task.ID))

	_, err = svc.Get(context.Background(), admin, task.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)

	assert.Equal(t,
		[]string{"created", "status_changed", "status_changed", "completed", "deleting"},
		notifier.eventKinds())
}
