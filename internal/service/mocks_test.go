package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/store"
)

// mockTaskStore is an in-memory store.TaskStore with per-method error
// injection for failure-path tests.
type mockTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	createErr         error
	getErr            error
	updateErr         error
	updateStatusErr   error
	setInstanceErr    error
	deleteErr         error
	listErr           error
	updateStatusCalls int
}

func newMockTaskStore() *mockTaskStore {
	return &mockTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

var _ store.TaskStore = (*mockTaskStore)(nil)

func (m *mockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *task
	m.tasks[task.ID] = &copied
	return nil
}

func (m *mockTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (m *mockTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	tasks := make([]*domain.Task, 0, len(m.tasks))
	for _, task := range m.tasks {
		copied := *task
		tasks = append(tasks, &copied)
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (m *mockTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	all, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	owned := make([]*domain.Task, 0, len(all))
	for _, task := range all {
		if task.OwnerID == ownerID {
			owned = append(owned, task)
		}
	}
	return owned, nil
}

func (m *mockTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update store.TaskUpdate,
) (*domain.Task, error) {
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	if update.Title != nil && *update.Title != "" {
		task.Title = *update.Title
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.OwnerID != nil {
		task.OwnerID = *update.OwnerID
	}
	copied := *task
	return &copied, nil
}

func (m *mockTaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	m.mu.Lock()
	m.updateStatusCalls++
	m.mu.Unlock()
	if m.updateStatusErr != nil {
		return m.updateStatusErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	task.Status = status
	return nil
}

func (m *mockTaskStore) SetProcessInstanceID(ctx context.Context, id uuid.UUID, instanceID int64) error {
	if m.setInstanceErr != nil {
		return m.setInstanceErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	task, ok := m.tasks[id]
	if !ok {
		return store.ErrTaskNotFound
	}
	task.ProcessInstanceID = &instanceID
	return nil
}

func (m *mockTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

// notifierEvent records a single notifier invocation.
type notifierEvent struct {
	kind   string // "created", "status_changed", "completed", "deleting"
	taskID uuid.UUID
}

// recordingNotifier is a WorkflowNotifier that records every event.
// startInstanceID/startOK control what TaskCreated reports back,
// simulating both a healthy engine and one that is down.
type recordingNotifier struct {
	mu              sync.Mutex
	events          []notifierEvent
	startInstanceID int64
	startOK         bool
}

var _ WorkflowNotifier = (*recordingNotifier)(nil)

func (r *recordingNotifier) record(kind string, taskID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, notifierEvent{kind: kind, taskID: taskID})
}

func (r *recordingNotifier) TaskCreated(ctx context.Context, task *domain.Task, byUsername string) (int64, bool) {
	r.record("created", task.ID)
	return r.startInstanceID, r.startOK
}

func (r *recordingNotifier) TaskStatusChanged(ctx context.Context, task *domain.Task) {
	r.record("status_changed", task.ID)
}

func (r *recordingNotifier) TaskReleased(ctx context.Context, task *domain.Task) {
	r.record("completed", task.ID)
}

func (r *recordingNotifier) TaskDeleting(ctx context.Context, task *domain.Task) {
	r.record("deleting", task.ID)
}

func (r *recordingNotifier) eventKinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, len(r.events))
	for i, e := range r.events {
		kinds[i] = e.kind
	}
	return kinds
}

// mockUserStore is an in-memory store.UserStore.
type mockUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User

	createErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

var _ store.UserStore = (*mockUserStore)(nil)

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Username == user.Username {
			return store.ErrUsernameExists
		}
	}
	user.HashedPassword = "hashed:" + user.Password
	user.Password = ""
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (m *mockUserStore) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Username == username {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) List(ctx context.Context) ([]*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := make([]*domain.User, 0, len(m.users))
	for _, user := range m.users {
		copied := *user
		users = append(users, &copied)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].Username < users[j].Username
	})
	return users, nil
}

// test fixtures

func adminUser() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Username:       "admin",
		HashedPassword: "hashed",
		Role:           domain.RoleAdmin,
	}
}

func regularUser() *domain.User {
	return &domain.User{
		ID:             uuid.New(),
		Username:       "user42",
		HashedPassword: "hashed",
		Role:           domain.RoleUser,
	}
}
