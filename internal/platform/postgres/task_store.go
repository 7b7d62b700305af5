package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/dsoria/taskflow-api/internal/domain"
	"github.com/dsoria/taskflow-api/internal/platform/logger"
	"github.com/dsoria/taskflow-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	// Validate inputs
	if db == nil {
		panic("db cannot be nil")
	}

	// Use provided logger or create default
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
// Returns validation errors from the domain Task if data is invalid.
// Returns store.ErrInvalidEntity if the owner ID doesn't exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, status, owner_id, process_instance_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		nullString(task.Description),
		task.Status,
		task.OwnerID,
		nullInt64(task.ProcessInstanceID),
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()),
				slog.String("owner_id", task.OwnerID.String()))
			return fmt.Errorf("%w: owner with ID %s not found",
				store.ErrInvalidEntity, task.OwnerID)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()),
			slog.String("owner_id", task.OwnerID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()),
		slog.String("status", string(task.Status)))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// It retrieves a task by its unique ID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, title, description, status, owner_id, process_instance_id, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	return task, nil
}

// List implements store.TaskStore.List
// It retrieves all tasks, newest first.
// Returns an empty slice when no tasks exist.
func (s *PostgresTaskStore) List(ctx context.Context) ([]*domain.Task, error) {
	query := `
		SELECT id, title, description, status, owner_id, process_instance_id, created_at, updated_at
		FROM tasks
		ORDER BY created_at DESC
	`
	return s.queryTasks(ctx, query)
}

// ListByOwner implements store.TaskStore.ListByOwner
// It retrieves the tasks owned by a user, newest first.
// Returns an empty slice when the user owns no tasks.
func (s *PostgresTaskStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, error) {
	query := `
		SELECT id, title, description, status, owner_id, process_instance_id, created_at, updated_at
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`
	return s.queryTasks(ctx, query, ownerID)
}

// Update implements store.TaskStore.Update
// It applies a partial update to a task's title, description, or owner.
// Unset fields retain their prior value; status is never touched here.
// Returns store.ErrTaskNotFound if the task does not exist.
// Returns store.ErrInvalidEntity if a new owner does not exist.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	id uuid.UUID,
	update store.TaskUpdate,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// COALESCE keeps the prior value for every unset field, so the partial
	// update stays a single atomic statement.
	query := `
		UPDATE tasks
		SET title = COALESCE($1, title),
		    description = CASE WHEN $2 THEN $3 ELSE description END,
		    owner_id = COALESCE($4, owner_id),
		    updated_at = $5
		WHERE id = $6
		RETURNING id, title, description, status, owner_id, process_instance_id, created_at, updated_at
	`

	var descSet bool
	var desc sql.NullString
	if update.Description != nil {
		descSet = true
		desc = nullString(*update.Description)
	}

	var title *string
	if update.Title != nil && *update.Title != "" {
		title = update.Title
	}

	task, err := scanTask(s.db.QueryRowContext(
		ctx,
		query,
		title,
		descSet,
		desc,
		update.OwnerID,
		time.Now().UTC(),
		id,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task update",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
			return nil, fmt.Errorf("%w: new owner not found", store.ErrInvalidEntity)
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("task updated successfully",
		slog.String("task_id", id.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return task, nil
}

// UpdateStatus implements store.TaskStore.UpdateStatus
// It overwrites a task's status and nothing else.
// Returns store.ErrTaskNotFound if the task does not exist.
// Returns domain.ErrInvalidStatus if the status is not in the fixed set.
func (s *PostgresTaskStore) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.Status) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if !status.IsValid() {
		log.Warn("invalid status rejected during status update",
			slog.String("task_id", id.String()),
			slog.String("status", string(status)))
		return domain.ErrInvalidStatus
	}

	query := `
		UPDATE tasks
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update task status",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()),
			slog.String("status", string(status)))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found for status update", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task status updated successfully",
		slog.String("task_id", id.String()),
		slog.String("status", string(status)))
	return nil
}

// SetProcessInstanceID implements store.TaskStore.SetProcessInstanceID
// It records the external process instance linked to the task.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) SetProcessInstanceID(ctx context.Context, id uuid.UUID, instanceID int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET process_instance_id = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, instanceID, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to set process instance ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()),
			slog.Int64("process_instance_id", instanceID))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found for process instance linkage",
			slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task linked to process instance",
		slog.String("task_id", id.String()),
		slog.Int64("process_instance_id", instanceID))
	return nil
}

// Delete implements store.TaskStore.Delete
// It removes a task from the store by its ID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM tasks WHERE id = $1`

	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found for delete", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}

// queryTasks runs a listing query and scans the result rows into tasks.
func (s *PostgresTaskStore) queryTasks(ctx context.Context, query string, args ...any) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var tasks []*domain.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, err
	}

	// Return empty slice instead of nil if no tasks found
	if tasks == nil {
		tasks = []*domain.Task{}
	}

	return tasks, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask maps one result row onto a domain.Task, converting the nullable
// description and process_instance_id columns.
func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var status string
	var description sql.NullString
	var processInstanceID sql.NullInt64

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&task.OwnerID,
		&processInstanceID,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.Status(status)
	if description.Valid {
		task.Description = description.String
	}
	if processInstanceID.Valid {
		task.ProcessInstanceID = &processInstanceID.Int64
	}

	return &task, nil
}

// nullString maps an empty string onto a SQL NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullInt64 maps a nil pointer onto a SQL NULL.
func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
