package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hivetech/kanban-api/internal/domain"
	"github.com/hivetech/kanban-api/internal/platform/logger"
	"github.com/hivetech/kanban-api/internal/store"
)

// TaskStore implements the store.TaskStore interface using a PostgreSQL
// database as the storage backend. Every write is a single-row atomic
// statement; there is no multi-step crash window.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore creates a new PostgreSQL implementation of the TaskStore
// interface. The database connection is initialized and managed by the caller.
func NewTaskStore(db *sql.DB) *TaskStore {
	return &TaskStore{db: db}
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Create implements store.TaskStore.Create
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO tasks (id, title, description, status, priority, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Version,
		task.CreatedAt,
		task.UpdatedAt,
	)
	if err != nil {
		log.Error("failed to create task", "error", err, "task_id", task.ID)
		return fmt.Errorf("failed to create task: %w", MapError(err))
	}

	return nil
}

// GetByID implements store.TaskStore.GetByID
func (s *TaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	query := `
		SELECT id, title, description, status, priority, version, created_at, updated_at
		FROM tasks
		WHERE id = $1
	`

	var task domain.Task
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContext(ctx).Error("failed to get task", "error", err, "task_id", id)
		return nil, fmt.Errorf("failed to get task: %w", MapError(err))
	}

	return &task, nil
}

// Update implements store.TaskStore.Update with a conditional write on
// the expected version. The version comparison and increment happen in a
// single UPDATE statement, so concurrent writers on the same row cannot
// both succeed against the same observed version.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task, expectedVersion int64) error {
	log := logger.FromContext(ctx)

	if err := task.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, priority = $4,
		    version = version + 1, updated_at = $5
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	now := time.Now().UTC()
	var newVersion int64
	err := s.db.QueryRowContext(ctx, query,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		now,
		task.ID,
		expectedVersion,
	).Scan(&newVersion)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Either the task is gone or another writer advanced the
			// version first; distinguish with a second read.
			exists, checkErr := s.exists(ctx, task.ID)
			if checkErr != nil {
				return checkErr
			}
			if !exists {
				return store.ErrTaskNotFound
			}
			return store.ErrVersionConflict
		}
		log.Error("failed to update task", "error", err, "task_id", task.ID)
		return fmt.Errorf("failed to update task: %w", MapError(err))
	}

	task.Version = newVersion
	task.UpdatedAt = now
	return nil
}

// Delete implements store.TaskStore.Delete. Deleting an absent task is a
// no-op, making deletion idempotent.
func (s *TaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete task", "error", err, "task_id", id)
		return fmt.Errorf("failed to delete task: %w", MapError(err))
	}
	return nil
}

// List implements store.TaskStore.List, ordered by creation time.
func (s *TaskStore) List(ctx context.Context, filter store.TaskFilter, page store.Page) (*store.TaskPage, error) {
	log := logger.FromContext(ctx)

	if page.Size <= 0 {
		page.Size = 20
	}
	if page.Number < 0 {
		page.Number = 0
	}

	where := ""
	args := []any{}
	if filter.Status != nil {
		where = "WHERE status = $1"
		args = append(args, *filter.Status)
	}

	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM tasks %s`, where)
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Error("failed to count tasks", "error", err)
		return nil, fmt.Errorf("failed to count tasks: %w", MapError(err))
	}

	query := fmt.Sprintf(`
		SELECT id, title, description, status, priority, version, created_at, updated_at
		FROM tasks
		%s
		ORDER BY created_at, id
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Number*page.Size)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list tasks", "error", err)
		return nil, fmt.Errorf("failed to list tasks: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0, page.Size)
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.Version,
			&task.CreatedAt,
			&task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", MapError(err))
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate task rows: %w", MapError(err))
	}

	return &store.TaskPage{
		Tasks: tasks,
		Page:  page.Number,
		Size:  page.Size,
		Total: total,
	}, nil
}

func (s *TaskStore) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check task existence: %w", MapError(err))
	}
	return exists, nil
}
