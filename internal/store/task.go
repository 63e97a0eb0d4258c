package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/hivetech/kanban-api/internal/domain"
)

// TaskFilter narrows a List call. The zero value matches every task.
type TaskFilter struct {
	// Status restricts results to tasks in the given workflow stage.
	// Nil means no status filtering.
	Status *domain.Status
}

// Page describes the pagination window for a List call.
type Page struct {
	// Number is the zero-based page index.
	Number int

	// Size is the maximum number of records per page.
	Size int
}

// TaskPage is one page of task records plus the total match count.
type TaskPage struct {
	Tasks []domain.Task `json:"tasks"`
	Page  int           `json:"page"`
	Size  int           `json:"size"`
	Total int64         `json:"total"`
}

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store with its initial version.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update persists the task's mutable fields with a conditional write:
	// the row is only written if its stored version still equals
	// expectedVersion. On success the stored version (and task.Version)
	// is expectedVersion+1.
	// Returns ErrTaskNotFound if the task does not exist, or
	// ErrVersionConflict if another writer advanced the version first.
	Update(ctx context.Context, task *domain.Task, expectedVersion int64) error

	// Delete removes a task by ID. Deleting an absent task is not an
	// error; deletion is idempotent.
	Delete(ctx context.Context, id uuid.UUID) error

	// List returns one page of tasks matching the filter, in the store's
	// default ordering (creation time).
	List(ctx context.Context, filter TaskFilter, page Page) (*TaskPage, error)
}
