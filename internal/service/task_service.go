package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/hivetech/kanban-api/internal/domain"
	"github.com/hivetech/kanban-api/internal/events"
	"github.com/hivetech/kanban-api/internal/patch"
	"github.com/hivetech/kanban-api/internal/platform/logger"
	"github.com/hivetech/kanban-api/internal/store"
)

// TaskInput carries the mutable task fields supplied by create and
// replace requests.
type TaskInput struct {
	Title       string
	Description string
	Status      domain.Status
	Priority    domain.Priority
}

// TaskService applies create/replace/patch/delete operations to task
// records and emits a notification event after every successful persist.
// All writes go through the store's conditional single-row update, so a
// stale observed version surfaces as store.ErrVersionConflict instead of
// silently clobbering a concurrent writer.
type TaskService struct {
	taskStore store.TaskStore
	publisher events.Publisher
}

// NewTaskService creates a new TaskService with the given dependencies.
func NewTaskService(taskStore store.TaskStore, publisher events.Publisher) *TaskService {
	return &TaskService{
		taskStore: taskStore,
		publisher: publisher,
	}
}

// Create constructs a new task with a fresh identifier and version 0,
// persists it, and emits a CREATED event with the full record view.
func (s *TaskService) Create(ctx context.Context, input TaskInput) (*domain.Task, error) {
	task, err := domain.NewTask(input.Title, input.Description, input.Status, input.Priority)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Create(ctx, task); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("task created", "task_id", task.ID)
	s.publisher.Publish(events.NewTaskCreated(task))
	return task, nil
}

// Get retrieves a task by ID.
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *TaskService) Get(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.taskStore.GetByID(ctx, id)
}

// List returns one page of tasks, optionally filtered by status.
func (s *TaskService) List(ctx context.Context, filter store.TaskFilter, page store.Page) (*store.TaskPage, error) {
	return s.taskStore.List(ctx, filter, page)
}

// Replace overwrites all mutable fields of an existing task. The write
// is conditional on the version observed during the load: if a
// concurrent writer advanced it in the meantime, the call fails with
// store.ErrVersionConflict rather than losing that writer's update.
// On success the version has advanced by exactly 1 and an UPDATED event
// carries the new record view.
func (s *TaskService) Replace(ctx context.Context, id uuid.UUID, input TaskInput) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	observedVersion := task.Version
	task.Title = input.Title
	task.Description = input.Description
	task.Status = input.Status
	task.Priority = input.Priority

	if err := s.taskStore.Update(ctx, task, observedVersion); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("task replaced", "task_id", task.ID, "version", task.Version)
	s.publisher.Publish(events.NewTaskUpdated(task))
	return task, nil
}

// Patch applies a JSON-Patch operation sequence to a structural snapshot
// of the task. The sequence is atomic: if any operation fails, the
// stored record is left untouched and the patch error is returned.
// On success the patched snapshot is persisted conditionally on the
// loaded version and an UPDATED event is emitted.
func (s *TaskService) Patch(ctx context.Context, id uuid.UUID, ops []patch.Operation) (*domain.Task, error) {
	task, err := s.taskStore.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	patched, err := patch.Apply(task, ops)
	if err != nil {
		return nil, err
	}

	if err := s.taskStore.Update(ctx, patched, task.Version); err != nil {
		return nil, err
	}

	logger.FromContext(ctx).Info("task patched",
		"task_id", patched.ID,
		"version", patched.Version,
		"op_count", len(ops))
	s.publisher.Publish(events.NewTaskUpdated(patched))
	return patched, nil
}

// Delete removes a task by ID and emits a DELETED event carrying only
// the identifier. Deleting an absent task is not an error.
func (s *TaskService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.taskStore.Delete(ctx, id); err != nil {
		return err
	}

	logger.FromContext(ctx).Info("task deleted", "task_id", id)
	s.publisher.Publish(events.NewTaskDeleted(id))
	return nil
}
