package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common task validation errors
var (
	ErrEmptyTaskID     = errors.New("task ID cannot be empty")
	ErrEmptyTitle      = errors.New("task title cannot be empty")
	ErrTitleTooLong    = errors.New("task title must be at most 255 characters long")
	ErrInvalidStatus   = errors.New("invalid task status")
	ErrInvalidPriority = errors.New("invalid task priority")
)

// Status represents the workflow stage of a task.
type Status string

// Valid task statuses.
const (
	StatusToDo       Status = "TO_DO"
	StatusInProgress Status = "IN_PROGRESS"
	StatusDone       Status = "DONE"
)

// ParseStatus converts a string into a Status.
// Returns ErrInvalidStatus if the value is not a known status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusToDo, StatusInProgress, StatusDone:
		return Status(s), nil
	default:
		return "", ErrInvalidStatus
	}
}

// IsValid reports whether the status is one of the known workflow stages.
func (s Status) IsValid() bool {
	_, err := ParseStatus(string(s))
	return err == nil
}

// Priority represents the urgency level of a task.
type Priority string

// Valid task priorities.
const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
)

// ParsePriority converts a string into a Priority.
// Returns ErrInvalidPriority if the value is not a known priority.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	default:
		return "", ErrInvalidPriority
	}
}

// IsValid reports whether the priority is one of the known levels.
func (p Priority) IsValid() bool {
	_, err := ParsePriority(string(p))
	return err == nil
}

// Task represents a single item on the kanban board.
//
// Version is a monotonically increasing mutation counter: it starts at 0
// when the task is created and is incremented by exactly 1 on every
// persisted update. It is the basis for optimistic-concurrency checks and
// is never reused.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Version     int64     `json:"version"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewTask creates a new Task with a fresh identifier and version 0.
// Returns an error if validation fails.
func NewTask(title, description string, status Status, priority Priority) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		Version:     0,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.Title == "" {
		return ErrEmptyTitle
	}

	if len(t.Title) > 255 {
		return ErrTitleTooLong
	}

	if !t.Status.IsValid() {
		return ErrInvalidStatus
	}

	if !t.Priority.IsValid() {
		return ErrInvalidPriority
	}

	return nil
}

// Snapshot returns a copy of the task suitable for speculative mutation,
// such as applying a patch operation sequence. Changes to the copy do not
// affect the original.
func (t *Task) Snapshot() Task {
	return *t
}
