package events

import (
	"github.com/google/uuid"
	"github.com/hivetech/kanban-api/internal/domain"
)

// Task event kinds broadcast to streaming subscribers.
const (
	TaskCreated = "CREATED"
	TaskUpdated = "UPDATED"
	TaskDeleted = "DELETED"
)

// TaskEvent is the fire-and-forget notification pushed to streaming
// clients after every successful task mutation. Created and updated
// events carry the full record view; deleted events carry only the
// identifier. There is no persistence or delivery guarantee.
type TaskEvent struct {
	EventType string `json:"eventType"`
	Data      any    `json:"data"`
}

// deletedPayload is the bare-identifier payload of a DELETED event.
type deletedPayload struct {
	ID uuid.UUID `json:"id"`
}

// NewTaskCreated builds a CREATED event carrying the full record view.
func NewTaskCreated(task *domain.Task) TaskEvent {
	return TaskEvent{EventType: TaskCreated, Data: task}
}

// NewTaskUpdated builds an UPDATED event carrying the full record view.
func NewTaskUpdated(task *domain.Task) TaskEvent {
	return TaskEvent{EventType: TaskUpdated, Data: task}
}

// NewTaskDeleted builds a DELETED event carrying only the identifier.
func NewTaskDeleted(id uuid.UUID) TaskEvent {
	return TaskEvent{EventType: TaskDeleted, Data: deletedPayload{ID: id}}
}

// Publisher is implemented by components that fan events out to
// streaming subscribers. Services publish through this interface without
// knowledge of the transport.
type Publisher interface {
	Publish(event TaskEvent)
}
