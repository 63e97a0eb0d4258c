package domain

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTask(t *testing.T) {
	t.Parallel()

	task, err := NewTask("Write report", "Quarterly numbers", StatusToDo, PriorityMedium)
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, int64(0), task.Version)
	assert.Equal(t, task.CreatedAt, task.UpdatedAt)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestTask_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"valid", func(task *Task) {}, nil},
		{"empty ID", func(task *Task) { task.ID = uuid.Nil }, ErrEmptyTaskID},
		{"empty title", func(task *Task) { task.Title = "" }, ErrEmptyTitle},
		{"title too long", func(task *Task) { task.Title = strings.Repeat("x", 256) }, ErrTitleTooLong},
		{"unknown status", func(task *Task) { task.Status = "ALMOST_DONE" }, ErrInvalidStatus},
		{"unknown priority", func(task *Task) { task.Priority = "URGENT" }, ErrInvalidPriority},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			task, err := NewTask("Write report", "", StatusToDo, PriorityLow)
			require.NoError(t, err)

			tt.mutate(task)
			err = task.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParseStatus(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"TO_DO", "IN_PROGRESS", "DONE"} {
		status, err := ParseStatus(valid)
		require.NoError(t, err)
		assert.Equal(t, Status(valid), status)
	}

	for _, invalid := range []string{"", "to_do", "TODO", "DONE "} {
		_, err := ParseStatus(invalid)
		assert.ErrorIs(t, err, ErrInvalidStatus, "input %q", invalid)
	}
}

func TestParsePriority(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"LOW", "MEDIUM", "HIGH"} {
		priority, err := ParsePriority(valid)
		require.NoError(t, err)
		assert.Equal(t, Priority(valid), priority)
	}

	for _, invalid := range []string{"", "low", "URGENT"} {
		_, err := ParsePriority(invalid)
		assert.ErrorIs(t, err, ErrInvalidPriority, "input %q", invalid)
	}
}

func TestTask_Snapshot(t *testing.T) {
	t.Parallel()

	task, err := NewTask("Write report", "Quarterly numbers", StatusToDo, PriorityLow)
	require.NoError(t, err)

	snapshot := task.Snapshot()
	snapshot.Title = "Changed"
	snapshot.Status = StatusDone

	assert.Equal(t, "Write report", task.Title)
	assert.Equal(t, StatusToDo, task.Status)
}

func TestTask_JSONFieldNames(t *testing.T) {
	t.Parallel()

	task, err := NewTask("Write report", "", StatusToDo, PriorityLow)
	require.NoError(t, err)

	raw, err := json.Marshal(task)
	require.NoError(t, err)

	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))

	for _, name := range []string{"id", "title", "description", "status", "priority", "version", "createdAt", "updatedAt"} {
		assert.Contains(t, fields, name)
	}
}
