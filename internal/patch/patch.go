// Package patch implements a structural JSON-Patch interpreter over the
// task record's mutable fields. Operations are applied to a snapshot copy
// of the record by field-path lookup against a fixed field set; the
// interpreter is atomic — if any operation in the sequence fails, the
// original record is returned untouched.
package patch

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hivetech/kanban-api/internal/domain"
)

// Patch interpretation errors.
var (
	// ErrInvalidPatch indicates a structurally invalid patch document:
	// unknown operation, unknown field path, or a value of the wrong type.
	ErrInvalidPatch = errors.New("invalid patch document")

	// ErrTestFailed indicates a "test" operation did not match the
	// record's current value, aborting the whole sequence.
	ErrTestFailed = errors.New("patch test operation failed")
)

// Supported operation kinds.
const (
	OpReplace = "replace"
	OpAdd     = "add"
	OpRemove  = "remove"
	OpTest    = "test"
)

// Mutable task field paths.
const (
	PathTitle       = "/title"
	PathDescription = "/description"
	PathStatus      = "/status"
	PathPriority    = "/priority"
)

// Operation is a single field-level edit: an operation kind, a target
// field path, and (except for remove) a value.
type Operation struct {
	Op    string          `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

// Decode parses a JSON-Patch-shaped body into an operation sequence.
// Returns ErrInvalidPatch on malformed JSON or an empty document.
func Decode(body []byte) ([]Operation, error) {
	var ops []Operation
	if err := json.Unmarshal(body, &ops); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}
	if len(ops) == 0 {
		return nil, fmt.Errorf("%w: empty operation sequence", ErrInvalidPatch)
	}
	return ops, nil
}

// Apply runs the full operation sequence against a snapshot of the task
// and returns the patched copy. The input task is never modified. If any
// operation fails, the error is returned and no partial result is produced.
func Apply(task *domain.Task, ops []Operation) (*domain.Task, error) {
	result := task.Snapshot()

	for i, op := range ops {
		if err := applyOne(&result, op); err != nil {
			return nil, fmt.Errorf("operation %d (%s %s): %w", i, op.Op, op.Path, err)
		}
	}

	if err := result.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPatch, err)
	}

	return &result, nil
}

func applyOne(task *domain.Task, op Operation) error {
	switch op.Op {
	case OpReplace, OpAdd:
		return applySet(task, op)
	case OpRemove:
		return applyRemove(task, op)
	case OpTest:
		return applyTest(task, op)
	default:
		return fmt.Errorf("%w: unsupported operation %q", ErrInvalidPatch, op.Op)
	}
}

// applySet handles replace and add. On the task's flat, fixed field set
// the two are equivalent: every path always exists.
func applySet(task *domain.Task, op Operation) error {
	value, err := stringValue(op)
	if err != nil {
		return err
	}

	switch op.Path {
	case PathTitle:
		task.Title = value
	case PathDescription:
		task.Description = value
	case PathStatus:
		status, err := domain.ParseStatus(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
		}
		task.Status = status
	case PathPriority:
		priority, err := domain.ParsePriority(value)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPatch, err)
		}
		task.Priority = priority
	default:
		return fmt.Errorf("%w: unknown field path %q", ErrInvalidPatch, op.Path)
	}

	return nil
}

// applyRemove clears the description. Title, status, and priority are
// required fields and cannot be removed.
func applyRemove(task *domain.Task, op Operation) error {
	if op.Path != PathDescription {
		return fmt.Errorf("%w: cannot remove required field %q", ErrInvalidPatch, op.Path)
	}
	task.Description = ""
	return nil
}

// applyTest compares the record's current value against the operation
// value and aborts the sequence on mismatch.
func applyTest(task *domain.Task, op Operation) error {
	value, err := stringValue(op)
	if err != nil {
		return err
	}

	var current string
	switch op.Path {
	case PathTitle:
		current = task.Title
	case PathDescription:
		current = task.Description
	case PathStatus:
		current = string(task.Status)
	case PathPriority:
		current = string(task.Priority)
	default:
		return fmt.Errorf("%w: unknown field path %q", ErrInvalidPatch, op.Path)
	}

	if current != value {
		return fmt.Errorf("%w: %q != %q", ErrTestFailed, current, value)
	}
	return nil
}

func stringValue(op Operation) (string, error) {
	if len(op.Value) == 0 {
		return "", fmt.Errorf("%w: missing value", ErrInvalidPatch)
	}
	var s string
	if err := json.Unmarshal(op.Value, &s); err != nil {
		return "", fmt.Errorf("%w: value must be a string: %v", ErrInvalidPatch, err)
	}
	return s, nil
}
