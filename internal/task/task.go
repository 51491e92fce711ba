// Package task provides background task processing: a persistent queue of
// work items, a worker pool that executes them, and recovery of unfinished
// tasks after a restart. Story vocabulary generation is the one task type
// today; the machinery is type-agnostic.
package task

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the current state of a task.
type TaskStatus string

// Possible task status values
const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusProcessing TaskStatus = "processing"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusFailed     TaskStatus = "failed"
)

// TaskTypeStoryGeneration identifies tasks that extract vocabulary from a
// learner's story.
const TaskTypeStoryGeneration = "story_generation"

// Task represents a unit of background work.
type Task interface {
	// ID returns the task's unique identifier.
	ID() uuid.UUID

	// Type returns the task type identifier.
	Type() string

	// Payload returns the task data as a byte slice.
	Payload() []byte

	// Status returns the current task status.
	Status() TaskStatus

	// Execute runs the task logic.
	Execute(ctx context.Context) error
}

// TaskStore persists tasks so work survives process restarts.
type TaskStore interface {
	// SaveTask persists a task.
	SaveTask(ctx context.Context, t Task) error

	// UpdateTaskStatus updates the status of a task. The error message is
	// stored alongside failed tasks for diagnosis.
	UpdateTaskStatus(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error

	// GetPendingTasks retrieves all tasks with pending status.
	GetPendingTasks(ctx context.Context) ([]Task, error)

	// GetProcessingTasks retrieves tasks with processing status. If olderThan
	// is non-zero, only tasks that have been in that state longer than the
	// duration are returned.
	GetProcessingTasks(ctx context.Context, olderThan time.Duration) ([]Task, error)

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction for all operations.
	WithTx(tx *sql.Tx) TaskStore
}

// TaskFactory reconstructs a concrete, executable task from its persisted
// form. Recovered tasks carry only type and payload; the factory re-binds
// them to their dependencies.
type TaskFactory interface {
	// CreateTaskWithID builds an executable task with the given identity
	// and payload.
	CreateTaskWithID(id uuid.UUID, payload []byte) (Task, error)
}
