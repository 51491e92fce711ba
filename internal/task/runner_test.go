package task

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryTaskStore is an in-memory TaskStore for runner tests.
type memoryTaskStore struct {
	mu       sync.Mutex
	tasks    map[uuid.UUID]*storedTask
	saveErr  error
	statuses map[uuid.UUID][]TaskStatus
}

type storedTask struct {
	task     Task
	status   TaskStatus
	errorMsg string
}

func newMemoryTaskStore() *memoryTaskStore {
	return &memoryTaskStore{
		tasks:    make(map[uuid.UUID]*storedTask),
		statuses: make(map[uuid.UUID][]TaskStatus),
	}
}

func (s *memoryTaskStore) SaveTask(_ context.Context, t Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.tasks[t.ID()] = &storedTask{task: t, status: t.Status()}
	return nil
}

func (s *memoryTaskStore) UpdateTaskStatus(
	_ context.Context,
	taskID uuid.UUID,
	status TaskStatus,
	errorMsg string,
) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.tasks[taskID]; ok {
		stored.status = status
		stored.errorMsg = errorMsg
	}
	s.statuses[taskID] = append(s.statuses[taskID], status)
	return nil
}

func (s *memoryTaskStore) GetPendingTasks(_ context.Context) ([]Task, error) {
	return s.byStatus(TaskStatusPending), nil
}

func (s *memoryTaskStore) GetProcessingTasks(_ context.Context, _ time.Duration) ([]Task, error) {
	return s.byStatus(TaskStatusProcessing), nil
}

func (s *memoryTaskStore) byStatus(status TaskStatus) []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Task
	for _, stored := range s.tasks {
		if stored.status == status {
			out = append(out, stored.task)
		}
	}
	return out
}

func (s *memoryTaskStore) WithTx(_ *sql.Tx) TaskStore { return s }

func (s *memoryTaskStore) statusOf(taskID uuid.UUID) TaskStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	if stored, ok := s.tasks[taskID]; ok {
		return stored.status
	}
	return ""
}

// funcTask runs a function and signals completion.
type funcTask struct {
	id   uuid.UUID
	fn   func(ctx context.Context) error
	done chan struct{}
}

func newFuncTask(fn func(ctx context.Context) error) *funcTask {
	return &funcTask{id: uuid.New(), fn: fn, done: make(chan struct{})}
}

func (t *funcTask) ID() uuid.UUID      { return t.id }
func (t *funcTask) Type() string       { return "test_task" }
func (t *funcTask) Payload() []byte    { return []byte("{}") }
func (t *funcTask) Status() TaskStatus { return TaskStatusPending }

func (t *funcTask) Execute(ctx context.Context) error {
	defer close(t.done)
	if t.fn != nil {
		return t.fn(ctx)
	}
	return nil
}

func (t *funcTask) wait(tb testing.TB) {
	tb.Helper()
	select {
	case <-t.done:
	case <-time.After(5 * time.Second):
		tb.Fatal("timed out waiting for task execution")
	}
}

// waitForStatus polls until the stored status matches or the deadline hits.
func waitForStatus(t *testing.T, store *memoryTaskStore, id uuid.UUID, want TaskStatus) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if store.statusOf(id) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("task %s never reached status %s (last: %s)", id, want, store.statusOf(id))
}

func TestTaskRunnerExecutesSubmittedTask(t *testing.T) {
	store := newMemoryTaskStore()
	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), discardLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	task := newFuncTask(nil)
	require.NoError(t, runner.Submit(context.Background(), task))

	task.wait(t)
	waitForStatus(t, store, task.ID(), TaskStatusCompleted)
}

func TestTaskRunnerMarksFailedTask(t *testing.T) {
	store := newMemoryTaskStore()
	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), discardLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	task := newFuncTask(func(context.Context) error {
		return assert.AnError
	})
	require.NoError(t, runner.Submit(context.Background(), task))

	task.wait(t)
	waitForStatus(t, store, task.ID(), TaskStatusFailed)
}

func TestTaskRunnerSubmitFailsWhenQueueFull(t *testing.T) {
	store := newMemoryTaskStore()
	config := DefaultTaskRunnerConfig()
	config.QueueSize = 1
	// Runner never started, so nothing drains the queue.
	runner := NewTaskRunner(store, config, discardLogger())

	require.NoError(t, runner.Submit(context.Background(), newFuncTask(nil)))
	err := runner.Submit(context.Background(), newFuncTask(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "queue is full")
}

func TestTaskRunnerSubmitAfterStop(t *testing.T) {
	store := newMemoryTaskStore()
	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), discardLogger())
	require.NoError(t, runner.Start())
	runner.Stop()

	// Submitting to a stopped runner must not panic; the task stays
	// pending and is picked up by the next run's recovery pass.
	task := newFuncTask(nil)
	require.NoError(t, runner.Submit(context.Background(), task))
	assert.Equal(t, TaskStatusPending, store.statusOf(task.ID()))
}

func TestTaskRunnerRecoverUsesFactory(t *testing.T) {
	store := newMemoryTaskStore()

	// Persist a pending task as a previous process would have left it.
	orphan := newFuncTask(nil)
	require.NoError(t, store.SaveTask(context.Background(), orphan))

	rebuilt := newFuncTask(nil)
	factory := factoryFunc(func(id uuid.UUID, _ []byte) (Task, error) {
		rebuilt.id = id
		return rebuilt, nil
	})

	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), discardLogger())
	runner.RegisterFactory("test_task", factory)
	require.NoError(t, runner.Start())
	defer runner.Stop()

	rebuilt.wait(t)
	waitForStatus(t, store, orphan.ID(), TaskStatusCompleted)
}

func TestTaskRunnerRecoverWithoutFactoryMarksFailed(t *testing.T) {
	store := newMemoryTaskStore()
	orphan := newFuncTask(nil)
	require.NoError(t, store.SaveTask(context.Background(), orphan))

	runner := NewTaskRunner(store, DefaultTaskRunnerConfig(), discardLogger())
	require.NoError(t, runner.Start())
	defer runner.Stop()

	waitForStatus(t, store, orphan.ID(), TaskStatusFailed)
}

// factoryFunc adapts a function to the TaskFactory interface.
type factoryFunc func(id uuid.UUID, payload []byte) (Task, error)

func (f factoryFunc) CreateTaskWithID(id uuid.UUID, payload []byte) (Task, error) {
	return f(id, payload)
}
