package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"scribe/internal/logging"
	"scribe/internal/tasks"
)

// ErrRetryNotAllowed indicates the task's current state does not permit retry.
var ErrRetryNotAllowed = errors.New("task cannot be retried in its current state")

// ErrCancelNotAllowed indicates a cancel attempt on a finished task.
var ErrCancelNotAllowed = errors.New("completed tasks cannot be cancelled")

// TaskStore abstracts the persistence operations the service layer needs.
type TaskStore interface {
	Create(ctx context.Context, rawInput string) (*tasks.Task, error)
	GetByID(ctx context.Context, id string) (*tasks.Task, error)
	List(ctx context.Context, statuses ...tasks.Status) ([]*tasks.Task, error)
	Transition(ctx context.Context, id string, expected, next tasks.Status, mutate func(*tasks.Task)) (*tasks.Task, error)
	RemoveUnlessCompleted(ctx context.Context, id string) (removed, exists bool, err error)
	Health(ctx context.Context) (tasks.HealthSummary, error)
}

// TaskService implements the user-facing task operations: create, list,
// describe, retry, and cancel. Newly runnable tasks are offered to the
// enqueue hook so the worker pool picks them up without waiting for a poll.
type TaskService struct {
	store   TaskStore
	enqueue func(id string)
	logger  *slog.Logger
}

// NewTaskService constructs a TaskService. The enqueue hook may be nil, in
// which case new work is only discovered by the orchestrator's poll loop.
func NewTaskService(store TaskStore, enqueue func(id string), logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &TaskService{
		store:   store,
		enqueue: enqueue,
		logger:  logging.NewComponentLogger(logger, "taskservice"),
	}
}

// Create stores a new task and offers it to the worker pool.
func (s *TaskService) Create(ctx context.Context, rawInput string) (TaskView, error) {
	task, err := s.store.Create(ctx, rawInput)
	if err != nil {
		return TaskView{}, err
	}
	s.offer(task.ID)
	s.logger.Info("task created", logging.String(logging.FieldTaskID, task.ID))
	return FromTask(task), nil
}

// List returns all tasks newest first, optionally filtered by status.
func (s *TaskService) List(ctx context.Context, statuses ...tasks.Status) ([]TaskView, error) {
	items, err := s.store.List(ctx, statuses...)
	if err != nil {
		return nil, err
	}
	return FromTasks(items), nil
}

// Describe fetches a single task by id.
func (s *TaskService) Describe(ctx context.Context, id string) (TaskView, error) {
	task, err := s.store.GetByID(ctx, id)
	if err != nil {
		return TaskView{}, err
	}
	return FromTask(task), nil
}

// Retry reopens a failed task, or a completed one flagged for attention.
// Enrichment data and the error message are cleared, the retry count is
// incremented, and the raw input is left untouched.
func (s *TaskService) Retry(ctx context.Context, id string) (TaskView, error) {
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		return TaskView{}, err
	}

	switch {
	case current.Status == tasks.StatusFailed:
	case current.Status == tasks.StatusCompleted && current.RequiresAttention:
	default:
		return TaskView{}, fmt.Errorf("%w: status %s", ErrRetryNotAllowed, current.Status)
	}

	reopened, err := s.store.Transition(ctx, id, current.Status, tasks.StatusPending, func(task *tasks.Task) {
		task.RetryCount++
	})
	if err != nil {
		if tasks.IsInvalidTransition(err) {
			return TaskView{}, fmt.Errorf("%w: task state changed", ErrRetryNotAllowed)
		}
		return TaskView{}, err
	}

	s.offer(id)
	s.logger.Info("task retried",
		logging.String(logging.FieldTaskID, id),
		logging.Int("retry_count", reopened.RetryCount))
	return FromTask(reopened), nil
}

// Cancel removes a task from the workflow. Cancelling an unknown id is a
// no-op success; cancelling a completed task is rejected. The delete itself
// is status-guarded, so a worker completing the task concurrently wins and
// the cancel is rejected rather than erasing the finished row.
func (s *TaskService) Cancel(ctx context.Context, id string) error {
	removed, exists, err := s.store.RemoveUnlessCompleted(ctx, id)
	if err != nil {
		return err
	}
	if exists {
		return ErrCancelNotAllowed
	}
	if removed {
		s.logger.Info("task cancelled", logging.String(logging.FieldTaskID, id))
	}
	return nil
}

// Status reports aggregated task counts for the status endpoint.
func (s *TaskService) Status(ctx context.Context) (StatusResponse, error) {
	health, err := s.store.Health(ctx)
	if err != nil {
		return StatusResponse{}, err
	}
	return StatusResponse{
		Running: true,
		Counts: map[string]int{
			string(tasks.StatusPending):    health.Pending,
			string(tasks.StatusProcessing): health.Processing,
			string(tasks.StatusCompleted):  health.Completed,
			string(tasks.StatusFailed):     health.Failed,
		},
		NeedsAttention: health.NeedsAttention,
		Total:          health.Total,
	}, nil
}

func (s *TaskService) offer(id string) {
	if s.enqueue != nil {
		s.enqueue(id)
	}
}
