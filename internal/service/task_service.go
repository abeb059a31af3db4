package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/notify"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// TaskServiceError is a custom error type for task service errors.
type TaskServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// CreateTaskInput carries the validated fields for task creation. The
// creator is never part of the input: the orchestrator forces it to the
// authenticated caller's identity, regardless of anything the request
// body claimed.
type CreateTaskInput struct {
	Title        string
	Description  *string
	DueDate      time.Time
	Priority     domain.TaskPriority
	Status       domain.TaskStatus
	AssignedToID *uuid.UUID
}

// TaskService sequences each task-changing request as one logical unit:
// fetch the current snapshot, evaluate the access policy against it,
// write, and only then fan out notifications. A failed write never
// produces a notification; a failed notification never fails the
// request.
type TaskService interface {
	// Create builds and stores a task owned by creatorID. If the new
	// task carries an assignee, that user is notified with taskAssigned.
	Create(ctx context.Context, input CreateTaskInput, creatorID uuid.UUID) (*domain.Task, error)

	// GetByID retrieves a single task snapshot.
	// Returns store.ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListForUser retrieves the union of tasks where the user is the
	// creator or the current assignee.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListAll retrieves every task. Administrative surface.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// Update applies a partial update on behalf of requesterID.
	// Returns store.ErrTaskNotFound, ErrForbidden when the requester is
	// neither creator nor assignee, or store.ErrVersionConflict when a
	// concurrent writer got there first. After a successful write the
	// original parties receive taskUpdated and a newly introduced
	// assignee additionally receives taskAssigned.
	Update(
		ctx context.Context,
		id uuid.UUID,
		patch *domain.TaskPatch,
		requesterID uuid.UUID,
	) (*domain.Task, error)

	// Delete permanently removes a task on behalf of requesterID.
	// Returns store.ErrTaskNotFound, or ErrForbidden when the requester
	// is not the creator — an assignee may update but never delete.
	// After removal the original parties receive taskDeleted.
	Delete(ctx context.Context, id uuid.UUID, requesterID uuid.UUID) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	tasks     store.TaskStore
	publisher notify.Publisher
	logger    *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	publisher notify.Publisher,
	log *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if publisher == nil {
		return nil, domain.NewValidationError("publisher", "cannot be nil", domain.ErrValidation)
	}
	if log == nil {
		log = slog.Default()
	}

	return &taskServiceImpl{
		tasks:     tasks,
		publisher: publisher,
		logger:    log.With(slog.String("component", "task_service")),
	}, nil
}

// Create implements TaskService.Create.
func (s *taskServiceImpl) Create(
	ctx context.Context,
	input CreateTaskInput,
	creatorID uuid.UUID,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	task, err := domain.NewTask(
		creatorID,
		input.Title,
		input.Description,
		input.DueDate,
		input.Priority,
		input.Status,
		input.AssignedToID,
	)
	if err != nil {
		return nil, err
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	s.dispatch(ctx, events.TargetsForCreate(task), task)

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("creator_id", creatorID.String()),
		slog.Bool("assigned", task.AssignedToID != nil))
	return task, nil
}

// GetByID implements TaskService.GetByID.
func (s *taskServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, id)
}

// ListForUser implements TaskService.ListForUser.
func (s *taskServiceImpl) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Task, error) {
	return s.tasks.ListForUser(ctx, userID)
}

// ListAll implements TaskService.ListAll.
func (s *taskServiceImpl) ListAll(ctx context.Context) ([]*domain.Task, error) {
	return s.tasks.ListAll(ctx)
}

// Update implements TaskService.Update. The policy decision and the
// notification targets are both computed from the same pre-write
// snapshot; the conditional write guarantees that snapshot was still
// current when the write landed.
func (s *taskServiceImpl) Update(
	ctx context.Context,
	id uuid.UUID,
	patch *domain.TaskPatch,
	requesterID uuid.UUID,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if patch == nil || patch.IsEmpty() {
		return nil, ErrEmptyPatch
	}

	prev, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !prev.CanModify(requesterID) {
		log.Debug("update denied",
			slog.String("task_id", id.String()),
			slog.String("requester_id", requesterID.String()))
		return nil, fmt.Errorf("%w: task %s", ErrForbidden, id)
	}

	updated, err := s.tasks.UpdateByID(ctx, id, patch, prev.Version)
	if err != nil {
		return nil, err
	}

	s.dispatch(ctx, events.TargetsForUpdate(prev, patch.AssignedToID.Ptr()), updated)

	log.Info("task updated",
		slog.String("task_id", id.String()),
		slog.String("requester_id", requesterID.String()))
	return updated, nil
}

// Delete implements TaskService.Delete. Targets are computed from the
// pre-delete snapshot, which is also the event payload — the record is
// gone by the time the notification goes out.
func (s *taskServiceImpl) Delete(
	ctx context.Context,
	id uuid.UUID,
	requesterID uuid.UUID,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	prev, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !prev.CanDelete(requesterID) {
		log.Debug("delete denied",
			slog.String("task_id", id.String()),
			slog.String("requester_id", requesterID.String()))
		return fmt.Errorf("%w: task %s", ErrForbidden, id)
	}

	if err := s.tasks.DeleteByID(ctx, id); err != nil {
		return err
	}

	s.dispatch(ctx, events.TargetsForDelete(prev), prev)

	log.Info("task deleted",
		slog.String("task_id", id.String()),
		slog.String("requester_id", requesterID.String()))
	return nil
}

// dispatch fans one event per target out through the publisher. It runs
// only after the storage write has committed, and publish failures are
// logged and swallowed: the mutation is done and delivery is
// best-effort.
func (s *taskServiceImpl) dispatch(
	ctx context.Context,
	targets []events.Notification,
	snapshot *domain.Task,
) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, target := range targets {
		event := events.NewTaskEvent(target.Type, snapshot)
		if err := s.publisher.Publish(ctx, target.UserID, event); err != nil {
			log.Warn("failed to publish task event",
				slog.String("error", err.Error()),
				slog.String("event_type", string(target.Type)),
				slog.String("target_user", target.UserID.String()),
				slog.String("task_id", snapshot.ID.String()))
		}
	}
}
