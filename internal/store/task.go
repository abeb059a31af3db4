package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
//
// The store deals only in point-in-time snapshots: callers fetch a task,
// decide, and write — it never hands out live references. UpdateByID is
// conditional on the version the caller fetched so a write is always
// based on the state the caller's decision observed.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns ErrInvalidEntity if a referenced user does not exist.
	// Returns validation errors from the domain Task if data is invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListForUser retrieves every task where the user is the creator or
	// the current assignee, most recently created first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// ListAll retrieves every task in the store, most recently created
	// first. Administrative surface; no per-user filtering.
	ListAll(ctx context.Context) ([]*domain.Task, error)

	// UpdateByID applies the patch to the task with the given id,
	// conditional on the stored version still matching expectedVersion.
	// Fields absent from the patch are left untouched. Returns the
	// post-write snapshot on success.
	// Returns ErrTaskNotFound if the task does not exist.
	// Returns ErrVersionConflict if the stored version has moved on.
	// Returns ErrInvalidEntity if a patched assignee does not exist.
	UpdateByID(
		ctx context.Context,
		id uuid.UUID,
		patch *domain.TaskPatch,
		expectedVersion int64,
	) (*domain.Task, error)

	// DeleteByID permanently removes the task with the given id.
	// Returns ErrTaskNotFound if the task does not exist.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}
