package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
	"github.com/phrazzld/taskboard-api/internal/store"
)

// taskColumns is the canonical select list for task rows.
const taskColumns = `id, title, description, due_date, priority, status,
	creator_id, assigned_to_id, version, created_at, updated_at`

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
func NewPostgresTaskStore(db store.DBTX, log *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: log.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// rowScanner abstracts *sql.Row and *sql.Rows for scanTask.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanTask scans one task row into a domain.Task, converting the
// nullable columns.
func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		description sql.NullString
		assignedTo  uuid.NullUUID
		priority    string
		status      string
	)

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&task.DueDate,
		&priority,
		&status,
		&task.CreatorID,
		&assignedTo,
		&task.Version,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		task.Description = &description.String
	}
	if assignedTo.Valid {
		id := assignedTo.UUID
		task.AssignedToID = &id
	}
	task.Priority = domain.TaskPriority(priority)
	task.Status = domain.TaskStatus(status)

	return &task, nil
}

// Create implements store.TaskStore.Create
// Returns store.ErrInvalidEntity if the creator or assignee does not
// exist (foreign key violation).
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, title, description, due_date, priority, status,
			creator_id, assigned_to_id, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.Title,
		task.Description,
		task.DueDate,
		string(task.Priority),
		string(task.Status),
		task.CreatorID,
		task.AssignedToID,
		task.Version,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task creation",
				slog.String("error", err.Error()),
				slog.String("task_id", task.ID.String()))
			return fmt.Errorf("%w: referenced user not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create task",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("creator_id", task.CreatorID.String()))
	return nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`

	task, err := scanTask(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found", slog.String("task_id", id.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return task, nil
}

// ListForUser implements store.TaskStore.ListForUser
// Returns the union of tasks where the user is creator or assignee.
func (s *PostgresTaskStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + `
		FROM tasks
		WHERE creator_id = $1 OR assigned_to_id = $1
		ORDER BY created_at DESC`

	return s.queryTasks(ctx, query, userID)
}

// ListAll implements store.TaskStore.ListAll
func (s *PostgresTaskStore) ListAll(ctx context.Context) ([]*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at DESC`

	return s.queryTasks(ctx, query)
}

// queryTasks runs a multi-row task query and scans the results.
func (s *PostgresTaskStore) queryTasks(
	ctx context.Context,
	query string,
	args ...any,
) ([]*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tasks", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			log.Error("failed to scan task row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		tasks = append(tasks, task)
	}

	if err := rows.Err(); err != nil {
		log.Error("task row iteration failed", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return tasks, nil
}

// UpdateByID implements store.TaskStore.UpdateByID
// The UPDATE is conditional on the stored version still matching
// expectedVersion; the version column advances by one on success.
// A zero-row result is disambiguated with a follow-up existence check:
// missing id means store.ErrTaskNotFound, a present id means the version
// moved on and the caller gets store.ErrVersionConflict.
func (s *PostgresTaskStore) UpdateByID(
	ctx context.Context,
	id uuid.UUID,
	patch *domain.TaskPatch,
	expectedVersion int64,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := patch.Validate(); err != nil {
		log.Warn("task patch validation failed",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, err
	}

	setClauses, args := buildTaskPatchSet(patch)

	// Positional parameters continue after the SET list.
	idArg := len(args) + 1
	versionArg := len(args) + 2
	args = append(args, id, expectedVersion)

	query := fmt.Sprintf(`
		UPDATE tasks
		SET %s, version = version + 1
		WHERE id = $%d AND version = $%d
		RETURNING %s`,
		strings.Join(setClauses, ", "), idArg, versionArg, taskColumns)

	task, err := scanTask(s.db.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, s.classifyMissedUpdate(ctx, id)
		}
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during task update",
				slog.String("error", err.Error()),
				slog.String("task_id", id.String()))
			return nil, fmt.Errorf("%w: assigned user not found", store.ErrInvalidEntity)
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("task updated successfully",
		slog.String("task_id", id.String()),
		slog.Int64("version", task.Version))
	return task, nil
}

// classifyMissedUpdate decides whether a zero-row conditional update was
// caused by a missing task or a stale version.
func (s *PostgresTaskStore) classifyMissedUpdate(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var exists bool
	err := s.db.QueryRowContext(
		ctx,
		`SELECT EXISTS (SELECT 1 FROM tasks WHERE id = $1)`,
		id,
	).Scan(&exists)
	if err != nil {
		log.Error("failed to check task existence after missed update",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if !exists {
		log.Debug("task not found during update", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Debug("task version conflict during update", slog.String("task_id", id.String()))
	return fmt.Errorf("%w: task %s", store.ErrVersionConflict, id)
}

// buildTaskPatchSet translates the set fields of a patch into SQL SET
// clauses and their positional arguments. updated_at always moves.
func buildTaskPatchSet(patch *domain.TaskPatch) ([]string, []any) {
	var (
		clauses []string
		args    []any
	)

	add := func(column string, value any) {
		args = append(args, value)
		clauses = append(clauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title.Set {
		add("title", patch.Title.Value)
	}
	if patch.Description.Set {
		add("description", patch.Description.Ptr()) // nil clears the column
	}
	if patch.DueDate.Set {
		add("due_date", patch.DueDate.Value)
	}
	if patch.Priority.Set {
		add("priority", string(patch.Priority.Value))
	}
	if patch.Status.Set {
		add("status", string(patch.Status.Value))
	}
	if patch.AssignedToID.Set {
		add("assigned_to_id", patch.AssignedToID.Ptr()) // nil clears the column
	}

	add("updated_at", time.Now().UTC())

	return clauses, args
}

// DeleteByID implements store.TaskStore.DeleteByID
// Returns store.ErrTaskNotFound if the task does not exist.
func (s *PostgresTaskStore) DeleteByID(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", err.Error()),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "task"); err != nil {
		log.Debug("task not found during delete", slog.String("task_id", id.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted successfully", slog.String("task_id", id.String()))
	return nil
}
