package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskPriority represents the urgency level of a task.
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "Low"
	TaskPriorityMedium TaskPriority = "Medium"
	TaskPriorityHigh   TaskPriority = "High"
	TaskPriorityUrgent TaskPriority = "Urgent"
)

// TaskStatus represents the workflow state of a task.
//
// The orchestration layer deliberately accepts any status-to-status
// transition; there is no legality graph. Callers that want workflow
// enforcement must layer it on top.
type TaskStatus string

// Possible task status values
const (
	TaskStatusToDo       TaskStatus = "ToDo"
	TaskStatusInProgress TaskStatus = "InProgress"
	TaskStatusReview     TaskStatus = "Review"
	TaskStatusCompleted  TaskStatus = "Completed"
)

// Task-specific validation errors
var (
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrEmptyTaskTitle     = errors.New("task title cannot be empty")
	ErrTaskTitleTooLong   = errors.New("task title must be at most 100 characters")
	ErrEmptyTaskDueDate   = errors.New("task due date cannot be empty")
	ErrEmptyTaskCreatorID = errors.New("task creator ID cannot be empty")
	ErrInvalidPriority    = errors.New("invalid task priority")
	ErrInvalidStatus      = errors.New("invalid task status")
)

// Task represents a unit of work created by one user and optionally
// assigned to another. CreatorID is set once at creation and never
// changes; AssignedToID is nil while unassigned and may be reassigned
// to any user at any time.
//
// Version is an optimistic-concurrency stamp incremented by every
// successful write. Updates are conditional on the version the caller
// fetched, closing the lost-update window between the policy check and
// the write.
type Task struct {
	ID           uuid.UUID    `json:"id"`
	Title        string       `json:"title"`
	Description  *string      `json:"description"`
	DueDate      time.Time    `json:"due_date"`
	Priority     TaskPriority `json:"priority"`
	Status       TaskStatus   `json:"status"`
	CreatorID    uuid.UUID    `json:"creator_id"`
	AssignedToID *uuid.UUID   `json:"assigned_to_id"`
	Version      int64        `json:"version"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewTask creates a new Task owned by creatorID. The task starts at
// version 1 with creation/update timestamps set to now. assignedTo may
// be nil for an unassigned task. Returns an error if validation fails.
func NewTask(
	creatorID uuid.UUID,
	title string,
	description *string,
	dueDate time.Time,
	priority TaskPriority,
	status TaskStatus,
	assignedTo *uuid.UUID,
) (*Task, error) {
	if status == "" {
		status = TaskStatusToDo
	}

	task := &Task{
		ID:           uuid.New(),
		Title:        title,
		Description:  description,
		DueDate:      dueDate,
		Priority:     priority,
		Status:       status,
		CreatorID:    creatorID,
		AssignedToID: assignedTo,
		Version:      1,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
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
		return ErrEmptyTaskTitle
	}

	if len(t.Title) > 100 {
		return ErrTaskTitleTooLong
	}

	if t.DueDate.IsZero() {
		return ErrEmptyTaskDueDate
	}

	if t.CreatorID == uuid.Nil {
		return ErrEmptyTaskCreatorID
	}

	if !isValidTaskPriority(t.Priority) {
		return ErrInvalidPriority
	}

	if !isValidTaskStatus(t.Status) {
		return ErrInvalidStatus
	}

	return nil
}

// CanModify reports whether userID may update this task.
// Both the creator and the current assignee have modify rights.
func (t *Task) CanModify(userID uuid.UUID) bool {
	if userID == t.CreatorID {
		return true
	}
	return t.AssignedToID != nil && userID == *t.AssignedToID
}

// CanDelete reports whether userID may delete this task.
// Strictly narrower than CanModify: only the creator may delete.
func (t *Task) CanDelete(userID uuid.UUID) bool {
	return userID == t.CreatorID
}

// isValidTaskPriority checks if the given priority is a valid TaskPriority.
func isValidTaskPriority(p TaskPriority) bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh, TaskPriorityUrgent:
		return true
	default:
		return false
	}
}

// isValidTaskStatus checks if the given status is a valid TaskStatus.
func isValidTaskStatus(s TaskStatus) bool {
	switch s {
	case TaskStatusToDo, TaskStatusInProgress, TaskStatusReview, TaskStatusCompleted:
		return true
	default:
		return false
	}
}
