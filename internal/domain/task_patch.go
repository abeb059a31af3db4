package domain

import (
	"time"

	"github.com/google/uuid"
)

// TaskPatch describes a partial update to a Task. Fields absent from the
// request are left in the absent state and preserve the stored value;
// Description and AssignedToID additionally accept explicit null to clear
// the stored value.
//
// CreatorID is deliberately not representable here: the creator is
// immutable for the life of the task.
type TaskPatch struct {
	Title        Optional[string]       `json:"title"`
	Description  Optional[string]       `json:"description"`
	DueDate      Optional[time.Time]    `json:"due_date"`
	Priority     Optional[TaskPriority] `json:"priority"`
	Status       Optional[TaskStatus]   `json:"status"`
	AssignedToID Optional[uuid.UUID]    `json:"assigned_to_id"`
}

// IsEmpty reports whether the patch touches no fields at all.
func (p *TaskPatch) IsEmpty() bool {
	return !p.Title.Set &&
		!p.Description.Set &&
		!p.DueDate.Set &&
		!p.Priority.Set &&
		!p.Status.Set &&
		!p.AssignedToID.Set
}

// Validate checks the patch for structurally invalid values. Absent
// fields are always valid; null is only valid for the clearable fields.
func (p *TaskPatch) Validate() error {
	if p.Title.Set {
		if !p.Title.Valid {
			return ErrEmptyTaskTitle
		}
		if p.Title.Value == "" {
			return ErrEmptyTaskTitle
		}
		if len(p.Title.Value) > 100 {
			return ErrTaskTitleTooLong
		}
	}

	if p.DueDate.Set && (!p.DueDate.Valid || p.DueDate.Value.IsZero()) {
		return ErrEmptyTaskDueDate
	}

	if p.Priority.Set {
		if !p.Priority.Valid || !isValidTaskPriority(p.Priority.Value) {
			return ErrInvalidPriority
		}
	}

	if p.Status.Set {
		if !p.Status.Valid || !isValidTaskStatus(p.Status.Value) {
			return ErrInvalidStatus
		}
	}

	return nil
}

// ApplyTo returns a copy of task with the patch applied. The copy carries
// the same ID, CreatorID, Version, and CreatedAt as the original; only
// patched fields and UpdatedAt change.
func (p *TaskPatch) ApplyTo(task *Task) *Task {
	next := *task

	if p.Title.Set {
		next.Title = p.Title.Value
	}
	if p.Description.Set {
		next.Description = p.Description.Ptr()
	}
	if p.DueDate.Set {
		next.DueDate = p.DueDate.Value
	}
	if p.Priority.Set {
		next.Priority = p.Priority.Value
	}
	if p.Status.Set {
		next.Status = p.Status.Value
	}
	if p.AssignedToID.Set {
		next.AssignedToID = p.AssignedToID.Ptr()
	}

	next.UpdatedAt = time.Now().UTC()
	return &next
}
