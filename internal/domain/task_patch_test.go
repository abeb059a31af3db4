package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTaskPatchIsEmpty(t *testing.T) {
	var empty TaskPatch
	if !empty.IsEmpty() {
		t.Error("Expected zero patch to be empty")
	}

	patch := TaskPatch{Title: NewOptional("new title")}
	if patch.IsEmpty() {
		t.Error("Expected patch with a set field to be non-empty")
	}

	// An explicit null still counts as touching the field.
	patch = TaskPatch{AssignedToID: NewOptionalNull[uuid.UUID]()}
	if patch.IsEmpty() {
		t.Error("Expected patch with a null field to be non-empty")
	}
}

func TestTaskPatchValidate(t *testing.T) {
	testCases := []struct {
		name    string
		patch   TaskPatch
		wantErr error
	}{
		{"empty patch", TaskPatch{}, nil},
		{"valid title", TaskPatch{Title: NewOptional("ok")}, nil},
		{"null title", TaskPatch{Title: NewOptionalNull[string]()}, ErrEmptyTaskTitle},
		{"empty title", TaskPatch{Title: NewOptional("")}, ErrEmptyTaskTitle},
		{
			"overlong title",
			TaskPatch{Title: NewOptional(strings.Repeat("x", 101))},
			ErrTaskTitleTooLong,
		},
		{"null due date", TaskPatch{DueDate: NewOptionalNull[time.Time]()}, ErrEmptyTaskDueDate},
		{
			"valid priority",
			TaskPatch{Priority: NewOptional(TaskPriorityUrgent)},
			nil,
		},
		{
			"invalid priority",
			TaskPatch{Priority: NewOptional(TaskPriority("Extreme"))},
			ErrInvalidPriority,
		},
		{"null priority", TaskPatch{Priority: NewOptionalNull[TaskPriority]()}, ErrInvalidPriority},
		{
			"invalid status",
			TaskPatch{Status: NewOptional(TaskStatus("Archived"))},
			ErrInvalidStatus,
		},
		{
			"null description clears",
			TaskPatch{Description: NewOptionalNull[string]()},
			nil,
		},
		{
			"null assignee clears",
			TaskPatch{AssignedToID: NewOptionalNull[uuid.UUID]()},
			nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.patch.Validate(); err != tc.wantErr {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestTaskPatchApplyTo(t *testing.T) {
	creatorID := uuid.New()
	assigneeID := uuid.New()
	description := "original description"

	original := &Task{
		ID:           uuid.New(),
		Title:        "original title",
		Description:  &description,
		DueDate:      time.Now().UTC().Add(24 * time.Hour),
		Priority:     TaskPriorityLow,
		Status:       TaskStatusToDo,
		CreatorID:    creatorID,
		AssignedToID: &assigneeID,
		Version:      3,
		CreatedAt:    time.Now().UTC().Add(-time.Hour),
		UpdatedAt:    time.Now().UTC().Add(-time.Hour),
	}

	t.Run("partial update preserves untouched fields", func(t *testing.T) {
		patch := &TaskPatch{Status: NewOptional(TaskStatusCompleted)}
		next := patch.ApplyTo(original)

		if next.Status != TaskStatusCompleted {
			t.Errorf("Expected status %q, got %q", TaskStatusCompleted, next.Status)
		}
		if next.Title != original.Title {
			t.Errorf("Expected title preserved, got %q", next.Title)
		}
		if next.Description == nil || *next.Description != description {
			t.Errorf("Expected description preserved, got %v", next.Description)
		}
		if next.AssignedToID == nil || *next.AssignedToID != assigneeID {
			t.Errorf("Expected assignee preserved, got %v", next.AssignedToID)
		}
		if next.ID != original.ID || next.CreatorID != creatorID || next.Version != 3 {
			t.Error("Expected identity fields to be preserved")
		}
		if !next.UpdatedAt.After(original.UpdatedAt) {
			t.Error("Expected UpdatedAt to advance")
		}
	})

	t.Run("null clears clearable fields", func(t *testing.T) {
		patch := &TaskPatch{
			Description:  NewOptionalNull[string](),
			AssignedToID: NewOptionalNull[uuid.UUID](),
		}
		next := patch.ApplyTo(original)

		if next.Description != nil {
			t.Errorf("Expected description cleared, got %v", next.Description)
		}
		if next.AssignedToID != nil {
			t.Errorf("Expected assignee cleared, got %v", next.AssignedToID)
		}
	})

	t.Run("original task is untouched", func(t *testing.T) {
		patch := &TaskPatch{Title: NewOptional("replaced")}
		_ = patch.ApplyTo(original)

		if original.Title != "original title" {
			t.Errorf("Expected original title unchanged, got %q", original.Title)
		}
	})
}

func TestTaskPatchDecodeFromJSON(t *testing.T) {
	newAssignee := uuid.New()
	body := `{
		"title": "renamed",
		"description": null,
		"assigned_to_id": "` + newAssignee.String() + `"
	}`

	var patch TaskPatch
	if err := json.Unmarshal([]byte(body), &patch); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !patch.Title.Set || patch.Title.Value != "renamed" {
		t.Errorf("Expected title set to %q, got %+v", "renamed", patch.Title)
	}
	if !patch.Description.Set || patch.Description.Valid {
		t.Errorf("Expected description in null state, got %+v", patch.Description)
	}
	if patch.DueDate.Set || patch.Priority.Set || patch.Status.Set {
		t.Error("Expected omitted fields to stay absent")
	}
	if !patch.AssignedToID.Set || patch.AssignedToID.Value != newAssignee {
		t.Errorf("Expected assignee %v, got %+v", newAssignee, patch.AssignedToID)
	}
}
