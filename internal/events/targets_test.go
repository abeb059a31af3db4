package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

func taskWith(creatorID uuid.UUID, assignedTo *uuid.UUID) *domain.Task {
	return &domain.Task{
		ID:           uuid.New(),
		CreatorID:    creatorID,
		AssignedToID: assignedTo,
	}
}

func TestTargetsForCreate(t *testing.T) {
	creatorID := uuid.New()
	assigneeID := uuid.New()

	t.Run("unassigned task notifies nobody", func(t *testing.T) {
		targets := TargetsForCreate(taskWith(creatorID, nil))
		assert.Empty(t, targets)
	})

	t.Run("assigned task notifies the assignee", func(t *testing.T) {
		targets := TargetsForCreate(taskWith(creatorID, &assigneeID))
		assert.Equal(t, []Notification{
			{UserID: assigneeID, Type: EventTaskAssigned},
		}, targets)
	})

	t.Run("self-assigned task notifies the creator", func(t *testing.T) {
		targets := TargetsForCreate(taskWith(creatorID, &creatorID))
		assert.Equal(t, []Notification{
			{UserID: creatorID, Type: EventTaskAssigned},
		}, targets)
	})
}

func TestTargetsForUpdate(t *testing.T) {
	creatorID := uuid.New()
	assigneeID := uuid.New()
	newAssigneeID := uuid.New()

	t.Run("unassigned task notifies only the creator", func(t *testing.T) {
		targets := TargetsForUpdate(taskWith(creatorID, nil), nil)
		assert.Equal(t, []Notification{
			{UserID: creatorID, Type: EventTaskUpdated},
		}, targets)
	})

	t.Run("assigned task notifies creator and assignee", func(t *testing.T) {
		targets := TargetsForUpdate(taskWith(creatorID, &assigneeID), nil)
		assert.Equal(t, []Notification{
			{UserID: creatorID, Type: EventTaskUpdated},
			{UserID: assigneeID, Type: EventTaskUpdated},
		}, targets)
	})

	t.Run("creator-assigned task does not double-notify the creator", func(t *testing.T) {
		targets := TargetsForUpdate(taskWith(creatorID, &creatorID), nil)
		assert.Equal(t, []Notification{
			{UserID: creatorID, Type: EventTaskUpdated},
		}, targets)
	})

	t.Run("first assignment adds taskAssigned for the new assignee", func(t *testing.T) {
		targets := TargetsForUpdate(taskWith(creatorID, nil), &newAssigneeID)
		assert.Equal(t, []Notification{
			{UserID: creatorID, Type: EventTaskUpdated},
			{UserID: newAssigneeID, Type: EventTaskAssigned},
		}, targets)
	})

	t.Run("reassignment notifies old parties and the new assignee", func(t *testing.T) {
		targets := TargetsForUpdate(taskWith(creatorID, &assigneeID), &newAssigneeID)
		assert.Equal(t, []Notification{
			{UserID: creatorID, Type: EventTaskUpdated},
			{UserID: assigneeID, Type: EventTaskUpdated},
			{UserID: newAssigneeID, Type: EventTaskAssigned},
		}, targets)
	})

	t.Run("patch carrying the unchanged assignee adds nothing", func(t *testing.T) {
		targets := TargetsForUpdate(taskWith(creatorID, &assigneeID), &assigneeID)
		assert.Equal(t, []Notification{
			{UserID: creatorID, Type: EventTaskUpdated},
			{UserID: assigneeID, Type: EventTaskUpdated},
		}, targets)
	})

	t.Run("creator reassigning to themselves receives both event types", func(t *testing.T) {
		targets := TargetsForUpdate(taskWith(creatorID, &assigneeID), &creatorID)
		assert.Equal(t, []Notification{
			{UserID: creatorID, Type: EventTaskUpdated},
			{UserID: assigneeID, Type: EventTaskUpdated},
			{UserID: creatorID, Type: EventTaskAssigned},
		}, targets)
	})
}

func TestTargetsForDelete(t *testing.T) {
	creatorID := uuid.New()
	assigneeID := uuid.New()

	t.Run("unassigned task notifies only the creator", func(t *testing.T) {
		targets := TargetsForDelete(taskWith(creatorID, nil))
		assert.Equal(t, []Notification{
			{UserID: creatorID, Type: EventTaskDeleted},
		}, targets)
	})

	t.Run("assigned task notifies creator and assignee", func(t *testing.T) {
		targets := TargetsForDelete(taskWith(creatorID, &assigneeID))
		assert.Equal(t, []Notification{
			{UserID: creatorID, Type: EventTaskDeleted},
			{UserID: assigneeID, Type: EventTaskDeleted},
		}, targets)
	})

	t.Run("creator-assigned task notifies the creator once", func(t *testing.T) {
		targets := TargetsForDelete(taskWith(creatorID, &creatorID))
		assert.Equal(t, []Notification{
			{UserID: creatorID, Type: EventTaskDeleted},
		}, targets)
	})
}

func TestNewTaskEvent(t *testing.T) {
	task := taskWith(uuid.New(), nil)

	event := NewTaskEvent(EventTaskUpdated, task)

	assert.NotEqual(t, uuid.Nil, event.ID)
	assert.Equal(t, EventTaskUpdated, event.Type)
	assert.Same(t, task, event.Task)
	assert.False(t, event.OccurredAt.IsZero())
}
