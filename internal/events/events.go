package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// EventType labels a notification delivered over a user's live channel.
// The values are the wire names the web client listens for.
type EventType string

// Task event types
const (
	// EventTaskAssigned is delivered to a user when a task is assigned
	// to them, either at creation or through reassignment.
	EventTaskAssigned EventType = "taskAssigned"

	// EventTaskUpdated is delivered to a task's original parties
	// (creator and pre-update assignee) after any successful update.
	EventTaskUpdated EventType = "taskUpdated"

	// EventTaskDeleted is delivered to a task's creator and assignee
	// after the task is removed.
	EventTaskDeleted EventType = "taskDeleted"
)

// TaskEvent is the payload dispatched to a notification target. Task is
// the post-write snapshot for assigned/updated events and the pre-delete
// snapshot for deleted events.
type TaskEvent struct {
	ID         uuid.UUID    `json:"id"`
	Type       EventType    `json:"type"`
	Task       *domain.Task `json:"task"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// NewTaskEvent creates a TaskEvent of the given type carrying the task
// snapshot.
func NewTaskEvent(eventType EventType, task *domain.Task) *TaskEvent {
	return &TaskEvent{
		ID:         uuid.New(),
		Type:       eventType,
		Task:       task,
		OccurredAt: time.Now().UTC(),
	}
}
