package events

import (
	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/domain"
)

// Notification pairs a target user identity with the event type they
// should receive. Target computation is pure: no side effects, no error
// conditions — callers guarantee the task snapshot is non-nil.
type Notification struct {
	UserID uuid.UUID
	Type   EventType
}

// TargetsForCreate computes the notifications for a freshly created task.
// Only a non-nil assignee is notified, with a taskAssigned event; an
// unassigned task notifies nobody.
func TargetsForCreate(task *domain.Task) []Notification {
	if task.AssignedToID == nil {
		return nil
	}
	return []Notification{{UserID: *task.AssignedToID, Type: EventTaskAssigned}}
}

// TargetsForUpdate computes the notifications for an updated task.
// prev is the pre-write snapshot the policy decision was made against;
// newAssignee is the assignee value carried by the patch, or nil when the
// patch did not set one.
//
// The original parties (creator, and pre-update assignee when distinct
// from the creator) each receive taskUpdated once. If the patch moved the
// task to a new non-nil assignee different from the previous one, that
// user additionally receives taskAssigned — distinct event types are not
// deduplicated against each other, so a creator reassigning a task to
// themselves sees both.
func TargetsForUpdate(prev *domain.Task, newAssignee *uuid.UUID) []Notification {
	targets := []Notification{{UserID: prev.CreatorID, Type: EventTaskUpdated}}

	if prev.AssignedToID != nil && *prev.AssignedToID != prev.CreatorID {
		targets = append(targets, Notification{UserID: *prev.AssignedToID, Type: EventTaskUpdated})
	}

	if newAssignee != nil && (prev.AssignedToID == nil || *newAssignee != *prev.AssignedToID) {
		targets = append(targets, Notification{UserID: *newAssignee, Type: EventTaskAssigned})
	}

	return targets
}

// TargetsForDelete computes the notifications for a deleted task:
// the creator, and the assignee when distinct from the creator, each
// receive taskDeleted once.
func TargetsForDelete(task *domain.Task) []Notification {
	targets := []Notification{{UserID: task.CreatorID, Type: EventTaskDeleted}}

	if task.AssignedToID != nil && *task.AssignedToID != task.CreatorID {
		targets = append(targets, Notification{UserID: *task.AssignedToID, Type: EventTaskDeleted})
	}

	return targets
}
