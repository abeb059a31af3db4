// Package notify delivers task events to users' live sessions.
//
// The mutation orchestrator only ever sees the Publisher interface —
// "deliver this event to every session of this user identity" — so the
// transport (in-process hub, Redis bridge, Kafka audit mirror) is
// swappable and the dispatch rules are testable with a recording fake.
// Delivery is best-effort: no persistence, no replay, no acknowledgment.
// A user with no connected session silently receives nothing.
package notify

import (
	"context"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/events"
)

// Publisher dispatches a task event to all live sessions of a user
// identity. Implementations must be safe for concurrent use and must
// never block on slow or absent consumers; an error return indicates a
// transport fault, which callers log and otherwise ignore.
type Publisher interface {
	Publish(ctx context.Context, userID uuid.UUID, event *events.TaskEvent) error
}

// PublisherFunc adapts a function to the Publisher interface.
type PublisherFunc func(ctx context.Context, userID uuid.UUID, event *events.TaskEvent) error

// Publish implements Publisher.
func (f PublisherFunc) Publish(
	ctx context.Context,
	userID uuid.UUID,
	event *events.TaskEvent,
) error {
	return f(ctx, userID, event)
}
