package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/events"
)

// sessionBuffer is the per-session channel depth. A session that falls
// this far behind starts losing events rather than blocking publishers.
const sessionBuffer = 16

// Hub is the process-wide session registry: each user identity maps to
// the set of live sessions currently subscribed under it. Publishing to
// an identity fans the event out to every one of its sessions; an
// identity with no sessions drops the event on the floor.
type Hub struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]map[*session]struct{}
	logger   *slog.Logger
}

// session is a single live subscription for one user identity.
type session struct {
	userID uuid.UUID
	ch     chan *events.TaskEvent
}

// NewHub creates an empty Hub.
func NewHub(log *slog.Logger) *Hub {
	if log == nil {
		log = slog.Default()
	}
	return &Hub{
		sessions: make(map[uuid.UUID]map[*session]struct{}),
		logger:   log.With(slog.String("component", "notify_hub")),
	}
}

// Ensure Hub implements Publisher
var _ Publisher = (*Hub)(nil)

// Subscribe registers a new live session for userID and returns the
// channel events arrive on plus a cancel function that must be called
// when the session ends. A user may hold any number of concurrent
// sessions.
func (h *Hub) Subscribe(userID uuid.UUID) (<-chan *events.TaskEvent, func()) {
	s := &session{
		userID: userID,
		ch:     make(chan *events.TaskEvent, sessionBuffer),
	}

	h.mu.Lock()
	if h.sessions[userID] == nil {
		h.sessions[userID] = make(map[*session]struct{})
	}
	h.sessions[userID][s] = struct{}{}
	count := len(h.sessions[userID])
	h.mu.Unlock()

	h.logger.Debug("session subscribed",
		slog.String("user_id", userID.String()),
		slog.Int("session_count", count))

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			// Closing under the write lock: no publisher holds the
			// read lock mid-send when the channel closes.
			h.mu.Lock()
			if set, ok := h.sessions[userID]; ok {
				delete(set, s)
				if len(set) == 0 {
					delete(h.sessions, userID)
				}
			}
			close(s.ch)
			h.mu.Unlock()

			h.logger.Debug("session unsubscribed",
				slog.String("user_id", userID.String()))
		})
	}

	return s.ch, cancel
}

// Publish implements Publisher. The event is offered to every session of
// the user; sessions with full buffers lose the event rather than
// blocking the caller. Sends happen under the read lock, so a session
// channel is never closed while a send to it is in flight.
func (h *Hub) Publish(ctx context.Context, userID uuid.UUID, event *events.TaskEvent) error {
	h.mu.RLock()
	set := h.sessions[userID]
	if len(set) == 0 {
		h.mu.RUnlock()
		h.logger.Debug("no live sessions for user, dropping event",
			slog.String("user_id", userID.String()),
			slog.String("event_type", string(event.Type)))
		return nil
	}

	dropped := 0
	for s := range set {
		select {
		case s.ch <- event:
		default:
			dropped++
		}
	}
	h.mu.RUnlock()

	if dropped > 0 {
		h.logger.Warn("session buffer full, dropping event",
			slog.String("user_id", userID.String()),
			slog.String("event_type", string(event.Type)),
			slog.Int("sessions_dropped", dropped))
	}

	return nil
}
