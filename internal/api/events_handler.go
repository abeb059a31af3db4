package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/notify"
	"github.com/phrazzld/taskboard-api/internal/platform/logger"
)

// EventsHandler streams task notifications to the authenticated user
// over Server-Sent Events. One HTTP connection corresponds to one hub
// session; a user with several open tabs holds several sessions and
// each receives every event addressed to that user.
type EventsHandler struct {
	hub    *notify.Hub
	logger *slog.Logger
}

// NewEventsHandler creates a new EventsHandler backed by the given hub.
func NewEventsHandler(hub *notify.Hub, log *slog.Logger) *EventsHandler {
	if log == nil {
		log = slog.Default()
	}

	return &EventsHandler{
		hub:    hub,
		logger: log.With(slog.String("component", "events_handler")),
	}
}

// Stream handles GET /events requests. It holds the connection open and
// writes one SSE frame per notification until the client disconnects.
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	userID, ok := getUserIDFromContext(r)
	if !ok {
		HandleAPIError(w, r, domain.ErrUnauthorized, "User ID not found or invalid")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		log.Error("response writer does not support streaming")
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	events, cancel := h.hub.Subscribe(userID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	// Announce the stream is live before any event arrives.
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	log.Debug("event stream opened", slog.String("user_id", userID.String()))

	for {
		select {
		case <-r.Context().Done():
			log.Debug("event stream closed", slog.String("user_id", userID.String()))
			return
		case event, open := <-events:
			if !open {
				return
			}

			payload, err := json.Marshal(event)
			if err != nil {
				log.Error("failed to marshal event",
					slog.String("error", err.Error()),
					slog.String("event_id", event.ID.String()))
				continue
			}

			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, payload)
			flusher.Flush()
		}
	}
}
