package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/phrazzld/taskboard-api/internal/api/shared"
	"github.com/phrazzld/taskboard-api/internal/domain"
	"github.com/phrazzld/taskboard-api/internal/events"
	"github.com/phrazzld/taskboard-api/internal/notify"
)

// streamRecorder is a flushable ResponseWriter safe for concurrent
// inspection while the streaming handler writes to it.
type streamRecorder struct {
	mu     sync.Mutex
	header http.Header
	status int
	body   bytes.Buffer
}

func newStreamRecorder() *streamRecorder {
	return &streamRecorder{header: make(http.Header)}
}

func (r *streamRecorder) Header() http.Header {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.header
}

func (r *streamRecorder) WriteHeader(status int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = status
}

func (r *streamRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.Write(p)
}

func (r *streamRecorder) Flush() {}

func (r *streamRecorder) Body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.body.String()
}

func (r *streamRecorder) ContentType() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.header.Get("Content-Type")
}

func TestEventsHandlerStream(t *testing.T) {
	hub := notify.NewHub(nil)
	handler := NewEventsHandler(hub, nil)
	userID := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	ctx = context.WithValue(ctx, shared.UserIDContextKey, userID)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil).WithContext(ctx)
	rec := newStreamRecorder()

	done := make(chan struct{})
	go func() {
		handler.Stream(rec, req)
		close(done)
	}()

	// The handler subscribes asynchronously; retry publishing until the
	// frame shows up or the deadline passes.
	deadline := time.Now().Add(time.Second)
	for {
		event := events.NewTaskEvent(events.EventTaskAssigned, &domain.Task{
			ID:    uuid.New(),
			Title: "streamed task",
		})
		if err := hub.Publish(context.Background(), userID, event); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		time.Sleep(10 * time.Millisecond)
		if strings.Contains(rec.Body(), "event: taskAssigned") {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Timed out waiting for the event frame")
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Handler did not exit on context cancellation")
	}

	body := rec.Body()
	if !strings.Contains(body, ": connected") {
		t.Error("Expected the initial connected comment frame")
	}
	if !strings.Contains(body, `"title":"streamed task"`) {
		t.Error("Expected the task payload in the data frame")
	}
	if got := rec.ContentType(); got != "text/event-stream" {
		t.Errorf("Expected text/event-stream content type, got %q", got)
	}
}

func TestEventsHandlerRequiresAuthentication(t *testing.T) {
	handler := NewEventsHandler(notify.NewHub(nil), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec := httptest.NewRecorder()
	handler.Stream(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", rec.Code)
	}
}
