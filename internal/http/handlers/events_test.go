package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"framebrew/internal/domain"
	"framebrew/internal/events"
)

func TestEventsStreamReplaysHistory(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	app.Bus.Publish(events.Event{Type: events.EventTypeStatus, JobID: "j1", VideoID: "v1", Status: domain.JobStatusRunning})
	app.Bus.Publish(events.Event{Type: events.EventTypeStatus, JobID: "j1", VideoID: "v1", Status: domain.JobStatusReady})

	// A pre-cancelled context makes the handler return right after replay.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil).WithContext(ctx)
	req.Header.Set("Last-Event-ID", "1")
	rec := httptest.NewRecorder()

	app.EventsStream(rec, req)

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type = %q", ct)
	}
	body := rec.Body.String()
	if strings.Contains(body, `"status":"running"`) {
		t.Fatalf("replay included event at or before Last-Event-ID:\n%s", body)
	}
	if !strings.Contains(body, "id: 2\n") || !strings.Contains(body, `"status":"ready"`) {
		t.Fatalf("replay missing later event:\n%s", body)
	}
}

func TestEventsStreamWritesEachEventOnce(t *testing.T) {
	app, _, _, _ := newTestApp(t)

	app.Bus.Publish(events.Event{Type: events.EventTypeStatus, JobID: "j1", VideoID: "v1", Status: domain.JobStatusQueued})

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/v1/events", nil).WithContext(ctx)
	rec := httptest.NewRecorder()

	subscribers := app.Bus.SubscriberCount()
	done := make(chan struct{})
	go func() {
		defer close(done)
		app.EventsStream(rec, req)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for app.Bus.SubscriberCount() == subscribers {
		if time.Now().After(deadline) {
			t.Fatal("stream never subscribed")
		}
		time.Sleep(time.Millisecond)
	}

	app.Bus.Publish(events.Event{Type: events.EventTypeStatus, JobID: "j1", VideoID: "v1", Status: domain.JobStatusRunning})
	app.Bus.Publish(events.Event{Type: events.EventTypeStatus, JobID: "j1", VideoID: "v1", Status: domain.JobStatusReady})

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	for seq := 1; seq <= 3; seq++ {
		marker := "id: " + strconv.Itoa(seq) + "\n"
		if got := strings.Count(body, marker); got != 1 {
			t.Fatalf("event %d written %d times:\n%s", seq, got, body)
		}
	}
}
