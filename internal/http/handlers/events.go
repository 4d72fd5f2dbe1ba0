package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"framebrew/internal/events"
)

// EventsStream serves the server-sent-events channel for status updates.
// Clients reconnect with Last-Event-ID to replay missed events from the
// bus's bounded history.
func (a *App) EventsStream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		a.error(w, http.StatusInternalServerError, "internal", "streaming unsupported")
		return
	}

	// The server's WriteTimeout would sever this long-lived response;
	// lift the deadline for the stream only.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	var lastSeq int64
	if raw := r.Header.Get("Last-Event-ID"); raw != "" {
		if seq, err := strconv.ParseInt(raw, 10, 64); err == nil {
			lastSeq = seq
		}
	}

	// Buffered so a slow client cannot stall bus delivery; overflow drops
	// the event and the client recovers via Last-Event-ID replay.
	ch := make(chan events.Event, 64)
	sub := a.Bus.Subscribe(func(e events.Event) {
		select {
		case ch <- e:
		default:
		}
	})
	defer sub.Unsubscribe()

	// An event published between Subscribe and the history read lands in
	// both; written tracks the highest replayed sequence so the channel
	// copy is skipped.
	written := lastSeq
	for _, e := range a.Bus.Since(lastSeq) {
		if !writeSSE(w, e) {
			return
		}
		if e.Seq > written {
			written = e.Seq
		}
	}
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-ch:
			if e.Seq <= written {
				continue
			}
			if !writeSSE(w, e) {
				return
			}
			written = e.Seq
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, e events.Event) bool {
	data, err := json.Marshal(e)
	if err != nil {
		return false
	}
	if _, err := fmt.Fprintf(w, "id: %d\nevent: %s\ndata: %s\n\n", e.Seq, e.Type, data); err != nil {
		return false
	}
	return true
}
