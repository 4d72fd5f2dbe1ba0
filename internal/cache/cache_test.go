package cache

import (
	"reflect"
	"testing"

	"framebrew/internal/domain"
	"framebrew/internal/events"
)

func video(id, title string, status domain.VideoStatus) domain.Video {
	return domain.Video{ID: id, Title: title, Status: status}
}

func readyEvent(id string, v domain.Video) events.Event {
	return events.Event{
		Type:    events.EventTypeStatus,
		JobID:   "job-" + id,
		VideoID: id,
		Status:  domain.JobStatusReady,
		Video:   &v,
	}
}

func TestAttachToFollowsBusEvents(t *testing.T) {
	var notes []Notification
	s := NewStore(func(n Notification) { notes = append(notes, n) })
	bus := events.NewBus(10)
	sub := s.AttachTo(bus)

	s.SetList("videos", []domain.Video{video("a", "Alpha", domain.VideoStatusQueued)}, 1)
	s.SetDetail("a", video("a", "Alpha", domain.VideoStatusQueued))

	bus.Publish(events.Event{
		Type: events.EventTypeStatus, JobID: "job-a", VideoID: "a",
		Status: domain.JobStatusRunning,
	})
	entry, _ := s.List("videos")
	if entry.Items[0].Status != domain.VideoStatusRunning {
		t.Fatalf("list status = %s, want running", entry.Items[0].Status)
	}
	detail, _ := s.Detail("a")
	if detail.Status != domain.VideoStatusRunning {
		t.Fatalf("detail status = %s, want running", detail.Status)
	}

	final := video("a", "Alpha", domain.VideoStatusReady)
	final.URLs.MP4 = "https://cdn.test/a.mp4"
	bus.Publish(readyEvent("a", final))
	if len(notes) != 1 || notes[0].Level != LevelSuccess {
		t.Fatalf("notifications = %+v, want one success", notes)
	}

	sub.Unsubscribe()
	bus.Publish(events.Event{
		Type: events.EventTypeStatus, JobID: "job-a", VideoID: "a",
		Status: domain.JobStatusFailed, Error: "late",
	})
	if len(notes) != 1 {
		t.Fatalf("detached cache still received events: %+v", notes)
	}
}

func TestApplyStatusReplacesMatchingEntry(t *testing.T) {
	s := NewStore(nil)
	a := video("a", "Alpha", domain.VideoStatusReady)
	b := video("b", "Beta", domain.VideoStatusScoring)
	s.SetList("videos", []domain.Video{a, b}, 2)

	updated := video("b", "Beta final", domain.VideoStatusReady)
	updated.URLs.MP4 = "https://cdn.test/b.mp4"
	s.ApplyStatus(readyEvent("b", updated))

	entry, ok := s.List("videos")
	if !ok {
		t.Fatalf("list cache missing")
	}
	if !reflect.DeepEqual(entry.Items[0], a) {
		t.Fatalf("entry A changed: %+v", entry.Items[0])
	}
	if !reflect.DeepEqual(entry.Items[1], updated) {
		t.Fatalf("entry B not replaced: %+v", entry.Items[1])
	}
	if entry.Total != 2 {
		t.Fatalf("total = %d, want 2", entry.Total)
	}
}

func TestApplyStatusIntermediateOnlyTouchesStatus(t *testing.T) {
	s := NewStore(nil)
	b := video("b", "Beta", domain.VideoStatusQueued)
	s.SetList("videos", []domain.Video{b}, 1)
	s.SetDetail("video:b", b)

	s.ApplyStatus(events.Event{
		Type: events.EventTypeStatus, VideoID: "b", JobID: "j1",
		Status: domain.JobStatusTranscoding,
	})

	entry, _ := s.List("videos")
	if entry.Items[0].Status != domain.VideoStatusTranscoding {
		t.Fatalf("list status = %s, want transcoding", entry.Items[0].Status)
	}
	if entry.Items[0].Title != "Beta" {
		t.Fatalf("title changed on intermediate event")
	}
	detail, _ := s.Detail("video:b")
	if detail.Status != domain.VideoStatusTranscoding {
		t.Fatalf("detail status = %s, want transcoding", detail.Status)
	}
}

func TestApplyStatusIdempotent(t *testing.T) {
	s := NewStore(nil)
	s.SetList("videos", []domain.Video{video("b", "Beta", domain.VideoStatusScoring)}, 1)

	updated := video("b", "Beta final", domain.VideoStatusReady)
	evt := readyEvent("b", updated)
	s.ApplyStatus(evt)
	once, _ := s.List("videos")

	s.ApplyStatus(evt)
	twice, _ := s.List("videos")

	if !reflect.DeepEqual(once, twice) {
		t.Fatalf("duplicate delivery changed cache: %+v vs %+v", once, twice)
	}
}

func TestApplyStatusPrependsUnknownReadyVideo(t *testing.T) {
	s := NewStore(nil)
	s.SetList("all", []domain.Video{video("a", "Alpha", domain.VideoStatusReady)}, 1)
	s.SetList("recent", nil, 0)

	fresh := video("new", "Newcomer", domain.VideoStatusReady)
	s.ApplyStatus(readyEvent("new", fresh))

	for _, key := range []string{"all", "recent"} {
		entry, _ := s.List(key)
		if len(entry.Items) == 0 || entry.Items[0].ID != "new" {
			t.Fatalf("list %q missing prepended video: %+v", key, entry.Items)
		}
	}
	all, _ := s.List("all")
	if all.Total != 2 {
		t.Fatalf("total = %d, want 2", all.Total)
	}

	// Applying again must not prepend a second copy.
	s.ApplyStatus(readyEvent("new", fresh))
	all, _ = s.List("all")
	if len(all.Items) != 2 {
		t.Fatalf("duplicate delivery duplicated entry: %d items", len(all.Items))
	}
}

func TestNotificationsOnTerminalOnly(t *testing.T) {
	var got []Notification
	s := NewStore(func(n Notification) { got = append(got, n) })
	s.SetList("videos", []domain.Video{video("b", "Beta", domain.VideoStatusQueued)}, 1)

	for _, status := range []domain.JobStatus{
		domain.JobStatusRunning, domain.JobStatusTranscoding, domain.JobStatusScoring,
	} {
		s.ApplyStatus(events.Event{Type: events.EventTypeStatus, VideoID: "b", Status: status})
	}
	if len(got) != 0 {
		t.Fatalf("intermediate transitions raised notifications: %+v", got)
	}

	s.ApplyStatus(readyEvent("b", video("b", "Beta", domain.VideoStatusReady)))
	s.ApplyStatus(events.Event{
		Type: events.EventTypeStatus, VideoID: "b", Status: domain.JobStatusFailed,
		Error: "provider timeout",
	})

	if len(got) != 2 {
		t.Fatalf("notifications = %d, want 2", len(got))
	}
	if got[0].Level != LevelSuccess {
		t.Fatalf("first notification = %+v, want success", got[0])
	}
	if got[1].Level != LevelError || got[1].Message != "provider timeout" {
		t.Fatalf("second notification = %+v, want error with reason", got[1])
	}
}
