// Package cache mirrors the query caches a client keeps for video
// collections and details, and patches them in place as status events
// arrive. Applying the same event twice is a no-op because patches
// overwrite matching fields instead of accumulating.
package cache

import (
	"sync"

	"framebrew/internal/domain"
	"framebrew/internal/events"
)

// ListEntry is a cached list-shaped query result.
type ListEntry struct {
	Items []domain.Video
	Total int
}

// Level classifies user-facing notifications.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is raised on terminal transitions only.
type Notification struct {
	Level   Level
	VideoID string
	JobID   string
	Message string
}

// NotifyFunc receives terminal-state notifications.
type NotifyFunc func(Notification)

// Store holds the cached result sets and keeps them synchronized with
// status events.
type Store struct {
	mu      sync.Mutex
	lists   map[string]*ListEntry
	details map[string]*domain.Video
	notify  NotifyFunc
}

// NewStore constructs an empty cache. notify may be nil.
func NewStore(notify NotifyFunc) *Store {
	return &Store{
		lists:   make(map[string]*ListEntry),
		details: make(map[string]*domain.Video),
		notify:  notify,
	}
}

// SetList stores a list-shaped result under key.
func (s *Store) SetList(key string, items []domain.Video, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]domain.Video, len(items))
	copy(cp, items)
	s.lists[key] = &ListEntry{Items: cp, Total: total}
}

// List returns a copy of the cached list under key.
func (s *Store) List(key string) (ListEntry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.lists[key]
	if !ok {
		return ListEntry{}, false
	}
	cp := make([]domain.Video, len(entry.Items))
	copy(cp, entry.Items)
	return ListEntry{Items: cp, Total: entry.Total}, true
}

// SetDetail stores a detail-shaped result under key.
func (s *Store) SetDetail(key string, video domain.Video) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := video
	s.details[key] = &cp
}

// Detail returns a copy of the cached detail under key.
func (s *Store) Detail(key string) (domain.Video, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.details[key]
	if !ok {
		return domain.Video{}, false
	}
	return *v, true
}

// ApplyStatus patches every cached result set matching the event's video.
// When a ready event arrives for a video no list knows about, the attached
// snapshot is prepended to every list cache as a new arrival.
func (s *Store) ApplyStatus(evt events.Event) {
	if evt.Type != events.EventTypeStatus {
		return
	}
	s.mu.Lock()
	status := domain.VideoStatus(evt.Status)
	matched := false

	for _, entry := range s.lists {
		for i := range entry.Items {
			if entry.Items[i].ID != evt.VideoID {
				continue
			}
			matched = true
			if evt.Status == domain.JobStatusReady && evt.Video != nil {
				entry.Items[i] = *evt.Video
			} else {
				entry.Items[i].Status = status
			}
		}
	}
	for _, detail := range s.details {
		if detail.ID != evt.VideoID {
			continue
		}
		matched = true
		if evt.Status == domain.JobStatusReady && evt.Video != nil {
			*detail = *evt.Video
		} else {
			detail.Status = status
		}
	}

	if !matched && evt.Status == domain.JobStatusReady && evt.Video != nil {
		for _, entry := range s.lists {
			entry.Items = append([]domain.Video{*evt.Video}, entry.Items...)
			entry.Total++
		}
	}
	notify := s.notify
	s.mu.Unlock()

	if notify == nil {
		return
	}
	switch evt.Status {
	case domain.JobStatusReady:
		notify(Notification{Level: LevelSuccess, VideoID: evt.VideoID, JobID: evt.JobID, Message: "Video is ready"})
	case domain.JobStatusFailed:
		msg := evt.Error
		if msg == "" {
			msg = "Generation failed"
		}
		notify(Notification{Level: LevelError, VideoID: evt.VideoID, JobID: evt.JobID, Message: msg})
	}
}

// AttachTo subscribes the store to a bus and returns the handle.
func (s *Store) AttachTo(bus *events.Bus) *events.Subscription {
	return bus.Subscribe(s.ApplyStatus)
}
