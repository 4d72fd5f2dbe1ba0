package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"framebrew/internal/domain"
)

func seedVideo(t *testing.T, s *Store, id, title string, status domain.VideoStatus, overall int, created time.Time) {
	t.Helper()
	v := &domain.Video{
		ID:        id,
		OrgID:     "org1",
		ProjectID: "p1",
		Title:     title,
		Status:    status,
		Source:    domain.VideoSourceGenerated,
		CreatedAt: created,
	}
	if overall >= 0 {
		v.Score = &domain.ScoreBundle{Overall: overall}
	}
	if err := s.Videos().Create(context.Background(), v); err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestVideoGetCopiesRecord(t *testing.T) {
	s := New()
	seedVideo(t, s, "v1", "One", domain.VideoStatusReady, 80, time.Now())

	got, err := s.Videos().GetByID(context.Background(), "v1")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	got.Title = "mutated"

	again, _ := s.Videos().GetByID(context.Background(), "v1")
	if again.Title != "One" {
		t.Fatalf("store record mutated through returned copy: %q", again.Title)
	}
}

func TestVideoListFiltersAndSorts(t *testing.T) {
	s := New()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	seedVideo(t, s, "v1", "Alpha promo", domain.VideoStatusReady, 95, base)
	seedVideo(t, s, "v2", "Beta teaser", domain.VideoStatusReady, 70, base.Add(time.Hour))
	seedVideo(t, s, "v3", "Gamma draft", domain.VideoStatusQueued, -1, base.Add(2*time.Hour))

	items, total, err := s.Videos().List(context.Background(), "org1", domain.VideoFilter{
		Statuses: []domain.VideoStatus{domain.VideoStatusReady},
		Sort:     domain.VideoSortScoreHigh,
	})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	if items[0].ID != "v1" || items[1].ID != "v2" {
		t.Fatalf("unexpected order: %s, %s", items[0].ID, items[1].ID)
	}

	items, _, err = s.Videos().List(context.Background(), "org1", domain.VideoFilter{Query: "beta"})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 1 || items[0].ID != "v2" {
		t.Fatalf("query filter mismatch: %+v", items)
	}

	items, _, _ = s.Videos().List(context.Background(), "org1", domain.VideoFilter{MinScore: 80})
	if len(items) != 1 || items[0].ID != "v1" {
		t.Fatalf("minScore filter mismatch: %+v", items)
	}
}

func TestJobUpdateRejectsTerminal(t *testing.T) {
	s := New()
	job := &domain.GenerationJob{ID: "j1", VideoID: "v1", Status: domain.JobStatusReady}
	if err := s.Jobs().Create(context.Background(), job); err != nil {
		t.Fatalf("Create: %v", err)
	}

	job.Status = domain.JobStatusRunning
	err := s.Jobs().Update(context.Background(), job)
	if !errors.Is(err, domain.ErrJobFrozen) {
		t.Fatalf("Update on terminal job = %v, want ErrJobFrozen", err)
	}
}

func TestJobCreateRejectsSecondActive(t *testing.T) {
	s := New()
	ctx := context.Background()
	if err := s.Jobs().Create(ctx, &domain.GenerationJob{ID: "j1", VideoID: "v1", Status: domain.JobStatusRunning}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := s.Jobs().Create(ctx, &domain.GenerationJob{ID: "j2", VideoID: "v1", Status: domain.JobStatusQueued})
	if !errors.Is(err, domain.ErrJobActive) {
		t.Fatalf("second active job = %v, want ErrJobActive", err)
	}

	// A different video, or a terminal record, is unaffected.
	if err := s.Jobs().Create(ctx, &domain.GenerationJob{ID: "j3", VideoID: "v2", Status: domain.JobStatusQueued}); err != nil {
		t.Fatalf("other video: %v", err)
	}
	if err := s.Jobs().Create(ctx, &domain.GenerationJob{ID: "j4", VideoID: "v1", Status: domain.JobStatusFailed}); err != nil {
		t.Fatalf("terminal record: %v", err)
	}
}

func TestActiveByVideoID(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Jobs().Create(ctx, &domain.GenerationJob{ID: "j1", VideoID: "v1", Status: domain.JobStatusReady})
	_ = s.Jobs().Create(ctx, &domain.GenerationJob{ID: "j2", VideoID: "v1", Status: domain.JobStatusRunning})

	got, err := s.Jobs().ActiveByVideoID(ctx, "v1")
	if err != nil {
		t.Fatalf("ActiveByVideoID: %v", err)
	}
	if got.ID != "j2" {
		t.Fatalf("active job = %s, want j2", got.ID)
	}

	if _, err := s.Jobs().ActiveByVideoID(ctx, "v2"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing video err = %v, want ErrNotFound", err)
	}
}

func TestProjectDeleteBlockedByVideos(t *testing.T) {
	s := New()
	ctx := context.Background()
	_ = s.Projects().Create(ctx, &domain.Project{ID: "p1", OrgID: "org1", Name: "Launch"})
	seedVideo(t, s, "v1", "One", domain.VideoStatusReady, 80, time.Now())

	if err := s.Projects().Delete(ctx, "p1"); !errors.Is(err, domain.ErrProjectNotEmpty) {
		t.Fatalf("Delete = %v, want ErrProjectNotEmpty", err)
	}

	_ = s.Videos().Delete(ctx, "v1")
	if err := s.Projects().Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete after video removal: %v", err)
	}
}

func TestResetClearsEverything(t *testing.T) {
	s := New()
	seedVideo(t, s, "v1", "One", domain.VideoStatusReady, 80, time.Now())
	s.Reset()

	_, total, err := s.Videos().List(context.Background(), "", domain.VideoFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 0 {
		t.Fatalf("total after Reset = %d, want 0", total)
	}
}
