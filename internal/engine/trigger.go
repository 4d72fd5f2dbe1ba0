package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"framebrew/internal/domain"
	"framebrew/internal/events"
)

const (
	MaxPromptLen   = 2000
	MinDurationSec = 3
	MaxDurationSec = 60
)

// TriggerRequest carries a validated generation creation request.
type TriggerRequest struct {
	OrgID          string
	ProjectID      string
	Prompt         string
	NegativePrompt string
	StylePreset    string
	Model          domain.GenerationModel
	DurationSec    float64
	AspectRatio    string
	Resolution     string
}

func (r *TriggerRequest) normalize() error {
	r.Prompt = strings.TrimSpace(r.Prompt)
	if r.Prompt == "" {
		return fmt.Errorf("%w: prompt is required", domain.ErrInvalidArgument)
	}
	if len(r.Prompt) > MaxPromptLen {
		return fmt.Errorf("%w: prompt exceeds %d characters", domain.ErrInvalidArgument, MaxPromptLen)
	}
	if r.DurationSec < MinDurationSec || r.DurationSec > MaxDurationSec {
		return fmt.Errorf("%w: durationSec must be between %d and %d", domain.ErrInvalidArgument, MinDurationSec, MaxDurationSec)
	}
	if r.AspectRatio == "" {
		r.AspectRatio = "16:9"
	}
	if r.Resolution == "" {
		r.Resolution = "1080p"
	}
	if r.Model == "" {
		r.Model = domain.GenerationModelStable
	}
	return nil
}

// Trigger allocates a queued video/job pair for the request, arms the
// progression timer and returns both records immediately. Generation work is
// deferred to the scheduled advances.
func (e *Engine) Trigger(ctx context.Context, req TriggerRequest) (*domain.Video, *domain.GenerationJob, error) {
	if err := req.normalize(); err != nil {
		return nil, nil, err
	}
	project, err := e.store.Projects().GetByID(ctx, req.ProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("project %s: %w", req.ProjectID, err)
	}

	now := time.Now().UTC()
	video := &domain.Video{
		ID:          uuid.NewString(),
		OrgID:       project.OrgID,
		ProjectID:   project.ID,
		Title:       titleFromPrompt(req.Prompt),
		Status:      domain.VideoStatusQueued,
		Source:      domain.VideoSourceGenerated,
		DurationSec: req.DurationSec,
		AspectRatio: req.AspectRatio,
		Resolution:  req.Resolution,
		Version:     1,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	job := newJob(video, req, now)

	if err := e.store.Videos().Create(ctx, video); err != nil {
		return nil, nil, fmt.Errorf("create video: %w", err)
	}
	if err := e.store.Jobs().Create(ctx, job); err != nil {
		return nil, nil, fmt.Errorf("create job: %w", err)
	}

	e.logger.Info().
		Str("job_id", job.ID).
		Str("video_id", video.ID).
		Str("project_id", project.ID).
		Msg("engine: generation queued")

	e.publishQueued(job, video)
	e.Start(job.ID)
	return video, job, nil
}

// Retrigger starts a fresh generation for an existing video. A video with an
// active job rejects the second request with ErrJobActive.
func (e *Engine) Retrigger(ctx context.Context, videoID string, req TriggerRequest) (*domain.Video, *domain.GenerationJob, error) {
	if err := req.normalize(); err != nil {
		return nil, nil, err
	}
	video, err := e.store.Videos().GetByID(ctx, videoID)
	if err != nil {
		return nil, nil, fmt.Errorf("video %s: %w", videoID, err)
	}
	if _, err := e.store.Jobs().ActiveByVideoID(ctx, videoID); err == nil {
		return nil, nil, domain.ErrJobActive
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, nil, fmt.Errorf("check active job: %w", err)
	}

	now := time.Now().UTC()
	video.Status = domain.VideoStatusQueued
	video.Source = domain.VideoSourceGenerated
	video.DurationSec = req.DurationSec
	video.AspectRatio = req.AspectRatio
	video.Resolution = req.Resolution
	video.URLs = domain.URLBundle{}
	video.Score = nil
	if err := e.store.Videos().Update(ctx, video); err != nil {
		return nil, nil, fmt.Errorf("update video: %w", err)
	}

	job := newJob(video, req, now)
	if err := e.store.Jobs().Create(ctx, job); err != nil {
		return nil, nil, fmt.Errorf("create job: %w", err)
	}

	e.logger.Info().
		Str("job_id", job.ID).
		Str("video_id", video.ID).
		Msg("engine: regeneration queued")

	e.publishQueued(job, video)
	e.Start(job.ID)
	return video, job, nil
}

// publishQueued announces a freshly committed pair so subscribers observe
// every job from its first status onward. No snapshot: the video carries no
// URLs or score yet.
func (e *Engine) publishQueued(job *domain.GenerationJob, video *domain.Video) {
	e.bus.Publish(events.Event{
		Type:    events.EventTypeStatus,
		JobID:   job.ID,
		VideoID: video.ID,
		Status:  domain.JobStatusQueued,
	})
}

func newJob(video *domain.Video, req TriggerRequest, now time.Time) *domain.GenerationJob {
	return &domain.GenerationJob{
		ID:             uuid.NewString(),
		VideoID:        video.ID,
		OrgID:          video.OrgID,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		StylePreset:    req.StylePreset,
		Model:          req.Model,
		Status:         domain.JobStatusQueued,
		Progress:       0,
		CreatedAt:      now,
	}
}

func titleFromPrompt(prompt string) string {
	const maxTitle = 64
	title := strings.Join(strings.Fields(prompt), " ")
	runes := []rune(title)
	if len(runes) <= maxTitle {
		return title
	}
	cut := string(runes[:maxTitle])
	if idx := strings.LastIndex(cut, " "); idx > len(cut)/2 {
		cut = cut[:idx]
	}
	return cut
}
