// Package engine drives generation jobs through their status lifecycle. The
// transition logic lives in a single Advance operation; scheduling policy
// (randomized delays) is injected so tests can advance deterministically.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"framebrew/internal/domain"
	"framebrew/internal/events"
	"framebrew/internal/infra"
)

// sequence is the fixed traversal order of a successful generation. failed is
// reachable from any non-terminal state through Fail.
var sequence = []domain.JobStatus{
	domain.JobStatusQueued,
	domain.JobStatusRunning,
	domain.JobStatusTranscoding,
	domain.JobStatusScoring,
	domain.JobStatusReady,
}

var progressByStatus = map[domain.JobStatus]int{
	domain.JobStatusQueued:      0,
	domain.JobStatusRunning:     25,
	domain.JobStatusTranscoding: 55,
	domain.JobStatusScoring:     80,
	domain.JobStatusReady:       100,
}

// ScheduleFunc defers fn by d. The default implementation uses
// time.AfterFunc; tests substitute a synchronous or manual variant.
type ScheduleFunc func(d time.Duration, fn func())

// Options configures an Engine.
type Options struct {
	Store     domain.Store
	Bus       *events.Bus
	Logger    infra.Logger
	BaseURL   string
	DelayMin  time.Duration
	DelayMax  time.Duration
	Schedule  ScheduleFunc
	RandSeed  int64
}

// Engine advances job/video pairs through the status sequence and publishes
// one event per transition.
type Engine struct {
	ctx      context.Context
	store    domain.Store
	bus      *events.Bus
	logger   infra.Logger
	baseURL  string
	delayMin time.Duration
	delayMax time.Duration
	schedule ScheduleFunc

	randMu sync.Mutex
	rand   *rand.Rand
}

// New constructs an Engine. ctx bounds all background progression; once it is
// cancelled scheduled advances become no-ops.
func New(ctx context.Context, opts Options) *Engine {
	if opts.DelayMin <= 0 {
		opts.DelayMin = 2 * time.Second
	}
	if opts.DelayMax < opts.DelayMin {
		opts.DelayMax = opts.DelayMin
	}
	schedule := opts.Schedule
	if schedule == nil {
		schedule = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	seed := opts.RandSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Engine{
		ctx:      ctx,
		store:    opts.Store,
		bus:      opts.Bus,
		logger:   opts.Logger,
		baseURL:  opts.BaseURL,
		delayMin: opts.DelayMin,
		delayMax: opts.DelayMax,
		schedule: schedule,
		rand:     rand.New(rand.NewSource(seed)),
	}
}

// Start schedules the first advance for a freshly queued job. Exactly one
// timer is outstanding per job at any time: the next one is armed only after
// the previous transition completes.
func (e *Engine) Start(jobID string) {
	e.scheduleNext(jobID)
}

func (e *Engine) scheduleNext(jobID string) {
	delay := e.nextDelay()
	e.schedule(delay, func() {
		if e.ctx.Err() != nil {
			return
		}
		if err := e.Advance(e.ctx, jobID); err != nil {
			e.logger.Error().Err(err).Str("job_id", jobID).Msg("engine: advance failed")
		}
	})
}

func (e *Engine) nextDelay() time.Duration {
	e.randMu.Lock()
	defer e.randMu.Unlock()
	span := e.delayMax - e.delayMin
	if span <= 0 {
		return e.delayMin
	}
	return e.delayMin + time.Duration(e.rand.Int63n(int64(span)))
}

// Advance moves the job and its video to the next status in the sequence,
// publishes the transition, and re-arms the timer while non-terminal states
// remain. Advancing a terminal job returns ErrJobFrozen.
func (e *Engine) Advance(ctx context.Context, jobID string) error {
	job, err := e.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if job.Status.Terminal() {
		return domain.ErrJobFrozen
	}
	next, err := nextStatus(job.Status)
	if err != nil {
		return err
	}

	video, err := e.store.Videos().GetByID(ctx, job.VideoID)
	if err != nil {
		return fmt.Errorf("load video: %w", err)
	}

	job.Status = next
	job.Progress = progressByStatus[next]
	video.Status = domain.VideoStatus(next)

	var snapshot *domain.Video
	if next == domain.JobStatusReady {
		now := time.Now().UTC()
		job.CompletedAt = &now
		video.URLs = e.urlBundle(video.ID)
		video.Score = e.scoreBundle()
	}

	if err := e.store.Jobs().Update(ctx, job); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if err := e.store.Videos().Update(ctx, video); err != nil {
		return fmt.Errorf("update video: %w", err)
	}
	if next == domain.JobStatusReady {
		snapshot = video
	}

	e.logger.Debug().
		Str("job_id", job.ID).
		Str("video_id", video.ID).
		Str("status", string(next)).
		Msg("engine: job advanced")

	e.bus.Publish(events.Event{
		Type:    events.EventTypeStatus,
		JobID:   job.ID,
		VideoID: video.ID,
		Status:  next,
		Video:   snapshot,
	})

	if !next.Terminal() {
		e.scheduleNext(job.ID)
	}
	return nil
}

// Fail marks a non-terminal job failed with a reason. The job is not
// rescheduled and never retried.
func (e *Engine) Fail(ctx context.Context, jobID, reason string) error {
	job, err := e.store.Jobs().GetByID(ctx, jobID)
	if err != nil {
		return fmt.Errorf("load job: %w", err)
	}
	if job.Status.Terminal() {
		return domain.ErrJobFrozen
	}
	video, err := e.store.Videos().GetByID(ctx, job.VideoID)
	if err != nil {
		return fmt.Errorf("load video: %w", err)
	}

	now := time.Now().UTC()
	job.Status = domain.JobStatusFailed
	job.Error = reason
	job.CompletedAt = &now
	video.Status = domain.VideoStatusFailed

	if err := e.store.Jobs().Update(ctx, job); err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	if err := e.store.Videos().Update(ctx, video); err != nil {
		return fmt.Errorf("update video: %w", err)
	}

	e.logger.Info().Str("job_id", job.ID).Str("reason", reason).Msg("engine: job failed")

	e.bus.Publish(events.Event{
		Type:    events.EventTypeStatus,
		JobID:   job.ID,
		VideoID: video.ID,
		Status:  domain.JobStatusFailed,
		Error:   reason,
	})
	return nil
}

func nextStatus(current domain.JobStatus) (domain.JobStatus, error) {
	for i, s := range sequence {
		if s == current {
			if i+1 >= len(sequence) {
				return "", domain.ErrJobFrozen
			}
			return sequence[i+1], nil
		}
	}
	return "", fmt.Errorf("unknown job status %q", current)
}

func (e *Engine) urlBundle(videoID string) domain.URLBundle {
	base := e.baseURL
	if base == "" {
		base = "https://storage.framebrew.local"
	}
	prefix := fmt.Sprintf("%s/generated/videos/%s", base, videoID)
	return domain.URLBundle{
		MP4:       prefix + "/video.mp4",
		Thumbnail: prefix + "/thumb.jpg",
		Preview:   prefix + "/preview.mp4",
	}
}

// scoreBundle draws each component independently within [60,100].
func (e *Engine) scoreBundle() *domain.ScoreBundle {
	e.randMu.Lock()
	defer e.randMu.Unlock()
	roll := func() int { return 60 + e.rand.Intn(41) }
	return &domain.ScoreBundle{
		Hook:          roll(),
		Pacing:        roll(),
		Clarity:       roll(),
		BrandSafety:   roll(),
		DurationFit:   roll(),
		VisualQuality: roll(),
		AudioQuality:  roll(),
		Overall:       roll(),
	}
}
