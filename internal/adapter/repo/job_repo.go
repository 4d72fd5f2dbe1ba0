package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"framebrew/internal/domain"
)

// JobRepositoryPG implements domain.JobRepository.
type JobRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobRepository creates a new job repository backed by PostgreSQL.
func NewJobRepository(pool *pgxpool.Pool) *JobRepositoryPG {
	return &JobRepositoryPG{pool: pool}
}

// Create inserts a new generation job record. The partial unique index on
// active jobs turns a concurrent second generation into ErrJobActive.
func (r *JobRepositoryPG) Create(ctx context.Context, job *domain.GenerationJob) error {
	query := `
INSERT INTO generation_jobs (id, video_id, org_id, prompt, negative_prompt, style_preset, model, status, progress, error_message, created_at, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
`
	_, err := r.pool.Exec(ctx, query,
		job.ID,
		job.VideoID,
		job.OrgID,
		job.Prompt,
		job.NegativePrompt,
		job.StylePreset,
		job.Model,
		job.Status,
		job.Progress,
		job.Error,
		job.CreatedAt,
		job.CompletedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return domain.ErrJobActive
	}
	return err
}

const pgUniqueViolation = "23505"

// Update rewrites job progress fields. Terminal jobs are frozen; the guard
// lives in the WHERE clause so a concurrent completion cannot be overwritten.
func (r *JobRepositoryPG) Update(ctx context.Context, job *domain.GenerationJob) error {
	query := `
UPDATE generation_jobs
SET status = $2,
    progress = $3,
    error_message = $4,
    completed_at = $5
WHERE id = $1 AND status NOT IN ('ready', 'failed');
`
	tag, err := r.pool.Exec(ctx, query, job.ID, job.Status, job.Progress, job.Error, job.CompletedAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, job.ID); err != nil {
			return err
		}
		return domain.ErrJobFrozen
	}
	return nil
}

// GetByID fetches a job by its identifier.
func (r *JobRepositoryPG) GetByID(ctx context.Context, id string) (*domain.GenerationJob, error) {
	query := selectJobColumns + ` WHERE id = $1;`
	row := r.pool.QueryRow(ctx, query, id)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

// ActiveByVideoID returns the video's non-terminal job, if any.
func (r *JobRepositoryPG) ActiveByVideoID(ctx context.Context, videoID string) (*domain.GenerationJob, error) {
	query := selectJobColumns + `
WHERE video_id = $1 AND status NOT IN ('ready', 'failed')
ORDER BY created_at DESC
LIMIT 1;
`
	row := r.pool.QueryRow(ctx, query, videoID)
	job, err := scanJob(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return job, nil
}

const selectJobColumns = `
SELECT id, video_id, org_id, prompt, negative_prompt, style_preset, model, status, progress, error_message, created_at, completed_at
FROM generation_jobs`

func scanJob(row rowScanner) (*domain.GenerationJob, error) {
	var job domain.GenerationJob
	if err := row.Scan(
		&job.ID,
		&job.VideoID,
		&job.OrgID,
		&job.Prompt,
		&job.NegativePrompt,
		&job.StylePreset,
		&job.Model,
		&job.Status,
		&job.Progress,
		&job.Error,
		&job.CreatedAt,
		&job.CompletedAt,
	); err != nil {
		return nil, err
	}
	return &job, nil
}
