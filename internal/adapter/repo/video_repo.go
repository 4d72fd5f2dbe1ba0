package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"framebrew/internal/domain"
)

// VideoRepositoryPG implements domain.VideoRepository.
type VideoRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewVideoRepository creates a new video repository backed by PostgreSQL.
func NewVideoRepository(pool *pgxpool.Pool) *VideoRepositoryPG {
	return &VideoRepositoryPG{pool: pool}
}

// Create inserts a new video record.
func (r *VideoRepositoryPG) Create(ctx context.Context, video *domain.Video) error {
	query := `
INSERT INTO videos (id, org_id, project_id, title, description, status, source, duration_sec, aspect_ratio, resolution, urls, score, version, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15);
`
	urls, score, err := encodeBundles(video)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, query,
		video.ID,
		video.OrgID,
		video.ProjectID,
		video.Title,
		video.Description,
		video.Status,
		video.Source,
		video.DurationSec,
		video.AspectRatio,
		video.Resolution,
		urls,
		score,
		video.Version,
		video.CreatedAt,
		video.UpdatedAt,
	)
	return err
}

// Update rewrites mutable fields and bumps the version counter.
func (r *VideoRepositoryPG) Update(ctx context.Context, video *domain.Video) error {
	query := `
UPDATE videos
SET title = $2,
    description = $3,
    status = $4,
    source = $5,
    duration_sec = $6,
    aspect_ratio = $7,
    resolution = $8,
    urls = $9,
    score = $10,
    version = version + 1,
    updated_at = NOW()
WHERE id = $1
RETURNING version, updated_at;
`
	urls, score, err := encodeBundles(video)
	if err != nil {
		return err
	}
	row := r.pool.QueryRow(ctx, query,
		video.ID,
		video.Title,
		video.Description,
		video.Status,
		video.Source,
		video.DurationSec,
		video.AspectRatio,
		video.Resolution,
		urls,
		score,
	)
	if err := row.Scan(&video.Version, &video.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// GetByID fetches a video by its identifier.
func (r *VideoRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	query := selectVideoColumns + ` WHERE id = $1;`
	row := r.pool.QueryRow(ctx, query, id)
	video, err := scanVideo(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return video, nil
}

// Delete removes a video permanently.
func (r *VideoRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CountByProject reports how many videos reference a project.
func (r *VideoRepositoryPG) CountByProject(ctx context.Context, projectID string) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE project_id = $1;`, projectID).Scan(&n)
	return n, err
}

// List applies the filter and sort order and returns matching videos with the
// total match count.
func (r *VideoRepositoryPG) List(ctx context.Context, orgID string, filter domain.VideoFilter) ([]domain.Video, int, error) {
	where, args := buildVideoFilter(orgID, filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM videos` + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count videos: %w", err)
	}

	query := selectVideoColumns + where + orderClause(filter.Sort)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var items []domain.Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *video)
	}
	return items, total, rows.Err()
}

const selectVideoColumns = `
SELECT id, org_id, project_id, title, description, status, source, duration_sec, aspect_ratio, resolution, urls, score, version, created_at, updated_at
FROM videos`

func buildVideoFilter(orgID string, filter domain.VideoFilter) (string, []any) {
	var clauses []string
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if orgID != "" {
		clauses = append(clauses, "org_id = "+arg(orgID))
	}
	if filter.Query != "" {
		clauses = append(clauses, "title ILIKE "+arg("%"+filter.Query+"%"))
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		clauses = append(clauses, "status = ANY("+arg(statuses)+")")
	}
	if filter.MinScore > 0 {
		clauses = append(clauses, "(score->>'overall')::int >= "+arg(filter.MinScore))
	}
	if filter.ProjectID != "" {
		clauses = append(clauses, "project_id = "+arg(filter.ProjectID))
	}
	if filter.Source != "" {
		clauses = append(clauses, "source = "+arg(string(filter.Source)))
	}
	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func orderClause(sort domain.VideoSort) string {
	switch sort {
	case domain.VideoSortOldest:
		return " ORDER BY created_at ASC"
	case domain.VideoSortScoreHigh:
		return " ORDER BY (score->>'overall')::int DESC NULLS LAST"
	case domain.VideoSortScoreLow:
		return " ORDER BY (score->>'overall')::int ASC NULLS LAST"
	case domain.VideoSortTitleAZ:
		return " ORDER BY LOWER(title) ASC"
	default:
		return " ORDER BY created_at DESC"
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVideo(row rowScanner) (*domain.Video, error) {
	var video domain.Video
	var urls, score []byte
	if err := row.Scan(
		&video.ID,
		&video.OrgID,
		&video.ProjectID,
		&video.Title,
		&video.Description,
		&video.Status,
		&video.Source,
		&video.DurationSec,
		&video.AspectRatio,
		&video.Resolution,
		&urls,
		&score,
		&video.Version,
		&video.CreatedAt,
		&video.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if len(urls) > 0 {
		if err := json.Unmarshal(urls, &video.URLs); err != nil {
			return nil, fmt.Errorf("decode urls: %w", err)
		}
	}
	if len(score) > 0 {
		video.Score = &domain.ScoreBundle{}
		if err := json.Unmarshal(score, video.Score); err != nil {
			return nil, fmt.Errorf("decode score: %w", err)
		}
	}
	return &video, nil
}

func encodeBundles(video *domain.Video) ([]byte, []byte, error) {
	urls, err := json.Marshal(video.URLs)
	if err != nil {
		return nil, nil, fmt.Errorf("encode urls: %w", err)
	}
	var score []byte
	if video.Score != nil {
		if score, err = json.Marshal(video.Score); err != nil {
			return nil, nil, fmt.Errorf("encode score: %w", err)
		}
	}
	return urls, score, nil
}
