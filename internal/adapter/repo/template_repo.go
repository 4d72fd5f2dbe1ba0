package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"framebrew/internal/domain"
)

// TemplateRepositoryPG implements domain.TemplateRepository.
type TemplateRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewTemplateRepository creates a new template repository backed by PostgreSQL.
func NewTemplateRepository(pool *pgxpool.Pool) *TemplateRepositoryPG {
	return &TemplateRepositoryPG{pool: pool}
}

// Create inserts a new template record.
func (r *TemplateRepositoryPG) Create(ctx context.Context, template *domain.Template) error {
	query := `
INSERT INTO templates (id, org_id, name, prompt, style_preset, duration_sec, aspect_ratio)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, query,
		template.ID,
		template.OrgID,
		template.Name,
		template.Prompt,
		template.StylePreset,
		template.DurationSec,
		template.AspectRatio,
	)
	return err
}

// GetByID fetches a template by its identifier.
func (r *TemplateRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	row := r.pool.QueryRow(ctx, selectTemplateColumns+` WHERE id = $1;`, id)
	template, err := scanTemplate(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return template, nil
}

// Update rewrites the template's fields.
func (r *TemplateRepositoryPG) Update(ctx context.Context, template *domain.Template) error {
	query := `
UPDATE templates
SET name = $2,
    prompt = $3,
    style_preset = $4,
    duration_sec = $5,
    aspect_ratio = $6
WHERE id = $1;
`
	tag, err := r.pool.Exec(ctx, query,
		template.ID,
		template.Name,
		template.Prompt,
		template.StylePreset,
		template.DurationSec,
		template.AspectRatio,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes a template.
func (r *TemplateRepositoryPG) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOrg returns the organization's templates sorted by name.
func (r *TemplateRepositoryPG) ListByOrg(ctx context.Context, orgID string) ([]domain.Template, error) {
	rows, err := r.pool.Query(ctx, selectTemplateColumns+` WHERE org_id = $1 ORDER BY name ASC;`, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.Template
	for rows.Next() {
		template, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *template)
	}
	return templates, rows.Err()
}

const selectTemplateColumns = `
SELECT id, org_id, name, prompt, style_preset, duration_sec, aspect_ratio
FROM templates`

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var template domain.Template
	if err := row.Scan(
		&template.ID,
		&template.OrgID,
		&template.Name,
		&template.Prompt,
		&template.StylePreset,
		&template.DurationSec,
		&template.AspectRatio,
	); err != nil {
		return nil, err
	}
	return &template, nil
}
