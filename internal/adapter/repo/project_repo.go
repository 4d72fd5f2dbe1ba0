package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"framebrew/internal/domain"
)

// ProjectRepositoryPG implements domain.ProjectRepository.
type ProjectRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewProjectRepository creates a new project repository backed by PostgreSQL.
func NewProjectRepository(pool *pgxpool.Pool) *ProjectRepositoryPG {
	return &ProjectRepositoryPG{pool: pool}
}

// Create inserts a new project record.
func (r *ProjectRepositoryPG) Create(ctx context.Context, project *domain.Project) error {
	query := `
INSERT INTO projects (id, org_id, name, description, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	_, err := r.pool.Exec(ctx, query,
		project.ID,
		project.OrgID,
		project.Name,
		project.Description,
		project.CreatedAt,
		project.UpdatedAt,
	)
	return err
}

// GetByID fetches a project by its identifier.
func (r *ProjectRepositoryPG) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `
SELECT id, org_id, name, description, created_at, updated_at
FROM projects
WHERE id = $1;
`
	row := r.pool.QueryRow(ctx, query, id)
	var project domain.Project
	if err := row.Scan(
		&project.ID,
		&project.OrgID,
		&project.Name,
		&project.Description,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

// Update rewrites the project's mutable fields.
func (r *ProjectRepositoryPG) Update(ctx context.Context, project *domain.Project) error {
	query := `
UPDATE projects
SET name = $2,
    description = $3,
    updated_at = NOW()
WHERE id = $1
RETURNING updated_at;
`
	row := r.pool.QueryRow(ctx, query, project.ID, project.Name, project.Description)
	if err := row.Scan(&project.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}

// Delete removes an empty project. Deletion is blocked while videos still
// reference it.
func (r *ProjectRepositoryPG) Delete(ctx context.Context, id string) error {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM videos WHERE project_id = $1;`, id).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return domain.ErrProjectNotEmpty
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByOrg returns the organization's projects, newest first.
func (r *ProjectRepositoryPG) ListByOrg(ctx context.Context, orgID string) ([]domain.Project, error) {
	query := `
SELECT id, org_id, name, description, created_at, updated_at
FROM projects
WHERE org_id = $1
ORDER BY created_at DESC;
`
	rows, err := r.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []domain.Project
	for rows.Next() {
		var project domain.Project
		if err := rows.Scan(
			&project.ID,
			&project.OrgID,
			&project.Name,
			&project.Description,
			&project.CreatedAt,
			&project.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}
	return projects, rows.Err()
}
