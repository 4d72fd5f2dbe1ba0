package repo

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"framebrew/internal/domain"
)

// AccountRepositoryPG implements domain.AccountRepository.
type AccountRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new account repository backed by PostgreSQL.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepositoryPG {
	return &AccountRepositoryPG{pool: pool}
}

// CreateOrg inserts an organization, ignoring duplicates by id.
func (r *AccountRepositoryPG) CreateOrg(ctx context.Context, org *domain.Organization) error {
	query := `
INSERT INTO organizations (id, name, plan, created_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (id) DO NOTHING;
`
	_, err := r.pool.Exec(ctx, query, org.ID, org.Name, org.Plan, org.CreatedAt)
	return err
}

// GetOrg fetches an organization by its identifier.
func (r *AccountRepositoryPG) GetOrg(ctx context.Context, id string) (*domain.Organization, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, plan, created_at FROM organizations WHERE id = $1;`, id)
	var org domain.Organization
	if err := row.Scan(&org.ID, &org.Name, &org.Plan, &org.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &org, nil
}

// CreateUser inserts a user, ignoring duplicates by email.
func (r *AccountRepositoryPG) CreateUser(ctx context.Context, user *domain.User) error {
	query := `
INSERT INTO users (id, org_id, email, name, role, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (email) DO NOTHING;
`
	_, err := r.pool.Exec(ctx, query, user.ID, user.OrgID, user.Email, user.Name, user.Role, user.CreatedAt)
	return err
}

// GetUserByEmail fetches a user by email.
func (r *AccountRepositoryPG) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, org_id, email, name, role, created_at FROM users WHERE email = $1;`, email)
	var user domain.User
	if err := row.Scan(&user.ID, &user.OrgID, &user.Email, &user.Name, &user.Role, &user.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}
