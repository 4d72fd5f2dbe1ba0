// Package repo implements the domain repositories on PostgreSQL via pgx.
package repo

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"framebrew/internal/domain"
)

// Store bundles the PostgreSQL-backed repositories.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store on top of a pgx connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Videos() domain.VideoRepository       { return &VideoRepositoryPG{pool: s.pool} }
func (s *Store) Jobs() domain.JobRepository           { return &JobRepositoryPG{pool: s.pool} }
func (s *Store) Projects() domain.ProjectRepository   { return &ProjectRepositoryPG{pool: s.pool} }
func (s *Store) Templates() domain.TemplateRepository { return &TemplateRepositoryPG{pool: s.pool} }
func (s *Store) Accounts() domain.AccountRepository   { return &AccountRepositoryPG{pool: s.pool} }
