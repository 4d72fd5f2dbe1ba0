package domain

import "context"

// VideoRepository defines persistence for video entities.
type VideoRepository interface {
	Create(ctx context.Context, video *Video) error
	GetByID(ctx context.Context, id string) (*Video, error)
	Update(ctx context.Context, video *Video) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, orgID string, filter VideoFilter) ([]Video, int, error)
	CountByProject(ctx context.Context, projectID string) (int, error)
}

// JobRepository defines persistence for generation jobs.
type JobRepository interface {
	Create(ctx context.Context, job *GenerationJob) error
	GetByID(ctx context.Context, id string) (*GenerationJob, error)
	Update(ctx context.Context, job *GenerationJob) error
	ActiveByVideoID(ctx context.Context, videoID string) (*GenerationJob, error)
}

// ProjectRepository defines persistence for projects.
type ProjectRepository interface {
	Create(ctx context.Context, project *Project) error
	GetByID(ctx context.Context, id string) (*Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) error
	ListByOrg(ctx context.Context, orgID string) ([]Project, error)
}

// TemplateRepository defines persistence for generation templates.
type TemplateRepository interface {
	Create(ctx context.Context, template *Template) error
	GetByID(ctx context.Context, id string) (*Template, error)
	Update(ctx context.Context, template *Template) error
	Delete(ctx context.Context, id string) error
	ListByOrg(ctx context.Context, orgID string) ([]Template, error)
}

// AccountRepository defines persistence for organizations and users.
type AccountRepository interface {
	CreateOrg(ctx context.Context, org *Organization) error
	GetOrg(ctx context.Context, id string) (*Organization, error)
	CreateUser(ctx context.Context, user *User) error
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// Store bundles the repositories an App operates on.
type Store interface {
	Videos() VideoRepository
	Jobs() JobRepository
	Projects() ProjectRepository
	Templates() TemplateRepository
	Accounts() AccountRepository
}
