// Package memstore provides an in-memory implementation of the domain
// repositories. It backs development mode (no DATABASE_URL) and tests, and
// has an explicit lifecycle: construct with New, wipe with Reset.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"framebrew/internal/domain"
)

// Store holds every record collection behind a single mutex. Writers copy on
// insert and update so callers never share memory with the store.
type Store struct {
	mu        sync.RWMutex
	videos    map[string]*domain.Video
	jobs      map[string]*domain.GenerationJob
	projects  map[string]*domain.Project
	templates map[string]*domain.Template
	orgs      map[string]*domain.Organization
	users     map[string]*domain.User
}

// New constructs an empty store.
func New() *Store {
	s := &Store{}
	s.reset()
	return s
}

// Reset drops every record. Intended for test isolation.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reset()
}

func (s *Store) reset() {
	s.videos = make(map[string]*domain.Video)
	s.jobs = make(map[string]*domain.GenerationJob)
	s.projects = make(map[string]*domain.Project)
	s.templates = make(map[string]*domain.Template)
	s.orgs = make(map[string]*domain.Organization)
	s.users = make(map[string]*domain.User)
}

func (s *Store) Videos() domain.VideoRepository       { return (*videoRepo)(s) }
func (s *Store) Jobs() domain.JobRepository           { return (*jobRepo)(s) }
func (s *Store) Projects() domain.ProjectRepository   { return (*projectRepo)(s) }
func (s *Store) Templates() domain.TemplateRepository { return (*templateRepo)(s) }
func (s *Store) Accounts() domain.AccountRepository   { return (*accountRepo)(s) }

type videoRepo Store

func (r *videoRepo) Create(ctx context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *video
	r.videos[video.ID] = &cp
	return nil
}

func (r *videoRepo) GetByID(ctx context.Context, id string) (*domain.Video, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *videoRepo) Update(ctx context.Context, video *domain.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[video.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *video
	cp.UpdatedAt = time.Now().UTC()
	cp.Version = r.videos[video.ID].Version + 1
	r.videos[video.ID] = &cp
	*video = cp
	return nil
}

func (r *videoRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

func (r *videoRepo) CountByProject(ctx context.Context, projectID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, v := range r.videos {
		if v.ProjectID == projectID {
			n++
		}
	}
	return n, nil
}

func (r *videoRepo) List(ctx context.Context, orgID string, filter domain.VideoFilter) ([]domain.Video, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]domain.Video, 0, len(r.videos))
	for _, v := range r.videos {
		if orgID != "" && v.OrgID != orgID {
			continue
		}
		if !matches(v, filter) {
			continue
		}
		items = append(items, *v)
	}
	sortVideos(items, filter.Sort)
	return items, len(items), nil
}

func matches(v *domain.Video, f domain.VideoFilter) bool {
	if f.Query != "" && !strings.Contains(strings.ToLower(v.Title), strings.ToLower(f.Query)) {
		return false
	}
	if len(f.Statuses) > 0 {
		ok := false
		for _, s := range f.Statuses {
			if v.Status == s {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.MinScore > 0 && (v.Score == nil || v.Score.Overall < f.MinScore) {
		return false
	}
	if f.ProjectID != "" && v.ProjectID != f.ProjectID {
		return false
	}
	if f.Source != "" && v.Source != f.Source {
		return false
	}
	return true
}

func sortVideos(items []domain.Video, key domain.VideoSort) {
	less := func(i, j int) bool { return items[i].CreatedAt.After(items[j].CreatedAt) }
	switch key {
	case domain.VideoSortOldest:
		less = func(i, j int) bool { return items[i].CreatedAt.Before(items[j].CreatedAt) }
	case domain.VideoSortScoreHigh:
		less = func(i, j int) bool { return overall(items[i]) > overall(items[j]) }
	case domain.VideoSortScoreLow:
		less = func(i, j int) bool { return overall(items[i]) < overall(items[j]) }
	case domain.VideoSortTitleAZ:
		less = func(i, j int) bool {
			return strings.ToLower(items[i].Title) < strings.ToLower(items[j].Title)
		}
	}
	sort.SliceStable(items, less)
}

func overall(v domain.Video) int {
	if v.Score == nil {
		return -1
	}
	return v.Score.Overall
}

type jobRepo Store

func (r *jobRepo) Create(ctx context.Context, job *domain.GenerationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Mirrors the partial unique index on active jobs in the SQL schema.
	if !job.Status.Terminal() {
		for _, existing := range r.jobs {
			if existing.VideoID == job.VideoID && !existing.Status.Terminal() {
				return domain.ErrJobActive
			}
		}
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.GenerationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	j, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *j
	return &cp, nil
}

func (r *jobRepo) Update(ctx context.Context, job *domain.GenerationJob) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.jobs[job.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if existing.Status.Terminal() {
		return domain.ErrJobFrozen
	}
	cp := *job
	r.jobs[job.ID] = &cp
	return nil
}

func (r *jobRepo) ActiveByVideoID(ctx context.Context, videoID string) (*domain.GenerationJob, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, j := range r.jobs {
		if j.VideoID == videoID && !j.Status.Terminal() {
			cp := *j
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

type projectRepo Store

func (r *projectRepo) Create(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *project
	r.projects[project.ID] = &cp
	return nil
}

func (r *projectRepo) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *projectRepo) Update(ctx context.Context, project *domain.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[project.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *project
	cp.UpdatedAt = time.Now().UTC()
	r.projects[project.ID] = &cp
	*project = cp
	return nil
}

func (r *projectRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return domain.ErrNotFound
	}
	for _, v := range r.videos {
		if v.ProjectID == id {
			return domain.ErrProjectNotEmpty
		}
	}
	delete(r.projects, id)
	return nil
}

func (r *projectRepo) ListByOrg(ctx context.Context, orgID string) ([]domain.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Project, 0, len(r.projects))
	for _, p := range r.projects {
		if orgID == "" || p.OrgID == orgID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type templateRepo Store

func (r *templateRepo) Create(ctx context.Context, template *domain.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *template
	r.templates[template.ID] = &cp
	return nil
}

func (r *templateRepo) GetByID(ctx context.Context, id string) (*domain.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *templateRepo) Update(ctx context.Context, template *domain.Template) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[template.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *template
	r.templates[template.ID] = &cp
	return nil
}

func (r *templateRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.templates[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.templates, id)
	return nil
}

func (r *templateRepo) ListByOrg(ctx context.Context, orgID string) ([]domain.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Template, 0, len(r.templates))
	for _, t := range r.templates {
		if orgID == "" || t.OrgID == orgID {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type accountRepo Store

func (r *accountRepo) CreateOrg(ctx context.Context, org *domain.Organization) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *org
	r.orgs[org.ID] = &cp
	return nil
}

func (r *accountRepo) GetOrg(ctx context.Context, id string) (*domain.Organization, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.orgs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (r *accountRepo) CreateUser(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *accountRepo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}
