package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"framebrew/internal/domain"
)

type projectRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200"`
	Description string `json:"description" validate:"omitempty,max=2000"`
}

func (a *App) ProjectsList(w http.ResponseWriter, r *http.Request) {
	projects, err := a.Store.Projects().ListByOrg(r.Context(), a.currentOrgID(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	if projects == nil {
		projects = []domain.Project{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": projects, "total": len(projects)})
}

func (a *App) ProjectCreate(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !a.decode(w, r, &req) {
		return
	}
	now := time.Now().UTC()
	project := &domain.Project{
		ID:          uuid.NewString(),
		OrgID:       a.currentOrgID(r),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.Store.Projects().Create(r.Context(), project); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, project)
}

func (a *App) ProjectGet(w http.ResponseWriter, r *http.Request) {
	project, err := a.Store.Projects().GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, project)
}

func (a *App) ProjectUpdate(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !a.decode(w, r, &req) {
		return
	}
	project, err := a.Store.Projects().GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	project.Name = req.Name
	project.Description = req.Description
	if err := a.Store.Projects().Update(r.Context(), project); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, project)
}

// ProjectDelete removes a project. Deletion is blocked with 409 while videos
// still reference it.
func (a *App) ProjectDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.Projects().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
