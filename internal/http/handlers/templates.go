package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"framebrew/internal/domain"
)

type templateRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=200"`
	Prompt      string  `json:"prompt" validate:"required,min=1,max=2000"`
	StylePreset string  `json:"stylePreset" validate:"omitempty,max=100"`
	DurationSec float64 `json:"durationSec" validate:"omitempty,gte=3,lte=60"`
	AspectRatio string  `json:"aspectRatio" validate:"omitempty,oneof=16:9 9:16"`
}

func (req *templateRequest) apply(t *domain.Template) {
	t.Name = req.Name
	t.Prompt = req.Prompt
	t.StylePreset = req.StylePreset
	t.DurationSec = req.DurationSec
	t.AspectRatio = req.AspectRatio
	if t.DurationSec == 0 {
		t.DurationSec = 15
	}
	if t.AspectRatio == "" {
		t.AspectRatio = "16:9"
	}
}

func (a *App) TemplatesList(w http.ResponseWriter, r *http.Request) {
	templates, err := a.Store.Templates().ListByOrg(r.Context(), a.currentOrgID(r))
	if err != nil {
		a.domainError(w, err)
		return
	}
	if templates == nil {
		templates = []domain.Template{}
	}
	a.json(w, http.StatusOK, map[string]any{"items": templates, "total": len(templates)})
}

func (a *App) TemplateCreate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !a.decode(w, r, &req) {
		return
	}
	template := &domain.Template{ID: uuid.NewString(), OrgID: a.currentOrgID(r)}
	req.apply(template)
	if err := a.Store.Templates().Create(r.Context(), template); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, template)
}

func (a *App) TemplateGet(w http.ResponseWriter, r *http.Request) {
	template, err := a.Store.Templates().GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, template)
}

func (a *App) TemplateUpdate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if !a.decode(w, r, &req) {
		return
	}
	template, err := a.Store.Templates().GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	req.apply(template)
	if err := a.Store.Templates().Update(r.Context(), template); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, template)
}

func (a *App) TemplateDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.Templates().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
