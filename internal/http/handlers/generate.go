package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"framebrew/internal/domain"
	"framebrew/internal/engine"
)

type generateRequest struct {
	ProjectID      string  `json:"projectId" validate:"required"`
	Prompt         string  `json:"prompt" validate:"max=2000"`
	NegativePrompt string  `json:"negativePrompt" validate:"omitempty,max=2000"`
	StylePreset    string  `json:"stylePreset" validate:"omitempty,max=100"`
	DurationSec    float64 `json:"durationSec" validate:"omitempty,gte=3,lte=60"`
	AspectRatio    string  `json:"aspectRatio" validate:"omitempty,oneof=16:9 9:16"`
	Resolution     string  `json:"resolution" validate:"omitempty,oneof=720p 1080p"`
	Model          string  `json:"model" validate:"omitempty,oneof=stable fast"`
	TemplateID     string  `json:"templateId" validate:"omitempty"`
}

type generateResponse struct {
	Video *domain.Video         `json:"video"`
	Job   *domain.GenerationJob `json:"job"`
}

func (req *generateRequest) trigger() engine.TriggerRequest {
	return engine.TriggerRequest{
		ProjectID:      req.ProjectID,
		Prompt:         req.Prompt,
		NegativePrompt: req.NegativePrompt,
		StylePreset:    req.StylePreset,
		Model:          domain.GenerationModel(req.Model),
		DurationSec:    req.DurationSec,
		AspectRatio:    req.AspectRatio,
		Resolution:     req.Resolution,
	}
}

// VideosGenerate allocates a queued video/job pair and schedules progression.
// The response returns immediately; generation work happens asynchronously.
func (a *App) VideosGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.TemplateID != "" {
		if !a.applyTemplate(w, r, &req) {
			return
		}
	}

	video, job, err := a.Engine.Trigger(r.Context(), req.trigger())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, generateResponse{Video: video, Job: job})
}

// VideoRegenerate starts a fresh generation for an existing video. A video
// with an active job rejects the request with 409.
func (a *App) VideoRegenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.TemplateID != "" {
		if !a.applyTemplate(w, r, &req) {
			return
		}
	}

	video, job, err := a.Engine.Retrigger(r.Context(), chi.URLParam(r, "id"), req.trigger())
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusAccepted, generateResponse{Video: video, Job: job})
}

// applyTemplate fills unset request fields from a stored template.
func (a *App) applyTemplate(w http.ResponseWriter, r *http.Request, req *generateRequest) bool {
	template, err := a.Store.Templates().GetByID(r.Context(), req.TemplateID)
	if err != nil {
		a.domainError(w, err)
		return false
	}
	if req.Prompt == "" {
		req.Prompt = template.Prompt
	}
	if req.StylePreset == "" {
		req.StylePreset = template.StylePreset
	}
	if req.AspectRatio == "" {
		req.AspectRatio = template.AspectRatio
	}
	if req.DurationSec == 0 {
		req.DurationSec = template.DurationSec
	}
	return true
}
