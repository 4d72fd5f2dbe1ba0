package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"framebrew/internal/domain"
)

type videoListResponse struct {
	Items []domain.Video `json:"items"`
	Total int            `json:"total"`
}

// VideosList serves the listing boundary with free-text, status, score,
// project and source filters.
func (a *App) VideosList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.VideoFilter{
		Query:     strings.TrimSpace(q.Get("q")),
		ProjectID: q.Get("projectId"),
		Source:    domain.VideoSource(q.Get("source")),
		Sort:      domain.VideoSort(q.Get("sort")),
	}
	if raw := q.Get("status"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				filter.Statuses = append(filter.Statuses, domain.VideoStatus(s))
			}
		}
	}
	if raw := q.Get("minScore"); raw != "" {
		min, err := strconv.Atoi(raw)
		if err != nil || min < 0 || min > 100 {
			a.error(w, http.StatusBadRequest, "bad_request", "minScore must be an integer within [0,100]")
			return
		}
		filter.MinScore = min
	}
	switch filter.Sort {
	case "", domain.VideoSortNewest, domain.VideoSortOldest, domain.VideoSortScoreHigh, domain.VideoSortScoreLow, domain.VideoSortTitleAZ:
	default:
		a.error(w, http.StatusBadRequest, "bad_request", "unsupported sort key")
		return
	}

	items, total, err := a.Store.Videos().List(r.Context(), a.currentOrgID(r), filter)
	if err != nil {
		a.domainError(w, err)
		return
	}
	if items == nil {
		items = []domain.Video{}
	}
	a.json(w, http.StatusOK, videoListResponse{Items: items, Total: total})
}

// VideoGet serves a single video by id.
func (a *App) VideoGet(w http.ResponseWriter, r *http.Request) {
	video, err := a.Store.Videos().GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, video)
}

type videoUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
}

// VideoUpdate patches user-editable fields. Editing stays allowed while a
// job progresses; status and score are owned by the engine.
func (a *App) VideoUpdate(w http.ResponseWriter, r *http.Request) {
	var req videoUpdateRequest
	if !a.decode(w, r, &req) {
		return
	}
	if req.Title == nil && req.Description == nil {
		a.error(w, http.StatusBadRequest, "bad_request", "nothing to update")
		return
	}

	video, err := a.Store.Videos().GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	if req.Title != nil {
		video.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		video.Description = *req.Description
	}
	if err := a.Store.Videos().Update(r.Context(), video); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, video)
}

// VideoDelete removes a video permanently.
func (a *App) VideoDelete(w http.ResponseWriter, r *http.Request) {
	if err := a.Store.Videos().Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		a.domainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type uploadCompleteRequest struct {
	Filename    string  `json:"filename" validate:"required,min=1,max=255"`
	ProjectID   string  `json:"projectId" validate:"required"`
	DurationSec float64 `json:"durationSec" validate:"required,gt=0"`
}

// UploadComplete records a finished upload as a ready video with a
// placeholder URL bundle.
func (a *App) UploadComplete(w http.ResponseWriter, r *http.Request) {
	var req uploadCompleteRequest
	if !a.decode(w, r, &req) {
		return
	}
	project, err := a.Store.Projects().GetByID(r.Context(), req.ProjectID)
	if err != nil {
		a.domainError(w, err)
		return
	}

	now := time.Now().UTC()
	id := uuid.NewString()
	video := &domain.Video{
		ID:          id,
		OrgID:       project.OrgID,
		ProjectID:   project.ID,
		Title:       titleFromFilename(req.Filename),
		Status:      domain.VideoStatusReady,
		Source:      domain.VideoSourceUploaded,
		DurationSec: req.DurationSec,
		AspectRatio: "16:9",
		Resolution:  "1080p",
		URLs: domain.URLBundle{
			MP4:       "/static/uploads/" + id + "/" + req.Filename,
			Thumbnail: "/static/uploads/" + id + "/thumb.jpg",
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := a.Store.Videos().Create(r.Context(), video); err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusCreated, video)
}

func titleFromFilename(name string) string {
	title := name
	if idx := strings.LastIndex(title, "."); idx > 0 {
		title = title[:idx]
	}
	title = strings.NewReplacer("-", " ", "_", " ").Replace(title)
	title = strings.Join(strings.Fields(title), " ")
	if title == "" {
		return name
	}
	return title
}
