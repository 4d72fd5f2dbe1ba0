package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// JobGet serves a generation job for status polling.
func (a *App) JobGet(w http.ResponseWriter, r *http.Request) {
	job, err := a.Store.Jobs().GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, job)
}

type jobFailRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// JobFail applies the external failure override: the job becomes terminal
// failed and is never rescheduled.
func (a *App) JobFail(w http.ResponseWriter, r *http.Request) {
	var req jobFailRequest
	if !a.decode(w, r, &req) {
		return
	}
	jobID := chi.URLParam(r, "id")
	if err := a.Engine.Fail(r.Context(), jobID, req.Reason); err != nil {
		a.domainError(w, err)
		return
	}
	job, err := a.Store.Jobs().GetByID(r.Context(), jobID)
	if err != nil {
		a.domainError(w, err)
		return
	}
	a.json(w, http.StatusOK, job)
}
