package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"framebrew/internal/domain"
	"framebrew/internal/engine"
	"framebrew/internal/events"
	"framebrew/internal/infra"
	"framebrew/internal/middleware"
)

// App is the handler container wiring the store, the progression engine and
// the event bus into the HTTP surface.
type App struct {
	Store    domain.Store
	Engine   *engine.Engine
	Bus      *events.Bus
	Logger   infra.Logger
	Validate *validator.Validate
}

// NewApp constructs the App container.
func NewApp(store domain.Store, eng *engine.Engine, bus *events.Bus, logger infra.Logger) *App {
	return &App{
		Store:    store,
		Engine:   eng,
		Bus:      bus,
		Logger:   logger,
		Validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, status int, code, message string) {
	a.json(w, status, map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}

// domainError maps sentinel domain errors onto HTTP statuses.
func (a *App) domainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		a.error(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidArgument):
		a.error(w, http.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, domain.ErrJobActive):
		a.error(w, http.StatusConflict, "job_active", err.Error())
	case errors.Is(err, domain.ErrJobFrozen):
		a.error(w, http.StatusConflict, "job_frozen", err.Error())
	case errors.Is(err, domain.ErrProjectNotEmpty):
		a.error(w, http.StatusConflict, "project_not_empty", err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		a.error(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		a.Logger.Error().Err(err).Msg("handler: internal error")
		a.error(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func (a *App) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid payload")
		return false
	}
	if err := a.Validate.Struct(dst); err != nil {
		a.error(w, http.StatusBadRequest, "validation", err.Error())
		return false
	}
	return true
}

func (a *App) currentOrgID(r *http.Request) string {
	return middleware.OrgIDFromContext(r.Context())
}
