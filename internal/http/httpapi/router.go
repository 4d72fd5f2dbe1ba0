package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"framebrew/internal/http/handlers"
	"framebrew/internal/infra"
	"framebrew/internal/middleware"
	"framebrew/internal/storage"
)

// NewRouter builds the chi router with the standard middleware chain and the
// versioned API surface.
func NewRouter(app *handlers.App, cfg *infra.Config, logger infra.Logger, lookup middleware.CountryLookup, files *storage.FileStore) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RealIP,
		chimw.Recoverer,
		middleware.RequestID,
		middleware.Logger(logger),
		middleware.CORS(cfg.AllowedOrigins),
		middleware.Locale("en", lookup),
	)
	if cfg.RateLimitPerMin > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitPerMin, time.Minute))
	}

	r.Get("/v1/healthz", app.Health)

	if files != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", files.Handler()))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(cfg.JWTSecret))

		r.Route("/v1/videos", func(r chi.Router) {
			r.Get("/", app.VideosList)
			r.Post("/generate", app.VideosGenerate)
			r.Post("/upload-complete", app.UploadComplete)
			r.Get("/{id}", app.VideoGet)
			r.Patch("/{id}", app.VideoUpdate)
			r.Delete("/{id}", app.VideoDelete)
			r.Post("/{id}/generate", app.VideoRegenerate)
		})

		r.Route("/v1/jobs", func(r chi.Router) {
			r.Get("/{id}", app.JobGet)
			r.Post("/{id}/fail", app.JobFail)
		})

		r.Route("/v1/projects", func(r chi.Router) {
			r.Get("/", app.ProjectsList)
			r.Post("/", app.ProjectCreate)
			r.Get("/{id}", app.ProjectGet)
			r.Put("/{id}", app.ProjectUpdate)
			r.Delete("/{id}", app.ProjectDelete)
		})

		r.Route("/v1/templates", func(r chi.Router) {
			r.Get("/", app.TemplatesList)
			r.Post("/", app.TemplateCreate)
			r.Get("/{id}", app.TemplateGet)
			r.Put("/{id}", app.TemplateUpdate)
			r.Delete("/{id}", app.TemplateDelete)
		})

		r.Get("/v1/events", app.EventsStream)
	})

	return r
}
