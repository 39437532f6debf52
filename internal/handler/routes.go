package handler

import (
	"context"
	"net/http"

	"cms-dashboard/internal/middleware"
	"cms-dashboard/internal/session"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Routes bundles what NewRouter mounts. Metrics, MetricsHandler, Media and
// Ready are optional.
type Routes struct {
	Auth      *AuthHandler
	Gallery   *GalleryHandler
	Documents *DocumentHandler
	Editor    *EditorHandler

	Session session.Manager
	Authz   func(http.Handler) http.Handler
	Errors  func(middleware.AppHandler) http.Handler

	Metrics        *middleware.Metrics
	MetricsHandler http.Handler
	Static         http.Handler
	Media          http.Handler
	Ready          func(ctx context.Context) error
}

// NewRouter creates and configures a new chi router.
func NewRouter(rt Routes) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	if rt.Metrics != nil {
		r.Use(rt.Metrics.Handler)
	}
	r.Use(rt.Session.LoadAndSave)
	r.Use(middleware.Flashes(rt.Session))
	r.Use(rt.Authz)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if rt.Ready != nil {
			if err := rt.Ready(r.Context()); err != nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("ok"))
	})
	r.Get("/robots.txt", robotsHandler)
	if rt.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", rt.MetricsHandler)
	}
	if rt.Static != nil {
		r.Handle("/static/*", rt.Static)
	}
	if rt.Media != nil {
		r.Handle("/media/*", http.StripPrefix("/media", rt.Media))
	}

	// Authentication routes
	r.Method(http.MethodGet, "/sign-in", rt.Errors(rt.Auth.signInForm))
	r.Method(http.MethodPost, "/sign-in", rt.Errors(rt.Auth.signIn))
	r.Method(http.MethodPost, "/sign-out", rt.Errors(rt.Auth.signOut))
	r.Method(http.MethodGet, "/auth/login", rt.Errors(rt.Auth.handleLogin))
	r.Method(http.MethodGet, "/auth/callback", rt.Errors(rt.Auth.handleCallback))

	// Dashboard routes
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/gallery", http.StatusFound)
	})
	r.Route("/gallery", func(r chi.Router) {
		r.Method(http.MethodGet, "/", rt.Errors(rt.Gallery.list))
		r.Method(http.MethodGet, "/post", rt.Errors(rt.Gallery.postForm))
		r.Method(http.MethodPost, "/post", rt.Errors(rt.Gallery.post))
		r.Method(http.MethodGet, "/{id}", rt.Errors(rt.Gallery.show))
		r.Method(http.MethodPost, "/{id}", rt.Errors(rt.Gallery.edit))
		r.Method(http.MethodPost, "/{id}/delete", rt.Errors(rt.Gallery.delete))
	})
	r.Method(http.MethodGet, "/about", rt.Errors(rt.Documents.showAbout))
	r.Method(http.MethodPost, "/about", rt.Errors(rt.Documents.saveAbout))
	r.Method(http.MethodGet, "/contact", rt.Errors(rt.Documents.showContact))
	r.Method(http.MethodPost, "/contact", rt.Errors(rt.Documents.saveContact))

	r.Post("/api/editor", rt.Editor.apply)
	r.Post("/api/preview", rt.Editor.preview)

	r.NotFound(rt.Errors(func(w http.ResponseWriter, r *http.Request) *middleware.AppError {
		return &middleware.AppError{Message: "Not Found", Code: http.StatusNotFound}
	}).ServeHTTP)

	return r
}
