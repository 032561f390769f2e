package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// conditionalHTTPLogger only logs HTTP requests when HTTP logging is enabled
func (h *Handlers) conditionalHTTPLogger(next http.Handler) http.Handler {
	logger := middleware.Logger(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.Log != nil && h.Log.IsHTTPLoggingEnabled() {
			logger.ServeHTTP(w, r)
		} else {
			next.ServeHTTP(w, r)
		}
	})
}

// Router returns a configured chi router with all routes
func (h *Handlers) Router() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(h.conditionalHTTPLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RedirectSlashes)
	r.Use(middleware.Timeout(60 * time.Second))

	// Static files (served from embedded filesystem)
	r.Handle("/static/*", http.StripPrefix("/static/", h.staticServer))

	// Home page
	r.Get("/", h.handleHome)
	r.Post("/open", h.handleOpen)

	// Event pages
	r.Get("/e/{publicID}", h.handleRespondPage)
	r.Post("/e/{publicID}", h.handleRespondSubmit)
	r.Get("/e/{publicID}/results", h.handleResultsPage)
	r.Get("/e/{publicID}/admin", h.handleAdminPage)
	r.Post("/e/{publicID}/admin", h.handleAdminFetch)
	r.Get("/e/{publicID}/edit/{editKey}", h.handleEditPage)
	r.Post("/e/{publicID}/edit/{editKey}", h.handleRespondSubmit)
	r.Get("/e/{publicID}/link.png", h.handleLinkQR)

	// Everything else goes home, matching the SPA catch-all
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/", http.StatusFound)
	})

	return r
}
