package app

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/katsuo-ito/slotsync/internal/handlers"
	"github.com/katsuo-ito/slotsync/internal/logger"
	"github.com/katsuo-ito/slotsync/internal/respond"
	"github.com/katsuo-ito/slotsync/pkg/schedule"
)

// App holds all application dependencies
type App struct {
	log      logger.Logger
	handlers *handlers.Handlers
	sessions *respond.Registry
}

// New creates and initializes a new application instance
func New(log logger.Logger, client schedule.Client, templatesFS, staticFS fs.FS) (*App, error) {
	sessions := respond.NewRegistry(log, client)

	staticServer := handlers.NewStaticServer(staticFS)

	h, err := handlers.New(sessions, client, templatesFS, staticServer, log)
	if err != nil {
		return nil, err
	}

	return &App{
		log:      log,
		handlers: h,
		sessions: sessions,
	}, nil
}

// Router returns the configured HTTP router
func (a *App) Router() chi.Router {
	return a.handlers.Router()
}

// Close cancels any in-flight service requests and releases sessions
func (a *App) Close() {
	a.sessions.CloseAll()
}

// Run starts the HTTP server
func (a *App) Run(addr string) error {
	a.log.Info("Console starting", "url", "http://"+addr)
	return http.ListenAndServe(addr, a.Router())
}
