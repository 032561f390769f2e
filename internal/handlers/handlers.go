package handlers

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/katsuo-ito/slotsync/internal/logger"
	"github.com/katsuo-ito/slotsync/internal/respond"
	"github.com/katsuo-ito/slotsync/pkg/schedule"
)

// NewStaticServer creates a static file server from an fs.FS
func NewStaticServer(staticFS fs.FS) http.Handler {
	return http.FileServer(http.FS(staticFS))
}

// Templates holds all parsed HTML templates
type Templates struct {
	Home    *template.Template
	Respond *template.Template
	Results *template.Template
	Admin   *template.Template
}

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	Sessions     *respond.Registry
	Client       schedule.Client
	Log          logger.Logger
	templates    *Templates
	staticServer http.Handler
}

// New creates a new Handlers instance with all dependencies
func New(
	sessions *respond.Registry,
	client schedule.Client,
	templatesFS fs.FS,
	staticServer http.Handler,
	log logger.Logger,
) (*Handlers, error) {
	templates, err := loadTemplates(templatesFS)
	if err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}

	return &Handlers{
		Sessions:     sessions,
		Client:       client,
		Log:          log,
		templates:    templates,
		staticServer: staticServer,
	}, nil
}

// loadTemplates parses all templates once at startup
func loadTemplates(templatesFS fs.FS) (*Templates, error) {
	t := &Templates{}
	var err error

	if t.Home, err = template.ParseFS(templatesFS, "home.html"); err != nil {
		return nil, fmt.Errorf("home template: %w", err)
	}
	if t.Respond, err = template.ParseFS(templatesFS, "respond.html"); err != nil {
		return nil, fmt.Errorf("respond template: %w", err)
	}
	if t.Results, err = template.ParseFS(templatesFS, "results.html"); err != nil {
		return nil, fmt.Errorf("results template: %w", err)
	}
	if t.Admin, err = template.ParseFS(templatesFS, "admin.html"); err != nil {
		return nil, fmt.Errorf("admin template: %w", err)
	}
	return t, nil
}

// render executes a template, logging failures after headers are committed
func (h *Handlers) render(w http.ResponseWriter, tmpl *template.Template, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.Execute(w, data); err != nil {
		h.Log.Error("template render failed", "template", tmpl.Name(), "error", err)
	}
}
