// Package content serves pages and component files over HTTP. Every path
// that reaches disk goes through pathguard first; the handlers never pass
// a raw store string to the filesystem.
package content

import (
	"errors"
	"net/http"

	"saferoot/internal/render"
	"saferoot/internal/store"
	"saferoot/pkg/pathguard"
)

// Config wires dependencies for the HTTP handler.
type Config struct {
	// Store supplies page and component metadata (untrusted strings).
	Store *store.Store
	// Uploads bounds all component file access.
	Uploads *pathguard.Root
	// Templates locates component templates.
	Templates *render.Lookup
	// StaticMaxAgeSecs sets Cache-Control for served files.
	StaticMaxAgeSecs int
}

// NewHandler builds the HTTP handler for the content server.
func NewHandler(cfg Config) (http.Handler, error) {
	if cfg.Store == nil {
		return nil, errors.New("content: store is required")
	}
	if cfg.Uploads == nil {
		return nil, errors.New("content: uploads root is required")
	}
	if cfg.Templates == nil {
		return nil, errors.New("content: template lookup is required")
	}
	h := &handler{
		store:     cfg.Store,
		uploads:   cfg.Uploads,
		templates: cfg.Templates,
		maxAge:    cfg.StaticMaxAgeSecs,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/files/", h.handleFile)
	mux.HandleFunc("/pages/", h.handlePage)
	return mux, nil
}

type handler struct {
	store     *store.Store
	uploads   *pathguard.Root
	templates *render.Lookup
	maxAge    int
}

// handleHealth reports liveness.
func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
