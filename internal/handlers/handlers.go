package handlers

import (
	"net/http"
	"time"

	"random-slideshow/internal/viewer"

	"github.com/gorilla/mux"
)

// Handlers contains all HTTP handlers and their dependencies
type Handlers struct {
	viewer    *viewer.Viewer
	sessions  *SessionStore // nil when authentication is disabled
	startTime time.Time
}

// New creates a new Handlers instance. sessions may be nil, in which case
// all endpoints are reachable without logging in.
func New(v *viewer.Viewer, sessions *SessionStore) *Handlers {
	return &Handlers{
		viewer:    v,
		sessions:  sessions,
		startTime: time.Now(),
	}
}

// RegisterRoutes attaches all API and probe routes to the router.
func (h *Handlers) RegisterRoutes(r *mux.Router) {
	// Probes stay outside the API subrouter so they are never auth-gated.
	r.HandleFunc("/health", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/healthz", h.HealthCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/livez", h.LivenessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods(http.MethodGet, http.MethodHead)
	r.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.requireAuth)

	api.HandleFunc("/auth/login", h.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/logout", h.Logout).Methods(http.MethodPost)
	api.HandleFunc("/auth/status", h.AuthStatus).Methods(http.MethodGet)

	api.HandleFunc("/next", h.NextImage).Methods(http.MethodGet)
	api.HandleFunc("/prev", h.PrevImage).Methods(http.MethodGet)
	api.HandleFunc("/history/back", h.HistoryBack).Methods(http.MethodGet)
	api.HandleFunc("/history/forward", h.HistoryForward).Methods(http.MethodGet)
	api.HandleFunc("/current", h.CurrentImage).Methods(http.MethodGet)
	api.HandleFunc("/progress", h.GetProgress).Methods(http.MethodGet)
	api.HandleFunc("/stats", h.GetStats).Methods(http.MethodGet)
	api.HandleFunc("/rescan", h.Rescan).Methods(http.MethodPost)
	api.HandleFunc("/version", h.GetVersion).Methods(http.MethodGet)

	api.HandleFunc("/file/{path:.*}", h.GetFile).Methods(http.MethodGet)
}
