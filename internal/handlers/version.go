package handlers

import (
	"net/http"

	"random-slideshow/internal/startup"
)

// GetVersion handles GET /api/version
func (h *Handlers) GetVersion(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	writeJSON(w, http.StatusOK, startup.GetBuildInfo())
}
