package handlers

import (
	"net/http"
	"time"

	"random-slideshow/internal/startup"
)

const (
	statusHealthy  = "healthy"
	statusStarting = "starting"
	statusEmpty    = "empty"
)

// HealthResponse is the body returned by the health endpoint
type HealthResponse struct {
	Status       string `json:"status"`
	Version      string `json:"version"`
	Uptime       string `json:"uptime"`
	ScanComplete bool   `json:"scanComplete"`
	FilesSeen    int64  `json:"filesSeen"`
	FoldersSeen  int64  `json:"foldersSeen"`
	Files        int    `json:"files"`
	Folders      int    `json:"folders"`
}

// healthStatus derives the overall status from scan state and index size.
// The server is usable as soon as a single image has been registered, well
// before a large scan finishes.
func (h *Handlers) healthStatus() (string, int) {
	stats := h.viewer.GetStats()
	complete := h.viewer.Controller().IsScanComplete()

	switch {
	case stats.TotalFiles > 0:
		return statusHealthy, http.StatusOK
	case complete:
		// Finished scanning and found nothing to show.
		return statusEmpty, http.StatusOK
	default:
		return statusStarting, http.StatusServiceUnavailable
	}
}

// HealthCheck handles GET /healthz
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status, code := h.healthStatus()

	if r.Method == http.MethodHead {
		w.WriteHeader(code)
		return
	}

	stats := h.viewer.GetStats()
	progress := h.viewer.Progress()

	writeJSON(w, code, HealthResponse{
		Status:       status,
		Version:      startup.Version,
		Uptime:       time.Since(h.startTime).Round(time.Second).String(),
		ScanComplete: h.viewer.Controller().IsScanComplete(),
		FilesSeen:    progress.FilesSeen,
		FoldersSeen:  progress.FoldersSeen,
		Files:        stats.TotalFiles,
		Folders:      stats.TotalFolders,
	})
}

// LivenessCheck handles GET /livez. It answers 200 as long as the process
// can serve HTTP at all.
func (h *Handlers) LivenessCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodHead {
		w.WriteHeader(http.StatusOK)
		return
	}
	writeJSONStatus(w, http.StatusOK, "alive")
}

// ReadinessCheck handles GET /readyz. Ready means at least one image can be
// served, or the scan finished (an empty library is still "ready", just
// with nothing to show).
func (h *Handlers) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	_, code := h.healthStatus()

	if r.Method == http.MethodHead {
		w.WriteHeader(code)
		return
	}
	if code == http.StatusOK {
		writeJSONStatus(w, code, "ready")
		return
	}
	writeJSONStatus(w, code, "scanning")
}
