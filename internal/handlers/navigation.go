package handlers

import (
	"net/http"
	"net/url"
	"path/filepath"

	"random-slideshow/internal/logging"
	"random-slideshow/internal/scanner"
	"random-slideshow/internal/vfs"
	"random-slideshow/internal/viewer"
)

// ImageResponse is the JSON body returned for every navigation endpoint.
// Paths are relative to the library root so they survive server restarts
// with a different mount point and never leak the host filesystem layout.
type ImageResponse struct {
	Path      string `json:"path"`
	Folder    string `json:"folder"`
	Name      string `json:"name"`
	Replaying bool   `json:"replaying"`
	URL       string `json:"url"`
}

func (h *Handlers) imageResponse(e viewer.Entry) ImageResponse {
	rel := h.apiPath(e.Path)
	return ImageResponse{
		Path:      rel,
		Folder:    h.apiPath(e.Folder),
		Name:      e.Name,
		Replaying: e.Replaying,
		URL:       fileURL(rel),
	}
}

// apiPath converts an index path (absolute on disk, or virtual with an
// absolute archive path) into a root-relative form suitable for clients.
func (h *Handlers) apiPath(p string) string {
	root := h.viewer.Root()
	if archive, member, ok := vfs.Split(p); ok {
		rel, err := filepath.Rel(root, archive)
		if err != nil {
			return p
		}
		return vfs.Prefix + filepath.ToSlash(rel) + vfs.Separator + member
	}
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return p
	}
	return filepath.ToSlash(rel)
}

// diskPath is the inverse of apiPath: it resolves a client-supplied
// root-relative path back to the absolute (possibly virtual) index path.
func (h *Handlers) diskPath(p string) string {
	root := h.viewer.Root()
	if archive, member, ok := vfs.Split(p); ok {
		if !filepath.IsAbs(archive) {
			archive = filepath.Join(root, filepath.FromSlash(archive))
		}
		return vfs.Prefix + archive + vfs.Separator + member
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(root, filepath.FromSlash(p))
	}
	return p
}

func fileURL(relPath string) string {
	u := url.URL{Path: "/api/file/" + relPath}
	return u.EscapedPath()
}

// parseMode reads the mode query parameter, defaulting to random.
func parseMode(r *http.Request) (viewer.Mode, bool) {
	raw := r.URL.Query().Get("mode")
	if raw == "" {
		return viewer.ModeRandom, true
	}
	m := viewer.Mode(raw)
	return m, viewer.ValidMode(m)
}

// NextImage handles GET /api/next
func (h *Handlers) NextImage(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid mode: "+r.URL.Query().Get("mode"))
		return
	}

	entry, ok := h.viewer.Next(mode)
	if !ok {
		writeJSONError(w, http.StatusNotFound, noImageMessage(h))
		return
	}
	writeJSON(w, http.StatusOK, h.imageResponse(entry))
}

// PrevImage handles GET /api/prev
func (h *Handlers) PrevImage(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		writeJSONError(w, http.StatusBadRequest, "invalid mode: "+r.URL.Query().Get("mode"))
		return
	}

	entry, ok := h.viewer.Prev(mode)
	if !ok {
		writeJSONError(w, http.StatusNotFound, noImageMessage(h))
		return
	}
	writeJSON(w, http.StatusOK, h.imageResponse(entry))
}

// HistoryBack handles GET /api/history/back
func (h *Handlers) HistoryBack(w http.ResponseWriter, _ *http.Request) {
	entry, ok := h.viewer.HistoryBack()
	if !ok {
		writeJSONError(w, http.StatusNotFound, "history exhausted")
		return
	}
	writeJSON(w, http.StatusOK, h.imageResponse(entry))
}

// HistoryForward handles GET /api/history/forward
func (h *Handlers) HistoryForward(w http.ResponseWriter, _ *http.Request) {
	entry, ok := h.viewer.HistoryForward()
	if !ok {
		writeJSONError(w, http.StatusNotFound, "already at the live position")
		return
	}
	writeJSON(w, http.StatusOK, h.imageResponse(entry))
}

// CurrentImage handles GET /api/current
func (h *Handlers) CurrentImage(w http.ResponseWriter, _ *http.Request) {
	entry, ok := h.viewer.Current()
	if !ok {
		writeJSONError(w, http.StatusNotFound, "no image displayed yet")
		return
	}
	writeJSON(w, http.StatusOK, h.imageResponse(entry))
}

// ProgressResponse reports scan progress alongside index totals.
type ProgressResponse struct {
	scanner.Progress
	Complete        bool `json:"complete"`
	Files           int  `json:"files"`
	Folders         int  `json:"folders"`
	NonEmptyFolders int  `json:"nonEmptyFolders"`
}

// GetProgress handles GET /api/progress
func (h *Handlers) GetProgress(w http.ResponseWriter, _ *http.Request) {
	stats := h.viewer.GetStats()
	writeJSON(w, http.StatusOK, ProgressResponse{
		Progress:        h.viewer.Progress(),
		Complete:        h.viewer.Controller().IsScanComplete(),
		Files:           stats.TotalFiles,
		Folders:         stats.TotalFolders,
		NonEmptyFolders: stats.NonEmptyFolders,
	})
}

// StatsResponse reports library and session counters.
type StatsResponse struct {
	Files           int `json:"files"`
	Folders         int `json:"folders"`
	NonEmptyFolders int `json:"nonEmptyFolders"`
	Viewed          int `json:"viewed"`
	HistoryEntries  int `json:"historyEntries"`
}

// GetStats handles GET /api/stats
func (h *Handlers) GetStats(w http.ResponseWriter, _ *http.Request) {
	stats := h.viewer.GetStats()
	writeJSON(w, http.StatusOK, StatsResponse{
		Files:           stats.TotalFiles,
		Folders:         stats.TotalFolders,
		NonEmptyFolders: stats.NonEmptyFolders,
		Viewed:          stats.ViewedFiles,
		HistoryEntries:  stats.HistoryEntries,
	})
}

// Rescan handles POST /api/rescan
func (h *Handlers) Rescan(w http.ResponseWriter, _ *http.Request) {
	logging.Info("Rescan requested via API")
	if err := h.viewer.Rescan(); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "rescan failed: "+err.Error())
		return
	}
	writeJSONStatus(w, http.StatusAccepted, "rescan started")
}

func noImageMessage(h *Handlers) string {
	if h.viewer.GetStats().TotalFiles == 0 {
		return "no images available"
	}
	return "no image in that direction"
}
