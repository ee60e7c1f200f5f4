package handlers

import (
	"net/http"
	"strconv"

	"random-slideshow/internal/imagetypes"
	"random-slideshow/internal/vfs"

	"github.com/gorilla/mux"
)

// GetFile handles GET /api/file/{path} and serves image bytes from disk or
// from inside an archive. The path is root-relative, as handed out by the
// navigation endpoints.
func (h *Handlers) GetFile(w http.ResponseWriter, r *http.Request) {
	rel := mux.Vars(r)["path"]
	if rel == "" {
		writeJSONError(w, http.StatusBadRequest, "missing file path")
		return
	}

	p := h.diskPath(rel)
	if !vfs.WithinRoot(h.viewer.Root(), p) {
		writeJSONError(w, http.StatusForbidden, "path outside library root")
		return
	}

	name := vfs.Name(p)
	if !imagetypes.IsImage(name) {
		writeJSONError(w, http.StatusNotFound, "not an image file")
		return
	}

	data, err := vfs.ReadFile(p)
	if err != nil {
		writeJSONError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("Content-Type", imagetypes.MimeType(name))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := w.Write(data); err != nil {
		// Client went away mid-transfer; nothing useful to do.
		return
	}
}
