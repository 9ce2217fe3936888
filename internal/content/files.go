package content

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"saferoot/internal/store"
	"saferoot/internal/uploads"
	"saferoot/pkg/pathguard"
)

// handleFile serves the file behind a component's content_file_path. The
// stored path is untrusted; it is resolved against the uploads root and
// any rejection collapses into the same 404 as a missing component.
func (h *handler) handleFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/files/")
	if id == "" || strings.Contains(id, "/") {
		writeNotFound(w)
		return
	}

	component, err := h.store.ComponentByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w)
			return
		}
		writeError(w, http.StatusInternalServerError, "backend_error")
		return
	}
	if component.FilePath == "" {
		writeNotFound(w)
		return
	}

	resolved, err := h.uploads.Resolve(component.FilePath)
	if err != nil {
		if _, ok := pathguard.KindOf(err); ok {
			writeNotFound(w)
			return
		}
		writeError(w, http.StatusInternalServerError, "backend_error")
		return
	}

	contentType := uploads.MIMETypeForPath(resolved.Path())
	if contentType == "application/octet-stream" {
		// Extension gave nothing; fall back to content sniffing so a
		// stored file without a usable suffix still serves its real type.
		if format, err := uploads.DetectFile(resolved.Path()); err == nil {
			contentType = format.MIMEType()
		}
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", h.maxAge))
	http.ServeFile(w, r, resolved.Path())
}
