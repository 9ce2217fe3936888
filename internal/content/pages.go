package content

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"saferoot/internal/render"
	"saferoot/internal/store"
)

// handlePage renders a page from its components. A component whose
// template name or type fails validation is omitted from the page rather
// than failing the whole render; the rejection is already on the audit
// trail by the time the lookup returns.
func (h *handler) handlePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}
	slug := strings.TrimPrefix(r.URL.Path, "/pages/")
	if slug == "" || strings.Contains(slug, "/") {
		writeNotFound(w)
		return
	}

	page, err := h.store.PageBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w)
			return
		}
		writeError(w, http.StatusInternalServerError, "backend_error")
		return
	}
	components, err := h.store.ComponentsForPage(r.Context(), page.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "backend_error")
		return
	}

	var body strings.Builder
	for _, component := range components {
		data := render.ComponentData{
			Type: component.Type,
			Text: component.Text,
		}
		if component.FilePath != "" {
			data.FileURL = "/files/" + component.ID
		}
		var fragment strings.Builder
		if err := h.templates.Render(&fragment, component.Type, component.Template, data); err != nil {
			continue
		}
		body.WriteString(fragment.String())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	shell := render.PageShell(page.Title, templ.Raw(body.String()))
	if err := shell.Render(r.Context(), w); err != nil {
		// Headers are gone by now; nothing useful left to send.
		return
	}
}
