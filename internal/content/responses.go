package content

import (
	"encoding/json"
	"net/http"
)

type errorResponse struct {
	Error string `json:"error"`
}

// writeError emits the JSON error envelope with a stable string code.
func writeError(w http.ResponseWriter, status int, code string) {
	data, _ := json.Marshal(errorResponse{Error: code})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeNotFound is the single external outcome for everything the caller
// may not see: missing rows, missing files, and out-of-bounds paths all
// present identically so rejection kind never leaks to the requester.
func writeNotFound(w http.ResponseWriter) {
	writeError(w, http.StatusNotFound, "not_found")
}
