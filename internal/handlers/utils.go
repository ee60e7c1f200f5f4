package handlers

import (
	"encoding/json"
	"net/http"

	"random-slideshow/internal/logging"
)

// writeJSON writes a JSON response with the given status code
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error("Failed to encode JSON response: %v", err)
	}
}

// writeJSONError writes a JSON error response
func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeJSONStatus writes a JSON status message response
func writeJSONStatus(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"status": message})
}
