// Package handlers wires HTTP requests to the service layer. Handlers decode
// and validate input, map service errors to status codes, and render the
// shared response envelope; business rules live in services.
package handlers

import (
	"encoding/json"
	"net/http"

	"licenseserver/models"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	writeJSON(w, status, models.ErrorResponse(message, err))
}

func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	return true
}
