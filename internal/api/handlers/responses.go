// internal/api/handlers/responses.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"photovault/internal/logging"
	"photovault/internal/services"
)

// ErrorResponse is a standard format for API error messages.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a standard format for simple API messages.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondWithError sends a JSON error response.
func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, ErrorResponse{Error: message})
}

// respondWithJSON sends a JSON response.
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// respondWithServiceError maps a service error onto an HTTP status. Client
// errors carry the service message, anything else is logged and hidden.
func respondWithServiceError(w http.ResponseWriter, err error, action string) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrNotEmpty),
		errors.Is(err, services.ErrJobActive):
		respondWithError(w, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrInvalidInput):
		respondWithError(w, http.StatusBadRequest, err.Error())
	default:
		logging.Log.Errorf("Failed to %s: %v", action, err)
		respondWithError(w, http.StatusInternalServerError, "Failed to "+action+".")
	}
}
