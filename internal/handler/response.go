package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cryptosden/backend/internal/apperror"
	"github.com/cryptosden/backend/internal/repository"
)

// ErrorResponse represents a JSON error response body.
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// respondJSON writes a JSON response with the given status code.
// It sets the Content-Type header to application/json.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response with the given status code and message.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// handleServiceError maps service errors to HTTP responses. Validation errors
// carry their field and message through; repository not-found sentinels become
// 404s; everything else is a generic 500 so internals never leak.
func handleServiceError(w http.ResponseWriter, err error, fallback string) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		respondJSON(w, appErr.StatusCode, ErrorResponse{Error: appErr.Message, Field: appErr.Field})
		return
	}

	switch {
	case errors.Is(err, repository.ErrAlertNotFound):
		respondError(w, http.StatusNotFound, "alert not found")
	case errors.Is(err, repository.ErrPreferenceNotFound):
		respondError(w, http.StatusNotFound, "preferences not found")
	case errors.Is(err, repository.ErrStaleAlert):
		respondError(w, http.StatusConflict, "alert was modified concurrently")
	default:
		respondError(w, http.StatusInternalServerError, fallback)
	}
}
