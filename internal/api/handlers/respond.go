package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/soundseekers/discovery-backend/pkg/errors"
)

// respondWithJSON writes a JSON response with the given status code
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

// respondWithError writes a JSON error response
func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError maps an application error to its HTTP status code
func respondWithAppError(w http.ResponseWriter, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	switch appErr.Type {
	case apperrors.ErrorTypeNotFound:
		respondWithError(w, http.StatusNotFound, appErr.Message)
	case apperrors.ErrorTypeValidation:
		respondWithError(w, http.StatusBadRequest, appErr.Message)
	case apperrors.ErrorTypeConflict:
		respondWithError(w, http.StatusConflict, appErr.Message)
	case apperrors.ErrorTypeExternal:
		respondWithError(w, http.StatusBadGateway, appErr.Message)
	default:
		respondWithError(w, http.StatusInternalServerError, "internal server error")
	}
}
