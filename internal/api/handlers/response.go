package handlers

import (
	"encoding/json"
	"net/http"

	apperrors "github.com/zatekoja/carefinder/pkg/errors"
)

func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}

// respondWithAppError logs the full error and sends only its public message
func respondWithAppError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	logger := loggerFor(r)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Request failed")
	} else {
		logger.Warn().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Request rejected")
	}
	respondWithError(w, status, apperrors.PublicMessage(err))
}
