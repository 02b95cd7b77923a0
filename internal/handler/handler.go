package handler

import (
	"encoding/json"
	"net/http"

	"github.com/fitclash/fitclash/internal/apperrors"
	"github.com/fitclash/fitclash/internal/logger"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondAppError(w http.ResponseWriter, log *logger.Logger, err *apperrors.AppError) {
	status := statusForCode(err.Code)
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", "code", err.Code, "error", err)
	}
	respondJSON(w, status, errorResponse{Code: err.Code, Message: err.Message})
}

// statusForCode keeps the retryable/not-retryable split visible to clients:
// store outages come back 503, caller mistakes 4xx.
func statusForCode(code string) int {
	switch code {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInvalidInput, apperrors.CodeEmptyCompetition:
		return http.StatusBadRequest
	case apperrors.CodeAlreadyExists:
		return http.StatusConflict
	case apperrors.CodeRedisOperationError,
		apperrors.CodeDatabaseError,
		apperrors.CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
