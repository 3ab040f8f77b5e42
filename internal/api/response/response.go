// Package response provides utilities for sending consistent HTTP responses.
// It includes helpers for JSON responses and standardized error responses.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Brokerage-Snapshot-Backend/internal/validation"
)

// ErrorResponse represents a structured error response returned by the API.
// The Details field is optional and can contain additional context about the error.
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Sets the Content-Type header to application/json and writes the status code.
// If data is nil, only the status code is sent (useful for 204 No Content).
// Logs encoding errors but does not fail the response.
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Error().Err(err).Msg("Failed to encode JSON response")
		}
	}
}

// RespondError sends a structured error response with the given status code.
// The message should be a user-friendly error description.
// The details parameter can be an error string, additional context, or nil.
//
// Example:
//
//	response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
//	response.RespondError(w, http.StatusNotFound, "resource not found", "")
func RespondError(w http.ResponseWriter, status int, message string, details interface{}) {
	response := ErrorResponse{
		Error:   message,
		Details: details,
	}
	RespondJSON(w, status, response)
}

// RespondServiceError maps a service error to its HTTP status and sends it.
// Validation and input errors map to 400, missing entities to 404, everything else to 500.
// The message is used for the 500 case; client errors use the error text itself.
func RespondServiceError(w http.ResponseWriter, err error, message string) {
	var vErr *validation.Error
	switch {
	case errors.As(err, &vErr):
		RespondError(w, http.StatusBadRequest, "validation failed", vErr.Fields)
	case errors.Is(err, apperrors.ErrSnapshotNotFound):
		RespondError(w, http.StatusNotFound, apperrors.ErrSnapshotNotFound.Error(), err.Error())
	case errors.Is(err, apperrors.ErrInvalidUUID),
		errors.Is(err, apperrors.ErrInvalidDateRange),
		errors.Is(err, apperrors.ErrInvalidDate),
		errors.Is(err, apperrors.ErrInvalidCurrency),
		errors.Is(err, apperrors.ErrInvalidBrokerAccountID),
		errors.Is(err, apperrors.ErrInvalidOptionCode),
		errors.Is(err, apperrors.ErrInvalidOptionType),
		errors.Is(err, apperrors.ErrDuplicateSnapshotKey),
		errors.Is(err, apperrors.ErrCostBasisNotFound):
		RespondError(w, http.StatusBadRequest, "invalid request", err.Error())
	default:
		RespondError(w, http.StatusInternalServerError, message, err.Error())
	}
}
