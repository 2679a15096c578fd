package handlers

import (
	"errors"
	"net/http"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/api/response"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/validation"
)

// respondJSON sends a JSON response with the given status code
func respondJSON(w http.ResponseWriter, status int, data any) {
	response.RespondJSON(w, status, data)
}

// statusForError maps service errors to HTTP status codes:
// bad input and integrity failures are 422, unavailable inputs are 503,
// missing cached entities are 404 and everything else is 500.
func statusForError(err error) int {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrInvalidLedger), apperrors.IsIntegrityError(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperrors.ErrSnapshotUnavailable), errors.Is(err, apperrors.ErrLedgerNotFound):
		return http.StatusServiceUnavailable
	case errors.Is(err, apperrors.ErrQuoteNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondServiceError writes err with the status chosen by statusForError.
func respondServiceError(w http.ResponseWriter, message string, err error) {
	response.RespondError(w, statusForError(err), message, err.Error())
}
