package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/apperrors"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/validation"
)

// TestRespondJSON tests the respondJSON helper function.
// This is an internal test (package handlers, not handlers_test) because
// respondJSON is unexported.
func TestRespondJSON(t *testing.T) {
	t.Run("sets content-type and status code correctly", func(t *testing.T) {
		w := httptest.NewRecorder()
		data := map[string]string{"message": "success"}

		respondJSON(w, 200, data)

		if w.Code != 200 {
			t.Errorf("Expected status 200, got %d", w.Code)
		}

		if w.Header().Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type 'application/json', got '%s'", w.Header().Get("Content-Type"))
		}
	})

	t.Run("handles nil data without error", func(t *testing.T) {
		w := httptest.NewRecorder()

		respondJSON(w, 204, nil)

		if w.Code != 204 {
			t.Errorf("Expected status 204, got %d", w.Code)
		}
	})
}

// TestStatusForError tests the mapping of service errors to HTTP status codes.
//
// WHY: A dashboard distinguishes "fix your data" (422) from "try again later"
// (503). Wrapped errors must map the same as the sentinel they wrap.
func TestStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation error", &validation.Error{Fields: map[string]string{"symbols[0]": "bad"}}, http.StatusBadRequest},
		{"invalid ledger", fmt.Errorf("holdings.toml: %w", apperrors.ErrInvalidLedger), http.StatusUnprocessableEntity},
		{"unknown ticker", fmt.Errorf("%w: NOPE", apperrors.ErrUnknownTicker), http.StatusUnprocessableEntity},
		{"zero total value", fmt.Errorf("historical: %w", apperrors.ErrZeroTotalValue), http.StatusUnprocessableEntity},
		{"dangling reference", apperrors.ErrDataInconsistency, http.StatusUnprocessableEntity},
		{"snapshot unavailable", fmt.Errorf("%w: %w", apperrors.ErrSnapshotUnavailable, errors.New("disk")), http.StatusServiceUnavailable},
		{"ledger missing", fmt.Errorf("%w: /data/holdings.toml", apperrors.ErrLedgerNotFound), http.StatusServiceUnavailable},
		{"quote not found", fmt.Errorf("%w: AAPL", apperrors.ErrQuoteNotFound), http.StatusNotFound},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusForError(tt.err); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}
