package handlers

import (
	"net/http"

	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/display"
	"github.com/ndewijer/Portfolio-Snapshot-Backend/internal/service"
)

// SnapshotHandler handles HTTP requests for the portfolio snapshot.
// It serves as the HTTP layer adapter, delegating the computation to the snapshotService.
type SnapshotHandler struct {
	snapshotService *service.SnapshotService
}

// NewSnapshotHandler creates a new SnapshotHandler with the provided service dependency.
func NewSnapshotHandler(snapshotService *service.SnapshotService) *SnapshotHandler {
	return &SnapshotHandler{
		snapshotService: snapshotService,
	}
}

// Snapshot handles GET requests for the numeric portfolio snapshot.
// Undefined percentages are encoded as null.
//
// Endpoint: GET /api/snapshot
// Response: 200 OK with model.PortfolioSnapshot
// Error: 422 Unprocessable Entity if the ledger or reference data is inconsistent
// Error: 503 Service Unavailable if an input could not be loaded
func (h *SnapshotHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshotService.Snapshot(r.Context())
	if err != nil {
		respondServiceError(w, "failed to compute portfolio snapshot", err)
		return
	}

	respondJSON(w, http.StatusOK, snap)
}

// Display handles GET requests for the formatted portfolio snapshot.
//
// Endpoint: GET /api/snapshot/display
// Response: 200 OK with display.View
// Errors: as Snapshot
func (h *SnapshotHandler) Display(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshotService.Snapshot(r.Context())
	if err != nil {
		respondServiceError(w, "failed to compute portfolio snapshot", err)
		return
	}

	respondJSON(w, http.StatusOK, display.Snapshot(snap))
}
