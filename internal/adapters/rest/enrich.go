package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

type enrichRequest struct {
	Tracks []domain.TrackRef `json:"tracks"`
}

type enrichResponse struct {
	Results []domain.ReconciledTrack `json:"results"`
}

// EnrichBatch handles POST /enrich: runs the enrichment pipeline and
// reconciliation over the submitted tracks. The response always contains
// exactly one reconciled record per input track.
func (h *Handler) EnrichBatch(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req enrichRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	enriched, err := h.enricher.EnrichBatch(r.Context(), req.Tracks)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyBatch) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Cancellation or another batch-level fault; nothing was committed.
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, enrichResponse{Results: h.reconciler.ReconcileAll(enriched)})
}
