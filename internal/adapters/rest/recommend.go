package rest

import (
	"encoding/json"
	"net/http"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/services"
)

type recommendRequest struct {
	CurrentTrackID  string                   `json:"currentTrackId"`
	Tracks          []domain.ReconciledTrack `json:"tracks"`
	ExcludeTrackIDs []string                 `json:"excludeTrackIds"`
	EnergyDirection string                   `json:"energyDirection"`
}

// Recommend handles POST /recommend: one stateless engine call. The
// exclusion set travels with the request; nothing is stored.
func (h *Handler) Recommend(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentTrackID == "" {
		writeError(w, http.StatusBadRequest, "currentTrackId is required")
		return
	}
	if len(req.Tracks) == 0 {
		writeError(w, http.StatusBadRequest, "tracks must not be empty")
		return
	}

	direction, ok := parseEnergyDirection(req.EnergyDirection)
	if !ok {
		writeError(w, http.StatusBadRequest, "energyDirection must be maintain, increase or decrease")
		return
	}

	result := h.recommender.Recommend(services.RecommendationRequest{
		CurrentTrackID:  req.CurrentTrackID,
		Tracks:          req.Tracks,
		ExcludeTrackIDs: req.ExcludeTrackIDs,
		EnergyDirection: direction,
	})
	writeJSON(w, http.StatusOK, result)
}

func parseEnergyDirection(raw string) (services.EnergyDirection, bool) {
	switch raw {
	case "", string(services.EnergyMaintain):
		return services.EnergyMaintain, true
	case string(services.EnergyIncrease):
		return services.EnergyIncrease, true
	case string(services.EnergyDecrease):
		return services.EnergyDecrease, true
	default:
		return "", false
	}
}
