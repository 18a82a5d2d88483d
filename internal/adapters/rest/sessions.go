package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
	"github.com/ewilliams-labs/segue/internal/core/services"
)

const errCodeSessionNotFound = "SESSION_NOT_FOUND"

type createSessionRequest struct {
	Tracks     []domain.TrackRef `json:"tracks"`
	PlaylistID string            `json:"playlistId"`
}

type createSessionResponse struct {
	SessionID string                   `json:"sessionId"`
	Results   []domain.ReconciledTrack `json:"results"`
}

// CreateSession handles POST /sessions: enriches and reconciles a track
// list once, persists the batch, and returns the session id the caller
// uses for subsequent recommendation calls. The track list comes either
// inline or from the library provider via playlistId.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tracks := req.Tracks
	if len(tracks) == 0 && req.PlaylistID != "" {
		if h.library == nil {
			writeError(w, http.StatusServiceUnavailable, "playlist provider is not configured")
			return
		}
		fetched, err := h.library.GetPlaylistTracks(r.Context(), req.PlaylistID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, "playlist not found")
				return
			}
			writeError(w, http.StatusBadGateway, err.Error())
			return
		}
		tracks = fetched
	}
	if len(tracks) == 0 {
		writeError(w, http.StatusBadRequest, "tracks or playlistId is required")
		return
	}

	enriched, err := h.enricher.EnrichBatch(r.Context(), tracks)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyBatch) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	session := ports.Session{
		ID:     uuid.NewString(),
		Tracks: h.reconciler.ReconcileAll(enriched),
	}
	if err := h.sessions.CreateSession(r.Context(), session); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Location", "/sessions/"+session.ID)
	writeJSON(w, http.StatusCreated, createSessionResponse{
		SessionID: session.ID,
		Results:   session.Tracks,
	})
}

type sessionRecommendRequest struct {
	CurrentTrackID  string `json:"currentTrackId"`
	EnergyDirection string `json:"energyDirection"`
}

// SessionRecommend handles POST /sessions/{id}/recommend. The exclusion
// set is the session's recommendation history; the engine itself stays
// stateless and the history grows only after a successful pick.
func (h *Handler) SessionRecommend(w http.ResponseWriter, r *http.Request) {
	if !isJSONContentType(r) {
		writeError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return
	}

	sessionID := r.PathValue("id")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "session id is required")
		return
	}

	var req sessionRecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CurrentTrackID == "" {
		writeError(w, http.StatusBadRequest, "currentTrackId is required")
		return
	}

	direction, ok := parseEnergyDirection(req.EnergyDirection)
	if !ok {
		writeError(w, http.StatusBadRequest, "energyDirection must be maintain, increase or decrease")
		return
	}

	session, err := h.sessions.GetSession(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeErrorWithCode(w, http.StatusNotFound, "session not found", errCodeSessionNotFound)
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	result := h.recommender.Recommend(services.RecommendationRequest{
		CurrentTrackID:  req.CurrentTrackID,
		Tracks:          session.Tracks,
		ExcludeTrackIDs: session.Recommended,
		EnergyDirection: direction,
	})

	if result.Recommendation != nil {
		if err := h.sessions.AppendRecommendation(r.Context(), sessionID, *result.Recommendation); err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, result)
}
