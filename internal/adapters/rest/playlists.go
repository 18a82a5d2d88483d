package rest

import (
	"errors"
	"net/http"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

type playlistTracksResponse struct {
	Tracks []domain.TrackRef `json:"tracks"`
}

// PlaylistTracks handles GET /playlists/{id}/tracks, exposing the library
// provider so callers can build a session from a playlist id.
func (h *Handler) PlaylistTracks(w http.ResponseWriter, r *http.Request) {
	if h.library == nil {
		writeError(w, http.StatusServiceUnavailable, "playlist provider is not configured")
		return
	}

	playlistID := r.PathValue("id")
	if playlistID == "" {
		writeError(w, http.StatusBadRequest, "playlist id is required")
		return
	}

	tracks, err := h.library.GetPlaylistTracks(r.Context(), playlistID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "playlist not found")
			return
		}
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, playlistTracksResponse{Tracks: tracks})
}
