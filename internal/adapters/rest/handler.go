package rest

import (
	"encoding/json"
	"net/http"

	"github.com/ewilliams-labs/segue/internal/core/ports"
	"github.com/ewilliams-labs/segue/internal/core/services"
)

// Handler manages the HTTP interface for the service.
type Handler struct {
	enricher    *services.Enricher
	reconciler  *services.Reconciler
	recommender *services.Recommender
	sessions    ports.SessionRepository
	library     ports.LibraryProvider // may be nil when Spotify is not configured
	router      *http.ServeMux
}

// NewHandler initializes the HTTP adapter and sets up routes.
func NewHandler(
	enricher *services.Enricher,
	reconciler *services.Reconciler,
	recommender *services.Recommender,
	sessions ports.SessionRepository,
	library ports.LibraryProvider,
) *Handler {
	h := &Handler{
		enricher:    enricher,
		reconciler:  reconciler,
		recommender: recommender,
		sessions:    sessions,
		library:     library,
		router:      http.NewServeMux(),
	}
	h.routes()
	return h
}

// ServeHTTP satisfies the http.Handler interface.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

// routes defines the mapping between URLs and methods.
func (h *Handler) routes() {
	h.router.HandleFunc("GET /health", h.HealthCheck)
	h.router.HandleFunc("POST /enrich", h.EnrichBatch)
	h.router.HandleFunc("POST /recommend", h.Recommend)
	h.router.HandleFunc("POST /sessions", h.CreateSession)
	h.router.HandleFunc("POST /sessions/{id}/recommend", h.SessionRecommend)
	h.router.HandleFunc("GET /playlists/{id}/tracks", h.PlaylistTracks)
}

// HealthCheck is a simple endpoint to verify the API is running.
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok", "message": "Segue is live 🎧"})
}
