package ports

import (
	"context"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// LibraryProvider supplies the track list the pipeline enriches. It is an
// external collaborator, so unlike the source adapters it may fail with a
// plain error.
type LibraryProvider interface {
	GetPlaylistTracks(ctx context.Context, playlistID string) ([]domain.TrackRef, error)
}
