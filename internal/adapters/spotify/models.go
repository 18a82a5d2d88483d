package spotify

import (
	"strings"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// playlistItemsPage is one page of the Spotify playlist-items endpoint.
type playlistItemsPage struct {
	Items []playlistItem `json:"items"`
	Next  string         `json:"next"`
}

type playlistItem struct {
	Track spotifyTrack `json:"track"`
}

// spotifyTrack is the wire shape of one Spotify track.
type spotifyTrack struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Artists []struct {
		Name string `json:"name"`
	} `json:"artists"`
}

// toRef converts a wire track to a domain TrackRef. Local files and other
// entries without a stable id or a title do not convert (ok=false).
func (st spotifyTrack) toRef() (domain.TrackRef, bool) {
	if st.ID == "" || st.Name == "" {
		return domain.TrackRef{}, false
	}

	names := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		if a.Name != "" {
			names = append(names, a.Name)
		}
	}

	return domain.TrackRef{
		ID:     st.ID,
		Title:  st.Name,
		Artist: strings.Join(names, ", "),
	}, true
}
