// Package spotify provides the playlist/library collaborator: it turns a
// Spotify playlist into the TrackRef list the enrichment pipeline
// consumes.
package spotify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
)

const (
	defaultBaseURL = "https://api.spotify.com/v1"
	tokenURL       = "https://accounts.spotify.com/api/token"
	pageLimit      = 100
)

// Client is an HTTP client for the Spotify library provider.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// compile-time interface assertion
var _ ports.LibraryProvider = (*Client)(nil)

// NewClient constructs a Spotify client authenticating with the
// client-credentials flow. The returned client injects bearer tokens and
// refreshes them transparently.
func NewClient(ctx context.Context, clientID, clientSecret string) *Client {
	conf := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     tokenURL,
	}
	httpClient := conf.Client(ctx)
	httpClient.Timeout = 15 * time.Second
	return newClient(httpClient, defaultBaseURL)
}

// NewClientWithHTTP constructs a client against an arbitrary base URL
// with a caller-supplied HTTP client. Used by tests.
func NewClientWithHTTP(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return newClient(httpClient, baseURL)
}

func newClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		limiter:    rate.NewLimiter(rate.Every(200*time.Millisecond), 1),
	}
}

// GetPlaylistTracks pages through a playlist and returns its tracks as
// TrackRefs, skipping local files and malformed entries.
func (c *Client) GetPlaylistTracks(ctx context.Context, playlistID string) ([]domain.TrackRef, error) {
	if playlistID == "" {
		return nil, fmt.Errorf("spotify adapter: playlist id is required")
	}

	pageURL := fmt.Sprintf("%s/playlists/%s/tracks?limit=%d", c.baseURL, url.PathEscape(playlistID), pageLimit)
	var refs []domain.TrackRef

	for pageURL != "" {
		page, err := c.fetchPage(ctx, pageURL)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Items {
			if ref, ok := item.Track.toRef(); ok {
				refs = append(refs, ref)
			}
		}
		pageURL = page.Next
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("spotify adapter: playlist %s: %w", playlistID, domain.ErrNotFound)
	}
	return refs, nil
}

func (c *Client) fetchPage(ctx context.Context, pageURL string) (playlistItemsPage, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return playlistItemsPage{}, fmt.Errorf("spotify adapter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return playlistItemsPage{}, fmt.Errorf("spotify adapter: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return playlistItemsPage{}, fmt.Errorf("spotify adapter: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return playlistItemsPage{}, fmt.Errorf("spotify adapter: %w", domain.ErrNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return playlistItemsPage{}, fmt.Errorf("spotify adapter: status %d", resp.StatusCode)
	}

	var page playlistItemsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return playlistItemsPage{}, fmt.Errorf("spotify adapter: %w", err)
	}
	return page, nil
}
