// Package getsongbpm implements the structured metadata source against the
// GetSongBPM API: a two-step search→details protocol returning typed
// results that never fault across the component boundary.
package getsongbpm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
)

// candidateLimit caps the detail fetches per lookup for latency and cost.
const candidateLimit = 5

// Client is the HTTP client for the GetSongBPM adapter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// compile-time interface assertion
var _ ports.MetadataSource = (*Client)(nil)

// NewClient constructs a GetSongBPM client. An empty apiKey is allowed;
// lookups then degrade to a typed missing-credentials result.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		// Free tier allows roughly one request per second.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

// Lookup searches for a track by title (and artist, when present) and
// fetches full details for up to candidateLimit hits. Matches are ordered
// best-similarity-first so callers can take the first as the chosen
// structured signal. All failures are typed results, never Go errors.
func (c *Client) Lookup(ctx context.Context, title, artist string) domain.LookupResult {
	if c.apiKey == "" {
		return domain.LookupResult{Err: &domain.SourceError{
			Kind:       domain.ErrKindMissingCredentials,
			Suggestion: "Set GETSONGBPM_API_KEY to enable structured lookups",
		}}
	}

	hits, srcErr := c.search(ctx, title, artist)
	if srcErr != nil {
		return domain.LookupResult{Err: srcErr}
	}

	matches := make([]domain.Match, 0, candidateLimit)
	for _, hit := range hits {
		if len(matches) == candidateLimit {
			break
		}
		if hit.ID == "" {
			continue
		}
		match, ok := c.fetchSong(ctx, hit.ID)
		if !ok {
			continue
		}
		matches = append(matches, match)
	}

	if len(matches) == 0 {
		return domain.LookupResult{Err: &domain.SourceError{
			Kind:       domain.ErrKindNoMatch,
			Suggestion: "Try being more specific with both song and artist names",
		}}
	}

	rankMatches(title, artist, matches)
	return domain.LookupResult{Matches: matches}
}

func (c *Client) search(ctx context.Context, title, artist string) ([]searchHit, *domain.SourceError) {
	searchURL, err := url.Parse(c.baseURL + "/search/")
	if err != nil {
		return nil, &domain.SourceError{
			Kind:       domain.ErrKindSourceUnavailable,
			Suggestion: "Check the GetSongBPM base URL",
		}
	}

	lookup := title
	lookupType := "song"
	if artist != "" {
		lookup = fmt.Sprintf("song:%s artist:%s", title, artist)
		lookupType = "both"
	}

	query := searchURL.Query()
	query.Set("api_key", c.apiKey)
	query.Set("type", lookupType)
	query.Set("lookup", lookup)
	searchURL.RawQuery = query.Encode()

	var body searchResponse
	if srcErr := c.getJSON(ctx, searchURL.String(), &body); srcErr != nil {
		return nil, srcErr
	}

	// "search" is a hit array on success and a loose error object
	// otherwise; a failed decode simply means zero hits.
	var hits []searchHit
	if len(body.Search) > 0 {
		if err := json.Unmarshal(body.Search, &hits); err != nil {
			hits = nil
		}
	}
	if len(hits) > candidateLimit {
		hits = hits[:candidateLimit]
	}
	return hits, nil
}

// fetchSong retrieves full details for one candidate id. Candidates whose
// detail fetch fails or that lack id+title+artist are dropped, never
// returned partially malformed.
func (c *Client) fetchSong(ctx context.Context, id string) (domain.Match, bool) {
	songURL, err := url.Parse(c.baseURL + "/song/")
	if err != nil {
		return domain.Match{}, false
	}
	query := songURL.Query()
	query.Set("api_key", c.apiKey)
	query.Set("id", id)
	songURL.RawQuery = query.Encode()

	var body songResponse
	if srcErr := c.getJSON(ctx, songURL.String(), &body); srcErr != nil {
		log.Printf("WARN getsongbpm adapter: detail fetch for %s failed (%s)", id, srcErr.Kind)
		return domain.Match{}, false
	}
	if body.Song == nil {
		return domain.Match{}, false
	}

	song := body.Song
	if song.ID == "" || song.Title == "" || song.Artist.Name == "" {
		return domain.Match{}, false
	}

	return domain.Match{
		ID:           song.ID,
		Title:        song.Title,
		Artist:       song.Artist.Name,
		Tempo:        float64(song.Tempo),
		KeyLabel:     song.KeyOf,
		Danceability: float64(song.Danceability),
		Energy:       float64(song.Energy),
	}, true
}

func (c *Client) getJSON(ctx context.Context, rawURL string, out any) *domain.SourceError {
	if err := c.limiter.Wait(ctx); err != nil {
		return &domain.SourceError{
			Kind:       domain.ErrKindSourceUnavailable,
			Suggestion: "Batch was canceled while waiting on the rate limiter",
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &domain.SourceError{
			Kind:       domain.ErrKindSourceUnavailable,
			Suggestion: "Check the GetSongBPM base URL",
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &domain.SourceError{
			Kind:       domain.ErrKindSourceUnavailable,
			Suggestion: "Try again later",
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &domain.SourceError{
			Kind:       domain.ErrKindSourceUnavailable,
			Suggestion: fmt.Sprintf("GetSongBPM returned status %d; try again later", resp.StatusCode),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.SourceError{
			Kind:       domain.ErrKindParseFailure,
			Suggestion: "GetSongBPM returned an unexpected payload",
		}
	}
	return nil
}
