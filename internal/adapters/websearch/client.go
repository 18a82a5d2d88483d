// Package websearch implements the unstructured fallback source: a
// Google Custom Search lookup returning raw snippets for the reconciler
// to mine. It never parses tempo or key itself.
package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/ewilliams-labs/segue/internal/core/domain"
	"github.com/ewilliams-labs/segue/internal/core/ports"
)

// resultLimit caps how many snippet/link pairs a search returns.
const resultLimit = 5

// Client is the HTTP client for the web-search adapter.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	cx         string
	limiter    *rate.Limiter
}

// compile-time interface assertion
var _ ports.WebSearcher = (*Client)(nil)

// NewClient constructs a web-search client. Missing credentials are
// allowed; searches then degrade to a typed missing-credentials result.
func NewClient(httpClient *http.Client, baseURL, apiKey, cx string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		cx:         cx,
		// Custom Search free tier is tight; one request per second keeps
		// a full batch under the daily quota.
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
	}
}

type searchResponse struct {
	Items []struct {
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"items"`
}

// Search queries the web for a track's tempo/key coverage and returns up
// to resultLimit snippets, or a typed error when the search fails or
// yields nothing.
func (c *Client) Search(ctx context.Context, title, artist string) domain.SearchResult {
	if c.apiKey == "" || c.cx == "" {
		return domain.SearchResult{Err: &domain.SourceError{
			Kind:       domain.ErrKindMissingCredentials,
			Suggestion: "Set GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_CX to enable the web fallback",
		}}
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return domain.SearchResult{Err: &domain.SourceError{
			Kind:       domain.ErrKindSourceUnavailable,
			Suggestion: "Batch was canceled while waiting on the rate limiter",
		}}
	}

	searchQuery := title + " BPM key"
	if artist != "" {
		searchQuery = fmt.Sprintf("%s by %s BPM key", title, artist)
	}

	searchURL, err := url.Parse(c.baseURL)
	if err != nil {
		return domain.SearchResult{Err: &domain.SourceError{
			Kind:       domain.ErrKindSourceUnavailable,
			Suggestion: "Check the web search base URL",
		}}
	}
	query := searchURL.Query()
	query.Set("key", c.apiKey)
	query.Set("cx", c.cx)
	query.Set("q", searchQuery)
	query.Set("num", fmt.Sprintf("%d", resultLimit))
	searchURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL.String(), nil)
	if err != nil {
		return domain.SearchResult{Err: &domain.SourceError{
			Kind:       domain.ErrKindSourceUnavailable,
			Suggestion: "Check the web search base URL",
		}}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.SearchResult{Err: &domain.SourceError{
			Kind:       domain.ErrKindSourceUnavailable,
			Suggestion: "Try again later",
		}}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.SearchResult{Err: &domain.SourceError{
			Kind:       domain.ErrKindSourceUnavailable,
			Suggestion: fmt.Sprintf("Web search failed with status %d; try again later", resp.StatusCode),
		}}
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.SearchResult{Err: &domain.SourceError{
			Kind:       domain.ErrKindParseFailure,
			Suggestion: "Web search returned an unexpected payload",
		}}
	}

	snippets := make([]domain.Snippet, 0, resultLimit)
	for _, item := range body.Items {
		if len(snippets) == resultLimit {
			break
		}
		if item.Snippet == "" {
			continue
		}
		snippets = append(snippets, domain.Snippet{Text: item.Snippet, SourceURL: item.Link})
	}

	if len(snippets) == 0 {
		return domain.SearchResult{Err: &domain.SourceError{
			Kind:       domain.ErrKindNoMatch,
			Suggestion: "Refine the track title or artist name",
		}}
	}
	return domain.SearchResult{Snippets: snippets}
}
