package domain

// Match is one structured result from a metadata source. A Match is only
// constructed when it has at least an id, title and artist; tempo, key and
// the audio features may be absent (zero).
type Match struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Artist       string  `json:"artist"`
	Tempo        float64 `json:"tempo,omitempty"`
	KeyLabel     string  `json:"keyLabel,omitempty"`
	Danceability float64 `json:"danceability,omitempty"`
	Energy       float64 `json:"energy,omitempty"`
}

// Complete reports whether the match carries both tempo and key.
func (m Match) Complete() bool {
	return m.Tempo > 0 && m.KeyLabel != ""
}

// Snippet is one unstructured piece of web evidence.
type Snippet struct {
	Text      string `json:"snippet"`
	SourceURL string `json:"link"`
}

// SourceError is the typed failure variant adapters return instead of a
// Go error, so a single bad lookup can never abort a batch.
type SourceError struct {
	Kind       ErrorKind `json:"error"`
	Suggestion string    `json:"suggestion"`
}

// LookupResult is the closed result variant of the structured source:
// either one or more matches, or an empty/error outcome described by Err.
type LookupResult struct {
	Matches []Match      `json:"matches"`
	Err     *SourceError `json:"err,omitempty"`
}

// OK reports whether the lookup produced at least one usable match.
func (r LookupResult) OK() bool {
	return len(r.Matches) > 0
}

// SearchResult is the closed result variant of the web-search fallback.
type SearchResult struct {
	Snippets []Snippet    `json:"results"`
	Err      *SourceError `json:"err,omitempty"`
}

// OK reports whether the search produced at least one snippet.
func (r SearchResult) OK() bool {
	return len(r.Snippets) > 0
}

// SignalSource names which branch of the primary→fallback policy produced
// a track's evidence.
type SignalSource string

const (
	SourceStructured SignalSource = "structured"
	SourceFallback   SignalSource = "fallback"
	SourceFailed     SignalSource = "failed"
)

// EnrichedTrack is one per-track enrichment outcome. Exactly one of Match,
// Web or Err is populated, according to Source.
type EnrichedTrack struct {
	Track  TrackRef      `json:"track"`
	Source SignalSource  `json:"source"`
	Match  *Match        `json:"match,omitempty"`
	Web    *SearchResult `json:"webData,omitempty"`
	Err    *SourceError  `json:"err,omitempty"`
}
