package domain

// TrackRef identifies one track flowing through the pipeline.
// Produced by the playlist/library collaborator; immutable once created.
type TrackRef struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// Confidence rates how much trust a reconciled record deserves.
type Confidence string

const (
	ConfidenceHigh   Confidence = "high"
	ConfidenceMedium Confidence = "medium"
	ConfidenceLow    Confidence = "low"
)

// ReconciledTrack is the unit of truth downstream of reconciliation.
// BPM, Key and CamelotKey are nil when no usable signal existed.
// Invariant: Confidence is ConfidenceLow whenever both BPM and CamelotKey
// are nil.
type ReconciledTrack struct {
	TrackID      string     `json:"trackId"`
	Title        string     `json:"title"`
	Artist       string     `json:"artist"`
	BPM          *float64   `json:"bpm"`
	Key          *string    `json:"key"`
	CamelotKey   *string    `json:"camelotKey"`
	Energy       *float64   `json:"energy,omitempty"`
	Danceability *float64   `json:"danceability,omitempty"`
	Confidence   Confidence `json:"confidence"`
	Reasoning    string     `json:"reasoning"`
}

// HasTempo reports whether the record carries a usable BPM.
func (r ReconciledTrack) HasTempo() bool {
	return r.BPM != nil
}
