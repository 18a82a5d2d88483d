package services

import (
	"fmt"
	"sort"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// EnergyDirection biases candidate ordering before harmonic scoring.
type EnergyDirection string

const (
	EnergyMaintain EnergyDirection = "maintain"
	EnergyIncrease EnergyDirection = "increase"
	EnergyDecrease EnergyDirection = "decrease"
)

const (
	// Candidates must sit within this tempo window of the current track.
	bpmWindow = 5.0
	// Size of the ranked shortlist returned for explainability.
	shortlistSize = 5

	scorePerfect      = 1
	scoreAdjacent     = 2
	scoreRelative     = 3
	scoreFallbackBase = 5
	scoreNoKey        = 10
)

// RecommendationRequest is one stateless engine invocation. The exclusion
// set is owned by the caller and only read here.
type RecommendationRequest struct {
	CurrentTrackID  string
	Tracks          []domain.ReconciledTrack
	ExcludeTrackIDs []string
	EnergyDirection EnergyDirection
}

// ScoredCandidate is one ranked entry of the shortlist. Lower scores are
// better.
type ScoredCandidate struct {
	TrackID    string   `json:"trackId"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`
	BPM        *float64 `json:"bpm"`
	Key        *string  `json:"key"`
	CamelotKey *string  `json:"camelotKey"`
	Score      int      `json:"score"`
}

// RecommendationResult is the engine's answer. Recommendation is nil for
// the two terminal conditions (missing current-track metadata, exhausted
// candidates); Reason always explains the outcome.
type RecommendationResult struct {
	Recommendation *string           `json:"recommendation"`
	BPM            *float64          `json:"bpm"`
	CamelotKey     *string           `json:"camelotKey"`
	Reason         string            `json:"reason"`
	Candidates     []ScoredCandidate `json:"candidates"`
}

// Recommender picks the best next track by tempo proximity and Camelot
// wheel adjacency. It is stateless; repeated calls with identical inputs
// produce identical rankings.
type Recommender struct{}

// NewRecommender constructs a Recommender.
func NewRecommender() *Recommender {
	return &Recommender{}
}

// Recommend ranks every eligible candidate against the current track and
// returns the winner plus the top shortlist.
func (r *Recommender) Recommend(req RecommendationRequest) RecommendationResult {
	current, ok := findTrack(req.Tracks, req.CurrentTrackID)
	if !ok || current.BPM == nil {
		return RecommendationResult{
			Reason:     "Current track metadata unavailable; cannot anchor tempo or key matching",
			Candidates: []ScoredCandidate{},
		}
	}

	excluded := make(map[string]struct{}, len(req.ExcludeTrackIDs)+1)
	excluded[req.CurrentTrackID] = struct{}{}
	for _, id := range req.ExcludeTrackIDs {
		excluded[id] = struct{}{}
	}

	candidates := make([]domain.ReconciledTrack, 0, len(req.Tracks))
	for _, t := range req.Tracks {
		if _, skip := excluded[t.TrackID]; skip {
			continue
		}
		if t.BPM == nil {
			continue
		}
		if diff := *t.BPM - *current.BPM; diff > bpmWindow || diff < -bpmWindow {
			continue
		}
		candidates = append(candidates, t)
	}

	if len(candidates) == 0 {
		return RecommendationResult{
			Reason:     "All tempo-compatible candidates are exhausted or excluded",
			Candidates: []ScoredCandidate{},
		}
	}

	switch req.EnergyDirection {
	case EnergyIncrease:
		sort.SliceStable(candidates, func(i, j int) bool {
			return energyOf(candidates[i]) > energyOf(candidates[j])
		})
	case EnergyDecrease:
		sort.SliceStable(candidates, func(i, j int) bool {
			return energyOf(candidates[i]) < energyOf(candidates[j])
		})
	}

	scored := make([]ScoredCandidate, len(candidates))
	for i, t := range candidates {
		scored[i] = ScoredCandidate{
			TrackID:    t.TrackID,
			Title:      t.Title,
			Artist:     t.Artist,
			BPM:        t.BPM,
			Key:        t.Key,
			CamelotKey: t.CamelotKey,
			Score:      harmonicScore(current.CamelotKey, t.CamelotKey),
		}
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score < scored[j].Score
	})

	top := scored[0]
	reason := fmt.Sprintf(
		"Within ±%.0f BPM of current track (%.0f BPM) and ranked by Camelot adjacency",
		bpmWindow, *current.BPM,
	)
	if top.Score >= scoreFallbackBase {
		reason += "; tempo-only compromise, no harmonically adjacent key available"
	}

	if len(scored) > shortlistSize {
		scored = scored[:shortlistSize]
	}
	id := top.TrackID
	return RecommendationResult{
		Recommendation: &id,
		BPM:            top.BPM,
		CamelotKey:     top.CamelotKey,
		Reason:         reason,
		Candidates:     scored,
	}
}

// harmonicScore applies the fixed tie-break table: same position and
// letter is perfect (1), one step around the wheel on the same ring is 2,
// the relative major/minor swap is 3, anything else is 5 plus the circular
// distance, and a keyless candidate gets the worst usable score (10).
func harmonicScore(currentKey, candidateKey *string) int {
	if currentKey == nil || candidateKey == nil {
		return scoreNoKey
	}
	current, okCur := domain.ParseCamelot(*currentKey)
	candidate, okCand := domain.ParseCamelot(*candidateKey)
	if !okCur || !okCand {
		return scoreNoKey
	}

	diff := domain.CamelotDistance(current, candidate)
	sameLetter := current.Letter == candidate.Letter
	switch {
	case diff == 0 && sameLetter:
		return scorePerfect
	case diff == 1 && sameLetter:
		return scoreAdjacent
	case diff == 0 && !sameLetter:
		return scoreRelative
	default:
		return scoreFallbackBase + diff
	}
}

func energyOf(t domain.ReconciledTrack) float64 {
	if t.Energy == nil {
		return 0
	}
	return *t.Energy
}

func findTrack(tracks []domain.ReconciledTrack, id string) (domain.ReconciledTrack, bool) {
	for _, t := range tracks {
		if t.TrackID == id {
			return t, true
		}
	}
	return domain.ReconciledTrack{}, false
}
