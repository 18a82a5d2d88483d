package services

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

// Tempo values outside this range are treated as noise when extracted
// from free text.
const (
	minPlausibleBPM = 40
	maxPlausibleBPM = 220
)

var (
	// "128 BPM", "128.5bpm"
	bpmBeforeRe = regexp.MustCompile(`(?i)\b(\d{2,3}(?:\.\d+)?)\s*bpm\b`)
	// "BPM: 128", "BPM of 128"
	bpmAfterRe = regexp.MustCompile(`(?i)\bbpm\b(?:\s+of)?[:\s]+(\d{2,3}(?:\.\d+)?)`)
	// "A minor", "C# Major", "Eb min"
	keyNameRe = regexp.MustCompile(`(?i)\b([A-G][#♯b♭]?)\s*(major|minor|maj|min)\b`)
	// Camelot wheel notation in text, e.g. "8A" or "key 12B"
	camelotCodeRe = regexp.MustCompile(`\b(1[0-2]|[1-9])([AB])\b`)
)

// Reconciler merges one track's collected raw signal into a single
// normalized, confidence-rated record. Reconciliation is total: it never
// fails, it degrades to the low-confidence fallback record.
type Reconciler struct{}

// NewReconciler constructs a Reconciler.
func NewReconciler() *Reconciler {
	return &Reconciler{}
}

// ReconcileAll reconciles a whole enrichment batch, preserving order.
func (r *Reconciler) ReconcileAll(batch []domain.EnrichedTrack) []domain.ReconciledTrack {
	out := make([]domain.ReconciledTrack, len(batch))
	for i, e := range batch {
		out[i] = r.Reconcile(e)
	}
	return out
}

// Reconcile produces exactly one ReconciledTrack for any enrichment
// outcome, including failed ones.
func (r *Reconciler) Reconcile(e domain.EnrichedTrack) domain.ReconciledTrack {
	rec := domain.ReconciledTrack{
		TrackID:    e.Track.ID,
		Title:      e.Track.Title,
		Artist:     e.Track.Artist,
		Confidence: domain.ConfidenceLow,
		Reasoning:  "No usable signal from any source",
	}

	switch e.Source {
	case domain.SourceStructured:
		if e.Match != nil {
			r.applyStructured(&rec, *e.Match)
		}
	case domain.SourceFallback:
		if e.Web != nil {
			r.applyUnstructured(&rec, e.Web.Snippets)
		}
	case domain.SourceFailed:
		if e.Err != nil {
			rec.Reasoning = fmt.Sprintf("All sources failed (%s)", e.Err.Kind)
		}
	}

	// Degenerate records are always low confidence, whatever path
	// produced them.
	if rec.BPM == nil && rec.CamelotKey == nil {
		rec.Confidence = domain.ConfidenceLow
	}
	return rec
}

func (r *Reconciler) applyStructured(rec *domain.ReconciledTrack, m domain.Match) {
	if m.Tempo > 0 {
		bpm := m.Tempo
		rec.BPM = &bpm
	}
	if m.KeyLabel != "" {
		key := m.KeyLabel
		rec.Key = &key
		if code, ok := domain.CamelotFromKey(m.KeyLabel); ok {
			rec.CamelotKey = &code
		}
	}
	if m.Energy > 0 {
		energy := m.Energy
		rec.Energy = &energy
	}
	if m.Danceability > 0 {
		dance := m.Danceability
		rec.Danceability = &dance
	}

	switch {
	case rec.BPM != nil && rec.CamelotKey != nil:
		rec.Confidence = domain.ConfidenceHigh
		rec.Reasoning = "Structured source match with both tempo and key"
	case rec.BPM != nil && rec.Key != nil:
		rec.Confidence = domain.ConfidenceMedium
		rec.Reasoning = "Structured source match; key label not on the harmonic wheel"
	case rec.BPM != nil || rec.Key != nil:
		rec.Confidence = domain.ConfidenceMedium
		rec.Reasoning = "Structured source match with partial tempo/key data"
	default:
		rec.Confidence = domain.ConfidenceLow
		rec.Reasoning = "Structured source matched but carried no tempo or key"
	}
}

func (r *Reconciler) applyUnstructured(rec *domain.ReconciledTrack, snippets []domain.Snippet) {
	bpm, bpmOK := extractBPM(snippets)
	if bpmOK {
		rec.BPM = &bpm
	}

	if key, ok := extractKeyName(snippets); ok {
		rec.Key = &key
		if code, codeOK := domain.CamelotFromKey(key); codeOK {
			rec.CamelotKey = &code
		}
	} else if code, ok := extractCamelotCode(snippets); ok {
		rec.CamelotKey = &code
	}

	// Unstructured evidence is never better than medium, however clear.
	if rec.BPM != nil || rec.CamelotKey != nil || rec.Key != nil {
		rec.Confidence = domain.ConfidenceMedium
		rec.Reasoning = "Extracted from web search snippets"
	} else {
		rec.Confidence = domain.ConfidenceLow
		rec.Reasoning = "Web snippets contained no recognizable tempo or key"
	}
}

// extractBPM returns the first plausible tempo mentioned across the
// snippets, scanning them in order so extraction is deterministic.
func extractBPM(snippets []domain.Snippet) (float64, bool) {
	for _, s := range snippets {
		for _, re := range []*regexp.Regexp{bpmBeforeRe, bpmAfterRe} {
			m := re.FindStringSubmatch(s.Text)
			if m == nil {
				continue
			}
			value, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if value >= minPlausibleBPM && value <= maxPlausibleBPM {
				return value, true
			}
		}
	}
	return 0, false
}

func extractKeyName(snippets []domain.Snippet) (string, bool) {
	for _, s := range snippets {
		m := keyNameRe.FindStringSubmatch(s.Text)
		if m == nil {
			continue
		}
		key := m[1] + " " + m[2]
		// Only keep labels the wheel actually recognizes.
		if _, ok := domain.CamelotFromKey(key); ok {
			return key, true
		}
	}
	return "", false
}

func extractCamelotCode(snippets []domain.Snippet) (string, bool) {
	for _, s := range snippets {
		m := camelotCodeRe.FindStringSubmatch(s.Text)
		if m == nil {
			continue
		}
		return m[1] + m[2], true
	}
	return "", false
}
