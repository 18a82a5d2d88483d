package getsongbpm

import (
	"sort"
	"strings"
	"unicode"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

var noiseTokens = map[string]struct{}{
	"clean":      {},
	"deluxe":     {},
	"edition":    {},
	"edit":       {},
	"explicit":   {},
	"feat":       {},
	"featuring":  {},
	"ft":         {},
	"live":       {},
	"mix":        {},
	"mono":       {},
	"radio":      {},
	"remaster":   {},
	"remastered": {},
	"stereo":     {},
	"version":    {},
}

// rankMatches stable-sorts matches so the most similar candidate to the
// requested title/artist comes first. Ties keep the source order, which
// keeps the chosen structured signal deterministic.
func rankMatches(title, artist string, matches []domain.Match) {
	target := normalizeQuery(artist + " " + title)
	if target == "" {
		return
	}

	jw := metrics.NewJaroWinkler()
	scores := make([]float64, len(matches))
	for i, m := range matches {
		candidate := normalizeQuery(m.Artist + " " + m.Title)
		scores[i] = strutil.Similarity(target, candidate, jw)
	}

	indexed := make([]int, len(matches))
	for i := range indexed {
		indexed[i] = i
	}
	sort.SliceStable(indexed, func(a, b int) bool {
		return scores[indexed[a]] > scores[indexed[b]]
	})

	reordered := make([]domain.Match, len(matches))
	for pos, idx := range indexed {
		reordered[pos] = matches[idx]
	}
	copy(matches, reordered)
}

// normalizeQuery lowercases, strips bracketed noise suffixes like
// "(Remastered 2011)" and collapses separators, so similarity compares
// the parts of a title that identify the song.
func normalizeQuery(input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}

	lowered := strings.ToLower(strings.TrimSpace(input))
	trimmed := stripNoiseSuffixes(lowered)
	cleaned := cleanSeparators(trimmed)

	return strings.Join(strings.Fields(cleaned), " ")
}

func stripNoiseSuffixes(input string) string {
	trimmed := strings.TrimSpace(input)
	for {
		next := trimBracketedSuffix(trimmed)
		next = trimDashSuffix(next)
		if next == trimmed {
			return trimmed
		}
		trimmed = strings.TrimSpace(next)
	}
}

func trimBracketedSuffix(input string) string {
	trimmed := strings.TrimSpace(input)
	for _, pair := range [][2]string{{"(", ")"}, {"[", "]"}} {
		open, closing := pair[0], pair[1]
		if !strings.HasSuffix(trimmed, closing) {
			continue
		}
		idx := strings.LastIndex(trimmed, open)
		if idx == -1 || idx >= len(trimmed)-1 {
			continue
		}
		suffix := trimmed[idx+len(open) : len(trimmed)-len(closing)]
		if suffixHasNoiseToken(suffix) {
			return strings.TrimSpace(trimmed[:idx])
		}
	}
	return input
}

func trimDashSuffix(input string) string {
	trimmed := strings.TrimSpace(input)
	idx := strings.LastIndex(trimmed, " - ")
	if idx == -1 {
		return input
	}

	suffix := strings.TrimSpace(trimmed[idx+3:])
	if suffixHasNoiseToken(suffix) {
		return strings.TrimSpace(trimmed[:idx])
	}
	return input
}

func suffixHasNoiseToken(input string) bool {
	cleaned := cleanSeparators(strings.ToLower(input))
	for _, token := range strings.Fields(cleaned) {
		if _, ok := noiseTokens[token]; ok {
			return true
		}
	}
	return false
}

func cleanSeparators(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}
