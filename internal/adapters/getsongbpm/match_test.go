package getsongbpm

import (
	"testing"

	"github.com/ewilliams-labs/segue/internal/core/domain"
)

func TestNormalizeQuery(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "lowercases and trims", input: "  One More Time ", want: "one more time"},
		{name: "drops remaster suffix", input: "One More Time (2001 Remaster)", want: "one more time"},
		{name: "drops bracketed live tag", input: "Harder [Live]", want: "harder"},
		{name: "drops dash suffix", input: "Digital Love - Radio Edit", want: "digital love"},
		{name: "keeps meaningful parens", input: "Doin' It Right (featuring nobody) no wait", want: "doin it right featuring nobody no wait"},
		{name: "stacked noise suffixes", input: "Around the World (Remastered) - Live", want: "around the world"},
		{name: "keeps non noise parens", input: "Don't Stop (Color on the Walls)", want: "don t stop color on the walls"},
		{name: "collapses punctuation", input: "I.Feel.It/Coming", want: "i feel it coming"},
		{name: "empty", input: "   ", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := normalizeQuery(tt.input); got != tt.want {
				t.Fatalf("normalizeQuery(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestRankMatchesBestFirst(t *testing.T) {
	matches := []domain.Match{
		{ID: "cover", Title: "One More Time", Artist: "Tribute Band 3000"},
		{ID: "exact", Title: "One More Time", Artist: "Daft Punk"},
		{ID: "remaster", Title: "One More Time (2001 Remaster)", Artist: "Daft Punk"},
	}

	rankMatches("One More Time", "Daft Punk", matches)

	// The remaster normalizes to the same string as the exact title, so
	// both outrank the cover; the exact hit keeps its earlier slot.
	if matches[0].ID != "exact" || matches[1].ID != "remaster" {
		t.Fatalf("order = [%s %s %s], want exact then remaster", matches[0].ID, matches[1].ID, matches[2].ID)
	}
	if matches[2].ID != "cover" {
		t.Fatalf("cover should rank last, got %s", matches[2].ID)
	}
}

func TestRankMatchesStableOnTies(t *testing.T) {
	matches := []domain.Match{
		{ID: "first", Title: "Alpha", Artist: "X"},
		{ID: "second", Title: "Alpha", Artist: "X"},
	}
	rankMatches("Alpha", "X", matches)
	if matches[0].ID != "first" || matches[1].ID != "second" {
		t.Fatalf("tied matches reordered: [%s %s]", matches[0].ID, matches[1].ID)
	}
}

func TestRankMatchesEmptyTargetIsNoop(t *testing.T) {
	matches := []domain.Match{
		{ID: "a", Title: "Alpha", Artist: "X"},
		{ID: "b", Title: "Beta", Artist: "Y"},
	}
	rankMatches("", "", matches)
	if matches[0].ID != "a" || matches[1].ID != "b" {
		t.Fatalf("empty query must not reorder: [%s %s]", matches[0].ID, matches[1].ID)
	}
}
