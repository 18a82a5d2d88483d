package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// CamelotPosition is one of the 24 positions on the harmonic mixing wheel:
// a number 1-12 plus a ring letter (A = minor, B = major).
type CamelotPosition struct {
	Number int
	Letter string
}

// String renders the position in wheel notation, e.g. "8A".
func (p CamelotPosition) String() string {
	return fmt.Sprintf("%d%s", p.Number, p.Letter)
}

// camelotWheel maps every standard major/minor key (including enharmonic
// spellings) to its wheel position. Keys outside this set have no position.
var camelotWheel = map[string]string{
	"ab minor": "1A", "g# minor": "1A",
	"eb minor": "2A", "d# minor": "2A",
	"bb minor": "3A", "a# minor": "3A",
	"f minor":  "4A",
	"c minor":  "5A",
	"g minor":  "6A",
	"d minor":  "7A",
	"a minor":  "8A",
	"e minor":  "9A",
	"b minor":  "10A",
	"f# minor": "11A", "gb minor": "11A",
	"db minor": "12A", "c# minor": "12A",

	"b major":  "1B",
	"f# major": "2B", "gb major": "2B",
	"db major": "3B", "c# major": "3B",
	"ab major": "4B", "g# major": "4B",
	"eb major": "5B", "d# major": "5B",
	"bb major": "6B", "a# major": "6B",
	"f major":  "7B",
	"c major":  "8B",
	"g major":  "9B",
	"d major":  "10B",
	"a major":  "11B",
	"e major":  "12B",
}

// CamelotFromKey maps a natural-language key label ("A minor", "C#m",
// "Eb Major", "F") to its wheel position. The mapping is total over the 24
// standard major/minor keys; anything else reports ok=false.
func CamelotFromKey(label string) (string, bool) {
	canonical, ok := canonicalKey(label)
	if !ok {
		return "", false
	}
	code, ok := camelotWheel[canonical]
	return code, ok
}

// ParseCamelot parses wheel notation ("8A", "12b") into a position.
func ParseCamelot(code string) (CamelotPosition, bool) {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if len(trimmed) < 2 {
		return CamelotPosition{}, false
	}

	letter := trimmed[len(trimmed)-1:]
	if letter != "A" && letter != "B" {
		return CamelotPosition{}, false
	}

	number, err := strconv.Atoi(trimmed[:len(trimmed)-1])
	if err != nil || number < 1 || number > 12 {
		return CamelotPosition{}, false
	}

	return CamelotPosition{Number: number, Letter: letter}, true
}

// CamelotDistance is the minimal circular distance between two wheel
// positions. It is symmetric, and adjacent-across-the-seam positions
// (1 and 12) are distance 1.
func CamelotDistance(a, b CamelotPosition) int {
	diff := a.Number - b.Number
	if diff < 0 {
		diff = -diff
	}
	if 12-diff < diff {
		return 12 - diff
	}
	return diff
}

// canonicalKey normalizes a key label to "<tonic> <mode>" form, e.g.
// "C♯m" -> "c# minor", "F" -> "f major".
func canonicalKey(label string) (string, bool) {
	cleaned := strings.ToLower(strings.TrimSpace(label))
	if cleaned == "" {
		return "", false
	}
	cleaned = strings.ReplaceAll(cleaned, "♯", "#")
	cleaned = strings.ReplaceAll(cleaned, "♭", "b")
	cleaned = strings.Join(strings.Fields(cleaned), " ")

	tonic := ""
	rest := ""
	switch {
	case len(cleaned) >= 2 && (cleaned[1] == '#' || cleaned[1] == 'b') && cleaned[0] >= 'a' && cleaned[0] <= 'g':
		tonic = cleaned[:2]
		rest = strings.TrimSpace(cleaned[2:])
	case cleaned[0] >= 'a' && cleaned[0] <= 'g':
		tonic = cleaned[:1]
		rest = strings.TrimSpace(cleaned[1:])
	default:
		return "", false
	}

	switch rest {
	case "", "maj", "major":
		return tonic + " major", true
	case "m", "min", "minor":
		return tonic + " minor", true
	default:
		return "", false
	}
}
