package chord

import (
	"regexp"
	"strings"
)

// Spec is a chord symbol split into its parts
type Spec struct {
	Root    string `json:"root"`
	Quality string `json:"quality"`
	Bass    string `json:"bass,omitempty"`
	HasBass bool   `json:"has_bass"`
}

var rootRegex = regexp.MustCompile(`^([A-G][#b]?)(.*)$`)

// Decompose splits a chord symbol like "Dm7/F" into root, quality and bass.
// Symbols that don't start with a note letter come back whole as Root.
func Decompose(symbol string) Spec {
	head := symbol
	bass := ""
	hasBass := false
	if i := strings.LastIndex(symbol, "/"); i >= 0 {
		head = symbol[:i]
		bass = symbol[i+1:]
		hasBass = true
	}

	match := rootRegex.FindStringSubmatch(head)
	if match == nil {
		return Spec{Root: symbol}
	}

	return Spec{
		Root:    match[1],
		Quality: match[2],
		Bass:    bass,
		HasBass: hasBass,
	}
}

// Compose rebuilds the chord symbol from its parts
func Compose(s Spec) string {
	if s.HasBass {
		return s.Root + s.Quality + "/" + s.Bass
	}
	return s.Root + s.Quality
}

// WellFormed reports whether the symbol looks like a chord rather than a word:
// a note letter root, a quality built from the usual suffix fragments and,
// for slash chords, a note letter bass.
func WellFormed(symbol string) bool {
	head := symbol
	if i := strings.LastIndex(symbol, "/"); i >= 0 {
		if !noteRegex.MatchString(symbol[i+1:]) {
			return false
		}
		head = symbol[:i]
	}
	return wellFormedRegex.MatchString(head)
}

var (
	noteRegex       = regexp.MustCompile(`^[A-G][#b]?$`)
	wellFormedRegex = regexp.MustCompile(`^[A-G][#b]?(?:maj|min|dim|aug|sus|add|m|M|[0-9]|[#b+\-()])*$`)
)
