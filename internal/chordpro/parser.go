package chordpro

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var ErrInvalidUTF8 = errors.New("chordpro: input is not valid UTF-8")

// Item is one element of a parsed source line: either a directive
// (Name set, no chord or lyric) or a chord/lyric pair.
type Item struct {
	Chord    string `json:"chord,omitempty"`
	Lyric    string `json:"lyric,omitempty"`
	Name     string `json:"name,omitempty"`
	Value    string `json:"value,omitempty"`
	HasChord bool   `json:"has_chord,omitempty"`
	HasLyric bool   `json:"has_lyric,omitempty"`
	HasValue bool   `json:"has_value,omitempty"`
}

// IsDirective reports whether the item carries a directive name and nothing else
func (it Item) IsDirective() bool {
	return it.Name != "" && !it.HasChord && !it.HasLyric
}

// Parser turns ChordPro text into per-line item lists
type Parser struct{}

// NewParser creates a new ChordPro line parser
func NewParser() *Parser {
	return &Parser{}
}

// ParseLines returns one item list per source line. Blank lines have no items.
func (p *Parser) ParseLines(text string) ([][]Item, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidUTF8
	}

	lines := strings.Split(text, "\n")
	result := make([][]Item, 0, len(lines))
	for _, line := range lines {
		result = append(result, p.parseLine(strings.TrimSuffix(line, "\r")))
	}
	return result, nil
}

func (p *Parser) parseLine(line string) []Item {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil
	}

	if item, ok := parseDirective(trimmed); ok {
		return []Item{item}
	}

	return parseChordLyric(line)
}

func parseDirective(trimmed string) (Item, bool) {
	if !strings.HasPrefix(trimmed, "{") || !strings.HasSuffix(trimmed, "}") {
		return Item{}, false
	}

	body := strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	name, value, hasValue := strings.Cut(body, ":")
	name = strings.TrimSpace(name)
	if name == "" || strings.ContainsAny(name, "{}[]") {
		return Item{}, false
	}

	item := Item{Name: name}
	if hasValue {
		item.Value = strings.TrimSpace(value)
		item.HasValue = true
	}
	return item, true
}

func parseChordLyric(line string) []Item {
	var items []Item
	rest := line

	// text before the first chord has no chord above it
	open := strings.Index(rest, "[")
	if open != 0 {
		lead := rest
		if open > 0 {
			lead = rest[:open]
		}
		lead, rest = splitUnterminated(lead, rest[len(lead):])
		items = append(items, Item{Lyric: lead, HasLyric: true})
	}

	for rest != "" {
		closeIdx := strings.Index(rest, "]")
		if closeIdx < 0 {
			// unterminated chord: keep it as lyric text
			items = appendLyric(items, rest)
			break
		}

		chord := rest[1:closeIdx]
		rest = rest[closeIdx+1:]

		next := strings.Index(rest, "[")
		lyric := rest
		if next >= 0 {
			lyric = rest[:next]
		}
		lyric, rest = splitUnterminated(lyric, rest[len(lyric):])
		items = append(items, Item{Chord: chord, HasChord: true, Lyric: lyric, HasLyric: true})
	}

	return items
}

// splitUnterminated pulls a trailing "[..." with no closing bracket back
// into the lyric so it isn't read as a chord.
func splitUnterminated(lyric, rest string) (string, string) {
	if rest != "" && !strings.Contains(rest, "]") {
		return lyric + rest, ""
	}
	return lyric, rest
}

func appendLyric(items []Item, text string) []Item {
	if len(items) == 0 {
		return append(items, Item{Lyric: text, HasLyric: true})
	}
	items[len(items)-1].Lyric += text
	return items
}
