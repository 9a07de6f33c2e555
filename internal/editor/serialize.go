package editor

import "strings"

// Serialize renders the document back to ChordPro text
func Serialize(doc Document) string {
	lines := make([]string, 0, len(doc))
	for _, line := range doc {
		lines = append(lines, serializeLine(line))
	}
	return strings.Join(lines, "\n")
}

func serializeLine(line Line) string {
	switch l := line.(type) {
	case EmptyLine:
		return ""
	case DirectiveLine:
		return l.Raw
	case ChordLyricLine:
		var b strings.Builder
		for _, tok := range l.Tokens {
			if tok.HasChord() {
				b.WriteString("[")
				b.WriteString(tok.Chord)
				b.WriteString("]")
			}
			b.WriteString(tok.Lyric)
		}
		return b.String()
	default:
		return ""
	}
}
