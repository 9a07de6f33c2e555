package amdm

import (
	"regexp"
	"strings"

	"github.com/sukalov/chordedit/internal/chord"
)

// keywordRegex matches section markers such as "[Куплет]:" or "[Припев 2]"
var keywordRegex = regexp.MustCompile(`^\s*\[([^\]\x01\x02]+?):?\]:?\s*(.*)$`)

type chordPos struct {
	col  int
	name string
}

// keyword reports a section marker and whatever follows it on the line
func keyword(line string) (name, rest string, ok bool) {
	m := keywordRegex.FindStringSubmatch(line)
	if m == nil {
		return "", "", false
	}
	name = strings.TrimSpace(m[1])
	// "[Am]" is a chord written in brackets, not a section
	if name == "" || chord.WellFormed(name) {
		return "", "", false
	}
	return name, m[2], true
}

// splitKeywords moves text that follows a section marker onto its own line
func splitKeywords(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		name, rest, ok := keyword(line)
		if !ok || strings.TrimSpace(rest) == "" {
			out = append(out, line)
			continue
		}
		out = append(out, "["+name+"]", rest)
	}
	return out
}

// chordLine reports whether the line holds nothing but chords and bar
// separators, returning the chords with their columns.
func chordLine(line string) ([]chordPos, bool) {
	if strings.ContainsRune(line, chordOpen) {
		return markedChordLine(line)
	}

	var chords []chordPos
	for _, f := range fieldsWithColumns(line) {
		if strings.Trim(f.name, "|") == "" {
			continue
		}
		if !chord.WellFormed(f.name) {
			return nil, false
		}
		chords = append(chords, f)
	}
	return chords, len(chords) > 0
}

func markedChordLine(line string) ([]chordPos, bool) {
	var chords []chordPos
	col := 0
	inChord := false
	var name []rune
	for _, r := range line {
		switch {
		case r == chordOpen:
			inChord = true
			name = name[:0]
		case r == chordClose:
			inChord = false
			chords = append(chords, chordPos{col: col - len(name), name: string(name)})
		case inChord:
			name = append(name, r)
			col++
		default:
			if r != ' ' && r != '\t' && r != '|' && r != '\u00a0' {
				return nil, false
			}
			col++
		}
	}
	return chords, len(chords) > 0
}

func fieldsWithColumns(line string) []chordPos {
	var out []chordPos
	var cur []rune
	start := 0
	col := 0
	for _, r := range line {
		if r == ' ' || r == '\t' || r == '\u00a0' {
			if len(cur) > 0 {
				out = append(out, chordPos{col: start, name: string(cur)})
				cur = cur[:0]
			}
		} else {
			if len(cur) == 0 {
				start = col
			}
			cur = append(cur, r)
		}
		col++
	}
	if len(cur) > 0 {
		out = append(out, chordPos{col: start, name: string(cur)})
	}
	return out
}

// merge places the chords above a lyric line into it as [X] marks
func merge(chords []chordPos, lyric string) string {
	runes := []rune(lyric)
	var inside, tail []chordPos
	for _, c := range chords {
		if c.col < len(runes) {
			inside = append(inside, c)
		} else {
			tail = append(tail, c)
		}
	}

	for i := len(inside) - 1; i >= 0; i-- {
		mark := []rune("[" + inside[i].name + "]")
		col := inside[i].col
		runes = append(runes[:col], append(mark, runes[col:]...)...)
	}

	var b strings.Builder
	b.WriteString(string(runes))
	for i, c := range tail {
		if i > 0 || (b.Len() > 0 && !strings.HasSuffix(b.String(), " ")) {
			b.WriteByte(' ')
		}
		b.WriteString("[" + c.name + "]")
	}
	return strings.TrimSpace(b.String())
}

// inlineChords turns chords marked inside a lyric line into [X] marks
func inlineChords(line string) string {
	line = strings.ReplaceAll(line, string(chordOpen), "[")
	return strings.ReplaceAll(line, string(chordClose), "]")
}

// convertLines rewrites chords-over-lyrics text as ChordPro
func (p *Parser) convertLines(text string) string {
	lines := splitKeywords(strings.Split(text, "\n"))

	var out []string
	var pending []chordPos
	dropping := false

	flush := func() {
		if pending != nil {
			out = append(out, merge(pending, ""))
			pending = nil
		}
	}

	for _, raw := range lines {
		line := strings.TrimRight(raw, " \t\r\u00a0")

		if strings.TrimSpace(stripMarkers(line)) == "" {
			flush()
			dropping = false
			out = append(out, "")
			continue
		}

		if name, _, ok := keyword(line); ok {
			flush()
			dropping = p.config.drops(name)
			if !dropping {
				out = append(out, "{comment: "+name+"}")
			}
			continue
		}

		if dropping {
			continue
		}

		if chords, ok := chordLine(line); ok {
			flush()
			pending = chords
			continue
		}

		lyric := inlineChords(line)
		if pending != nil {
			out = append(out, merge(pending, lyric))
			pending = nil
			continue
		}
		out = append(out, strings.TrimSpace(lyric))
	}
	flush()

	return strings.Join(out, "\n")
}
