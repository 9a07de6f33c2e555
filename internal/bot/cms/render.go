package cms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sukalov/chordedit/internal/chord"
	"github.com/sukalov/chordedit/internal/editor"
)

// renderDocument lists every line with its index, and every token of a
// chord/lyric line with its index, so commands can address them.
func renderDocument(d editor.Document) string {
	var b strings.Builder
	for i, line := range d {
		fmt.Fprintf(&b, "%d:", i)
		switch l := line.(type) {
		case editor.EmptyLine:
		case editor.DirectiveLine:
			b.WriteString(" " + l.Raw)
		case editor.ChordLyricLine:
			for j, tok := range l.Tokens {
				fmt.Fprintf(&b, " (%d)", j)
				if tok.HasChord() {
					b.WriteString("[" + tok.Chord + "]")
				}
				b.WriteString(tok.Lyric)
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

// renderChords explains every distinct chord of the document
func renderChords(d editor.Document) string {
	seen := map[string]bool{}
	var lines []string
	for _, symbol := range d.Chords() {
		if seen[symbol] {
			continue
		}
		seen[symbol] = true

		spec := chord.Decompose(symbol)
		line := fmt.Sprintf("%s = %s %s", symbol, spec.Root, chord.QualityLabel(spec.Quality))
		if spec.HasBass {
			line += " / " + spec.Bass
		}
		if !chord.WellFormed(symbol) {
			line += " (?)"
		}
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return "аккордов пока нет"
	}
	return strings.Join(lines, "\n")
}

// renderVocabulary lists the qualities and note names a chord can be built from
func renderVocabulary() string {
	labels := make([]string, 0, len(chord.Qualities))
	for _, q := range chord.Qualities {
		labels = append(labels, chord.QualityLabel(q))
	}
	return fmt.Sprintf("ноты: %s\nили: %s\nвиды: %s\n\nаккорд можно написать целиком (Dm7/F) или по частям: D m7 F, «-» для мажора",
		strings.Join(chord.Notes(false), " "),
		strings.Join(chord.Notes(true), " "),
		strings.Join(labels, " "))
}

// parseArgs reads n leading integers from a command's arguments and returns
// them with the remaining words.
func parseArgs(args string, n int) ([]int, []string, error) {
	fields := strings.Fields(args)
	if len(fields) < n {
		return nil, nil, fmt.Errorf("нужно %d числа, а получено %d", n, len(fields))
	}

	nums := make([]int, n)
	for i := 0; i < n; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, nil, fmt.Errorf("«%s» — не число", fields[i])
		}
		nums[i] = v
	}
	return nums, fields[n:], nil
}

// chordArg builds a chord symbol from either one word ("Dm7/F") or its
// parts ("D m7 F", with "-" for a plain major chord).
func chordArg(words []string) (string, error) {
	switch len(words) {
	case 1:
		return words[0], nil
	case 2, 3:
		quality := words[1]
		if quality == "-" {
			quality = ""
		}
		spec := chord.Spec{Root: words[0], Quality: quality}
		if len(words) == 3 {
			spec.Bass = words[2]
			spec.HasBass = true
		}
		return chord.Compose(spec), nil
	default:
		return "", fmt.Errorf("не понятно, какой аккорд")
	}
}
