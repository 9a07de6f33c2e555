package editor

// Token is an optional chord and the lyric text that follows it up to the
// next chord. An empty Chord means no chord sits above the lyric.
type Token struct {
	Chord string `json:"chord,omitempty"`
	Lyric string `json:"lyric"`
}

// HasChord reports whether a chord sits above the token
func (t Token) HasChord() bool {
	return t.Chord != ""
}

// Line is one line of a document: EmptyLine, DirectiveLine or ChordLyricLine.
type Line interface {
	isLine()
}

// EmptyLine is a blank line
type EmptyLine struct{}

// DirectiveLine is an annotation such as {verse}, kept verbatim
type DirectiveLine struct {
	Raw string
}

// ChordLyricLine is lyric text with chords anchored inside it
type ChordLyricLine struct {
	Tokens []Token
}

func (EmptyLine) isLine()      {}
func (DirectiveLine) isLine()  {}
func (ChordLyricLine) isLine() {}

// Document is an ordered, never empty, list of lines.
// Edit functions return a new Document and leave their input untouched.
type Document []Line

// NewDocument returns the empty document: one line holding one empty token
func NewDocument() Document {
	return Document{defaultLine()}
}

func defaultLine() ChordLyricLine {
	return ChordLyricLine{Tokens: []Token{{}}}
}

// Clone returns a deep copy of the document
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for i, line := range d {
		if cl, ok := line.(ChordLyricLine); ok {
			out[i] = ChordLyricLine{Tokens: append([]Token(nil), cl.Tokens...)}
			continue
		}
		out[i] = line
	}
	return out
}

// TokenAt returns the token at the given position when that line is a
// chord/lyric line and both indices are in range.
func (d Document) TokenAt(lineIndex, tokenIndex int) (Token, bool) {
	if lineIndex < 0 || lineIndex >= len(d) {
		return Token{}, false
	}
	cl, ok := d[lineIndex].(ChordLyricLine)
	if !ok || tokenIndex < 0 || tokenIndex >= len(cl.Tokens) {
		return Token{}, false
	}
	return cl.Tokens[tokenIndex], true
}

// Chords returns every chord of the document in reading order
func (d Document) Chords() []string {
	var chords []string
	for _, line := range d {
		cl, ok := line.(ChordLyricLine)
		if !ok {
			continue
		}
		for _, tok := range cl.Tokens {
			if tok.HasChord() {
				chords = append(chords, tok.Chord)
			}
		}
	}
	return chords
}
