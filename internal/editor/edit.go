package editor

// Character offsets are counted in runes so that non-latin lyrics split on
// letter boundaries.

// SplitAndInsert splits a token's lyric at offset. The left part keeps the
// token's chord, the right part gets the new chord. The offset is clamped
// to the lyric length.
func SplitAndInsert(doc Document, lineIndex, tokenIndex, offset int, chord string) Document {
	cl, ok := chordLyricAt(doc, lineIndex)
	if !ok || tokenIndex < 0 || tokenIndex >= len(cl.Tokens) {
		return doc
	}

	tok := cl.Tokens[tokenIndex]
	lyric := []rune(tok.Lyric)
	offset = clamp(offset, 0, len(lyric))

	left := Token{Chord: tok.Chord, Lyric: string(lyric[:offset])}
	right := Token{Chord: chord, Lyric: string(lyric[offset:])}

	tokens := make([]Token, 0, len(cl.Tokens)+1)
	tokens = append(tokens, cl.Tokens[:tokenIndex]...)
	tokens = append(tokens, left, right)
	tokens = append(tokens, cl.Tokens[tokenIndex+1:]...)

	// splitting with no chord must not leave two chordless tokens behind
	return replaceLine(doc, lineIndex, ChordLyricLine{Tokens: normalize(tokens)})
}

// SetChord replaces the chord of a token. An empty chord removes it and the
// token is merged with chordless neighbours.
func SetChord(doc Document, lineIndex, tokenIndex int, chord string) Document {
	cl, ok := chordLyricAt(doc, lineIndex)
	if !ok || tokenIndex < 0 || tokenIndex >= len(cl.Tokens) {
		return doc
	}

	tokens := append([]Token(nil), cl.Tokens...)
	tokens[tokenIndex].Chord = chord

	return replaceLine(doc, lineIndex, ChordLyricLine{Tokens: normalize(tokens)})
}

// AppendChord puts a chord at the end of a line, reusing a trailing empty
// chordless token when there is one.
func AppendChord(doc Document, lineIndex int, chord string) Document {
	cl, ok := chordLyricAt(doc, lineIndex)
	if !ok {
		return doc
	}

	tokens := append([]Token(nil), cl.Tokens...)
	if n := len(tokens); n > 0 && isOpenSlot(tokens[n-1]) {
		tokens[n-1].Chord = chord
	} else {
		tokens = append(tokens, Token{Chord: chord})
	}

	return replaceLine(doc, lineIndex, ChordLyricLine{Tokens: normalize(tokens)})
}

// InsertLine inserts an empty chord/lyric line after the given index.
// An index of -1 inserts at the top.
func InsertLine(doc Document, after int) Document {
	if after < -1 || after >= len(doc) {
		return doc
	}

	out := make(Document, 0, len(doc)+1)
	out = append(out, doc[:after+1]...)
	out = append(out, defaultLine())
	out = append(out, doc[after+1:]...)
	return out.Clone()
}

// RemoveLine removes the line at index; removing the last line leaves the
// empty document.
func RemoveLine(doc Document, index int) Document {
	if index < 0 || index >= len(doc) {
		return doc
	}

	out := make(Document, 0, len(doc)-1)
	out = append(out, doc[:index]...)
	out = append(out, doc[index+1:]...)
	if len(out) == 0 {
		return NewDocument()
	}
	return out.Clone()
}

// normalize merges runs of chordless tokens into one token
func normalize(tokens []Token) []Token {
	result := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if n := len(result); n > 0 && !tok.HasChord() && !result[n-1].HasChord() {
			result[n-1].Lyric += tok.Lyric
			continue
		}
		result = append(result, tok)
	}
	return result
}

func isOpenSlot(tok Token) bool {
	return !tok.HasChord() && tok.Lyric == ""
}

func chordLyricAt(doc Document, lineIndex int) (ChordLyricLine, bool) {
	if lineIndex < 0 || lineIndex >= len(doc) {
		return ChordLyricLine{}, false
	}
	cl, ok := doc[lineIndex].(ChordLyricLine)
	return cl, ok
}

func replaceLine(doc Document, lineIndex int, line Line) Document {
	out := doc.Clone()
	out[lineIndex] = line
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
