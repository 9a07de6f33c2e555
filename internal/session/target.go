package session

import (
	"fmt"
	"math"
)

// Target is the chord placement the user is in the middle of:
// EditExisting, AppendAtEnd or InsertBySplit.
type Target interface {
	isTarget()
}

// EditExisting changes or removes the chord already on a token
type EditExisting struct {
	Line  int
	Token int
}

// AppendAtEnd adds a chord-only token at the end of a line
type AppendAtEnd struct {
	Line int
}

// InsertBySplit places a new chord by splitting a token's lyric at Offset
type InsertBySplit struct {
	Line   int
	Token  int
	Offset int
}

func (EditExisting) isTarget()  {}
func (AppendAtEnd) isTarget()   {}
func (InsertBySplit) isTarget() {}

func (t EditExisting) String() string {
	return fmt.Sprintf("edit line %d token %d", t.Line, t.Token)
}

func (t AppendAtEnd) String() string {
	return fmt.Sprintf("append to line %d", t.Line)
}

func (t InsertBySplit) String() string {
	return fmt.Sprintf("split line %d token %d at %d", t.Line, t.Token, t.Offset)
}

// Rect is the on-screen box of a rendered lyric span
type Rect struct {
	Left  float64
	Width float64
}

// ResolveClickOffset maps a pointer x position inside a lyric span to a
// character offset in [0, lyricLength], assuming every character has the
// same width. It reports false for an empty lyric.
func ResolveClickOffset(pointerX float64, rect Rect, lyricLength int) (int, bool) {
	if lyricLength <= 0 {
		return 0, false
	}
	if rect.Width <= 0 {
		return 0, true
	}

	charWidth := rect.Width / float64(lyricLength)
	pos := math.Round((pointerX - rect.Left) / charWidth)
	// clamp before converting, int() of an out of range float is undefined
	switch {
	case math.IsNaN(pos) || pos < 0:
		pos = 0
	case pos > float64(lyricLength):
		pos = float64(lyricLength)
	}
	return int(pos), true
}

// ResolveClick turns a click on a token's lyric into an edit target:
// a split at the clicked character, or editing the token's chord slot
// when the lyric is empty.
func ResolveClick(lineIndex, tokenIndex int, pointerX float64, rect Rect, lyricLength int) Target {
	offset, ok := ResolveClickOffset(pointerX, rect, lyricLength)
	if !ok {
		return EditExisting{Line: lineIndex, Token: tokenIndex}
	}
	return InsertBySplit{Line: lineIndex, Token: tokenIndex, Offset: offset}
}
