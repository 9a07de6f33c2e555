package editor

import (
	"fmt"
	"strings"

	"github.com/sukalov/chordedit/internal/chordpro"
	"github.com/sukalov/chordedit/internal/logger"
)

// LineParser extracts per-line item lists from ChordPro text
type LineParser interface {
	ParseLines(text string) ([][]chordpro.Item, error)
}

// Parser builds documents from ChordPro text
type Parser struct {
	lines LineParser
}

// NewParser creates a document parser on top of the given line parser
func NewParser(lines LineParser) *Parser {
	return &Parser{lines: lines}
}

var defaultParser = NewParser(chordpro.NewParser())

// DefaultParser returns the parser backed by the built-in ChordPro line parser
func DefaultParser() *Parser {
	return defaultParser
}

// Parse builds a document using the built-in ChordPro line parser
func Parse(text string) Document {
	return defaultParser.Parse(text)
}

// Parse builds a document from text. It never fails: when the line parser
// errors out, every source line becomes one chordless token.
func (p *Parser) Parse(text string) Document {
	if strings.TrimSpace(text) == "" {
		return NewDocument()
	}

	items, err := p.parseLines(text)
	if err != nil {
		logger.Error(fmt.Sprintf("Parse: line parser failed, falling back to plain lines\nError: %v", err))
		return fallbackDocument(text)
	}

	doc := make(Document, 0, len(items))
	for _, lineItems := range items {
		doc = append(doc, lineFromItems(lineItems))
	}

	if len(doc) == 0 {
		return NewDocument()
	}
	return doc
}

func (p *Parser) parseLines(text string) (items [][]chordpro.Item, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("line parser panic: %v", r)
		}
	}()
	return p.lines.ParseLines(text)
}

func lineFromItems(items []chordpro.Item) Line {
	if len(items) == 0 {
		return EmptyLine{}
	}

	if first := items[0]; first.IsDirective() {
		if first.HasValue {
			return DirectiveLine{Raw: fmt.Sprintf("{%s: %s}", first.Name, first.Value)}
		}
		return DirectiveLine{Raw: fmt.Sprintf("{%s}", first.Name)}
	}

	tokens := make([]Token, 0, len(items))
	for _, item := range items {
		tokens = append(tokens, Token{Chord: item.Chord, Lyric: item.Lyric})
	}
	// "[]" parses as a chord slot with no chord
	return ChordLyricLine{Tokens: normalize(tokens)}
}

func fallbackDocument(text string) Document {
	lines := strings.Split(text, "\n")
	doc := make(Document, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			doc = append(doc, EmptyLine{})
			continue
		}
		doc = append(doc, ChordLyricLine{Tokens: []Token{{Lyric: line}}})
	}
	return doc
}
