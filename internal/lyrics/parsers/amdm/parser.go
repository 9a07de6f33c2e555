package amdm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sukalov/chordedit/internal/editor"
	"github.com/sukalov/chordedit/internal/logger"
)

// chordsBlockSelector finds <pre itemprop="chordsBlock" class="field__podbor_new podbor__text">
const chordsBlockSelector = `pre[itemprop="chordsBlock"].podbor__text`

var ErrNoChordsBlock = errors.New("chords block not found")

// Parser converts AmDm song pages to ChordPro
type Parser struct {
	client *Client
	config *ProcessingConfig
}

// NewParser creates a new AmDm parser. A nil config means DefaultConfig.
func NewParser(client *Client, config *ProcessingConfig) *Parser {
	if config == nil {
		config = DefaultConfig()
	}
	return &Parser{
		client: client,
		config: config,
	}
}

// ExtractChordPro fetches an AmDm.ru page and converts its chords block
func (p *Parser) ExtractChordPro(ctx context.Context, url string) (*Result, error) {
	logger.Debug(fmt.Sprintf("ExtractChordPro: fetching page %s", url))

	page, err := p.client.FetchPage(ctx, url)
	if err != nil {
		return &Result{URL: url, Error: err.Error()}, err
	}

	text, err := p.ConvertHTML(page)
	if err != nil {
		logger.Error(fmt.Sprintf("ExtractChordPro: %s\nURL: %s", err, url))
		return &Result{URL: url, Error: err.Error()}, err
	}

	return NewResult(url, text), nil
}

// ConvertHTML converts a saved song page
func (p *Parser) ConvertHTML(page string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	selection := doc.Find(chordsBlockSelector)
	if selection.Length() == 0 {
		return "", ErrNoChordsBlock
	}

	return p.ConvertText(flatten(selection.First())), nil
}

// ConvertText converts plain chords-over-lyrics text
func (p *Parser) ConvertText(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return p.finalCleanup(p.convertLines(stripComments(text)))
}

// NewResult wraps converted text with its chord count
func NewResult(source, text string) *Result {
	return &Result{
		URL:       source,
		Text:      text,
		Chords:    len(editor.Parse(text).Chords()),
		FetchedAt: time.Now(),
		Success:   true,
	}
}
