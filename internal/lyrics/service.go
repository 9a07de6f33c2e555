package lyrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sukalov/chordedit/internal/logger"
	"github.com/sukalov/chordedit/internal/lyrics/parsers/amdm"
	"github.com/sukalov/chordedit/internal/utils"
)

// Song is a ChordPro text fetched from a chords site
type Song struct {
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	Chords    int       `json:"chords"`
	Source    string    `json:"source"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Service handles ChordPro import for different sources
type Service struct {
	amdmParser *amdm.Parser
}

// NewService creates a new import service. The AmDm request rate comes from
// AMDM_RATE_PER_SECOND and defaults to one page per second.
func NewService(config *amdm.ProcessingConfig) *Service {
	client := amdm.NewClient(utils.EnvFloat("AMDM_RATE_PER_SECOND", 1))
	return &Service{
		amdmParser: amdm.NewParser(client, config),
	}
}

// Supported reports whether the URL belongs to a known source
func Supported(url string) bool {
	return strings.Contains(url, "amdm.ru")
}

// Import fetches a song page and converts it to ChordPro
func (s *Service) Import(ctx context.Context, url string) (*Song, error) {
	if !Supported(url) {
		logger.Error(fmt.Sprintf("Unsupported URL source: %s", url))
		return nil, fmt.Errorf("unsupported URL source: %s", url)
	}

	result, err := s.amdmParser.ExtractChordPro(ctx, url)
	if err != nil {
		return nil, err
	}

	logger.Debug(fmt.Sprintf("Import succeeded for URL: %s\nText length: %d chars\nChords: %d",
		url, len(result.Text), result.Chords))

	return &Song{
		URL:       result.URL,
		Text:      result.Text,
		Chords:    result.Chords,
		Source:    "amdm.ru",
		FetchedAt: result.FetchedAt,
	}, nil
}

// Convert converts a saved page or plain text file. Content that looks like
// HTML goes through the page parser.
func (s *Service) Convert(source, content string) (*Song, error) {
	var text string
	if strings.Contains(strings.ToLower(content), "<pre") {
		var err error
		text, err = s.amdmParser.ConvertHTML(content)
		if err != nil {
			return nil, fmt.Errorf("convert %s: %w", source, err)
		}
	} else {
		text = s.amdmParser.ConvertText(content)
	}

	result := amdm.NewResult(source, text)
	return &Song{
		URL:       result.URL,
		Text:      result.Text,
		Chords:    result.Chords,
		Source:    "file",
		FetchedAt: result.FetchedAt,
	}, nil
}
