package amdm

import (
	"time"
)

// Result is a song page converted to ChordPro
type Result struct {
	URL       string    `json:"url"`
	Text      string    `json:"text"`
	Chords    int       `json:"chords"`
	FetchedAt time.Time `json:"fetched_at"`
	Success   bool      `json:"success"`
	Error     string    `json:"error,omitempty"`
}

// SectionType represents different song sections
type SectionType string

const (
	SectionVerse  SectionType = "Куплет"
	SectionChorus SectionType = "Припев"
	SectionBridge SectionType = "Переход"
	SectionIntro  SectionType = "Вступление"
	SectionSolo   SectionType = "Проигрыш"
	SectionOutro  SectionType = "Кода"
)

// ProcessingConfig holds configuration for text processing
type ProcessingConfig struct {
	// DropSections are left out together with their lines
	DropSections  []SectionType
	MaxBlankLines int
}

// DefaultConfig keeps every section and at most one blank line in a row
func DefaultConfig() *ProcessingConfig {
	return &ProcessingConfig{MaxBlankLines: 1}
}

func (c *ProcessingConfig) drops(section string) bool {
	for _, s := range c.DropSections {
		if string(s) == section {
			return true
		}
	}
	return false
}
