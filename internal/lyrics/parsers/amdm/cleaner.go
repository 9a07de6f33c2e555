package amdm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	// Closed /* */ comments
	commentRegex = regexp.MustCompile(`/\*[^*]*\*/`)
	// Incomplete comments at end of line
	openCommentRegex = regexp.MustCompile(`(?m)/\*.*$`)
)

// stripComments removes /* */ remarks left by the transcriber
func stripComments(text string) string {
	text = commentRegex.ReplaceAllString(text, "")
	return openCommentRegex.ReplaceAllString(text, "")
}

// finalCleanup collapses blank runs, trims and normalizes to NFC so
// that composed and decomposed Cyrillic compare equal.
func (p *Parser) finalCleanup(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	blank := 0
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			blank++
			if blank > p.config.MaxBlankLines {
				continue
			}
			line = ""
		} else {
			blank = 0
		}
		out = append(out, line)
	}
	return norm.NFC.String(strings.TrimSpace(strings.Join(out, "\n")))
}
