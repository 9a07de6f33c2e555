package bot

import (
	"strings"
	"unicode/utf16"
)

// MaxMessageLength is Telegram's limit on message text, in UTF-16 code units
const MaxMessageLength = 4096

// SplitMessage cuts text into chunks of at most limit UTF-16 code units,
// breaking between lines. Joining the chunks with "\n" gives text back
// unless a single line was longer than limit and had to be cut.
func SplitMessage(text string, limit int) []string {
	if limit <= 0 || utf16Len(text) <= limit {
		return []string{text}
	}

	var (
		chunks []string
		cur    []string
		curLen int
	)
	flush := func() {
		if cur != nil {
			chunks = append(chunks, strings.Join(cur, "\n"))
			cur = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		n := utf16Len(line)
		if n > limit {
			flush()
			chunks = append(chunks, cutLine(line, limit)...)
			continue
		}
		if cur != nil && curLen+1+n > limit {
			flush()
		}
		if cur == nil {
			curLen = n
		} else {
			curLen += 1 + n
		}
		cur = append(cur, line)
	}
	flush()

	return chunks
}

// cutLine splits one overlong line on rune boundaries
func cutLine(line string, limit int) []string {
	var (
		parts []string
		b     strings.Builder
		n     int
	)
	for _, r := range line {
		w := utf16.RuneLen(r)
		if w < 0 {
			w = 1
		}
		if n+w > limit {
			parts = append(parts, b.String())
			b.Reset()
			n = 0
		}
		b.WriteRune(r)
		n += w
	}
	if b.Len() > 0 {
		parts = append(parts, b.String())
	}
	return parts
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if w := utf16.RuneLen(r); w > 0 {
			n += w
		} else {
			n++
		}
	}
	return n
}
