package cms

import (
	"strings"
	"testing"
	"unicode/utf16"

	"github.com/google/go-cmp/cmp"
	"github.com/sukalov/chordedit/internal/bot"
	"github.com/sukalov/chordedit/internal/editor"
)

func TestRenderDocument(t *testing.T) {
	doc := editor.Parse("{verse}\n\n[C]Amazing [G]grace[D]")
	want := "0: {verse}\n1:\n2: (0)[C]Amazing  (1)[G]grace (2)[D]"
	if got := renderDocument(doc); got != want {
		t.Fatalf("unexpected render:\n%s\nwant:\n%s", got, want)
	}
}

func TestRenderChords(t *testing.T) {
	doc := editor.Parse("[Am]a [Dm7/F]b [Am]c [Hmm]d")
	want := "Am = A m\nDm7/F = D m7 / F\nHmm = Hmm maj (?)"
	if got := renderChords(doc); got != want {
		t.Fatalf("unexpected render:\n%s\nwant:\n%s", got, want)
	}
	if got := renderChords(editor.NewDocument()); got != "аккордов пока нет" {
		t.Fatalf("unexpected render: %q", got)
	}
}

func TestRenderVocabulary(t *testing.T) {
	got := renderVocabulary()
	for _, part := range []string{"C C# D", "Db D Eb", "maj m 7 maj7"} {
		if !strings.Contains(got, part) {
			t.Fatalf("vocabulary %q does not contain %q", got, part)
		}
	}
}

func TestParseArgs(t *testing.T) {
	nums, rest, err := parseArgs(" 1  -1 7 Dm7 ", 3)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{1, -1, 7}, nums); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Dm7"}, rest); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestChordArg(t *testing.T) {
	tests := []struct {
		words []string
		want  string
	}{
		{[]string{"Dm7/F"}, "Dm7/F"},
		{[]string{"D", "m7"}, "Dm7"},
		{[]string{"D", "-", "F#"}, "D/F#"},
		{[]string{"Bb", "maj7", "D"}, "Bbmaj7/D"},
	}
	for _, tt := range tests {
		got, err := chordArg(tt.words)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Fatalf("chordArg(%v) = %q, want %q", tt.words, got, tt.want)
		}
	}

	if _, err := chordArg(nil); err == nil {
		t.Fatalf("expected error for missing chord")
	}
	if _, err := chordArg([]string{"a", "b", "c", "d"}); err == nil {
		t.Fatalf("expected error for too many words")
	}
}

func TestLongSongFitsTelegramMessages(t *testing.T) {
	var src []string
	for i := 0; i < 100; i++ {
		src = append(src, "[Am]Сколько было [Dm]песен [G]спето [C]в этом [F]старом [E]дворе")
	}
	rendered := renderDocument(editor.Parse(strings.Join(src, "\n")))
	if len(utf16.Encode([]rune(rendered))) <= bot.MaxMessageLength {
		t.Fatalf("rendered song should not fit one message")
	}

	chunks := bot.SplitMessage(rendered, bot.MaxMessageLength)
	if len(chunks) < 2 {
		t.Fatalf("expected several chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks {
		if n := len(utf16.Encode([]rune(chunk))); n > bot.MaxMessageLength {
			t.Fatalf("chunk %d is %d UTF-16 units long", i, n)
		}
		if strings.HasPrefix(chunk, "\n") || strings.HasSuffix(chunk, "\n") {
			t.Fatalf("chunk %d is not cut at a line break", i)
		}
	}
	if got := strings.Join(chunks, "\n"); got != rendered {
		t.Fatalf("chunks don't join back to the rendered song")
	}
}
