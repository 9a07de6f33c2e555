package chord

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDecompose(t *testing.T) {
	tests := []struct {
		symbol string
		want   Spec
	}{
		{"C", Spec{Root: "C"}},
		{"Am7", Spec{Root: "A", Quality: "m7"}},
		{"D/F#", Spec{Root: "D", Bass: "F#", HasBass: true}},
		{"Dm7/F", Spec{Root: "D", Quality: "m7", Bass: "F", HasBass: true}},
		{"Bbmaj7", Spec{Root: "Bb", Quality: "maj7"}},
		{"F#m7b5", Spec{Root: "F#", Quality: "m7b5"}},
		{"", Spec{}},
		{"N.C.", Spec{Root: "N.C."}},
		{"x/F", Spec{Root: "x/F"}},
		{"/F", Spec{Root: "/F"}},
		{"Am/", Spec{Root: "A", Quality: "m", HasBass: true}},
		{"C/E/G", Spec{Root: "C", Quality: "/E", Bass: "G", HasBass: true}},
	}

	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got := Decompose(tt.symbol)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Fatalf("Decompose(%q) mismatch (-want +got):\n%s", tt.symbol, diff)
			}
		})
	}
}

func TestComposeRoundTrip(t *testing.T) {
	symbols := []string{
		"C", "Am", "G7", "Cmaj7", "Em7", "Bdim", "Caug", "Dsus2", "Asus4", "Cadd9",
		"Bdim7", "F#m7b5", "Dm7/F", "D/F#", "Eb/Bb",
		// ill-formed input still round trips
		"", "H", "N.C.", "x/F", "/", "Am/", "C/E/G", "lyric text", "A\nB",
	}

	for _, s := range symbols {
		if got := Compose(Decompose(s)); got != s {
			t.Fatalf("Compose(Decompose(%q)) = %q", s, got)
		}
	}
}

func TestComposeEveryPickerChord(t *testing.T) {
	for _, notes := range [][]string{SharpNotes, FlatNotes} {
		for _, root := range notes {
			for _, quality := range Qualities {
				for _, bass := range append([]string{""}, notes...) {
					spec := Spec{Root: root, Quality: quality, Bass: bass, HasBass: bass != ""}
					symbol := Compose(spec)
					if diff := cmp.Diff(spec, Decompose(symbol)); diff != "" {
						t.Fatalf("Decompose(%q) mismatch (-want +got):\n%s", symbol, diff)
					}
					if !WellFormed(symbol) {
						t.Fatalf("expected %q to be well formed", symbol)
					}
				}
			}
		}
	}
}

func TestWellFormedRejectsWords(t *testing.T) {
	for _, word := range []string{"Amazing", "Grace", "Hello", "", "Dm/x", "Вася"} {
		if WellFormed(word) {
			t.Fatalf("expected %q not to be a chord", word)
		}
	}
}

func TestNotesReturnsCopy(t *testing.T) {
	notes := Notes(true)
	notes[0] = "X"
	if FlatNotes[0] != "C" {
		t.Fatalf("Notes leaked the shared slice")
	}
	if got := Notes(false)[1]; got != "C#" {
		t.Fatalf("unexpected sharp note: %q", got)
	}
	if got := QualityLabel(""); got != "maj" {
		t.Fatalf("unexpected label: %q", got)
	}
}
