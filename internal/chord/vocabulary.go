package chord

// Qualities is the closed set of suffixes offered by the chord picker.
// The empty string is a plain major chord.
var Qualities = []string{"", "m", "7", "maj7", "m7", "dim", "aug", "sus2", "sus4", "add9", "dim7", "m7b5"}

var SharpNotes = []string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

var FlatNotes = []string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

// Notes returns a copy of the note spelling used for root and bass choices
func Notes(flat bool) []string {
	if flat {
		return append([]string(nil), FlatNotes...)
	}
	return append([]string(nil), SharpNotes...)
}

// QualityLabel is the picker caption for a quality suffix
func QualityLabel(quality string) string {
	if quality == "" {
		return "maj"
	}
	return quality
}
