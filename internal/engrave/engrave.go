// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engrave turns a voice history into engraving input: per-voice note
// events with metrical positions and durations, LilyPond note strings, and a
// complete two-staff piano score document.
package engrave

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/kirnberger/pkg/types"
)

// Fixed score parameters.
const (
	KeyTonic      = "f"
	KeyMode       = "major"
	TimeSignature = "3/4"
	TempoBPM      = 120

	// LongDuration and ShortDuration are LilyPond duration denominators for
	// the first and second beat of each two-beat step.
	LongDuration  = 2
	ShortDuration = 4

	lilypondVersion = "2.24.0"
)

// Event is one note of a voice as handed to the engraver.
type Event struct {
	Spelling string `json:"spelling" yaml:"spelling"`
	Octave   int    `json:"octave" yaml:"octave"`
	Position int    `json:"position" yaml:"position"`
	Duration int    `json:"duration" yaml:"duration"`
}

// Note converts the event to its LilyPond element.
func (e Event) Note() Note {
	return Note{Pitch: Pitch{Name: e.Spelling, Octave: e.Octave}, Duration: e.Duration}
}

// DurationAt returns the duration of the note at position: even positions
// are long, odd positions short.
func DurationAt(position int) int {
	if position%2 == 0 {
		return LongDuration
	}
	return ShortDuration
}

// Events converts both voices of h into note events.
func Events(h types.VoiceHistory) (soprano, bass []Event) {
	return voiceEvents(h.Soprano), voiceEvents(h.Bass)
}

func voiceEvents(line []types.Pitch) []Event {
	out := make([]Event, len(line))
	for i, p := range line {
		out[i] = Event{
			Spelling: p.Degree.Spelling(),
			Octave:   p.Octave,
			Position: i,
			Duration: DurationAt(i),
		}
	}
	return out
}

// Strings returns the soprano and bass as LilyPond note strings, e.g.
// "f'2 g'4 a'2" and "f2 e4 f2".
func Strings(h types.VoiceHistory) (soprano, bass string) {
	s, b := Events(h)
	return noteString(s), noteString(b)
}

func noteString(events []Event) string {
	parts := make([]string, len(events))
	for i, e := range events {
		parts[i] = e.Note().String()
	}
	return strings.Join(parts, " ")
}

// Score builds the PianoStaff for h: soprano on the upper staff, bass on the
// lower staff in bass clef, both carrying key and time signature.
func Score(h types.VoiceHistory) Elem {
	s, b := Events(h)

	header := []Elem{
		Command(fmt.Sprintf("\\key %s \\%s", KeyTonic, KeyMode)),
		Command("\\time " + TimeSignature),
	}

	upper := append(append([]Elem{}, header...), Command(fmt.Sprintf("\\tempo 4 = %d", TempoBPM)))
	for _, e := range s {
		upper = append(upper, e.Note())
	}

	lower := append(append([]Elem{}, header...), Command("\\clef bass"))
	for _, e := range b {
		lower = append(lower, e.Note())
	}

	return Context{Type: "PianoStaff", Name: "PianoStaff", Music: Par{Compound{Elems: []Elem{
		Context{Type: "Staff", Name: "Staff_1", Music: Context{Type: "Voice", Name: "Voice_1", Music: Seq{Compound{Elems: upper}}}},
		Context{Type: "Staff", Name: "Staff_2", Music: Context{Type: "Voice", Name: "Voice_2", Music: Seq{Compound{Elems: lower}}}},
	}}}}
}

// Document returns a complete .ly source for h with layout and midi blocks,
// so a single LilyPond run produces both the score and the MIDI file.
func Document(h types.VoiceHistory) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\\version %q\n", lilypondVersion)
	b.WriteString("\\language \"english\"\n\n")
	b.WriteString("\\score {\n")
	fmt.Fprintf(&b, "  %s\n", Score(h))
	b.WriteString("  \\layout { }\n")
	b.WriteString("  \\midi { }\n")
	b.WriteString("}\n")
	return b.String()
}

// WriteDocument writes Document(h) to dir/name.ly and returns the path.
func WriteDocument(h types.VoiceHistory, dir, name string) (string, error) {
	if h.Len() == 0 {
		return "", fmt.Errorf("engraving empty voice history")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, name+".ly")
	if err := os.WriteFile(path, []byte(Document(h)), 0o644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
