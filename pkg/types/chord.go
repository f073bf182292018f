package types

import "fmt"

// Chord labels one of the five diatonic triads the generator uses.
type Chord string

const (
	ChordI   Chord = "I"
	ChordII  Chord = "ii"
	ChordIV  Chord = "IV"
	ChordV   Chord = "V"
	ChordVII Chord = "vii"
)

// Chords lists the closed set of chord labels.
var Chords = [...]Chord{ChordI, ChordII, ChordIV, ChordV, ChordVII}

// Members returns the root, third, and fifth of the chord. It returns nil for
// a label outside the closed set.
func (c Chord) Members() []ScaleDegree {
	switch c {
	case ChordI:
		return []ScaleDegree{Do, Mi, Sol}
	case ChordII:
		return []ScaleDegree{Re, Fa, La}
	case ChordIV:
		return []ScaleDegree{Fa, La, Do}
	case ChordV:
		return []ScaleDegree{Sol, Ti, Re}
	case ChordVII:
		return []ScaleDegree{Ti, Re, Fa}
	}
	return nil
}

// Valid reports whether c is one of the five defined chords.
func (c Chord) Valid() bool {
	return c.Members() != nil
}

// ParseChord validates a chord label.
func ParseChord(s string) (Chord, error) {
	c := Chord(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown chord %q", s)
	}
	return c, nil
}
