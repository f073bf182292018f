// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types holds the shared value types of the generator: scale degrees,
// concrete pitches, chords, voice histories, and stage configuration.
package types

import (
	"fmt"
	"strconv"
	"strings"
)

// ScaleDegree is one of the seven diatonic positions of the fixed major key.
type ScaleDegree int

const (
	Do ScaleDegree = iota
	Re
	Mi
	Fa
	Sol
	La
	Ti
)

// Tonic and LeadingTone name the two degrees the tendency-tone rule cares about.
const (
	Tonic       = Do
	LeadingTone = Ti
)

// Degrees lists every scale degree in ascending order starting at the tonic.
var Degrees = [...]ScaleDegree{Do, Re, Mi, Fa, Sol, La, Ti}

var degreeNames = [...]string{"Do", "Re", "Mi", "Fa", "Sol", "La", "Ti"}

// spellings are the F major note names, English LilyPond style.
var spellings = [...]string{"f", "g", "a", "bf", "c", "d", "e"}

// Valid reports whether d is one of the seven degrees.
func (d ScaleDegree) Valid() bool {
	return d >= Do && d <= Ti
}

// String returns the solfege name of the degree (e.g. "Sol").
func (d ScaleDegree) String() string {
	if !d.Valid() {
		return fmt.Sprintf("ScaleDegree(%d)", int(d))
	}
	return degreeNames[d]
}

// Spelling returns the note name of the degree in F major (e.g. "bf").
func (d ScaleDegree) Spelling() string {
	if !d.Valid() {
		return "?"
	}
	return spellings[d]
}

// Next returns the degree one diatonic step above d, wrapping Ti to Do.
func (d ScaleDegree) Next() ScaleDegree {
	return (d + 1) % ScaleDegree(len(Degrees))
}

// ParseDegree accepts a solfege name ("Sol") or an F major spelling ("c").
func ParseDegree(s string) (ScaleDegree, error) {
	for _, d := range Degrees {
		if strings.EqualFold(s, degreeNames[d]) || s == spellings[d] {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown scale degree %q", s)
}

// Pitch is a concrete, octave-specific instance of a scale degree. Octave
// follows scientific pitch notation, so it increments at c, not at the tonic.
// Pitches compare by their lattice distance; see lattice.Lattice.Distance.
type Pitch struct {
	Degree ScaleDegree
	Octave int
}

// String returns the pitch name with its octave, e.g. "bf2" or "c4".
func (p Pitch) String() string {
	return p.Degree.Spelling() + strconv.Itoa(p.Octave)
}

// ParsePitch parses a name of the form "f3" or "bf2".
func ParsePitch(s string) (Pitch, error) {
	i := strings.IndexAny(s, "-0123456789")
	if i <= 0 {
		return Pitch{}, fmt.Errorf("invalid pitch %q: missing octave", s)
	}
	d, err := ParseDegree(s[:i])
	if err != nil {
		return Pitch{}, fmt.Errorf("invalid pitch %q: %w", s, err)
	}
	octave, err := strconv.Atoi(s[i:])
	if err != nil {
		return Pitch{}, fmt.Errorf("invalid pitch %q: %w", s, err)
	}
	return Pitch{Degree: d, Octave: octave}, nil
}

// MarshalText encodes the pitch by name so archives and exports stay readable.
func (p Pitch) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText decodes a pitch name produced by MarshalText.
func (p *Pitch) UnmarshalText(text []byte) error {
	parsed, err := ParsePitch(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
