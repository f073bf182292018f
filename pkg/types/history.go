// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// VoiceHistory holds the soprano and bass lines of a progression. Both lines
// always have the same length; generation only ever appends.
type VoiceHistory struct {
	Soprano []Pitch `json:"soprano" yaml:"soprano"`
	Bass    []Pitch `json:"bass" yaml:"bass"`
}

// Len returns the number of beats in the history.
func (h VoiceHistory) Len() int {
	return len(h.Soprano)
}

// Last returns the most recent soprano and bass pitches. ok is false for an
// empty history.
func (h VoiceHistory) Last() (soprano, bass Pitch, ok bool) {
	if len(h.Soprano) == 0 || len(h.Bass) == 0 {
		return Pitch{}, Pitch{}, false
	}
	return h.Soprano[len(h.Soprano)-1], h.Bass[len(h.Bass)-1], true
}

// Append returns a copy of h extended by one beat. The receiver is left
// untouched, so earlier values of a history stay valid.
func (h VoiceHistory) Append(soprano, bass Pitch) VoiceHistory {
	out := VoiceHistory{
		Soprano: make([]Pitch, len(h.Soprano), len(h.Soprano)+1),
		Bass:    make([]Pitch, len(h.Bass), len(h.Bass)+1),
	}
	copy(out.Soprano, h.Soprano)
	copy(out.Bass, h.Bass)
	out.Soprano = append(out.Soprano, soprano)
	out.Bass = append(out.Bass, bass)
	return out
}

// Progression is the result of one generator run: the chord sounding at each
// beat alongside the two voices.
type Progression struct {
	// Chords has one label per beat; the seed beat is always ChordI.
	Chords []Chord `json:"chords" yaml:"chords"`

	// History is the soprano and bass line.
	History VoiceHistory `json:"history" yaml:"history"`
}

// Run is an archived progression together with the parameters that produced it.
type Run struct {
	// ID is assigned by the archive on save.
	ID int64 `json:"id" yaml:"id"`

	// Seed is the random seed the run was generated with.
	Seed int64 `json:"seed" yaml:"seed"`

	// Steps is the number of extension steps requested after the first measure.
	Steps int `json:"steps" yaml:"steps"`

	// CreatedAt is when the run was archived.
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	Progression Progression `json:"progression" yaml:"progression"`
}
