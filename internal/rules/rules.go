// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rules implements the voice-leading predicates used to reject a
// two-beat continuation: parallel octaves, parallel fifths, unresolved
// leading tones, and voice crossing.
//
// Every rule reports true when it is violated.
package rules

import (
	"fmt"

	"github.com/pdiddy/kirnberger/pkg/types"
)

// DistanceIndex maps a pitch to its semitone offset above the bottom of the
// pitch space. *lattice.Lattice satisfies it.
type DistanceIndex interface {
	Distance(p types.Pitch) (int, error)
}

// Window is one two-beat slice of both voices: index 0 is the previous beat,
// index 1 the candidate beat.
type Window struct {
	Soprano [2]types.Pitch
	Bass    [2]types.Pitch

	sopranoDist [2]int
	bassDist    [2]int
}

// NewWindow looks up the distances of the four pitches once so the rules
// themselves stay pure.
func NewWindow(idx DistanceIndex, soprano, bass [2]types.Pitch) (Window, error) {
	w := Window{Soprano: soprano, Bass: bass}
	for i := 0; i < 2; i++ {
		var err error
		if w.sopranoDist[i], err = idx.Distance(soprano[i]); err != nil {
			return Window{}, fmt.Errorf("soprano beat %d: %w", i, err)
		}
		if w.bassDist[i], err = idx.Distance(bass[i]); err != nil {
			return Window{}, fmt.Errorf("bass beat %d: %w", i, err)
		}
	}
	return w, nil
}

// interval returns the signed soprano-minus-bass distance at beat i.
func (w Window) interval(i int) int {
	return w.sopranoDist[i] - w.bassDist[i]
}

// Rule is a named voice-leading predicate.
type Rule struct {
	Name     string
	Violated func(Window) bool
}

// All returns the four rules in evaluation order.
func All() []Rule {
	return []Rule{
		{Name: "parallel-octave", Violated: ParallelOctave},
		{Name: "parallel-fifth", Violated: ParallelFifth},
		{Name: "tendency-tone", Violated: TendencyTone},
		{Name: "voice-crossing", Violated: VoiceCrossing},
	}
}

// ParallelOctave reports octaves (or unisons) on both beats while the bass
// moves. Held octaves are allowed.
func ParallelOctave(w Window) bool {
	return mod12(w.interval(0)) == 0 &&
		mod12(w.interval(1)) == 0 &&
		w.Bass[0] != w.Bass[1]
}

// ParallelFifth reports a fifth, simple or compound, with the soprano above
// the bass on both beats while the bass moves.
func ParallelFifth(w Window) bool {
	i0, i1 := w.interval(0), w.interval(1)
	return i0 > 0 && i1 > 0 &&
		mod12(i0) == 7 && mod12(i1) == 7 &&
		w.Bass[0] != w.Bass[1]
}

// TendencyTone reports a leading tone on the first beat of either voice that
// the same voice does not resolve to the tonic.
func TendencyTone(w Window) bool {
	unresolved := func(line [2]types.Pitch) bool {
		return line[0].Degree == types.LeadingTone && line[1].Degree != types.Tonic
	}
	return unresolved(w.Soprano) || unresolved(w.Bass)
}

// VoiceCrossing reports the bass sounding above the soprano on either beat.
func VoiceCrossing(w Window) bool {
	return w.interval(0) < 0 || w.interval(1) < 0
}

// Violations returns the names of every rule w breaks, in evaluation order.
func Violations(w Window) []string {
	var names []string
	for _, r := range All() {
		if r.Violated(w) {
			names = append(names, r.Name)
		}
	}
	return names
}

// Legal reports whether w breaks none of the rules.
func Legal(w Window) bool {
	for _, r := range All() {
		if r.Violated(w) {
			return false
		}
	}
	return true
}

func mod12(x int) int {
	m := x % 12
	if m < 0 {
		m += 12
	}
	return m
}
