// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lattice builds the playable pitch space of the fixed key and
// resolves scale degrees to the nearest concrete pitch.
//
// A Lattice is immutable once built and may be shared across goroutines.
package lattice

import (
	"errors"
	"fmt"

	"github.com/pdiddy/kirnberger/pkg/types"
)

// ErrOutOfRange reports a pitch that is not part of the lattice.
var ErrOutOfRange = errors.New("pitch outside lattice")

var (
	// Low is the bottom of the pitch space; distances are measured from it.
	Low = types.Pitch{Degree: types.Tonic, Octave: 2}

	// High is the top of the pitch space, three tonic cycles above Low.
	High = types.Pitch{Degree: types.Tonic, Octave: 5}
)

// octaveDegree is the degree at which the spelling octave number increments.
const octaveDegree = types.Sol

// Lattice is the ordered set of diatonic pitches between Low and High.
type Lattice struct {
	pitches  []types.Pitch
	byDegree map[types.ScaleDegree][]types.Pitch
	distance map[types.Pitch]int
}

// New walks the diatonic cycle upward from Low until it lands on High. Steps
// after Mi and Ti are half steps; every other step is a whole step.
func New() *Lattice {
	l := &Lattice{
		byDegree: make(map[types.ScaleDegree][]types.Pitch, len(types.Degrees)),
		distance: make(map[types.Pitch]int),
	}

	p := Low
	halfSteps := 0
	for {
		l.pitches = append(l.pitches, p)
		l.byDegree[p.Degree] = append(l.byDegree[p.Degree], p)
		l.distance[p] = halfSteps
		if p == High {
			break
		}

		halfSteps += stepAfter(p.Degree)
		next := p.Degree.Next()
		octave := p.Octave
		if next == octaveDegree {
			octave++
		}
		p = types.Pitch{Degree: next, Octave: octave}
	}
	return l
}

// stepAfter returns the semitone distance from d to the next degree up.
func stepAfter(d types.ScaleDegree) int {
	if d == types.Mi || d == types.Ti {
		return 1
	}
	return 2
}

// Pitches returns every lattice pitch in ascending order.
func (l *Lattice) Pitches() []types.Pitch {
	out := make([]types.Pitch, len(l.pitches))
	copy(out, l.pitches)
	return out
}

// ByDegree returns the lattice pitches of degree d in ascending order.
func (l *Lattice) ByDegree(d types.ScaleDegree) []types.Pitch {
	src := l.byDegree[d]
	out := make([]types.Pitch, len(src))
	copy(out, src)
	return out
}

// Contains reports whether p is part of the lattice.
func (l *Lattice) Contains(p types.Pitch) bool {
	_, ok := l.distance[p]
	return ok
}

// Distance returns the number of semitones p lies above Low.
func (l *Lattice) Distance(p types.Pitch) (int, error) {
	d, ok := l.distance[p]
	if !ok {
		return 0, fmt.Errorf("%w: %s (range %s..%s)", ErrOutOfRange, p, Low, High)
	}
	return d, nil
}

// MIDIKey returns the MIDI note number of p. Low (f2) is note 41.
func (l *Lattice) MIDIKey(p types.Pitch) (uint8, error) {
	d, err := l.Distance(p)
	if err != nil {
		return 0, err
	}
	return uint8(lowMIDIKey + d), nil
}

const lowMIDIKey = 41
