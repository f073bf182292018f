// Package grammar holds the functional-harmony transition table that limits
// which chord may follow which.
package grammar

import (
	"fmt"

	"github.com/pdiddy/kirnberger/pkg/types"
)

// Grammar is an immutable chord transition table. It is safe to share
// across concurrent runs.
type Grammar struct {
	next map[types.Chord][]types.Chord
}

// New returns the standard table: the tonic may go anywhere, predominants
// move toward the dominant, and the dominant returns home.
func New() *Grammar {
	return &Grammar{next: map[types.Chord][]types.Chord{
		types.ChordI:   {types.ChordI, types.ChordII, types.ChordIV, types.ChordV, types.ChordVII},
		types.ChordII:  {types.ChordII, types.ChordV, types.ChordVII},
		types.ChordIV:  {types.ChordIV, types.ChordII, types.ChordV},
		types.ChordV:   {types.ChordV, types.ChordI},
		types.ChordVII: {types.ChordVII, types.ChordV, types.ChordI},
	}}
}

// LegalNext returns the chords that may follow current, in table order.
func (g *Grammar) LegalNext(current types.Chord) ([]types.Chord, error) {
	next, ok := g.next[current]
	if !ok {
		return nil, fmt.Errorf("unknown chord %q", current)
	}
	out := make([]types.Chord, len(next))
	copy(out, next)
	return out, nil
}

// Allows reports whether to may directly follow from.
func (g *Grammar) Allows(from, to types.Chord) bool {
	for _, c := range g.next[from] {
		if c == to {
			return true
		}
	}
	return false
}
