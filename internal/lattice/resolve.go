// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lattice

import (
	"fmt"

	"github.com/pdiddy/kirnberger/pkg/types"
)

// Rand is the random source the resolver and generator draw from.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// Resolve returns the pitch of degree target closest to ref. When two
// pitches tie, one of them is chosen with rng. ref must be a lattice pitch.
func (l *Lattice) Resolve(rng Rand, ref types.Pitch, target types.ScaleDegree) (types.Pitch, error) {
	refDist, err := l.Distance(ref)
	if err != nil {
		return types.Pitch{}, err
	}

	candidates := l.Nearest(refDist, target)
	if len(candidates) == 0 {
		return types.Pitch{}, fmt.Errorf("no lattice pitch for degree %s", target)
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return candidates[rng.IntN(len(candidates))], nil
}

// Nearest returns every pitch of degree target at the minimum semitone
// distance from refDist, in ascending order. There are at most two.
func (l *Lattice) Nearest(refDist int, target types.ScaleDegree) []types.Pitch {
	var (
		best     []types.Pitch
		bestDist = -1
	)
	for _, p := range l.byDegree[target] {
		d := abs(l.distance[p] - refDist)
		switch {
		case bestDist < 0 || d < bestDist:
			bestDist = d
			best = append(best[:0], p)
		case d == bestDist:
			best = append(best, p)
		}
	}
	return best
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
