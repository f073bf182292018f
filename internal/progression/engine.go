// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package progression generates two-voice chord progressions by a
// constrained random walk: each step draws a legal next chord, voices it
// every way the lattice allows, drops the voicings that break a rule, and
// keeps one of the survivors.
package progression

import (
	"errors"
	"fmt"

	"github.com/pdiddy/kirnberger/internal/grammar"
	"github.com/pdiddy/kirnberger/internal/lattice"
	"github.com/pdiddy/kirnberger/internal/rules"
	"github.com/pdiddy/kirnberger/pkg/types"
)

// Candidate is one voicing of the next chord: the pitch each voice moves to.
type Candidate struct {
	Soprano types.Pitch
	Bass    types.Pitch
}

// Engine performs single extension steps. The lattice and grammar are read
// only; all randomness comes from rng, so an Engine must not be shared
// between goroutines unless rng is.
type Engine struct {
	lattice *lattice.Lattice
	grammar *grammar.Grammar
	rng     lattice.Rand
}

// NewEngine returns an Engine drawing from rng.
func NewEngine(lat *lattice.Lattice, g *grammar.Grammar, rng lattice.Rand) *Engine {
	return &Engine{lattice: lat, grammar: g, rng: rng}
}

// Extend draws the chord that follows current and appends one voicing of it
// to h. The returned history is a new value; h is not modified. When no
// voicing survives the rules the error is a *ContinuationError.
func (e *Engine) Extend(current types.Chord, h types.VoiceHistory) (types.Chord, types.VoiceHistory, error) {
	lastSoprano, lastBass, ok := h.Last()
	if !ok {
		return "", h, errors.New("extending empty voice history")
	}

	legal, err := e.grammar.LegalNext(current)
	if err != nil {
		return "", h, err
	}
	next := legal[e.rng.IntN(len(legal))]

	candidates, err := e.Candidates(next, lastSoprano, lastBass)
	if err != nil {
		return "", h, fmt.Errorf("voicing %s: %w", next, err)
	}
	if len(candidates) == 0 {
		return "", h, &ContinuationError{From: current, To: next, Soprano: lastSoprano, Bass: lastBass}
	}

	chosen := candidates[e.rng.IntN(len(candidates))]
	return next, h.Append(chosen.Soprano, chosen.Bass), nil
}

// Candidates returns the voicings of chord that legally follow the given
// soprano and bass pitches. Each voice moves to the nearest pitch of its new
// degree; every pairing of the chord's three members is tried.
func (e *Engine) Candidates(chord types.Chord, soprano, bass types.Pitch) ([]Candidate, error) {
	members := chord.Members()
	if members == nil {
		return nil, fmt.Errorf("unknown chord %q", chord)
	}

	var out []Candidate
	for _, bassDegree := range members {
		for _, sopranoDegree := range members {
			s, err := e.lattice.Resolve(e.rng, soprano, sopranoDegree)
			if err != nil {
				return nil, fmt.Errorf("resolving soprano: %w", err)
			}
			b, err := e.lattice.Resolve(e.rng, bass, bassDegree)
			if err != nil {
				return nil, fmt.Errorf("resolving bass: %w", err)
			}

			w, err := rules.NewWindow(e.lattice, [2]types.Pitch{soprano, s}, [2]types.Pitch{bass, b})
			if err != nil {
				return nil, err
			}
			if rules.Legal(w) {
				out = append(out, Candidate{Soprano: s, Bass: b})
			}
		}
	}
	return out, nil
}
