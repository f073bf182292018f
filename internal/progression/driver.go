// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progression

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/pdiddy/kirnberger/internal/grammar"
	"github.com/pdiddy/kirnberger/internal/lattice"
	"github.com/pdiddy/kirnberger/pkg/types"
)

var (
	// BassSeed is the first bass note of every progression.
	BassSeed = types.Pitch{Degree: types.Tonic, Octave: 3}

	// SopranoReference is the pitch the opening soprano degree is resolved against.
	SopranoReference = types.Pitch{Degree: types.Tonic, Octave: 4}
)

// NewRand returns a reproducible random source for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
}

// Option configures a Driver.
type Option func(*Driver)

// WithRetries lets each step that hits a dead end be redrawn up to n times
// before Generate gives up. The default is zero.
func WithRetries(n int) Option {
	return func(d *Driver) {
		if n > 0 {
			d.retries = n
		}
	}
}

// WithLog sends per-step progress lines to w.
func WithLog(w io.Writer) Option {
	return func(d *Driver) {
		if w != nil {
			d.log = w
		}
	}
}

// Driver seeds the first measure and iterates the Engine.
type Driver struct {
	engine  *Engine
	lattice *lattice.Lattice
	rng     lattice.Rand
	retries int
	log     io.Writer
}

// NewDriver returns a Driver whose engine and seeding share rng.
func NewDriver(lat *lattice.Lattice, g *grammar.Grammar, rng lattice.Rand, opts ...Option) *Driver {
	d := &Driver{
		engine:  NewEngine(lat, g, rng),
		lattice: lat,
		rng:     rng,
		log:     io.Discard,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Generate produces the first measure (seed beat plus one generated beat)
// followed by totalSteps further extensions, so both voices end with
// totalSteps+2 pitches.
func (d *Driver) Generate(totalSteps int) (types.Progression, error) {
	if totalSteps < 0 {
		return types.Progression{}, fmt.Errorf("%w: %d", ErrInvalidStepCount, totalSteps)
	}

	h, err := d.seed()
	if err != nil {
		return types.Progression{}, err
	}
	chords := []types.Chord{types.ChordI}

	current := types.ChordI
	for step := 0; step <= totalSteps; step++ {
		current, h, err = d.step(step, current, h)
		if err != nil {
			return types.Progression{}, fmt.Errorf("step %d: %w", step, err)
		}
		chords = append(chords, current)
	}

	return types.Progression{Chords: chords, History: h}, nil
}

// seed builds the opening beat: the bass on the tonic and the soprano on a
// random member of the tonic chord near SopranoReference.
func (d *Driver) seed() (types.VoiceHistory, error) {
	members := types.ChordI.Members()
	degree := members[d.rng.IntN(len(members))]

	soprano, err := d.lattice.Resolve(d.rng, SopranoReference, degree)
	if err != nil {
		return types.VoiceHistory{}, fmt.Errorf("seeding soprano: %w", err)
	}
	if !d.lattice.Contains(BassSeed) {
		return types.VoiceHistory{}, fmt.Errorf("seeding bass: %w: %s", lattice.ErrOutOfRange, BassSeed)
	}

	var h types.VoiceHistory
	return h.Append(soprano, BassSeed), nil
}

// step runs one extension, redrawing on a dead end while the retry budget lasts.
func (d *Driver) step(n int, current types.Chord, h types.VoiceHistory) (types.Chord, types.VoiceHistory, error) {
	for attempt := 0; ; attempt++ {
		next, out, err := d.engine.Extend(current, h)
		if err == nil {
			s, b, _ := out.Last()
			fmt.Fprintf(d.log, "step %d: %s -> %s (soprano %s, bass %s)\n", n, current, next, s, b)
			return next, out, nil
		}
		if !errors.Is(err, ErrNoLegalContinuation) || attempt >= d.retries {
			return "", h, err
		}
		fmt.Fprintf(d.log, "step %d: %v, retrying (%d/%d)\n", n, err, attempt+1, d.retries)
	}
}
