// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package perform plays a voice history as a live MIDI stream: both voices
// sound together on each beat, held for the beat's notated duration at the
// score tempo.
package perform

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/pdiddy/kirnberger/internal/engrave"
	"github.com/pdiddy/kirnberger/internal/lattice"
	"github.com/pdiddy/kirnberger/pkg/types"
)

const defaultVelocity = 90

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Option configures a Performer.
type Option func(*Performer)

// WithSleeper replaces the wall-clock wait between note on and note off.
func WithSleeper(s Sleeper) Option {
	return func(p *Performer) { p.sleep = s }
}

// WithVelocity sets the note-on velocity (default 90).
func WithVelocity(v uint8) Option {
	return func(p *Performer) { p.velocity = v & 0x7f }
}

// Performer writes a progression to a MIDI stream in real time.
type Performer struct {
	wr       *Writer
	lattice  *lattice.Lattice
	sleep    Sleeper
	velocity uint8
}

// New returns a Performer writing to dest.
func New(dest io.Writer, lat *lattice.Lattice, opts ...Option) *Performer {
	p := &Performer{
		wr:       NewWriter(dest),
		lattice:  lat,
		sleep:    sleep,
		velocity: defaultVelocity,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// BeatLength returns how long the note at position sounds at the score tempo.
func BeatLength(position int) time.Duration {
	quarter := time.Minute / engrave.TempoBPM
	return quarter * 4 / time.Duration(engrave.DurationAt(position))
}

// Play performs h beat by beat. A unison between the voices sounds once.
// When ctx is cancelled the sounding notes are stopped before returning.
func (p *Performer) Play(ctx context.Context, h types.VoiceHistory) error {
	for i := 0; i < h.Len(); i++ {
		keys, err := p.beatKeys(h.Soprano[i], h.Bass[i])
		if err != nil {
			return fmt.Errorf("beat %d: %w", i, err)
		}

		for j, k := range keys {
			if err := p.wr.NoteOn(k, p.velocity); err != nil {
				p.release(keys[:j])
				return fmt.Errorf("beat %d: %w", i, err)
			}
		}

		waitErr := p.sleep(ctx, BeatLength(i))

		for _, k := range keys {
			if err := p.wr.NoteOff(k); err != nil {
				return fmt.Errorf("beat %d: %w", i, err)
			}
		}
		if waitErr != nil {
			return waitErr
		}
	}
	return nil
}

// release stops keys that are still sounding, ignoring write failures.
func (p *Performer) release(keys []uint8) {
	for _, k := range keys {
		if p.wr.Sounding(k) {
			p.wr.NoteOff(k)
		}
	}
}

func (p *Performer) beatKeys(soprano, bass types.Pitch) ([]uint8, error) {
	s, err := p.lattice.MIDIKey(soprano)
	if err != nil {
		return nil, err
	}
	b, err := p.lattice.MIDIKey(bass)
	if err != nil {
		return nil, err
	}
	if s == b {
		return []uint8{s}, nil
	}
	return []uint8{s, b}, nil
}
