// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package perform

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/kirnberger/internal/lattice"
	"github.com/pdiddy/kirnberger/pkg/types"
)

func voices(t *testing.T, pairs ...[2]string) types.VoiceHistory {
	t.Helper()
	var h types.VoiceHistory
	for _, pr := range pairs {
		s, err := types.ParsePitch(pr[0])
		require.NoError(t, err)
		b, err := types.ParsePitch(pr[1])
		require.NoError(t, err)
		h = h.Append(s, b)
	}
	return h
}

type recordedSleeps []time.Duration

func (r *recordedSleeps) sleep(_ context.Context, d time.Duration) error {
	*r = append(*r, d)
	return nil
}

func TestBeatLength(t *testing.T) {
	assert.Equal(t, time.Second, BeatLength(0))
	assert.Equal(t, 500*time.Millisecond, BeatLength(1))
	assert.Equal(t, time.Second, BeatLength(2))
}

func TestPlay(t *testing.T) {
	var buf bytes.Buffer
	var sleeps recordedSleeps
	p := New(&buf, lattice.New(), WithSleeper(sleeps.sleep), WithVelocity(64))

	h := voices(t, [2]string{"f4", "f3"}, [2]string{"e4", "c3"}, [2]string{"f4", "f3"})
	require.NoError(t, p.Play(context.Background(), h))

	// Three beats, two notes each, on and off, three bytes per message.
	assert.Equal(t, 3*2*2*3, buf.Len())
	assert.Equal(t, []byte{0x90, 65, 64, 0x90, 53, 64}, buf.Bytes()[:6])
	assert.Equal(t, recordedSleeps{time.Second, 500 * time.Millisecond, time.Second}, sleeps)

	for _, k := range []uint8{65, 53, 64, 48} {
		assert.False(t, p.wr.Sounding(k), "key %d still sounding", k)
	}
}

func TestPlayUnisonSoundsOnce(t *testing.T) {
	var buf bytes.Buffer
	var sleeps recordedSleeps
	p := New(&buf, lattice.New(), WithSleeper(sleeps.sleep))

	require.NoError(t, p.Play(context.Background(), voices(t, [2]string{"a3", "a3"})))
	assert.Equal(t, 2*3, buf.Len())
}

func TestPlayCancelled(t *testing.T) {
	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := New(&buf, lattice.New())
	err := p.Play(ctx, voices(t, [2]string{"f4", "f3"}, [2]string{"g4", "g3"}))
	assert.ErrorIs(t, err, context.Canceled)

	// The first beat is started and stopped, nothing after it.
	assert.Equal(t, 2*2*3, buf.Len())
	assert.False(t, p.wr.Sounding(65))
}

func TestPlayRejectsPitchOutsideLattice(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, lattice.New())

	h := types.VoiceHistory{
		Soprano: []types.Pitch{{Degree: types.Do, Octave: 9}},
		Bass:    []types.Pitch{{Degree: types.Do, Octave: 3}},
	}
	assert.ErrorIs(t, p.Play(context.Background(), h), lattice.ErrOutOfRange)
	assert.Zero(t, buf.Len())
}

func TestWriterRefusesDoubleNoteOn(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.NoteOn(60, 90))
	assert.Error(t, w.NoteOn(60, 90))
	require.NoError(t, w.NoteOff(60))
	assert.Error(t, w.NoteOff(60))
}

// flakyDevice accepts writes except the ones listed in fail.
type flakyDevice struct {
	bytes.Buffer
	writes int
	fail   map[int]bool
}

var errDeviceGone = errors.New("device gone")

func (d *flakyDevice) Write(p []byte) (int, error) {
	d.writes++
	if d.fail[d.writes] {
		return 0, errDeviceGone
	}
	return d.Buffer.Write(p)
}

func TestWriterKeepsStateOnFailedWrite(t *testing.T) {
	dev := &flakyDevice{fail: map[int]bool{1: true, 3: true}}
	w := NewWriter(dev)

	assert.ErrorIs(t, w.NoteOn(60, 90), errDeviceGone)
	assert.False(t, w.Sounding(60))

	require.NoError(t, w.NoteOn(60, 90))
	assert.ErrorIs(t, w.NoteOff(60), errDeviceGone)
	assert.True(t, w.Sounding(60))
}

func TestPlayStopsStartedNotesOnFailedNoteOn(t *testing.T) {
	dev := &flakyDevice{fail: map[int]bool{2: true}}
	var sleeps recordedSleeps
	p := New(dev, lattice.New(), WithSleeper(sleeps.sleep), WithVelocity(64))

	h := voices(t, [2]string{"f4", "f3"}, [2]string{"e4", "c3"})
	assert.ErrorIs(t, p.Play(context.Background(), h), errDeviceGone)

	assert.False(t, p.wr.Sounding(65))
	assert.False(t, p.wr.Sounding(53))
	assert.Empty(t, sleeps)

	// NoteOn f4, then the NoteOff that releases it.
	out := dev.Bytes()
	require.Len(t, out, 6)
	assert.Equal(t, []byte{0x90, 65, 64}, out[:3])
	assert.Equal(t, byte(0x80), out[3])
	assert.Equal(t, byte(65), out[4])
}
