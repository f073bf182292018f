// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lattice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/kirnberger/pkg/types"
)

func TestNewSpansLowToHigh(t *testing.T) {
	l := New()
	pitches := l.Pitches()

	require.Len(t, pitches, 22)
	assert.Equal(t, Low, pitches[0])
	assert.Equal(t, High, pitches[len(pitches)-1])

	top, err := l.Distance(High)
	require.NoError(t, err)
	assert.Equal(t, 36, top)
}

func TestNewStepPattern(t *testing.T) {
	l := New()
	pitches := l.Pitches()

	// Whole-whole-half-whole-whole-whole-half from the tonic.
	pattern := []int{2, 2, 1, 2, 2, 2, 1}
	for i := 1; i < len(pitches); i++ {
		prev, err := l.Distance(pitches[i-1])
		require.NoError(t, err)
		cur, err := l.Distance(pitches[i])
		require.NoError(t, err)

		assert.Greater(t, cur, prev, "%s -> %s", pitches[i-1], pitches[i])
		assert.Equal(t, pattern[(i-1)%7], cur-prev, "%s -> %s", pitches[i-1], pitches[i])
		assert.Equal(t, pitches[i-1].Degree.Next(), pitches[i].Degree)
	}
}

func TestNewTonicCycles(t *testing.T) {
	l := New()
	tonics := l.ByDegree(types.Tonic)

	require.Len(t, tonics, 4)
	for i, p := range tonics {
		d, err := l.Distance(p)
		require.NoError(t, err)
		assert.Equal(t, 12*i, d)
	}

	// Every degree appears in each of the three spanned cycles.
	for _, d := range types.Degrees {
		assert.GreaterOrEqual(t, len(l.ByDegree(d)), 3, "degree %s", d)
	}
}

func TestNewOctaveSpelling(t *testing.T) {
	l := New()
	names := make([]string, 0, 22)
	for _, p := range l.Pitches() {
		names = append(names, p.String())
	}

	assert.Equal(t, []string{
		"f2", "g2", "a2", "bf2", "c3", "d3", "e3",
		"f3", "g3", "a3", "bf3", "c4", "d4", "e4",
		"f4", "g4", "a4", "bf4", "c5", "d5", "e5",
		"f5",
	}, names)
}

func TestDistanceOutOfRange(t *testing.T) {
	l := New()

	tests := []types.Pitch{
		{Degree: types.Ti, Octave: 2},
		{Degree: types.Re, Octave: 5},
		{Degree: types.Do, Octave: 6},
	}
	for _, p := range tests {
		t.Run(p.String(), func(t *testing.T) {
			_, err := l.Distance(p)
			assert.ErrorIs(t, err, ErrOutOfRange)
			assert.False(t, l.Contains(p))
		})
	}
}

func TestMIDIKey(t *testing.T) {
	l := New()

	key, err := l.MIDIKey(Low)
	require.NoError(t, err)
	assert.Equal(t, uint8(41), key)

	key, err = l.MIDIKey(types.Pitch{Degree: types.Sol, Octave: 4})
	require.NoError(t, err)
	assert.Equal(t, uint8(60), key, "c4 is middle C")
}

func TestByDegreeReturnsCopy(t *testing.T) {
	l := New()
	got := l.ByDegree(types.Do)
	got[0] = types.Pitch{Degree: types.Ti, Octave: 9}

	assert.Equal(t, Low, l.ByDegree(types.Do)[0])
}
