package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePitch(t *testing.T) {
	tests := []struct {
		in      string
		want    Pitch
		wantErr bool
	}{
		{in: "f3", want: Pitch{Degree: Do, Octave: 3}},
		{in: "bf2", want: Pitch{Degree: Fa, Octave: 2}},
		{in: "e5", want: Pitch{Degree: Ti, Octave: 5}},
		{in: "c4", want: Pitch{Degree: Sol, Octave: 4}},
		{in: "b3", wantErr: true},
		{in: "f", wantErr: true},
		{in: "3", wantErr: true},
		{in: "fx", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePitch(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.in, got.String())
		})
	}
}

func TestParseDegree(t *testing.T) {
	for _, d := range Degrees {
		got, err := ParseDegree(d.String())
		require.NoError(t, err)
		assert.Equal(t, d, got)

		got, err = ParseDegree(d.Spelling())
		require.NoError(t, err)
		assert.Equal(t, d, got)
	}
	_, err := ParseDegree("Si")
	assert.Error(t, err)
}

func TestDegreeNextWraps(t *testing.T) {
	assert.Equal(t, Re, Do.Next())
	assert.Equal(t, Do, Ti.Next())
}

func TestPitchJSON(t *testing.T) {
	data, err := json.Marshal([]Pitch{{Degree: Fa, Octave: 4}})
	require.NoError(t, err)
	assert.JSONEq(t, `["bf4"]`, string(data))

	var back []Pitch
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, []Pitch{{Degree: Fa, Octave: 4}}, back)
}

func TestChordMembers(t *testing.T) {
	assert.Equal(t, []ScaleDegree{Sol, Ti, Re}, ChordV.Members())
	assert.Equal(t, []ScaleDegree{Ti, Re, Fa}, ChordVII.Members())
	for _, c := range Chords {
		assert.Len(t, c.Members(), 3, c)
	}
	assert.Nil(t, Chord("iii").Members())

	_, err := ParseChord("vi")
	assert.Error(t, err)
}

func TestVoiceHistoryAppend(t *testing.T) {
	var h VoiceHistory
	_, _, ok := h.Last()
	assert.False(t, ok)

	a := h.Append(Pitch{Degree: Mi, Octave: 4}, Pitch{Degree: Do, Octave: 3})
	b := a.Append(Pitch{Degree: Fa, Octave: 4}, Pitch{Degree: Re, Octave: 3})
	c := a.Append(Pitch{Degree: Sol, Octave: 4}, Pitch{Degree: Mi, Octave: 3})

	assert.Equal(t, 1, a.Len())
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, Pitch{Degree: Fa, Octave: 4}, b.Soprano[1], "appending to a must not alias b")
	assert.Equal(t, Pitch{Degree: Sol, Octave: 4}, c.Soprano[1])

	s, bass, ok := b.Last()
	require.True(t, ok)
	assert.Equal(t, "bf4", s.String())
	assert.Equal(t, "g3", bass.String())
}
