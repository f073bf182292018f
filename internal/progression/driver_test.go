// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package progression

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/kirnberger/internal/grammar"
	"github.com/pdiddy/kirnberger/internal/lattice"
	"github.com/pdiddy/kirnberger/internal/rules"
	"github.com/pdiddy/kirnberger/pkg/types"
)

func newDriver(seed int64, opts ...Option) *Driver {
	return NewDriver(lattice.New(), grammar.New(), NewRand(seed), opts...)
}

// checkProgression asserts every structural and voice-leading property of p.
func checkProgression(t *testing.T, p types.Progression, steps int) {
	t.Helper()
	lat, g := lattice.New(), grammar.New()
	h := p.History

	require.Equal(t, steps+2, len(h.Soprano))
	require.Equal(t, steps+2, len(h.Bass))
	require.Equal(t, steps+2, len(p.Chords))

	assert.Equal(t, types.ChordI, p.Chords[0])
	assert.Equal(t, BassSeed, h.Bass[0])

	for i := 1; i < h.Len(); i++ {
		assert.True(t, g.Allows(p.Chords[i-1], p.Chords[i]), "beat %d: %s -> %s", i, p.Chords[i-1], p.Chords[i])
		assert.True(t, contains(p.Chords[i].Members(), h.Soprano[i].Degree), "beat %d soprano", i)
		assert.True(t, contains(p.Chords[i].Members(), h.Bass[i].Degree), "beat %d bass", i)

		w, err := rules.NewWindow(lat,
			[2]types.Pitch{h.Soprano[i-1], h.Soprano[i]},
			[2]types.Pitch{h.Bass[i-1], h.Bass[i]},
		)
		require.NoError(t, err)
		assert.Empty(t, rules.Violations(w), "beat %d", i)
	}
}

func TestGenerateFirstMeasureOnly(t *testing.T) {
	seeds := map[string]bool{"f4": true, "a4": true, "c4": true}

	for seed := int64(1); seed <= 20; seed++ {
		p, err := newDriver(seed, WithRetries(100)).Generate(0)
		require.NoError(t, err, "seed %d", seed)

		checkProgression(t, p, 0)
		assert.True(t, seeds[p.History.Soprano[0].String()], "soprano seed %s", p.History.Soprano[0])
	}
}

func TestGenerateLength(t *testing.T) {
	for _, steps := range []int{1, 5, 10, 32} {
		var ok int
		for seed := int64(1); seed <= 10; seed++ {
			p, err := newDriver(seed, WithRetries(100)).Generate(steps)
			if err != nil {
				assert.ErrorIs(t, err, ErrNoLegalContinuation)
				continue
			}
			ok++
			checkProgression(t, p, steps)
		}
		assert.Positive(t, ok, "steps %d: no seed completed", steps)
	}
}

func TestGenerateReproducible(t *testing.T) {
	for seed := int64(1); seed <= 5; seed++ {
		p1, err1 := newDriver(seed, WithRetries(10)).Generate(16)
		p2, err2 := newDriver(seed, WithRetries(10)).Generate(16)

		assert.Equal(t, err1, err2)
		assert.Equal(t, p1, p2)
	}
}

func TestGenerateInvalidStepCount(t *testing.T) {
	_, err := newDriver(1).Generate(-1)
	assert.ErrorIs(t, err, ErrInvalidStepCount)
}

func TestGenerateLogsSteps(t *testing.T) {
	var buf bytes.Buffer
	_, err := newDriver(4, WithRetries(100), WithLog(&buf)).Generate(3)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var steps []string
	for _, l := range lines {
		if !strings.Contains(l, "retrying") {
			steps = append(steps, l)
		}
	}
	require.Len(t, steps, 4)
	assert.True(t, strings.HasPrefix(steps[0], "step 0: I -> "), steps[0])
	assert.True(t, strings.HasPrefix(steps[3], "step 3: "), steps[3])
}

func TestStepRetriesAreBounded(t *testing.T) {
	var buf bytes.Buffer
	d := newDriver(9, WithRetries(3), WithLog(&buf))
	h := history(t, "f2", "f5")

	_, out, err := d.step(0, types.ChordI, h)
	assert.ErrorIs(t, err, ErrNoLegalContinuation)
	assert.Equal(t, h, out)
	assert.Equal(t, 3, strings.Count(buf.String(), "retrying"))
}

func TestStepWithoutRetriesFailsImmediately(t *testing.T) {
	var buf bytes.Buffer
	d := newDriver(9, WithLog(&buf))

	_, _, err := d.step(0, types.ChordV, history(t, "f2", "f5"))
	assert.ErrorIs(t, err, ErrNoLegalContinuation)
	assert.Empty(t, buf.String())
}
