// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package toolchain

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool // "bin arg1 arg2" -> whether RunSilent succeeds
	runPipedFunc  func(name string, args []string, out io.Writer) error
	piped         [][]string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) RunPiped(name string, args []string, out io.Writer) error {
	m.piped = append(m.piped, append([]string{name}, args...))
	if m.runPipedFunc != nil {
		return m.runPipedFunc(name, args, out)
	}
	return nil
}

func TestAvailable(t *testing.T) {
	tests := []struct {
		name string
		exec *mockExecutor
		want bool
	}{
		{
			name: "binary present and responsive",
			exec: &mockExecutor{
				availableBins: map[string]bool{"lilypond": true},
				runnableCmds:  map[string]bool{"lilypond --version": true},
			},
			want: true,
		},
		{
			name: "binary missing",
			exec: &mockExecutor{},
			want: false,
		},
		{
			name: "binary present but broken",
			exec: &mockExecutor{availableBins: map[string]bool{"lilypond": true}},
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, newLilyPond("", tt.exec).Available())
		})
	}
}

func TestEngrave(t *testing.T) {
	m := &mockExecutor{
		runPipedFunc: func(_ string, _ []string, w io.Writer) error {
			_, err := io.WriteString(w, "Processing `run-3.ly'\n")
			return err
		},
	}
	var log bytes.Buffer
	out, err := newLilyPond("", m).Engrave(filepath.Join("src", "run-3.ly"), "scores", &log)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("scores", "run-3.pdf"), out.PDF)
	assert.Equal(t, filepath.Join("scores", "run-3.midi"), out.MIDI)
	require.Len(t, m.piped, 1)
	assert.Equal(t, []string{"lilypond", "--pdf", "--output=" + filepath.Join("scores", "run-3"), filepath.Join("src", "run-3.ly")}, m.piped[0])
	assert.Contains(t, log.String(), "Processing")
}

func TestEngraveFailure(t *testing.T) {
	m := &mockExecutor{
		runPipedFunc: func(string, []string, io.Writer) error {
			return errors.New("exit status 1")
		},
	}
	_, err := newLilyPond("/opt/lilypond/bin/lilypond", m).Engrave("x.ly", "out", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/opt/lilypond/bin/lilypond")
}

func TestFluidSynth(t *testing.T) {
	m := &mockExecutor{}
	f := newFluidSynth("", "piano.sf2", m)

	require.NoError(t, f.Play("run.midi", nil))
	require.NoError(t, f.Render("run.midi", "run.wav", nil))

	assert.Equal(t, [][]string{
		{"fluidsynth", "-ni", "piano.sf2", "run.midi"},
		{"fluidsynth", "-ni", "-F", "run.wav", "piano.sf2", "run.midi"},
	}, m.piped)
}

func TestFluidSynthRequiresSoundFont(t *testing.T) {
	m := &mockExecutor{}
	f := newFluidSynth("", "", m)

	assert.Error(t, f.Play("run.midi", nil))
	assert.Error(t, f.Render("run.midi", "run.wav", nil))
	assert.Empty(t, m.piped)
}

func TestRequire(t *testing.T) {
	m := &mockExecutor{
		availableBins: map[string]bool{"lilypond": true},
		runnableCmds:  map[string]bool{"lilypond --version": true},
	}

	assert.NoError(t, Require(newLilyPond("", m)))

	err := Require(newLilyPond("", m), newFluidSynth("", "a.sf2", m))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fluidsynth")
	assert.NotContains(t, err.Error(), "lilypond")
}
