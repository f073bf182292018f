// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package toolchain runs the external programs a progression is handed to:
// LilyPond engraves the score and its MIDI file, FluidSynth plays or renders
// that MIDI file through a SoundFont.
package toolchain

import (
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
)

const (
	binLilyPond   = "lilypond"
	binFluidSynth = "fluidsynth"
)

// Tool is an external program on PATH.
type Tool interface {
	// Name returns the binary name.
	Name() string

	// Available reports whether the binary exists on PATH and responds to
	// a version query.
	Available() bool
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	RunPiped(name string, args []string, out io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) RunPiped(name string, args []string, out io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = out
	cmd.Stderr = out
	return cmd.Run()
}

var defaultExec = &osExecutor{}

// tool implements Tool for a binary that answers --version.
type tool struct {
	bin  string
	exec executor
}

func (t *tool) Name() string { return t.bin }

func (t *tool) Available() bool {
	if _, err := t.exec.LookPath(t.bin); err != nil {
		return false
	}
	return t.exec.RunSilent(t.bin, "--version") == nil
}

func (t *tool) run(args []string, w io.Writer) error {
	if w == nil {
		w = io.Discard
	}
	if err := t.exec.RunPiped(t.bin, args, w); err != nil {
		return fmt.Errorf("running %s %s: %w", t.bin, strings.Join(args, " "), err)
	}
	return nil
}

// LilyPond engraves .ly sources.
type LilyPond struct {
	tool
}

// NewLilyPond returns a LilyPond runner for bin, or "lilypond" when bin is empty.
func NewLilyPond(bin string) *LilyPond {
	return newLilyPond(bin, defaultExec)
}

func newLilyPond(bin string, exec executor) *LilyPond {
	if bin == "" {
		bin = binLilyPond
	}
	return &LilyPond{tool{bin: bin, exec: exec}}
}

// Output names the files one engraving run produces.
type Output struct {
	PDF  string
	MIDI string
}

// Engrave renders lyPath into outDir and returns the paths LilyPond writes
// for the score and its midi block. Tool output goes to w.
func (l *LilyPond) Engrave(lyPath, outDir string, w io.Writer) (Output, error) {
	base := strings.TrimSuffix(filepath.Base(lyPath), filepath.Ext(lyPath))
	prefix := filepath.Join(outDir, base)

	if err := l.run([]string{"--pdf", "--output=" + prefix, lyPath}, w); err != nil {
		return Output{}, err
	}
	return Output{PDF: prefix + ".pdf", MIDI: prefix + ".midi"}, nil
}

// FluidSynth plays MIDI files through a SoundFont.
type FluidSynth struct {
	tool
	soundFont string
}

// NewFluidSynth returns a FluidSynth runner using soundFont. bin defaults to
// "fluidsynth".
func NewFluidSynth(bin, soundFont string) *FluidSynth {
	return newFluidSynth(bin, soundFont, defaultExec)
}

func newFluidSynth(bin, soundFont string, exec executor) *FluidSynth {
	if bin == "" {
		bin = binFluidSynth
	}
	return &FluidSynth{tool: tool{bin: bin, exec: exec}, soundFont: soundFont}
}

// Play sends midiPath to the default audio driver and returns when playback ends.
func (f *FluidSynth) Play(midiPath string, w io.Writer) error {
	if f.soundFont == "" {
		return fmt.Errorf("playing %s: no soundfont configured", midiPath)
	}
	return f.run([]string{"-ni", f.soundFont, midiPath}, w)
}

// Render writes midiPath as audio to wavPath instead of playing it.
func (f *FluidSynth) Render(midiPath, wavPath string, w io.Writer) error {
	if f.soundFont == "" {
		return fmt.Errorf("rendering %s: no soundfont configured", midiPath)
	}
	return f.run([]string{"-ni", "-F", wavPath, f.soundFont, midiPath}, w)
}

// Require returns an error naming every tool that is not available.
func Require(tools ...Tool) error {
	var missing []string
	for _, t := range tools {
		if !t.Available() {
			missing = append(missing, t.Name())
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("required tools not available: %s", strings.Join(missing, ", "))
	}
	return nil
}
