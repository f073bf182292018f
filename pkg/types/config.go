package types

// GenerationConfig holds settings for the progression generator.
type GenerationConfig struct {
	// Steps is the number of extension steps after the first measure (default 10).
	Steps int `json:"steps" yaml:"steps"`

	// Seed drives every random choice. Zero means seed from the clock.
	Seed int64 `json:"seed" yaml:"seed"`

	// Retries is how many times a step that has no legal continuation is
	// redrawn before the run fails (default 0: fail on the first dead end).
	Retries int `json:"retries" yaml:"retries"`
}

// EngraveConfig holds settings for score engraving.
type EngraveConfig struct {
	// OutputDir receives the .ly source and whatever LilyPond renders from it.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// LilyPond is the engraver binary (default "lilypond").
	LilyPond string `json:"lilypond" yaml:"lilypond"`
}

// PlaybackConfig holds settings for MIDI and audio playback.
type PlaybackConfig struct {
	// FluidSynth is the synthesizer binary (default "fluidsynth").
	FluidSynth string `json:"fluidsynth" yaml:"fluidsynth"`

	// SoundFont is the .sf2 file the synthesizer renders with.
	SoundFont string `json:"soundfont" yaml:"soundfont"`

	// Device is the raw MIDI device or file the performance stream writes to.
	Device string `json:"device" yaml:"device"`
}

// ArchiveConfig holds settings for the progression archive.
type ArchiveConfig struct {
	// Dir contains the SQLite database (default "archive").
	Dir string `json:"dir" yaml:"dir"`
}

// Config groups all stage configurations.
type Config struct {
	Generation GenerationConfig `json:"generation" yaml:"generation"`
	Engrave    EngraveConfig    `json:"engrave" yaml:"engrave"`
	Playback   PlaybackConfig   `json:"playback" yaml:"playback"`
	Archive    ArchiveConfig    `json:"archive" yaml:"archive"`
}
