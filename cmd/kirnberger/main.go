// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the kirnberger CLI: generate two-voice
// progressions, archive them, engrave them with LilyPond, and play them back.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/kirnberger/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the kirnberger CLI.
var rootCmd = &cobra.Command{
	Use:   "kirnberger",
	Short: "Generate two-voice diatonic chord progressions",
	Long: `kirnberger generates soprano/bass chord progressions in F major by a
constrained random walk: each step draws a chord the harmonic grammar allows,
voices it every way the pitch space permits, and keeps one voicing that breaks
no voice-leading rule (parallel octaves or fifths, unresolved leading tones,
voice crossing).

Generated runs can be archived, engraved to a LilyPond score with MIDI, and
played through FluidSynth or streamed to a MIDI device.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./kirnberger.yaml or ~/.config/kirnberger/config.yaml)")
	rootCmd.PersistentFlags().String("archive-dir", "", "directory holding the progression archive (default \"archive\")")
	viper.BindPFlag("archive.dir", rootCmd.PersistentFlags().Lookup("archive-dir"))

	viper.SetDefault("generation.steps", 10)
	viper.SetDefault("generation.retries", 0)
	viper.SetDefault("engrave.output_dir", "output")
	viper.SetDefault("engrave.lilypond", "lilypond")
	viper.SetDefault("playback.fluidsynth", "fluidsynth")
	viper.SetDefault("archive.dir", "archive")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("kirnberger")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "kirnberger"))
		}
	}

	viper.SetEnvPrefix("KIRNBERGER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig collects the effective configuration from flags, environment,
// config file, and defaults.
func loadConfig() types.Config {
	archiveDir := viper.GetString("archive.dir")
	if archiveDir == "" {
		archiveDir = "archive"
	}
	return types.Config{
		Generation: types.GenerationConfig{
			Steps:   viper.GetInt("generation.steps"),
			Seed:    viper.GetInt64("generation.seed"),
			Retries: viper.GetInt("generation.retries"),
		},
		Engrave: types.EngraveConfig{
			OutputDir: viper.GetString("engrave.output_dir"),
			LilyPond:  viper.GetString("engrave.lilypond"),
		},
		Playback: types.PlaybackConfig{
			FluidSynth: viper.GetString("playback.fluidsynth"),
			SoundFont:  viper.GetString("playback.soundfont"),
			Device:     viper.GetString("playback.device"),
		},
		Archive: types.ArchiveConfig{Dir: archiveDir},
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
