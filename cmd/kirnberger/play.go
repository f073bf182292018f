// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/kirnberger/internal/lattice"
	"github.com/pdiddy/kirnberger/internal/perform"
	"github.com/pdiddy/kirnberger/internal/toolchain"
)

var playCmd = &cobra.Command{
	Use:   "play [run-id]",
	Short: "Play a progression through FluidSynth or a MIDI device",
	Long: `Play performs an archived run, or a freshly generated one when no run
ID is given.

With --device the notes are streamed in real time to a raw MIDI device (for
example /dev/snd/midiC1D0) or any writable file. Otherwise the score is
engraved and its MIDI file is played through FluidSynth with --soundfont;
--wav renders to an audio file instead of the sound card.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().String("device", "", "raw MIDI device or file to stream to")
	playCmd.Flags().String("soundfont", "", "SoundFont (.sf2) for FluidSynth")
	playCmd.Flags().String("fluidsynth", "", "FluidSynth binary (default \"fluidsynth\")")
	playCmd.Flags().String("wav", "", "render audio to this file instead of playing it")

	viper.BindPFlag("playback.device", playCmd.Flags().Lookup("device"))
	viper.BindPFlag("playback.soundfont", playCmd.Flags().Lookup("soundfont"))
	viper.BindPFlag("playback.fluidsynth", playCmd.Flags().Lookup("fluidsynth"))

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	wav, _ := cmd.Flags().GetString("wav")

	run, err := resolveRun(cfg, args)
	if err != nil {
		return err
	}

	if cfg.Playback.Device != "" {
		dev, err := os.OpenFile(cfg.Playback.Device, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("opening MIDI device: %w", err)
		}
		defer dev.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		fmt.Fprintf(os.Stderr, "streaming %d beats to %s\n", run.Progression.History.Len(), cfg.Playback.Device)
		return perform.New(dev, lattice.New()).Play(ctx, run.Progression.History)
	}

	synth := toolchain.NewFluidSynth(cfg.Playback.FluidSynth, cfg.Playback.SoundFont)
	if err := toolchain.Require(synth); err != nil {
		return err
	}

	out, err := engraveRun(cfg.Engrave, run, true, os.Stderr)
	if err != nil {
		return err
	}
	if wav != "" {
		if err := synth.Render(out.MIDI, wav, os.Stderr); err != nil {
			return err
		}
		fmt.Printf("Rendered %s\n", wav)
		return nil
	}
	return synth.Play(out.MIDI, os.Stderr)
}
