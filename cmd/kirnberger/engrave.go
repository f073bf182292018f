// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/kirnberger/internal/archive"
	"github.com/pdiddy/kirnberger/internal/engrave"
	"github.com/pdiddy/kirnberger/internal/toolchain"
	"github.com/pdiddy/kirnberger/pkg/types"
)

var engraveCmd = &cobra.Command{
	Use:   "engrave [run-id]",
	Short: "Write a LilyPond score for a progression and render it",
	Long: `Engrave writes a two-staff piano score (3/4, F major, quarter = 120)
for an archived run, or for a freshly generated one when no run ID is given,
then runs LilyPond to produce the PDF and MIDI files. Use --source-only to
stop after writing the .ly file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEngrave,
}

func init() {
	engraveCmd.Flags().String("output-dir", "", "directory for .ly, .pdf, and .midi output (default \"output\")")
	engraveCmd.Flags().String("lilypond", "", "LilyPond binary (default \"lilypond\")")
	engraveCmd.Flags().Bool("source-only", false, "write the .ly file without running LilyPond")

	viper.BindPFlag("engrave.output_dir", engraveCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("engrave.lilypond", engraveCmd.Flags().Lookup("lilypond"))

	rootCmd.AddCommand(engraveCmd)
}

func runEngrave(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	sourceOnly, _ := cmd.Flags().GetBool("source-only")

	run, err := resolveRun(cfg, args)
	if err != nil {
		return err
	}

	out, err := engraveRun(cfg.Engrave, run, !sourceOnly, os.Stdout)
	if err != nil {
		return err
	}
	if out.MIDI != "" {
		fmt.Printf("Engraved %s and %s\n", out.PDF, out.MIDI)
	}
	return nil
}

// engraveRun writes the .ly source for run and, when render is set, runs
// LilyPond on it.
func engraveRun(cfg types.EngraveConfig, run types.Run, render bool, w io.Writer) (toolchain.Output, error) {
	outDir := cfg.OutputDir
	if outDir == "" {
		outDir = "output"
	}

	lyPath, err := engrave.WriteDocument(run.Progression.History, outDir, runName(run))
	if err != nil {
		return toolchain.Output{}, err
	}
	fmt.Fprintf(w, "Wrote %s\n", lyPath)
	if !render {
		return toolchain.Output{}, nil
	}

	lily := toolchain.NewLilyPond(cfg.LilyPond)
	if err := toolchain.Require(lily); err != nil {
		return toolchain.Output{}, err
	}
	return lily.Engrave(lyPath, outDir, w)
}

// resolveRun loads the archived run named by args[0], or generates a new
// run from the configuration when args is empty.
func resolveRun(cfg types.Config, args []string) (types.Run, error) {
	if len(args) == 0 {
		return generateRun(cfg.Generation, io.Discard)
	}

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return types.Run{}, fmt.Errorf("invalid run ID %q: %w", args[0], err)
	}

	store, err := archive.NewStore(cfg.Archive)
	if err != nil {
		return types.Run{}, err
	}
	defer store.Close()

	return store.Get(context.Background(), id)
}

func runName(run types.Run) string {
	if run.ID != 0 {
		return fmt.Sprintf("run-%d", run.ID)
	}
	return fmt.Sprintf("seed-%d", run.Seed)
}
