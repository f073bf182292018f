// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/kirnberger/internal/archive"
	"github.com/pdiddy/kirnberger/internal/engrave"
	"github.com/pdiddy/kirnberger/internal/grammar"
	"github.com/pdiddy/kirnberger/internal/lattice"
	"github.com/pdiddy/kirnberger/internal/progression"
	"github.com/pdiddy/kirnberger/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a two-voice progression",
	Long: `Generate seeds a first measure on the tonic chord and extends it by
--steps further chords. The same --seed always yields the same progression.

A step can dead-end when every voicing of the drawn chord breaks a rule.
By default that fails the run; --retries allows a bounded number of redraws
per step.`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().Int("steps", 10, "extension steps after the first measure")
	generateCmd.Flags().Int64("seed", 0, "random seed (0 = derive from the clock)")
	generateCmd.Flags().Int("retries", 0, "redraws allowed per step that has no legal continuation")
	generateCmd.Flags().String("format", "text", "output format: text, yaml, or json")
	generateCmd.Flags().Bool("save", false, "store the run in the archive")
	generateCmd.Flags().Bool("verbose", false, "print each extension step")

	viper.BindPFlag("generation.steps", generateCmd.Flags().Lookup("steps"))
	viper.BindPFlag("generation.seed", generateCmd.Flags().Lookup("seed"))
	viper.BindPFlag("generation.retries", generateCmd.Flags().Lookup("retries"))

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	format, _ := cmd.Flags().GetString("format")
	save, _ := cmd.Flags().GetBool("save")
	verbose, _ := cmd.Flags().GetBool("verbose")

	var stepLog io.Writer = io.Discard
	if verbose {
		stepLog = os.Stderr
	}

	run, err := generateRun(cfg.Generation, stepLog)
	if err != nil {
		return err
	}

	if save {
		store, err := archive.NewStore(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()
		if err := store.Save(context.Background(), &run); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "archived run %d\n", run.ID)
	}

	return printRun(os.Stdout, run, format)
}

// generateRun builds the pitch space and grammar and runs the driver once.
func generateRun(cfg types.GenerationConfig, log io.Writer) (types.Run, error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	driver := progression.NewDriver(lattice.New(), grammar.New(), progression.NewRand(seed),
		progression.WithRetries(cfg.Retries),
		progression.WithLog(log),
	)
	p, err := driver.Generate(cfg.Steps)
	if err != nil {
		return types.Run{}, fmt.Errorf("generating with seed %d: %w", seed, err)
	}
	return types.Run{Seed: seed, Steps: cfg.Steps, Progression: p}, nil
}

func printRun(w io.Writer, run types.Run, format string) error {
	switch format {
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(run)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	case "text", "":
	default:
		return fmt.Errorf("unsupported format %q: use text, yaml, or json", format)
	}

	if run.ID != 0 {
		fmt.Fprintf(w, "run %d, ", run.ID)
	}
	fmt.Fprintf(w, "seed %d, %d steps\n\n", run.Seed, run.Steps)

	fmt.Fprintf(w, "%-4s  %-5s  %-7s  %s\n", "Beat", "Chord", "Soprano", "Bass")
	fmt.Fprintln(w, strings.Repeat("-", 28))

	h := run.Progression.History
	for i := 0; i < h.Len(); i++ {
		fmt.Fprintf(w, "%-4d  %-5s  %-7s  %s\n", i, run.Progression.Chords[i], h.Soprano[i], h.Bass[i])
	}

	s, b := engrave.Strings(h)
	fmt.Fprintf(w, "\nsoprano: %s\nbass:    %s\n", s, b)
	return nil
}
