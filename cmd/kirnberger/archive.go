// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/kirnberger/internal/archive"
	"github.com/pdiddy/kirnberger/pkg/types"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Manage archived progressions (list, show, export, delete)",
	Long: `Archive manages the local SQLite database of generated runs. Runs are
added with "generate --save".`,
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived runs, newest first",
	RunE:  runArchiveList,
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := archive.NewStore(loadConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}
	runs, err := store.List(context.Background(), opts)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(runs)
	}

	if len(runs) == 0 {
		fmt.Println("No runs archived.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-5s  %-20s  %-5s  %-20s  %s\n", "ID", "Seed", "Beats", "Created", "Chords")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 90))
	for _, r := range runs {
		chords := r.Chords
		if len(chords) > 36 {
			chords = chords[:33] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-5d  %-20d  %-5d  %-20s  %s\n",
			r.ID, r.Seed, r.Beats, r.CreatedAt.Format("2006-01-02 15:04:05"), chords)
	}
	fmt.Fprintf(os.Stdout, "\n%d runs\n", len(runs))
	return nil
}

// --- show subcommand ---

var archiveShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Print an archived run",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		run, err := resolveRun(loadConfig(), args)
		if err != nil {
			return err
		}
		return printRun(os.Stdout, run, format)
	},
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export archived runs to YAML or JSON",
	Long: `Export writes every archived run (or those matching --chord) to
export.yaml or export.json in the archive directory.`,
	RunE: runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := archive.NewStore(loadConfig().Archive)
	if err != nil {
		return err
	}
	defer store.Close()

	opts, err := listOptsFromFlags(cmd)
	if err != nil {
		return err
	}

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(context.Background(), opts)
	case "json":
		path, err = store.ExportJSON(context.Background(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- delete subcommand ---

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <run-id>",
	Short: "Remove a run from the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid run ID %q: %w", args[0], err)
		}
		store, err := archive.NewStore(loadConfig().Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(context.Background(), id); err != nil {
			return err
		}
		fmt.Printf("Deleted run %d\n", id)
		return nil
	},
}

// --- shared helpers ---

func listOptsFromFlags(cmd *cobra.Command) (archive.ListOptions, error) {
	chord, _ := cmd.Flags().GetString("chord")
	limit, _ := cmd.Flags().GetInt("limit")

	opts := archive.ListOptions{Limit: limit}
	if chord != "" {
		c, err := types.ParseChord(chord)
		if err != nil {
			return archive.ListOptions{}, err
		}
		opts.Chord = c
	}
	return opts, nil
}

func init() {
	archiveListCmd.Flags().String("chord", "", "only runs containing this chord: I, ii, IV, V, vii")
	archiveListCmd.Flags().Int("limit", 0, "maximum runs to list (0 = default of 20, -1 = all)")
	archiveListCmd.Flags().Bool("json", false, "output results as JSON")

	archiveShowCmd.Flags().String("format", "text", "output format: text, yaml, or json")

	archiveExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	archiveExportCmd.Flags().String("chord", "", "only export runs containing this chord")
	archiveExportCmd.Flags().Int("limit", 0, "maximum runs to export (0 = all)")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archiveExportCmd)
	archiveCmd.AddCommand(archiveDeleteCmd)

	rootCmd.AddCommand(archiveCmd)
}
