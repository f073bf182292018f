// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/kirnberger/pkg/types"
)

// ExportYAML writes every run matching opts to dir/export.yaml and returns the path.
func (s *Store) ExportYAML(ctx context.Context, opts ListOptions) (string, error) {
	runs, err := s.exportRuns(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(runs)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every run matching opts to dir/export.json and returns the path.
func (s *Store) ExportJSON(ctx context.Context, opts ListOptions) (string, error) {
	runs, err := s.exportRuns(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportRuns(ctx context.Context, opts ListOptions) ([]types.Run, error) {
	if opts.Limit == 0 {
		opts.Limit = -1
	}
	summaries, err := s.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	runs := make([]types.Run, 0, len(summaries))
	for _, sum := range summaries {
		run, err := s.Get(ctx, sum.ID)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, nil
}
