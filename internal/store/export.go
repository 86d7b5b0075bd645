// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

// ExportEntry is a stored result together with its outcome.
type ExportEntry struct {
	Outcome                types.Outcome `json:"outcome" yaml:"outcome"`
	types.ConversionResult `yaml:",inline"`
}

const exportLimit = 100000

// ExportYAML writes the results matching q to w as a YAML sequence.
func (s *Store) ExportYAML(ctx context.Context, q Query, w io.Writer) error {
	entries, err := s.exportEntries(ctx, q)
	if err != nil {
		return err
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return enc.Close()
}

// ExportJSON writes the results matching q to w as an indented JSON array.
func (s *Store) ExportJSON(ctx context.Context, q Query, w io.Writer) error {
	entries, err := s.exportEntries(ctx, q)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(entries); err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return nil
}

func (s *Store) exportEntries(ctx context.Context, q Query) ([]ExportEntry, error) {
	if q.Limit <= 0 {
		q.Limit = exportLimit
	}
	list, err := s.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	entries := make([]ExportEntry, 0, len(list))
	for _, e := range list {
		result, err := s.Load(ctx, e.Filename)
		if err != nil {
			return nil, fmt.Errorf("loading %s for export: %w", e.Filename, err)
		}
		entries = append(entries, ExportEntry{Outcome: e.Outcome, ConversionResult: result})
	}
	return entries, nil
}
