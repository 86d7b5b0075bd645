// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/instruction-engine/internal/convert"
	"github.com/pdiddy/instruction-engine/internal/extract"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Convert one document and print its result record",
	Long: `Inspect parses a single document, runs the extraction, and prints the
result record (items, rule violations, score and penalties) without writing
anything to the output directory.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"legacy.enabled": "legacy",
		"legacy.image":   "legacy-image",
	}); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	format, _ := cmd.Flags().GetString("format")

	ctx := cmd.Context()
	path := args[0]
	reg := convert.StandardRegistry(ctx, cfg.Legacy, cmd.ErrOrStderr())
	p, err := reg.Lookup(path)
	if err != nil {
		return err
	}
	doc, err := p.Parse(ctx, path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	rec := convert.NewRecord(extract.Convert(doc, filepath.Base(path)), time.Now())
	out := cmd.OutOrStdout()
	switch format {
	case "json", "":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(rec); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q: use json or yaml", format)
	}
}

func init() {
	inspectCmd.Flags().String("format", "json", "output format: json or yaml")
	inspectCmd.Flags().Bool("legacy", false, "convert .doc files through a container runtime")
	inspectCmd.Flags().String("legacy-image", "", "converter image for .doc files")

	rootCmd.AddCommand(inspectCmd)
}
