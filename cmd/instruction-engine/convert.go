// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/instruction-engine/internal/convert"
	"github.com/pdiddy/instruction-engine/internal/report"
	"github.com/pdiddy/instruction-engine/internal/store"
)

var convertCmd = &cobra.Command{
	Use:   "convert [files...]",
	Short: "Convert a directory of Word documents into work instructions",
	Long: `Convert scans the input directory (top level only) for .docx files, and
.doc files when --legacy is set, extracts the work instructions of each, and
files the result under the output directory:

  <output-dir>/Success/<name>.result.json
  <output-dir>/SuccessWithWarnings/<name>.result.json
  <output-dir>/Aborted/<name>.result.json

Pass files as arguments to convert only those. A document that cannot be
parsed is reported and skipped; the command then exits non-zero. Aborted
conversions are an outcome, not a failure.`,
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	if err := bindFlags(cmd, map[string]string{
		"batch.input_dir":  "input-dir",
		"batch.output_dir": "output-dir",
		"batch.workers":    "workers",
		"batch.timeout":    "timeout",
		"legacy.enabled":   "legacy",
		"legacy.image":     "legacy-image",
		"store.dir":        "store",
		"report.dir":       "report-dir",
		"report.formats":   "report-format",
	}); err != nil {
		return err
	}
	if cmd.Flags().Changed("no-copy") {
		noCopy, _ := cmd.Flags().GetBool("no-copy")
		viper.Set("batch.copy_originals", !noCopy)
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	reg := convert.StandardRegistry(ctx, cfg.Legacy, cmd.ErrOrStderr())

	paths := args
	if len(paths) == 0 {
		paths, err = reg.Discover(cfg.Batch.InputDir)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			fmt.Fprintf(out, "No documents (%v) found in %s\n", reg.Extensions(), cfg.Batch.InputDir)
			return nil
		}
	}

	var sink convert.ResultSink
	if cfg.Store.Dir != "" {
		st, err := store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		sink = st
	}

	batch := convert.ConvertBatch(ctx, reg, paths, cfg.Batch, sink, out)

	if cfg.Report.Dir != "" {
		files, err := report.Write(cfg.Report.Dir, cfg.Report.Formats, report.Build(batch.Results, batch.Errors))
		if err != nil {
			return err
		}
		for _, f := range files {
			fmt.Fprintf(out, "Report written: %s\n", f)
		}
	}

	if batch.HasFailures() {
		return fmt.Errorf("%d document(s) failed", len(batch.Errors))
	}
	return nil
}

func init() {
	convertCmd.Flags().String("input-dir", "documents", "directory scanned for documents")
	convertCmd.Flags().String("output-dir", "output", "directory receiving the outcome subdirectories")
	convertCmd.Flags().Int("workers", 0, "documents converted in parallel (0 = number of CPUs)")
	convertCmd.Flags().Duration("timeout", 0, "time limit for parsing one document (0 = 2m)")
	convertCmd.Flags().Bool("no-copy", false, "do not copy source documents next to their results")
	convertCmd.Flags().String("store", "", "index results in <dir>/results.db")
	convertCmd.Flags().String("report-dir", "", "write a batch report into this directory")
	convertCmd.Flags().StringSlice("report-format", nil, "report formats: md, html, xlsx (default md)")
	convertCmd.Flags().Bool("legacy", false, "convert .doc files through a container runtime")
	convertCmd.Flags().String("legacy-image", "", "converter image for .doc files (default instruction-engine/soffice:latest)")

	rootCmd.AddCommand(convertCmd)
}
