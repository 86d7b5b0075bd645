// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/instruction-engine/internal/store"
	"github.com/pdiddy/instruction-engine/pkg/types"
)

var resultsCmd = &cobra.Command{
	Use:   "results",
	Short: "Query the result index (list, items, export)",
	Long: `Results reads the SQLite index written by "convert --store". Use
subcommands to list conversions, show the items of one document, or export
results to YAML or JSON.`,
}

// --- list subcommand ---

var resultsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List indexed conversions with optional filters",
	RunE:  runResultsList,
}

func runResultsList(cmd *cobra.Command, args []string) error {
	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	entries, err := st.List(cmd.Context(), queryFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatList(cmd.OutOrStdout(), entries, jsonOutput)
}

func formatList(w io.Writer, entries []store.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}

	fmt.Fprintf(w, "%-40s  %-19s  %5s  %5s  %s\n", "Document", "Outcome", "Score", "Items", "Violations")
	fmt.Fprintln(w, strings.Repeat("-", 86))
	for _, e := range entries {
		name := truncate(e.Filename, 40)
		fmt.Fprintf(w, "%-40s  %-19s  %5d  %5d  %d\n", name, e.Outcome, e.Score, e.Items, e.Violations)
	}
	fmt.Fprintf(w, "\n%d results\n", len(entries))
	return nil
}

// --- items subcommand ---

var resultsItemsCmd = &cobra.Command{
	Use:   "items <document>",
	Short: "Print the work instruction items of one indexed document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		result, err := st.Load(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		w := cmd.OutOrStdout()
		fmt.Fprintf(w, "%s: %s, score %d\n", result.Filename, result.Outcome(), result.ConversionScore)
		for _, v := range result.RuleViolations {
			fmt.Fprintf(w, "  violation: %s: %s\n", v.Rule, v.Message)
		}
		group := ""
		for i, it := range result.WorkInstructions.Items {
			if it.GroupName != group {
				group = it.GroupName
				fmt.Fprintf(w, "[%s]\n", group)
			}
			fmt.Fprintf(w, "%3d. %s\n", i+1, truncate(it.Text, 70))
		}
		return nil
	},
}

// --- export subcommand ---

var resultsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export indexed results to YAML or JSON",
	Long: `Export writes the full results (items, violations, penalties) of all
indexed conversions, or a filtered subset, to stdout or --out.`,
	RunE: runResultsExport,
}

func runResultsExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	outPath, _ := cmd.Flags().GetString("out")

	st, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	w := cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", outPath, err)
		}
		defer f.Close()
		w = f
	}

	q := queryFromFlags(cmd)
	switch format {
	case "yaml", "":
		err = st.ExportYAML(cmd.Context(), q, w)
	case "json":
		err = st.ExportJSON(cmd.Context(), q, w)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Exported to %s\n", outPath)
	}
	return nil
}

// --- shared helpers ---

// truncate shortens s to at most limit runes, ending in "..." when cut.
func truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit-3]) + "..."
}

func openStore(cmd *cobra.Command) (*store.Store, error) {
	if err := bindFlags(cmd, map[string]string{"store.dir": "store"}); err != nil {
		return nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Store.Dir == "" {
		return nil, fmt.Errorf("no result index configured: pass --store or set store.dir")
	}
	return store.Open(cfg.Store)
}

func queryFromFlags(cmd *cobra.Command) store.Query {
	outcome, _ := cmd.Flags().GetString("outcome")
	rule, _ := cmd.Flags().GetString("rule")
	text, _ := cmd.Flags().GetString("text")
	limit, _ := cmd.Flags().GetInt("limit")

	q := store.Query{
		Outcome: types.Outcome(outcome),
		Rule:    rule,
		Text:    text,
		Limit:   limit,
	}
	if cmd.Flags().Changed("min-score") {
		v, _ := cmd.Flags().GetInt("min-score")
		q.MinScore = &v
	}
	if cmd.Flags().Changed("max-score") {
		v, _ := cmd.Flags().GetInt("max-score")
		q.MaxScore = &v
	}
	return q
}

func addQueryFlags(cmd *cobra.Command) {
	cmd.Flags().String("outcome", "", "filter by outcome: Success, SuccessWithWarnings, Aborted")
	cmd.Flags().String("rule", "", "filter by violated rule")
	cmd.Flags().Int("min-score", 0, "minimum conversion score")
	cmd.Flags().Int("max-score", 0, "maximum conversion score")
	cmd.Flags().String("text", "", "filter by item text substring")
	cmd.Flags().Int("limit", 0, "maximum results (0 = default)")
}

func init() {
	// Shared flag on the parent command, inherited by subcommands.
	resultsCmd.PersistentFlags().String("store", "", "directory holding results.db")

	addQueryFlags(resultsListCmd)
	resultsListCmd.Flags().Bool("json", false, "output results as JSON")

	addQueryFlags(resultsExportCmd)
	resultsExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	resultsExportCmd.Flags().String("out", "", "write the export to this file instead of stdout")

	resultsCmd.AddCommand(resultsListCmd)
	resultsCmd.AddCommand(resultsItemsCmd)
	resultsCmd.AddCommand(resultsExportCmd)

	rootCmd.AddCommand(resultsCmd)
}
