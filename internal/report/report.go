// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package report summarises a batch of conversion results as Markdown,
// HTML, or an Excel workbook.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

// Report file formats.
const (
	FormatMarkdown = "md"
	FormatHTML     = "html"
	FormatXLSX     = "xlsx"
)

const baseName = "report"

// Document is one row of the per-document table.
type Document struct {
	Filename   string
	Outcome    types.Outcome
	Score      int
	Items      int
	Violations []string
	Penalties  []string
}

// Violation is one rule violation attributed to its document.
type Violation struct {
	Filename string
	Rule     string
	Message  string
	Critical bool
}

// RuleCount is the number of documents violating a rule.
type RuleCount struct {
	Rule  string
	Count int
}

// Summary aggregates a batch.
type Summary struct {
	GeneratedAt time.Time

	Total    int
	Counts   map[types.Outcome]int
	AvgScore float64

	Documents  []Document
	Violations []Violation
	Rules      []RuleCount

	// Errors lists documents that failed before producing a result.
	Errors []string
}

// Outcomes is the display order of outcome counts.
var Outcomes = []types.Outcome{
	types.OutcomeSuccess,
	types.OutcomeSuccessWithWarnings,
	types.OutcomeAborted,
	types.OutcomeFailed,
}

// Build aggregates results and the batch error messages.
func Build(results []types.ConversionResult, errs []string) Summary {
	s := Summary{
		GeneratedAt: time.Now().UTC(),
		Total:       len(results) + len(errs),
		Counts:      make(map[types.Outcome]int, len(Outcomes)),
		Errors:      errs,
	}
	s.Counts[types.OutcomeFailed] = len(errs)

	rules := make(map[string]int)
	scoreSum := 0
	for _, r := range results {
		outcome := r.Outcome()
		s.Counts[outcome]++
		scoreSum += r.ConversionScore

		doc := Document{
			Filename: r.Filename,
			Outcome:  outcome,
			Score:    r.ConversionScore,
			Items:    len(r.WorkInstructions.Items),
		}
		seen := make(map[string]bool)
		for _, v := range r.RuleViolations {
			doc.Violations = append(doc.Violations, v.Rule+": "+v.Message)
			s.Violations = append(s.Violations, Violation{
				Filename: r.Filename,
				Rule:     v.Rule,
				Message:  v.Message,
				Critical: v.Critical,
			})
			if !seen[v.Rule] {
				seen[v.Rule] = true
				rules[v.Rule]++
			}
		}
		for _, p := range r.Penalties {
			doc.Penalties = append(doc.Penalties, fmt.Sprintf("-%d %s", p.Points, p.Reason))
		}
		s.Documents = append(s.Documents, doc)
	}
	if len(results) > 0 {
		s.AvgScore = float64(scoreSum) / float64(len(results))
	}

	for rule, n := range rules {
		s.Rules = append(s.Rules, RuleCount{Rule: rule, Count: n})
	}
	sort.Slice(s.Rules, func(i, j int) bool {
		if s.Rules[i].Count != s.Rules[j].Count {
			return s.Rules[i].Count > s.Rules[j].Count
		}
		return s.Rules[i].Rule < s.Rules[j].Rule
	})
	return s
}

// Write renders s in each of formats into dir and returns the files
// written.
func Write(dir string, formats []string, s Summary) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating report directory: %w", err)
	}

	var written []string
	for _, format := range formats {
		format = strings.ToLower(strings.TrimPrefix(format, "."))
		path := filepath.Join(dir, baseName+"."+format)

		f, err := os.Create(path)
		if err != nil {
			return written, fmt.Errorf("creating %s: %w", path, err)
		}
		switch format {
		case FormatMarkdown:
			err = WriteMarkdown(f, s)
		case FormatHTML:
			err = WriteHTML(f, s)
		case FormatXLSX:
			err = WriteXLSX(f, s)
		default:
			err = fmt.Errorf("unknown report format %q", format)
		}
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			os.Remove(path)
			return written, fmt.Errorf("writing %s report: %w", format, err)
		}
		written = append(written, path)
	}
	return written, nil
}
