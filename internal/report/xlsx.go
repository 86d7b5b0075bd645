// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the workbook.
const (
	SheetSummary    = "Summary"
	SheetDocuments  = "Documents"
	SheetViolations = "Violations"
)

// WriteXLSX writes s as a workbook with a summary sheet, one row per
// document, and one row per rule violation.
func WriteXLSX(w io.Writer, s Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetSummary); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}
	for _, name := range []string{SheetDocuments, SheetViolations} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("creating sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	summary := [][]any{
		{"Generated", s.GeneratedAt.Format(time.RFC3339)},
		{"Documents", s.Total},
		{"Average score", s.AvgScore},
		{},
		{"Outcome", "Documents"},
	}
	for _, o := range Outcomes {
		summary = append(summary, []any{string(o), s.Counts[o]})
	}
	if err := writeRows(f, SheetSummary, summary); err != nil {
		return err
	}
	if err := f.SetCellStyle(SheetSummary, "A5", "B5", header); err != nil {
		return err
	}

	docs := [][]any{{"Document", "Outcome", "Score", "Items", "Violations", "Penalties"}}
	for _, d := range s.Documents {
		docs = append(docs, []any{
			d.Filename, string(d.Outcome), d.Score, d.Items,
			strings.Join(d.Violations, "\n"), strings.Join(d.Penalties, "\n"),
		})
	}
	if err := writeRows(f, SheetDocuments, docs); err != nil {
		return err
	}

	violations := [][]any{{"Document", "Rule", "Message", "Critical"}}
	for _, v := range s.Violations {
		violations = append(violations, []any{v.Filename, v.Rule, v.Message, v.Critical})
	}
	if err := writeRows(f, SheetViolations, violations); err != nil {
		return err
	}

	for _, sheet := range []string{SheetDocuments, SheetViolations} {
		if err := f.SetCellStyle(sheet, "A1", "F1", header); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("writing %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
