// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

func sampleResults() []types.ConversionResult {
	ok := types.ConversionResult{
		Filename:        "pump.docx",
		ConversionScore: 30,
		Penalties: []types.Penalty{
			{Reason: "document has images", Points: 20},
			{Reason: "manual numbering fallback", Points: 50},
		},
		WorkInstructions: types.WorkInstruction{
			Items:          []types.WorkInstructionTextItem{{ID: "1", Text: "Isolate"}, {ID: "2", Text: "Drain"}},
			SourceFilename: "pump.docx",
		},
	}
	memo := types.ConversionResult{Filename: "memo|v2.docx", ConversionScore: 100}
	memo.AddRuleViolation("Tables Required", true, "This document contains no tables to process")
	blank := types.ConversionResult{Filename: "blank.docx", ConversionScore: 100}
	blank.AddRuleViolation("HasInstuctions", true, "Must contain instructions")
	blank2 := types.ConversionResult{Filename: "blank2.docx", ConversionScore: 80}
	blank2.AddRuleViolation("HasInstuctions", true, "Instructions found but they had no value")
	return []types.ConversionResult{ok, memo, blank, blank2}
}

func TestBuild(t *testing.T) {
	s := Build(sampleResults(), []string{"Error processing filename 'x.doc': boom"})

	assert.Equal(t, 5, s.Total)
	assert.Equal(t, 1, s.Counts[types.OutcomeSuccess])
	assert.Equal(t, 0, s.Counts[types.OutcomeSuccessWithWarnings])
	assert.Equal(t, 3, s.Counts[types.OutcomeAborted])
	assert.Equal(t, 1, s.Counts[types.OutcomeFailed])
	assert.InDelta(t, 77.5, s.AvgScore, 0.001)

	require.Len(t, s.Documents, 4)
	assert.Equal(t, []string{"-20 document has images", "-50 manual numbering fallback"}, s.Documents[0].Penalties)
	assert.Equal(t, 2, s.Documents[0].Items)
	assert.Len(t, s.Violations, 3)
	assert.Equal(t, []RuleCount{{Rule: "HasInstuctions", Count: 2}, {Rule: "Tables Required", Count: 1}}, s.Rules)
}

func TestBuild_Empty(t *testing.T) {
	s := Build(nil, nil)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.AvgScore)
	assert.Empty(t, s.Documents)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, Build(sampleResults(), []string{"boom"})))
	out := buf.String()

	assert.Contains(t, out, "# Work instruction conversion report")
	assert.Contains(t, out, "| Aborted | 3 |")
	assert.Contains(t, out, "| pump.docx | Success | 30 | 2 |")
	assert.Contains(t, out, `memo\|v2.docx`)
	assert.Contains(t, out, "| HasInstuctions | 2 |")
	assert.Contains(t, out, "## Errors\n\n- boom\n")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, Build(sampleResults(), nil)))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<h1>Work instruction conversion report</h1>")
	assert.Contains(t, out, "<table>")
	assert.Contains(t, out, "<td>pump.docx</td>")
	assert.Contains(t, out, "memo|v2.docx")
	assert.NotContains(t, out, "## Errors")
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, Build(sampleResults(), nil)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetDocuments, SheetViolations}, f.GetSheetList())

	docs, err := f.GetRows(SheetDocuments)
	require.NoError(t, err)
	require.Len(t, docs, 5)
	assert.Equal(t, []string{"Document", "Outcome", "Score", "Items", "Violations", "Penalties"}, docs[0])
	assert.Equal(t, []string{"pump.docx", "Success", "30", "2", "", "-20 document has images\n-50 manual numbering fallback"}, docs[1])

	violations, err := f.GetRows(SheetViolations)
	require.NoError(t, err)
	require.Len(t, violations, 4)
	assert.Equal(t, []string{"memo|v2.docx", "Tables Required", "This document contains no tables to process", "TRUE"}, violations[1])

	aborted, err := f.GetCellValue(SheetSummary, "B8")
	require.NoError(t, err)
	assert.Equal(t, "3", aborted)
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")
	files, err := Write(dir, []string{"md", ".HTML", "xlsx"}, Build(sampleResults(), nil))
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "report.md"),
		filepath.Join(dir, "report.html"),
		filepath.Join(dir, "report.xlsx"),
	}, files)
	for _, f := range files {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	_, err = Write(dir, []string{"pdf"}, Build(nil, nil))
	assert.ErrorContains(t, err, `unknown report format "pdf"`)
	assert.NoFileExists(t, filepath.Join(dir, "report.pdf"))
}
