// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns a parsed word-processor document into an ordered
// work instruction. It classifies tables by marker phrases, pulls list
// items (or manually numbered paragraphs) and embedded images out of them,
// tags items with a group name, and scores the extraction.
//
// A conversion keeps its mutable state (score, image counter) in a Run, so
// independent documents can be converted concurrently.
package extract

import (
	"github.com/google/uuid"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

// Rule names and messages recorded on aborted conversions.
const (
	RuleTablesRequired  = "Tables Required"
	RuleHasInstructions = "HasInstuctions"

	MsgNoTables            = "This document contains no tables to process"
	MsgMustContain         = "Must contain instructions"
	MsgNoValue             = "Instructions found but they had no value"
	MsgDocumentMustContain = "Document must contain instructions"
)

// newID generates item identities. Tests may replace it.
var newID = uuid.NewString

// Run holds the state of a single document conversion.
type Run struct {
	score       *Score
	images      []types.WorkInstructionTextItem
	imagesAdded int
}

// NewRun returns a Run with a full score and no images consumed.
func NewRun() *Run {
	return &Run{score: newScore()}
}

// Score returns the run's score.
func (r *Run) Score() *Score { return r.score }

// Convert converts doc with a fresh Run.
func Convert(doc types.ParsedDocument, filename string) types.ConversionResult {
	return NewRun().Convert(doc, filename)
}

// Convert extracts the work instruction from doc, resetting the run first.
// Structural problems are reported as critical rule violations on the
// result, never as errors.
func (r *Run) Convert(doc types.ParsedDocument, filename string) types.ConversionResult {
	return r.convert(doc, WorkTables(doc), filename)
}

// convert runs the extraction over an already classified set of tables.
func (r *Run) convert(doc types.ParsedDocument, tables []types.Table, filename string) types.ConversionResult {
	result := types.ConversionResult{Filename: filename}
	finish := func() types.ConversionResult {
		result.ConversionScore = r.score.Value()
		result.Penalties = r.score.Penalties()
		return result
	}

	r.score = newScore()
	r.images = ExtractImages(doc)
	r.imagesAdded = 0
	hasImages := len(r.images) > 0
	if hasImages {
		r.score.Penalize(imagePenalty, "document contains images")
	}

	if len(tables) == 0 {
		result.AddRuleViolation(RuleTablesRequired, true, MsgNoTables)
		return finish()
	}

	// Instructions can span several tables that repeat their header rows.
	var items []types.WorkInstructionTextItem
	for _, t := range tables {
		if hasImages {
			items = append(items, r.ExtractWithImages(t)...)
			continue
		}

		tr := ExtractPlain(t)
		switch tr.Status {
		case StatusNoInstructions:
			result.AddRuleViolation(RuleHasInstructions, true, MsgMustContain)
			return finish()
		case StatusWhiteSpaceInstructions:
			result.AddRuleViolation(RuleHasInstructions, true, MsgNoValue)
			return finish()
		}
		items = append(items, tr.Items...)
	}

	if len(items) == 0 {
		result.AddRuleViolation(RuleHasInstructions, true, MsgDocumentMustContain)
		return finish()
	}

	result.WorkInstructions = types.WorkInstruction{
		Items:          items,
		SourceFilename: filename,
	}
	return finish()
}
