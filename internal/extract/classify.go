// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

// markerPhrases are the lower-case paragraph texts that identify a table of
// work instructions. A paragraph must equal one exactly.
var markerPhrases = map[string]bool{
	"work instruction":         true,
	"work instructions":        true,
	"tasks executed":           true,
	"additional work required": true,
}

// ContainsWork reports whether any paragraph of t is a marker phrase,
// ignoring case.
func ContainsWork(t types.Table) bool {
	lower := cases.Lower(language.Und)
	for _, p := range t.Paragraphs() {
		if markerPhrases[lower.String(p.Text())] {
			return true
		}
	}
	return false
}

// WorkTables filters the document's tables down to those that contain
// work, preserving document order.
func WorkTables(doc types.ParsedDocument) []types.Table {
	var tables []types.Table
	for _, t := range doc.Tables() {
		if ContainsWork(t) {
			tables = append(tables, t)
		}
	}
	return tables
}
