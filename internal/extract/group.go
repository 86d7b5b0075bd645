// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"log/slog"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

// GroupName returns the text of the first paragraph in t that carries a
// single-underlined emphasis run, or "" when there is none.
//
// Formatting that cannot be read never fails the conversion: a paragraph
// whose runs return an error is skipped, and a panic from a Paragraph
// implementation yields "".
func GroupName(t types.Table) (name string) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("group name: formatting read panicked", "panic", r)
			name = ""
		}
	}()

	for _, p := range t.Paragraphs() {
		runs, err := p.EmphasisRuns()
		if err != nil {
			slog.Debug("group name: skipping paragraph", "error", err)
			continue
		}
		for _, run := range runs {
			if run.Underline == types.UnderlineSingle {
				return p.Text()
			}
		}
	}
	return ""
}
