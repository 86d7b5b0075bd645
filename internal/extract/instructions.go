// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

// Status is the outcome of extracting instructions from one table with the
// plain strategy.
type Status int

const (
	StatusOK Status = iota

	// StatusNoInstructions means the table has no paragraphs at all.
	StatusNoInstructions

	// StatusWhiteSpaceInstructions means bulleted paragraphs were expected
	// but none carried text.
	StatusWhiteSpaceInstructions
)

func (s Status) String() string {
	switch s {
	case StatusNoInstructions:
		return "no instructions"
	case StatusWhiteSpaceInstructions:
		return "whitespace instructions"
	default:
		return "ok"
	}
}

// TableResult holds the items extracted from one table and whether the
// table was usable.
type TableResult struct {
	Items  []types.WorkInstructionTextItem
	Status Status
}

// manualNumber matches a hand-typed list index such as "1." at the start
// of a paragraph. It is applied to the first two characters only.
var manualNumber = regexp.MustCompile(`\d{1,2}\.`)

// ExtractPlain extracts bulleted list items from a table of a document
// that has no images. Numbered lists are not accepted here.
func ExtractPlain(t types.Table) TableResult {
	paragraphs := t.Paragraphs()
	if len(paragraphs) == 0 {
		return TableResult{Status: StatusNoInstructions}
	}

	var selected []types.Paragraph
	for _, p := range paragraphs {
		if p.IsListItem() && p.ListKind() == types.ListBulleted && p.Text() != "" {
			selected = append(selected, p)
		}
	}
	if len(selected) == 0 {
		return TableResult{Status: StatusWhiteSpaceInstructions}
	}

	items := itemsFromParagraphs(selected)
	tagGroup(items, GroupName(t))
	return TableResult{Items: items, Status: StatusOK}
}

// ExtractWithImages extracts list items from a table of a document that
// has images, falling back to manually numbered paragraphs when the table
// has no list formatting, and places document images around the items
// according to the table's adjacency markers.
func (r *Run) ExtractWithImages(t types.Table) []types.WorkInstructionTextItem {
	paragraphs := t.Paragraphs()

	var selected []types.Paragraph
	for _, p := range paragraphs {
		if !p.IsListItem() {
			continue
		}
		if k := p.ListKind(); k == types.ListBulleted || k == types.ListNumbered {
			selected = append(selected, p)
		}
	}

	if len(selected) == 0 {
		r.score.Penalize(fallbackPenalty, "manual numbering fallback")
		selected = manuallyNumbered(paragraphs)
	}

	var kept []types.Paragraph
	for _, p := range selected {
		if strings.TrimSpace(p.Text()) != "" {
			kept = append(kept, p)
		}
	}

	items := itemsFromParagraphs(kept)
	items = r.interleaveImages(t, items)
	tagGroup(items, GroupName(t))
	return items
}

// manuallyNumbered returns the non-empty paragraphs whose text starts with
// a typed index like "3.". Nothing is returned unless some paragraph
// contains "1." somewhere.
func manuallyNumbered(paragraphs []types.Paragraph) []types.Paragraph {
	found := false
	for _, p := range paragraphs {
		if strings.Contains(p.Text(), "1.") {
			found = true
			break
		}
	}
	if !found {
		return nil
	}

	var numbered []types.Paragraph
	for _, p := range paragraphs {
		text := p.Text()
		if text == "" {
			continue
		}
		if manualNumber.MatchString(leadingChars(strings.TrimLeftFunc(text, unicode.IsSpace), 2)) {
			numbered = append(numbered, p)
		}
	}
	return numbered
}

// leadingChars returns at most n runes from the start of s.
func leadingChars(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// interleaveImages appends and/or prepends a document image to items when
// the table sits next to a graphic. Both checks share the index computed
// before either one consumes an image, so a table flanked by graphics on
// both sides can receive the same image twice.
func (r *Run) interleaveImages(t types.Table, items []types.WorkInstructionTextItem) []types.WorkInstructionTextItem {
	consumed := r.imagesAdded - 1
	if consumed < 0 {
		consumed = 0
	}

	if t.FollowedByGraphic() && len(r.images)-r.imagesAdded > 0 {
		items = append(items, r.images[consumed])
		r.imagesAdded++
	}
	if t.PrecededByGraphic() && len(r.images)-r.imagesAdded > 0 {
		items = append([]types.WorkInstructionTextItem{r.images[consumed]}, items...)
		r.imagesAdded++
	}
	return items
}

func itemsFromParagraphs(paragraphs []types.Paragraph) []types.WorkInstructionTextItem {
	items := make([]types.WorkInstructionTextItem, 0, len(paragraphs))
	for _, p := range paragraphs {
		items = append(items, types.WorkInstructionTextItem{
			ID:   newID(),
			Text: p.Text(),
		})
	}
	return items
}

func tagGroup(items []types.WorkInstructionTextItem, group string) {
	for i := range items {
		items[i].GroupName = group
	}
}
