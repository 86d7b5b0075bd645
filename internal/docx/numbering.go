// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import "github.com/pdiddy/instruction-engine/pkg/types"

// numbering resolves numId/ilvl pairs to list kinds.
type numbering struct {
	formats map[string]map[string]string // abstractNumId -> ilvl -> numFmt
	nums    map[string]string            // numId -> abstractNumId
}

func newNumbering(n *numberingXML) *numbering {
	nb := &numbering{
		formats: make(map[string]map[string]string),
		nums:    make(map[string]string),
	}
	if n == nil {
		return nb
	}
	for _, an := range n.AbstractNums {
		levels := make(map[string]string, len(an.Levels))
		for _, lvl := range an.Levels {
			levels[lvl.ILvl] = lvl.NumFmt.Val
		}
		nb.formats[an.AbstractNumID] = levels
	}
	for _, num := range n.Nums {
		nb.nums[num.NumID] = num.AbstractNumID.Val
	}
	return nb
}

// kind returns the list kind for a numbered paragraph. Only the "bullet"
// format is a bulleted list; every other format (decimal, letters, roman,
// or an unresolvable definition) counts as numbered.
func (nb *numbering) kind(numID, ilvl string) types.ListKind {
	if ilvl == "" {
		ilvl = "0"
	}
	if levels, ok := nb.formats[nb.nums[numID]]; ok && levels[ilvl] == "bullet" {
		return types.ListBulleted
	}
	return types.ListNumbered
}
