// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

// Document is a parsed DOCX file. It implements types.ParsedDocument.
type Document struct {
	tables []*Table
	images []types.Image
}

// Tables returns the body-level tables in document order.
func (d *Document) Tables() []types.Table {
	out := make([]types.Table, len(d.tables))
	for i, t := range d.tables {
		out[i] = t
	}
	return out
}

// Images returns the embedded images in order of first reference.
func (d *Document) Images() []types.Image { return d.images }

// Table is a body table. It implements types.Table.
type Table struct {
	paragraphs []*Paragraph
	before     bool
	after      bool
}

// Paragraphs returns every paragraph inside the table, cells and nested
// tables included, in document order.
func (t *Table) Paragraphs() []types.Paragraph {
	out := make([]types.Paragraph, len(t.paragraphs))
	for i, p := range t.paragraphs {
		out[i] = p
	}
	return out
}

func (t *Table) PrecededByGraphic() bool { return t.before }
func (t *Table) FollowedByGraphic() bool { return t.after }

// Paragraph implements types.Paragraph.
type Paragraph struct {
	text    string
	numID   string
	kind    types.ListKind
	runs    []types.Run
	runsErr error
}

func (p *Paragraph) Text() string { return p.text }

// IsListItem reports whether the paragraph carries numbering properties.
// A numId of 0 removes numbering inherited from a style.
func (p *Paragraph) IsListItem() bool { return p.numID != "" && p.numID != "0" }

func (p *Paragraph) ListKind() types.ListKind {
	if !p.IsListItem() {
		return types.ListNone
	}
	return p.kind
}

// EmphasisRuns returns the runs that carry run formatting. It fails when a
// run uses an underline value outside ST_Underline.
func (p *Paragraph) EmphasisRuns() ([]types.Run, error) {
	return p.runs, p.runsErr
}

// underlineStyles is the ST_Underline vocabulary.
var underlineStyles = map[string]bool{
	"single": true, "words": true, "double": true, "thick": true,
	"dotted": true, "dottedHeavy": true, "dash": true, "dashedHeavy": true,
	"dashLong": true, "dashLongHeavy": true, "dotDash": true, "dashDotHeavy": true,
	"dotDotDash": true, "dashDotDotHeavy": true, "wave": true, "wavyHeavy": true,
	"wavyDouble": true, "none": true,
}

// buildTables collects the body-level tables together with the graphic
// adjacency of their neighbouring body elements. Tables wrapped in block
// content controls (w:sdt) or custom XML elements count as body-level; the
// first and last elements of a wrapper take their outer neighbour from the
// wrapper's siblings.
func buildTables(body *node, nb *numbering) []*Table {
	var tables []*Table
	collectTables(body.Nodes, nil, nil, nb, &tables)
	return tables
}

func collectTables(nodes []node, before, after *node, nb *numbering, tables *[]*Table) {
	for i := range nodes {
		prev, next := before, after
		if i > 0 {
			prev = &nodes[i-1]
		}
		if i+1 < len(nodes) {
			next = &nodes[i+1]
		}

		n := &nodes[i]
		switch n.XMLName.Local {
		case "tbl":
			*tables = append(*tables, buildTable(n, prev, next, nb))
		case "sdt":
			if content := n.child("sdtContent"); content != nil {
				collectTables(content.Nodes, prev, next, nb, tables)
			}
		case "customXml":
			collectTables(n.Nodes, prev, next, nb, tables)
		}
	}
}

func buildTable(tbl, prev, next *node, nb *numbering) *Table {
	t := &Table{
		before: prev != nil && prev.contains("graphicData"),
		after:  next != nil && next.contains("graphicData"),
	}
	tbl.walk(func(n *node) bool {
		if n.XMLName.Local == "p" {
			t.paragraphs = append(t.paragraphs, buildParagraph(n, nb))
		}
		return true
	})
	return t
}

func buildParagraph(p *node, nb *numbering) *Paragraph {
	para := &Paragraph{}

	if ppr := p.child("pPr"); ppr != nil {
		if numPr := ppr.child("numPr"); numPr != nil {
			var ilvl string
			if n := numPr.child("numId"); n != nil {
				para.numID, _ = n.attr("val")
			}
			if n := numPr.child("ilvl"); n != nil {
				ilvl, _ = n.attr("val")
			}
			if para.IsListItem() {
				para.kind = nb.kind(para.numID, ilvl)
			}
		}
	}

	var text strings.Builder
	var runs []types.Run
	p.walk(func(n *node) bool {
		switch n.XMLName.Local {
		case "p", "drawing", "pict", "txbxContent":
			// Text boxes and nested paragraphs belong to their own paragraph.
			return false
		case "r":
			runText := collectRunText(n)
			text.WriteString(runText)
			run, ok, err := emphasis(n, runText)
			if err != nil && para.runsErr == nil {
				para.runsErr = err
			}
			if ok {
				runs = append(runs, run)
			}
			return false
		}
		return true
	})

	para.text = norm.NFC.String(text.String())
	para.runs = runs
	return para
}

// collectRunText returns the text of a run: w:t content, tabs and breaks.
func collectRunText(r *node) string {
	var b strings.Builder
	r.walk(func(n *node) bool {
		switch n.XMLName.Local {
		case "t":
			b.WriteString(n.Text)
		case "tab":
			b.WriteString("\t")
		case "br", "cr":
			b.WriteString("\n")
		case "drawing", "pict", "rPr":
			return false
		}
		return true
	})
	return b.String()
}

// emphasis reports the formatting of a run. Runs without run properties
// are not emphasis runs.
func emphasis(r *node, text string) (types.Run, bool, error) {
	rpr := r.child("rPr")
	if rpr == nil || len(rpr.Nodes) == 0 {
		return types.Run{}, false, nil
	}

	run := types.Run{
		Text:   norm.NFC.String(text),
		Bold:   toggled(rpr.child("b")),
		Italic: toggled(rpr.child("i")),
	}
	if u := rpr.child("u"); u != nil {
		val, _ := u.attr("val")
		switch {
		case val == "" || val == "none":
			run.Underline = types.UnderlineNone
		case underlineStyles[val]:
			run.Underline = types.UnderlineStyle(val)
		default:
			return run, true, fmt.Errorf("unknown underline style %q", val)
		}
	}
	return run, true, nil
}

// toggled reports whether an OOXML on/off property is on.
func toggled(n *node) bool {
	if n == nil {
		return false
	}
	val, ok := n.attr("val")
	if !ok {
		return true
	}
	switch val {
	case "false", "0", "off":
		return false
	}
	return true
}
