// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import "encoding/xml"

// node is a generic XML element that keeps its children in document order.
// WordprocessingML interleaves paragraphs, tables and section properties in
// the body, and adjacency between them matters, so the body is decoded into
// this tree rather than into typed slices.
type node struct {
	XMLName xml.Name
	Attrs   []xml.Attr `xml:",any,attr"`
	Text    string     `xml:",chardata"`
	Nodes   []node     `xml:",any"`
}

// attr returns the value of the attribute with the given local name.
func (n *node) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// child returns the first direct child with the given local name.
func (n *node) child(local string) *node {
	for i := range n.Nodes {
		if n.Nodes[i].XMLName.Local == local {
			return &n.Nodes[i]
		}
	}
	return nil
}

// walk visits n's descendants depth-first in document order. When fn
// returns false the children of that node are skipped.
func (n *node) walk(fn func(*node) bool) {
	for i := range n.Nodes {
		c := &n.Nodes[i]
		if fn(c) {
			c.walk(fn)
		}
	}
}

// contains reports whether any descendant of n has the given local name.
func (n *node) contains(local string) bool {
	found := false
	n.walk(func(c *node) bool {
		if found {
			return false
		}
		if c.XMLName.Local == local {
			found = true
			return false
		}
		return true
	})
	return found
}

// relationshipsXML represents word/_rels/document.xml.rels.
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// numberingXML represents word/numbering.xml.
type numberingXML struct {
	XMLName      xml.Name         `xml:"numbering"`
	AbstractNums []abstractNumXML `xml:"abstractNum"`
	Nums         []numXML         `xml:"num"`
}

type abstractNumXML struct {
	AbstractNumID string   `xml:"abstractNumId,attr"`
	Levels        []lvlXML `xml:"lvl"`
}

type lvlXML struct {
	ILvl   string `xml:"ilvl,attr"`
	NumFmt valXML `xml:"numFmt"`
}

type numXML struct {
	NumID         string `xml:"numId,attr"`
	AbstractNumID valXML `xml:"abstractNumId"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}
