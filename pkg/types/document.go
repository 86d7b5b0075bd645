// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ParsedDocument is a read-only view of a word-processor document produced
// by a parser. Tables and images are returned in document order. Callers own
// the value; the extraction core never mutates it.
type ParsedDocument interface {
	Tables() []Table
	Images() []Image
}

// Table is an ordered sequence of paragraphs plus two adjacency markers
// describing whether the neighbouring document nodes embed a graphic.
type Table interface {
	Paragraphs() []Paragraph

	// PrecededByGraphic reports whether the node immediately before the
	// table contains embedded graphic data.
	PrecededByGraphic() bool

	// FollowedByGraphic reports whether the node immediately after the
	// table contains embedded graphic data.
	FollowedByGraphic() bool
}

// Paragraph exposes the text, list metadata, and emphasis formatting of a
// single paragraph.
type Paragraph interface {
	Text() string
	IsListItem() bool
	ListKind() ListKind

	// EmphasisRuns returns the formatted text runs of the paragraph. Reading
	// formatting can fail when the source carries values the parser does not
	// understand.
	EmphasisRuns() ([]Run, error)
}

// ListKind is the list type a paragraph belongs to.
type ListKind int

const (
	ListNone ListKind = iota
	ListBulleted
	ListNumbered
)

// String returns the lower-case name of the list kind.
func (k ListKind) String() string {
	switch k {
	case ListBulleted:
		return "bulleted"
	case ListNumbered:
		return "numbered"
	default:
		return "none"
	}
}

// UnderlineStyle is an OOXML underline value (ST_Underline).
type UnderlineStyle string

const (
	UnderlineNone   UnderlineStyle = ""
	UnderlineSingle UnderlineStyle = "single"
	UnderlineDouble UnderlineStyle = "double"
	UnderlineWords  UnderlineStyle = "words"
	UnderlineThick  UnderlineStyle = "thick"
	UnderlineDotted UnderlineStyle = "dotted"
	UnderlineDash   UnderlineStyle = "dash"
	UnderlineWave   UnderlineStyle = "wave"
)

// Run is an emphasis-formatted span of text within a paragraph.
type Run struct {
	Text      string         `json:"text" yaml:"text"`
	Bold      bool           `json:"bold,omitempty" yaml:"bold,omitempty"`
	Italic    bool           `json:"italic,omitempty" yaml:"italic,omitempty"`
	Underline UnderlineStyle `json:"underline,omitempty" yaml:"underline,omitempty"`
}

// Image is an embedded picture. Data is opaque to the extraction core.
type Image struct {
	// Name is the package part the image was read from (e.g. "word/media/image1.png").
	Name string `json:"name" yaml:"name"`

	// Format is the decoded image format ("png", "jpeg", ...) or empty when
	// the parser could not recognise it.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	Data []byte `json:"-" yaml:"-"`
}
