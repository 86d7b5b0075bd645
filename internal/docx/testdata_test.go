// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
)

const docHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"
 xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"
 xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
 xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
 xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"
 xmlns:v="urn:schemas-microsoft-com:vml"><w:body>`

const docFooter = `<w:sectPr/></w:body></w:document>`

const numberingPart = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:numbering xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:abstractNum w:abstractNumId="10"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl></w:abstractNum>
<w:abstractNum w:abstractNumId="20"><w:lvl w:ilvl="0"><w:numFmt w:val="decimal"/></w:lvl></w:abstractNum>
<w:num w:numId="1"><w:abstractNumId w:val="10"/></w:num>
<w:num w:numId="2"><w:abstractNumId w:val="20"/></w:num>
</w:numbering>`

// docxPackage describes an in-memory DOCX built by buildDocx.
type docxPackage struct {
	body      string
	numbering string
	rels      string
	media     map[string][]byte
	omitDoc   bool
}

func buildDocx(t *testing.T, pkg docxPackage) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name string, data []byte) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write(data)
		require.NoError(t, err)
	}

	write("[Content_Types].xml", []byte(`<?xml version="1.0"?><Types/>`))
	if !pkg.omitDoc {
		write(partDocument, []byte(docHeader+pkg.body+docFooter))
	}
	if pkg.numbering != "" {
		write(partNumbering, []byte(pkg.numbering))
	}
	if pkg.rels != "" {
		write(partRels, []byte(pkg.rels))
	}
	for name, data := range pkg.media {
		write(name, data)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func para(text string) string {
	return `<w:p><w:r><w:t xml:space="preserve">` + text + `</w:t></w:r></w:p>`
}

func listPara(numID, text string) string {
	return `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="` + numID + `"/></w:numPr></w:pPr>` +
		`<w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func underlinedPara(val, text string) string {
	return `<w:p><w:r><w:rPr><w:b/><w:u w:val="` + val + `"/></w:rPr><w:t>` + text + `</w:t></w:r></w:p>`
}

func tableOf(cells ...string) string {
	var b bytes.Buffer
	b.WriteString(`<w:tbl><w:tblPr/><w:tr>`)
	for _, c := range cells {
		b.WriteString(`<w:tc>` + c + `</w:tc>`)
	}
	b.WriteString(`</w:tr></w:tbl>`)
	return b.String()
}

func drawingPara(rID string) string {
	return `<w:p><w:r><w:drawing><wp:inline><a:graphic><a:graphicData uri="pic">` +
		`<pic:pic><pic:blipFill><a:blip r:embed="` + rID + `"/></pic:blipFill></pic:pic>` +
		`</a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`
}

func vmlPicturePara(rID string) string {
	return `<w:p><w:r><w:pict><v:shape style="width:40pt;height:30pt">` +
		`<v:imagedata r:id="` + rID + `"/></v:shape></w:pict></w:r></w:p>`
}

func contentControl(inner string) string {
	return `<w:sdt><w:sdtPr><w:alias w:val="Instructions"/></w:sdtPr><w:sdtContent>` + inner + `</w:sdtContent></w:sdt>`
}

func relsFor(pairs ...string) string {
	var b bytes.Buffer
	b.WriteString(`<?xml version="1.0"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(`<Relationship Id="` + pairs[i] + `" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="` + pairs[i+1] + `"/>`)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}
