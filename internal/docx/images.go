// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docx

import (
	"archive/zip"
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log/slog"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

// nsRelationships is the namespace of r:embed and r:id attributes.
const nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

// imageRef returns the relationship id of a picture reference: a:blip
// r:embed for DrawingML pictures and v:imagedata r:id for VML ones.
func imageRef(n *node) (string, bool) {
	switch n.XMLName.Local {
	case "blip":
		return n.attr("embed")
	case "imagedata":
		for _, a := range n.Attrs {
			if a.Name.Local == "id" && a.Name.Space == nsRelationships {
				return a.Value, true
			}
		}
		return "", true
	}
	return "", false
}

// collectImages returns the images referenced by a:blip and v:imagedata
// elements of the body, in order of first reference. A part referenced
// twice is returned once.
func collectImages(body *node, rels map[string]string, files map[string]*zip.File) []types.Image {
	if len(rels) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var images []types.Image
	body.walk(func(n *node) bool {
		embed, ok := imageRef(n)
		if !ok {
			return true
		}
		if embed == "" {
			return false
		}
		name, ok := rels[embed]
		if !ok || seen[name] {
			return false
		}
		seen[name] = true

		data, err := readPart(files, name)
		if err != nil {
			slog.Debug("docx: image part not readable", "part", name, "rId", embed, "error", err)
			return false
		}
		images = append(images, types.Image{
			Name:   name,
			Format: imageFormat(data),
			Data:   data,
		})
		return false
	})
	return images
}

// imageFormat returns the registered decoder name for data, or "" for
// formats such as EMF and WMF that have no Go decoder.
func imageFormat(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ""
	}
	return format
}
