// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"encoding/base64"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

// ExtractImages returns one item per embedded image, in document image
// order, with the image bytes base64-encoded into Text.
func ExtractImages(doc types.ParsedDocument) []types.WorkInstructionTextItem {
	images := doc.Images()
	items := make([]types.WorkInstructionTextItem, 0, len(images))
	for _, img := range images {
		items = append(items, types.WorkInstructionTextItem{
			ID:   newID(),
			Text: base64.StdEncoding.EncodeToString(img.Data),
		})
	}
	return items
}
