// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package legacy reads binary Word 97-2003 documents. The OLE2 container is
// validated locally; the document is then converted to DOCX inside a
// converter container and parsed with the docx package.
package legacy

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/richardlehane/mscfb"

	"github.com/pdiddy/instruction-engine/internal/container"
	"github.com/pdiddy/instruction-engine/internal/docx"
	"github.com/pdiddy/instruction-engine/pkg/types"
)

const wordStream = "WordDocument"

var (
	// ErrNotWordDocument is returned when the input is not an OLE2 compound
	// file carrying a WordDocument stream.
	ErrNotWordDocument = errors.New("not a Word 97-2003 document")

	// ErrConverterUnavailable is returned when no container runtime is
	// configured for the DOC to DOCX conversion.
	ErrConverterUnavailable = errors.New("legacy converter unavailable")
)

// Parser converts .doc files. The converter image reads a .doc on stdin
// and writes the equivalent .docx on stdout.
type Parser struct {
	Runtime container.Runtime
	Image   string
}

// NewParser returns a Parser using rt and image. An empty image selects
// types.DefaultLegacyImage.
func NewParser(rt container.Runtime, image string) *Parser {
	if image == "" {
		image = types.DefaultLegacyImage
	}
	return &Parser{Runtime: rt, Image: image}
}

// Parse reads, validates, converts and parses the .doc at path.
func (p *Parser) Parse(ctx context.Context, path string) (types.ParsedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := Validate(data); err != nil {
		return nil, err
	}
	converted, err := p.toDocx(ctx, data)
	if err != nil {
		return nil, err
	}
	doc, err := docx.Parse(converted)
	if err != nil {
		return nil, fmt.Errorf("parsing converted %s: %w", path, err)
	}
	return doc, nil
}

// Validate checks that data is a compound file with a non-empty
// WordDocument stream.
func Validate(data []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: malformed compound file: %v", ErrNotWordDocument, r)
		}
	}()

	cf, err := mscfb.New(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNotWordDocument, err)
	}
	for {
		entry, nextErr := cf.Next()
		if nextErr == io.EOF {
			break
		}
		if nextErr != nil {
			return fmt.Errorf("%w: %v", ErrNotWordDocument, nextErr)
		}
		if entry.Name == wordStream && entry.Size > 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: no %s stream", ErrNotWordDocument, wordStream)
}

func (p *Parser) toDocx(ctx context.Context, data []byte) ([]byte, error) {
	if p.Runtime == nil {
		return nil, ErrConverterUnavailable
	}
	if err := p.Runtime.ImageExists(ctx, p.Image); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConverterUnavailable, err)
	}

	var out bytes.Buffer
	if err := p.Runtime.Run(ctx, p.Image, nil, bytes.NewReader(data), &out); err != nil {
		return nil, fmt.Errorf("converting to DOCX: %w", err)
	}
	slog.Debug("legacy: converted document", "runtime", p.Runtime.Name(), "in_bytes", len(data), "out_bytes", out.Len())
	return out.Bytes(), nil
}
