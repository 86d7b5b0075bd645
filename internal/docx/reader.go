// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docx reads Office Open XML word-processing documents into the
// table/paragraph/image view consumed by the extraction core.
package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"strings"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

const (
	partDocument  = "word/document.xml"
	partNumbering = "word/numbering.xml"
	partRels      = "word/_rels/document.xml.rels"
)

// ErrNotDocx is returned when the input is not a readable DOCX package.
var ErrNotDocx = errors.New("not a DOCX package")

// Parser opens DOCX files from disk.
type Parser struct{}

// Parse reads and parses the DOCX file at path.
func (Parser) Parse(ctx context.Context, path string) (types.ParsedDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := Open(path)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// Open reads and parses the DOCX file at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(data)
}

// Parse parses an in-memory DOCX package.
func Parse(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	docData, err := readPart(files, partDocument)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDocx, err)
	}

	var root node
	if err := xml.Unmarshal(docData, &root); err != nil {
		return nil, fmt.Errorf("unmarshaling %s: %w", partDocument, err)
	}
	body := root.child("body")
	if body == nil {
		return nil, fmt.Errorf("%s has no body", partDocument)
	}

	// Numbering and relationships are optional parts.
	var numXML *numberingXML
	if numData, err := readPart(files, partNumbering); err == nil {
		numXML = &numberingXML{}
		if err := xml.Unmarshal(numData, numXML); err != nil {
			slog.Debug("docx: ignoring unreadable numbering part", "error", err)
			numXML = nil
		}
	}
	rels := readRelationships(files)

	return &Document{
		tables: buildTables(body, newNumbering(numXML)),
		images: collectImages(body, rels, files),
	}, nil
}

func readPart(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, fmt.Errorf("missing part %s", name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// readRelationships returns rId -> package part name for internal targets.
func readRelationships(files map[string]*zip.File) map[string]string {
	data, err := readPart(files, partRels)
	if err != nil {
		return nil
	}
	var rels relationshipsXML
	if err := xml.Unmarshal(data, &rels); err != nil {
		slog.Debug("docx: ignoring unreadable relationships", "error", err)
		return nil
	}

	out := make(map[string]string, len(rels.Relationships))
	for _, r := range rels.Relationships {
		if strings.EqualFold(r.TargetMode, "External") {
			continue
		}
		target := r.Target
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(target, "/")
		} else {
			target = path.Join("word", target)
		}
		out[r.ID] = path.Clean(target)
	}
	return out
}
