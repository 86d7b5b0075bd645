// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pdiddy/instruction-engine/internal/container"
	"github.com/pdiddy/instruction-engine/internal/docx"
	"github.com/pdiddy/instruction-engine/internal/legacy"
	"github.com/pdiddy/instruction-engine/pkg/types"
)

// ErrUnsupportedFormat is returned for files whose extension has no parser.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// Parser reads a document from disk. The docx and legacy packages provide
// implementations.
type Parser interface {
	Parse(ctx context.Context, path string) (types.ParsedDocument, error)
}

// Registry maps lower-case file extensions to parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register installs p for ext (with or without the leading dot).
func (r *Registry) Register(ext string, p Parser) {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	r.parsers[ext] = p
}

// Lookup returns the parser for path's extension.
func (r *Registry) Lookup(path string) (Parser, error) {
	p, ok := r.parsers[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
	}
	return p, nil
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// Discover returns the files directly inside dir that have a registered
// extension, sorted by name. Subdirectories are not searched, so the
// outcome directories of an earlier run inside dir are ignored.
func (r *Registry) Discover(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading input directory %s: %w", dir, err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if _, ok := r.parsers[strings.ToLower(filepath.Ext(e.Name()))]; ok {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// StandardRegistry registers the DOCX parser and, when legacy support is
// enabled, the .doc parser. The container runtime for .doc files is
// detected once; when none is available .doc files fail individually with
// legacy.ErrConverterUnavailable and a warning is written to w.
func StandardRegistry(ctx context.Context, cfg types.LegacyConfig, w io.Writer) *Registry {
	reg := NewRegistry()
	reg.Register(".docx", docx.Parser{})
	if !cfg.Enabled {
		return reg
	}

	rt, err := container.DetectRuntime(ctx)
	if err != nil {
		fmt.Fprintf(w, "warning: .doc files will fail: %v\n", err)
	}
	reg.Register(".doc", legacy.NewParser(rt, cfg.Image))
	return reg
}
