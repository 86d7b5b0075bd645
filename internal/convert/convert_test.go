// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/instruction-engine/pkg/types"
)

// fakePara, fakeTable and fakeDoc are a minimal in-memory document.
type fakePara struct {
	text   string
	bullet bool
}

func (p fakePara) Text() string { return p.text }
func (p fakePara) IsListItem() bool { return p.bullet }
func (p fakePara) ListKind() types.ListKind {
	if p.bullet {
		return types.ListBulleted
	}
	return types.ListNone
}
func (p fakePara) EmphasisRuns() ([]types.Run, error) { return nil, nil }

type fakeTable []types.Paragraph

func (t fakeTable) Paragraphs() []types.Paragraph { return t }
func (t fakeTable) PrecededByGraphic() bool { return false }
func (t fakeTable) FollowedByGraphic() bool { return false }

type fakeDoc []types.Table

func (d fakeDoc) Tables() []types.Table { return d }
func (d fakeDoc) Images() []types.Image { return nil }

func workDoc(steps ...string) fakeDoc {
	tbl := fakeTable{fakePara{text: "Work Instructions"}}
	for _, s := range steps {
		tbl = append(tbl, fakePara{text: s, bullet: true})
	}
	return fakeDoc{tbl}
}

// fakeParser returns canned documents or errors keyed by file name.
type fakeParser struct {
	docs map[string]types.ParsedDocument
	errs map[string]error
}

func (f *fakeParser) Parse(_ context.Context, path string) (types.ParsedDocument, error) {
	name := filepath.Base(path)
	if err, ok := f.errs[name]; ok {
		return nil, err
	}
	if doc, ok := f.docs[name]; ok {
		return doc, nil
	}
	return fakeDoc{}, nil
}

// slowParser blocks until its context is done.
type slowParser struct{}

func (slowParser) Parse(ctx context.Context, _ string) (types.ParsedDocument, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// recordingSink collects saved results.
type recordingSink struct {
	mu    sync.Mutex
	saved []string
	err   error
}

func (s *recordingSink) Save(_ context.Context, r types.ConversionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, r.Filename)
	return s.err
}

func touch(t *testing.T, dir string, names ...string) []string {
	t.Helper()
	var paths []string
	for _, n := range names {
		p := filepath.Join(dir, n)
		require.NoError(t, os.WriteFile(p, []byte("content of "+n), 0o644))
		paths = append(paths, p)
	}
	return paths
}

func readRecord(t *testing.T, path string) map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rec map[string]any
	require.NoError(t, json.Unmarshal(data, &rec))
	return rec
}

func TestRegistry(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "a.docx", "B.DOCX", "c.doc", "notes.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Success"), 0o755))
	touch(t, filepath.Join(dir, "Success"), "old.docx")

	reg := NewRegistry()
	reg.Register("docx", &fakeParser{})
	reg.Register(".DOC", &fakeParser{})
	assert.Equal(t, []string{".doc", ".docx"}, reg.Extensions())

	paths, err := reg.Discover(dir)
	require.NoError(t, err)
	var names []string
	for _, p := range paths {
		names = append(names, filepath.Base(p))
	}
	assert.Equal(t, []string{"B.DOCX", "a.docx", "c.doc"}, names)

	_, err = reg.Lookup("report.pdf")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = reg.Discover(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConvertDocument(t *testing.T) {
	tests := []struct {
		name        string
		doc         types.ParsedDocument
		wantOutcome types.Outcome
		wantScore   float64
		wantItems   int
	}{
		{name: "success", doc: workDoc("Isolate pump", "Drain line"), wantOutcome: types.OutcomeSuccess, wantScore: 100, wantItems: 2},
		{name: "no tables", doc: fakeDoc{}, wantOutcome: types.OutcomeAborted, wantScore: 100},
		{name: "marker but no steps", doc: workDoc(), wantOutcome: types.OutcomeAborted, wantScore: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in, out := t.TempDir(), t.TempDir()
			path := touch(t, in, "wi.docx")[0]
			p := &fakeParser{docs: map[string]types.ParsedDocument{"wi.docx": tt.doc}}
			cfg := types.BatchConfig{OutputDir: out, CopyOriginals: true}

			result, err := ConvertDocument(context.Background(), p, path, cfg)
			require.NoError(t, err)
			assert.Equal(t, "wi.docx", result.Filename)
			assert.Equal(t, tt.wantOutcome, result.Outcome())

			dir := filepath.Join(out, string(tt.wantOutcome))
			copied, err := os.ReadFile(filepath.Join(dir, "wi.docx"))
			require.NoError(t, err)
			assert.Equal(t, "content of wi.docx", string(copied))

			rec := readRecord(t, filepath.Join(dir, "wi.docx.result.json"))
			assert.Equal(t, "wi.docx", rec["filename"])
			assert.Equal(t, string(tt.wantOutcome), rec["outcome"])
			assert.Equal(t, tt.wantOutcome == types.OutcomeAborted, rec["aborted"])
			assert.Equal(t, tt.wantScore, rec["conversion_score"])
			items := rec["work_instructions"].(map[string]any)["items"]
			if tt.wantItems == 0 {
				assert.Nil(t, items)
			} else {
				assert.Len(t, items, tt.wantItems)
			}
		})
	}
}

func TestConvertDocument_NoCopy(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	path := touch(t, in, "wi.docx")[0]
	p := &fakeParser{docs: map[string]types.ParsedDocument{"wi.docx": workDoc("Step")}}

	_, err := ConvertDocument(context.Background(), p, path, types.BatchConfig{OutputDir: out})
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(out, "Success", "wi.docx"))
	assert.FileExists(t, filepath.Join(out, "Success", "wi.docx.result.json"))
}

func TestConvertDocument_Errors(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	path := touch(t, in, "bad.docx")[0]

	parseErr := errors.New("corrupt package")
	p := &fakeParser{errs: map[string]error{"bad.docx": parseErr}}
	result, err := ConvertDocument(context.Background(), p, path, types.BatchConfig{OutputDir: out})
	assert.ErrorIs(t, err, parseErr)
	assert.Equal(t, "bad.docx", result.Filename)
	entries, _ := os.ReadDir(out)
	assert.Empty(t, entries)

	_, err = ConvertDocument(context.Background(), slowParser{}, path,
		types.BatchConfig{OutputDir: out, Timeout: 10 * time.Millisecond})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestConvertBatch(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	paths := touch(t, in, "a.docx", "b.docx", "c.docx", "d.pdf")

	reg := NewRegistry()
	reg.Register(".docx", &fakeParser{
		docs: map[string]types.ParsedDocument{
			"a.docx": workDoc("Step one"),
			"b.docx": fakeDoc{},
		},
		errs: map[string]error{"c.docx": errors.New("bad zip")},
	})
	sink := &recordingSink{}
	var log bytes.Buffer

	batch := ConvertBatch(context.Background(), reg, paths, types.BatchConfig{OutputDir: out, Workers: 2}, sink, &log)

	require.Len(t, batch.Results, 2)
	assert.Equal(t, "a.docx", batch.Results[0].Filename)
	assert.Equal(t, "b.docx", batch.Results[1].Filename)
	assert.Equal(t, 2, batch.Processed())
	assert.Equal(t, 1, batch.Successful())
	assert.Equal(t, 1, batch.Aborted())
	assert.Equal(t, 1, batch.Warnings())
	assert.True(t, batch.HasFailures())
	require.Len(t, batch.Errors, 2)
	assert.Contains(t, batch.Errors[0], "bad zip")
	assert.Contains(t, batch.Errors[1], "unsupported document format")
	assert.ElementsMatch(t, []string{"a.docx", "b.docx"}, sink.saved)

	output := log.String()
	assert.Contains(t, output, "converted: a.docx (Success, score 100)")
	assert.Contains(t, output, "converted: b.docx (Aborted, score 100)")
	assert.Contains(t, output, "failed:  c.docx")
	assert.Contains(t, output, "Processed 2 docs. 1 successful, 1 failed. 1 had warnings")
	assert.Contains(t, output, "2 errors:")

	assert.FileExists(t, filepath.Join(out, "Success", "a.docx.result.json"))
	assert.FileExists(t, filepath.Join(out, "Aborted", "b.docx.result.json"))
}

func TestConvertBatch_SinkErrorAndCancel(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	paths := touch(t, in, "a.docx")
	reg := NewRegistry()
	reg.Register(".docx", &fakeParser{docs: map[string]types.ParsedDocument{"a.docx": workDoc("Step")}})

	var log bytes.Buffer
	batch := ConvertBatch(context.Background(), reg, paths, types.BatchConfig{OutputDir: out},
		&recordingSink{err: errors.New("disk full")}, &log)
	assert.Len(t, batch.Results, 1)
	require.Len(t, batch.Errors, 1)
	assert.Contains(t, batch.Errors[0], "disk full")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	batch = ConvertBatch(ctx, reg, paths, types.BatchConfig{OutputDir: out}, nil, &log)
	assert.Empty(t, batch.Results)
	require.Len(t, batch.Errors, 1)
	assert.Contains(t, batch.Errors[0], "context canceled")
}

func TestNewRecord(t *testing.T) {
	var r types.ConversionResult
	r.Filename = "x.docx"
	r.AddRuleViolation("Tables Required", true, "none")
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("x", 3600))

	rec := NewRecord(r, at)
	assert.Equal(t, types.OutcomeAborted, rec.Outcome)
	assert.True(t, rec.Aborted)
	assert.True(t, rec.HasRuleViolations)
	assert.Equal(t, time.UTC, rec.ConvertedAt.Location())
}

// End to end through the real DOCX parser.

const wordNS = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`

func bulletPara(text string) string {
	return `<w:p><w:pPr><w:numPr><w:ilvl w:val="0"/><w:numId w:val="1"/></w:numPr></w:pPr><w:r><w:t>` + text + `</w:t></w:r></w:p>`
}

func writeDocx(t *testing.T, path string, body string) {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	parts := map[string]string{
		"word/document.xml": `<?xml version="1.0"?><w:document ` + wordNS + `><w:body>` + body + `</w:body></w:document>`,
		"word/numbering.xml": `<?xml version="1.0"?><w:numbering ` + wordNS + `>` +
			`<w:abstractNum w:abstractNumId="0"><w:lvl w:ilvl="0"><w:numFmt w:val="bullet"/></w:lvl></w:abstractNum>` +
			`<w:num w:numId="1"><w:abstractNumId w:val="0"/></w:num></w:numbering>`,
	}
	for name, content := range parts {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestConvertBatch_RealDocx(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	table := `<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Work Instructions</w:t></w:r></w:p>` +
		bulletPara("Isolate pump") + bulletPara("Drain line") + `</w:tc></w:tr></w:tbl>`
	writeDocx(t, filepath.Join(in, "pump.docx"), table)
	writeDocx(t, filepath.Join(in, "empty.docx"), `<w:p><w:r><w:t>No tables here</w:t></w:r></w:p>`)

	var log bytes.Buffer
	reg := StandardRegistry(context.Background(), types.LegacyConfig{}, &log)
	paths, err := reg.Discover(in)
	require.NoError(t, err)
	require.Len(t, paths, 2)

	batch := ConvertBatch(context.Background(), reg, paths, types.BatchConfig{OutputDir: out, Workers: 1}, nil, &log)
	require.Empty(t, batch.Errors)
	require.Len(t, batch.Results, 2)

	empty, pump := batch.Results[0], batch.Results[1]
	assert.True(t, empty.Aborted())
	assert.False(t, pump.Aborted())
	assert.Equal(t, 100, pump.ConversionScore)

	var texts []string
	for _, it := range pump.WorkInstructions.Items {
		texts = append(texts, it.Text)
	}
	assert.Equal(t, []string{"Isolate pump", "Drain line"}, texts)
	assert.Equal(t, "pump.docx", pump.WorkInstructions.SourceFilename)
	assert.True(t, strings.HasSuffix(log.String(), "Processed 2 docs. 1 successful, 1 failed. 1 had warnings\n"))
}
