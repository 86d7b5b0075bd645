// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert runs work-instruction extraction over a directory of
// documents. Each document is parsed, converted, and filed under an outcome
// directory together with a JSON result record.
package convert

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/instruction-engine/internal/extract"
	"github.com/pdiddy/instruction-engine/pkg/types"
)

// resultSuffix is appended to the document name for its result record.
const resultSuffix = ".result.json"

// Record is the persisted form of a conversion result.
type Record struct {
	types.ConversionResult `yaml:",inline"`

	Outcome           types.Outcome `json:"outcome" yaml:"outcome"`
	Aborted           bool          `json:"aborted" yaml:"aborted"`
	HasRuleViolations bool          `json:"has_rule_violations" yaml:"has_rule_violations"`
	ConvertedAt       time.Time     `json:"converted_at" yaml:"converted_at"`
}

// NewRecord wraps result with its derived flags.
func NewRecord(result types.ConversionResult, at time.Time) Record {
	return Record{
		ConversionResult:  result,
		Outcome:           result.Outcome(),
		Aborted:           result.Aborted(),
		HasRuleViolations: result.HasRuleViolations(),
		ConvertedAt:       at.UTC(),
	}
}

// ResultSink receives every successfully converted result. The result
// store implements it.
type ResultSink interface {
	Save(ctx context.Context, result types.ConversionResult) error
}

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	// Results holds the converted documents in input order. Documents that
	// could not be parsed or written are not included.
	Results []types.ConversionResult

	// Errors lists one message per document that failed.
	Errors []string
}

// Processed returns the number of documents that produced a result.
func (r BatchResult) Processed() int { return len(r.Results) }

// Successful returns the number of results that were not aborted.
func (r BatchResult) Successful() int { return r.Processed() - r.Aborted() }

// Aborted returns the number of aborted results.
func (r BatchResult) Aborted() int {
	n := 0
	for _, res := range r.Results {
		if res.Aborted() {
			n++
		}
	}
	return n
}

// Warnings returns the number of results carrying any rule violation,
// aborted ones included.
func (r BatchResult) Warnings() int {
	n := 0
	for _, res := range r.Results {
		if res.HasRuleViolations() {
			n++
		}
	}
	return n
}

// HasFailures reports whether any document failed outright.
func (r BatchResult) HasFailures() bool { return len(r.Errors) > 0 }

// ConvertDocument parses the document at path with p, extracts its work
// instruction and writes the result under cfg.OutputDir/<Outcome>/. The
// returned error reports parse and I/O failures; extraction problems are
// rule violations on the result.
func ConvertDocument(ctx context.Context, p Parser, path string, cfg types.BatchConfig) (types.ConversionResult, error) {
	name := filepath.Base(path)

	parseCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		parseCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	doc, err := p.Parse(parseCtx, path)
	if err != nil {
		return types.ConversionResult{Filename: name}, fmt.Errorf("parsing %s: %w", name, err)
	}

	result := extract.Convert(doc, name)
	if err := writeResult(path, result, cfg); err != nil {
		return result, err
	}
	return result, nil
}

func writeResult(path string, result types.ConversionResult, cfg types.BatchConfig) error {
	name := filepath.Base(path)
	dir := filepath.Join(cfg.OutputDir, string(result.Outcome()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	if cfg.CopyOriginals {
		if err := copyFile(path, filepath.Join(dir, name)); err != nil {
			return err
		}
	}

	data, err := json.MarshalIndent(NewRecord(result, time.Now()), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result for %s: %w", name, err)
	}
	out := filepath.Join(dir, name+resultSuffix)
	if err := os.WriteFile(out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copying to %s: %w", dst, err)
	}
	return out.Close()
}

// ConvertBatch converts paths with up to cfg.Workers documents in flight,
// printing one status line per document and a summary to w. A failing
// document never stops the batch. When sink is non-nil every result is
// also saved to it.
func ConvertBatch(ctx context.Context, reg *Registry, paths []string, cfg types.BatchConfig, sink ResultSink, w io.Writer) BatchResult {
	results := make([]*types.ConversionResult, len(paths))
	errs := make([]string, len(paths))

	var mu sync.Mutex
	logf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(w, format, args...)
	}

	var g errgroup.Group
	if cfg.Workers > 0 {
		g.SetLimit(cfg.Workers)
	}
	for i, path := range paths {
		g.Go(func() error {
			name := filepath.Base(path)
			if err := ctx.Err(); err != nil {
				errs[i] = fmt.Sprintf("Error processing filename '%s': %v", path, err)
				logf("failed:  %s (%v)\n", name, err)
				return nil
			}

			p, err := reg.Lookup(path)
			if err == nil {
				var res types.ConversionResult
				res, err = ConvertDocument(ctx, p, path, cfg)
				if err == nil {
					results[i] = &res
				}
			}
			if err != nil {
				errs[i] = fmt.Sprintf("Error processing filename '%s': %v", path, err)
				logf("failed:  %s (%v)\n", name, err)
				return nil
			}

			if sink != nil {
				if err := sink.Save(ctx, *results[i]); err != nil {
					errs[i] = fmt.Sprintf("Error indexing filename '%s': %v", path, err)
				}
			}
			logf("converted: %s (%s, score %d)\n", name, results[i].Outcome(), results[i].ConversionScore)
			return nil
		})
	}
	_ = g.Wait()

	var batch BatchResult
	for i := range paths {
		if results[i] != nil {
			batch.Results = append(batch.Results, *results[i])
		}
		if errs[i] != "" {
			batch.Errors = append(batch.Errors, errs[i])
		}
	}

	fmt.Fprintf(w, "\nProcessed %d docs. %d successful, %d failed. %d had warnings\n",
		batch.Processed(), batch.Successful(), batch.Aborted(), batch.Warnings())
	if batch.HasFailures() {
		fmt.Fprintf(w, "%d errors:\n", len(batch.Errors))
		for _, e := range batch.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
	}
	return batch
}
