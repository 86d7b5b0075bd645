// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// WriteMarkdown writes s as a Markdown document with GFM tables.
func WriteMarkdown(w io.Writer, s Summary) error {
	var b strings.Builder

	b.WriteString("# Work instruction conversion report\n\n")
	fmt.Fprintf(&b, "Generated %s. %d documents, average score %.1f.\n\n",
		s.GeneratedAt.Format(time.RFC3339), s.Total, s.AvgScore)

	b.WriteString("## Outcomes\n\n")
	b.WriteString("| Outcome | Documents |\n|---|---:|\n")
	for _, o := range Outcomes {
		fmt.Fprintf(&b, "| %s | %d |\n", o, s.Counts[o])
	}

	if len(s.Documents) > 0 {
		b.WriteString("\n## Documents\n\n")
		b.WriteString("| Document | Outcome | Score | Items | Violations | Penalties |\n|---|---|---:|---:|---|---|\n")
		for _, d := range s.Documents {
			fmt.Fprintf(&b, "| %s | %s | %d | %d | %s | %s |\n",
				cell(d.Filename), d.Outcome, d.Score, d.Items,
				cell(strings.Join(d.Violations, "; ")), cell(strings.Join(d.Penalties, "; ")))
		}
	}

	if len(s.Rules) > 0 {
		b.WriteString("\n## Rules\n\n")
		b.WriteString("| Rule | Documents |\n|---|---:|\n")
		for _, r := range s.Rules {
			fmt.Fprintf(&b, "| %s | %d |\n", cell(r.Rule), r.Count)
		}
	}

	if len(s.Errors) > 0 {
		b.WriteString("\n## Errors\n\n")
		for _, e := range s.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// cell escapes text for a GFM table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}

const htmlHead = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Work instruction conversion report</title>
<style>
body { font-family: sans-serif; margin: 2em; }
table { border-collapse: collapse; margin-bottom: 1.5em; }
th, td { border: 1px solid #bbb; padding: 0.3em 0.6em; }
th { background: #eee; }
</style>
</head>
<body>
`

const htmlFoot = "</body>\n</html>\n"

// WriteHTML renders the Markdown report to a standalone HTML page.
func WriteHTML(w io.Writer, s Summary) error {
	var src bytes.Buffer
	if err := WriteMarkdown(&src, s); err != nil {
		return err
	}

	md := goldmark.New(goldmark.WithExtensions(extension.Table))
	var body bytes.Buffer
	if err := md.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("rendering markdown: %w", err)
	}

	for _, part := range [][]byte{[]byte(htmlHead), body.Bytes(), []byte(htmlFoot)} {
		if _, err := w.Write(part); err != nil {
			return err
		}
	}
	return nil
}
