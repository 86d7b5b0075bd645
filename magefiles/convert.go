//go:build mage

package main

import (
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Convert builds the CLI and converts documents/ into output/ with a
// Markdown and Excel report.
func Convert() error {
	mg.Deps(Init, Build)
	return sh.RunV(filepath.Join(binDir, binName), "convert",
		"--input-dir", "documents",
		"--output-dir", "output",
		"--store", filepath.Join("output", "index"),
		"--report-dir", filepath.Join("output", "report"),
		"--report-format", "md,xlsx",
	)
}

// Image builds the .doc converter image used by "convert --legacy".
func Image() error {
	return sh.RunV("docker", "build", "-t", "instruction-engine/soffice:latest", filepath.Join("build", "soffice"))
}
