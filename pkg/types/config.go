package types

import (
	"runtime"
	"time"
)

// Default values applied by EngineConfig.Defaults.
const (
	DefaultInputDir     = "documents"
	DefaultOutputDir    = "output"
	DefaultTimeout      = 2 * time.Minute
	DefaultLegacyImage  = "instruction-engine/soffice:latest"
	DefaultReportFormat = "md"
)

// BatchConfig holds settings for a batch conversion run.
type BatchConfig struct {
	// InputDir is scanned (top level only) for .doc and .docx files.
	InputDir string `json:"input_dir" yaml:"input_dir" mapstructure:"input_dir"`

	// OutputDir receives one subdirectory per outcome (Success,
	// SuccessWithWarnings, Aborted) holding result records.
	OutputDir string `json:"output_dir" yaml:"output_dir" mapstructure:"output_dir"`

	// Workers bounds the number of documents converted in parallel
	// (default GOMAXPROCS).
	Workers int `json:"workers" yaml:"workers" mapstructure:"workers"`

	// Timeout limits the time spent parsing a single document (default 2m).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// CopyOriginals controls whether the source document is copied next to
	// its result record.
	CopyOriginals bool `json:"copy_originals" yaml:"copy_originals" mapstructure:"copy_originals"`
}

// LegacyConfig holds settings for legacy .doc normalisation.
type LegacyConfig struct {
	// Enabled turns on .doc support. It requires docker or podman.
	Enabled bool `json:"enabled" yaml:"enabled" mapstructure:"enabled"`

	// Image is the container image that reads a .doc on stdin and writes
	// the equivalent .docx on stdout.
	Image string `json:"image" yaml:"image" mapstructure:"image"`
}

// StoreConfig holds settings for the SQLite result index.
type StoreConfig struct {
	// Dir holds results.db. An empty Dir disables the index during
	// conversion.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`
}

// ReportConfig holds settings for batch reports.
type ReportConfig struct {
	// Dir receives the report files. An empty Dir disables reporting.
	Dir string `json:"dir" yaml:"dir" mapstructure:"dir"`

	// Formats lists the report formats to write: md, html, xlsx.
	Formats []string `json:"formats" yaml:"formats" mapstructure:"formats"`
}

// EngineConfig groups all configuration for the CLI.
type EngineConfig struct {
	Batch    BatchConfig  `json:"batch" yaml:"batch" mapstructure:"batch"`
	Legacy   LegacyConfig `json:"legacy" yaml:"legacy" mapstructure:"legacy"`
	Store    StoreConfig  `json:"store" yaml:"store" mapstructure:"store"`
	Report   ReportConfig `json:"report" yaml:"report" mapstructure:"report"`
	LogLevel string       `json:"log_level" yaml:"log_level" mapstructure:"log_level"`
}

// Defaults fills zero values with the package defaults and returns the
// updated configuration.
func (c EngineConfig) Defaults() EngineConfig {
	if c.Batch.InputDir == "" {
		c.Batch.InputDir = DefaultInputDir
	}
	if c.Batch.OutputDir == "" {
		c.Batch.OutputDir = DefaultOutputDir
	}
	if c.Batch.Workers <= 0 {
		c.Batch.Workers = runtime.GOMAXPROCS(0)
	}
	if c.Batch.Timeout <= 0 {
		c.Batch.Timeout = DefaultTimeout
	}
	if c.Legacy.Image == "" {
		c.Legacy.Image = DefaultLegacyImage
	}
	if c.Report.Dir != "" && len(c.Report.Formats) == 0 {
		c.Report.Formats = []string{DefaultReportFormat}
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	return c
}
