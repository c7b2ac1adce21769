// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output persists harvested papers to a timestamped file.
// JSON is the default format; YAML and SQLite are also supported.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

// filePrefix and timestampLayout give names like arxiv_clean_20260314_091502.json.
const (
	filePrefix      = "arxiv_clean_"
	timestampLayout = "20060102_150405"
)

// Result describes a written output file.
type Result struct {
	Path  string
	Bytes int64
	Count int
}

// SizeMB returns the file size in mebibytes.
func (r Result) SizeMB() float64 {
	return float64(r.Bytes) / (1024 * 1024)
}

// FileName returns the output file name for format at time now.
func FileName(format types.OutputFormat, now time.Time) (string, error) {
	ext, err := extension(format)
	if err != nil {
		return "", err
	}
	return filePrefix + now.Format(timestampLayout) + ext, nil
}

func extension(format types.OutputFormat) (string, error) {
	switch format {
	case types.FormatJSON, "":
		return ".json", nil
	case types.FormatYAML:
		return ".yaml", nil
	case types.FormatSQLite:
		return ".db", nil
	default:
		return "", fmt.Errorf("unsupported output format %q: use json, yaml, or sqlite", format)
	}
}

// Save writes papers to dir in the configured format, naming the file from
// now. The file is written to a temporary name and renamed on success, so a
// failed write leaves nothing behind.
func Save(cfg types.OutputConfig, papers []types.Paper, now time.Time) (Result, error) {
	name, err := FileName(cfg.Format, now)
	if err != nil {
		return Result{}, err
	}
	dir := cfg.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("creating output directory %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)

	switch cfg.Format {
	case types.FormatSQLite:
		err = writeAtomic(path, func(tmpPath string) error {
			return writeSQLite(tmpPath, papers)
		})
	case types.FormatYAML:
		err = writeAtomic(path, encodeTo(papers, WriteYAML))
	default:
		err = writeAtomic(path, encodeTo(papers, WriteJSON))
	}
	if err != nil {
		return Result{}, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return Result{}, fmt.Errorf("stat %s: %w", path, err)
	}
	return Result{Path: path, Bytes: info.Size(), Count: len(papers)}, nil
}

// WriteJSON writes papers as a pretty-printed JSON array. Non-ASCII and HTML
// characters are written as-is.
func WriteJSON(w io.Writer, papers []types.Paper) error {
	if papers == nil {
		papers = []types.Paper{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(papers)
}

// WriteYAML writes papers as a YAML sequence.
func WriteYAML(w io.Writer, papers []types.Paper) error {
	if papers == nil {
		papers = []types.Paper{}
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(papers); err != nil {
		return err
	}
	return enc.Close()
}

// WriteSample writes a single paper as indented JSON, for previewing a run.
func WriteSample(w io.Writer, p types.Paper) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(p)
}

// encodeTo adapts a stream encoder to writeAtomic.
func encodeTo(papers []types.Paper, enc func(io.Writer, []types.Paper) error) func(string) error {
	return func(tmpPath string) error {
		f, err := os.Create(tmpPath)
		if err != nil {
			return err
		}
		encErr := enc(f, papers)
		closeErr := f.Close()
		if encErr != nil {
			return fmt.Errorf("encoding papers: %w", encErr)
		}
		return closeErr
	}
}

// writeAtomic calls write with a temporary path next to destPath and renames
// it into place on success.
func writeAtomic(destPath string, write func(tmpPath string) error) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(destPath), ".output-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	if err := write(tmpPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", filepath.Base(destPath), err)
	}
	if err := os.Rename(tmpPath, destPath); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
