//go:build mage

// Package main contains Mage build targets for arxiv-harvest developer tooling.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/magefile/mage/sh"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-harvest/internal/output"
	"github.com/pdiddy/arxiv-harvest/pkg/types"
)

const (
	binDir  = "bin"
	binName = "arxiv-harvest"
	cmdPkg  = "./cmd/arxiv-harvest"

	outputDir = "output"
)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	out := filepath.Join(binDir, binName)
	if err := sh.RunV("go", "build", "-o", out, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", out)
	return nil
}

// Test runs the unit tests for every package.
func Test() error {
	if err := sh.RunV("go", "test", "./..."); err != nil {
		return fmt.Errorf("go test: %w", err)
	}
	return nil
}

// Stats prints a summary of every harvested file in output/: record count,
// distinct urls and size.
func Stats() error {
	matches, err := filepath.Glob(filepath.Join(outputDir, "arxiv_clean_*"))
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Printf("No harvested files in %s/\n", outputDir)
		return nil
	}
	sort.Strings(matches)

	total := 0
	for _, path := range matches {
		papers, err := loadPapers(path)
		if err != nil {
			return err
		}
		info, err := os.Stat(path)
		if err != nil {
			return err
		}
		urls := make(map[string]struct{}, len(papers))
		for _, p := range papers {
			urls[p.URL] = struct{}{}
		}
		total += len(papers)
		fmt.Printf("%-45s %6d papers %6d distinct %8.2f MB\n",
			filepath.Base(path), len(papers), len(urls), float64(info.Size())/(1024*1024))
	}
	fmt.Printf("Total papers: %d in %d files\n", total, len(matches))
	return nil
}

// loadPapers reads a file written by the harvest command, picking the decoder
// from its extension.
func loadPapers(path string) ([]types.Paper, error) {
	if filepath.Ext(path) == ".db" {
		return output.ReadSQLite(path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var papers []types.Paper
	switch filepath.Ext(path) {
	case ".json":
		err = json.Unmarshal(data, &papers)
	case ".yaml":
		err = yaml.Unmarshal(data, &papers)
	default:
		return nil, fmt.Errorf("%s: unknown output format", path)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return papers, nil
}
