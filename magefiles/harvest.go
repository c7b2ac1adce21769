//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Harvest builds the CLI and collects papers for the category in
// $CATEGORY (default cs.CL), writing the output under output/.
func Harvest() error {
	mg.Deps(Build)

	category := os.Getenv("CATEGORY")
	if category == "" {
		category = "cs.CL"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", outputDir, err)
	}
	if err := sh.RunV(filepath.Join(binDir, binName), "harvest", category, "--output-dir", outputDir); err != nil {
		return fmt.Errorf("harvest %s: %w", category, err)
	}
	return nil
}
