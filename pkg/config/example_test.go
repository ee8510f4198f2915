package config_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/walteh/rewriterc/pkg/config"
)

func ExampleLoad_yaml() {
	ctx := context.Background()
	// Create a temporary YAML config file
	configYAML := `
base_dir: src/pages
files:
  - Transaction.jsx
  - Products.jsx
rules:
  - name: card-bg
    pattern: '\bbg-white\b(?!\s+dark:)'
    replace: bg-white dark:bg-gray-800
`

	tmpDir, err := os.MkdirTemp("", "rewriterc-example")
	if err != nil {
		fmt.Printf("Error creating dir: %v\n", err)
		return
	}
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, ".rewriterc.yaml")
	if err := os.WriteFile(configPath, []byte(configYAML), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	// Load and validate the config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	rel, _ := filepath.Rel(tmpDir, cfg.BaseDir)
	fmt.Printf("Loaded %d rules for %d files\n", len(cfg.Rules), len(cfg.Files))
	fmt.Printf("First rule: %s\n", cfg.Rules[0].Name)
	fmt.Printf("Base dir: %s\n", filepath.ToSlash(rel))

	// Output:
	// Loaded 1 rules for 2 files
	// First rule: card-bg
	// Base dir: src/pages
}

func ExampleLoad_hcl() {
	ctx := context.Background()
	// Create a temporary HCL config file
	configHCL := `
globs = ["**/*.jsx"]

rule "card-bg" {
  pattern = "\\bbg-white\\b(?!\\s+dark:)"
  replace = "bg-white dark:bg-gray-800"
}

options {
  max_passes = 2
}
`

	tmpDir, err := os.MkdirTemp("", "rewriterc-example")
	if err != nil {
		fmt.Printf("Error creating dir: %v\n", err)
		return
	}
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "rewriterc.hcl")
	if err := os.WriteFile(configPath, []byte(configHCL), 0644); err != nil {
		fmt.Printf("Error writing config: %v\n", err)
		return
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		return
	}

	fmt.Printf("Rule %s: %s\n", cfg.Rules[0].Name, cfg.Rules[0].Pattern)
	fmt.Printf("Max passes: %d\n", cfg.Options.MaxPasses)

	// Output:
	// Rule card-bg: \bbg-white\b(?!\s+dark:)
	// Max passes: 2
}
