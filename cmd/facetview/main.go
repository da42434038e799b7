// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Command facetview builds a browsable display from a CSV file.
//
// Usage:
//
//	facetview build --csv data.csv --name "My Display" --output ./out
//	facetview build --csv data.csv --name fruit --config display.yaml
//
// The optional YAML config pre-specifies layout, labels, sorting, filters,
// and panel options; see config.go for the schema.
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/facetview"
	"github.com/AleutianAI/facetview/dataset"
	"github.com/AleutianAI/facetview/pkg/logging"
)

var (
	rootCmd = &cobra.Command{
		Use:   "facetview",
		Short: "A CLI to build browsable faceted displays from tabular data",
		Long: `Facetview turns a table with one visual panel per row (image paths,
URLs, or rendered figures) into a self-contained static display that can be
browsed, sorted, and filtered in a web viewer.`,
	}

	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Build a display from a CSV file",
		Long: `Reads the CSV, infers panels, metas, and state, and writes the
static viewer artifacts to the output directory.`,
		Run: runBuildCommand,
	}

	csvPath     string
	displayName string
	description string
	outputPath  string
	configPath  string
	asJSON      bool
	quiet       bool
	noProgress  bool
	force       bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error executing command: %v", err)
	}
}

func init() {
	buildCmd.Flags().StringVar(&csvPath, "csv", "", "Path to the input CSV file (required)")
	buildCmd.Flags().StringVar(&displayName, "name", "", "Name of the display (required)")
	buildCmd.Flags().StringVar(&description, "description", "", "Description of the display")
	buildCmd.Flags().StringVar(&outputPath, "output", "", "Directory to write the display into (default: temp dir)")
	buildCmd.Flags().StringVar(&configPath, "config", "", "Optional YAML display configuration")
	buildCmd.Flags().BoolVar(&asJSON, "json", false, "Write .json app files instead of .jsonp")
	buildCmd.Flags().BoolVar(&quiet, "quiet", false, "Suppress diagnostic output")
	buildCmd.Flags().BoolVar(&noProgress, "no-progress", false, "Disable the progress bar")
	buildCmd.Flags().BoolVar(&force, "force", false, "Re-write panels even if already written")
	_ = buildCmd.MarkFlagRequired("csv")
	_ = buildCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(buildCmd)
}

func runBuildCommand(cmd *cobra.Command, args []string) {
	logger := logging.New(logging.Config{Service: "facetview", Quiet: quiet})

	ds, err := dataset.ReadCSV(csvPath)
	if err != nil {
		fatalf("Error reading %s: %v", csvPath, err)
	}

	opts := []facetview.Option{
		facetview.WithPath(outputPath),
		facetview.WithLogger(logger),
		facetview.WithProgress(!noProgress),
	}
	if description != "" {
		opts = append(opts, facetview.WithDescription(description))
	}

	var cfg *BuildConfig
	if configPath != "" {
		cfg, err = LoadBuildConfig(configPath)
		if err != nil {
			fatalf("Error loading config %s: %v", configPath, err)
		}
		opts = append(opts, cfg.DisplayOptions()...)
	}

	display, err := facetview.New(ds, displayName, opts...)
	if err != nil {
		fatalf("Error creating display: %v", err)
	}

	if cfg != nil {
		display, err = cfg.Apply(display)
		if err != nil {
			fatalf("Error applying config: %v", err)
		}
	}

	display, err = display.WriteDisplay(force, !asJSON)
	if err != nil {
		fatalf("Error writing display: %v", err)
	}

	fmt.Printf("Display written to %s\n", display.OutputPath())
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
