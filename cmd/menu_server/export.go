package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/menu-publisher/internal/pipeline"
	"github.com/jonathan/menu-publisher/internal/types"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Generate a menu layout and export it to specific formats",
	Long: `Like generate, but at least one --format is required. Useful when the
layout itself is already known good and only the artifacts are wanted.`,
	RunE: runExport,
}

var (
	expMenu        string
	expTemplate    string
	expContext     string
	expFormats     []string
	expOutputDir   string
	expHTMLShell   string
	expNoCache     bool
	expVerbose     bool
	expDatabaseURL string
)

func init() {
	exportCmd.Flags().StringVarP(&expMenu, "menu", "m", "", "Path to menu JSON file")
	exportCmd.Flags().StringVarP(&expTemplate, "template", "t", "", "Path to template JSON file (built-in default when omitted)")
	exportCmd.Flags().StringVarP(&expContext, "context", "c", "desktop", "Output context: mobile, tablet, desktop, print")
	exportCmd.Flags().StringSliceVarP(&expFormats, "format", "f", nil, "Export formats: html, pdf, png (repeatable)")
	exportCmd.Flags().StringVarP(&expOutputDir, "out", "o", "out", "Output directory for exported artifacts")
	exportCmd.Flags().StringVar(&expHTMLShell, "html-shell", "", "Path to a custom HTML render template")
	exportCmd.Flags().BoolVar(&expNoCache, "no-cache", false, "Disable the layout/export cache")
	exportCmd.Flags().BoolVarP(&expVerbose, "verbose", "v", false, "Print detailed debug information")
	exportCmd.Flags().StringVar(&expDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	if err := exportCmd.MarkFlagRequired("menu"); err != nil {
		panic(err)
	}

	rootCmd.AddCommand(exportCmd)
}

func runExport(_ *cobra.Command, _ []string) error {
	if len(expFormats) == 0 {
		return fmt.Errorf("--format is required: pick one or more of html, pdf, png")
	}
	if expDatabaseURL == "" {
		expDatabaseURL = os.Getenv("DATABASE_URL")
	}

	level := log.InfoLevel
	if expVerbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})

	result, err := pipeline.Run(context.Background(), pipeline.RunOptions{
		MenuPath:     expMenu,
		TemplatePath: expTemplate,
		Context:      types.OutputContext(expContext),
		Formats:      expFormats,
		OutputDir:    expOutputDir,
		HTMLShell:    expHTMLShell,
		NoCache:      expNoCache,
		DatabaseURL:  expDatabaseURL,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	for format, path := range result.OutputFiles {
		fmt.Printf("  %s: %s\n", format, path)
	}
	return nil
}
