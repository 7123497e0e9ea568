package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jonathan/menu-publisher/internal/config"
	"github.com/jonathan/menu-publisher/internal/pipeline"
	"github.com/jonathan/menu-publisher/internal/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a menu layout and export it",
	Long: `Loads a menu JSON file, packs it into the template grid, and writes the
exported artifacts to the output directory.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath  string
	genMenu        string
	genTemplate    string
	genContext     string
	genFormats     []string
	genOutputDir   string
	genHTMLShell   string
	genNoCache     bool
	genVerbose     bool
	genDatabaseURL string
)

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCmd.Flags().StringVarP(&genMenu, "menu", "m", "", "Path to menu JSON file")
	generateCmd.Flags().StringVarP(&genTemplate, "template", "t", "", "Path to template JSON file (built-in default when omitted)")
	generateCmd.Flags().StringVarP(&genContext, "context", "c", "", "Output context: mobile, tablet, desktop, print")
	generateCmd.Flags().StringSliceVarP(&genFormats, "format", "f", nil, "Export formats: html, pdf, png (repeatable)")
	generateCmd.Flags().StringVarP(&genOutputDir, "out", "o", "", "Output directory for exported artifacts")
	generateCmd.Flags().StringVar(&genHTMLShell, "html-shell", "", "Path to a custom HTML render template")
	generateCmd.Flags().BoolVar(&genNoCache, "no-cache", false, "Disable the layout/export cache")
	generateCmd.Flags().BoolVarP(&genVerbose, "verbose", "v", false, "Print detailed debug information")

	// Database URL for layout persistence
	generateCmd.Flags().StringVar(&genDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Load config file if provided; flags override its values.
	var fileCfg config.Config
	if genConfigPath != "" {
		loaded, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		fileCfg = *loaded
	}

	cfg := config.Config{
		Menu:        genMenu,
		Template:    genTemplate,
		Context:     genContext,
		Formats:     genFormats,
		OutputDir:   genOutputDir,
		HTMLShell:   genHTMLShell,
		DatabaseURL: genDatabaseURL,
	}
	cfg = cfg.MergeWithDefaults(fileCfg)
	cfg.Verbose = genVerbose || fileCfg.Verbose
	cfg.NoCache = genNoCache || fileCfg.NoCache

	if cfg.Menu == "" {
		return fmt.Errorf("--menu is required (or set \"menu\" in the config file)")
	}
	if cfg.Context == "" {
		cfg.Context = "desktop"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "out"
	}
	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := log.InfoLevel
	if cfg.Verbose {
		level = log.DebugLevel
	}
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})

	result, err := pipeline.Run(ctx, pipeline.RunOptions{
		MenuPath:     cfg.Menu,
		TemplatePath: cfg.Template,
		Context:      types.OutputContext(cfg.Context),
		Formats:      cfg.Formats,
		OutputDir:    cfg.OutputDir,
		HTMLShell:    cfg.HTMLShell,
		NoCache:      cfg.NoCache,
		DatabaseURL:  cfg.DatabaseURL,
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Generated %d page(s)\n", result.PageCount)
	for format, path := range result.OutputFiles {
		fmt.Printf("  %s: %s\n", format, path)
	}
	return nil
}
