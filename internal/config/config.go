// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Menu        string `json:"menu,omitempty"`         // Path to menu JSON file
	Template    string `json:"template,omitempty"`     // Path to template JSON file
	TemplateDir string `json:"template_dir,omitempty"` // Directory of template JSON files to register
	OutputDir   string `json:"output_dir,omitempty"`   // Directory for exported artifacts

	// Generation
	Context   string   `json:"context,omitempty"`   // Output context: mobile, tablet, desktop, print
	Formats   []string `json:"formats,omitempty"`   // Export formats: html, pdf, png
	HTMLShell string   `json:"html_shell,omitempty"` // Optional override for the HTML render template

	// Behavior
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	NoCache     bool   `json:"no_cache,omitempty"`     // Disable the layout/export cache
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// validContexts are the output contexts the engine understands.
var validContexts = map[string]bool{
	"": true, "mobile": true, "tablet": true, "desktop": true, "print": true,
}

// validFormats are the export formats the renderer understands.
var validFormats = map[string]bool{"html": true, "pdf": true, "png": true}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	if !validContexts[c.Context] {
		return fmt.Errorf("config error: unknown context %q", c.Context)
	}
	for _, f := range c.Formats {
		if !validFormats[f] {
			return fmt.Errorf("config error: unknown export format %q", f)
		}
	}

	// Validate file paths exist (if specified)
	if c.Menu != "" {
		if _, err := os.Stat(c.Menu); os.IsNotExist(err) {
			return fmt.Errorf("config error: menu file not found: %s", c.Menu)
		}
	}
	if c.Template != "" {
		if _, err := os.Stat(c.Template); os.IsNotExist(err) {
			return fmt.Errorf("config error: template file not found: %s", c.Template)
		}
	}
	if c.TemplateDir != "" {
		if _, err := os.Stat(c.TemplateDir); os.IsNotExist(err) {
			return fmt.Errorf("config error: template directory not found: %s", c.TemplateDir)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Menu == "" {
		result.Menu = defaults.Menu
	}
	if result.Template == "" {
		result.Template = defaults.Template
	}
	if result.TemplateDir == "" {
		result.TemplateDir = defaults.TemplateDir
	}
	if result.OutputDir == "" {
		result.OutputDir = defaults.OutputDir
	}
	if result.Context == "" {
		result.Context = defaults.Context
	}
	if len(result.Formats) == 0 {
		result.Formats = defaults.Formats
	}
	if result.HTMLShell == "" {
		result.HTMLShell = defaults.HTMLShell
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
