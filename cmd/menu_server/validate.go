package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/menu-publisher/internal/templates"
	"github.com/jonathan/menu-publisher/internal/types"
	"github.com/jonathan/menu-publisher/internal/validation"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Audit a layout document against its template",
	Long: `Checks a generated layout document for structural violations: tiles
outside their region, overlapping tiles, widowed section headers, and items
placed outside the body. Exits non-zero when violations are found.`,
	RunE: runValidate,
}

var (
	validateDocument string
	validateTemplate string
)

func init() {
	validateCmd.Flags().StringVarP(&validateDocument, "document", "d", "", "Path to layout document JSON file (required)")
	validateCmd.Flags().StringVarP(&validateTemplate, "template", "t", "", "Path to template JSON file (built-in default when omitted)")
	_ = validateCmd.MarkFlagRequired("document")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(_ *cobra.Command, _ []string) error {
	data, err := os.ReadFile(validateDocument)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", validateDocument, err)
	}

	var doc types.LayoutDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse layout document: %w", err)
	}

	var tpl *types.Template
	if validateTemplate != "" {
		tpl, err = templates.Load(validateTemplate)
		if err != nil {
			return err
		}
	} else {
		tpl = templates.Default()
	}

	violations := validation.ValidateDocument(&doc, tpl)
	if len(violations) == 0 {
		fmt.Printf("OK: %d page(s), no violations\n", len(doc.Pages))
		return nil
	}

	for _, v := range violations {
		fmt.Printf("%s page %d: %s\n", v.Code, v.PageIndex, v.Message)
	}
	return fmt.Errorf("%d violation(s) found", len(violations))
}
