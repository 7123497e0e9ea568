// Package rendering turns layout documents into HTML and exports them to
// PDF or raster images.
package rendering

import "fmt"

// TemplateError represents an error parsing or executing the HTML template.
type TemplateError struct {
	Message string
	Cause   error
}

func (e *TemplateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("template error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("template error: %s", e.Message)
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError represents a general rendering failure.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// ExportError represents a failure driving the headless browser export.
type ExportError struct {
	Format  string
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s export error: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s export error: %s", e.Format, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}
